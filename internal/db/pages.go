package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PageCache stores raw page bodies keyed by endpoint and page number.
type PageCache struct {
	db     *sql.DB
	maxAge time.Duration
}

// NewPageCache wraps an open database. Entries older than maxAge are
// treated as missing; zero keeps entries forever.
func NewPageCache(database *sql.DB, maxAge time.Duration) *PageCache {
	return &PageCache{db: database, maxAge: maxAge}
}

// GetPage returns the cached body for (url, page) if present and fresh.
func (c *PageCache) GetPage(ctx context.Context, url string, page int) ([]byte, bool, error) {
	var body []byte
	var fetchedAt string
	err := c.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM pages WHERE url = ? AND page = ?`,
		url, page,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached page: %w", err)
	}

	if c.maxAge > 0 {
		t, err := time.Parse("2006-01-02T15:04:05.000Z", fetchedAt)
		if err != nil || time.Since(t) > c.maxAge {
			return nil, false, nil
		}
	}
	return body, true, nil
}

// PutPage stores or replaces the body for (url, page).
func (c *PageCache) PutPage(ctx context.Context, url string, page int, body []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO pages (url, page, body, fetched_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(url, page) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		url, page, body,
	)
	if err != nil {
		return fmt.Errorf("failed to write cached page: %w", err)
	}
	return nil
}

// Clear removes every cached page for url.
func (c *PageCache) Clear(ctx context.Context, url string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM pages WHERE url = ?`, url); err != nil {
		return fmt.Errorf("failed to clear cached pages: %w", err)
	}
	return nil
}
