package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"gridify/internal/logger"
	"gridify/internal/model"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 32 << 20

// PageCache stores raw page bodies between runs.
type PageCache interface {
	GetPage(ctx context.Context, url string, page int) ([]byte, bool, error)
	PutPage(ctx context.Context, url string, page int, body []byte) error
}

// Options configures a Client.
type Options struct {
	Timeout  time.Duration
	RetryMax int
	Cache    PageCache
	Logger   *logger.Logger
}

// Client fetches pages of records from a REST endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      PageCache
	log        *logger.Logger
}

// NewClient creates a client for baseURL. Requests are retried on transient
// failures; the last response is passed through once retries run out.
func NewClient(baseURL string, opts Options) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = opts.Timeout
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = &retryLogger{log: log}

	return &Client{
		baseURL:    baseURL,
		httpClient: retryClient.StandardClient(),
		cache:      opts.Cache,
		log:        log,
	}, nil
}

// BaseURL returns the endpoint the client reads from.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PageURL returns the request URL for page.
func (c *Client) PageURL(page int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid API URL: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchPage retrieves one page of records.
//
// A body that is not a JSON array yields ErrFallback. A non-2xx response
// with a body yields *APIError; any other failure yields ErrFallback.
func (c *Client) FetchPage(ctx context.Context, page int) ([]model.Record, error) {
	log := c.log.WithFields(map[string]any{"page": page})

	if c.cache != nil {
		body, ok, err := c.cache.GetPage(ctx, c.baseURL, page)
		if err != nil {
			log.Error(err, "page cache lookup failed")
		} else if ok {
			if records, err := model.DecodePage(body); err == nil {
				log.Debug("page served from cache")
				return records, nil
			}
		}
	}

	reqURL, err := c.PageURL(page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Error(err, "request creation failed")
		return nil, ErrFallback
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error(err, "network error")
		return nil, ErrFallback
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Error(err, "failed to read response body")
		return nil, ErrFallback
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload := strings.TrimSpace(string(body))
		log.WithFields(map[string]any{"status": resp.StatusCode}).Warn("API returned an error status")
		if payload == "" {
			return nil, ErrFallback
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Payload: payload}
	}

	records, err := model.DecodePage(body)
	if err != nil {
		log.Error(err, "malformed page body")
		return nil, ErrFallback
	}

	if c.cache != nil {
		if err := c.cache.PutPage(ctx, c.baseURL, page, bytes.TrimSpace(body)); err != nil {
			log.Error(err, "page cache write failed")
		}
	}

	log.WithFields(map[string]any{"records": len(records)}).Debug("page fetched")
	return records, nil
}
