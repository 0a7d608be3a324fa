package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gridify/internal/logger"
	"gridify/internal/model"
	"gridify/internal/util"
)

// Fetcher retrieves one page of records.
type Fetcher interface {
	FetchPage(ctx context.Context, page int) ([]model.Record, error)
}

// Pager owns paged retrieval: it accumulates pages into one growing list and
// tracks loading, the last error and the header list.
type Pager struct {
	fetcher Fetcher
	timeout time.Duration
	log     *logger.Logger

	page    int
	started bool
	fetch   debouncer
	issued  int
	// requestID tags the latest issued request; it is unique across pagers.
	requestID string

	records []model.Record
	headers []string
	loading bool
	err     error
}

// NewPager creates a pager reading from fetcher.
func NewPager(fetcher Fetcher, timeout time.Duration, log *logger.Logger) *Pager {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Pager{
		fetcher: fetcher,
		timeout: timeout,
		log:     log,
		page:    1,
		fetch:   newDebouncer(debounceFetch, fetchDelay),
	}
}

// SetPage moves the page cursor and schedules a debounced fetch. Setting the
// current page again is a no-op once the first fetch has been scheduled.
func (p *Pager) SetPage(page int) tea.Cmd {
	if page < 1 {
		page = 1
	}
	if p.started && page == p.page {
		return nil
	}
	p.started = true
	p.page = page
	return p.fetch.Schedule()
}

// HandleTick issues the request when tick is the latest fetch tick.
func (p *Pager) HandleTick(tick debounceTick) tea.Cmd {
	if !p.fetch.Fires(tick) {
		return nil
	}
	p.issued++
	p.loading = true
	p.requestID = util.NewKey()
	p.log.WithFields(map[string]any{"page": p.page, "seq": p.issued, "request_id": p.requestID}).Debug("fetching page")
	return fetchPageCmd(p.fetcher, p.page, p.issued, p.requestID, p.timeout)
}

// latest reports whether a response belongs to the latest issued request.
func (p *Pager) latest(seq, page int, requestID string) bool {
	return p.requestID != "" && requestID == p.requestID && seq == p.issued && page == p.page
}

// HandleLoaded appends a page. Responses from superseded requests are
// dropped and false is returned.
func (p *Pager) HandleLoaded(msg model.PageLoadedMsg) bool {
	if !p.latest(msg.Seq, msg.Page, msg.RequestID) {
		p.log.WithFields(map[string]any{"page": msg.Page, "seq": msg.Seq, "request_id": msg.RequestID}).Debug("dropping stale page")
		return false
	}
	p.loading = false
	p.err = nil
	if len(msg.Records) == 0 {
		return true
	}
	if len(p.headers) == 0 && msg.Records[0].Len() > 0 {
		p.headers = msg.Records[0].Keys()
	}
	records := make([]model.Record, 0, len(p.records)+len(msg.Records))
	records = append(records, p.records...)
	p.records = append(records, msg.Records...)
	return true
}

// HandleFailed records a failed fetch. Records are left unchanged.
func (p *Pager) HandleFailed(msg model.PageFailedMsg) bool {
	if !p.latest(msg.Seq, msg.Page, msg.RequestID) {
		p.log.WithFields(map[string]any{"page": msg.Page, "seq": msg.Seq, "request_id": msg.RequestID}).Debug("dropping stale failure")
		return false
	}
	p.loading = false
	p.err = msg.Err
	p.log.WithFields(map[string]any{"page": msg.Page, "request_id": msg.RequestID}).Error(msg.Err, "page fetch failed")
	return true
}

// Page returns the page cursor.
func (p *Pager) Page() int {
	return p.page
}

// Records returns the accumulated records.
func (p *Pager) Records() []model.Record {
	return p.records
}

// Headers returns the header list captured from the first non-empty page.
func (p *Pager) Headers() []string {
	return p.headers
}

// Loading reports whether a request is in flight.
func (p *Pager) Loading() bool {
	return p.loading
}

// Err returns the last fetch error.
func (p *Pager) Err() error {
	return p.err
}

func fetchPageCmd(fetcher Fetcher, page, seq int, requestID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		records, err := fetcher.FetchPage(ctx, page)
		if err != nil {
			return model.PageFailedMsg{Seq: seq, Page: page, RequestID: requestID, Err: err}
		}
		return model.PageLoadedMsg{Seq: seq, Page: page, RequestID: requestID, Records: records}
	}
}
