package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"gridify/internal/model"
	"gridify/internal/source"

	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[int][]model.Record
	errs  map[int]error
	calls []int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[int][]model.Record{}, errs: map[int]error{}}
}

func (f *fakeFetcher) FetchPage(_ context.Context, page int) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if err := f.errs[page]; err != nil {
		return nil, err
	}
	return f.pages[page], nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func rec(keys []string, values ...any) model.Record {
	m := make(map[string]any, len(keys))
	for i, k := range keys {
		if i < len(values) {
			m[k] = values[i]
		}
	}
	return model.NewRecord(keys, m)
}

// loadPage drives one SetPage -> tick -> response cycle.
func loadPage(t *testing.T, p *Pager, page int) {
	t.Helper()
	require.NotNil(t, p.SetPage(page))
	cmd := p.HandleTick(p.fetch.pending())
	require.NotNil(t, cmd)
	require.True(t, p.Loading())

	switch msg := cmd().(type) {
	case model.PageLoadedMsg:
		require.True(t, p.HandleLoaded(msg))
	case model.PageFailedMsg:
		require.True(t, p.HandleFailed(msg))
	default:
		t.Fatalf("unexpected message %T", msg)
	}
	require.False(t, p.Loading())
}

func TestPagerAppendsPagesAndKeepsFirstHeaders(t *testing.T) {
	f := newFakeFetcher()
	f.pages[1] = []model.Record{rec([]string{"a", "b"}, 1, 2)}
	f.pages[2] = []model.Record{rec([]string{"c", "d", "e"}, 3, 4, 5), rec([]string{"c", "d", "e"}, 6, 7, 8)}

	p := NewPager(f, time.Second, nil)
	loadPage(t, p, 1)
	loadPage(t, p, 2)

	require.Len(t, p.Records(), 3)
	require.Equal(t, []string{"a", "b"}, p.Headers())
	require.NoError(t, p.Err())
	require.Equal(t, 2, p.Page())
}

func TestPagerCapturesHeadersFromFirstNonEmptyPage(t *testing.T) {
	f := newFakeFetcher()
	f.pages[2] = []model.Record{rec([]string{"x", "y"}, 1, 2)}

	p := NewPager(f, time.Second, nil)
	loadPage(t, p, 1)
	require.Empty(t, p.Headers())

	loadPage(t, p, 2)
	require.Equal(t, []string{"x", "y"}, p.Headers())
}

func TestPagerFailureKeepsRecords(t *testing.T) {
	f := newFakeFetcher()
	f.pages[1] = []model.Record{rec([]string{"a"}, 1)}
	f.errs[2] = source.ErrFallback

	p := NewPager(f, time.Second, nil)
	loadPage(t, p, 1)
	loadPage(t, p, 2)

	require.Len(t, p.Records(), 1)
	require.ErrorIs(t, p.Err(), source.ErrFallback)
}

func TestPagerSuccessClearsError(t *testing.T) {
	f := newFakeFetcher()
	f.errs[1] = source.ErrFallback
	f.pages[2] = []model.Record{rec([]string{"a"}, 1)}

	p := NewPager(f, time.Second, nil)
	loadPage(t, p, 1)
	require.Error(t, p.Err())

	loadPage(t, p, 2)
	require.NoError(t, p.Err())
}

func TestPagerDropsStaleResponses(t *testing.T) {
	f := newFakeFetcher()
	f.pages[2] = []model.Record{rec([]string{"a"}, "two")}
	f.pages[3] = []model.Record{rec([]string{"a"}, "three")}

	p := NewPager(f, time.Second, nil)

	p.SetPage(2)
	first := p.HandleTick(p.fetch.pending())
	p.SetPage(3)
	second := p.HandleTick(p.fetch.pending())

	require.True(t, p.HandleLoaded(second().(model.PageLoadedMsg)))
	require.False(t, p.HandleLoaded(first().(model.PageLoadedMsg)))

	require.Len(t, p.Records(), 1)
	v, _ := p.Records()[0].Get("a")
	require.Equal(t, "three", v)
}

func TestPagerDebouncesFetch(t *testing.T) {
	f := newFakeFetcher()
	p := NewPager(f, time.Second, nil)

	p.SetPage(1)
	stale := p.fetch.pending()
	p.SetPage(2)

	require.Nil(t, p.HandleTick(stale))
	require.False(t, p.Loading())

	cmd := p.HandleTick(p.fetch.pending())
	require.NotNil(t, cmd)
	cmd()
	require.Equal(t, 1, f.callCount())
	require.Equal(t, []int{2}, f.calls)
}

func TestPagerSetSamePageIsNoop(t *testing.T) {
	p := NewPager(newFakeFetcher(), time.Second, nil)
	require.NotNil(t, p.SetPage(1))
	require.Nil(t, p.SetPage(1))
	require.Nil(t, p.SetPage(0), "pages below 1 clamp to 1")
	require.NotNil(t, p.SetPage(2))
}

func TestPagerDropsResponsesFromAnotherPager(t *testing.T) {
	f := newFakeFetcher()
	f.pages[1] = []model.Record{rec([]string{"a"}, "one")}

	old := NewPager(f, time.Second, nil)
	old.SetPage(1)
	oldMsg := old.HandleTick(old.fetch.pending())().(model.PageLoadedMsg)

	fresh := NewPager(f, time.Second, nil)
	fresh.SetPage(1)
	freshMsg := fresh.HandleTick(fresh.fetch.pending())().(model.PageLoadedMsg)
	require.Equal(t, oldMsg.Seq, freshMsg.Seq)
	require.Equal(t, oldMsg.Page, freshMsg.Page)

	require.False(t, fresh.HandleLoaded(oldMsg))
	require.Empty(t, fresh.Records())
	require.True(t, fresh.Loading())

	require.True(t, fresh.HandleLoaded(freshMsg))
	require.Len(t, fresh.Records(), 1)
}

func TestPagerDropsResponseForSupersededPage(t *testing.T) {
	f := newFakeFetcher()
	f.pages[2] = []model.Record{rec([]string{"a"}, "two")}

	p := NewPager(f, time.Second, nil)
	p.SetPage(2)
	msg := p.HandleTick(p.fetch.pending())().(model.PageLoadedMsg)

	p.SetPage(3)
	require.False(t, p.HandleLoaded(msg))
	require.Empty(t, p.Records())
}
