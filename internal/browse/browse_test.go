package browse

import (
	"context"
	"sync"
	"testing"
	"time"

	"travelbook/pkg/client"
	"travelbook/pkg/model"
)

type fetchRecorder struct {
	mu      sync.Mutex
	calls   []Filters
	pages   []int
	items   []*model.Tour
	meta    *client.Metadata
	err     error
	release chan struct{}
}

func (r *fetchRecorder) fetch(ctx context.Context, f Filters, page, limit int) ([]*model.Tour, *client.Metadata, error) {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, f)
	r.pages = append(r.pages, page)
	return r.items, r.meta, r.err
}

func (r *fetchRecorder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *fetchRecorder) lastCall() (Filters, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1], r.pages[len(r.pages)-1]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSetFiltersDebouncesRapidEdits(t *testing.T) {
	rec := &fetchRecorder{
		items: []*model.Tour{{ID: "t1", Title: "Backwater Cruise"}},
		meta:  &client.Metadata{Total: 1, Page: 1, Pages: 1},
	}
	c := New(rec.fetch)
	c.debounce = 20 * time.Millisecond

	ctx := context.Background()
	c.SetFilters(ctx, Filters{Search: "b"})
	c.SetFilters(ctx, Filters{Search: "ba"})
	c.SetFilters(ctx, Filters{Search: "backwater"})

	waitFor(t, func() bool { return rec.callCount() > 0 })
	time.Sleep(3 * c.debounce)

	if got := rec.callCount(); got != 1 {
		t.Fatalf("expected 1 debounced fetch, got %d", got)
	}
	f, page := rec.lastCall()
	if f.Search != "backwater" {
		t.Errorf("expected last filter value to win, got %q", f.Search)
	}
	if page != 1 {
		t.Errorf("filter change should reset to page 1, got %d", page)
	}
	if len(c.Items()) != 1 {
		t.Errorf("expected 1 item, got %d", len(c.Items()))
	}
}

func TestClearFiltersResetsToPageOne(t *testing.T) {
	rec := &fetchRecorder{meta: &client.Metadata{Total: 0, Page: 1, Pages: 0}}
	c := New(rec.fetch)
	c.debounce = 5 * time.Millisecond

	ctx := context.Background()
	c.SetPage(ctx, 4)
	c.ClearFilters(ctx)

	f, page := rec.lastCall()
	if f != (Filters{}) {
		t.Errorf("expected empty filters, got %+v", f)
	}
	if page != 1 {
		t.Errorf("expected page 1 after clear, got %d", page)
	}
	if c.Page() != 1 {
		t.Errorf("controller page = %d, want 1", c.Page())
	}
}

func TestFetchFailureIsRetryable(t *testing.T) {
	rec := &fetchRecorder{err: &client.APIError{Status: 503, Message: "Service is down for maintenance"}}
	c := New(rec.fetch)

	ctx := context.Background()
	c.mu.Lock()
	c.filters = Filters{Search: "goa"}
	c.mu.Unlock()
	c.Refresh(ctx)

	if got := c.LastError(); got != "Service is down for maintenance" {
		t.Fatalf("expected server message verbatim, got %q", got)
	}
	if c.Filters().Search != "goa" {
		t.Error("failure must not touch entered filters")
	}

	rec.mu.Lock()
	rec.err = nil
	rec.items = []*model.Tour{{ID: "t1"}}
	rec.meta = &client.Metadata{Total: 1, Page: 1, Pages: 1}
	rec.mu.Unlock()

	c.Refresh(ctx)
	if c.LastError() != "" {
		t.Errorf("retry should clear the error, got %q", c.LastError())
	}
	if len(c.Items()) != 1 {
		t.Errorf("expected 1 item after retry, got %d", len(c.Items()))
	}
}

func TestTransportFailureUsesGenericMessage(t *testing.T) {
	rec := &fetchRecorder{err: context.DeadlineExceeded}
	c := New(rec.fetch)

	c.Refresh(context.Background())
	if got := c.LastError(); got != genericFailure {
		t.Errorf("expected generic message, got %q", got)
	}
}

func TestEmptyResultSetsEmptyFlag(t *testing.T) {
	rec := &fetchRecorder{meta: &client.Metadata{Total: 0, Page: 1, Pages: 0}}
	c := New(rec.fetch)

	if c.Empty() {
		t.Error("controller should not report empty before the first fetch")
	}

	c.Refresh(context.Background())
	if !c.Empty() {
		t.Error("expected empty flag after a successful fetch with no results")
	}
	if c.LastError() != "" {
		t.Errorf("empty is not an error state, got %q", c.LastError())
	}
}

func TestLateResponseIgnoredAfterClose(t *testing.T) {
	rec := &fetchRecorder{
		items:   []*model.Tour{{ID: "stale"}},
		meta:    &client.Metadata{Total: 1, Page: 1, Pages: 1},
		release: make(chan struct{}),
	}
	c := New(rec.fetch)

	done := make(chan struct{})
	go func() {
		c.Refresh(context.Background())
		close(done)
	}()

	waitFor(t, func() bool { return c.Loading() })
	c.Close()
	close(rec.release)
	<-done

	if len(c.Items()) != 0 {
		t.Error("late response must not populate a closed controller")
	}
}
