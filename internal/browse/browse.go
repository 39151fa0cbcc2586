// Package browse drives a product listing: a filter set, a 1-based page
// cursor, and a debounced fetch through the typed API client.
package browse

import (
	"context"
	"errors"
	"sync"
	"time"

	"travelbook/pkg/client"
	"travelbook/pkg/model"
)

// DefaultDebounce batches rapid filter edits into one request.
const DefaultDebounce = 300 * time.Millisecond

const defaultLimit = 12

// Filters are the user-editable listing controls. Zero values mean
// "no filter".
type Filters struct {
	Search   string
	Type     string
	MaxPrice int64
	SortBy   string
}

// Fetcher loads one page of results for the current filters.
type Fetcher[T any] func(ctx context.Context, f Filters, page, limit int) ([]T, *client.Metadata, error)

// Controller is one mounted listing view. Reads and writes are
// serialized internally; the debounce timer fires off the UI goroutine.
type Controller[T any] struct {
	fetch    Fetcher[T]
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	filters Filters
	page    int
	pages   int
	total   int64
	limit   int
	items   []T
	lastErr string
	loading bool
	gen     int

	// onChange, when set, is invoked after every state transition so a
	// UI can re-render.
	onChange func()
}

func New[T any](fetch Fetcher[T]) *Controller[T] {
	return &Controller[T]{
		fetch:    fetch,
		debounce: DefaultDebounce,
		page:     1,
		limit:    defaultLimit,
	}
}

// OnChange registers the re-render callback. It is called with the
// controller's lock released.
func (c *Controller[T]) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller[T]) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller[T]) Pages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages
}

func (c *Controller[T]) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// LastError is the retryable fetch failure shown inline; empty when the
// last fetch succeeded.
func (c *Controller[T]) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Empty reports a successful fetch that matched nothing, so the view
// can show a "no results" notice instead of a blank list.
func (c *Controller[T]) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr == "" && !c.loading && len(c.items) == 0 && c.gen > 0
}

// SetFilters replaces the filter set, resets to page 1, and schedules a
// debounced fetch: rapid successive edits collapse into one request.
func (c *Controller[T]) SetFilters(ctx context.Context, f Filters) {
	c.mu.Lock()
	c.filters = f
	c.page = 1
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.Refresh(ctx)
	})
	c.mu.Unlock()
}

// ClearFilters drops every filter, returns to page 1, and fetches
// immediately.
func (c *Controller[T]) ClearFilters(ctx context.Context) {
	c.mu.Lock()
	c.filters = Filters{}
	c.page = 1
	if c.timer != nil {
		c.timer.Stop()
	}
	c.mu.Unlock()
	c.Refresh(ctx)
}

// SetPage moves the page cursor and fetches immediately. Out-of-range
// pages are clamped to 1.
func (c *Controller[T]) SetPage(ctx context.Context, page int) {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}
	c.page = page
	if c.timer != nil {
		c.timer.Stop()
	}
	c.mu.Unlock()
	c.Refresh(ctx)
}

// Refresh fetches the current page with the current filters. It is also
// the retry entry point after a failure; entered filter values are
// never touched by a failed fetch.
func (c *Controller[T]) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.lastErr = ""
	c.gen++
	gen := c.gen
	f := c.filters
	page := c.page
	limit := c.limit
	c.mu.Unlock()
	c.notify()

	items, meta, err := c.fetch(ctx, f, page, limit)

	c.mu.Lock()
	if c.gen != gen {
		// A newer fetch superseded this one; its result wins.
		c.mu.Unlock()
		return
	}
	c.loading = false
	if err != nil {
		c.lastErr = failureMessage(err)
		c.mu.Unlock()
		c.notify()
		return
	}
	c.items = items
	if meta != nil {
		c.total = meta.Total
		c.pages = meta.Pages
		if meta.Page > 0 {
			c.page = meta.Page
		}
	}
	c.mu.Unlock()
	c.notify()
}

// Close stops the debounce timer. A fetch already in flight is ignored
// when it lands.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
	c.mu.Unlock()
}

func (c *Controller[T]) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

const genericFailure = "Could not load results, please try again."

func failureMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericFailure
}

// NewTours wires a controller to the tour listing endpoint.
func NewTours(tc *client.TourClient) *Controller[*model.Tour] {
	return New(func(ctx context.Context, f Filters, page, limit int) ([]*model.Tour, *client.Metadata, error) {
		return tc.List(ctx, model.TourQuery{
			Search:   f.Search,
			Type:     f.Type,
			MaxPrice: f.MaxPrice,
			SortBy:   f.SortBy,
			Page:     page,
			Limit:    limit,
		})
	})
}

// NewCars wires a controller to the car listing endpoint. The Type
// filter maps to the car type; the other tour-shaped filters have no
// car equivalent and are ignored.
func NewCars(cc *client.CarClient) *Controller[*model.Car] {
	return New(func(ctx context.Context, f Filters, page, limit int) ([]*model.Car, *client.Metadata, error) {
		return cc.List(ctx, model.CarQuery{
			CarType: f.Type,
			Page:    page,
			Limit:   limit,
		})
	})
}

// NewOffers wires a controller to the offer listing endpoint.
func NewOffers(oc *client.OfferClient) *Controller[*model.Offer] {
	return New(func(ctx context.Context, f Filters, page, limit int) ([]*model.Offer, *client.Metadata, error) {
		return oc.List(ctx, model.OfferQuery{
			Search: f.Search,
			Page:   page,
			Limit:  limit,
		})
	})
}
