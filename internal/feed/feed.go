// Package feed is a fake paginated data source. Every fetch waits for a
// configurable latency and honors context cancellation.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrUnavailable is returned by fetches that were set up to fail.
var ErrUnavailable = errors.New("feed: source unavailable")

type Item struct {
	ID    int
	Title string
	// Generation counts refreshes; items of the same refresh share it.
	Generation int
	Fetched    time.Time
}

type Options struct {
	PageSize int
	// MaxPages bounds the feed. Zero means endless.
	MaxPages  int
	Latency   time.Duration
	FailEvery int
	Now       func() time.Time
}

type Feed struct {
	mu sync.Mutex

	opts       Options
	page       int
	generation int
	fetches    int
}

func New(opts Options) *Feed {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Feed{opts: opts}
}

// Refresh starts the feed over and returns its first page.
func (f *Feed) Refresh(ctx context.Context) ([]Item, bool, error) {
	if err := f.wait(ctx); err != nil {
		return nil, false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(); err != nil {
		return nil, false, fmt.Errorf("refresh: %w", err)
	}
	f.generation++
	f.page = 0
	return f.nextPage()
}

// Next returns the page after the last one handed out. The bool reports
// whether more pages follow.
func (f *Feed) Next(ctx context.Context) ([]Item, bool, error) {
	if err := f.wait(ctx); err != nil {
		return nil, false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(); err != nil {
		return nil, f.hasMore(), fmt.Errorf("next page %d: %w", f.page+1, err)
	}
	if !f.hasMore() {
		return nil, false, nil
	}
	return f.nextPage()
}

func (f *Feed) Generation() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generation
}

func (f *Feed) wait(ctx context.Context) error {
	if f.opts.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(f.opts.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (f *Feed) fail() error {
	f.fetches++
	if f.opts.FailEvery > 0 && f.fetches%f.opts.FailEvery == 0 {
		return ErrUnavailable
	}
	return nil
}

func (f *Feed) hasMore() bool {
	return f.opts.MaxPages == 0 || f.page < f.opts.MaxPages
}

// nextPage must be called with mu held.
func (f *Feed) nextPage() ([]Item, bool, error) {
	start := f.page * f.opts.PageSize
	now := f.opts.Now()
	items := make([]Item, f.opts.PageSize)
	for i := range items {
		id := start + i + 1
		items[i] = Item{
			ID:         id,
			Title:      fmt.Sprintf("Item %d (refresh %d)", id, f.generation),
			Generation: f.generation,
			Fetched:    now,
		}
	}
	f.page++
	return items, f.hasMore(), nil
}
