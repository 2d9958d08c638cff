package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/khabarhub/newsdesk/internal/logger"
	"github.com/khabarhub/newsdesk/internal/models"
)

// PageFetcher retrieves one page of a section feed.
type PageFetcher interface {
	FetchPage(ctx context.Context, section string, page, limit int) ([]models.Article, error)
}

// State of a Pager.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateExhausted
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateExhausted:
		return "exhausted"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

const (
	// lowWaterMark is the visible-item count under which the pager
	// schedules one more fetch on its own while more pages remain.
	lowWaterMark = 6
	autoAdvance  = 1500 * time.Millisecond
)

// Pager drives forward-only pagination for one section and merges results
// into a shared Aggregator. All triggers (sentinel intersection, the
// low-count heuristic, an explicit load-more action) funnel into the same
// guarded FetchNextPage, so double-firing is harmless.
type Pager struct {
	section      string
	limit        int
	fetcher      PageFetcher
	agg          *Aggregator
	timeout      time.Duration
	advanceDelay time.Duration

	mu       sync.Mutex
	state    State
	lastPage int
	hasMore  bool
	lastErr  error
	view     string
}

func NewPager(section string, limit int, fetcher PageFetcher, agg *Aggregator, timeout time.Duration) *Pager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Pager{
		section:      section,
		limit:        limit,
		fetcher:      fetcher,
		agg:          agg,
		timeout:      timeout,
		advanceDelay: autoAdvance,
		state:        StateIdle,
		hasMore:      true,
	}
}

// SetView records the label the consumer is currently looking at; the
// auto-advance heuristic keeps that view populated.
func (p *Pager) SetView(label string) {
	p.mu.Lock()
	p.view = label
	p.mu.Unlock()
}

// State returns the current pager state.
func (p *Pager) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// HasMore reports whether the last page came back full.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Err returns the failure that moved the pager to StateErrored.
func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Retry clears an errored pager back to idle for a manual re-fetch.
func (p *Pager) Retry() {
	p.mu.Lock()
	if p.state == StateErrored {
		p.state = StateIdle
		p.lastErr = nil
	}
	p.mu.Unlock()
}

// FetchNextPage requests the next page and merges it into the aggregator.
// It is a no-op while a fetch is in flight or the section is exhausted.
// Re-fetching an already-merged page changes nothing: merges are
// idempotent by composite key.
func (p *Pager) FetchNextPage(ctx context.Context) error {
	p.mu.Lock()
	if p.state == StateFetching || p.state == StateExhausted {
		p.mu.Unlock()
		return nil
	}
	p.state = StateFetching
	page := p.lastPage + 1
	p.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	items, err := p.fetcher.FetchPage(fetchCtx, p.section, page, p.limit)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.state = StateErrored
		p.lastErr = err
		logger.Get().Error().
			Err(err).
			Str("section", p.section).
			Int("page", page).
			Msg("Page fetch failed")
		return fmt.Errorf("fetch page %d of %s: %w", page, p.section, err)
	}

	p.agg.Ingest(items)
	p.lastPage = page
	p.hasMore = len(items) == p.limit
	p.lastErr = nil

	if len(items) == 0 {
		p.state = StateExhausted
		return nil
	}
	p.state = StateIdle

	// Keep a sparse view topped up: one deferred follow-up fetch, bounded
	// by hasMore so exhaustion stops the loop.
	if p.hasMore && p.view != "" && p.agg.CountView(p.view) < lowWaterMark {
		logger.Get().Debug().
			Str("section", p.section).
			Str("view", p.view).
			Msg("View below low-water mark, scheduling auto-advance")
		time.AfterFunc(p.advanceDelay, func() {
			ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
			defer cancel()
			_ = p.FetchNextPage(ctx)
		})
	}
	return nil
}
