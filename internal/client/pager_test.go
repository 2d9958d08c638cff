package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khabarhub/newsdesk/internal/models"
)

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[int][]models.Article
	calls int
	err   error
	block time.Duration
}

func (f *fakeFetcher) FetchPage(ctx context.Context, section string, page, limit int) ([]models.Article, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	items := f.pages[page]
	block := f.block
	f.mu.Unlock()

	if block > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(block):
		}
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func story(section string, i int) models.Article {
	return models.Article{
		Section:  section,
		Slug:     fmt.Sprintf("%s-story-%d", section, i),
		Category: "General",
	}
}

func TestPagerAdvancesAndExhausts(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]models.Article{
		1: {story("sports", 0), story("sports", 1)},
		2: {story("sports", 2)},
	}}
	agg := NewAggregator()
	pager := NewPager("sports", 2, fetcher, agg, time.Second)
	ctx := context.Background()

	require.NoError(t, pager.FetchNextPage(ctx))
	assert.Equal(t, StateIdle, pager.State())
	assert.True(t, pager.HasMore())
	assert.Equal(t, 2, agg.Len())

	// Partial page: merged, but no more full pages expected.
	require.NoError(t, pager.FetchNextPage(ctx))
	assert.Equal(t, StateIdle, pager.State())
	assert.False(t, pager.HasMore())
	assert.Equal(t, 3, agg.Len())

	// Empty page exhausts the section.
	require.NoError(t, pager.FetchNextPage(ctx))
	assert.Equal(t, StateExhausted, pager.State())

	// Exhausted pager is a no-op.
	calls := fetcher.calls
	require.NoError(t, pager.FetchNextPage(ctx))
	assert.Equal(t, calls, fetcher.calls)
}

func TestPagerMergeIdempotent(t *testing.T) {
	// The server has a single page of data; every requested page past it
	// would be empty, so re-fetching yields no index growth.
	page := []models.Article{story("india", 0), story("india", 1), story("india", 2)}
	fetcher := &fakeFetcher{pages: map[int][]models.Article{1: page, 2: page}}
	agg := NewAggregator()
	pager := NewPager("india", 3, fetcher, agg, time.Second)
	ctx := context.Background()

	require.NoError(t, pager.FetchNextPage(ctx))
	sizeAfterFirst := agg.Len()

	require.NoError(t, pager.FetchNextPage(ctx))
	assert.Equal(t, sizeAfterFirst, agg.Len())
}

func TestPagerErroredAndRetry(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	agg := NewAggregator()
	pager := NewPager("world", 2, fetcher, agg, time.Second)
	ctx := context.Background()

	err := pager.FetchNextPage(ctx)
	require.Error(t, err)
	assert.Equal(t, StateErrored, pager.State())
	assert.Error(t, pager.Err())

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.pages = map[int][]models.Article{1: {story("world", 0)}}
	fetcher.mu.Unlock()

	pager.Retry()
	assert.Equal(t, StateIdle, pager.State())
	require.NoError(t, pager.FetchNextPage(ctx))
	assert.Equal(t, 1, agg.Len())
}

func TestPagerTimesOutToErrored(t *testing.T) {
	fetcher := &fakeFetcher{block: 500 * time.Millisecond}
	pager := NewPager("health", 2, fetcher, NewAggregator(), 50*time.Millisecond)

	err := pager.FetchNextPage(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateErrored, pager.State())
	assert.ErrorIs(t, pager.Err(), context.DeadlineExceeded)
}

func TestPagerAutoAdvanceWhileViewSparse(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[int][]models.Article{
		1: {story("lifestyle", 0), story("lifestyle", 1)},
		2: {story("lifestyle", 2), story("lifestyle", 3)},
	}}
	agg := NewAggregator()
	pager := NewPager("lifestyle", 2, fetcher, agg, time.Second)
	pager.advanceDelay = 10 * time.Millisecond
	pager.SetView("lifestyle")

	require.NoError(t, pager.FetchNextPage(context.Background()))

	// Two visible items is below the low-water mark, so a follow-up fetch
	// fires on its own after the delay.
	assert.Eventually(t, func() bool {
		return agg.Len() == 4
	}, time.Second, 10*time.Millisecond)
}
