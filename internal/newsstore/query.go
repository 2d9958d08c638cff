package newsstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/khabarhub/newsdesk/internal/models"
)

// Query provides read-only projections over the active aggregate. Lookups
// are linear scans over the embedded lists; the aggregate is small enough
// that secondary indexes would be overhead.
type Query struct {
	repo Repository
}

func NewQuery(repo Repository) *Query {
	return &Query{repo: repo}
}

// ListAll returns every section list keyed by section name, with the
// aggregate's bookkeeping fields stripped.
func (q *Query) ListAll(ctx context.Context) (map[string][]models.Article, error) {
	agg, err := q.repo.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active aggregate: %w", err)
	}
	out := make(map[string][]models.Article, len(models.Sections))
	for _, name := range models.Sections {
		out[name] = []models.Article{}
	}
	if agg == nil {
		return out, nil
	}
	for name, items := range agg.SectionLists {
		if items == nil {
			items = []models.Article{}
		}
		out[name] = items
	}
	return out, nil
}

// ListBySection returns the full list for one section, hidden articles
// included; visibility filtering is the consumer's concern.
func (q *Query) ListBySection(ctx context.Context, section string) ([]models.Article, error) {
	section = strings.ToLower(section)
	if !models.IsValidSection(section) {
		return nil, fmt.Errorf("%w: unknown section %q", ErrNotFound, section)
	}
	agg, err := q.repo.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active aggregate: %w", err)
	}
	if agg == nil {
		return []models.Article{}, nil
	}
	items, _ := agg.List(section)
	if items == nil {
		items = []models.Article{}
	}
	return items, nil
}

// GetBySlug returns the first article in a section matching the slug.
func (q *Query) GetBySlug(ctx context.Context, section, slug string) (*models.Article, error) {
	items, err := q.ListBySection(ctx, section)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if slugsEqual(items[i].Slug, slug) {
			found := items[i]
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in section %q", ErrNotFound, slug, section)
}

// Page returns one page of a section list for the incremental feed
// consumers. Pages are 1-based; an out-of-range page is empty, not an
// error, so clients can detect exhaustion.
func (q *Query) Page(ctx context.Context, section string, page, limit int) ([]models.Article, error) {
	items, err := q.ListBySection(ctx, section)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []models.Article{}, nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}
