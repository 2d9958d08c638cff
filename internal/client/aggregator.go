// Package client holds the consumer-side aggregation layer: an index that
// reconciles partial batches and pages into one deduplicated view, plus
// the per-section pagination state machine that feeds it.
package client

import (
	"strings"
	"sync"

	"github.com/khabarhub/newsdesk/internal/models"
)

// Aggregator ingests article batches into a deduplicated index keyed by
// the normalized (section, slug) composite. Ingest order across sources
// does not matter beyond last-write-wins per key, so concurrent section
// fetches can merge without coordination beyond the internal lock.
type Aggregator struct {
	mu    sync.RWMutex
	index map[string]models.Article
	order []string
}

func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[string]models.Article)}
}

// key builds the composite index key. Producers may tag the section
// either in Section or in Category; both spellings land on the same key.
func key(a models.Article) string {
	sec := Normalize(a.Section)
	if sec == "" {
		sec = Normalize(a.Category)
	}
	return sec + "/" + strings.ToLower(strings.TrimSpace(a.Slug))
}

// Ingest upserts every article, last write wins. Ingest never removes
// entries; only Reset clears the index.
func (g *Aggregator) Ingest(items []models.Article) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, item := range items {
		k := key(item)
		if _, seen := g.index[k]; !seen {
			g.order = append(g.order, k)
		}
		g.index[k] = item
	}
}

// Reset drops the whole index. Used on full reload, e.g. after a dropped
// stream where received data is provisional.
func (g *Aggregator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.index = make(map[string]models.Article)
	g.order = nil
}

// Len returns the number of distinct (section, slug) entries.
func (g *Aggregator) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.index)
}

// DeriveSection returns the public view of one section in ingest order:
// entries whose Section or Category normalizes to name, hidden excluded.
func (g *Aggregator) DeriveSection(name string) []models.Article {
	target := Normalize(name)

	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []models.Article
	for _, k := range g.order {
		item, ok := g.index[k]
		if !ok || item.IsHidden {
			continue
		}
		if Normalize(item.Section) == target || Normalize(item.Category) == target {
			out = append(out, item)
		}
	}
	return out
}

// CountView counts visible entries matching a viewed label against the
// section, category or subcategory. Drives the pager's low-count
// auto-advance heuristic.
func (g *Aggregator) CountView(label string) int {
	target := Normalize(label)

	g.mu.RLock()
	defer g.mu.RUnlock()

	n := 0
	for _, item := range g.index {
		if item.IsHidden {
			continue
		}
		if Normalize(item.Section) == target ||
			Normalize(item.Category) == target ||
			Normalize(item.SubCategory) == target {
			n++
		}
	}
	return n
}
