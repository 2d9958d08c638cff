package client

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khabarhub/newsdesk/internal/models"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Health & Fitness", "health-and-fitness"},
		{"health-and-fitness", "health-and-fitness"},
		{"Health%20%26%20Fitness", "health-and-fitness"},
		{"  Sports ", "sports"},
		{"Tech/Startups", "tech-startups"},
		{"A   B", "a-b"},
		{"--india--", "india"},
		{"Café Culture", "caf-culture"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.input), "Normalize(%q)", tc.input)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Health & Fitness", "a--b", "World  News!!", "Entertainment",
		"%26%26", "Awards & Honours 2026",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize not idempotent for %q", in)
	}
}

func TestIngestLastWriteWins(t *testing.T) {
	agg := NewAggregator()

	agg.Ingest([]models.Article{{Section: "india", Slug: "budget-2026", Title: "v1", Category: "National"}})
	agg.Ingest([]models.Article{{Section: "India", Slug: "Budget-2026", Title: "v2", Category: "National"}})

	require.Equal(t, 1, agg.Len())
	got := agg.DeriveSection("india")
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].Title)
}

func TestIngestKeysSectionOrCategory(t *testing.T) {
	agg := NewAggregator()

	// Older producers tag the section through Category only.
	agg.Ingest([]models.Article{{Category: "Sports", Slug: "final-recap", Title: "v1"}})
	agg.Ingest([]models.Article{{Section: "sports", Slug: "final-recap", Title: "v2", Category: "Cricket"}})

	assert.Equal(t, 1, agg.Len())
}

func TestDeriveSectionEitherFieldAndHidden(t *testing.T) {
	agg := NewAggregator()
	agg.Ingest([]models.Article{
		{Section: "sports", Slug: "a", Title: "A", Category: "Cricket"},
		{Category: "Sports", Slug: "b", Title: "B"},
		{Section: "sports", Slug: "c", Title: "C", Category: "Football", IsHidden: true},
		{Section: "world", Slug: "d", Title: "D", Category: "Geopolitics"},
	})

	got := agg.DeriveSection("Sports")
	require.Len(t, got, 2)
	// Ingest order is preserved.
	assert.Equal(t, "a", got[0].Slug)
	assert.Equal(t, "b", got[1].Slug)
}

func TestResetClearsIndex(t *testing.T) {
	agg := NewAggregator()
	agg.Ingest([]models.Article{{Section: "india", Slug: "x", Category: "National"}})
	require.Equal(t, 1, agg.Len())

	agg.Reset()
	assert.Equal(t, 0, agg.Len())
	assert.Empty(t, agg.DeriveSection("india"))
}

func TestConcurrentIngestConverges(t *testing.T) {
	agg := NewAggregator()

	batchFor := func(gen string) []models.Article {
		items := make([]models.Article, 0, 20)
		for i := 0; i < 20; i++ {
			items = append(items, models.Article{
				Section:  "india",
				Slug:     fmt.Sprintf("story-%d", i),
				Category: "National",
				Title:    gen,
			})
		}
		return items
	}

	var wg sync.WaitGroup
	for _, gen := range []string{"stream", "page"} {
		wg.Add(1)
		go func(gen string) {
			defer wg.Done()
			// Interleave small batches the way stream chunks and pages
			// arrive out of order.
			batch := batchFor(gen)
			for i := 0; i < len(batch); i += 5 {
				agg.Ingest(batch[i : i+5])
			}
		}(gen)
	}
	wg.Wait()

	// Exactly one entry per distinct key, each holding one of the two
	// ingested generations intact.
	assert.Equal(t, 20, agg.Len())
	for _, item := range agg.DeriveSection("india") {
		assert.Contains(t, []string{"stream", "page"}, item.Title)
	}
}

func TestCountView(t *testing.T) {
	agg := NewAggregator()
	agg.Ingest([]models.Article{
		{Section: "sports", Slug: "a", Category: "Cricket"},
		{Section: "sports", Slug: "b", Category: "Cricket", IsHidden: true},
		{Section: "sports", Slug: "c", Category: "Football", SubCategory: "Cricket"},
	})

	assert.Equal(t, 2, agg.CountView("cricket"))
	assert.Equal(t, 2, agg.CountView("Sports"))
}
