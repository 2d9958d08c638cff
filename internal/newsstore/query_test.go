package newsstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khabarhub/newsdesk/internal/models"
)

func seedSection(t *testing.T, store *Store, section string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		art := sample(fmt.Sprintf("%s-story-%d", section, i))
		_, err := store.Insert(context.Background(), section, art)
		require.NoError(t, err)
	}
}

func TestListAllExcludesBookkeeping(t *testing.T) {
	repo := NewMemoryRepository()
	store := NewStore(repo, nil)
	seedSection(t, store, "sports", 2)

	all, err := NewQuery(repo).ListAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, all, len(models.Sections))
	assert.Len(t, all["sports"], 2)
	assert.Empty(t, all["world"])
	_, hasMeta := all["lastUpdated"]
	assert.False(t, hasMeta)
}

func TestListAllOnEmptyRepository(t *testing.T) {
	all, err := NewQuery(NewMemoryRepository()).ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(models.Sections))
	for _, items := range all {
		assert.Empty(t, items)
	}
}

func TestGetBySlugExactCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository()
	store := NewStore(repo, nil)
	seedSection(t, store, "sports", 1)
	query := NewQuery(repo)
	ctx := context.Background()

	got, err := query.GetBySlug(ctx, "sports", "SPORTS-Story-0")
	require.NoError(t, err)
	assert.Equal(t, "sports-story-0", got.Slug)

	// Substring matches are not lookups.
	_, err = query.GetBySlug(ctx, "sports", "story-0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPagePreservesInsertionOrder(t *testing.T) {
	repo := NewMemoryRepository()
	store := NewStore(repo, nil)
	seedSection(t, store, "business", 5)
	query := NewQuery(repo)
	ctx := context.Background()

	page1, err := query.Page(ctx, "business", 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "business-story-0", page1[0].Slug)
	assert.Equal(t, "business-story-1", page1[1].Slug)

	page3, err := query.Page(ctx, "business", 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "business-story-4", page3[0].Slug)

	page4, err := query.Page(ctx, "business", 4, 2)
	require.NoError(t, err)
	assert.Empty(t, page4)
}
