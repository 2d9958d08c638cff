package newsstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/khabarhub/newsdesk/internal/logger"
	"github.com/khabarhub/newsdesk/internal/models"
)

// ImageResolver turns a raw image reference (data URI or remote URL) into a
// durable URL before it is stored. Implemented by internal/images.
type ImageResolver interface {
	Resolve(ctx context.Context, raw string) (string, error)
}

// Store performs all mutations on the section lists of the active
// aggregate. Every mutation is one read-modify-write cycle through the
// injected Repository; the last writer wins on concurrent edits to the
// same (section, slug).
type Store struct {
	repo   Repository
	images ImageResolver
}

func NewStore(repo Repository, images ImageResolver) *Store {
	return &Store{repo: repo, images: images}
}

// slugsEqual is the single match policy for every lookup: exact,
// case-insensitive. See DESIGN.md for the policy decision.
func slugsEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// active loads the active aggregate, lazily creating one with every
// section empty when none exists yet.
func (s *Store) active(ctx context.Context) (*models.ConfigAggregate, error) {
	agg, err := s.repo.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active aggregate: %w", err)
	}
	if agg == nil {
		logger.Get().Info().Msg("No active aggregate, creating one")
		agg = models.NewConfigAggregate()
	}
	return agg, nil
}

// Insert appends a new article to its section list. Fails with
// ErrDuplicateSlug when the section already holds the slug.
func (s *Store) Insert(ctx context.Context, section string, article models.Article) (*models.Article, error) {
	if err := validateNew(section, article); err != nil {
		return nil, err
	}
	section = strings.ToLower(section)

	agg, err := s.active(ctx)
	if err != nil {
		return nil, err
	}
	items, ok := agg.List(section)
	if !ok {
		return nil, fmt.Errorf("%w: unknown section %q", ErrNotFound, section)
	}

	for _, existing := range items {
		if slugsEqual(existing.Slug, article.Slug) {
			return nil, fmt.Errorf("%w: %q in section %q", ErrDuplicateSlug, article.Slug, section)
		}
	}

	article.Section = section
	article.Title = cleanText(article.Title)
	article.Summary = cleanText(article.Summary)
	if article.Status == "" {
		article.Status = models.StatusDraft
	}
	if article.Image != "" {
		url, err := s.resolveImage(ctx, article.Image)
		if err != nil {
			return nil, err
		}
		article.Image = url
	}

	agg.SetList(section, append(items, article))
	if err := s.repo.Save(ctx, agg); err != nil {
		return nil, fmt.Errorf("failed to save aggregate: %w", err)
	}

	logger.Get().Info().
		Str("section", section).
		Str("slug", article.Slug).
		Msg("Inserted article")
	return &article, nil
}

// Update shallow-merges a patch over the matched article.
func (s *Store) Update(ctx context.Context, section, slug string, patch models.ArticlePatch) (*models.Article, error) {
	agg, err := s.active(ctx)
	if err != nil {
		return nil, err
	}
	section = strings.ToLower(section)
	items, ok := agg.List(section)
	if !ok {
		return nil, fmt.Errorf("%w: unknown section %q", ErrNotFound, section)
	}

	for i := range items {
		if !slugsEqual(items[i].Slug, slug) {
			continue
		}

		if patch.Image != nil && *patch.Image != items[i].Image {
			url, err := s.resolveImage(ctx, *patch.Image)
			if err != nil {
				return nil, err
			}
			patch.Image = &url
		}
		patch.Apply(&items[i])
		items[i].Title = cleanText(items[i].Title)
		items[i].Summary = cleanText(items[i].Summary)

		agg.SetList(section, items)
		if err := s.repo.Save(ctx, agg); err != nil {
			return nil, fmt.Errorf("failed to save aggregate: %w", err)
		}

		logger.Get().Info().
			Str("section", section).
			Str("slug", slug).
			Msg("Updated article")
		updated := items[i]
		return &updated, nil
	}

	return nil, fmt.Errorf("%w: %q in section %q", ErrNotFound, slug, section)
}

// Remove hard-deletes every article matching the slug and returns how many
// were removed. ErrNotFound when nothing matched.
func (s *Store) Remove(ctx context.Context, section, slug string) (int, error) {
	agg, err := s.active(ctx)
	if err != nil {
		return 0, err
	}
	section = strings.ToLower(section)
	items, ok := agg.List(section)
	if !ok {
		return 0, fmt.Errorf("%w: unknown section %q", ErrNotFound, section)
	}

	kept := items[:0:0]
	removed := 0
	for _, item := range items {
		if slugsEqual(item.Slug, slug) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return 0, fmt.Errorf("%w: %q in section %q", ErrNotFound, slug, section)
	}

	agg.SetList(section, kept)
	if err := s.repo.Save(ctx, agg); err != nil {
		return 0, fmt.Errorf("failed to save aggregate: %w", err)
	}

	logger.Get().Info().
		Str("section", section).
		Str("slug", slug).
		Int("removed", removed).
		Msg("Removed article")
	return removed, nil
}

// SetFlags merges only the provided curation booleans into the matched
// article, never touching unrelated fields.
func (s *Store) SetFlags(ctx context.Context, section, slug string, flags models.FlagPatch) (*models.Article, error) {
	if flags.Empty() {
		return nil, fmt.Errorf("%w: at least one flag is required", ErrValidation)
	}

	agg, err := s.active(ctx)
	if err != nil {
		return nil, err
	}
	section = strings.ToLower(section)
	items, ok := agg.List(section)
	if !ok {
		return nil, fmt.Errorf("%w: unknown section %q", ErrNotFound, section)
	}

	for i := range items {
		if !slugsEqual(items[i].Slug, slug) {
			continue
		}
		flags.Apply(&items[i])
		agg.SetList(section, items)
		if err := s.repo.Save(ctx, agg); err != nil {
			return nil, fmt.Errorf("failed to save aggregate: %w", err)
		}

		logger.Get().Info().
			Str("section", section).
			Str("slug", slug).
			Bool("hidden", items[i].IsHidden).
			Msg("Updated article flags")
		updated := items[i]
		return &updated, nil
	}

	return nil, fmt.Errorf("%w: %q in section %q", ErrNotFound, slug, section)
}

func (s *Store) resolveImage(ctx context.Context, raw string) (string, error) {
	if s.images == nil {
		return raw, nil
	}
	url, err := s.images.Resolve(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("%w: image resolve: %v", ErrUpstreamFailure, err)
	}
	return url, nil
}

func validateNew(section string, article models.Article) error {
	if !models.IsValidSection(section) {
		return fmt.Errorf("%w: unknown section %q", ErrValidation, section)
	}
	switch {
	case strings.TrimSpace(article.Title) == "":
		return fmt.Errorf("%w: title", ErrValidation)
	case strings.TrimSpace(article.Slug) == "":
		return fmt.Errorf("%w: slug", ErrValidation)
	case strings.TrimSpace(article.Category) == "":
		return fmt.Errorf("%w: category", ErrValidation)
	case strings.TrimSpace(article.Content) == "":
		return fmt.Errorf("%w: content", ErrValidation)
	}
	return nil
}
