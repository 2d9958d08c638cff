package models

import "time"

// Article status values
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Article is a single news story stored inside a section list.
// Identity is the (section, slug) pair; slugs compare case-insensitively.
type Article struct {
	Title          string    `json:"title" validate:"required"`
	Slug           string    `json:"slug" validate:"required"`
	Category       string    `json:"category" validate:"required"`
	SubCategory    string    `json:"subCategory,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	Content        string    `json:"content" validate:"required"`
	Image          string    `json:"image,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	IsLatest       bool      `json:"isLatest"`
	IsTrending     bool      `json:"isTrending"`
	IsHidden       bool      `json:"isHidden"`
	Status         string    `json:"status,omitempty"`
	PublishedAt    time.Time `json:"publishedAt,omitempty"`
	Author         string    `json:"author,omitempty"`
	TargetLink     string    `json:"targetLink,omitempty"`
	NominationLink string    `json:"nominationLink,omitempty"`

	// Section is set by producers that tag articles directly; older
	// producers leave it empty and use Category for the same purpose.
	// Consumers must honor either field.
	Section string `json:"section,omitempty"`
}

// ArticlePatch is a partial update. Only non-nil fields are merged.
type ArticlePatch struct {
	Title          *string    `json:"title,omitempty"`
	Category       *string    `json:"category,omitempty"`
	SubCategory    *string    `json:"subCategory,omitempty"`
	Summary        *string    `json:"summary,omitempty"`
	Content        *string    `json:"content,omitempty"`
	Image          *string    `json:"image,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Status         *string    `json:"status,omitempty"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	Author         *string    `json:"author,omitempty"`
	TargetLink     *string    `json:"targetLink,omitempty"`
	NominationLink *string    `json:"nominationLink,omitempty"`
}

// Apply shallow-merges the patch over a. The slug never changes here;
// renaming a story is a delete+insert at the store level.
func (p ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.SubCategory != nil {
		a.SubCategory = *p.SubCategory
	}
	if p.Summary != nil {
		a.Summary = *p.Summary
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Image != nil {
		a.Image = *p.Image
	}
	if p.Tags != nil {
		a.Tags = p.Tags
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.PublishedAt != nil {
		a.PublishedAt = *p.PublishedAt
	}
	if p.Author != nil {
		a.Author = *p.Author
	}
	if p.TargetLink != nil {
		a.TargetLink = *p.TargetLink
	}
	if p.NominationLink != nil {
		a.NominationLink = *p.NominationLink
	}
}

// FlagPatch carries curation flag changes. Nil means "leave as is".
type FlagPatch struct {
	IsLatest   *bool `json:"isLatest,omitempty"`
	IsTrending *bool `json:"isTrending,omitempty"`
	IsHidden   *bool `json:"isHidden,omitempty"`
}

// Empty reports whether no flag was provided at all.
func (f FlagPatch) Empty() bool {
	return f.IsLatest == nil && f.IsTrending == nil && f.IsHidden == nil
}

// Apply merges only the provided booleans, never touching other fields.
func (f FlagPatch) Apply(a *Article) {
	if f.IsLatest != nil {
		a.IsLatest = *f.IsLatest
	}
	if f.IsTrending != nil {
		a.IsTrending = *f.IsTrending
	}
	if f.IsHidden != nil {
		a.IsHidden = *f.IsHidden
	}
}
