package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Sections is the fixed set of top-level content buckets, in store order.
var Sections = []string{
	"india",
	"sports",
	"business",
	"technology",
	"entertainment",
	"lifestyle",
	"world",
	"health",
	"state",
	"awards",
}

// IsValidSection reports whether name is one of the enumerated sections.
// Comparison is case-insensitive; section names are stored lowercase.
func IsValidSection(name string) bool {
	name = strings.ToLower(name)
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

// ConfigAggregate is the single document holding every section list plus
// publication bookkeeping. Exactly one aggregate is active at a time; all
// mutations target the active one.
type ConfigAggregate struct {
	SectionLists map[string][]Article
	LastUpdated  time.Time
	IsPublished  bool
	PublishedAt  time.Time
	IsActive     bool
}

// NewConfigAggregate returns an active aggregate with every section empty.
func NewConfigAggregate() *ConfigAggregate {
	lists := make(map[string][]Article, len(Sections))
	for _, s := range Sections {
		lists[s] = []Article{}
	}
	return &ConfigAggregate{
		SectionLists: lists,
		LastUpdated:  time.Now().UTC(),
		IsActive:     true,
	}
}

// List returns the article list for a section. The second return value is
// false when the section is not part of the enumerated set.
func (c *ConfigAggregate) List(section string) ([]Article, bool) {
	items, ok := c.SectionLists[strings.ToLower(section)]
	return items, ok
}

// SetList replaces a section's list and bumps LastUpdated.
func (c *ConfigAggregate) SetList(section string, items []Article) {
	c.SectionLists[strings.ToLower(section)] = items
	c.LastUpdated = time.Now().UTC()
}

// Touch bumps LastUpdated after an in-place edit.
func (c *ConfigAggregate) Touch() {
	c.LastUpdated = time.Now().UTC()
}

// aggregateMeta holds the non-section keys of the persisted document.
type aggregateMeta struct {
	LastUpdated time.Time `json:"lastUpdated"`
	IsPublished bool      `json:"isPublished"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
	IsActive    bool      `json:"isActive"`
}

// MarshalJSON flattens section lists to top-level keys, matching the
// persisted shape {<section>: [...], lastUpdated, isPublished, ...}.
func (c *ConfigAggregate) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(c.SectionLists)+4)
	for name, items := range c.SectionLists {
		if items == nil {
			items = []Article{}
		}
		doc[name] = items
	}
	doc["lastUpdated"] = c.LastUpdated
	doc["isPublished"] = c.IsPublished
	if !c.PublishedAt.IsZero() {
		doc["publishedAt"] = c.PublishedAt
	}
	doc["isActive"] = c.IsActive
	return json.Marshal(doc)
}

// UnmarshalJSON reads the flattened document back. Unknown top-level keys
// that are not bookkeeping fields are treated as section lists so older
// documents with since-retired sections still load.
func (c *ConfigAggregate) UnmarshalJSON(data []byte) error {
	var meta aggregateMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	lists := make(map[string][]Article, len(Sections))
	for _, s := range Sections {
		lists[s] = []Article{}
	}
	for key, val := range raw {
		switch key {
		case "lastUpdated", "isPublished", "publishedAt", "isActive":
			continue
		}
		var items []Article
		if err := json.Unmarshal(val, &items); err != nil {
			return err
		}
		lists[strings.ToLower(key)] = items
	}

	c.SectionLists = lists
	c.LastUpdated = meta.LastUpdated
	c.IsPublished = meta.IsPublished
	c.PublishedAt = meta.PublishedAt
	c.IsActive = meta.IsActive
	return nil
}
