package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestArticleJSONFields(t *testing.T) {
	now := time.Now()
	article := Article{
		Title:       "Budget 2026",
		Slug:        "budget-2026",
		Category:    "National",
		SubCategory: "Economy",
		Summary:     "Highlights from the union budget.",
		Content:     "Full coverage of the budget session.",
		Image:       "https://cdn.example.com/budget.jpg",
		Tags:        []string{"budget", "economy"},
		IsTrending:  true,
		Status:      StatusPublished,
		PublishedAt: now,
		Section:     "india",
	}

	data, err := json.Marshal(article)
	if err != nil {
		t.Fatalf("Failed to marshal Article: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if result["slug"] != "budget-2026" {
		t.Errorf("Expected slug field to be 'budget-2026', got %v", result["slug"])
	}
	if result["isTrending"] != true {
		t.Errorf("Expected isTrending field to be true, got %v", result["isTrending"])
	}
	if result["section"] != "india" {
		t.Errorf("Expected section field to be 'india', got %v", result["section"])
	}
	if _, ok := result["subCategory"]; !ok {
		t.Error("Expected subCategory field to be present")
	}
	if _, ok := result["author"]; ok {
		t.Error("Expected empty author field to be omitted")
	}
}

func TestAggregateRoundTrip(t *testing.T) {
	agg := NewConfigAggregate()
	agg.SetList("sports", []Article{{
		Title:    "Test Series Preview",
		Slug:     "test-series-preview",
		Category: "Cricket",
		Content:  "...",
	}})
	agg.IsPublished = true
	agg.PublishedAt = time.Now().UTC()

	data, err := json.Marshal(agg)
	if err != nil {
		t.Fatalf("Failed to marshal aggregate: %v", err)
	}

	// Section lists must be flattened to top-level keys.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to unmarshal document: %v", err)
	}
	for _, key := range []string{"sports", "india", "lastUpdated", "isActive"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("Expected top-level key %q in persisted document", key)
		}
	}

	var restored ConfigAggregate
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal aggregate: %v", err)
	}
	items, ok := restored.List("sports")
	if !ok || len(items) != 1 {
		t.Fatalf("Expected 1 sports article after round trip, got %d", len(items))
	}
	if items[0].Slug != "test-series-preview" {
		t.Errorf("Expected slug 'test-series-preview', got %q", items[0].Slug)
	}
	if !restored.IsActive {
		t.Error("Expected restored aggregate to be active")
	}
}
