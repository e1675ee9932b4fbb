package storage

import (
	"context"
	"testing"

	"videoAnalyze/config"
	"videoAnalyze/core"
)

func TestMemoryStoreUpsertAndSearch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	segments := []core.Segment{
		{Index: 0, Text: "Cats purr when they are content.", Start: 0, End: 5},
		{Index: 1, Text: "Rockets launch into orbit.", Start: 5, End: 10},
	}

	n, err := s.UpsertSegments(ctx, "video-1", segments)
	if err != nil {
		t.Fatalf("UpsertSegments: %v", err)
	}
	if n != len(segments) {
		t.Fatalf("stored %d segments, want %d", n, len(segments))
	}

	hits, err := s.SearchSegments(ctx, "video-1", "purring cats content", 1)
	if err != nil {
		t.Fatalf("SearchSegments: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if hits[0].Index != 0 {
		t.Errorf("top hit index = %d, want 0 (the cat segment)", hits[0].Index)
	}
	if hits[0].Score <= 0 {
		t.Errorf("top hit score = %v, want > 0", hits[0].Score)
	}
}

func TestMemoryStoreSearchUnknownVideo(t *testing.T) {
	s := NewMemoryStore()

	hits, err := s.SearchSegments(context.Background(), "missing", "anything", 3)
	if err != nil {
		t.Fatalf("SearchSegments: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits for unknown video", len(hits))
	}
}

func TestMemoryStoreUpsertReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.UpsertSegments(ctx, "v", []core.Segment{{Index: 0, Text: "old text"}}); err != nil {
		t.Fatalf("UpsertSegments: %v", err)
	}
	if _, err := s.UpsertSegments(ctx, "v", []core.Segment{{Index: 0, Text: "new text"}}); err != nil {
		t.Fatalf("UpsertSegments: %v", err)
	}

	hits, err := s.SearchSegments(ctx, "v", "new text", 5)
	if err != nil {
		t.Fatalf("SearchSegments: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits after replacement, want 1", len(hits))
	}
	if hits[0].Text != "new text" {
		t.Errorf("hit text = %q, want the replacement", hits[0].Text)
	}
}

func TestNewStoreDefaultsToMemory(t *testing.T) {
	cfg := &config.Config{StoreBackend: "memory"}

	if _, ok := NewStore(cfg, nil).(*MemoryStore); !ok {
		t.Error("memory backend did not yield a MemoryStore")
	}
}
