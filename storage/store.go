package storage

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
)

// VectorStore persists transcript segments with embeddings, keyed by video,
// so processed videos stay searchable after the analysis response is gone.
type VectorStore interface {
	// UpsertSegments stores the segments of one video and returns how many
	// were written.
	UpsertSegments(ctx context.Context, videoID string, segments []core.Segment) (int, error)
	// SearchSegments returns the topK most similar stored segments of one
	// video.
	SearchSegments(ctx context.Context, videoID, query string, topK int) ([]core.SegmentHit, error)
}

// NewStore selects the backend from configuration. Backends that need
// external services fall back to the in-memory store when they cannot be
// reached, so storage problems never block analysis.
func NewStore(cfg *config.Config, cli llm.Client) VectorStore {
	switch cfg.StoreBackend {
	case "pgvector":
		s, err := NewPgVectorStore(cfg, cli)
		if err == nil {
			return s
		}
		fmt.Printf("Warning: failed to initialize pgvector store (%v), falling back to memory store\n", err)
	case "milvus":
		s, err := NewMilvusStore(cfg, cli)
		if err == nil {
			return s
		}
		fmt.Printf("Warning: failed to initialize milvus store (%v), falling back to memory store\n", err)
	}
	return NewMemoryStore()
}

// ---------------- Memory implementation (default and fallback) ----------------

// MemoryStore keeps per-video documents with local term-frequency vectors.
// It needs no API access, which keeps the default configuration and the
// tests self-contained.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]memoryDoc // videoID -> docs
}

type memoryDoc struct {
	segment core.Segment
	embed   map[string]float64 // term -> weight
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string][]memoryDoc{}}
}

func (s *MemoryStore) UpsertSegments(ctx context.Context, videoID string, segments []core.Segment) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]memoryDoc, 0, len(segments))
	for _, seg := range segments {
		docs = append(docs, memoryDoc{segment: seg, embed: termVector(seg.Text)})
	}
	s.docs[videoID] = docs
	return len(docs), nil
}

func (s *MemoryStore) SearchSegments(ctx context.Context, videoID, query string, topK int) ([]core.SegmentHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.docs[videoID]
	qv := termVector(query)

	type scored struct {
		i     int
		score float64
	}
	scores := make([]scored, 0, len(docs))
	for i, d := range docs {
		scores = append(scores, scored{i, termCosine(qv, d.embed)})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if topK <= 0 || topK > len(scores) {
		topK = min(len(scores), 5)
	}
	hits := make([]core.SegmentHit, 0, topK)
	for _, sc := range scores[:topK] {
		seg := docs[sc.i].segment
		hits = append(hits, core.SegmentHit{
			Score: sc.score,
			Index: seg.Index,
			Text:  seg.Text,
			Start: seg.Start,
			End:   seg.End,
		})
	}
	return hits, nil
}

func termVector(text string) map[string]float64 {
	vec := map[string]float64{}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,!?…:;\"'()")
		if tok == "" {
			continue
		}
		vec[tok]++
	}
	return vec
}

func termCosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for k, v := range a {
		na += v * v
		if w, ok := b[k]; ok {
			dot += v * w
		}
	}
	for _, v := range b {
		nb += v * v
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
