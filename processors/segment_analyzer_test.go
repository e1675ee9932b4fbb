package processors

import (
	"context"
	"strings"
	"testing"

	"videoAnalyze/core"
)

func TestAnalyzeSegments(t *testing.T) {
	fake := &fakeLLM{}
	a := NewSegmentAnalyzer(fake, testConfig())

	segments := []core.Segment{
		{Index: 0, Text: "First thought."},
		{Index: 1, Text: "Second thought."},
		{Index: 2, Text: "Third thought."},
	}

	results, err := a.AnalyzeSegments(context.Background(), segments)
	if err != nil {
		t.Fatalf("AnalyzeSegments: %v", err)
	}
	if len(results) != len(segments) {
		t.Fatalf("got %d results for %d segments", len(results), len(segments))
	}
	for i, r := range results {
		if r.Sentiment == "" {
			t.Errorf("results[%d] has empty sentiment", i)
		}
	}
	if got := fake.promptCount(); got != len(segments) {
		t.Errorf("issued %d calls for %d segments", got, len(segments))
	}
	// Every segment text must have been sent out; each in its own call.
	for _, seg := range segments {
		found := false
		for _, p := range fake.prompts {
			if strings.Contains(p, seg.Text) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no prompt carries segment text %q", seg.Text)
		}
	}
}

func TestAnalyzeSegmentsEmpty(t *testing.T) {
	a := NewSegmentAnalyzer(&fakeLLM{}, testConfig())

	results, err := a.AnalyzeSegments(context.Background(), nil)
	if err != nil {
		t.Fatalf("AnalyzeSegments: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for empty input", len(results))
	}
}
