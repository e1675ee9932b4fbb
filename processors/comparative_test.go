package processors

import (
	"context"
	"testing"

	"videoAnalyze/core"
)

func TestAnalyzeTransitions(t *testing.T) {
	fake := &fakeLLM{}
	a := NewComparativeAnalyzer(fake, testConfig())

	segments := []core.Segment{
		{Index: 0, Text: "Intro."},
		{Index: 1, Text: "Body."},
		{Index: 2, Text: "Outro."},
	}

	events, err := a.AnalyzeTransitions(context.Background(), segments)
	if err != nil {
		t.Fatalf("AnalyzeTransitions: %v", err)
	}
	if len(events) != len(segments)-1 {
		t.Fatalf("got %d events for %d segments, want %d", len(events), len(segments), len(segments)-1)
	}
	for i, e := range events {
		if e.Index != i+1 {
			t.Errorf("events[%d].Index = %d, want %d", i, e.Index, i+1)
		}
		if e.FromSegment != i || e.ToSegment != i+1 {
			t.Errorf("events[%d] spans %d->%d, want %d->%d", i, e.FromSegment, e.ToSegment, i, i+1)
		}
		if e.EventAnalysis.SignificantEvents == nil {
			t.Errorf("events[%d] analysis is empty", i)
		}
	}
}

func TestAnalyzeTransitionsTooFewSegments(t *testing.T) {
	a := NewComparativeAnalyzer(&fakeLLM{}, testConfig())

	for _, segments := range [][]core.Segment{nil, {{Index: 0, Text: "Only one."}}} {
		events, err := a.AnalyzeTransitions(context.Background(), segments)
		if err != nil {
			t.Fatalf("AnalyzeTransitions(%d segments): %v", len(segments), err)
		}
		if events == nil || len(events) != 0 {
			t.Errorf("AnalyzeTransitions(%d segments) = %v, want empty non-nil slice", len(segments), events)
		}
	}
}
