package processors

import (
	"context"
	"fmt"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
)

// ComparativeAnalyzer produces the delta analysis for ordered pairs of
// adjacent segments.
type ComparativeAnalyzer struct {
	llm llm.Client
	cfg *config.Config
}

func NewComparativeAnalyzer(cli llm.Client, cfg *config.Config) *ComparativeAnalyzer {
	return &ComparativeAnalyzer{llm: cli, cfg: cfg}
}

// AnalyzePair compares two segments. Only the texts are read; the caller is
// responsible for supplying genuinely adjacent segments. Absent result
// fields mean no notable change.
func (a *ComparativeAnalyzer) AnalyzePair(ctx context.Context, previous, current core.Segment) (core.ComparativeAnalysis, error) {
	var out core.ComparativeAnalysis
	prompt := fmt.Sprintf(comparativePrompt, previous.Text, current.Text)
	if err := a.llm.ChatJSON(ctx, a.cfg.MiniChatModel, prompt, &out); err != nil {
		return core.ComparativeAnalysis{}, fmt.Errorf("compare segments: %w", err)
	}
	return out, nil
}

// AnalyzeTransitions runs AnalyzePair over every adjacent pair, producing
// exactly N-1 event records for N segments: event i covers the transition
// from segment i-1 to segment i. Pairs are independent and analyzed with
// bounded concurrency; event order follows segment order.
func (a *ComparativeAnalyzer) AnalyzeTransitions(ctx context.Context, segments []core.Segment) ([]core.EventAnalysis, error) {
	if len(segments) < 2 {
		return []core.EventAnalysis{}, nil
	}

	events := make([]core.EventAnalysis, len(segments)-1)
	err := forEachIndexed(ctx, len(segments)-1, a.cfg.Concurrency, func(ctx context.Context, i int) error {
		analysis, err := a.AnalyzePair(ctx, segments[i], segments[i+1])
		if err != nil {
			return fmt.Errorf("transition %d->%d: %w", i, i+1, err)
		}
		events[i] = core.EventAnalysis{
			Index:         i + 1,
			FromSegment:   i,
			ToSegment:     i + 1,
			EventAnalysis: analysis,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}
