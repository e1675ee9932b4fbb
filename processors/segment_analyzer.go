package processors

import (
	"context"
	"fmt"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
)

// SegmentAnalyzer produces the independent quality/sentiment/topic analysis
// for single segments.
type SegmentAnalyzer struct {
	llm llm.Client
	cfg *config.Config
}

func NewSegmentAnalyzer(cli llm.Client, cfg *config.Config) *SegmentAnalyzer {
	return &SegmentAnalyzer{llm: cli, cfg: cfg}
}

// AnalyzeSegment analyzes one segment in isolation; input is the bare
// segment text with no neighboring context.
func (a *SegmentAnalyzer) AnalyzeSegment(ctx context.Context, text string) (core.SegmentAnalysis, error) {
	var out core.SegmentAnalysis
	prompt := fmt.Sprintf(segmentAnalysisPrompt, text)
	if err := a.llm.ChatJSON(ctx, a.cfg.MiniChatModel, prompt, &out); err != nil {
		return core.SegmentAnalysis{}, fmt.Errorf("analyze segment: %w", err)
	}
	return out, nil
}

// AnalyzeSegments fans AnalyzeSegment out over the whole sequence with
// bounded concurrency. The result slice preserves segment order regardless
// of call-completion order.
func (a *SegmentAnalyzer) AnalyzeSegments(ctx context.Context, segments []core.Segment) ([]core.SegmentAnalysis, error) {
	results := make([]core.SegmentAnalysis, len(segments))
	err := forEachIndexed(ctx, len(segments), a.cfg.Concurrency, func(ctx context.Context, i int) error {
		analysis, err := a.AnalyzeSegment(ctx, segments[i].Text)
		if err != nil {
			return fmt.Errorf("segment %d: %w", segments[i].Index, err)
		}
		results[i] = analysis
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
