package processors

import (
	"context"
	"fmt"
	"sync"

	"videoAnalyze/core"
)

// fakeLLM is an in-memory llm.Client for tests. Chat returns a fixed reply,
// Embed looks vectors up by text, and ChatJSON fills the output by type with
// either the configured canned values or minimal valid defaults.
type fakeLLM struct {
	chatReply string
	embeds    map[string][]float32
	quality   *core.QualityMetrics

	mu      sync.Mutex
	prompts []string
}

func (f *fakeLLM) record(prompt string) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
}

func (f *fakeLLM) Chat(ctx context.Context, model, prompt string) (string, error) {
	f.record(prompt)
	return f.chatReply, nil
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := f.embeds[text]; ok {
		return v, nil
	}
	return []float32{1, 0}, nil
}

func (f *fakeLLM) ChatJSON(ctx context.Context, model, prompt string, out any) error {
	f.record(prompt)
	switch v := out.(type) {
	case *core.SegmentAnalysis:
		*v = core.SegmentAnalysis{Clarity: 7, Coherence: 8, Sentiment: "NEUTRAL", KeyTopics: []string{"testing"}}
	case *core.ComparativeAnalysis:
		event := "topic shift"
		*v = core.ComparativeAnalysis{SignificantEvents: &event}
	case *core.QualityMetrics:
		if f.quality == nil {
			return fmt.Errorf("fakeLLM: no quality metrics configured")
		}
		*v = *f.quality
	case *core.FactCheck:
		*v = core.FactCheck{
			Fact:    "restated by the model",
			Details: core.FactCheckDetails{Status: core.FactVerified, Explanation: "checked"},
		}
	case *core.SubtitlesMatch:
		*v = core.SubtitlesMatch{SubtitlesSimilarity: 90, Changes: []string{"punctuation"}}
	case *core.Questions:
		*v = core.Questions{Questions: []string{"What is the main subject?"}}
	case *core.Summary:
		*v = core.Summary{Summary: "A short talk."}
	default:
		return fmt.Errorf("fakeLLM: unexpected output type %T", out)
	}
	return nil
}

func (f *fakeLLM) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// validQualityMetrics builds a report that passes every invariant for the
// given segment count.
func validQualityMetrics(segmentCount int) *core.QualityMetrics {
	issues := make([][]core.IssueDetected, segmentCount)
	for i := range issues {
		issues[i] = []core.IssueDetected{}
	}
	return &core.QualityMetrics{
		ClarityCoherence: core.QualityMetric{Score: 8, Justification: "clear"},
		GunningFogIndex:  9,
		AgeTargetGroups: core.TargetGroupDistribution{
			AgeGroup19To24: 0.3,
			AgeGroup25To34: 0.5,
			AgeGroup35To44: 0.2,
		},
		Sentiment: core.Sentiment{Overall: core.SentimentNeutral},
		KeyTopics: []string{"testing"},
		CategorizedSegments: []core.SegmentsCategorization{
			{Category: "INTRO", FromSegment: 0, ToSegment: segmentCount - 1},
		},
		IssuesDetected: issues,
	}
}
