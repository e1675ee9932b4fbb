package processors

import (
	"context"
	"fmt"
	"math"
	"strings"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
)

// ageDistributionTolerance bounds how far the age_target_groups fractions
// may drift from summing to exactly 1 before the report is rejected.
const ageDistributionTolerance = 0.01

// QualityAnalyzer produces the holistic report over the entire indexed
// segment sequence in a single structured call.
type QualityAnalyzer struct {
	llm llm.Client
	cfg *config.Config
}

func NewQualityAnalyzer(cli llm.Client, cfg *config.Config) *QualityAnalyzer {
	return &QualityAnalyzer{llm: cli, cfg: cfg}
}

// AnalyzeAll renders every segment as an "<index>: <text>" line, requests
// the full report in one call, and accepts it only after every invariant
// checks out. A malformed or truncated completion invalidates the whole
// report.
func (a *QualityAnalyzer) AnalyzeAll(ctx context.Context, segments []core.Segment) (*core.QualityMetrics, error) {
	var out core.QualityMetrics
	prompt := fmt.Sprintf(qualityAnalysisPrompt, RenderIndexed(segments))
	if err := a.llm.ChatJSON(ctx, a.cfg.ChatModel, prompt, &out); err != nil {
		return nil, fmt.Errorf("aggregate quality analysis: %w", err)
	}
	if err := ValidateQualityMetrics(&out, len(segments)); err != nil {
		return nil, fmt.Errorf("aggregate quality analysis: %w", err)
	}
	return &out, nil
}

// RenderIndexed renders segments as one "<index>: <text>" line each, the
// input transformation that lets the model attribute findings by position.
func RenderIndexed(segments []core.Segment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, fmt.Sprintf("%d: %s", seg.Index, seg.Text))
	}
	return strings.Join(lines, "\n")
}

// ValidateQualityMetrics enforces the invariants a structured completion
// must satisfy before the report crosses the component boundary:
//
//   - issues_detected carries exactly one entry per segment,
//   - age_target_groups sums to 1 within tolerance (never renormalized;
//     silently rescaling would change the distribution's meaning),
//   - every reported segment index falls inside [0, segmentCount),
//   - categorized ranges are well-formed, ascending and non-overlapping.
func ValidateQualityMetrics(m *core.QualityMetrics, segmentCount int) error {
	if len(m.IssuesDetected) != segmentCount {
		return fmt.Errorf("%w: issues_detected has %d entries for %d segments",
			core.ErrSchemaValidation, len(m.IssuesDetected), segmentCount)
	}

	if sum := m.AgeTargetGroups.Sum(); math.Abs(sum-1.0) > ageDistributionTolerance {
		return fmt.Errorf("%w: age_target_groups fractions sum to %.4f, want 1.0",
			core.ErrSchemaValidation, sum)
	}

	prevEnd := -1
	for _, c := range m.CategorizedSegments {
		if c.FromSegment < 0 || c.ToSegment >= segmentCount || c.FromSegment > c.ToSegment {
			return fmt.Errorf("%w: categorized segment range [%d, %d] outside transcript of %d segments",
				core.ErrIndexConsistency, c.FromSegment, c.ToSegment, segmentCount)
		}
		if c.FromSegment <= prevEnd {
			return fmt.Errorf("%w: categorized segment ranges overlap at segment %d",
				core.ErrIndexConsistency, c.FromSegment)
		}
		prevEnd = c.ToSegment
	}

	for _, span := range m.LLMOffTopicSegments {
		if span.SegmentIndex < 0 || span.SegmentIndex >= segmentCount {
			return fmt.Errorf("%w: off-topic span references segment %d of %d",
				core.ErrIndexConsistency, span.SegmentIndex, segmentCount)
		}
	}

	return nil
}
