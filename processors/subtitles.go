package processors

import (
	"context"
	"fmt"
	"strings"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
)

// SubtitleReconciler scores the agreement between the transcript-derived
// text and the independently OCR-detected subtitle track.
type SubtitleReconciler struct {
	llm llm.Client
	cfg *config.Config
}

func NewSubtitleReconciler(cli llm.Client, cfg *config.Config) *SubtitleReconciler {
	return &SubtitleReconciler{llm: cli, cfg: cfg}
}

// Compare concatenates the OCR texts and scores both versions in one
// structured call. This is a bag-of-text comparison: no timestamp alignment
// is attempted, which trades precision for robustness against OCR timing
// noise.
func (r *SubtitleReconciler) Compare(ctx context.Context, segments []core.Segment, ocr []core.Subtitle) (*core.SubtitlesMatch, error) {
	var out core.SubtitlesMatch
	prompt := fmt.Sprintf(subtitlesComparePrompt, JoinTranscript(segments), JoinSubtitleTexts(ocr))
	if err := r.llm.ChatJSON(ctx, r.cfg.MiniChatModel, prompt, &out); err != nil {
		return nil, fmt.Errorf("compare subtitles: %w", err)
	}
	return &out, nil
}

// JoinSubtitleTexts flattens the OCR subtitle track into one string.
func JoinSubtitleTexts(subtitles []core.Subtitle) string {
	parts := make([]string, 0, len(subtitles))
	for _, s := range subtitles {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}
