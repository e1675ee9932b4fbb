package processors

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"videoAnalyze/config"
	"videoAnalyze/core"
)

// ASRProvider transcribes an audio file into full text plus timestamped
// segments. Segment indices are assigned here, once, and never renumbered
// downstream.
type ASRProvider interface {
	Transcribe(ctx context.Context, audioPath string) (string, []core.Segment, error)
}

// WhisperASR transcribes through the whisper endpoint of an
// OpenAI-compatible API, requesting verbose JSON for per-segment timing.
type WhisperASR struct {
	cli   *openai.Client
	model string
}

func NewWhisperASR(cfg *config.Config) WhisperASR {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return WhisperASR{cli: openai.NewClientWithConfig(clientConfig), model: openai.Whisper1}
}

func (w WhisperASR) Transcribe(ctx context.Context, audioPath string) (string, []core.Segment, error) {
	resp, err := w.cli.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return "", nil, fmt.Errorf("transcription: %w: %v", core.ErrExternalCall, err)
	}

	text := strings.TrimSpace(resp.Text)
	segments := make([]core.Segment, 0, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments = append(segments, core.Segment{
			Index: i,
			Text:  strings.TrimSpace(seg.Text),
			Start: seg.Start,
			End:   seg.End,
		})
	}

	// Some backends return text without segment timing; keep the transcript
	// usable as a single span rather than dropping it.
	if len(segments) == 0 && text != "" {
		dur, _ := ProbeDuration(ctx, audioPath)
		segments = append(segments, core.Segment{Index: 0, Text: text, Start: 0, End: dur})
	}

	return text, segments, nil
}

// MockASR returns a fixed transcript, for local runs without API access.
type MockASR struct {
	Text     string
	Segments []core.Segment
}

func (m MockASR) Transcribe(ctx context.Context, audioPath string) (string, []core.Segment, error) {
	return m.Text, m.Segments, nil
}

// PickASR selects the transcription provider. ASR=mock short-circuits to the
// mock; everything else uses whisper.
func PickASR(cfg *config.Config) ASRProvider {
	if strings.ToLower(strings.TrimSpace(os.Getenv("ASR"))) == "mock" {
		return MockASR{
			Text: "Placeholder transcript.",
			Segments: []core.Segment{
				{Index: 0, Text: "Placeholder transcript.", Start: 0, End: 15},
			},
		}
	}
	return NewWhisperASR(cfg)
}
