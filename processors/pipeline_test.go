package processors

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"videoAnalyze/core"
	"videoAnalyze/storage"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testSegments() []core.Segment {
	return []core.Segment{
		{Index: 0, Text: "Cats purr.", Start: 0, End: 5},
		{Index: 1, Text: "Cats also sleep.", Start: 5, End: 10},
		{Index: 2, Text: "Rockets launch.", Start: 10, End: 15},
	}
}

func testPipeline(fake *fakeLLM) *Pipeline {
	segments := testSegments()
	asr := MockASR{Text: JoinTranscript(segments), Segments: segments}
	detector := MockSubtitleDetector{
		Subtitles: []core.Subtitle{{Text: "Cats purr", Start: 0, End: 5}},
		Persons:   []core.BoundingBox{{TimeOffset: 2, Left: 0.1, Top: 0.1, Right: 0.5, Bottom: 0.9}},
	}

	p := NewPipeline(testConfig(), quietLogger(), fake, asr, detector, storage.NewMemoryStore())
	p.extractAudio = func(ctx context.Context, videoPath, audioPath string) error { return nil }
	return p
}

func catEmbeddings() map[string][]float32 {
	return map[string][]float32{
		"cats":             {1, 0},
		"Cats purr.":       {1, 0},
		"Cats also sleep.": {1, 0},
		"Rockets launch.":  {0, 1},
	}
}

func TestProcessVideo(t *testing.T) {
	quality := validQualityMetrics(3)
	quality.FactsToVerify = []core.FactDetail{
		{Fact: "Cats purr", FactWithMoreContext: "Domestic cats purr when content."},
	}
	fake := &fakeLLM{chatReply: "cats", embeds: catEmbeddings(), quality: quality}

	p := testPipeline(fake)
	result, err := p.ProcessVideo(context.Background(), "talk.mp4", Options{VideoURL: "/get_video/talk.mp4"})
	if err != nil {
		t.Fatalf("ProcessVideo: %v", err)
	}

	if len(result.Transcription) != 3 {
		t.Fatalf("got %d transcription segments, want 3", len(result.Transcription))
	}
	if result.Analysis.MainSubject != "cats" {
		t.Errorf("main subject = %q, want %q", result.Analysis.MainSubject, "cats")
	}
	if len(result.Analysis.OffTopicSegments) != 1 || result.Analysis.OffTopicSegments[0].SegmentIndex != 2 {
		t.Errorf("off-topic spans = %+v, want one span for segment 2", result.Analysis.OffTopicSegments)
	}
	if result.Analysis.QualityMetrics == nil {
		t.Fatal("quality metrics missing")
	}
	if len(result.Analysis.QualityMetrics.IssuesDetected) != 3 {
		t.Errorf("issues_detected has %d entries, want 3", len(result.Analysis.QualityMetrics.IssuesDetected))
	}
	if len(result.SegmentsAnalysis) != 3 {
		t.Errorf("got %d segment analyses, want 3", len(result.SegmentsAnalysis))
	}
	if len(result.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(result.Events))
	}
	for i, e := range result.Events {
		if e.Index != i+1 || e.FromSegment != i || e.ToSegment != i+1 {
			t.Errorf("events[%d] = {%d %d->%d}, want {%d %d->%d}",
				i, e.Index, e.FromSegment, e.ToSegment, i+1, i, i+1)
		}
	}
	if result.SubtitlesMatch == nil || result.SubtitlesMatch.SubtitlesSimilarity != 90 {
		t.Errorf("subtitles match = %+v, want similarity 90", result.SubtitlesMatch)
	}
	if len(result.FactChecks) != 1 || result.FactChecks[0].Fact != "Domestic cats purr when content." {
		t.Errorf("fact checks = %+v, want the contextual claim echoed", result.FactChecks)
	}
	if len(result.Questions) == 0 || result.Summary == "" {
		t.Errorf("enrichment products missing: questions=%v summary=%q", result.Questions, result.Summary)
	}
	if len(result.DetectedPersons) != 1 {
		t.Errorf("got %d person detections, want 1", len(result.DetectedPersons))
	}
	if result.VideoURL != "/get_video/talk.mp4" {
		t.Errorf("video url = %q", result.VideoURL)
	}
	if result.Errors != nil {
		t.Errorf("strict run reported errors: %v", result.Errors)
	}
}

func TestProcessVideoStrictFailsOnInvalidReport(t *testing.T) {
	// Report sized for two segments against a three-segment transcript.
	fake := &fakeLLM{chatReply: "cats", embeds: catEmbeddings(), quality: validQualityMetrics(2)}

	p := testPipeline(fake)
	_, err := p.ProcessVideo(context.Background(), "talk.mp4", Options{})
	if !errors.Is(err, core.ErrSchemaValidation) {
		t.Fatalf("ProcessVideo = %v, want schema validation error", err)
	}
}

func TestProcessVideoDegradedKeepsPartialResult(t *testing.T) {
	fake := &fakeLLM{chatReply: "cats", embeds: catEmbeddings(), quality: validQualityMetrics(2)}

	p := testPipeline(fake)
	result, err := p.ProcessVideo(context.Background(), "talk.mp4", Options{Degraded: true})
	if err != nil {
		t.Fatalf("ProcessVideo: %v", err)
	}

	if _, ok := result.Errors["quality_metrics"]; !ok {
		t.Errorf("degraded run did not report the quality failure: %v", result.Errors)
	}
	if result.Analysis.QualityMetrics != nil {
		t.Error("invalid quality report leaked into the result")
	}
	if len(result.SegmentsAnalysis) != 3 || len(result.Events) != 2 {
		t.Errorf("surviving analyses missing: %d segment analyses, %d events",
			len(result.SegmentsAnalysis), len(result.Events))
	}
	if result.Analysis.MainSubject != "cats" {
		t.Errorf("main subject = %q, want %q", result.Analysis.MainSubject, "cats")
	}
}

func TestProcessVideoEmptyTranscript(t *testing.T) {
	p := NewPipeline(testConfig(), quietLogger(), &fakeLLM{},
		MockASR{}, MockSubtitleDetector{}, storage.NewMemoryStore())
	p.extractAudio = func(ctx context.Context, videoPath, audioPath string) error { return nil }

	_, err := p.ProcessVideo(context.Background(), "silent.mp4", Options{})
	if !errors.Is(err, core.ErrEmptyInput) {
		t.Fatalf("ProcessVideo = %v, want empty input error", err)
	}
}
