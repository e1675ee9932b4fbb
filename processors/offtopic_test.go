package processors

import (
	"context"
	"strings"
	"testing"
	"time"

	"videoAnalyze/config"
	"videoAnalyze/core"
)

func testConfig() *config.Config {
	return &config.Config{
		ChatModel:     "chat-model",
		MiniChatModel: "mini-model",
		Concurrency:   2,
		CallTimeout:   time.Minute,
	}
}

func TestOffTopicBoundary(t *testing.T) {
	cases := []struct {
		similarity float64
		want       bool
	}{
		{similarity: 0.69, want: true},
		{similarity: 0.70, want: false}, // the boundary itself is on topic
		{similarity: 0.71, want: false},
		{similarity: 0, want: true},
		{similarity: 1, want: false},
	}
	for _, tc := range cases {
		if got := offTopic(tc.similarity); got != tc.want {
			t.Errorf("offTopic(%v) = %v, want %v", tc.similarity, got, tc.want)
		}
	}
}

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 0}, b: []float32{1, 0}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "mismatched lengths", a: []float32{1, 0}, b: []float32{1}, want: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDetectFlagsDissimilarSentences(t *testing.T) {
	fake := &fakeLLM{
		chatReply: "cats",
		embeds: map[string][]float32{
			"cats":             {1, 0},
			"Cats purr.":       {1, 0},
			"Rockets launch.":  {0, 1},
			"Cats also sleep.": {1, 0},
		},
	}
	d := NewOffTopicDetector(fake, testConfig())

	segments := []core.Segment{
		{Index: 0, Text: "Cats purr. Cats also sleep."},
		{Index: 1, Text: "Rockets launch."},
	}

	subject, spans, err := d.Detect(context.Background(), segments)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if subject != "cats" {
		t.Errorf("subject = %q, want %q", subject, "cats")
	}
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1: %+v", len(spans), spans)
	}
	span := spans[0]
	if span.Text != "Rockets launch." {
		t.Errorf("span text = %q, want %q", span.Text, "Rockets launch.")
	}
	if span.SegmentIndex != 1 {
		t.Errorf("span segment index = %d, want 1", span.SegmentIndex)
	}
	if !strings.Contains(span.Reason, "below the threshold") {
		t.Errorf("span reason = %q, want threshold explanation", span.Reason)
	}
	if !strings.Contains(span.Reason, "0.00") {
		t.Errorf("span reason = %q, want similarity rendered with two decimals", span.Reason)
	}
}

func TestDetectEmptyTranscript(t *testing.T) {
	d := NewOffTopicDetector(&fakeLLM{}, testConfig())

	subject, spans, err := d.Detect(context.Background(), nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if subject != "" || spans != nil {
		t.Errorf("Detect(nil) = (%q, %v), want empty", subject, spans)
	}
}

func TestJoinTranscript(t *testing.T) {
	segments := []core.Segment{
		{Index: 0, Text: "First."},
		{Index: 1, Text: "  "},
		{Index: 2, Text: "Second."},
	}
	if got, want := JoinTranscript(segments), "First. Second."; got != want {
		t.Errorf("JoinTranscript = %q, want %q", got, want)
	}
}
