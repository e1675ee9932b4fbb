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

// OffTopicThreshold is the cosine similarity below which a sentence is
// considered off-topic. Tunable constant, not derived from the data.
const OffTopicThreshold = 0.70

// OffTopicDetector finds sentences that drift away from the transcript's
// main subject by comparing sentence embeddings against the subject
// embedding.
type OffTopicDetector struct {
	llm llm.Client
	cfg *config.Config
}

func NewOffTopicDetector(cli llm.Client, cfg *config.Config) *OffTopicDetector {
	return &OffTopicDetector{llm: cli, cfg: cfg}
}

type indexedSentence struct {
	text         string
	segmentIndex int
}

// Detect derives the main subject from the full transcript, then flags every
// sentence whose similarity to it falls strictly below OffTopicThreshold.
// Sentences are drawn per segment so each span carries the index of the
// segment it came from. External failures propagate; there is no fallback.
func (d *OffTopicDetector) Detect(ctx context.Context, segments []core.Segment) (string, []core.OffTopicSpan, error) {
	if len(segments) == 0 {
		return "", nil, nil
	}

	fullText := JoinTranscript(segments)
	mainSubject, err := d.llm.Chat(ctx, d.cfg.ChatModel, fmt.Sprintf(mainSubjectPrompt, fullText))
	if err != nil {
		return "", nil, fmt.Errorf("extract main subject: %w", err)
	}

	subjectVec, err := d.llm.Embed(ctx, mainSubject)
	if err != nil {
		return "", nil, fmt.Errorf("embed main subject: %w", err)
	}

	var sentences []indexedSentence
	for _, seg := range segments {
		for _, s := range core.SegmentTranscript(seg.Text) {
			sentences = append(sentences, indexedSentence{text: s, segmentIndex: seg.Index})
		}
	}

	similarities := make([]float64, len(sentences))
	err = forEachIndexed(ctx, len(sentences), d.cfg.Concurrency, func(ctx context.Context, i int) error {
		vec, err := d.llm.Embed(ctx, sentences[i].text)
		if err != nil {
			return fmt.Errorf("embed sentence %d: %w", i, err)
		}
		similarities[i] = Cosine(subjectVec, vec)
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	var spans []core.OffTopicSpan
	for i, sentence := range sentences {
		if !offTopic(similarities[i]) {
			continue
		}
		spans = append(spans, core.OffTopicSpan{
			Text:         sentence.text,
			Reason:       fmt.Sprintf("Similarity score %.2f is below the threshold, indicating the sentence may not be related to the main subject.", similarities[i]),
			SegmentIndex: sentence.segmentIndex,
		})
	}

	return mainSubject, spans, nil
}

// offTopic reports whether a similarity crosses the threshold. The boundary
// itself is on topic.
func offTopic(similarity float64) bool {
	return similarity < OffTopicThreshold
}

// Cosine computes the cosine similarity of two embedding vectors. Mismatched
// or zero-length vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// JoinTranscript renders the segment sequence back into flat transcript
// text.
func JoinTranscript(segments []core.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
