package core

import (
	"strings"
	"unicode"
)

// SegmentTranscript splits flat transcript text into sentences. It is a
// deterministic fallback view used when only text, not timestamped segments,
// is available. Empty input yields an empty slice.
//
// A '.', '!' or '?' ends a sentence unless it sits between two digits
// (decimal numbers) or is followed by more terminators (ellipses and "?!"
// stay attached to their sentence).
func SegmentTranscript(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	flush := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		if runes[i] == '.' && i > 0 && i+1 < len(runes) &&
			unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		// consume a run of terminators as one boundary
		j := i
		for j+1 < len(runes) && isTerminator(runes[j+1]) {
			j++
		}
		flush(j + 1)
		i = j
	}
	flush(len(runes))

	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}
