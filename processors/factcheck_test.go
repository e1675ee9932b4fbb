package processors

import (
	"context"
	"testing"

	"videoAnalyze/core"
)

func TestVerifyFacts(t *testing.T) {
	fake := &fakeLLM{}
	v := NewFactVerifier(fake, testConfig())

	claims := []string{
		"The Earth orbits the Sun once a year.",
		"Water boils at 100 degrees Celsius at sea level.",
		"The Moon is made of cheese.",
	}

	results, err := v.VerifyFacts(context.Background(), claims)
	if err != nil {
		t.Fatalf("VerifyFacts: %v", err)
	}
	if len(results) != len(claims) {
		t.Fatalf("got %d results for %d claims", len(results), len(claims))
	}
	for i, r := range results {
		// The echoed fact is the input claim, not the model's restatement.
		if r.Fact != claims[i] {
			t.Errorf("results[%d].Fact = %q, want %q", i, r.Fact, claims[i])
		}
		if r.Details.Status != core.FactVerified {
			t.Errorf("results[%d].Details.Status = %q, want %q", i, r.Details.Status, core.FactVerified)
		}
	}
}

func TestVerifyFactsEmpty(t *testing.T) {
	fake := &fakeLLM{}
	v := NewFactVerifier(fake, testConfig())

	results, err := v.VerifyFacts(context.Background(), nil)
	if err != nil {
		t.Fatalf("VerifyFacts: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for no claims", len(results))
	}
	if fake.promptCount() != 0 {
		t.Errorf("issued %d calls for no claims", fake.promptCount())
	}
}
