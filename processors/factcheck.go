package processors

import (
	"context"
	"fmt"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
)

// FactVerifier independently verifies extracted factual claims. One call is
// issued per claim; with large fact lists this is the cost bottleneck of the
// pipeline, so the fan-out is bounded rather than sequential.
type FactVerifier struct {
	llm llm.Client
	cfg *config.Config
}

func NewFactVerifier(cli llm.Client, cfg *config.Config) *FactVerifier {
	return &FactVerifier{llm: cli, cfg: cfg}
}

// VerifyFacts verifies every claim and returns exactly one result per claim.
// results[i] corresponds to claims[i] regardless of the order in which the
// underlying calls complete.
func (v *FactVerifier) VerifyFacts(ctx context.Context, claims []string) ([]core.FactCheck, error) {
	results := make([]core.FactCheck, len(claims))
	err := forEachIndexed(ctx, len(claims), v.cfg.Concurrency, func(ctx context.Context, i int) error {
		var check core.FactCheck
		prompt := fmt.Sprintf(factCheckPrompt, claims[i])
		if err := v.llm.ChatJSON(ctx, v.cfg.MiniChatModel, prompt, &check); err != nil {
			return fmt.Errorf("verify claim %d: %w", i, err)
		}
		// Pin the echo back to the input claim; the model's restatement is
		// not authoritative.
		check.Fact = claims[i]
		results[i] = check
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
