package processors

import (
	"context"
	"fmt"

	"videoAnalyze/config"
	"videoAnalyze/core"
	"videoAnalyze/llm"
)

// Enricher produces the auxiliary transcript products: comprehension
// questions and a short summary.
type Enricher struct {
	llm llm.Client
	cfg *config.Config
}

func NewEnricher(cli llm.Client, cfg *config.Config) *Enricher {
	return &Enricher{llm: cli, cfg: cfg}
}

func (e *Enricher) GenerateQuestions(ctx context.Context, text string) (*core.Questions, error) {
	var out core.Questions
	if err := e.llm.ChatJSON(ctx, e.cfg.MiniChatModel, fmt.Sprintf(questionsPrompt, text), &out); err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	return &out, nil
}

func (e *Enricher) WriteSummary(ctx context.Context, text string) (*core.Summary, error) {
	var out core.Summary
	if err := e.llm.ChatJSON(ctx, e.cfg.MiniChatModel, fmt.Sprintf(summaryPrompt, text), &out); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	return &out, nil
}
