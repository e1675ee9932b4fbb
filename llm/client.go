package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	openai "github.com/sashabaranov/go-openai"

	"videoAnalyze/config"
	"videoAnalyze/core"
)

// Client is the language-model surface the analysis components depend on.
type Client interface {
	// Chat sends one prompt and returns the raw completion text.
	Chat(ctx context.Context, model, prompt string) (string, error)
	// ChatJSON sends one prompt in JSON mode and deserializes the completion
	// into out, validating its struct tags. A completion that does not parse
	// or validate fails with core.ErrSchemaValidation.
	ChatJSON(ctx context.Context, model, prompt string, out any) error
	// Embed returns the embedding vector for one text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OpenAIClient implements Client against an OpenAI-compatible API.
type OpenAIClient struct {
	cli      *openai.Client
	cfg      *config.Config
	validate *validator.Validate
}

func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		cli:      openai.NewClientWithConfig(clientConfig),
		cfg:      cfg,
		validate: validator.New(),
	}
}

func (c *OpenAIClient) Chat(ctx context.Context, model, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.5,
	}

	resp, err := c.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w: %v", core.ErrExternalCall, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: %w: no choices returned", core.ErrExternalCall)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) ChatJSON(ctx context.Context, model, prompt string, out any) error {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return fmt.Errorf("structured completion: %w: %v", core.ErrExternalCall, err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("structured completion: %w: no choices returned", core.ErrExternalCall)
	}

	return DecodeStrict(c.validate, resp.Choices[0].Message.Content, out)
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
		Input: []string{text},
	}

	resp, err := c.cli.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w: %v", core.ErrExternalCall, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding: %w: no embeddings returned", core.ErrExternalCall)
	}
	return resp.Data[0].Embedding, nil
}

// DecodeStrict deserializes untrusted completion text into out and checks
// its validation tags. Invariants that tags cannot express (lengths, index
// ranges, sums) are the caller's obligation.
func DecodeStrict(validate *validator.Validate, raw string, out any) error {
	raw = StripJSONFence(raw)

	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrSchemaValidation, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrSchemaValidation, err)
	}
	return nil
}

// StripJSONFence removes a markdown code fence around a JSON payload. Models
// wrap JSON in ```json fences often enough that parsing without this is
// flaky.
func StripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
