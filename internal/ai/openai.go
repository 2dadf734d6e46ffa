package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultOllamaModel = "llama3.1"
	DefaultOllamaURL   = "http://127.0.0.1:11434/v1"
)

// OpenAIGenerator talks to any OpenAI-compatible chat completions endpoint
// (OpenAI itself, or a local Ollama server).
type OpenAIGenerator struct {
	client       *openai.Client
	provider     string
	defaultModel string
}

func NewOpenAIGenerator(apiKey, baseURL, model string) (*OpenAIGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai: missing api key")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return newOpenAICompatible("openai", apiKey, baseURL, model), nil
}

// NewOllamaGenerator targets Ollama's OpenAI-compatible API; no key is needed.
func NewOllamaGenerator(baseURL, model string) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return newOpenAICompatible("ollama", "ollama", baseURL, model)
}

func newOpenAICompatible(provider, apiKey, baseURL, model string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIGenerator{
		client:       openai.NewClientWithConfig(cfg),
		provider:     provider,
		defaultModel: model,
	}
}

func (g *OpenAIGenerator) Provider() string { return g.provider }

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemInstructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstructions,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPayload,
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", g.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Kind: KindEmpty, Provider: g.provider, Err: errors.New("empty choices")}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &GenerationError{Kind: KindEmpty, Provider: g.provider, Err: errors.New("empty message content")}
	}
	return text, nil
}

func (g *OpenAIGenerator) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &GenerationError{Kind: KindStatus, Provider: g.provider, Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode >= 400 {
			return &GenerationError{Kind: KindStatus, Provider: g.provider, Status: reqErr.HTTPStatusCode, Err: err}
		}
		return &GenerationError{Kind: KindMalformed, Provider: g.provider, Err: err}
	}
	return &GenerationError{Kind: KindNetwork, Provider: g.provider, Err: err}
}
