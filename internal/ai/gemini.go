package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiGenerator implements Generator using Google's Gemini models.
type GeminiGenerator struct {
	client       *genai.Client
	defaultModel string
}

// NewGeminiGenerator initializes a Gemini client. apiKey comes from GEMINI_API_KEY.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{client: client, defaultModel: model}, nil
}

func (g *GeminiGenerator) Provider() string { return "gemini" }

// Close cleans up the Gemini client resources.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	name := req.Model
	if name == "" {
		name = g.defaultModel
	}
	model := g.client.GenerativeModel(name)
	model.SetTemperature(0.7)
	if req.SystemInstructions != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.SystemInstructions))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPayload))
	if err != nil {
		return "", g.classify(err)
	}
	if len(resp.Candidates) == 0 {
		return "", &GenerationError{Kind: KindEmpty, Provider: g.Provider(), Err: errors.New("no response candidates")}
	}
	if resp.Candidates[0].Content == nil {
		return "", &GenerationError{Kind: KindMalformed, Provider: g.Provider(), Err: errors.New("candidate without content")}
	}

	var textParts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		txt, ok := part.(genai.Text)
		if !ok || strings.TrimSpace(string(txt)) == "" {
			continue
		}
		textParts = append(textParts, string(txt))
	}
	if len(textParts) == 0 {
		return "", &GenerationError{Kind: KindEmpty, Provider: g.Provider(), Err: errors.New("empty text parts")}
	}
	return strings.Join(textParts, "\n"), nil
}

func (g *GeminiGenerator) classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &GenerationError{Kind: KindStatus, Provider: g.Provider(), Status: apiErr.Code, Err: err}
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &GenerationError{Kind: KindEmpty, Provider: g.Provider(), Err: err}
	}
	return &GenerationError{Kind: KindNetwork, Provider: g.Provider(), Err: err}
}
