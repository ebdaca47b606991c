package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator is the upstream call abstraction the fallback orchestrator works
// against. Implementations must return *GenerateError so failures carry a
// structured kind.
type Generator interface {
	Generate(ctx context.Context, model string, parts []*genai.Part) (string, error)
}

// GeminiGenerator calls the Gemini API with the healthcare persona as the
// system instruction.
type GeminiGenerator struct {
	client  *genai.Client
	persona string
}

// NewGeminiGenerator builds the upstream client from the API key.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, persona: Persona}, nil
}

// Generate runs a single model against the assembled parts. A successful call
// must yield non-empty trimmed text.
func (g *GeminiGenerator) Generate(ctx context.Context, model string, parts []*genai.Part) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.persona, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", &GenerateError{Model: model, Kind: classify(err), Err: err}
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &GenerateError{Model: model, Kind: FailureEmptyResponse, Err: errors.New("empty response text")}
	}
	return text, nil
}

// classify maps an upstream error to a failure kind. The API error code is
// authoritative; the message substring check covers proxies that flatten the
// status into text.
func classify(err error) FailureKind {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return FailureQuota
		}
		return FailureGeneration
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "quota") || strings.Contains(msg, "429") {
		return FailureQuota
	}
	return FailureGeneration
}
