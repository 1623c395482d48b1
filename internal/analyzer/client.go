package analyzer

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-pro"

// ModelClient issues one structured-output generation request. It exists
// as an interface so scans can run against a fake model in tests.
type ModelClient interface {
	Generate(ctx context.Context, apiKey, prompt string, schema *genai.Schema, maxOutputTokens int32) (string, error)
}

// geminiClient calls the Gemini API. A fresh client is built per request
// because the API key may change between calls via the settings override.
type geminiClient struct {
	model string
}

// NewGeminiClient returns the production model client. The model name can
// be overridden with GEMINI_MODEL.
func NewGeminiClient() ModelClient {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}
	return &geminiClient{model: model}
}

func (g *geminiClient) Generate(ctx context.Context, apiKey, prompt string, schema *genai.Schema, maxOutputTokens int32) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("creating Gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0),
		TopP:             genai.Ptr[float32](0),
		MaxOutputTokens:  maxOutputTokens,
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](2048),
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	return resp.Text(), nil
}
