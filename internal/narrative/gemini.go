package narrative

import (
	"context"
	"log"

	"google.golang.org/genai"
)

// ContentClient abstracts the Gemini generate-content API for testability.
type ContentClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiBackend generates narrative through a single-turn generate-content
// request. Gemini has no system role in this mode, so the prompt stands
// alone.
type GeminiBackend struct {
	client ContentClient
	model  string
}

func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiBackend{client: &geminiClient{client: client}, model: model}, nil
}

func (b *GeminiBackend) Name() string { return "gemini" }

func (b *GeminiBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.GenerateContent(ctx, b.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		log.Println("Empty response received from Gemini")
		return emptyCompletion, nil
	}
	return text, nil
}

// geminiClient wraps the official SDK's models service.
type geminiClient struct {
	client *genai.Client
}

func (c *geminiClient) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}
