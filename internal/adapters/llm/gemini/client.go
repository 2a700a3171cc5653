package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petoverse-backend/internal/ports/llm"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// Client implementa llm.Client contra el API de Gemini.
// Provider alternativo al de NVIDIA; mismo contrato, misma política:
// nada de retries ni estado local.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: api key required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	genClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}

	return &Client{
		client: genClient,
		model:  model,
	}, nil
}

func (c *Client) Generate(ctx context.Context, systemPrompt, userMessage string, opts llm.Options) (string, error) {
	opts = opts.Normalized()

	temp := float32(opts.Temperature)
	topP := float32(opts.TopP)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   int32(opts.MaxTokens),
	}

	contents := []*genai.Content{
		genai.NewContentFromText(userMessage, genai.RoleUser),
	}

	// El SDK no expone el stream como fragmentos acá; para este adapter
	// la respuesta llega entera igual, así que opts.Stream no cambia nada.
	res, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", errors.New("gemini: empty completion")
	}
	return text, nil
}
