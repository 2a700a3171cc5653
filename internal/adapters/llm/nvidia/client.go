package nvidia

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"petoverse-backend/internal/platform/httpclient"
	"petoverse-backend/internal/ports/llm"
)

const (
	DefaultBaseURL = "https://integrate.api.nvidia.com/v1"
	DefaultModel   = "nvidia/llama-3.3-nemotron-super-49b-v1"

	// Las respuestas largas pueden tardar antes del primer byte.
	// El timeout fino lo pone el caller vía ctx.
	requestTimeout = 2 * time.Minute
)

// Client habla el API de chat-completions estilo OpenAI (NVIDIA NIM).
// Implementa llm.Client. Sin estado entre llamadas y sin retries:
// toda falla (red, status, timeout) vuelve como error al caller.
type Client struct {
	http   *httpclient.Client
	apiKey string
	model  string
}

func NewClient(baseURL, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("nvidia: api key required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	hc, err := httpclient.NewWithBaseURL(baseURL, requestTimeout)
	if err != nil {
		return nil, fmt.Errorf("nvidia: %w", err)
	}

	return &Client{
		http:   hc,
		apiKey: apiKey,
		model:  model,
	}, nil
}

// Tipos del wire (subset del API de chat completions).

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// streamChunk es un evento SSE `data: {...}` del modo streaming.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, systemPrompt, userMessage string, opts llm.Options) (string, error) {
	opts = opts.Normalized()

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		Temperature: opts.Temperature,
		TopP:        opts.TopP,
		MaxTokens:   opts.MaxTokens,
		Stream:      opts.Stream,
	}

	if opts.Stream {
		return c.generateStream(ctx, req)
	}

	var out chatResponse
	err := c.http.DoJSON(ctx, http.MethodPost, "/chat/completions", c.headers(), req, &out)
	if err != nil {
		return "", fmt.Errorf("nvidia: chat completion: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", errors.New("nvidia: empty completion")
	}
	return out.Choices[0].Message.Content, nil
}

// generateStream consume el SSE y concatena los fragmentos en el texto
// final. Acá nunca sale un fragmento suelto: o vuelve todo o vuelve error.
func (c *Client) generateStream(ctx context.Context, req chatRequest) (string, error) {
	body, err := c.http.DoStream(ctx, http.MethodPost, "/chat/completions", c.headers(), req)
	if err != nil {
		return "", fmt.Errorf("nvidia: chat completion stream: %w", err)
	}
	defer body.Close()

	var full strings.Builder

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// Evento que no conocemos: lo salteamos, el stream sigue.
			continue
		}
		if len(chunk.Choices) > 0 {
			full.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		// Stream cortado a mitad de camino: no devolvemos texto parcial.
		return "", fmt.Errorf("nvidia: read stream: %w", err)
	}

	if full.Len() == 0 {
		return "", errors.New("nvidia: empty completion")
	}
	return full.String(), nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}
}
