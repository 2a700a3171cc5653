// Package llm agrupa los adapters del servicio de completions.
package llm

import (
	"context"
	"fmt"

	llmport "petoverse-backend/internal/ports/llm"
)

// Mock es el provider de modo dev: responde siempre, sin red.
// Lo usa el router cuando no hay ninguna API key configurada.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Generate(ctx context.Context, systemPrompt, userMessage string, opts llmport.Options) (string, error) {
	return fmt.Sprintf("*wags tail* You said %q!", userMessage), nil
}
