package llm

import "context"

// Client es el servicio de completions visto desde el dominio.
// Una sola llamada (system + user) => texto generado.
// El cliente NO reintenta: la política de retry (si existe) es del caller.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userMessage string, opts Options) (string, error)
}

// Options controla una generación puntual.
type Options struct {
	Temperature float64
	TopP        float64
	MaxTokens   int

	// Stream: el adapter recibe la respuesta en fragmentos y los
	// concatena antes de devolver. Nunca se persisten fragmentos sueltos.
	Stream bool
}

// ChatOptions: defaults para respuestas conversacionales de la mascota.
func ChatOptions() Options {
	return Options{
		Temperature: 0.6,
		TopP:        0.95,
		MaxTokens:   1024,
		Stream:      true,
	}
}

// GenericOptions: defaults para el path genérico (sin streaming).
func GenericOptions() Options {
	return Options{
		Temperature: 0.6,
		TopP:        0.95,
		MaxTokens:   4096,
	}
}

// ThinkOptions: defaults para los "pensamientos" del thinker (pocos tokens).
func ThinkOptions() Options {
	return Options{
		Temperature: 0.5,
		TopP:        0.95,
		MaxTokens:   256,
	}
}

// Normalized rellena zero-values con los defaults genéricos.
// Los adapters la llaman antes de armar el request.
func (o Options) Normalized() Options {
	if o.Temperature == 0 {
		o.Temperature = 0.6
	}
	if o.TopP == 0 {
		o.TopP = 0.95
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 4096
	}
	return o
}
