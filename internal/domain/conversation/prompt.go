package conversation

import (
	"encoding/json"
	"fmt"
	"strings"

	"petoverse-backend/internal/domain/pets"
)

// Builders de system prompt. Funciones puras: mismo input => mismo output,
// sin I/O ni randomness, para poder testearlas sin tocar el modelo.

// BuildPersonaPrompt arma la instrucción de identidad de la mascota.
// `recent` viene como lo devuelve el repo (más reciente primero); acá se
// da vuelta a orden cronológico y se toman los últimos hasta 3 mensajes
// del usuario (las respuestas de la mascota no entran).
func BuildPersonaPrompt(p pets.Pet, recent []Turn) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a virtual %s.\n", p.Name, p.Type)
	fmt.Fprintf(&b, "Traits: %s.\n", strings.Join(p.Traits, ", "))
	fmt.Fprintf(&b, "Commands: %s.\n", strings.Join(p.Commands, ", "))
	fmt.Fprintf(&b, "User has trained you on: %s.\n", strings.Join(p.TrainedWords, ", "))
	b.WriteString("You are emotionally tuned to the user. Reply with personality.\n")
	b.WriteString("Use only your given name and this persona context; do not invent another identity.\n")

	msgs := lastUserMessages(recent, 3)
	if len(msgs) == 0 {
		b.WriteString("Recent user messages: (none)")
	} else {
		b.WriteString("Recent user messages:\n")
		for i, m := range msgs {
			fmt.Fprintf(&b, "%d. %s\n", i+1, m)
		}
	}

	return b.String()
}

// BuildContextPrompt arma la variante "rica": serializa el registro
// completo de la mascota y el historial reciente, y los embebe verbatim.
func BuildContextPrompt(p pets.Pet, recent []Turn) string {
	petJSON, _ := json.Marshal(petDoc{
		Name:         p.Name,
		Type:         p.Type,
		Traits:       emptyIfNil(p.Traits),
		Commands:     emptyIfNil(p.Commands),
		TrainedWords: emptyIfNil(p.TrainedWords),
	})

	history := make([]turnDoc, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- { // cronológico
		history = append(history, turnDoc{
			Role:    string(recent[i].Role),
			Content: recent[i].Content,
		})
	}
	historyJSON, _ := json.Marshal(history)

	return "You're a pet in Petoverse. You can only speak in cute and short sentences. " +
		"Your responses are emotionally intelligent and context-aware. " +
		"This is your persisted state: " + string(petJSON) +
		" and this is your recent history: " + string(historyJSON)
}

type petDoc struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Traits       []string `json:"traits"`
	Commands     []string `json:"commands"`
	TrainedWords []string `json:"trained_words"`
}

type turnDoc struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// lastUserMessages: contenidos de los últimos `n` turnos role=user,
// en orden cronológico (el más reciente al final).
func lastUserMessages(recent []Turn, n int) []string {
	out := make([]string, 0, n)
	// recent está most-recent-first: recorremos tal cual y luego damos vuelta.
	for _, t := range recent {
		if t.Role != RoleUser {
			continue
		}
		out = append(out, t.Content)
		if len(out) == n {
			break
		}
	}
	// invertir a cronológico
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
