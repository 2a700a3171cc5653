package conversation

import (
	"strings"
	"testing"

	"petoverse-backend/internal/domain/pets"
)

func TestBuildPersonaPrompt_NoHistory(t *testing.T) {
	p := pets.Pet{
		Name:         "Mochi",
		Type:         "dragon",
		Traits:       []string{"curious", "friendly"},
		Commands:     []string{"sit", "roll"},
		TrainedWords: []string{"fetch"},
	}

	got := BuildPersonaPrompt(p, nil)

	want := "You are Mochi, a virtual dragon.\n" +
		"Traits: curious, friendly.\n" +
		"Commands: sit, roll.\n" +
		"User has trained you on: fetch.\n" +
		"You are emotionally tuned to the user. Reply with personality.\n" +
		"Use only your given name and this persona context; do not invent another identity.\n" +
		"Recent user messages: (none)"
	if got != want {
		t.Fatalf("prompt mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestBuildPersonaPrompt_IsDeterministic(t *testing.T) {
	p := pets.Pet{Name: "Mochi", Type: "dragon", Traits: []string{"curious"}}
	recent := []Turn{
		{Role: RoleUser, Content: "hola"},
		{Role: RolePet, Content: "guau"},
	}

	a := BuildPersonaPrompt(p, recent)
	b := BuildPersonaPrompt(p, recent)
	if a != b {
		t.Fatalf("same input produced different prompts:\n%s\n---\n%s", a, b)
	}
}

func TestBuildPersonaPrompt_LastThreeUserMessagesChronological(t *testing.T) {
	p := pets.Pet{Name: "Mochi", Type: "dragon"}

	// Más reciente primero: así lo entrega el repo.
	recent := []Turn{
		{Role: RoleUser, Content: "fourth"},
		{Role: RolePet, Content: "r3"},
		{Role: RoleUser, Content: "third"},
		{Role: RoleUser, Content: "second"},
		{Role: RolePet, Content: "r1"},
		{Role: RoleUser, Content: "first"},
	}

	got := BuildPersonaPrompt(p, recent)

	if strings.Contains(got, "first") {
		t.Fatalf("fourth-oldest user message should be dropped:\n%s", got)
	}
	for _, frag := range []string{"1. second", "2. third", "3. fourth"} {
		if !strings.Contains(got, frag) {
			t.Fatalf("missing %q (chronological order expected):\n%s", frag, got)
		}
	}
	if strings.Contains(got, "r1") || strings.Contains(got, "r3") {
		t.Fatalf("pet replies must not appear as user messages:\n%s", got)
	}
}

func TestBuildContextPrompt_EmbedsStateAndHistory(t *testing.T) {
	p := pets.Pet{
		Name:         "Mochi",
		Type:         "dragon",
		Traits:       []string{"curious"},
		Commands:     []string{"sit"},
		TrainedWords: nil, // nil debe serializar como [], no null
	}
	recent := []Turn{
		{Role: RolePet, Content: "hi there"},
		{Role: RoleUser, Content: "hello"},
	}

	got := BuildContextPrompt(p, recent)

	if !strings.HasPrefix(got, "You're a pet in Petoverse.") {
		t.Fatalf("unexpected prompt prefix:\n%s", got)
	}
	if !strings.Contains(got, `"name":"Mochi"`) || !strings.Contains(got, `"type":"dragon"`) {
		t.Fatalf("pet state not embedded:\n%s", got)
	}
	if !strings.Contains(got, `"trained_words":[]`) {
		t.Fatalf("nil set should serialize as empty array:\n%s", got)
	}
	// Historial en cronológico: user antes que pet.
	userIdx := strings.Index(got, `"content":"hello"`)
	petIdx := strings.Index(got, `"content":"hi there"`)
	if userIdx < 0 || petIdx < 0 || userIdx > petIdx {
		t.Fatalf("history not chronological:\n%s", got)
	}
}
