package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"petoverse-backend/internal/domain/conversation"
	"petoverse-backend/internal/domain/pets"
)

// Fixture escrito "por el backend viejo": tiene que leerse tal cual.
const legacyFixture = `{
  "name": "Mochi",
  "type": "dragon",
  "traits": ["curious", "friendly"],
  "commands": ["sit", "roll"],
  "trained_words": ["fetch"],
  "history": [
    {"message": "hello", "response": "hi there!"},
    {"message": "sit", "response": "*sits*"}
  ]
}`

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	return s, dir
}

func TestStore_ReadsLegacyFile(t *testing.T) {
	s, dir := newTestStore(t)

	path := filepath.Join(dir, "owner-1_pet-1.json")
	if err := os.WriteFile(path, []byte(legacyFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	p, err := s.GetByOwnerAndID(context.Background(), "owner-1", "pet-1")
	if err != nil {
		t.Fatalf("GetByOwnerAndID error: %v", err)
	}
	if p.Name != "Mochi" || p.Type != "dragon" {
		t.Fatalf("unexpected pet: %+v", p)
	}
	if !p.HasCommand("sit") || !p.HasTrainedWord("fetch") {
		t.Fatalf("sets not loaded: %+v", p)
	}

	// El historial legacy se aplana a turnos, más reciente primero.
	turns, err := s.RecentByPet(context.Background(), "pet-1", 10)
	if err != nil {
		t.Fatalf("RecentByPet error: %v", err)
	}
	if len(turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(turns))
	}
	if turns[0].Role != conversation.RolePet || turns[0].Content != "*sits*" {
		t.Fatalf("wrong newest turn: %+v", turns[0])
	}
	if turns[3].Role != conversation.RoleUser || turns[3].Content != "hello" {
		t.Fatalf("wrong oldest turn: %+v", turns[3])
	}
}

func TestStore_AppendKeepsLegacyShape(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	err := s.Create(ctx, pets.Pet{
		ID:          "pet-1",
		OwnerUserID: "owner-1",
		Name:        "Mochi",
		Type:        "dragon",
		Traits:      []string{"curious"},
		Commands:    []string{"sit"},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Un intercambio completo: user abre, pet cierra.
	if err := s.Append(ctx, conversation.Turn{PetID: "pet-1", Role: conversation.RoleUser, Content: "hello"}); err != nil {
		t.Fatalf("Append user: %v", err)
	}
	if err := s.Append(ctx, conversation.Turn{PetID: "pet-1", Role: conversation.RolePet, Content: "hi!"}); err != nil {
		t.Fatalf("Append pet: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "owner-1_pet-1.json"))
	if err != nil {
		t.Fatalf("read back file: %v", err)
	}
	var doc struct {
		Name    string `json:"name"`
		History []struct {
			Message  string `json:"message"`
			Response string `json:"response"`
		} `json:"history"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode written file: %v", err)
	}
	if doc.Name != "Mochi" {
		t.Fatalf("pet fields lost: %+v", doc)
	}
	if len(doc.History) != 1 || doc.History[0].Message != "hello" || doc.History[0].Response != "hi!" {
		t.Fatalf("history not in message/response pairs: %+v", doc.History)
	}
}

func TestStore_UpdateTrainedState(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, pets.Pet{ID: "pet-1", OwnerUserID: "owner-1", Name: "Mochi", Type: "dragon"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	err := s.UpdateTrainedState(ctx, "owner-1", "pet-1", []string{"fetch", "sit"}, []string{"fetch"})
	if err != nil {
		t.Fatalf("UpdateTrainedState error: %v", err)
	}

	p, err := s.GetByOwnerAndID(ctx, "owner-1", "pet-1")
	if err != nil {
		t.Fatalf("GetByOwnerAndID error: %v", err)
	}
	if !p.HasCommand("fetch") || !p.HasTrainedWord("fetch") {
		t.Fatalf("trained state not persisted: %+v", p)
	}
}

func TestStore_MissingPetIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.GetByOwnerAndID(context.Background(), "owner-1", "ghost"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected pets.ErrNotFound, got %v", err)
	}
	err := s.UpdateTrainedState(context.Background(), "owner-1", "ghost", nil, nil)
	if !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("expected pets.ErrNotFound, got %v", err)
	}
}

func TestStore_ListByOwnerSkipsForeignFiles(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	if err := s.Create(ctx, pets.Pet{ID: "pet-1", OwnerUserID: "owner-1", Name: "Mochi", Type: "dragon"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := s.Create(ctx, pets.Pet{ID: "pet-2", OwnerUserID: "owner-2", Name: "Rex", Type: "dog"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	// Basura en el directorio: se ignora, no rompe.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	got, err := s.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Mochi" {
		t.Fatalf("unexpected listing: %+v", got)
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 pets total, got %d", len(all))
	}
}

func TestSplitKey(t *testing.T) {
	cases := []struct {
		name       string
		owner, pet string
		ok         bool
	}{
		{"owner-1_pet-1.json", "owner-1", "pet-1", true},
		{"user_with_underscores_abc123.json", "user_with_underscores", "abc123", true},
		{"nounderscore.json", "", "", false},
		{"owner-1_pet-1.txt", "", "", false},
	}
	for _, c := range cases {
		owner, pet, ok := splitKey(c.name)
		if ok != c.ok || owner != c.owner || pet != c.pet {
			t.Fatalf("splitKey(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.name, owner, pet, ok, c.owner, c.pet, c.ok)
		}
	}
}
