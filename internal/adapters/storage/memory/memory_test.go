package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"petoverse-backend/internal/domain/conversation"
	"petoverse-backend/internal/domain/pets"
)

func TestPetRepo_OwnerScope(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	err := repo.Create(ctx, pets.Pet{ID: "pet-1", OwnerUserID: "owner-1", Name: "Mochi"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := repo.GetByOwnerAndID(ctx, "owner-2", "pet-1"); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("foreign owner should get ErrNotFound, got %v", err)
	}
	if err := repo.UpdateTrainedState(ctx, "owner-2", "pet-1", nil, nil); !errors.Is(err, pets.ErrNotFound) {
		t.Fatalf("foreign owner update should get ErrNotFound, got %v", err)
	}

	got, err := repo.GetByOwnerAndID(ctx, "owner-1", "pet-1")
	if err != nil || got.Name != "Mochi" {
		t.Fatalf("owner lookup failed: %+v, %v", got, err)
	}
}

func TestPetRepo_ListByOwnerSortedByCreation(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"c", "a", "b"} {
		err := repo.Create(ctx, pets.Pet{
			ID:          id,
			OwnerUserID: "owner-1",
			Name:        id,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	_ = repo.Create(ctx, pets.Pet{ID: "x", OwnerUserID: "owner-2", CreatedAt: base})

	got, err := repo.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 pets, got %d", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "a" || got[2].ID != "b" {
		t.Fatalf("wrong order: %s %s %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestPetRepo_DuplicateCreateFails(t *testing.T) {
	repo := NewPetRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, pets.Pet{ID: "pet-1", OwnerUserID: "owner-1"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := repo.Create(ctx, pets.Pet{ID: "pet-1", OwnerUserID: "owner-1"}); err == nil {
		t.Fatalf("expected duplicate create to fail")
	}
}

func TestTurnsRepo_RecentIsNewestFirst(t *testing.T) {
	repo := NewTurnsRepo()
	ctx := context.Background()

	for _, c := range []string{"one", "two", "three", "four"} {
		err := repo.Append(ctx, conversation.Turn{
			ID:      c,
			PetID:   "pet-1",
			Role:    conversation.RoleUser,
			Content: c,
		})
		if err != nil {
			t.Fatalf("Append error: %v", err)
		}
	}

	got, err := repo.RecentByPet(ctx, "pet-1", 3)
	if err != nil {
		t.Fatalf("RecentByPet error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(got))
	}
	if got[0].Content != "four" || got[1].Content != "three" || got[2].Content != "two" {
		t.Fatalf("wrong order: %s %s %s", got[0].Content, got[1].Content, got[2].Content)
	}
	// El store asigna timestamps monótonos aun dentro del mismo instante.
	if !got[0].CreatedAt.After(got[1].CreatedAt) {
		t.Fatalf("timestamps not monotonic: %v vs %v", got[0].CreatedAt, got[1].CreatedAt)
	}
}

func TestTurnsRepo_EmptyPetHistory(t *testing.T) {
	repo := NewTurnsRepo()

	got, err := repo.RecentByPet(context.Background(), "ghost", 5)
	if err != nil {
		t.Fatalf("RecentByPet error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %+v", got)
	}
}
