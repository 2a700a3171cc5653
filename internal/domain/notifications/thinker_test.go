package notifications

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"petoverse-backend/internal/domain/pets"
	"petoverse-backend/internal/platform/logger"
	"petoverse-backend/internal/ports/llm"
)

type fakeLister struct {
	pets []pets.Pet
	err  error
}

func (f *fakeLister) ListAll(ctx context.Context) ([]pets.Pet, error) {
	return f.pets, f.err
}

type fakeNotifRepo struct {
	mu      sync.Mutex
	created []Notification
	err     error
}

func (f *fakeNotifRepo) Create(ctx context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotifRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// failFor falla la generación solo para la mascota indicada.
type failFor struct {
	badName string
}

func (f *failFor) Generate(ctx context.Context, systemPrompt, userMessage string, opts llm.Options) (string, error) {
	if f.badName != "" && strings.Contains(userMessage, f.badName) {
		return "", errors.New("model refused")
	}
	return "don't forget the walk!", nil
}

func TestRunCycle_CreatesOneNotificationPerPet(t *testing.T) {
	lister := &fakeLister{pets: []pets.Pet{
		{ID: "p1", Name: "Mochi", Type: "dragon"},
		{ID: "p2", Name: "Rex", Type: "dog"},
		{ID: "p3", Name: "Nube", Type: "cat"},
	}}
	repo := &fakeNotifRepo{}
	th := NewThinker(lister, repo, &failFor{}, logger.Nop(), time.Hour)

	th.RunCycle(context.Background())

	if len(repo.created) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(repo.created))
	}
	seen := map[string]bool{}
	for _, n := range repo.created {
		if n.ID == "" || n.Message == "" {
			t.Fatalf("notification missing fields: %+v", n)
		}
		seen[n.PetID] = true
	}
	if !seen["p1"] || !seen["p2"] || !seen["p3"] {
		t.Fatalf("missing per-pet notifications: %+v", repo.created)
	}
}

func TestRunCycle_OneFailingPetDoesNotSilenceTheRest(t *testing.T) {
	lister := &fakeLister{pets: []pets.Pet{
		{ID: "p1", Name: "Mochi", Type: "dragon"},
		{ID: "p2", Name: "Rex", Type: "dog"},
		{ID: "p3", Name: "Nube", Type: "cat"},
	}}
	repo := &fakeNotifRepo{}
	th := NewThinker(lister, repo, &failFor{badName: "Rex"}, logger.Nop(), time.Hour)

	th.RunCycle(context.Background())

	if len(repo.created) != 2 {
		t.Fatalf("expected 2 notifications (one pet failing), got %d", len(repo.created))
	}
	for _, n := range repo.created {
		if n.PetID == "p2" {
			t.Fatalf("failing pet should not get a notification")
		}
	}
}

func TestRunCycle_ListFailureSkipsCycle(t *testing.T) {
	lister := &fakeLister{err: errors.New("db down")}
	repo := &fakeNotifRepo{}
	th := NewThinker(lister, repo, &failFor{}, logger.Nop(), time.Hour)

	th.RunCycle(context.Background())

	if len(repo.created) != 0 {
		t.Fatalf("expected no notifications when listing fails, got %d", len(repo.created))
	}
}

func TestThinker_StartAndStop(t *testing.T) {
	lister := &fakeLister{pets: []pets.Pet{{ID: "p1", Name: "Mochi", Type: "dragon"}}}
	repo := &fakeNotifRepo{}
	th := NewThinker(lister, repo, &failFor{}, logger.Nop(), time.Hour)

	th.Start()
	th.Start() // idempotente

	// La primera pasada es inmediata.
	deadline := time.After(2 * time.Second)
	for repo.count() == 0 {
		select {
		case <-deadline:
			t.Fatalf("first cycle did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	th.Stop()
	th.Stop() // idempotente
}
