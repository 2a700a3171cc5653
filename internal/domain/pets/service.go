package pets

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name string
	Type string
}

// Create registra una mascota nueva con los seeds por defecto.
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Type) == "" {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:           uuid.NewString(),
		OwnerUserID:  ownerUserID,
		Name:         strings.TrimSpace(in.Name),
		Type:         strings.TrimSpace(in.Type),
		Traits:       append([]string(nil), DefaultTraits...),
		Commands:     append([]string(nil), DefaultCommands...),
		TrainedWords: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// GetByOwnerAndID expone el lookup owner-scoped del repo.
func (s *Service) GetByOwnerAndID(ctx context.Context, ownerUserID, petID string) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" || strings.TrimSpace(petID) == "" {
		return Pet{}, ErrInvalidInput
	}
	return s.repo.GetByOwnerAndID(ctx, ownerUserID, petID)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) ListAll(ctx context.Context) ([]Pet, error) {
	return s.repo.ListAll(ctx)
}

// UpdateTrainedState persiste el reemplazo de ambos sets.
func (s *Service) UpdateTrainedState(ctx context.Context, ownerUserID, petID string, commands, trainedWords []string) error {
	return s.repo.UpdateTrainedState(ctx, ownerUserID, petID, commands, trainedWords)
}

// Union agrega items a un set sin duplicar. Devuelve el set ordenado
// para que el resultado sea determinístico venga en el orden que venga.
func Union(set []string, items ...string) []string {
	seen := make(map[string]struct{}, len(set)+len(items))
	out := make([]string, 0, len(set)+len(items))
	for _, v := range set {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range items {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
