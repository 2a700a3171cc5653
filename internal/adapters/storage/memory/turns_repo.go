package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"petoverse-backend/internal/domain/conversation"
)

// turnsRepo guarda el historial en memoria. El orden de append es el
// orden del slice, así que la monotonía por mascota sale gratis del lock.
type turnsRepo struct {
	mu    sync.RWMutex
	byPet map[string][]conversation.Turn
	now   func() time.Time
	seq   int64
}

func NewTurnsRepo() conversation.TurnsRepository {
	return &turnsRepo{
		byPet: make(map[string][]conversation.Turn),
		now:   time.Now,
	}
}

func (r *turnsRepo) Append(ctx context.Context, t conversation.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.PetID) == "" {
		return errors.New("pet id required")
	}

	// El store asigna el timestamp; el seq desempata appends dentro del
	// mismo instante del reloj.
	r.seq++
	t.CreatedAt = r.now().Add(time.Duration(r.seq) * time.Nanosecond)

	r.byPet[t.PetID] = append(r.byPet[t.PetID], t)
	return nil
}

func (r *turnsRepo) RecentByPet(ctx context.Context, petID string, limit int) ([]conversation.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.byPet[petID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	// Más reciente primero.
	out := make([]conversation.Turn, 0, limit)
	for i := len(all) - 1; i >= len(all)-limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
