// Package redis implementa el historial de conversación sobre Redis:
// una lista por mascota, append al final, lecturas recientes desde la cola.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"petoverse-backend/internal/domain/conversation"

	goredis "github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "petoverse:turns"

	// Tope por mascota: la lista se recorta desde la cabeza, los turnos
	// viejos se descartan. Suficiente margen sobre la ventana de prompt.
	maxTurnsPerPet = 512
)

type TurnsRepo struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

func NewTurnsRepo(client *goredis.Client) *TurnsRepo {
	return &TurnsRepo{
		client: client,
		prefix: defaultPrefix,
		now:    time.Now,
	}
}

func (r *TurnsRepo) key(petID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, petID)
}

// doc es el shape persistido en la lista.
type doc struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Append: RPUSH preserva el orden de llegada por mascota; el timestamp
// se asigna acá (el "store" de este adapter es el proceso + redis).
func (r *TurnsRepo) Append(ctx context.Context, t conversation.Turn) error {
	if strings.TrimSpace(t.PetID) == "" {
		return errors.New("pet id required")
	}

	b, err := json.Marshal(doc{
		ID:        t.ID,
		Role:      string(t.Role),
		Content:   t.Content,
		CreatedAt: r.now(),
	})
	if err != nil {
		return fmt.Errorf("redis turns: marshal: %w", err)
	}

	key := r.key(t.PetID)
	if err := r.client.RPush(ctx, key, b).Err(); err != nil {
		return fmt.Errorf("redis turns: rpush: %w", err)
	}
	if err := r.client.LTrim(ctx, key, int64(-maxTurnsPerPet), -1).Err(); err != nil {
		return fmt.Errorf("redis turns: ltrim: %w", err)
	}
	return nil
}

// RecentByPet lee los últimos `limit` desde la cola de la lista
// (cronológico) y los devuelve más reciente primero.
func (r *TurnsRepo) RecentByPet(ctx context.Context, petID string, limit int) ([]conversation.Turn, error) {
	if strings.TrimSpace(petID) == "" || limit <= 0 {
		return nil, nil
	}

	raw, err := r.client.LRange(ctx, r.key(petID), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis turns: lrange: %w", err)
	}

	out := make([]conversation.Turn, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var d doc
		if err := json.Unmarshal([]byte(raw[i]), &d); err != nil {
			return nil, fmt.Errorf("redis turns: decode: %w", err)
		}
		out = append(out, conversation.Turn{
			ID:        d.ID,
			PetID:     petID,
			Role:      conversation.Role(d.Role),
			Content:   d.Content,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}
