package postgres

import (
	"context"
	"database/sql"
	"strings"

	"petoverse-backend/internal/domain/conversation"
)

type TurnsRepo struct {
	db *sql.DB
}

func NewTurnsRepo(db *sql.DB) *TurnsRepo {
	return &TurnsRepo{db: db}
}

// Append: timestamp y seq los asigna la base (now() + bigserial), así el
// orden por mascota queda monotónico aunque dos appends caigan en el
// mismo microsegundo.
func (r *TurnsRepo) Append(ctx context.Context, t conversation.Turn) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, pet_id, role, content)
		VALUES ($1,$2,$3,$4)
	`,
		t.ID,
		t.PetID,
		string(t.Role),
		t.Content,
	)
	return err
}

func (r *TurnsRepo) RecentByPet(ctx context.Context, petID string, limit int) ([]conversation.Turn, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" || limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, role, content, created_at
		FROM messages
		WHERE pet_id = $1
		ORDER BY seq DESC
		LIMIT $2
	`, petID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]conversation.Turn, 0, limit)
	for rows.Next() {
		var t conversation.Turn
		var role string
		if err := rows.Scan(&t.ID, &t.PetID, &role, &t.Content, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Role = conversation.Role(role)
		out = append(out, t)
	}
	return out, rows.Err()
}
