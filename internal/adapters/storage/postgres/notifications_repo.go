package postgres

import (
	"context"
	"database/sql"

	"petoverse-backend/internal/domain/notifications"
)

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, pet_id, message, created_at)
		VALUES ($1,$2,$3,$4)
	`,
		n.ID,
		n.PetID,
		n.Message,
		n.CreatedAt,
	)
	return err
}
