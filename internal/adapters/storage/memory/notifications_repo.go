package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"petoverse-backend/internal/domain/notifications"
)

type notificationsRepo struct {
	mu  sync.Mutex
	all []notifications.Notification
}

func NewNotificationsRepo() notifications.Repository {
	return &notificationsRepo{}
}

func (r *notificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(n.PetID) == "" {
		return errors.New("pet id required")
	}
	r.all = append(r.all, n)
	return nil
}
