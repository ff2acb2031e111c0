// Package notification implements per-user notification records.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// Service owns notification records.
type Service struct {
	store domain.NotificationStore
}

// NewService creates a notification service.
func NewService(store domain.NotificationStore) *Service {
	return &Service{store: store}
}

// Create persists a notification for a user.
func (s *Service) Create(ctx context.Context, userID, titulo, cuerpo string) (*domain.Notification, error) {
	if userID == "" {
		return nil, domain.NewError(domain.ErrValidation, "usuario_id is required", "VALIDATION_ERROR")
	}
	return s.store.Create(ctx, domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Titulo:    titulo,
		Cuerpo:    cuerpo,
		CreatedAt: time.Now().UTC(),
	})
}

// ListByUser lists a user's notifications, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListByUser(ctx, userID, limit)
}

// MarkRead stamps a notification as read.
func (s *Service) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	return s.store.MarkRead(ctx, id, time.Now().UTC())
}
