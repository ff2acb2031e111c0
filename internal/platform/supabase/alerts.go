package supabase

import (
	"context"
	"time"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// AlertStore implements domain.AlertStore over the alertas table.
type AlertStore struct {
	client *Client
}

func NewAlertStore(client *Client) *AlertStore {
	return &AlertStore{client: client}
}

func (s *AlertStore) Create(ctx context.Context, a domain.Alert) (*domain.Alert, error) {
	var out domain.Alert
	if err := s.client.Insert(ctx, "alertas", a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AlertStore) FindByID(ctx context.Context, id string) (*domain.Alert, error) {
	var out domain.Alert
	if err := s.client.SelectOne(ctx, "alertas", map[string]string{"id": "eq." + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AlertStore) ListByEstablishment(ctx context.Context, establishmentID, estado string, limit int) ([]domain.Alert, error) {
	filters := map[string]string{"establecimiento_id": "eq." + establishmentID}
	if estado != "" {
		filters["estado"] = "eq." + estado
	}
	var out []domain.Alert
	if err := s.client.Select(ctx, "alertas", filters, "created_at.desc", limit, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AlertStore) MarkRead(ctx context.Context, id string, at time.Time) (*domain.Alert, error) {
	fields := map[string]any{"viewed_at": at.UTC().Format(time.RFC3339)}
	var out domain.Alert
	if err := s.client.UpdateByID(ctx, "alertas", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AlertStore) UpdateEstado(ctx context.Context, id, estado string) (*domain.Alert, error) {
	fields := map[string]any{"estado": estado}
	var out domain.Alert
	if err := s.client.UpdateByID(ctx, "alertas", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NotificationStore implements domain.NotificationStore over the
// notificaciones table.
type NotificationStore struct {
	client *Client
}

func NewNotificationStore(client *Client) *NotificationStore {
	return &NotificationStore{client: client}
}

func (s *NotificationStore) Create(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	var out domain.Notification
	if err := s.client.Insert(ctx, "notificaciones", n, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	filters := map[string]string{"usuario_id": "eq." + userID}
	var out []domain.Notification
	if err := s.client.Select(ctx, "notificaciones", filters, "created_at.desc", limit, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, id string, at time.Time) (*domain.Notification, error) {
	fields := map[string]any{
		"leida":   true,
		"read_at": at.UTC().Format(time.RFC3339),
	}
	var out domain.Notification
	if err := s.client.UpdateByID(ctx, "notificaciones", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
