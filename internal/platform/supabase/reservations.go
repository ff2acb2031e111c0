package supabase

import (
	"context"
	"time"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// ReservationStore implements domain.ReservationStore over the reservas
// table.
type ReservationStore struct {
	client *Client
}

// NewReservationStore creates a reservation store.
func NewReservationStore(client *Client) *ReservationStore {
	return &ReservationStore{client: client}
}

func (s *ReservationStore) Create(ctx context.Context, r domain.Reservation) (*domain.Reservation, error) {
	var out domain.Reservation
	if err := s.client.Insert(ctx, "reservas", r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ReservationStore) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var out domain.Reservation
	if err := s.client.SelectOne(ctx, "reservas", map[string]string{"id": "eq." + id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ReservationStore) ListByUser(ctx context.Context, userID, estado string) ([]domain.Reservation, error) {
	filters := map[string]string{"usuario_id": "eq." + userID}
	if estado != "" {
		filters["estado"] = "eq." + estado
	}
	var out []domain.Reservation
	if err := s.client.Select(ctx, "reservas", filters, "created_at.desc", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReservationStore) ListBySlots(ctx context.Context, slotIDs []string) ([]domain.Reservation, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}
	filters := map[string]string{"slot_id": inList(slotIDs)}
	var out []domain.Reservation
	if err := s.client.Select(ctx, "reservas", filters, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReservationStore) Update(ctx context.Context, id string, patch domain.ReservationPatch) (*domain.Reservation, error) {
	fields := map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if patch.SlotID != nil {
		fields["slot_id"] = *patch.SlotID
	}
	if patch.Desde != nil {
		fields["desde"] = patch.Desde.UTC().Format(time.RFC3339)
	}
	if patch.Hasta != nil {
		fields["hasta"] = patch.Hasta.UTC().Format(time.RFC3339)
	}
	if patch.Estado != nil {
		fields["estado"] = *patch.Estado
	}
	if patch.PrecioTotal != nil {
		fields["precio_total"] = *patch.PrecioTotal
	}
	if patch.Moneda != nil {
		fields["moneda"] = *patch.Moneda
	}
	if patch.Origen != nil {
		fields["origen"] = *patch.Origen
	}
	if patch.CodigoQR != nil {
		fields["codigo_qr"] = *patch.CodigoQR
	}

	var out domain.Reservation
	if err := s.client.UpdateByID(ctx, "reservas", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
