// Package reservation implements the reservation lifecycle: creation,
// confirmation, cancellation and partial updates.
package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// FollowUp is a cross-aggregate action the caller must execute after a
// state transition. The lifecycle manager never mutates slots itself; it
// reports what the slot state should become and the orchestration layer
// (handler or settlement reconciler) applies it and records failures.
type FollowUp struct {
	SlotID          string
	EstadoOperativo string
}

// Service owns the reservation state machine.
type Service struct {
	store domain.ReservationStore
}

// NewService creates a reservation service.
func NewService(store domain.ReservationStore) *Service {
	return &Service{store: store}
}

// CreateInput carries the fields a caller may set on a new reservation.
type CreateInput struct {
	SlotID      *string
	Desde       time.Time
	Hasta       time.Time
	PrecioTotal *float64
	Moneda      string
	Origen      string
}

// Create persists a new reservation in pendiente_pago.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Reservation, error) {
	if in.Desde.IsZero() || in.Hasta.IsZero() {
		return nil, domain.NewError(domain.ErrValidation, "desde and hasta are required", "VALIDATION_ERROR")
	}
	if !in.Hasta.After(in.Desde) {
		return nil, domain.NewError(domain.ErrValidation, "hasta must be after desde", "VALIDATION_ERROR")
	}

	moneda := in.Moneda
	if moneda == "" {
		moneda = "ARS"
	}
	if len(moneda) != 3 {
		return nil, domain.NewError(domain.ErrValidation, "moneda must be a 3-letter code", "VALIDATION_ERROR")
	}
	origen := in.Origen
	if origen == "" {
		origen = "web"
	}

	now := time.Now().UTC()
	r := domain.Reservation{
		ID:          uuid.NewString(),
		UserID:      userID,
		SlotID:      in.SlotID,
		Desde:       in.Desde.UTC(),
		Hasta:       in.Hasta.UTC(),
		Estado:      domain.ReservationPendingPayment,
		PrecioTotal: in.PrecioTotal,
		Moneda:      moneda,
		Origen:      origen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.store.Create(ctx, r)
}

// GetByID fetches a reservation.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.store.FindByID(ctx, id)
}

// ListByUser lists a user's reservations, optionally filtered by estado.
func (s *Service) ListByUser(ctx context.Context, userID, estado string) ([]domain.Reservation, error) {
	return s.store.ListByUser(ctx, userID, estado)
}

// Confirm transitions a reservation to confirmada, optionally attaching a
// slot. The returned follow-up asks the caller to mark the slot reservado.
func (s *Service) Confirm(ctx context.Context, id string, slotID *string) (*domain.Reservation, *FollowUp, error) {
	estado := domain.ReservationConfirmed
	patch := domain.ReservationPatch{Estado: &estado, SlotID: slotID}
	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, nil, err
	}

	var followUp *FollowUp
	if updated.SlotID != nil {
		followUp = &FollowUp{SlotID: *updated.SlotID, EstadoOperativo: domain.SlotReserved}
	}
	return updated, followUp, nil
}

// Cancel transitions a reservation to cancelada. The returned follow-up
// asks the caller to release the slot back to operativo.
func (s *Service) Cancel(ctx context.Context, id string) (*domain.Reservation, *FollowUp, error) {
	estado := domain.ReservationCancelled
	updated, err := s.store.Update(ctx, id, domain.ReservationPatch{Estado: &estado})
	if err != nil {
		return nil, nil, err
	}

	var followUp *FollowUp
	if updated.SlotID != nil {
		followUp = &FollowUp{SlotID: *updated.SlotID, EstadoOperativo: domain.SlotOperational}
	}
	return updated, followUp, nil
}

// UpdateInput carries a partial reservation mutation.
type UpdateInput struct {
	SlotID      *string
	Desde       *time.Time
	Hasta       *time.Time
	PrecioTotal *float64
	Moneda      *string
	Origen      *string
	CodigoQR    *string
}

// Update applies a partial mutation. When either bound of the window is
// patched, the invariant hasta > desde is re-checked against the merged
// record, so a one-sided patch cannot invert the window.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Reservation, error) {
	if in.Moneda != nil && len(*in.Moneda) != 3 {
		return nil, domain.NewError(domain.ErrValidation, "moneda must be a 3-letter code", "VALIDATION_ERROR")
	}

	if in.Desde != nil || in.Hasta != nil {
		current, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		desde, hasta := current.Desde, current.Hasta
		if in.Desde != nil {
			desde = in.Desde.UTC()
		}
		if in.Hasta != nil {
			hasta = in.Hasta.UTC()
		}
		if !hasta.After(desde) {
			return nil, domain.NewError(domain.ErrValidation, "hasta must be after desde", "VALIDATION_ERROR")
		}
	}

	patch := domain.ReservationPatch{
		SlotID:      in.SlotID,
		PrecioTotal: in.PrecioTotal,
		Moneda:      in.Moneda,
		Origen:      in.Origen,
		CodigoQR:    in.CodigoQR,
	}
	if in.Desde != nil {
		d := in.Desde.UTC()
		patch.Desde = &d
	}
	if in.Hasta != nil {
		h := in.Hasta.UTC()
		patch.Hasta = &h
	}
	return s.store.Update(ctx, id, patch)
}
