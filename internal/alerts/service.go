// Package alerts implements user-reported slot incidents and their live
// streaming to establishment staff.
package alerts

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// Service owns alert creation and resolution.
type Service struct {
	alerts      domain.AlertStore
	slots       domain.SlotStore
	parkingLots domain.ParkingLotStore
	broker      *Broker
}

// NewService creates an alert service.
func NewService(alerts domain.AlertStore, slots domain.SlotStore, parkingLots domain.ParkingLotStore, broker *Broker) *Service {
	return &Service{alerts: alerts, slots: slots, parkingLots: parkingLots, broker: broker}
}

// Create registers an alert for a slot and blocks the slot while it is
// attended. The block is best-effort: a failure is logged, the alert
// stands either way.
func (s *Service) Create(ctx context.Context, reporterUserID, slotID string, mensaje *string) (*domain.Alert, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	lot, err := s.parkingLots.FindByID(ctx, slot.ParkingLotID)
	if err != nil {
		return nil, err
	}
	if lot.EstablishmentID == "" {
		return nil, domain.NewError(domain.ErrValidation, "slot has no associated establishment", "VALIDATION_ERROR")
	}

	created, err := s.alerts.Create(ctx, domain.Alert{
		ID:              uuid.NewString(),
		EstablishmentID: lot.EstablishmentID,
		SlotID:          slot.ID,
		ReporterUserID:  reporterUserID,
		Mensaje:         mensaje,
		Estado:          domain.AlertPending,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	flag := domain.SlotBlocked
	if _, err := s.slots.Update(ctx, slot.ID, domain.SlotPatch{EstadoOperativo: &flag}); err != nil {
		log.Printf("could not block slot %s for alert %s: %v", slot.ID, created.ID, err)
	}

	if s.broker != nil {
		s.broker.Publish(*created)
	}
	return created, nil
}

// ListByEstablishment lists an establishment's alerts, newest first.
func (s *Service) ListByEstablishment(ctx context.Context, establishmentID, estado string, limit int) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.alerts.ListByEstablishment(ctx, establishmentID, estado, limit)
}

// MarkRead stamps the alert as viewed.
func (s *Service) MarkRead(ctx context.Context, id string) (*domain.Alert, error) {
	return s.alerts.MarkRead(ctx, id, time.Now().UTC())
}

// UpdateEstado sets the alert's estado.
func (s *Service) UpdateEstado(ctx context.Context, id, estado string) (*domain.Alert, error) {
	return s.alerts.UpdateEstado(ctx, id, estado)
}

// Resolve marks the alert attended and, best-effort, returns the slot to
// reservado so the standing reservation keeps its hold.
func (s *Service) Resolve(ctx context.Context, id string) (*domain.Alert, error) {
	alert, err := s.alerts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.alerts.UpdateEstado(ctx, id, domain.AlertAttended)
	if err != nil {
		return nil, err
	}

	flag := domain.SlotReserved
	if _, err := s.slots.Update(ctx, alert.SlotID, domain.SlotPatch{EstadoOperativo: &flag}); err != nil {
		log.Printf("could not release slot %s after alert %s: %v", alert.SlotID, id, err)
	}
	return updated, nil
}

// Subscribe exposes the broker for streaming handlers.
func (s *Service) Subscribe(establishmentID string) (<-chan domain.Alert, func()) {
	return s.broker.Subscribe(establishmentID)
}
