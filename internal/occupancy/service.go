// Package occupancy derives the point-in-time occupancy view of slots. The
// projection is recomputed on every query; nothing here is persisted.
package occupancy

import (
	"context"
	"time"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// SlotDetail is the per-slot row of a projection.
type SlotDetail struct {
	ID           string `json:"id"`
	Codigo       string `json:"codigo"`
	DerivedState string `json:"derived_state"`
	Occupied     bool   `json:"occupied"`
	Available    bool   `json:"available"`
}

// Projection is the occupancy view for a scope at a given instant.
type Projection struct {
	Total    int          `json:"total"`
	Occupied int          `json:"occupied"`
	Free     int          `json:"free"`
	Slots    []SlotDetail `json:"slots"`
}

// Service computes occupancy projections.
type Service struct {
	slots        domain.SlotStore
	reservations domain.ReservationStore
}

// NewService creates an occupancy service.
func NewService(slots domain.SlotStore, reservations domain.ReservationStore) *Service {
	return &Service{slots: slots, reservations: reservations}
}

// ForParkingLot projects occupancy for every slot of a parking lot.
func (s *Service) ForParkingLot(ctx context.Context, parkingLotID string, now time.Time) (*Projection, error) {
	slots, err := s.slots.ListByParkingLot(ctx, parkingLotID)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, slots, now)
}

// ForEstablishment projects occupancy across all of an establishment's
// parking lots.
func (s *Service) ForEstablishment(ctx context.Context, establishmentID string, now time.Time) (*Projection, error) {
	slots, err := s.slots.ListByEstablishment(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, slots, now)
}

func (s *Service) project(ctx context.Context, slots []domain.Slot, now time.Time) (*Projection, error) {
	ids := make([]string, 0, len(slots))
	for _, slot := range slots {
		ids = append(ids, slot.ID)
	}

	reservations, err := s.reservations.ListBySlots(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Active reservation windows per slot.
	activeBySlot := map[string]bool{}
	for _, r := range reservations {
		if r.SlotID == nil || r.Estado == domain.ReservationCancelled {
			continue
		}
		if !now.Before(r.Desde) && now.Before(r.Hasta) {
			activeBySlot[*r.SlotID] = true
		}
	}

	projection := &Projection{
		Total: len(slots),
		Slots: make([]SlotDetail, 0, len(slots)),
	}
	for _, slot := range slots {
		occupied := isFlagOccupied(slot.EstadoOperativo) || activeBySlot[slot.ID]
		available := !occupied && slot.EstadoOperativo == domain.SlotOperational && slot.EsReservable

		if occupied {
			projection.Occupied++
		}

		projection.Slots = append(projection.Slots, SlotDetail{
			ID:           slot.ID,
			Codigo:       slot.Codigo,
			DerivedState: deriveState(slot.EstadoOperativo, occupied),
			Occupied:     occupied,
			Available:    available,
		})
	}
	projection.Free = projection.Total - projection.Occupied
	return projection, nil
}

func isFlagOccupied(flag string) bool {
	return flag == domain.SlotBlocked || flag == domain.SlotReserved
}

func deriveState(flag string, occupied bool) string {
	switch {
	case occupied:
		return "ocupado"
	case flag == domain.SlotUnderMaintenance:
		return domain.SlotUnderMaintenance
	default:
		return "libre"
	}
}
