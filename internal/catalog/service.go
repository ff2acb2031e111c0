// Package catalog implements CRUD over the marketplace inventory:
// establishments, parking lots, slots, tariffs and cancellation policies.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// Service exposes the catalog operations. It is a thin layer: identity and
// timestamps are assigned here, geometry parsing happens at the API edge,
// and the stores do the rest.
type Service struct {
	establishments domain.EstablishmentStore
	parkingLots    domain.ParkingLotStore
	slots          domain.SlotStore
	tariffs        domain.TariffStore
	policies       domain.CancellationPolicyStore
}

// NewService creates a catalog service.
func NewService(
	establishments domain.EstablishmentStore,
	parkingLots domain.ParkingLotStore,
	slots domain.SlotStore,
	tariffs domain.TariffStore,
	policies domain.CancellationPolicyStore,
) *Service {
	return &Service{
		establishments: establishments,
		parkingLots:    parkingLots,
		slots:          slots,
		tariffs:        tariffs,
		policies:       policies,
	}
}

func stamp() (string, time.Time) {
	return uuid.NewString(), time.Now().UTC()
}

// --- Establishments ---

func (s *Service) CreateEstablishment(ctx context.Context, e domain.Establishment) (*domain.Establishment, error) {
	if e.Nombre == "" {
		return nil, domain.NewError(domain.ErrValidation, "nombre is required", "VALIDATION_ERROR")
	}
	id, now := stamp()
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Estado == "" {
		e.Estado = "activo"
	}
	return s.establishments.Create(ctx, e)
}

func (s *Service) GetEstablishment(ctx context.Context, id string) (*domain.Establishment, error) {
	return s.establishments.FindByID(ctx, id)
}

func (s *Service) ListEstablishments(ctx context.Context) ([]domain.Establishment, error) {
	return s.establishments.List(ctx)
}

func (s *Service) UpdateEstablishment(ctx context.Context, id string, fields map[string]any) (*domain.Establishment, error) {
	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return s.establishments.Update(ctx, id, fields)
}

func (s *Service) DeleteEstablishment(ctx context.Context, id string) error {
	return s.establishments.Delete(ctx, id)
}

// --- Parking lots ---

func (s *Service) CreateParkingLot(ctx context.Context, p domain.ParkingLot) (*domain.ParkingLot, error) {
	if p.EstablishmentID == "" {
		return nil, domain.NewError(domain.ErrValidation, "establecimiento_id is required", "VALIDATION_ERROR")
	}
	// The establishment must exist before hanging a lot off it.
	if _, err := s.establishments.FindByID(ctx, p.EstablishmentID); err != nil {
		return nil, err
	}
	id, now := stamp()
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Estado == "" {
		p.Estado = "activo"
	}
	return s.parkingLots.Create(ctx, p)
}

func (s *Service) GetParkingLot(ctx context.Context, id string) (*domain.ParkingLot, error) {
	return s.parkingLots.FindByID(ctx, id)
}

func (s *Service) ListParkingLots(ctx context.Context) ([]domain.ParkingLot, error) {
	return s.parkingLots.List(ctx)
}

func (s *Service) ListParkingLotsByEstablishment(ctx context.Context, establishmentID string) ([]domain.ParkingLot, error) {
	return s.parkingLots.ListByEstablishment(ctx, establishmentID)
}

func (s *Service) UpdateParkingLot(ctx context.Context, id string, fields map[string]any) (*domain.ParkingLot, error) {
	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return s.parkingLots.Update(ctx, id, fields)
}

func (s *Service) DeleteParkingLot(ctx context.Context, id string) error {
	return s.parkingLots.Delete(ctx, id)
}

// --- Slots ---

func (s *Service) CreateSlot(ctx context.Context, slot domain.Slot) (*domain.Slot, error) {
	if slot.ParkingLotID == "" {
		return nil, domain.NewError(domain.ErrValidation, "estacionamiento_id is required", "VALIDATION_ERROR")
	}
	if slot.Codigo == "" {
		return nil, domain.NewError(domain.ErrValidation, "codigo is required", "VALIDATION_ERROR")
	}
	id, now := stamp()
	slot.ID = id
	slot.CreatedAt = now
	slot.UpdatedAt = now
	if slot.EstadoOperativo == "" {
		slot.EstadoOperativo = domain.SlotOperational
	}
	return s.slots.Create(ctx, slot)
}

func (s *Service) GetSlot(ctx context.Context, id string) (*domain.Slot, error) {
	return s.slots.FindByID(ctx, id)
}

func (s *Service) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	return s.slots.List(ctx)
}

func (s *Service) ListSlotsByParkingLot(ctx context.Context, parkingLotID string) ([]domain.Slot, error) {
	return s.slots.ListByParkingLot(ctx, parkingLotID)
}

func (s *Service) UpdateSlot(ctx context.Context, id string, patch domain.SlotPatch) (*domain.Slot, error) {
	return s.slots.Update(ctx, id, patch)
}

func (s *Service) DeleteSlot(ctx context.Context, id string) error {
	return s.slots.Delete(ctx, id)
}

// --- Tariffs ---

func (s *Service) CreateTariff(ctx context.Context, t domain.Tariff) (*domain.Tariff, error) {
	if t.Nombre == "" {
		return nil, domain.NewError(domain.ErrValidation, "nombre is required", "VALIDATION_ERROR")
	}
	if t.Moneda == "" || len(t.Moneda) != 3 {
		return nil, domain.NewError(domain.ErrValidation, "moneda must be a 3-letter code", "VALIDATION_ERROR")
	}
	id, now := stamp()
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.tariffs.Create(ctx, t)
}

func (s *Service) GetTariff(ctx context.Context, id string) (*domain.Tariff, error) {
	return s.tariffs.FindByID(ctx, id)
}

func (s *Service) ListTariffs(ctx context.Context) ([]domain.Tariff, error) {
	return s.tariffs.List(ctx)
}

func (s *Service) UpdateTariff(ctx context.Context, id string, fields map[string]any) (*domain.Tariff, error) {
	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return s.tariffs.Update(ctx, id, fields)
}

func (s *Service) DeleteTariff(ctx context.Context, id string) error {
	return s.tariffs.Delete(ctx, id)
}

// --- Cancellation policies ---

func (s *Service) CreatePolicy(ctx context.Context, p domain.CancellationPolicy) (*domain.CancellationPolicy, error) {
	id, now := stamp()
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.policies.Create(ctx, p)
}

func (s *Service) GetPolicy(ctx context.Context, id string) (*domain.CancellationPolicy, error) {
	return s.policies.FindByID(ctx, id)
}

func (s *Service) ListPolicies(ctx context.Context) ([]domain.CancellationPolicy, error) {
	return s.policies.List(ctx)
}

func (s *Service) UpdatePolicy(ctx context.Context, id string, fields map[string]any) (*domain.CancellationPolicy, error) {
	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return s.policies.Update(ctx, id, fields)
}

func (s *Service) DeletePolicy(ctx context.Context, id string) error {
	return s.policies.Delete(ctx, id)
}
