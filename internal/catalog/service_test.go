package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

type fakeEstablishmentStore struct {
	byID map[string]*domain.Establishment
}

func (f *fakeEstablishmentStore) Create(_ context.Context, e domain.Establishment) (*domain.Establishment, error) {
	cp := e
	f.byID[e.ID] = &cp
	return &cp, nil
}

func (f *fakeEstablishmentStore) FindByID(_ context.Context, id string) (*domain.Establishment, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEstablishmentStore) List(_ context.Context) ([]domain.Establishment, error) {
	return nil, nil
}

func (f *fakeEstablishmentStore) Update(_ context.Context, id string, fields map[string]any) (*domain.Establishment, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if v, ok := fields["nombre"].(string); ok {
		e.Nombre = v
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEstablishmentStore) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type fakeParkingLotStore struct {
	byID map[string]*domain.ParkingLot
}

func (f *fakeParkingLotStore) Create(_ context.Context, p domain.ParkingLot) (*domain.ParkingLot, error) {
	cp := p
	f.byID[p.ID] = &cp
	return &cp, nil
}

func (f *fakeParkingLotStore) FindByID(_ context.Context, id string) (*domain.ParkingLot, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeParkingLotStore) List(_ context.Context) ([]domain.ParkingLot, error) { return nil, nil }

func (f *fakeParkingLotStore) ListByEstablishment(_ context.Context, _ string) ([]domain.ParkingLot, error) {
	return nil, nil
}

func (f *fakeParkingLotStore) Update(_ context.Context, id string, _ map[string]any) (*domain.ParkingLot, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeParkingLotStore) Delete(_ context.Context, id string) error { return nil }

type fakeSlotStore struct {
	byID map[string]*domain.Slot
}

func (f *fakeSlotStore) Create(_ context.Context, s domain.Slot) (*domain.Slot, error) {
	cp := s
	f.byID[s.ID] = &cp
	return &cp, nil
}

func (f *fakeSlotStore) FindByID(_ context.Context, id string) (*domain.Slot, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlotStore) List(_ context.Context) ([]domain.Slot, error) { return nil, nil }

func (f *fakeSlotStore) ListByParkingLot(_ context.Context, _ string) ([]domain.Slot, error) {
	return nil, nil
}

func (f *fakeSlotStore) ListByEstablishment(_ context.Context, _ string) ([]domain.Slot, error) {
	return nil, nil
}

func (f *fakeSlotStore) Update(_ context.Context, id string, patch domain.SlotPatch) (*domain.Slot, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.EstadoOperativo != nil {
		s.EstadoOperativo = *patch.EstadoOperativo
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlotStore) Delete(_ context.Context, id string) error { return nil }

type fakeTariffStore struct{}

func (fakeTariffStore) Create(_ context.Context, t domain.Tariff) (*domain.Tariff, error) {
	return &t, nil
}
func (fakeTariffStore) FindByID(_ context.Context, _ string) (*domain.Tariff, error) {
	return nil, domain.ErrNotFound
}
func (fakeTariffStore) List(_ context.Context) ([]domain.Tariff, error) { return nil, nil }
func (fakeTariffStore) Update(_ context.Context, _ string, _ map[string]any) (*domain.Tariff, error) {
	return nil, domain.ErrNotFound
}
func (fakeTariffStore) Delete(_ context.Context, _ string) error { return nil }

type fakePolicyStore struct{}

func (fakePolicyStore) Create(_ context.Context, p domain.CancellationPolicy) (*domain.CancellationPolicy, error) {
	return &p, nil
}
func (fakePolicyStore) FindByID(_ context.Context, _ string) (*domain.CancellationPolicy, error) {
	return nil, domain.ErrNotFound
}
func (fakePolicyStore) List(_ context.Context) ([]domain.CancellationPolicy, error) {
	return nil, nil
}
func (fakePolicyStore) Update(_ context.Context, _ string, _ map[string]any) (*domain.CancellationPolicy, error) {
	return nil, domain.ErrNotFound
}
func (fakePolicyStore) Delete(_ context.Context, _ string) error { return nil }

func newTestService() (*Service, *fakeEstablishmentStore) {
	establishments := &fakeEstablishmentStore{byID: map[string]*domain.Establishment{}}
	return NewService(
		establishments,
		&fakeParkingLotStore{byID: map[string]*domain.ParkingLot{}},
		&fakeSlotStore{byID: map[string]*domain.Slot{}},
		fakeTariffStore{},
		fakePolicyStore{},
	), establishments
}

func TestCreateEstablishment_DefaultsAndStamps(t *testing.T) {
	svc, _ := newTestService()

	e, err := svc.CreateEstablishment(context.Background(), domain.Establishment{Nombre: "Garage Centro"})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "activo", e.Estado)
	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
}

func TestCreateEstablishment_RequiresName(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateEstablishment(context.Background(), domain.Establishment{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestCreateParkingLot_RequiresExistingEstablishment(t *testing.T) {
	svc, establishments := newTestService()

	_, err := svc.CreateParkingLot(context.Background(), domain.ParkingLot{EstablishmentID: "est-404"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	e, err := svc.CreateEstablishment(context.Background(), domain.Establishment{Nombre: "Garage Centro"})
	require.NoError(t, err)
	require.Contains(t, establishments.byID, e.ID)

	lot, err := svc.CreateParkingLot(context.Background(), domain.ParkingLot{
		EstablishmentID: e.ID,
		Nombre:          "Subsuelo 1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lot.ID)
	assert.Equal(t, "activo", lot.Estado)
}

func TestCreateSlot_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSlot(context.Background(), domain.Slot{Codigo: "A1"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.CreateSlot(context.Background(), domain.Slot{ParkingLotID: "lot-1"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	slot, err := svc.CreateSlot(context.Background(), domain.Slot{ParkingLotID: "lot-1", Codigo: "A1"})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotOperational, slot.EstadoOperativo)
}

func TestCreateTariff_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateTariff(context.Background(), domain.Tariff{Moneda: "ARS"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.CreateTariff(context.Background(), domain.Tariff{Nombre: "Hora pico", Moneda: "PESOS"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	tariff, err := svc.CreateTariff(context.Background(), domain.Tariff{Nombre: "Hora pico", Moneda: "ARS"})
	require.NoError(t, err)
	assert.NotEmpty(t, tariff.ID)
}
