package occupancy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

type fakeSlotStore struct {
	slots []domain.Slot
}

func (f *fakeSlotStore) Create(_ context.Context, s domain.Slot) (*domain.Slot, error) {
	return &s, nil
}

func (f *fakeSlotStore) FindByID(_ context.Context, id string) (*domain.Slot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSlotStore) List(_ context.Context) ([]domain.Slot, error) { return f.slots, nil }

func (f *fakeSlotStore) ListByParkingLot(_ context.Context, parkingLotID string) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range f.slots {
		if s.ParkingLotID == parkingLotID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotStore) ListByEstablishment(_ context.Context, _ string) ([]domain.Slot, error) {
	return f.slots, nil
}

func (f *fakeSlotStore) Update(_ context.Context, id string, _ domain.SlotPatch) (*domain.Slot, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeSlotStore) Delete(_ context.Context, id string) error { return nil }

type fakeReservationStore struct {
	reservations []domain.Reservation
}

func (f *fakeReservationStore) Create(_ context.Context, r domain.Reservation) (*domain.Reservation, error) {
	return &r, nil
}

func (f *fakeReservationStore) FindByID(_ context.Context, id string) (*domain.Reservation, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeReservationStore) ListByUser(_ context.Context, _, _ string) ([]domain.Reservation, error) {
	return nil, nil
}

func (f *fakeReservationStore) ListBySlots(_ context.Context, slotIDs []string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.SlotID == nil {
			continue
		}
		for _, id := range slotIDs {
			if *r.SlotID == id {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeReservationStore) Update(_ context.Context, id string, _ domain.ReservationPatch) (*domain.Reservation, error) {
	return nil, domain.ErrNotFound
}

func strPtr(s string) *string { return &s }

func TestForParkingLot_BlockedSlotIsOccupiedWithoutReservations(t *testing.T) {
	slots := &fakeSlotStore{slots: []domain.Slot{
		{ID: "s1", ParkingLotID: "lot-1", Codigo: "A1", EstadoOperativo: domain.SlotBlocked, EsReservable: true},
	}}
	svc := NewService(slots, &fakeReservationStore{})

	proj, err := svc.ForParkingLot(context.Background(), "lot-1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, proj.Total)
	assert.Equal(t, 1, proj.Occupied)
	assert.Equal(t, 0, proj.Free)
	require.Len(t, proj.Slots, 1)
	assert.True(t, proj.Slots[0].Occupied)
	assert.False(t, proj.Slots[0].Available)
	assert.Equal(t, "ocupado", proj.Slots[0].DerivedState)
}

func TestForParkingLot_ActiveWindowOccupiesOperationalSlot(t *testing.T) {
	now := time.Now()
	slots := &fakeSlotStore{slots: []domain.Slot{
		{ID: "s1", ParkingLotID: "lot-1", Codigo: "A1", EstadoOperativo: domain.SlotOperational, EsReservable: true},
	}}
	reservations := &fakeReservationStore{reservations: []domain.Reservation{
		{
			ID:     "r1",
			SlotID: strPtr("s1"),
			Estado: domain.ReservationConfirmed,
			Desde:  now.Add(-time.Hour),
			Hasta:  now.Add(time.Hour),
		},
	}}
	svc := NewService(slots, reservations)

	proj, err := svc.ForParkingLot(context.Background(), "lot-1", now)
	require.NoError(t, err)

	assert.Equal(t, 1, proj.Occupied)
	assert.True(t, proj.Slots[0].Occupied)
	assert.False(t, proj.Slots[0].Available)
}

func TestForParkingLot_CancelledOverlapDoesNotOccupy(t *testing.T) {
	now := time.Now()
	slots := &fakeSlotStore{slots: []domain.Slot{
		{ID: "s1", ParkingLotID: "lot-1", Codigo: "A1", EstadoOperativo: domain.SlotOperational, EsReservable: true},
	}}
	reservations := &fakeReservationStore{reservations: []domain.Reservation{
		{
			ID:     "r1",
			SlotID: strPtr("s1"),
			Estado: domain.ReservationCancelled,
			Desde:  now.Add(-time.Hour),
			Hasta:  now.Add(time.Hour),
		},
	}}
	svc := NewService(slots, reservations)

	proj, err := svc.ForParkingLot(context.Background(), "lot-1", now)
	require.NoError(t, err)

	assert.Equal(t, 0, proj.Occupied)
	assert.Equal(t, 1, proj.Free)
	assert.False(t, proj.Slots[0].Occupied)
	assert.True(t, proj.Slots[0].Available)
	assert.Equal(t, "libre", proj.Slots[0].DerivedState)
}

func TestForParkingLot_WindowBoundsAreHalfOpen(t *testing.T) {
	now := time.Now()
	slots := &fakeSlotStore{slots: []domain.Slot{
		{ID: "s1", ParkingLotID: "lot-1", EstadoOperativo: domain.SlotOperational, EsReservable: true},
	}}

	// Window ending exactly now is no longer active.
	reservations := &fakeReservationStore{reservations: []domain.Reservation{
		{ID: "r1", SlotID: strPtr("s1"), Estado: domain.ReservationConfirmed, Desde: now.Add(-time.Hour), Hasta: now},
	}}
	proj, err := NewService(slots, reservations).ForParkingLot(context.Background(), "lot-1", now)
	require.NoError(t, err)
	assert.False(t, proj.Slots[0].Occupied)

	// Window starting exactly now is active.
	reservations = &fakeReservationStore{reservations: []domain.Reservation{
		{ID: "r2", SlotID: strPtr("s1"), Estado: domain.ReservationConfirmed, Desde: now, Hasta: now.Add(time.Hour)},
	}}
	proj, err = NewService(slots, reservations).ForParkingLot(context.Background(), "lot-1", now)
	require.NoError(t, err)
	assert.True(t, proj.Slots[0].Occupied)
}

func TestForParkingLot_MaintenanceIsUnavailableButNotOccupied(t *testing.T) {
	slots := &fakeSlotStore{slots: []domain.Slot{
		{ID: "s1", ParkingLotID: "lot-1", EstadoOperativo: domain.SlotUnderMaintenance, EsReservable: true},
	}}
	svc := NewService(slots, &fakeReservationStore{})

	proj, err := svc.ForParkingLot(context.Background(), "lot-1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, proj.Occupied)
	assert.False(t, proj.Slots[0].Occupied)
	assert.False(t, proj.Slots[0].Available)
	assert.Equal(t, domain.SlotUnderMaintenance, proj.Slots[0].DerivedState)
}

func TestForParkingLot_NonReservableIsNeverAvailable(t *testing.T) {
	slots := &fakeSlotStore{slots: []domain.Slot{
		{ID: "s1", ParkingLotID: "lot-1", EstadoOperativo: domain.SlotOperational, EsReservable: false},
	}}
	svc := NewService(slots, &fakeReservationStore{})

	proj, err := svc.ForParkingLot(context.Background(), "lot-1", time.Now())
	require.NoError(t, err)

	assert.False(t, proj.Slots[0].Occupied)
	assert.False(t, proj.Slots[0].Available)
}

func TestForParkingLot_Counts(t *testing.T) {
	now := time.Now()
	slots := &fakeSlotStore{slots: []domain.Slot{
		{ID: "s1", ParkingLotID: "lot-1", EstadoOperativo: domain.SlotOperational, EsReservable: true},
		{ID: "s2", ParkingLotID: "lot-1", EstadoOperativo: domain.SlotBlocked, EsReservable: true},
		{ID: "s3", ParkingLotID: "lot-1", EstadoOperativo: domain.SlotOperational, EsReservable: true},
	}}
	reservations := &fakeReservationStore{reservations: []domain.Reservation{
		{ID: "r1", SlotID: strPtr("s3"), Estado: domain.ReservationPendingPayment, Desde: now.Add(-time.Minute), Hasta: now.Add(time.Hour)},
	}}
	svc := NewService(slots, reservations)

	proj, err := svc.ForParkingLot(context.Background(), "lot-1", now)
	require.NoError(t, err)

	assert.Equal(t, 3, proj.Total)
	assert.Equal(t, 2, proj.Occupied)
	assert.Equal(t, 1, proj.Free)
}
