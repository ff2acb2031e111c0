package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// fakeStore is an in-memory ReservationStore.
type fakeStore struct {
	byID map[string]*domain.Reservation
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[string]*domain.Reservation{}}
}

func (f *fakeStore) Create(_ context.Context, r domain.Reservation) (*domain.Reservation, error) {
	cp := r
	f.byID[r.ID] = &cp
	return &cp, nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*domain.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID, estado string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range f.byID {
		if r.UserID != userID {
			continue
		}
		if estado != "" && r.Estado != estado {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStore) ListBySlots(_ context.Context, slotIDs []string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range f.byID {
		if r.SlotID == nil {
			continue
		}
		for _, id := range slotIDs {
			if *r.SlotID == id {
				out = append(out, *r)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id string, patch domain.ReservationPatch) (*domain.Reservation, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.SlotID != nil {
		r.SlotID = patch.SlotID
	}
	if patch.Desde != nil {
		r.Desde = *patch.Desde
	}
	if patch.Hasta != nil {
		r.Hasta = *patch.Hasta
	}
	if patch.Estado != nil {
		r.Estado = *patch.Estado
	}
	if patch.PrecioTotal != nil {
		r.PrecioTotal = patch.PrecioTotal
	}
	if patch.Moneda != nil {
		r.Moneda = *patch.Moneda
	}
	if patch.Origen != nil {
		r.Origen = *patch.Origen
	}
	if patch.CodigoQR != nil {
		r.CodigoQR = patch.CodigoQR
	}
	cp := *r
	return &cp, nil
}

func strPtr(s string) *string { return &s }

func TestService_Create_StartsPendingPayment(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	desde := time.Now().Add(time.Hour)
	hasta := desde.Add(2 * time.Hour)

	r, err := svc.Create(context.Background(), "user-1", CreateInput{
		SlotID: strPtr("slot-1"),
		Desde:  desde,
		Hasta:  hasta,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationPendingPayment, r.Estado)
	assert.Equal(t, "user-1", r.UserID)
	assert.Equal(t, "ARS", r.Moneda)
	assert.Equal(t, "web", r.Origen)
	assert.NotEmpty(t, r.ID)
	assert.True(t, r.Hasta.After(r.Desde))
}

func TestService_Create_RejectsInvertedWindow(t *testing.T) {
	svc := NewService(newFakeStore())

	desde := time.Now().Add(2 * time.Hour)
	hasta := desde.Add(-time.Hour)

	_, err := svc.Create(context.Background(), "user-1", CreateInput{Desde: desde, Hasta: hasta})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestService_Create_RejectsEqualBounds(t *testing.T) {
	svc := NewService(newFakeStore())

	at := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), "user-1", CreateInput{Desde: at, Hasta: at})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestService_Create_RejectsBadCurrency(t *testing.T) {
	svc := NewService(newFakeStore())

	desde := time.Now().Add(time.Hour)
	_, err := svc.Create(context.Background(), "user-1", CreateInput{
		Desde:  desde,
		Hasta:  desde.Add(time.Hour),
		Moneda: "PESOS",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestService_Confirm_ReturnsSlotFollowUp(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	desde := time.Now().Add(time.Hour)
	r, err := svc.Create(context.Background(), "user-1", CreateInput{
		SlotID: strPtr("slot-9"),
		Desde:  desde,
		Hasta:  desde.Add(time.Hour),
	})
	require.NoError(t, err)

	updated, followUp, err := svc.Confirm(context.Background(), r.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationConfirmed, updated.Estado)
	require.NotNil(t, followUp)
	assert.Equal(t, "slot-9", followUp.SlotID)
	assert.Equal(t, domain.SlotReserved, followUp.EstadoOperativo)
}

func TestService_Confirm_NoSlotNoFollowUp(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	desde := time.Now().Add(time.Hour)
	r, err := svc.Create(context.Background(), "user-1", CreateInput{
		Desde: desde,
		Hasta: desde.Add(time.Hour),
	})
	require.NoError(t, err)

	updated, followUp, err := svc.Confirm(context.Background(), r.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, updated.Estado)
	assert.Nil(t, followUp)
}

func TestService_Cancel_ReleasesSlot(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	desde := time.Now().Add(time.Hour)
	r, err := svc.Create(context.Background(), "user-1", CreateInput{
		SlotID: strPtr("slot-3"),
		Desde:  desde,
		Hasta:  desde.Add(time.Hour),
	})
	require.NoError(t, err)

	updated, followUp, err := svc.Cancel(context.Background(), r.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationCancelled, updated.Estado)
	require.NotNil(t, followUp)
	assert.Equal(t, "slot-3", followUp.SlotID)
	assert.Equal(t, domain.SlotOperational, followUp.EstadoOperativo)
}

func TestService_Update_RevalidatesMergedWindow(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	desde := time.Now().Add(time.Hour).UTC()
	r, err := svc.Create(context.Background(), "user-1", CreateInput{
		Desde: desde,
		Hasta: desde.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	// Moving hasta before the stored desde must fail even though hasta
	// alone looks fine.
	bad := desde.Add(-time.Minute)
	_, err = svc.Update(context.Background(), r.ID, UpdateInput{Hasta: &bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	// A consistent one-sided move is accepted.
	good := desde.Add(3 * time.Hour)
	updated, err := svc.Update(context.Background(), r.ID, UpdateInput{Hasta: &good})
	require.NoError(t, err)
	assert.True(t, updated.Hasta.Equal(good))
	assert.True(t, updated.Desde.Equal(desde))
}

func TestService_Update_RejectsBadCurrency(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	desde := time.Now().Add(time.Hour)
	r, err := svc.Create(context.Background(), "user-1", CreateInput{
		Desde: desde,
		Hasta: desde.Add(time.Hour),
	})
	require.NoError(t, err)

	bad := "AR"
	_, err = svc.Update(context.Background(), r.ID, UpdateInput{Moneda: &bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestService_ListByUser_FiltersByEstado(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	desde := time.Now().Add(time.Hour)
	first, err := svc.Create(context.Background(), "user-1", CreateInput{Desde: desde, Hasta: desde.Add(time.Hour)})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "user-1", CreateInput{Desde: desde, Hasta: desde.Add(time.Hour)})
	require.NoError(t, err)

	_, _, err = svc.Cancel(context.Background(), first.ID)
	require.NoError(t, err)

	cancelled, err := svc.ListByUser(context.Background(), "user-1", domain.ReservationCancelled)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, first.ID, cancelled[0].ID)

	all, err := svc.ListByUser(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
