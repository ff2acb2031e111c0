package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// fakePaymentStore rejects configured method tags the way the pagos table
// enum does.
type fakePaymentStore struct {
	rejected map[string]bool
	byID     map[string]*domain.Payment
}

func newFakePaymentStore(rejected ...string) *fakePaymentStore {
	r := map[string]bool{}
	for _, m := range rejected {
		r[m] = true
	}
	return &fakePaymentStore{rejected: r, byID: map[string]*domain.Payment{}}
}

func (f *fakePaymentStore) Create(_ context.Context, p domain.Payment) (*domain.Payment, error) {
	if f.rejected[p.Metodo] {
		return nil, domain.NewError(domain.ErrUnsupportedMethod,
			"metodo "+p.Metodo+" rejected by schema", "UNSUPPORTED_METHOD")
	}
	cp := p
	f.byID[p.ID] = &cp
	return &cp, nil
}

func (f *fakePaymentStore) FindByID(_ context.Context, id string) (*domain.Payment, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentStore) ListByReservation(_ context.Context, reservationID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range f.byID {
		if p.ReservationID == reservationID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) FindByProviderTxID(_ context.Context, txID string) (*domain.Payment, error) {
	for _, p := range f.byID {
		if p.ProviderTxID != nil && *p.ProviderTxID == txID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePaymentStore) Update(_ context.Context, id string, patch domain.PaymentPatch) (*domain.Payment, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Estado != nil {
		p.Estado = *patch.Estado
	}
	if patch.ProviderTxID != nil {
		p.ProviderTxID = patch.ProviderTxID
	}
	if patch.ReceiptURL != nil {
		p.ReceiptURL = patch.ReceiptURL
	}
	cp := *p
	return &cp, nil
}

type fakePayPal struct {
	fail      bool
	lastOrder domain.OrderRequest
}

func (f *fakePayPal) CreateOrder(_ context.Context, req domain.OrderRequest) (*domain.ProviderOrder, error) {
	if f.fail {
		return nil, domain.NewError(domain.ErrProvider, "paypal unavailable", "PROVIDER_ERROR")
	}
	f.lastOrder = req
	return &domain.ProviderOrder{
		ID:                "ORDER-1",
		Status:            "CREATED",
		ExternalReference: req.ExternalReference,
		ApproveURL:        "https://paypal.test/approve/ORDER-1",
	}, nil
}

func (f *fakePayPal) GetOrder(_ context.Context, orderID string) (*domain.ProviderOrder, error) {
	return &domain.ProviderOrder{ID: orderID, Status: "CREATED"}, nil
}

func (f *fakePayPal) CaptureOrder(_ context.Context, orderID string) (*domain.CaptureResult, error) {
	return &domain.CaptureResult{Status: "COMPLETED"}, nil
}

type fakeMercadoPago struct {
	lastOrder domain.OrderRequest
}

func (f *fakeMercadoPago) CreatePreference(_ context.Context, req domain.OrderRequest) (*domain.Preference, error) {
	f.lastOrder = req
	return &domain.Preference{ID: "PREF-1", InitPoint: "https://mp.test/init/PREF-1"}, nil
}

func (f *fakeMercadoPago) GetPayment(_ context.Context, id string) (*domain.ProviderPayment, error) {
	return &domain.ProviderPayment{ID: id, Status: "approved"}, nil
}

func (f *fakeMercadoPago) GetMerchantOrder(_ context.Context, id string) (*domain.MerchantOrder, error) {
	return &domain.MerchantOrder{}, nil
}

func newTestService(store *fakePaymentStore, pp *fakePayPal, mp *fakeMercadoPago) *Service {
	return NewService(store, pp, mp, []string{"paypal", "tarjeta", "efectivo"}, "http://localhost:4001")
}

func TestService_CreateIntent_PayPalHappyPath(t *testing.T) {
	store := newFakePaymentStore()
	pp := &fakePayPal{}
	svc := newTestService(store, pp, &fakeMercadoPago{})

	intent, err := svc.CreateIntent(context.Background(), IntentInput{
		ReservationID: "res-1",
		Monto:         1500,
	})
	require.NoError(t, err)

	require.NotNil(t, intent.Order)
	assert.Nil(t, intent.Preference)
	assert.Equal(t, "paypal", intent.Payment.Metodo)
	assert.Equal(t, domain.PaymentPending, intent.Payment.Estado)
	require.NotNil(t, intent.Payment.ProviderTxID)
	assert.Equal(t, "ORDER-1", *intent.Payment.ProviderTxID)

	// the provider order references the persisted payment id
	assert.Equal(t, intent.Payment.ID, pp.lastOrder.ExternalReference)
	assert.Equal(t, "ARS", pp.lastOrder.Currency)
	assert.Contains(t, pp.lastOrder.ReturnURLs.Success, "/pagos/return/success")
}

func TestService_CreateIntent_FallsDownCandidateList(t *testing.T) {
	store := newFakePaymentStore("paypal", "tarjeta")
	svc := newTestService(store, &fakePayPal{}, &fakeMercadoPago{})

	intent, err := svc.CreateIntent(context.Background(), IntentInput{
		ReservationID: "res-1",
		Monto:         900,
	})
	require.NoError(t, err)
	assert.Equal(t, "efectivo", intent.Payment.Metodo)
}

func TestService_CreateIntent_AllCandidatesRejected(t *testing.T) {
	store := newFakePaymentStore("paypal", "tarjeta", "efectivo")
	svc := newTestService(store, &fakePayPal{}, &fakeMercadoPago{})

	_, err := svc.CreateIntent(context.Background(), IntentInput{
		ReservationID: "res-1",
		Monto:         900,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedMethod))
}

func TestService_CreateIntent_HintGoesFirst(t *testing.T) {
	store := newFakePaymentStore()
	mp := &fakeMercadoPago{}
	svc := newTestService(store, &fakePayPal{}, mp)

	intent, err := svc.CreateIntent(context.Background(), IntentInput{
		ReservationID: "res-1",
		Monto:         500,
		Metodo:        "mercadopago",
	})
	require.NoError(t, err)

	require.NotNil(t, intent.Preference)
	assert.Nil(t, intent.Order)
	assert.Equal(t, "mercadopago", intent.Payment.Metodo)
	require.NotNil(t, intent.Payment.ProviderTxID)
	assert.Equal(t, "PREF-1", *intent.Payment.ProviderTxID)
	assert.Equal(t, intent.Payment.ID, mp.lastOrder.ExternalReference)
}

func TestService_CreateIntent_ProviderFailureLeavesOrphanPending(t *testing.T) {
	store := newFakePaymentStore()
	svc := newTestService(store, &fakePayPal{fail: true}, &fakeMercadoPago{})

	_, err := svc.CreateIntent(context.Background(), IntentInput{
		ReservationID: "res-1",
		Monto:         1200,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProvider))

	// The payment row survives in pendiente with no provider reference; it
	// is picked up by retry or manual reconciliation.
	list, err := svc.ListByReservation(context.Background(), "res-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.PaymentPending, list[0].Estado)
	assert.Nil(t, list[0].ProviderTxID)
}

func TestService_CreateIntent_Validation(t *testing.T) {
	svc := newTestService(newFakePaymentStore(), &fakePayPal{}, &fakeMercadoPago{})

	_, err := svc.CreateIntent(context.Background(), IntentInput{Monto: 100})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.CreateIntent(context.Background(), IntentInput{ReservationID: "res-1"})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.CreateIntent(context.Background(), IntentInput{ReservationID: "res-1", Monto: -5})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
