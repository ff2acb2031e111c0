// Package payment implements payment intent creation: persisting a payment
// record and requesting the matching provider order or preference.
package payment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// Service orchestrates payment intents.
type Service struct {
	payments      domain.PaymentStore
	paypal        domain.PayPalGateway
	mercadopago   domain.MercadoPagoGateway
	candidates    []string
	publicBaseURL string
}

// NewService creates a payment service. candidates is the ordered fallback
// list of method tags accepted by the pagos schema; publicBaseURL is used
// to build default return URLs.
func NewService(
	payments domain.PaymentStore,
	paypal domain.PayPalGateway,
	mercadopago domain.MercadoPagoGateway,
	candidates []string,
	publicBaseURL string,
) *Service {
	return &Service{
		payments:      payments,
		paypal:        paypal,
		mercadopago:   mercadopago,
		candidates:    candidates,
		publicBaseURL: publicBaseURL,
	}
}

// IntentInput carries a payment intent request.
type IntentInput struct {
	ReservationID string
	Monto         float64
	Moneda        string
	Metodo        string
	Descripcion   string
	BackURLs      *domain.ReturnURLs
}

// Intent is a created payment intent: the persisted payment plus the raw
// provider order/preference the caller uses to redirect the end user.
type Intent struct {
	Payment    *domain.Payment       `json:"pago"`
	Order      *domain.ProviderOrder `json:"order,omitempty"`
	Preference *domain.Preference    `json:"preference,omitempty"`
}

// methodCandidates builds the ordered, de-duplicated candidate list
// starting with the caller's hint.
func (s *Service) methodCandidates(hint string) []string {
	if hint == "" {
		hint = "paypal"
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(s.candidates)+1)
	for _, m := range append([]string{hint}, s.candidates...) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func usesMercadoPago(metodo string) bool {
	return metodo == "mercadopago" || metodo == "mp"
}

// CreateIntent persists a Payment and requests a provider order for it.
//
// The pagos table enforces a closed enum of method tags that may lag
// behind the provider configuration, so persistence is retried down the
// candidate list while the store reports ErrUnsupportedMethod; any other
// failure aborts immediately. If the provider call fails after the row was
// persisted the payment stays pendiente with no provider reference, which
// is recoverable by retry or manual reconciliation.
func (s *Service) CreateIntent(ctx context.Context, in IntentInput) (*Intent, error) {
	if in.ReservationID == "" {
		return nil, domain.NewError(domain.ErrValidation, "reserva_id is required", "VALIDATION_ERROR")
	}
	if in.Monto <= 0 {
		return nil, domain.NewError(domain.ErrValidation, "monto must be greater than 0", "VALIDATION_ERROR")
	}
	moneda := in.Moneda
	if moneda == "" {
		moneda = "ARS"
	}

	var saved *domain.Payment
	var lastErr error
	for _, metodo := range s.methodCandidates(in.Metodo) {
		p := domain.Payment{
			ID:            uuid.NewString(),
			ReservationID: in.ReservationID,
			Metodo:        metodo,
			Monto:         in.Monto,
			Moneda:        moneda,
			Estado:        domain.PaymentPending,
			CreatedAt:     time.Now().UTC(),
		}
		created, err := s.payments.Create(ctx, p)
		if err != nil {
			lastErr = err
			if errors.Is(err, domain.ErrUnsupportedMethod) {
				log.Printf("payment method %q rejected by store, trying next candidate", metodo)
				continue
			}
			return nil, err
		}
		saved = created
		break
	}
	if saved == nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, domain.NewError(domain.ErrStorage, "could not persist payment", "STORAGE_ERROR")
	}

	backURLs := s.defaultReturnURLs()
	if in.BackURLs != nil {
		backURLs = *in.BackURLs
	}
	descripcion := in.Descripcion
	if descripcion == "" {
		descripcion = "Pago de reserva"
	}

	orderReq := domain.OrderRequest{
		ExternalReference: saved.ID,
		Amount:            saved.Monto,
		Currency:          saved.Moneda,
		Description:       descripcion,
		ReturnURLs:        backURLs,
	}

	intent := &Intent{Payment: saved}
	var providerRef string
	if usesMercadoPago(saved.Metodo) {
		pref, err := s.mercadopago.CreatePreference(ctx, orderReq)
		if err != nil {
			return nil, err
		}
		intent.Preference = pref
		providerRef = pref.ID
	} else {
		order, err := s.paypal.CreateOrder(ctx, orderReq)
		if err != nil {
			return nil, err
		}
		intent.Order = order
		providerRef = order.ID
	}

	updated, err := s.payments.Update(ctx, saved.ID, domain.PaymentPatch{ProviderTxID: &providerRef})
	if err != nil {
		return nil, err
	}
	intent.Payment = updated

	log.Printf("created payment intent %s (metodo=%s, provider ref=%s) for reserva %s",
		updated.ID, updated.Metodo, providerRef, updated.ReservationID)

	return intent, nil
}

// GetByID fetches a payment.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return s.payments.FindByID(ctx, id)
}

// ListByReservation lists a reservation's payment attempts, newest first.
func (s *Service) ListByReservation(ctx context.Context, reservationID string) ([]domain.Payment, error) {
	return s.payments.ListByReservation(ctx, reservationID)
}

func (s *Service) defaultReturnURLs() domain.ReturnURLs {
	base := s.publicBaseURL + "/api/v1/pagos/return/"
	return domain.ReturnURLs{
		Success: base + "success",
		Pending: base + "pending",
		Failure: base + "failure",
	}
}
