// Package settlement reconciles provider payment outcomes (webhooks,
// capture results) with the stored Payment, Reservation and Slot records.
package settlement

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// Notifier records a user-facing message about a settlement outcome.
// Notification failures never block reconciliation.
type Notifier interface {
	Create(ctx context.Context, userID, titulo, cuerpo string) (*domain.Notification, error)
}

// Service applies provider status reports. All entry points are idempotent
// on the provider's reference id: status is always re-derived from the
// freshest provider read, never from event ordering.
type Service struct {
	payments     domain.PaymentStore
	reservations domain.ReservationStore
	slots        domain.SlotStore
	paypal       domain.PayPalGateway
	mercadopago  domain.MercadoPagoGateway
	journal      Journal
	notifier     Notifier
}

// NewService creates a settlement service.
func NewService(
	payments domain.PaymentStore,
	reservations domain.ReservationStore,
	slots domain.SlotStore,
	paypal domain.PayPalGateway,
	mercadopago domain.MercadoPagoGateway,
	journal Journal,
	notifier Notifier,
) *Service {
	if journal == nil {
		journal = LogJournal{}
	}
	return &Service{
		payments:     payments,
		reservations: reservations,
		slots:        slots,
		paypal:       paypal,
		mercadopago:  mercadopago,
		journal:      journal,
		notifier:     notifier,
	}
}

// PayPalEvent is the subset of a PayPal webhook payload the reconciler
// consumes.
type PayPalEvent struct {
	EventType string
	OrderID   string
	Status    string
	// ExternalReference is the reference_id PayPal echoes back from order
	// creation; it carries our payment id.
	ExternalReference string
}

// reconcilablePayPalEvent reports whether the event family carries an
// order or capture outcome. Other families (disputes, plans, vaulting)
// never change a payment's state here.
func reconcilablePayPalEvent(eventType string) bool {
	t := strings.ToUpper(eventType)
	return strings.HasPrefix(t, "CHECKOUT.ORDER.") || strings.HasPrefix(t, "PAYMENT.CAPTURE.")
}

// HandlePayPalEvent processes an asynchronous PayPal notification. The
// payment is located through the echoed external reference; anything the
// event does not carry (the reference, the status) is re-read from the
// provider rather than guessed.
func (s *Service) HandlePayPalEvent(ctx context.Context, evt PayPalEvent) error {
	if evt.EventType != "" && !reconcilablePayPalEvent(evt.EventType) {
		log.Printf("ignoring paypal event type=%q", evt.EventType)
		return nil
	}

	paymentID := evt.ExternalReference
	status := evt.Status

	if (paymentID == "" || status == "") && evt.OrderID != "" {
		order, err := s.paypal.GetOrder(ctx, evt.OrderID)
		if err != nil {
			return err
		}
		if paymentID == "" {
			paymentID = order.ExternalReference
		}
		if status == "" {
			status = order.Status
		}
	}
	if paymentID == "" {
		if evt.OrderID == "" {
			// Nothing to correlate on; acknowledge and move on.
			return nil
		}
		s.journal.Record(ctx, Entry{
			Action: "resolve_payment",
			Reason: fmt.Sprintf("paypal order %s carries no external reference", evt.OrderID),
		})
		return nil
	}
	if status == "" {
		// Never write an empty estado over the stored one.
		s.journal.Record(ctx, Entry{
			PaymentID: paymentID,
			Action:    "resolve_status",
			Reason:    fmt.Sprintf("paypal event for order %q carries no status", evt.OrderID),
		})
		return nil
	}

	patch := domain.PaymentPatch{}
	if evt.OrderID != "" {
		orderID := evt.OrderID
		patch.ProviderTxID = &orderID
	}
	return s.apply(ctx, paymentID, MapPayPalStatus(status), patch)
}

// MercadoPagoEvent is a Mercado Pago notification: either a payment or a
// merchant_order topic, identified by the resource id.
type MercadoPagoEvent struct {
	Type   string
	Action string
	DataID string
}

// HandleMercadoPagoEvent processes a Mercado Pago notification by
// re-reading the referenced resource from the provider.
func (s *Service) HandleMercadoPagoEvent(ctx context.Context, evt MercadoPagoEvent) error {
	if evt.DataID == "" {
		return nil
	}

	switch {
	case evt.Type == "payment" || evt.Action == "payment.created" || evt.Action == "payment.updated":
		p, err := s.mercadopago.GetPayment(ctx, evt.DataID)
		if err != nil {
			return err
		}
		if p.ExternalReference == "" {
			s.journal.Record(ctx, Entry{
				Action: "resolve_payment",
				Reason: fmt.Sprintf("mp payment %s carries no external reference", p.ID),
			})
			return nil
		}
		txID := p.ID
		return s.apply(ctx, p.ExternalReference, MapMercadoPagoStatus(p.Status), domain.PaymentPatch{
			ProviderTxID: &txID,
			ReceiptURL:   p.ReceiptURL,
		})

	case evt.Type == "merchant_order":
		order, err := s.mercadopago.GetMerchantOrder(ctx, evt.DataID)
		if err != nil {
			return err
		}
		if order.ExternalReference == "" || len(order.Payments) == 0 {
			return nil
		}
		last := order.Payments[len(order.Payments)-1]
		txID := last.ID
		return s.apply(ctx, order.ExternalReference, MapMercadoPagoStatus(last.Status), domain.PaymentPatch{
			ProviderTxID: &txID,
		})
	}

	log.Printf("ignoring mercado pago notification type=%q action=%q", evt.Type, evt.Action)
	return nil
}

// CaptureOutcome is the result of a synchronous capture, returned to the
// redirect handler.
type CaptureOutcome struct {
	Payment *domain.Payment
	Estado  string
	Raw     map[string]any
}

// CaptureByOrderID captures a PayPal order (the synchronous return flow)
// and applies the derived status to the payment stored under that order id.
func (s *Service) CaptureByOrderID(ctx context.Context, orderID string) (*CaptureOutcome, error) {
	capture, err := s.paypal.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	estado := MapPayPalStatus(capture.Status)

	p, err := s.payments.FindByProviderTxID(ctx, orderID)
	if err != nil {
		s.journal.Record(ctx, Entry{
			Action: "resolve_payment",
			Reason: fmt.Sprintf("no payment stored for paypal order %s: %v", orderID, err),
		})
		return &CaptureOutcome{Estado: estado, Raw: capture.Raw}, nil
	}

	if err := s.apply(ctx, p.ID, estado, domain.PaymentPatch{
		ProviderTxID: &orderID,
		ReceiptURL:   capture.ReceiptURL,
	}); err != nil {
		return nil, err
	}

	updated, err := s.payments.FindByID(ctx, p.ID)
	if err != nil {
		updated = p
	}
	return &CaptureOutcome{Payment: updated, Estado: estado, Raw: capture.Raw}, nil
}

// apply persists the new payment status and, on approval, runs the
// confirmation cascade. Cascade failures are journaled and logged but not
// returned: the provider must receive a success response regardless, and
// reconciliation is retried out-of-band.
func (s *Service) apply(ctx context.Context, paymentID, estado string, patch domain.PaymentPatch) error {
	patch.Estado = &estado
	updated, err := s.payments.Update(ctx, paymentID, patch)
	if err != nil {
		return err
	}

	if estado != domain.PaymentApproved {
		return nil
	}

	for _, e := range s.confirmCascade(ctx, updated) {
		s.journal.Record(ctx, e)
	}
	return nil
}

// confirmCascade transitions the reservation to confirmada and the slot to
// reservado. It returns an entry for every step that failed or was
// skipped; callers decide what to do with them.
//
// A reservation that was already cancelled is never resurrected by a late
// approval: the payment keeps its approved status (the money did move) but
// the skip is journaled for the refund workflow.
func (s *Service) confirmCascade(ctx context.Context, p *domain.Payment) []Entry {
	r, err := s.reservations.FindByID(ctx, p.ReservationID)
	if err != nil {
		return []Entry{{
			PaymentID:     p.ID,
			ReservationID: p.ReservationID,
			Action:        "confirm_reservation",
			Reason:        err.Error(),
		}}
	}

	if r.Estado == domain.ReservationCancelled {
		return []Entry{{
			PaymentID:     p.ID,
			ReservationID: r.ID,
			Action:        "confirm_reservation",
			Reason:        "reservation already cancelled; approved payment needs a refund decision",
		}}
	}

	var entries []Entry
	estado := domain.ReservationConfirmed
	confirmed, err := s.reservations.Update(ctx, r.ID, domain.ReservationPatch{Estado: &estado})
	if err != nil {
		entries = append(entries, Entry{
			PaymentID:     p.ID,
			ReservationID: r.ID,
			Action:        "confirm_reservation",
			Reason:        err.Error(),
		})
		confirmed = r
	} else {
		s.notifyConfirmed(ctx, confirmed)
	}

	if confirmed.SlotID != nil {
		flag := domain.SlotReserved
		if _, err := s.slots.Update(ctx, *confirmed.SlotID, domain.SlotPatch{EstadoOperativo: &flag}); err != nil {
			entries = append(entries, Entry{
				PaymentID:     p.ID,
				ReservationID: r.ID,
				SlotID:        *confirmed.SlotID,
				Action:        "occupy_slot",
				Reason:        err.Error(),
			})
		}
	}
	return entries
}

// notifyConfirmed records a "reserva confirmada" message for the
// reservation's owner.
func (s *Service) notifyConfirmed(ctx context.Context, r *domain.Reservation) {
	if s.notifier == nil {
		return
	}
	cuerpo := fmt.Sprintf("Tu reserva %s fue confirmada tras la acreditación del pago.", r.ID)
	if _, err := s.notifier.Create(ctx, r.UserID, "Reserva confirmada", cuerpo); err != nil {
		log.Printf("notify user %s about reservation %s: %v", r.UserID, r.ID, err)
	}
}
