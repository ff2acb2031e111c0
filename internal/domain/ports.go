// Package domain contains the core business entities and interfaces for the
// parking marketplace.
package domain

import (
	"context"
	"time"

	"github.com/parkeo/parkeo-backend/internal/geo"
)

// ReservationPatch is a partial mutation of a reservation. Nil fields are
// left untouched.
type ReservationPatch struct {
	SlotID      *string
	Desde       *time.Time
	Hasta       *time.Time
	Estado      *string
	PrecioTotal *float64
	Moneda      *string
	Origen      *string
	CodigoQR    *string
}

// ReservationStore persists reservations.
type ReservationStore interface {
	Create(ctx context.Context, r Reservation) (*Reservation, error)
	FindByID(ctx context.Context, id string) (*Reservation, error)
	// ListByUser filters by estado when it is non-empty.
	ListByUser(ctx context.Context, userID, estado string) ([]Reservation, error)
	// ListBySlots returns every reservation referencing one of the given
	// slots, regardless of estado.
	ListBySlots(ctx context.Context, slotIDs []string) ([]Reservation, error)
	Update(ctx context.Context, id string, patch ReservationPatch) (*Reservation, error)
}

// PaymentPatch is a partial mutation of a payment.
type PaymentPatch struct {
	Estado       *string
	ProviderTxID *string
	ReceiptURL   *string
}

// PaymentStore persists payments. Create returns ErrUnsupportedMethod when
// the storage schema rejects the method tag.
type PaymentStore interface {
	Create(ctx context.Context, p Payment) (*Payment, error)
	FindByID(ctx context.Context, id string) (*Payment, error)
	ListByReservation(ctx context.Context, reservationID string) ([]Payment, error)
	FindByProviderTxID(ctx context.Context, txID string) (*Payment, error)
	Update(ctx context.Context, id string, patch PaymentPatch) (*Payment, error)
}

// SlotPatch is a partial mutation of a slot.
type SlotPatch struct {
	Codigo          *string
	Tipo            *string
	AnchoCM         *float64
	LargoCM         *float64
	UbicacionLocal  geo.Polygon
	EstadoOperativo *string
	TarifaID        *string
	EsReservable    *bool
}

// SlotStore persists slots.
type SlotStore interface {
	Create(ctx context.Context, s Slot) (*Slot, error)
	FindByID(ctx context.Context, id string) (*Slot, error)
	List(ctx context.Context) ([]Slot, error)
	ListByParkingLot(ctx context.Context, parkingLotID string) ([]Slot, error)
	ListByEstablishment(ctx context.Context, establishmentID string) ([]Slot, error)
	Update(ctx context.Context, id string, patch SlotPatch) (*Slot, error)
	Delete(ctx context.Context, id string) error
}

// EstablishmentStore persists establishments.
type EstablishmentStore interface {
	Create(ctx context.Context, e Establishment) (*Establishment, error)
	FindByID(ctx context.Context, id string) (*Establishment, error)
	List(ctx context.Context) ([]Establishment, error)
	Update(ctx context.Context, id string, fields map[string]any) (*Establishment, error)
	Delete(ctx context.Context, id string) error
}

// ParkingLotStore persists parking lots.
type ParkingLotStore interface {
	Create(ctx context.Context, p ParkingLot) (*ParkingLot, error)
	FindByID(ctx context.Context, id string) (*ParkingLot, error)
	List(ctx context.Context) ([]ParkingLot, error)
	ListByEstablishment(ctx context.Context, establishmentID string) ([]ParkingLot, error)
	Update(ctx context.Context, id string, fields map[string]any) (*ParkingLot, error)
	Delete(ctx context.Context, id string) error
}

// TariffStore persists tariffs.
type TariffStore interface {
	Create(ctx context.Context, t Tariff) (*Tariff, error)
	FindByID(ctx context.Context, id string) (*Tariff, error)
	List(ctx context.Context) ([]Tariff, error)
	Update(ctx context.Context, id string, fields map[string]any) (*Tariff, error)
	Delete(ctx context.Context, id string) error
}

// CancellationPolicyStore persists cancellation policies.
type CancellationPolicyStore interface {
	Create(ctx context.Context, p CancellationPolicy) (*CancellationPolicy, error)
	FindByID(ctx context.Context, id string) (*CancellationPolicy, error)
	List(ctx context.Context) ([]CancellationPolicy, error)
	Update(ctx context.Context, id string, fields map[string]any) (*CancellationPolicy, error)
	Delete(ctx context.Context, id string) error
}

// AlertStore persists alerts.
type AlertStore interface {
	Create(ctx context.Context, a Alert) (*Alert, error)
	FindByID(ctx context.Context, id string) (*Alert, error)
	// ListByEstablishment filters by estado when it is non-empty; limit <= 0
	// means no limit.
	ListByEstablishment(ctx context.Context, establishmentID, estado string, limit int) ([]Alert, error)
	MarkRead(ctx context.Context, id string, at time.Time) (*Alert, error)
	UpdateEstado(ctx context.Context, id, estado string) (*Alert, error)
}

// NotificationStore persists notifications.
type NotificationStore interface {
	Create(ctx context.Context, n Notification) (*Notification, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id string, at time.Time) (*Notification, error)
}

// ReturnURLs are the redirect targets handed to a payment provider.
type ReturnURLs struct {
	Success string
	Pending string
	Failure string
}

// OrderRequest asks a provider to create a remote order/preference.
type OrderRequest struct {
	ExternalReference string
	Amount            float64
	Currency          string
	Description       string
	ReturnURLs        ReturnURLs
}

// ProviderOrder is a remote order as reported by a provider.
type ProviderOrder struct {
	ID                string
	Status            string
	ExternalReference string
	ApproveURL        string
	Raw               map[string]any
}

// CaptureResult is the outcome of capturing a provider order.
type CaptureResult struct {
	Status     string
	ReceiptURL *string
	Raw        map[string]any
}

// PayPalGateway is the PayPal orders API surface the backend depends on.
type PayPalGateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*ProviderOrder, error)
	GetOrder(ctx context.Context, orderID string) (*ProviderOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error)
}

// Preference is a created Mercado Pago preference.
type Preference struct {
	ID        string
	InitPoint string
}

// ProviderPayment is a provider-side payment resource.
type ProviderPayment struct {
	ID                string
	Status            string
	ExternalReference string
	ReceiptURL        *string
}

// MerchantOrder is a Mercado Pago merchant order with its payments.
type MerchantOrder struct {
	ExternalReference string
	Payments          []ProviderPayment
}

// MercadoPagoGateway is the Mercado Pago API surface the backend depends on.
type MercadoPagoGateway interface {
	CreatePreference(ctx context.Context, req OrderRequest) (*Preference, error)
	GetPayment(ctx context.Context, paymentID string) (*ProviderPayment, error)
	GetMerchantOrder(ctx context.Context, orderID string) (*MerchantOrder, error)
}
