package settlement

import (
	"strings"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// paypalStatus maps the PayPal order/capture vocabulary to domain payment
// states. Keys are matched upper-cased.
var paypalStatus = map[string]string{
	"COMPLETED":             domain.PaymentApproved,
	"APPROVED":              domain.PaymentPending,
	"CREATED":               domain.PaymentPending,
	"SAVED":                 domain.PaymentPending,
	"PAYER_ACTION_REQUIRED": domain.PaymentPending,
	"PENDING":               domain.PaymentPending,
	"VOIDED":                domain.PaymentCancelled,
	"DECLINED":              domain.PaymentRejected,
	"REFUNDED":              domain.PaymentRefunded,
	"PARTIALLY_REFUNDED":    domain.PaymentRefunded,
}

// mercadoPagoStatus maps the Mercado Pago payment vocabulary. Keys are
// matched lower-cased.
var mercadoPagoStatus = map[string]string{
	"approved":     domain.PaymentApproved,
	"pending":      domain.PaymentPending,
	"in_process":   domain.PaymentPending,
	"authorized":   domain.PaymentPending,
	"cancelled":    domain.PaymentCancelled,
	"rejected":     domain.PaymentRejected,
	"refunded":     domain.PaymentRefunded,
	"charged_back": domain.PaymentRefunded,
}

// MapPayPalStatus maps a PayPal status to the domain vocabulary. Unknown
// statuses pass through lower-cased rather than failing; a status we have
// never seen should be visible in the stored record, not dropped.
func MapPayPalStatus(status string) string {
	if mapped, ok := paypalStatus[strings.ToUpper(status)]; ok {
		return mapped
	}
	return strings.ToLower(status)
}

// MapMercadoPagoStatus maps a Mercado Pago status to the domain
// vocabulary, with the same lower-cased passthrough for unknown values.
func MapMercadoPagoStatus(status string) string {
	if mapped, ok := mercadoPagoStatus[strings.ToLower(status)]; ok {
		return mapped
	}
	return strings.ToLower(status)
}
