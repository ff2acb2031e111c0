package api

import (
	"fmt"
	"html"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parkeo/parkeo-backend/internal/domain"
	"github.com/parkeo/parkeo-backend/internal/payment"
	"github.com/parkeo/parkeo-backend/internal/settlement"
)

// CreatePaymentRequest is the JSON body for POST /pagos and
// POST /reservas/:id/pago.
type CreatePaymentRequest struct {
	ReservationID string             `json:"reserva_id"`
	Monto         float64            `json:"monto" binding:"required,gt=0"`
	Moneda        string             `json:"moneda"`
	Metodo        string             `json:"metodo"`
	Descripcion   string             `json:"descripcion"`
	BackURLs      *domain.ReturnURLs `json:"back_urls"`
}

// CreatePayment handles POST /pagos
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	h.createIntent(c, req)
}

// CreateReservationPayment handles POST /reservas/:id/pago
func (h *Handler) CreateReservationPayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.ReservationID = c.Param("id")
	h.createIntent(c, req)
}

func (h *Handler) createIntent(c *gin.Context, req CreatePaymentRequest) {
	intent, err := h.payments.CreateIntent(c.Request.Context(), payment.IntentInput{
		ReservationID: req.ReservationID,
		Monto:         req.Monto,
		Moneda:        req.Moneda,
		Metodo:        req.Metodo,
		Descripcion:   req.Descripcion,
		BackURLs:      req.BackURLs,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// GetPayment handles GET /pagos/:id
func (h *Handler) GetPayment(c *gin.Context) {
	p, err := h.payments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListPaymentsByReservation handles GET /pagos/reserva/:reservaId
func (h *Handler) ListPaymentsByReservation(c *gin.Context) {
	list, err := h.payments.ListByReservation(c.Request.Context(), c.Param("reservaId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PayPalWebhookRequest is the JSON body PayPal posts on order events.
type PayPalWebhookRequest struct {
	EventType string `json:"event_type"`
	Resource  struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			ReferenceID string `json:"reference_id"`
		} `json:"purchase_units"`
	} `json:"resource"`
}

// HandlePayPalWebhook handles POST /pagos/webhook
// Always answers 200 so the provider does not retry; failures are logged
// and left to reconciliation.
func (h *Handler) HandlePayPalWebhook(c *gin.Context) {
	var req PayPalWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("paypal webhook: unparseable body: %v", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	evt := settlement.PayPalEvent{
		EventType: req.EventType,
		OrderID:   req.Resource.ID,
		Status:    req.Resource.Status,
	}
	if len(req.Resource.PurchaseUnits) > 0 {
		evt.ExternalReference = req.Resource.PurchaseUnits[0].ReferenceID
	}

	if err := h.settlement.HandlePayPalEvent(c.Request.Context(), evt); err != nil {
		log.Printf("paypal webhook: processing error for order %s: %v", evt.OrderID, err)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MercadoPagoWebhookRequest is the JSON body Mercado Pago posts. The same
// information may arrive as query parameters instead.
type MercadoPagoWebhookRequest struct {
	Type   string `json:"type"`
	Topic  string `json:"topic"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HandleMercadoPagoWebhook handles POST /pagos/webhook/mercadopago
// Always answers 200 so the provider does not retry.
func (h *Handler) HandleMercadoPagoWebhook(c *gin.Context) {
	var req MercadoPagoWebhookRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("mercadopago webhook: unparseable body: %v", err)
		}
	}

	evt := settlement.MercadoPagoEvent{
		Type:   req.Type,
		Action: req.Action,
		DataID: req.Data.ID,
	}
	if evt.Type == "" {
		evt.Type = req.Topic
	}
	if evt.Type == "" {
		evt.Type = c.Query("type")
	}
	if evt.Type == "" {
		evt.Type = c.Query("topic")
	}
	if evt.DataID == "" {
		evt.DataID = c.Query("data.id")
	}
	if evt.DataID == "" {
		evt.DataID = c.Query("id")
	}

	if err := h.settlement.HandleMercadoPagoEvent(c.Request.Context(), evt); err != nil {
		log.Printf("mercadopago webhook: processing error for %s %s: %v", evt.Type, evt.DataID, err)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// HandleReturnSuccess handles GET /pagos/return/success
// PayPal redirects the payer here with ?token=<order_id>; the capture runs
// synchronously so the page can show the final state.
func (h *Handler) HandleReturnSuccess(c *gin.Context) {
	orderID := c.Query("token")
	if orderID == "" {
		orderID = c.Query("order_id")
	}
	if orderID == "" {
		renderReturnPage(c, "Pago recibido", "Estamos procesando tu pago. Podés cerrar esta ventana.")
		return
	}

	outcome, err := h.settlement.CaptureByOrderID(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("return success: capture of order %s failed: %v", orderID, err)
		renderReturnPage(c, "Pago en proceso",
			"No pudimos confirmar el pago todavía. Te avisaremos cuando se acredite.")
		return
	}

	switch outcome.Estado {
	case domain.PaymentApproved:
		renderReturnPage(c, "Pago aprobado", "Tu reserva fue confirmada. Ya podés cerrar esta ventana.")
	case domain.PaymentPending:
		renderReturnPage(c, "Pago pendiente", "El pago quedó pendiente de acreditación.")
	default:
		renderReturnPage(c, "Pago no completado",
			fmt.Sprintf("El pago terminó en estado %s.", outcome.Estado))
	}
}

// HandleReturnPending handles GET /pagos/return/pending
func (h *Handler) HandleReturnPending(c *gin.Context) {
	renderReturnPage(c, "Pago pendiente", "El pago está pendiente de acreditación. Te avisaremos cuando se confirme.")
}

// HandleReturnFailure handles GET /pagos/return/failure
func (h *Handler) HandleReturnFailure(c *gin.Context) {
	renderReturnPage(c, "Pago cancelado", "El pago fue cancelado. Podés intentarlo de nuevo desde la app.")
}

func renderReturnPage(c *gin.Context, title, message string) {
	body := fmt.Sprintf(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>%s</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4rem;">
<h1>%s</h1>
<p>%s</p>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), html.EscapeString(message))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
}
