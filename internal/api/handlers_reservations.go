package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parkeo/parkeo-backend/internal/domain"
	"github.com/parkeo/parkeo-backend/internal/reservation"
)

// CreateReservationRequest is the JSON body for POST /reservas.
type CreateReservationRequest struct {
	SlotID      *string  `json:"slot_id"`
	Desde       string   `json:"desde" binding:"required"`
	Hasta       string   `json:"hasta" binding:"required"`
	PrecioTotal *float64 `json:"precio_total"`
	Moneda      string   `json:"moneda"`
	Origen      string   `json:"origen"`
}

// CreateReservation handles POST /reservas
func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	desde, err := time.Parse(time.RFC3339, req.Desde)
	if err != nil {
		badRequest(c, "desde must be an RFC3339 timestamp")
		return
	}
	hasta, err := time.Parse(time.RFC3339, req.Hasta)
	if err != nil {
		badRequest(c, "hasta must be an RFC3339 timestamp")
		return
	}

	res, err := h.reservations.Create(c.Request.Context(), authUserID(c), reservation.CreateInput{
		SlotID:      req.SlotID,
		Desde:       desde,
		Hasta:       hasta,
		PrecioTotal: req.PrecioTotal,
		Moneda:      req.Moneda,
		Origen:      req.Origen,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ListMyReservations handles GET /reservas/mias
func (h *Handler) ListMyReservations(c *gin.Context) {
	estado := c.Query("estado")
	list, err := h.reservations.ListByUser(c.Request.Context(), authUserID(c), estado)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetReservation handles GET /reservas/:id
func (h *Handler) GetReservation(c *gin.Context) {
	res, err := h.reservations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !h.canAccessReservation(c, res) {
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateReservationRequest is the JSON body for PATCH /reservas/:id. Only
// present fields are applied.
type UpdateReservationRequest struct {
	SlotID      *string  `json:"slot_id"`
	Desde       *string  `json:"desde"`
	Hasta       *string  `json:"hasta"`
	PrecioTotal *float64 `json:"precio_total"`
	Moneda      *string  `json:"moneda"`
	Origen      *string  `json:"origen"`
	CodigoQR    *string  `json:"codigo_qr"`
}

// UpdateReservation handles PATCH /reservas/:id
func (h *Handler) UpdateReservation(c *gin.Context) {
	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	id := c.Param("id")
	current, err := h.reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !h.canAccessReservation(c, current) {
		return
	}

	in := reservation.UpdateInput{
		SlotID:      req.SlotID,
		PrecioTotal: req.PrecioTotal,
		Moneda:      req.Moneda,
		Origen:      req.Origen,
		CodigoQR:    req.CodigoQR,
	}
	if req.Desde != nil {
		t, err := time.Parse(time.RFC3339, *req.Desde)
		if err != nil {
			badRequest(c, "desde must be an RFC3339 timestamp")
			return
		}
		in.Desde = &t
	}
	if req.Hasta != nil {
		t, err := time.Parse(time.RFC3339, *req.Hasta)
		if err != nil {
			badRequest(c, "hasta must be an RFC3339 timestamp")
			return
		}
		in.Hasta = &t
	}

	res, err := h.reservations.Update(c.Request.Context(), id, in)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ConfirmReservationRequest is the JSON body for POST /reservas/:id/confirmar.
type ConfirmReservationRequest struct {
	SlotID *string `json:"slot_id"`
}

// ConfirmReservation handles POST /reservas/:id/confirmar
func (h *Handler) ConfirmReservation(c *gin.Context) {
	var req ConfirmReservationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	id := c.Param("id")
	current, err := h.reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !h.canAccessReservation(c, current) {
		return
	}

	res, followUp, err := h.reservations.Confirm(c.Request.Context(), id, req.SlotID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.applyFollowUp(c.Request.Context(), followUp)

	c.JSON(http.StatusOK, res)
}

// CancelReservation handles POST /reservas/:id/cancelar
func (h *Handler) CancelReservation(c *gin.Context) {
	id := c.Param("id")
	current, err := h.reservations.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !h.canAccessReservation(c, current) {
		return
	}

	res, followUp, err := h.reservations.Cancel(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.applyFollowUp(c.Request.Context(), followUp)

	c.JSON(http.StatusOK, res)
}

// applyFollowUp executes the compensating slot transition a lifecycle
// change requested. Failures are logged, never propagated: the primary
// transition already committed.
func (h *Handler) applyFollowUp(ctx context.Context, fu *reservation.FollowUp) {
	if fu == nil {
		return
	}
	estado := fu.EstadoOperativo
	if _, err := h.catalog.UpdateSlot(ctx, fu.SlotID, domain.SlotPatch{EstadoOperativo: &estado}); err != nil {
		log.Printf("follow-up: slot %s -> %s failed: %v", fu.SlotID, estado, err)
	}
}

// canAccessReservation enforces that only the owner or an admin may read
// or mutate a reservation. Writes an error response and returns false on
// rejection.
func (h *Handler) canAccessReservation(c *gin.Context, r *domain.Reservation) bool {
	role := authUserRole(c)
	if r.UserID == authUserID(c) || role == "admin" || role == "encargado" {
		return true
	}
	c.JSON(http.StatusForbidden, ErrorResponse{
		Success: false,
		Error:   "reservation belongs to another user",
		Code:    "FORBIDDEN",
	})
	return false
}
