package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateAlertRequest is the JSON body for POST /alertas.
type CreateAlertRequest struct {
	SlotID  string  `json:"slot_id" binding:"required"`
	Mensaje *string `json:"mensaje"`
}

// CreateAlert handles POST /alertas
func (h *Handler) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	alert, err := h.alerts.Create(c.Request.Context(), authUserID(c), req.SlotID, req.Mensaje)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// ListAlerts handles GET /alertas?establecimiento_id=&estado=&limit=
func (h *Handler) ListAlerts(c *gin.Context) {
	estID := c.Query("establecimiento_id")
	if estID == "" {
		badRequest(c, "establecimiento_id is required")
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := h.alerts.ListByEstablishment(c.Request.Context(), estID, c.Query("estado"), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// MarkAlertRead handles POST /alertas/:id/leida
func (h *Handler) MarkAlertRead(c *gin.Context) {
	alert, err := h.alerts.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// ResolveAlert handles POST /alertas/:id/resolver
func (h *Handler) ResolveAlert(c *gin.Context) {
	alert, err := h.alerts.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// StreamAlerts handles GET /alertas/stream?establecimiento_id=
// Server-sent events; one "alert" event per published alert. The
// subscription is released when the client disconnects.
func (h *Handler) StreamAlerts(c *gin.Context) {
	estID := c.Query("establecimiento_id")
	if estID == "" {
		badRequest(c, "establecimiento_id is required")
		return
	}

	ch, cancel := h.alerts.Subscribe(estID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case alert, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(alert)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: alert\ndata: %s\n\n", payload)
			c.Writer.Flush()
		}
	}
}

// ListNotifications handles GET /notificaciones
func (h *Handler) ListNotifications(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := h.notifications.ListByUser(c.Request.Context(), authUserID(c), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// MarkNotificationRead handles POST /notificaciones/:id/leida
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	n, err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
