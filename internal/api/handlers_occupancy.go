package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// occupancyNow resolves the instant the projection is computed at. An
// optional ?at=RFC3339 parameter lets operators inspect another moment.
func occupancyNow(c *gin.Context) (time.Time, bool) {
	at := c.Query("at")
	if at == "" {
		return time.Now().UTC(), true
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		badRequest(c, "at must be an RFC3339 timestamp")
		return time.Time{}, false
	}
	return t.UTC(), true
}

// GetParkingLotOccupancy handles GET /estacionamientos/:id/ocupacion
func (h *Handler) GetParkingLotOccupancy(c *gin.Context) {
	now, ok := occupancyNow(c)
	if !ok {
		return
	}
	proj, err := h.occupancy.ForParkingLot(c.Request.Context(), c.Param("id"), now)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, proj)
}

// GetEstablishmentOccupancy handles GET /establecimientos/:id/ocupacion
func (h *Handler) GetEstablishmentOccupancy(c *gin.Context) {
	now, ok := occupancyNow(c)
	if !ok {
		return
	}
	proj, err := h.occupancy.ForEstablishment(c.Request.Context(), c.Param("id"), now)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, proj)
}
