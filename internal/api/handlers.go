package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parkeo/parkeo-backend/internal/alerts"
	"github.com/parkeo/parkeo-backend/internal/catalog"
	"github.com/parkeo/parkeo-backend/internal/domain"
	"github.com/parkeo/parkeo-backend/internal/notification"
	"github.com/parkeo/parkeo-backend/internal/occupancy"
	"github.com/parkeo/parkeo-backend/internal/payment"
	"github.com/parkeo/parkeo-backend/internal/reservation"
	"github.com/parkeo/parkeo-backend/internal/settlement"
)

// Handler contains the HTTP handlers for the parking API.
type Handler struct {
	reservations  *reservation.Service
	payments      *payment.Service
	settlement    *settlement.Service
	occupancy     *occupancy.Service
	catalog       *catalog.Service
	alerts        *alerts.Service
	notifications *notification.Service
}

// NewHandler creates a new API handler wired to the application services.
func NewHandler(
	reservations *reservation.Service,
	payments *payment.Service,
	settlementSvc *settlement.Service,
	occupancySvc *occupancy.Service,
	catalogSvc *catalog.Service,
	alertsSvc *alerts.Service,
	notifications *notification.Service,
) *Handler {
	return &Handler{
		reservations:  reservations,
		payments:      payments,
		settlement:    settlementSvc,
		occupancy:     occupancySvc,
		catalog:       catalogSvc,
		alerts:        alertsSvc,
		notifications: notifications,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "parkeo-backend",
	})
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrValidation):
		statusCode = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		statusCode = http.StatusConflict
	case errors.Is(err, domain.ErrUnsupportedMethod):
		statusCode = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		statusCode = http.StatusForbidden
	case errors.Is(err, domain.ErrProvider):
		statusCode = http.StatusBadGateway
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(statusCode, ErrorResponse{
			Success: false,
			Error:   domainErr.Message,
			Code:    domainErr.Code,
		})
		return
	}

	if statusCode == http.StatusInternalServerError {
		c.JSON(statusCode, ErrorResponse{
			Success: false,
			Error:   "Internal server error",
			Code:    "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error:   err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Success: false,
		Error:   msg,
		Code:    "VALIDATION_ERROR",
	})
}
