package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Roles allowed to mutate catalog resources.
var catalogWriteRoles = []string{"admin", "encargado", "propietario"}

// SetupRouter configures the Gin router with all routes and middleware.
func SetupRouter(handler *Handler, ginMode, jwtSecret string) *gin.Engine {
	gin.SetMode(ginMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(MetricsMiddleware())

	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := JWTAuthMiddleware(jwtSecret)

	v1 := router.Group("/api/v1")
	{
		// Provider callbacks. No JWT: PayPal and Mercado Pago call these
		// directly, and the payer's browser lands on the return pages.
		v1.POST("/pagos/webhook", handler.HandlePayPalWebhook)
		v1.GET("/pagos/webhook", handler.HandlePayPalWebhook)
		v1.POST("/pagos/webhook/mercadopago", handler.HandleMercadoPagoWebhook)
		v1.GET("/pagos/return/success", handler.HandleReturnSuccess)
		v1.GET("/pagos/return/pending", handler.HandleReturnPending)
		v1.GET("/pagos/return/failure", handler.HandleReturnFailure)

		reservas := v1.Group("/reservas", auth)
		{
			reservas.POST("", handler.CreateReservation)
			reservas.GET("/mias", handler.ListMyReservations)
			reservas.GET("/:id", handler.GetReservation)
			reservas.PATCH("/:id", handler.UpdateReservation)
			reservas.POST("/:id/confirmar", handler.ConfirmReservation)
			reservas.POST("/:id/cancelar", handler.CancelReservation)
			reservas.POST("/:id/pago", handler.CreateReservationPayment)
		}

		pagos := v1.Group("/pagos", auth)
		{
			pagos.POST("", handler.CreatePayment)
			pagos.GET("/:id", handler.GetPayment)
			pagos.GET("/reserva/:reservaId", handler.ListPaymentsByReservation)
		}

		establecimientos := v1.Group("/establecimientos", auth)
		{
			establecimientos.GET("", handler.ListEstablishments)
			establecimientos.GET("/:id", handler.GetEstablishment)
			establecimientos.GET("/:id/ocupacion", handler.GetEstablishmentOccupancy)
			establecimientos.POST("", RequireRole(catalogWriteRoles...), handler.CreateEstablishment)
			establecimientos.PATCH("/:id", RequireRole(catalogWriteRoles...), handler.UpdateEstablishment)
			establecimientos.DELETE("/:id", RequireRole(catalogWriteRoles...), handler.DeleteEstablishment)
		}

		estacionamientos := v1.Group("/estacionamientos", auth)
		{
			estacionamientos.GET("", handler.ListParkingLots)
			estacionamientos.GET("/:id", handler.GetParkingLot)
			estacionamientos.GET("/:id/ocupacion", handler.GetParkingLotOccupancy)
			estacionamientos.POST("", RequireRole(catalogWriteRoles...), handler.CreateParkingLot)
			estacionamientos.PATCH("/:id", RequireRole(catalogWriteRoles...), handler.UpdateParkingLot)
			estacionamientos.DELETE("/:id", RequireRole(catalogWriteRoles...), handler.DeleteParkingLot)
		}

		slots := v1.Group("/slots", auth)
		{
			slots.GET("", handler.ListSlots)
			slots.GET("/:id", handler.GetSlot)
			slots.POST("", RequireRole(catalogWriteRoles...), handler.CreateSlot)
			slots.PATCH("/:id", RequireRole(catalogWriteRoles...), handler.UpdateSlot)
			slots.DELETE("/:id", RequireRole(catalogWriteRoles...), handler.DeleteSlot)
		}

		tarifas := v1.Group("/tarifas", auth)
		{
			tarifas.GET("", handler.ListTariffs)
			tarifas.GET("/:id", handler.GetTariff)
			tarifas.POST("", RequireRole(catalogWriteRoles...), handler.CreateTariff)
			tarifas.PATCH("/:id", RequireRole(catalogWriteRoles...), handler.UpdateTariff)
			tarifas.DELETE("/:id", RequireRole(catalogWriteRoles...), handler.DeleteTariff)
		}

		politicas := v1.Group("/politicas-cancelacion", auth)
		{
			politicas.GET("", handler.ListPolicies)
			politicas.GET("/:id", handler.GetPolicy)
			politicas.POST("", RequireRole(catalogWriteRoles...), handler.CreatePolicy)
			politicas.PATCH("/:id", RequireRole(catalogWriteRoles...), handler.UpdatePolicy)
			politicas.DELETE("/:id", RequireRole(catalogWriteRoles...), handler.DeletePolicy)
		}

		alertas := v1.Group("/alertas", auth)
		{
			alertas.POST("", handler.CreateAlert)
			alertas.GET("", handler.ListAlerts)
			alertas.GET("/stream", handler.StreamAlerts)
			alertas.POST("/:id/leida", handler.MarkAlertRead)
			alertas.POST("/:id/resolver", handler.ResolveAlert)
		}

		notificaciones := v1.Group("/notificaciones", auth)
		{
			notificaciones.GET("", handler.ListNotifications)
			notificaciones.POST("/:id/leida", handler.MarkNotificationRead)
		}
	}

	return router
}
