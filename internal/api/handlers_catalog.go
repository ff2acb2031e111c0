package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parkeo/parkeo-backend/internal/domain"
	"github.com/parkeo/parkeo-backend/internal/geo"
)

// Catalog bodies accept geometry fields in any of the formats clients
// send: WKT strings, coordinate arrays or lat/lng objects. They are parsed
// into the canonical geo types before reaching the service.

// EstablishmentRequest is the JSON body for establishment create/update.
type EstablishmentRequest struct {
	PropietarioID    string `json:"propietario_id"`
	Nombre           string `json:"nombre"`
	Descripcion      string `json:"descripcion"`
	DireccionCalle   string `json:"direccion_calle"`
	DireccionNumero  string `json:"direccion_numero"`
	Ciudad           string `json:"ciudad"`
	Provincia        string `json:"provincia"`
	Pais             string `json:"pais"`
	CP               string `json:"cp"`
	Perimetro        any    `json:"perimetro"`
	Localizacion     any    `json:"localizacion"`
	Estado           string `json:"estado"`
	CapacidadTeorica int    `json:"capacidad_teorica"`
}

// CreateEstablishment handles POST /establecimientos
func (h *Handler) CreateEstablishment(c *gin.Context) {
	var req EstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	e := domain.Establishment{
		PropietarioID:    req.PropietarioID,
		Nombre:           req.Nombre,
		Descripcion:      req.Descripcion,
		DireccionCalle:   req.DireccionCalle,
		DireccionNumero:  req.DireccionNumero,
		Ciudad:           req.Ciudad,
		Provincia:        req.Provincia,
		Pais:             req.Pais,
		CP:               req.CP,
		Estado:           req.Estado,
		CapacidadTeorica: req.CapacidadTeorica,
	}
	if req.PropietarioID == "" {
		e.PropietarioID = authUserID(c)
	}
	e.Perimetro = geo.ParsePolygon(req.Perimetro)
	if ll, ok := geo.ParseLatLng(req.Localizacion); ok {
		e.Localizacion = ll
	}

	created, err := h.catalog.CreateEstablishment(c.Request.Context(), e)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetEstablishment handles GET /establecimientos/:id
func (h *Handler) GetEstablishment(c *gin.Context) {
	e, err := h.catalog.GetEstablishment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// ListEstablishments handles GET /establecimientos
func (h *Handler) ListEstablishments(c *gin.Context) {
	list, err := h.catalog.ListEstablishments(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateEstablishment handles PATCH /establecimientos/:id
func (h *Handler) UpdateEstablishment(c *gin.Context) {
	fields, ok := bindPatchFields(c)
	if !ok {
		return
	}
	if v, present := fields["perimetro"]; present {
		fields["perimetro"] = geo.ParsePolygon(v)
	}
	if v, present := fields["localizacion"]; present {
		if ll, parsed := geo.ParseLatLng(v); parsed {
			fields["localizacion"] = ll
		} else {
			delete(fields, "localizacion")
		}
	}

	e, err := h.catalog.UpdateEstablishment(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// DeleteEstablishment handles DELETE /establecimientos/:id
func (h *Handler) DeleteEstablishment(c *gin.Context) {
	if err := h.catalog.DeleteEstablishment(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ParkingLotRequest is the JSON body for parking lot create.
type ParkingLotRequest struct {
	EstablishmentID       string `json:"establecimiento_id"`
	Nombre                string `json:"nombre"`
	Tipo                  string `json:"tipo"`
	SoportaDiscapacidad   bool   `json:"soporta_discapacidad"`
	SoportaMotos          bool   `json:"soporta_motos"`
	SoportaElectricos     bool   `json:"soporta_electricos"`
	TieneCargadores       bool   `json:"tiene_cargadores"`
	CantidadCargadores    int    `json:"cantidad_cargadores"`
	TarifaID              string `json:"tarifa_id"`
	PoliticaCancelacionID string `json:"politica_cancelacion_id"`
	Estado                string `json:"estado"`
	Ubicacion             any    `json:"ubicacion"`
	Perimetro             any    `json:"perimetro_est"`
}

// CreateParkingLot handles POST /estacionamientos
func (h *Handler) CreateParkingLot(c *gin.Context) {
	var req ParkingLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p := domain.ParkingLot{
		EstablishmentID:       req.EstablishmentID,
		Nombre:                req.Nombre,
		Tipo:                  req.Tipo,
		SoportaDiscapacidad:   req.SoportaDiscapacidad,
		SoportaMotos:          req.SoportaMotos,
		SoportaElectricos:     req.SoportaElectricos,
		TieneCargadores:       req.TieneCargadores,
		CantidadCargadores:    req.CantidadCargadores,
		TarifaID:              req.TarifaID,
		PoliticaCancelacionID: req.PoliticaCancelacionID,
		Estado:                req.Estado,
	}
	if ll, ok := geo.ParseLatLng(req.Ubicacion); ok {
		p.Ubicacion = ll
	}
	p.Perimetro = geo.ParsePolygon(req.Perimetro)

	created, err := h.catalog.CreateParkingLot(c.Request.Context(), p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetParkingLot handles GET /estacionamientos/:id
func (h *Handler) GetParkingLot(c *gin.Context) {
	p, err := h.catalog.GetParkingLot(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListParkingLots handles GET /estacionamientos
// Accepts ?establecimiento_id= to scope to one establishment.
func (h *Handler) ListParkingLots(c *gin.Context) {
	estID := c.Query("establecimiento_id")

	var (
		list []domain.ParkingLot
		err  error
	)
	if estID != "" {
		list, err = h.catalog.ListParkingLotsByEstablishment(c.Request.Context(), estID)
	} else {
		list, err = h.catalog.ListParkingLots(c.Request.Context())
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateParkingLot handles PATCH /estacionamientos/:id
func (h *Handler) UpdateParkingLot(c *gin.Context) {
	fields, ok := bindPatchFields(c)
	if !ok {
		return
	}
	if v, present := fields["ubicacion"]; present {
		if ll, parsed := geo.ParseLatLng(v); parsed {
			fields["ubicacion"] = ll
		} else {
			delete(fields, "ubicacion")
		}
	}
	if v, present := fields["perimetro_est"]; present {
		fields["perimetro_est"] = geo.ParsePolygon(v)
	}

	p, err := h.catalog.UpdateParkingLot(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteParkingLot handles DELETE /estacionamientos/:id
func (h *Handler) DeleteParkingLot(c *gin.Context) {
	if err := h.catalog.DeleteParkingLot(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SlotRequest is the JSON body for slot create.
type SlotRequest struct {
	ParkingLotID    string  `json:"estacionamiento_id"`
	Codigo          string  `json:"codigo"`
	Tipo            string  `json:"tipo"`
	AnchoCM         float64 `json:"ancho_cm"`
	LargoCM         float64 `json:"largo_cm"`
	UbicacionLocal  any     `json:"ubicacion_local"`
	EstadoOperativo string  `json:"estado_operativo"`
	TarifaID        string  `json:"tarifa_id"`
	EsReservable    *bool   `json:"es_reservable"`
}

// CreateSlot handles POST /slots
func (h *Handler) CreateSlot(c *gin.Context) {
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	slot := domain.Slot{
		ParkingLotID:    req.ParkingLotID,
		Codigo:          req.Codigo,
		Tipo:            req.Tipo,
		AnchoCM:         req.AnchoCM,
		LargoCM:         req.LargoCM,
		UbicacionLocal:  geo.ParsePolygon(req.UbicacionLocal),
		EstadoOperativo: req.EstadoOperativo,
		TarifaID:        req.TarifaID,
		EsReservable:    true,
	}
	if req.EsReservable != nil {
		slot.EsReservable = *req.EsReservable
	}

	created, err := h.catalog.CreateSlot(c.Request.Context(), slot)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetSlot handles GET /slots/:id
func (h *Handler) GetSlot(c *gin.Context) {
	slot, err := h.catalog.GetSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// ListSlots handles GET /slots
// Accepts ?estacionamiento_id= to scope to one parking lot.
func (h *Handler) ListSlots(c *gin.Context) {
	lotID := c.Query("estacionamiento_id")

	var (
		list []domain.Slot
		err  error
	)
	if lotID != "" {
		list, err = h.catalog.ListSlotsByParkingLot(c.Request.Context(), lotID)
	} else {
		list, err = h.catalog.ListSlots(c.Request.Context())
	}
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateSlotRequest is the JSON body for PATCH /slots/:id.
type UpdateSlotRequest struct {
	Codigo          *string  `json:"codigo"`
	Tipo            *string  `json:"tipo"`
	AnchoCM         *float64 `json:"ancho_cm"`
	LargoCM         *float64 `json:"largo_cm"`
	UbicacionLocal  any      `json:"ubicacion_local"`
	EstadoOperativo *string  `json:"estado_operativo"`
	TarifaID        *string  `json:"tarifa_id"`
	EsReservable    *bool    `json:"es_reservable"`
}

// UpdateSlot handles PATCH /slots/:id
func (h *Handler) UpdateSlot(c *gin.Context) {
	var req UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	patch := domain.SlotPatch{
		Codigo:          req.Codigo,
		Tipo:            req.Tipo,
		AnchoCM:         req.AnchoCM,
		LargoCM:         req.LargoCM,
		EstadoOperativo: req.EstadoOperativo,
		TarifaID:        req.TarifaID,
		EsReservable:    req.EsReservable,
	}
	if req.UbicacionLocal != nil {
		patch.UbicacionLocal = geo.ParsePolygon(req.UbicacionLocal)
	}

	slot, err := h.catalog.UpdateSlot(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteSlot handles DELETE /slots/:id
func (h *Handler) DeleteSlot(c *gin.Context) {
	if err := h.catalog.DeleteSlot(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateTariff handles POST /tarifas
func (h *Handler) CreateTariff(c *gin.Context) {
	var t domain.Tariff
	if err := c.ShouldBindJSON(&t); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	created, err := h.catalog.CreateTariff(c.Request.Context(), t)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetTariff handles GET /tarifas/:id
func (h *Handler) GetTariff(c *gin.Context) {
	t, err := h.catalog.GetTariff(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListTariffs handles GET /tarifas
func (h *Handler) ListTariffs(c *gin.Context) {
	list, err := h.catalog.ListTariffs(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateTariff handles PATCH /tarifas/:id
func (h *Handler) UpdateTariff(c *gin.Context) {
	fields, ok := bindPatchFields(c)
	if !ok {
		return
	}
	t, err := h.catalog.UpdateTariff(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTariff handles DELETE /tarifas/:id
func (h *Handler) DeleteTariff(c *gin.Context) {
	if err := h.catalog.DeleteTariff(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreatePolicy handles POST /politicas-cancelacion
func (h *Handler) CreatePolicy(c *gin.Context) {
	var p domain.CancellationPolicy
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	created, err := h.catalog.CreatePolicy(c.Request.Context(), p)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetPolicy handles GET /politicas-cancelacion/:id
func (h *Handler) GetPolicy(c *gin.Context) {
	p, err := h.catalog.GetPolicy(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListPolicies handles GET /politicas-cancelacion
func (h *Handler) ListPolicies(c *gin.Context) {
	list, err := h.catalog.ListPolicies(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdatePolicy handles PATCH /politicas-cancelacion/:id
func (h *Handler) UpdatePolicy(c *gin.Context) {
	fields, ok := bindPatchFields(c)
	if !ok {
		return
	}
	p, err := h.catalog.UpdatePolicy(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePolicy handles DELETE /politicas-cancelacion/:id
func (h *Handler) DeletePolicy(c *gin.Context) {
	if err := h.catalog.DeletePolicy(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// bindPatchFields binds a free-form JSON object for partial updates and
// strips immutable keys.
func bindPatchFields(c *gin.Context) (map[string]any, bool) {
	fields := map[string]any{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return nil, false
	}
	delete(fields, "id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	if len(fields) == 0 {
		badRequest(c, "no fields to update")
		return nil, false
	}
	return fields, true
}
