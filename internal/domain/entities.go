// Package domain contains the core business entities and interfaces for the
// parking marketplace. This is the innermost layer - it has no dependencies
// on external frameworks or infrastructure.
package domain

import (
	"time"

	"github.com/parkeo/parkeo-backend/internal/geo"
)

// Reservation states. Stored as plain strings in the reservas table.
const (
	ReservationPendingPayment = "pendiente_pago"
	ReservationConfirmed      = "confirmada"
	ReservationCancelled      = "cancelada"
)

// Payment states, the domain status vocabulary provider statuses map into.
const (
	PaymentPending   = "pendiente"
	PaymentApproved  = "aprobado"
	PaymentCancelled = "cancelado"
	PaymentRejected  = "rechazado"
	PaymentRefunded  = "reembolsado"
)

// Slot operational flags. Distinct from reservation overlap; occupancy is
// derived from both.
const (
	SlotOperational      = "operativo"
	SlotReserved         = "reservado"
	SlotBlocked          = "bloqueado"
	SlotUnderMaintenance = "mantenimiento"
)

// Reservation holds a slot for a user during the [Desde, Hasta) window.
// SlotID is nullable: a reservation may exist before a slot is assigned.
type Reservation struct {
	ID          string    `json:"id"`
	UserID      string    `json:"usuario_id"`
	SlotID      *string   `json:"slot_id"`
	Desde       time.Time `json:"desde"`
	Hasta       time.Time `json:"hasta"`
	Estado      string    `json:"estado"`
	PrecioTotal *float64  `json:"precio_total"`
	Moneda      string    `json:"moneda"`
	Origen      string    `json:"origen"`
	CodigoQR    *string   `json:"codigo_qr"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Payment is one attempt to collect funds for a reservation. A reservation
// may have many payment attempts; a Payment is never deleted, only mutated
// in place as provider status changes arrive.
type Payment struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reserva_id"`
	Metodo        string    `json:"metodo"`
	Monto         float64   `json:"monto"`
	Moneda        string    `json:"moneda"`
	Estado        string    `json:"estado"`
	ProviderTxID  *string   `json:"proveedor_tx_id"`
	ReceiptURL    *string   `json:"recibo_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// Slot is a reservable parking space inside a parking lot.
type Slot struct {
	ID              string      `json:"id"`
	ParkingLotID    string      `json:"estacionamiento_id"`
	Codigo          string      `json:"codigo"`
	Tipo            string      `json:"tipo"`
	AnchoCM         float64     `json:"ancho_cm"`
	LargoCM         float64     `json:"largo_cm"`
	UbicacionLocal  geo.Polygon `json:"ubicacion_local"`
	EstadoOperativo string      `json:"estado_operativo"`
	TarifaID        string      `json:"tarifa_id"`
	EsReservable    bool        `json:"es_reservable"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Establishment is a venue (garage, mall, street block) owned by a provider.
type Establishment struct {
	ID               string      `json:"id"`
	PropietarioID    string      `json:"propietario_id"`
	Nombre           string      `json:"nombre"`
	Descripcion      string      `json:"descripcion"`
	DireccionCalle   string      `json:"direccion_calle"`
	DireccionNumero  string      `json:"direccion_numero"`
	Ciudad           string      `json:"ciudad"`
	Provincia        string      `json:"provincia"`
	Pais             string      `json:"pais"`
	CP               string      `json:"cp"`
	Perimetro        geo.Polygon `json:"perimetro"`
	Localizacion     geo.LatLng  `json:"localizacion"`
	Estado           string      `json:"estado"`
	CapacidadTeorica int         `json:"capacidad_teorica"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// ParkingLot groups slots inside an establishment.
type ParkingLot struct {
	ID                    string      `json:"id"`
	EstablishmentID       string      `json:"establecimiento_id"`
	Nombre                string      `json:"nombre"`
	Tipo                  string      `json:"tipo"`
	SoportaDiscapacidad   bool        `json:"soporta_discapacidad"`
	SoportaMotos          bool        `json:"soporta_motos"`
	SoportaElectricos     bool        `json:"soporta_electricos"`
	TieneCargadores       bool        `json:"tiene_cargadores"`
	CantidadCargadores    int         `json:"cantidad_cargadores"`
	TarifaID              string      `json:"tarifa_id"`
	PoliticaCancelacionID string      `json:"politica_cancelacion_id"`
	Estado                string      `json:"estado"`
	Ubicacion             geo.LatLng  `json:"ubicacion"`
	Perimetro             geo.Polygon `json:"perimetro_est"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// Tariff prices slot usage.
type Tariff struct {
	ID             string     `json:"id"`
	Nombre         string     `json:"nombre"`
	Moneda         string     `json:"moneda"`
	ModoCalculo    string     `json:"modo_calculo"`
	PrecioBase     *float64   `json:"precio_base"`
	PrecioPorHora  *float64   `json:"precio_por_hora"`
	FraccionMin    *int       `json:"fraccion_min"`
	MinimoCobroMin *int       `json:"minimo_cobro_min"`
	MaximoDiario   *float64   `json:"maximo_diario"`
	VigenciaDesde  *time.Time `json:"vigencia_desde"`
	VigenciaHasta  *time.Time `json:"vigencia_hasta"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CancellationPolicy describes refund rules for a parking lot.
type CancellationPolicy struct {
	ID               string         `json:"id"`
	DescripcionCorta *string        `json:"descripcion_corta"`
	ReglasJSON       map[string]any `json:"reglas_json"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Alert states.
const (
	AlertPending  = "pendiente"
	AlertAttended = "atendido"
)

// Alert is a user-reported incident on a slot, routed to the establishment
// staff.
type Alert struct {
	ID              string     `json:"id"`
	EstablishmentID string     `json:"establecimiento_id"`
	SlotID          string     `json:"slot_id"`
	ReporterUserID  string     `json:"reporter_user_id"`
	Mensaje         *string    `json:"mensaje"`
	Estado          string     `json:"estado"`
	CreatedAt       time.Time  `json:"created_at"`
	ViewedAt        *time.Time `json:"viewed_at"`
}

// Notification is a per-user message record.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"usuario_id"`
	Titulo    string     `json:"titulo"`
	Cuerpo    string     `json:"cuerpo"`
	Leida     bool       `json:"leida"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at"`
}
