package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestKind tipo de solicitud: despacho de material o devolución interna.
type RequestKind string

const (
	RequestDespacho   RequestKind = "DESPACHO"
	RequestDevolucion RequestKind = "DEVOLUCION"
)

// Valid reporta si el tipo de solicitud es conocido.
func (k RequestKind) Valid() bool {
	return k == RequestDespacho || k == RequestDevolucion
}

// RequestStatus estado de la solicitud.
type RequestStatus string

const (
	RequestPendiente RequestStatus = "PENDIENTE"
	RequestAprobada  RequestStatus = "APROBADA"
	RequestRechazada RequestStatus = "RECHAZADA"
	RequestEntregada RequestStatus = "ENTREGADA"
)

// Valid reporta si el estado es uno de los cuatro conocidos.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPendiente, RequestAprobada, RequestRechazada, RequestEntregada:
		return true
	}
	return false
}

// Open reporta si la solicitud aún compromete stock (PENDIENTE o APROBADA).
func (s RequestStatus) Open() bool {
	return s == RequestPendiente || s == RequestAprobada
}

// CanTransition reporta si el cambio de estado es legal por actualización
// directa. ENTREGADA solo se alcanza a través del transactor de entrega,
// nunca por un cambio de estado simple; ENTREGADA es terminal.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	switch s {
	case RequestPendiente:
		return to == RequestAprobada || to == RequestRechazada
	case RequestAprobada:
		return to == RequestRechazada
	case RequestRechazada, RequestEntregada:
		return false
	}
	return false
}

// Request representa una solicitud de material: una reserva de stock futuro.
// Nunca se borra; solo muta a través de transiciones de estado definidas.
type Request struct {
	ID              string
	Code            string // consecutivo humano "SOL-2026-0001"
	Kind            RequestKind
	Status          RequestStatus
	RequesterID     string
	ApproverID      string
	WarehouseID     string // bodega origen en DESPACHO, destino en DEVOLUCION
	Date            time.Time
	OriginRequestID string // en DEVOLUCION: el DESPACHO contra el que se devuelve
	MovementID      string // documento generado al entregar
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []RequestLine
}

// RequestLine línea de producto solicitada.
type RequestLine struct {
	ID        string
	RequestID string
	ProductID string
	Quantity  decimal.Decimal
	UnitID    string
	LotID     string
	Notes     string
}
