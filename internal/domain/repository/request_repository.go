package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
)

// RequestFilter filtros del listado de solicitudes.
type RequestFilter struct {
	Status      entity.RequestStatus // vacío = todas
	RequesterID string               // vacío = todas
	Limit       int
}

// RequestRepository puerto de persistencia de solicitudes.
type RequestRepository interface {
	// Create persiste cabecera y líneas de la solicitud en estado PENDIENTE.
	Create(ctx context.Context, req *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	// GetForUpdate carga la solicitud bloqueando su fila (SELECT FOR UPDATE);
	// usar solo dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, error)

	// UpdateStatus cambia el estado solo si el estado actual coincide con
	// from (guarda optimista); devuelve false si otra transición ganó la
	// carrera. approverID y movementID se escriben solo si no están vacíos.
	UpdateStatus(ctx context.Context, id string, from, to entity.RequestStatus, approverID, movementID string) (bool, error)

	// SumOpenDispatchQuantity suma las cantidades de líneas DESPACHO cuyas
	// solicitudes están PENDIENTE o APROBADA: el stock comprometido.
	SumOpenDispatchQuantity(ctx context.Context, productID string) (decimal.Decimal, error)

	// FindActiveReturnByOrigin busca una DEVOLUCION no rechazada que ya
	// referencie al despacho origen. Devuelve nil si no existe.
	FindActiveReturnByOrigin(ctx context.Context, originRequestID string) (*entity.Request, error)

	// CountPending cuenta solicitudes pendientes (dashboard).
	CountPending(ctx context.Context) (int, error)
}

// SequenceRepository puerto del generador de consecutivos. Next incrementa
// atómicamente el contador de (tipo, año), creándolo en 1 si no existe, y
// devuelve el ordinal asignado. Dos llamadas concurrentes para la misma
// pareja nunca reciben el mismo ordinal.
type SequenceRepository interface {
	Next(ctx context.Context, kind string, year int) (int64, error)
}
