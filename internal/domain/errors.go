package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
)

// Errores de dominio (sin dependencias externas). Los casos con datos
// adicionales tienen un tipo propio que envuelve al centinela, de modo que
// los llamadores pueden usar errors.Is para clasificar y errors.As para
// extraer el detalle.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUnknownProduct    = errors.New("producto no existe")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrDuplicateReturn   = errors.New("ya existe una devolución activa para la solicitud origen")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrTransient         = errors.New("error transitorio, reintente la operación")
)

// InsufficientStockError detalla qué producto no alcanza y por cuánto.
type InsufficientStockError struct {
	ProductID string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: requerido %s, disponible %s",
		e.ProductID, e.Required.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// DuplicateReturnError señala la devolución activa que ya referencia al
// despacho origen.
type DuplicateReturnError struct {
	OriginRequestID     string
	ConflictingRequest  string
	ConflictingStatus   entity.RequestStatus
}

func (e *DuplicateReturnError) Error() string {
	return fmt.Sprintf("la solicitud %s (%s) ya devuelve contra %s",
		e.ConflictingRequest, e.ConflictingStatus, e.OriginRequestID)
}

func (e *DuplicateReturnError) Unwrap() error { return ErrDuplicateReturn }

// InvalidTransitionError nombra el estado actual y el solicitado.
type InvalidTransitionError struct {
	RequestID string
	Current   entity.RequestStatus
	Requested entity.RequestStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("solicitud %s: transición %s → %s no permitida",
		e.RequestID, e.Current, e.Requested)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
