package ledger

import (
	"context"

	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre el consecutivo y
// el documento: o se confirman ambos o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

// PriceRefresher recalcula el precio de referencia de un producto tras un
// ingreso. Se invoca fuera de la transacción del documento: su fallo se
// registra pero nunca revierte el movimiento.
type PriceRefresher interface {
	Refresh(ctx context.Context, productID string) error
}
