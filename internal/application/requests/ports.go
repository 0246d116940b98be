package requests

import (
	"context"

	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita el ciclo de vida de solicitudes. El transactor
// de entrega depende de que GetForUpdate y el incremento de consecutivo
// ocurran dentro de la misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		reqRepo repository.RequestRepository,
		seqRepo repository.SequenceRepository,
		productRepo repository.ProductRepository,
	) error) error
}
