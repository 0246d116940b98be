// Package pricing deriva el precio de referencia de un producto a partir de
// sus ingresos recientes.
package pricing

import (
	"context"

	"github.com/agrocampo/bodega-api/internal/domain/ledger"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// DefaultSampleSize ingresos recientes considerados para la moda.
const DefaultSampleSize = 10

// Estimator recalcula el precio de referencia: moda de los costos unitarios
// de las últimas N líneas de INGRESO aprobadas, desempate por el valor visto
// primero en orden de recencia descendente.
type Estimator struct {
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	sampleSize  int
}

// NewEstimator construye el estimador. sampleSize <= 0 usa DefaultSampleSize.
func NewEstimator(movRepo repository.MovementRepository, productRepo repository.ProductRepository, sampleSize int) *Estimator {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &Estimator{movRepo: movRepo, productRepo: productRepo, sampleSize: sampleSize}
}

// Refresh lee los costos recientes y escribe la moda como precio de
// referencia. Si el producto no tiene ingresos con costo, no escribe nada.
func (e *Estimator) Refresh(ctx context.Context, productID string) error {
	costs, err := e.movRepo.RecentInboundCosts(ctx, productID, e.sampleSize)
	if err != nil {
		return err
	}
	if len(costs) == 0 {
		return nil
	}
	price := ledger.ReferencePrice(costs)
	return e.productRepo.UpdateReferencePrice(ctx, productID, price)
}
