package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	domledger "github.com/agrocampo/bodega-api/internal/domain/ledger"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// Availability existencia física, comprometida y disponible de un producto.
// Available no se trunca en cero: un valor negativo señala sobrecompromiso
// real y la validación interna debe verlo tal cual. El truncado a cero es
// asunto de presentación (DTOs HTTP).
type Availability struct {
	Physical  decimal.Decimal
	Committed decimal.Decimal
	Available decimal.Decimal
}

// AvailabilityCalculator deriva stock físico y comprometido. No tiene estado
// propio: se recalcula del libro y de las solicitudes en cada llamada.
type AvailabilityCalculator struct {
	movRepo repository.MovementRepository
	reqRepo repository.RequestRepository
}

// NewAvailabilityCalculator construye el calculador.
func NewAvailabilityCalculator(movRepo repository.MovementRepository, reqRepo repository.RequestRepository) *AvailabilityCalculator {
	return &AvailabilityCalculator{movRepo: movRepo, reqRepo: reqRepo}
}

// PhysicalStock pliega las líneas aprobadas del producto con la tabla de
// signos del dominio.
func (c *AvailabilityCalculator) PhysicalStock(ctx context.Context, productID string) (decimal.Decimal, error) {
	contribs, err := c.movRepo.StockContributions(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return domledger.PhysicalStock(contribs), nil
}

// CommittedStock suma las líneas DESPACHO de solicitudes abiertas
// (PENDIENTE o APROBADA). Las DEVOLUCION no comprometen stock.
func (c *AvailabilityCalculator) CommittedStock(ctx context.Context, productID string) (decimal.Decimal, error) {
	return c.reqRepo.SumOpenDispatchQuantity(ctx, productID)
}

// Get devuelve físico, comprometido y disponible (sin truncar).
func (c *AvailabilityCalculator) Get(ctx context.Context, productID string) (Availability, error) {
	physical, err := c.PhysicalStock(ctx, productID)
	if err != nil {
		return Availability{}, err
	}
	committed, err := c.CommittedStock(ctx, productID)
	if err != nil {
		return Availability{}, err
	}
	return Availability{
		Physical:  physical,
		Committed: committed,
		Available: physical.Sub(committed),
	}, nil
}
