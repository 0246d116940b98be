package ledger

import "github.com/shopspring/decimal"

// StockStatus clasificación del nivel de existencias para el listado de
// inventario.
type StockStatus string

const (
	StockNormal   StockStatus = "Normal"
	StockBajo     StockStatus = "Bajo"
	StockCritico  StockStatus = "Crítico"
)

// Umbrales heredados del sistema: ≤50 crítico, ≤100 bajo.
var (
	criticalThreshold = decimal.NewFromInt(50)
	lowThreshold      = decimal.NewFromInt(100)
)

// ClassifyStock devuelve el estado de stock con los umbrales por defecto.
func ClassifyStock(qty decimal.Decimal) StockStatus {
	return ClassifyStockWith(qty, criticalThreshold, lowThreshold)
}

// ClassifyStockWith devuelve el estado de stock con umbrales propios
// (configurables por bodega en pkg/config).
func ClassifyStockWith(qty, critical, low decimal.Decimal) StockStatus {
	if qty.LessThanOrEqual(critical) {
		return StockCritico
	}
	if qty.LessThanOrEqual(low) {
		return StockBajo
	}
	return StockNormal
}
