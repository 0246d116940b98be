// Package ledger contiene los servicios de dominio puros del motor de
// inventario: la tabla de signos de los movimientos, el estimador de precio
// de referencia y la clasificación de nivel de stock.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
)

// StockSign devuelve el signo con que un documento aprobado afecta la
// existencia física global de un producto:
//
//	INGRESO        +1
//	SALIDA         -1
//	AJUSTE         +1  (la cantidad guardada puede venir negativa; convención
//	                    heredada: el llamador pre-niega los ajustes a la baja)
//	DEVOLUCION     +1 sin proveedor (reingreso interno)
//	               -1 con proveedor (sale hacia el proveedor)
//	TRANSFERENCIA   0  (redistribuye entre bodegas, neutra en el global)
func StockSign(kind entity.MovementKind, hasSupplier bool) int {
	switch kind {
	case entity.MovementIngreso:
		return 1
	case entity.MovementSalida:
		return -1
	case entity.MovementAjuste:
		return 1
	case entity.MovementDevolucion:
		if hasSupplier {
			return -1
		}
		return 1
	case entity.MovementTransferencia:
		return 0
	}
	return 0
}

// PhysicalStock pliega los agregados de líneas aprobadas de un producto
// aplicando la tabla de signos. Es la única definición de existencia física:
// ningún campo materializado se considera fuente de verdad.
func PhysicalStock(contribs []entity.StockContribution) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contribs {
		switch StockSign(c.Kind, c.HasSupplier) {
		case 1:
			total = total.Add(c.Total)
		case -1:
			total = total.Sub(c.Total)
		}
	}
	return total
}
