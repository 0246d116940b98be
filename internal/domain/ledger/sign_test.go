package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/ledger"
)

func TestStockSign_TablaCompleta(t *testing.T) {
	cases := []struct {
		name        string
		kind        entity.MovementKind
		hasSupplier bool
		want        int
	}{
		{"ingreso suma", entity.MovementIngreso, false, 1},
		{"salida resta", entity.MovementSalida, false, -1},
		{"ajuste suma (convención heredada)", entity.MovementAjuste, false, 1},
		{"devolución interna suma", entity.MovementDevolucion, false, 1},
		{"devolución a proveedor resta", entity.MovementDevolucion, true, -1},
		{"transferencia es neutra en el global", entity.MovementTransferencia, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ledger.StockSign(tc.kind, tc.hasSupplier))
		})
	}
}

func TestPhysicalStock_PliegueConSignos(t *testing.T) {
	d := decimal.NewFromInt

	contribs := []entity.StockContribution{
		{Kind: entity.MovementIngreso, Total: d(100)},
		{Kind: entity.MovementSalida, Total: d(40)},
		{Kind: entity.MovementDevolucion, HasSupplier: false, Total: d(10)},
		{Kind: entity.MovementDevolucion, HasSupplier: true, Total: d(5)},
		{Kind: entity.MovementAjuste, Total: d(-3)}, // ajuste a la baja pre-negado
		{Kind: entity.MovementTransferencia, Total: d(25)},
	}
	// 100 - 40 + 10 - 5 + (-3) + 0 = 62
	assert.True(t, ledger.PhysicalStock(contribs).Equal(d(62)))
}

func TestPhysicalStock_InvarianteAlOrden(t *testing.T) {
	d := decimal.NewFromInt
	a := []entity.StockContribution{
		{Kind: entity.MovementIngreso, Total: d(30)},
		{Kind: entity.MovementSalida, Total: d(12)},
		{Kind: entity.MovementAjuste, Total: d(7)},
	}
	b := []entity.StockContribution{a[2], a[0], a[1]}
	assert.True(t, ledger.PhysicalStock(a).Equal(ledger.PhysicalStock(b)))
}

func TestPhysicalStock_Vacio(t *testing.T) {
	assert.True(t, ledger.PhysicalStock(nil).IsZero())
}
