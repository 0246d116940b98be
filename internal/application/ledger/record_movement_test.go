package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/agrocampo/bodega-api/internal/application/ledger"
	"github.com/agrocampo/bodega-api/internal/application/pricing"
	"github.com/agrocampo/bodega-api/internal/domain"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/infrastructure/memory"
	"github.com/agrocampo/bodega-api/pkg/logger"
)

type ledgerEnv struct {
	store       *memory.Store
	record      *appledger.RecordMovementUseCase
	movRepo     *memory.MovementRepository
	productRepo *memory.ProductRepository
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(&entity.Product{ID: "p1", Code: "FER-001", Name: "Urea 46%", UnitID: "u1", Active: true})
	store.AddUnit(&entity.Unit{ID: "u1", Name: "Kilogramo", Abbreviation: "kg"})
	store.AddWarehouse(&entity.Warehouse{ID: "b1", Name: "Bodega Central"})
	store.AddWarehouse(&entity.Warehouse{ID: "b2", Name: "Bodega Norte"})
	store.AddSupplier(&entity.Supplier{ID: "prov1", Name: "Agroinsumos SA"})

	movRepo := memory.NewMovementRepository(store)
	productRepo := memory.NewProductRepository(store)
	estimator := pricing.NewEstimator(movRepo, productRepo, pricing.DefaultSampleSize)
	record := appledger.NewRecordMovementUseCase(
		memory.NewTxRunner(store),
		productRepo,
		memory.NewCatalogRepository(store),
		estimator,
		logger.Nop(),
	)
	return &ledgerEnv{store: store, record: record, movRepo: movRepo, productRepo: productRepo}
}

func (e *ledgerEnv) physical(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	reqRepo := memory.NewRequestRepository(e.store)
	avail, err := appledger.NewAvailabilityCalculator(e.movRepo, reqRepo).PhysicalStock(context.Background(), productID)
	require.NoError(t, err)
	return avail
}

func line(qty int64, cost string) appledger.MovementLineInput {
	l := appledger.MovementLineInput{ProductID: "p1", Quantity: decimal.NewFromInt(qty), UnitID: "u1"}
	if cost != "" {
		c := decimal.RequireFromString(cost)
		l.UnitCost = &c
	}
	return l
}

func TestRecord_IngresoSumaFisicoYRefrescaPrecio(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()

	mov, err := e.record.Record(ctx, appledger.MovementInput{
		Kind:          entity.MovementIngreso,
		DestWarehouse: "b1",
		SupplierID:    "prov1",
		ActorID:       "bod1",
		Lines:         []appledger.MovementLineInput{line(100, "62.50")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementAprobado, mov.Status)
	assert.Equal(t, "ING-"+time.Now().Format("2006")+"-0001", mov.Code)

	assert.True(t, e.physical(t, "p1").Equal(decimal.NewFromInt(100)))

	product, err := e.productRepo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, product.ReferencePrice, "el ingreso con costo debe fijar precio de referencia")
	assert.True(t, product.ReferencePrice.Equal(decimal.RequireFromString("62.50")))
}

func TestRecord_PrecioReferenciaEsModaDeIngresos(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()

	for _, cost := range []string{"60", "62", "62", "65"} {
		_, err := e.record.Record(ctx, appledger.MovementInput{
			Kind:          entity.MovementIngreso,
			DestWarehouse: "b1",
			ActorID:       "bod1",
			Lines:         []appledger.MovementLineInput{line(10, cost)},
		})
		require.NoError(t, err)
	}

	product, err := e.productRepo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, product.ReferencePrice)
	assert.True(t, product.ReferencePrice.Equal(decimal.NewFromInt(62)), "moda: %s", product.ReferencePrice)
}

func TestRecord_IngresoSinCostoNoTocaPrecio(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()

	_, err := e.record.Record(ctx, appledger.MovementInput{
		Kind:          entity.MovementIngreso,
		DestWarehouse: "b1",
		ActorID:       "bod1",
		Lines:         []appledger.MovementLineInput{line(100, "")},
	})
	require.NoError(t, err)

	product, err := e.productRepo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, product.ReferencePrice, "sin costos registrados no hay precio que derivar")
}

func TestRecord_SalidaRestaFisico(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()

	_, err := e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementIngreso, DestWarehouse: "b1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(100, "")},
	})
	require.NoError(t, err)

	mov, err := e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementSalida, SourceWarehouse: "b1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(30, "")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SAL-"+time.Now().Format("2006")+"-0001", mov.Code, "consecutivo propio por tipo")

	assert.True(t, e.physical(t, "p1").Equal(decimal.NewFromInt(70)))
}

func TestRecord_AjusteNegativoPermitido(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()

	_, err := e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementIngreso, DestWarehouse: "b1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(50, "")},
	})
	require.NoError(t, err)

	// Merma de 8 unidades: AJUSTE con cantidad pre-negada
	_, err = e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementAjuste, ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(-8, "")},
	})
	require.NoError(t, err)

	assert.True(t, e.physical(t, "p1").Equal(decimal.NewFromInt(42)))

	// Cero nunca
	_, err = e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementAjuste, ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(0, "")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestRecord_TransferenciaEsNeutraGlobal(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()

	_, err := e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementIngreso, DestWarehouse: "b1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(100, "")},
	})
	require.NoError(t, err)

	_, err = e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementTransferencia, SourceWarehouse: "b1", DestWarehouse: "b2", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(40, "")},
	})
	require.NoError(t, err)

	assert.True(t, e.physical(t, "p1").Equal(decimal.NewFromInt(100)), "la transferencia no altera el total")
}

func TestRecord_DevolucionSignoSegunProveedor(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()

	_, err := e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementIngreso, DestWarehouse: "b1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(100, "")},
	})
	require.NoError(t, err)

	// Devolución interna (campo devuelve a bodega): reingresa
	_, err = e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementDevolucion, DestWarehouse: "b1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(10, "")},
	})
	require.NoError(t, err)
	assert.True(t, e.physical(t, "p1").Equal(decimal.NewFromInt(110)))

	// Devolución al proveedor: sale del inventario
	_, err = e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementDevolucion, SourceWarehouse: "b1", SupplierID: "prov1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(25, "")},
	})
	require.NoError(t, err)
	assert.True(t, e.physical(t, "p1").Equal(decimal.NewFromInt(85)))
}

func TestRecord_ValidacionesDeBodegaYCatalogo(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input appledger.MovementInput
		want  error
	}{
		{"ingreso sin bodega destino", appledger.MovementInput{
			Kind: entity.MovementIngreso, Lines: []appledger.MovementLineInput{line(1, "")},
		}, domain.ErrInvalidInput},
		{"salida sin bodega origen", appledger.MovementInput{
			Kind: entity.MovementSalida, Lines: []appledger.MovementLineInput{line(1, "")},
		}, domain.ErrInvalidInput},
		{"transferencia a la misma bodega", appledger.MovementInput{
			Kind: entity.MovementTransferencia, SourceWarehouse: "b1", DestWarehouse: "b1",
			Lines: []appledger.MovementLineInput{line(1, "")},
		}, domain.ErrInvalidInput},
		{"devolución sin bodegas", appledger.MovementInput{
			Kind: entity.MovementDevolucion, Lines: []appledger.MovementLineInput{line(1, "")},
		}, domain.ErrInvalidInput},
		{"tipo desconocido", appledger.MovementInput{
			Kind: entity.MovementKind("PRESTAMO"), DestWarehouse: "b1",
			Lines: []appledger.MovementLineInput{line(1, "")},
		}, domain.ErrInvalidInput},
		{"sin líneas", appledger.MovementInput{
			Kind: entity.MovementIngreso, DestWarehouse: "b1",
		}, domain.ErrInvalidInput},
		{"cantidad negativa fuera de ajuste", appledger.MovementInput{
			Kind: entity.MovementIngreso, DestWarehouse: "b1",
			Lines: []appledger.MovementLineInput{line(-5, "")},
		}, domain.ErrInvalidQuantity},
		{"proveedor inexistente", appledger.MovementInput{
			Kind: entity.MovementIngreso, DestWarehouse: "b1", SupplierID: "no-existe",
			Lines: []appledger.MovementLineInput{line(1, "")},
		}, domain.ErrNotFound},
		{"producto inexistente", appledger.MovementInput{
			Kind: entity.MovementIngreso, DestWarehouse: "b1",
			Lines: []appledger.MovementLineInput{{ProductID: "no-existe", Quantity: decimal.NewFromInt(1)}},
		}, domain.ErrUnknownProduct},
		{"unidad inexistente", appledger.MovementInput{
			Kind: entity.MovementIngreso, DestWarehouse: "b1",
			Lines: []appledger.MovementLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(1), UnitID: "no-existe"}},
		}, domain.ErrInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.record.Record(ctx, tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRecord_ConsecutivosIndependientesPorTipo(t *testing.T) {
	e := newLedgerEnv(t)
	ctx := context.Background()
	year := time.Now().Format("2006")

	ing1, err := e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementIngreso, DestWarehouse: "b1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(10, "")},
	})
	require.NoError(t, err)
	ing2, err := e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementIngreso, DestWarehouse: "b1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(10, "")},
	})
	require.NoError(t, err)
	sal1, err := e.record.Record(ctx, appledger.MovementInput{
		Kind: entity.MovementSalida, SourceWarehouse: "b1", ActorID: "bod1",
		Lines: []appledger.MovementLineInput{line(5, "")},
	})
	require.NoError(t, err)

	assert.Equal(t, "ING-"+year+"-0001", ing1.Code)
	assert.Equal(t, "ING-"+year+"-0002", ing2.Code)
	assert.Equal(t, "SAL-"+year+"-0001", sal1.Code, "la salida arranca su propio contador")
}
