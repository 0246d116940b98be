package requests_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/agrocampo/bodega-api/internal/application/ledger"
	"github.com/agrocampo/bodega-api/internal/application/pricing"
	"github.com/agrocampo/bodega-api/internal/application/requests"
	"github.com/agrocampo/bodega-api/internal/domain"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/infrastructure/memory"
	"github.com/agrocampo/bodega-api/pkg/logger"
)

// env arma el almacén en memoria con catálogo mínimo y todos los casos de uso
// del ciclo de solicitudes.
type env struct {
	store        *memory.Store
	availability *appledger.AvailabilityCalculator
	record       *appledger.RecordMovementUseCase
	create       *requests.CreateRequestUseCase
	transition   *requests.TransitionRequestUseCase
	fulfill      *requests.FulfillUseCase
	movRepo      *memory.MovementRepository
	reqRepo      *memory.RequestRepository
	productRepo  *memory.ProductRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(&entity.Product{ID: "p1", Code: "FER-001", Name: "Urea 46%", UnitID: "u1", Active: true})
	store.AddProduct(&entity.Product{ID: "p2", Code: "HER-001", Name: "Glifosato", UnitID: "u2", Active: true})
	store.AddUnit(&entity.Unit{ID: "u1", Name: "Kilogramo", Abbreviation: "kg"})
	store.AddUnit(&entity.Unit{ID: "u2", Name: "Litro", Abbreviation: "L"})
	store.AddWarehouse(&entity.Warehouse{ID: "b1", Name: "Bodega Central"})
	store.AddSupplier(&entity.Supplier{ID: "prov1", Name: "Agroinsumos SA"})
	store.AddUser(&entity.User{ID: "tec1", Name: "Técnico", Role: entity.RoleTecnico, Active: true})
	store.AddUser(&entity.User{ID: "bod1", Name: "Bodeguero", Role: entity.RoleBodeguero, Active: true})

	movRepo := memory.NewMovementRepository(store)
	reqRepo := memory.NewRequestRepository(store)
	productRepo := memory.NewProductRepository(store)
	catalogRepo := memory.NewCatalogRepository(store)

	availability := appledger.NewAvailabilityCalculator(movRepo, reqRepo)
	estimator := pricing.NewEstimator(movRepo, productRepo, pricing.DefaultSampleSize)
	record := appledger.NewRecordMovementUseCase(memory.NewTxRunner(store), productRepo, catalogRepo, estimator, logger.Nop())

	reqTx := memory.NewRequestTxRunner(store)
	return &env{
		store:        store,
		availability: availability,
		record:       record,
		create:       requests.NewCreateRequestUseCase(reqTx, productRepo, catalogRepo, reqRepo, availability),
		transition:   requests.NewTransitionRequestUseCase(reqRepo),
		fulfill:      requests.NewFulfillUseCase(reqTx, logger.Nop()),
		movRepo:      movRepo,
		reqRepo:      reqRepo,
		productRepo:  productRepo,
	}
}

// seedInbound registra un INGRESO aprobado del producto a la bodega b1.
func (e *env) seedInbound(t *testing.T, productID string, qty int64, cost string) {
	t.Helper()
	var unitCost *decimal.Decimal
	if cost != "" {
		c := decimal.RequireFromString(cost)
		unitCost = &c
	}
	_, err := e.record.Record(context.Background(), appledger.MovementInput{
		Kind:          entity.MovementIngreso,
		DestWarehouse: "b1",
		SupplierID:    "prov1",
		ActorID:       "bod1",
		Lines: []appledger.MovementLineInput{
			{ProductID: productID, Quantity: decimal.NewFromInt(qty), UnitID: "u1", UnitCost: unitCost},
		},
	})
	require.NoError(t, err)
}

func dispatchInput(qty int64) requests.CreateRequestInput {
	return requests.CreateRequestInput{
		Kind:        entity.RequestDespacho,
		RequesterID: "tec1",
		WarehouseID: "b1",
		Lines: []requests.RequestLineInput{
			{ProductID: "p1", Quantity: decimal.NewFromInt(qty), UnitID: "u1"},
		},
	}
}

// Flujo completo: ingreso, solicitud, aprobación y entrega; el disponible
// refleja el compromiso mientras la solicitud está abierta y la entrega
// descuenta del físico.
func TestCicloCompleto_DespachoEntregado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "62")

	req, err := e.create.Create(ctx, dispatchInput(30))
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPendiente, req.Status)
	assert.Equal(t, "SOL-"+time.Now().Format("2006")+"-0001", req.Code)

	avail, err := e.availability.Get(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, avail.Physical.Equal(decimal.NewFromInt(100)), "físico: %s", avail.Physical)
	assert.True(t, avail.Committed.Equal(decimal.NewFromInt(30)), "comprometido: %s", avail.Committed)
	assert.True(t, avail.Available.Equal(decimal.NewFromInt(70)), "disponible: %s", avail.Available)

	_, err = e.transition.Transition(ctx, req.ID, entity.RequestAprobada, "bod1")
	require.NoError(t, err)

	// Aprobada sigue comprometiendo stock
	avail, err = e.availability.Get(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, avail.Committed.Equal(decimal.NewFromInt(30)))

	result, err := e.fulfill.Fulfill(ctx, req.ID, "bod1")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestEntregada, result.Request.Status)
	assert.Equal(t, entity.MovementSalida, result.Movement.Kind)
	assert.Equal(t, "b1", result.Movement.SourceWarehouse)
	assert.Equal(t, req.ID, result.Movement.RequestID)
	assert.NotEmpty(t, result.Movement.Code)

	// La solicitud entregada ya no compromete; el físico bajó
	avail, err = e.availability.Get(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, avail.Physical.Equal(decimal.NewFromInt(70)), "físico: %s", avail.Physical)
	assert.True(t, avail.Committed.IsZero(), "comprometido: %s", avail.Committed)
	assert.True(t, avail.Available.Equal(decimal.NewFromInt(70)))

	// La solicitud quedó enlazada al documento
	stored, err := e.reqRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Movement.ID, stored.MovementID)
	assert.Equal(t, "bod1", stored.ApproverID)
}

// La admisión rechaza cantidades por encima del disponible.
func TestCreate_StockInsuficiente(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 10, "")

	_, err := e.create.Create(ctx, dispatchInput(20))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p1", stockErr.ProductID)
	assert.True(t, stockErr.Required.Equal(decimal.NewFromInt(20)))
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(10)))
}

// El comprometido descuenta del disponible para solicitudes posteriores.
func TestCreate_ComprometidoReduceDisponible(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	_, err := e.create.Create(ctx, dispatchInput(80))
	require.NoError(t, err)

	// Solo quedan 20 disponibles aunque el físico es 100
	_, err = e.create.Create(ctx, dispatchInput(30))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = e.create.Create(ctx, dispatchInput(20))
	assert.NoError(t, err)
}

// Una solicitud rechazada libera su compromiso.
func TestTransition_RechazoLiberaCompromiso(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 50, "")

	req, err := e.create.Create(ctx, dispatchInput(50))
	require.NoError(t, err)

	avail, _ := e.availability.Get(ctx, "p1")
	assert.True(t, avail.Available.IsZero())

	_, err = e.transition.Transition(ctx, req.ID, entity.RequestRechazada, "bod1")
	require.NoError(t, err)

	avail, _ = e.availability.Get(ctx, "p1")
	assert.True(t, avail.Available.Equal(decimal.NewFromInt(50)))
}

// Solo puede existir una devolución activa por despacho origen; un rechazo
// libera el cupo.
func TestCreate_DevolucionDuplicada(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	origin, err := e.create.Create(ctx, dispatchInput(40))
	require.NoError(t, err)

	returnInput := requests.CreateRequestInput{
		Kind:            entity.RequestDevolucion,
		RequesterID:     "tec1",
		WarehouseID:     "b1",
		OriginRequestID: origin.ID,
		Lines: []requests.RequestLineInput{
			{ProductID: "p1", Quantity: decimal.NewFromInt(5), UnitID: "u1"},
		},
	}

	first, err := e.create.Create(ctx, returnInput)
	require.NoError(t, err)

	_, err = e.create.Create(ctx, returnInput)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateReturn)

	var dupErr *domain.DuplicateReturnError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, origin.ID, dupErr.OriginRequestID)
	assert.Equal(t, first.ID, dupErr.ConflictingRequest)

	// Rechazada la primera, se admite una nueva devolución
	_, err = e.transition.Transition(ctx, first.ID, entity.RequestRechazada, "bod1")
	require.NoError(t, err)
	_, err = e.create.Create(ctx, returnInput)
	assert.NoError(t, err)
}

// La devolución contra un origen que no es despacho es inválida.
func TestCreate_DevolucionOrigenInvalido(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	ret1, err := e.create.Create(ctx, requests.CreateRequestInput{
		Kind:        entity.RequestDevolucion,
		RequesterID: "tec1",
		WarehouseID: "b1",
		Lines:       []requests.RequestLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	_, err = e.create.Create(ctx, requests.CreateRequestInput{
		Kind:            entity.RequestDevolucion,
		RequesterID:     "tec1",
		WarehouseID:     "b1",
		OriginRequestID: ret1.ID, // origen devolución, no despacho
		Lines:           []requests.RequestLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.create.Create(ctx, requests.CreateRequestInput{
		Kind:            entity.RequestDevolucion,
		RequesterID:     "tec1",
		WarehouseID:     "b1",
		OriginRequestID: "no-existe",
		Lines:           []requests.RequestLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Máquina de estados: transiciones ilegales y ENTREGADA como objetivo directo.
func TestTransition_TransicionesIlegales(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	req, err := e.create.Create(ctx, dispatchInput(10))
	require.NoError(t, err)

	// ENTREGADA jamás por transición directa
	_, err = e.transition.Transition(ctx, req.ID, entity.RequestEntregada, "bod1")
	require.Error(t, err)
	var trErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, entity.RequestPendiente, trErr.Current)

	// RECHAZADA es terminal
	_, err = e.transition.Transition(ctx, req.ID, entity.RequestRechazada, "bod1")
	require.NoError(t, err)
	_, err = e.transition.Transition(ctx, req.ID, entity.RequestAprobada, "bod1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Estado desconocido
	_, err = e.transition.Transition(ctx, req.ID, entity.RequestStatus("CERRADA"), "bod1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.transition.Transition(ctx, "no-existe", entity.RequestAprobada, "bod1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La entrega exige APROBADA.
func TestFulfill_ExigeAprobada(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	req, err := e.create.Create(ctx, dispatchInput(10))
	require.NoError(t, err)

	_, err = e.fulfill.Fulfill(ctx, req.ID, "bod1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Sin documento generado
	movs, err := e.movRepo.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "solo el ingreso inicial")
}

// La entrega no es idempotente: la segunda llamada falla y no duplica el
// documento.
func TestFulfill_SegundaEntregaFalla(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	req, err := e.create.Create(ctx, dispatchInput(10))
	require.NoError(t, err)
	_, err = e.transition.Transition(ctx, req.ID, entity.RequestAprobada, "bod1")
	require.NoError(t, err)

	_, err = e.fulfill.Fulfill(ctx, req.ID, "bod1")
	require.NoError(t, err)

	_, err = e.fulfill.Fulfill(ctx, req.ID, "bod1")
	require.Error(t, err)
	var trErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, entity.RequestEntregada, trErr.Current)

	movs, err := e.movRepo.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, movs, 2, "ingreso + una sola salida")
}

// Revalidación en la entrega: si el físico cayó después de la aprobación, la
// entrega falla y la solicitud queda APROBADA intacta.
func TestFulfill_RevalidaStockFisico(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	req, err := e.create.Create(ctx, dispatchInput(80))
	require.NoError(t, err)
	_, err = e.transition.Transition(ctx, req.ID, entity.RequestAprobada, "bod1")
	require.NoError(t, err)

	// Una salida directa agota el físico por debajo de lo solicitado
	_, err = e.record.Record(ctx, appledger.MovementInput{
		Kind:            entity.MovementSalida,
		SourceWarehouse: "b1",
		ActorID:         "bod1",
		Lines: []appledger.MovementLineInput{
			{ProductID: "p1", Quantity: decimal.NewFromInt(50), UnitID: "u1"},
		},
	})
	require.NoError(t, err)

	_, err = e.fulfill.Fulfill(ctx, req.ID, "bod1")
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(50)), "físico en la revalidación: %s", stockErr.Available)

	stored, err := e.reqRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestAprobada, stored.Status, "la solicitud no cambia si la entrega falla")
	assert.Empty(t, stored.MovementID)
}

// Dos solicitudes admitidas sobre el mismo margen (carrera en la admisión,
// que no bloquea): la primera entrega gana y la segunda choca contra la
// revalidación.
func TestFulfill_SobrecompromisoLoResuelveLaEntrega(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	first, err := e.create.Create(ctx, dispatchInput(80))
	require.NoError(t, err)

	// La segunda quedó admitida en la ventana de carrera; se inserta ya
	// creada para reproducir ese estado.
	second := &entity.Request{
		ID:          "req-carrera",
		Code:        "SOL-2026-9999",
		Kind:        entity.RequestDespacho,
		Status:      entity.RequestPendiente,
		RequesterID: "tec1",
		WarehouseID: "b1",
		Date:        time.Now(),
		Lines: []entity.RequestLine{
			{ID: "l-carrera", RequestID: "req-carrera", ProductID: "p1", Quantity: decimal.NewFromInt(80), UnitID: "u1"},
		},
	}
	require.NoError(t, e.reqRepo.Create(ctx, second))

	_, err = e.transition.Transition(ctx, first.ID, entity.RequestAprobada, "bod1")
	require.NoError(t, err)
	_, err = e.transition.Transition(ctx, second.ID, entity.RequestAprobada, "bod1")
	require.NoError(t, err)

	_, err = e.fulfill.Fulfill(ctx, first.ID, "bod1")
	require.NoError(t, err)

	_, err = e.fulfill.Fulfill(ctx, second.ID, "bod1")
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(20)), "físico restante: %s", stockErr.Available)

	stored, err := e.reqRepo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestAprobada, stored.Status)
}

// La entrega de una devolución genera una DEVOLUCION interna que reingresa
// stock.
func TestFulfill_DevolucionReingresa(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	req, err := e.create.Create(ctx, requests.CreateRequestInput{
		Kind:        entity.RequestDevolucion,
		RequesterID: "tec1",
		WarehouseID: "b1",
		Lines:       []requests.RequestLineInput{{ProductID: "p1", Quantity: decimal.NewFromInt(15), UnitID: "u1"}},
	})
	require.NoError(t, err)
	_, err = e.transition.Transition(ctx, req.ID, entity.RequestAprobada, "bod1")
	require.NoError(t, err)

	result, err := e.fulfill.Fulfill(ctx, req.ID, "bod1")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementDevolucion, result.Movement.Kind)
	assert.Equal(t, "b1", result.Movement.DestWarehouse)
	assert.Empty(t, result.Movement.SupplierID, "devolución interna: sin proveedor, reingresa")

	physical, err := e.availability.PhysicalStock(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, physical.Equal(decimal.NewFromInt(115)), "físico: %s", physical)
}

// Validaciones de admisión: cantidades, producto y unidad.
func TestCreate_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	in := dispatchInput(10)
	in.Lines[0].Quantity = decimal.Zero
	_, err := e.create.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	in = dispatchInput(10)
	in.Lines[0].Quantity = decimal.NewFromInt(-5)
	_, err = e.create.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	in = dispatchInput(10)
	in.Lines[0].ProductID = "no-existe"
	_, err = e.create.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	in = dispatchInput(10)
	in.Lines[0].UnitID = "no-existe"
	_, err = e.create.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = dispatchInput(10)
	in.Kind = entity.RequestKind("PRESTAMO")
	_, err = e.create.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = dispatchInput(10)
	in.Lines = nil
	_, err = e.create.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Los consecutivos de solicitud son independientes de los de documentos y
// corren por año.
func TestCreate_ConsecutivoPorAnio(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedInbound(t, "p1", 100, "")

	r1, err := e.create.Create(ctx, dispatchInput(1))
	require.NoError(t, err)
	r2, err := e.create.Create(ctx, dispatchInput(1))
	require.NoError(t, err)

	year := time.Now().Format("2006")
	assert.Equal(t, "SOL-"+year+"-0001", r1.Code)
	assert.Equal(t, "SOL-"+year+"-0002", r2.Code)
}
