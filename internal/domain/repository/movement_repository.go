package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
)

// MovementRepository puerto de persistencia del libro de movimientos.
// El libro es append-only: un documento aprobado no se edita, solo puede
// pasar a ANULADO.
type MovementRepository interface {
	// Create persiste cabecera y líneas del documento.
	Create(ctx context.Context, mov *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, limit int) ([]*entity.Movement, error)

	// StockContributions devuelve, por (tipo, con-proveedor), la suma de
	// cantidades de líneas de documentos APROBADO del producto. El dominio
	// aplica la tabla de signos sobre este agregado.
	StockContributions(ctx context.Context, productID string) ([]entity.StockContribution, error)

	// RecentInboundCosts devuelve los costos unitarios de las últimas líneas
	// de INGRESO aprobadas del producto, de la más reciente a la más antigua.
	RecentInboundCosts(ctx context.Context, productID string, limit int) ([]decimal.Decimal, error)

	// KardexByProduct lista las líneas recientes del producto con la cabecera
	// de su documento, para el detalle de inventario.
	KardexByProduct(ctx context.Context, productID string, limit int) ([]*KardexEntry, error)

	// ApplicationsByLot lista las líneas de SALIDA aprobadas aplicadas a un
	// lote de cultivo.
	ApplicationsByLot(ctx context.Context, lotID string, limit int) ([]*KardexEntry, error)

	// CountToday cuenta los documentos con fecha de hoy (dashboard).
	CountToday(ctx context.Context, now time.Time) (int, error)
}

// KardexEntry línea de movimiento enriquecida con su cabecera.
type KardexEntry struct {
	LineID      string
	MovementID  string
	Code        string
	Kind        entity.MovementKind
	HasSupplier bool
	Quantity    decimal.Decimal
	UnitID      string
	LotID       string
	ProductID   string
	SourceWh    string
	DestWh      string
	Date        time.Time
}
