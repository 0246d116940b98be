// Package catalog agrupa los casos de uso de lectura: inventario con estado
// de stock, kardex por producto, aplicaciones por lote, búsqueda de catálogo
// y el panel de indicadores.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/application/dto"
	appledger "github.com/agrocampo/bodega-api/internal/application/ledger"
	"github.com/agrocampo/bodega-api/internal/domain"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	domledger "github.com/agrocampo/bodega-api/internal/domain/ledger"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// Thresholds umbrales de clasificación de stock.
type Thresholds struct {
	Critical int
	Low      int
}

// InventoryUseCase lecturas de inventario: listado con existencias derivadas
// del libro, detalle de producto con kardex y aplicaciones por lote.
type InventoryUseCase struct {
	productRepo  repository.ProductRepository
	movRepo      repository.MovementRepository
	availability *appledger.AvailabilityCalculator
	critical     decimal.Decimal
	low          decimal.Decimal
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	availability *appledger.AvailabilityCalculator,
	thresholds Thresholds,
) *InventoryUseCase {
	return &InventoryUseCase{
		productRepo:  productRepo,
		movRepo:      movRepo,
		availability: availability,
		critical:     decimal.NewFromInt(int64(thresholds.Critical)),
		low:          decimal.NewFromInt(int64(thresholds.Low)),
	}
}

// ListInventory devuelve todos los productos con físico, comprometido,
// disponible (truncado en cero para presentación) y estado de stock.
func (uc *InventoryUseCase) ListInventory(ctx context.Context) ([]*dto.InventoryItemResponse, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InventoryItemResponse, 0, len(products))
	for _, p := range products {
		item, err := uc.inventoryItem(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		item.Code = p.Code
		item.Name = p.Name
		item.CategoryID = p.CategoryID
		item.UnitID = p.UnitID
		item.ReferencePrice = p.ReferencePrice
		out = append(out, item)
	}
	return out, nil
}

// GetAvailability existencias de un solo producto.
func (uc *InventoryUseCase) GetAvailability(ctx context.Context, productID string) (*dto.AvailabilityResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrUnknownProduct
	}
	avail, err := uc.availability.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.AvailabilityResponse{
		ProductID: productID,
		Physical:  avail.Physical,
		Committed: avail.Committed,
		Available: dto.FloorZero(avail.Available),
		Status:    string(domledger.ClassifyStockWith(avail.Physical, uc.critical, uc.low)),
	}, nil
}

// GetProductDetail detalle de producto: existencias + kardex reciente.
func (uc *InventoryUseCase) GetProductDetail(ctx context.Context, productID string, limit int) (*dto.ProductDetailResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrUnknownProduct
	}
	item, err := uc.inventoryItem(ctx, productID)
	if err != nil {
		return nil, err
	}
	item.Code = product.Code
	item.Name = product.Name
	item.CategoryID = product.CategoryID
	item.UnitID = product.UnitID
	item.ReferencePrice = product.ReferencePrice

	entries, err := uc.movRepo.KardexByProduct(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	return &dto.ProductDetailResponse{
		Inventory: *item,
		Kardex:    toKardexResponses(entries),
	}, nil
}

// ApplicationsByLot líneas de SALIDA aplicadas a un lote de cultivo.
func (uc *InventoryUseCase) ApplicationsByLot(ctx context.Context, lotID string, limit int) ([]dto.KardexEntryResponse, error) {
	entries, err := uc.movRepo.ApplicationsByLot(ctx, lotID, limit)
	if err != nil {
		return nil, err
	}
	return toKardexResponses(entries), nil
}

// SearchProducts busca productos activos por nombre o código.
func (uc *InventoryUseCase) SearchProducts(ctx context.Context, term string, limit int) ([]*dto.InventoryItemResponse, error) {
	products, err := uc.productRepo.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InventoryItemResponse, 0, len(products))
	for _, p := range products {
		item, err := uc.inventoryItem(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		item.Code = p.Code
		item.Name = p.Name
		item.CategoryID = p.CategoryID
		item.UnitID = p.UnitID
		item.ReferencePrice = p.ReferencePrice
		out = append(out, item)
	}
	return out, nil
}

func (uc *InventoryUseCase) inventoryItem(ctx context.Context, productID string) (*dto.InventoryItemResponse, error) {
	avail, err := uc.availability.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.InventoryItemResponse{
		ProductID: productID,
		Physical:  avail.Physical,
		Committed: avail.Committed,
		Available: dto.FloorZero(avail.Available),
		Status:    string(domledger.ClassifyStockWith(avail.Physical, uc.critical, uc.low)),
	}, nil
}

func toKardexResponses(entries []*repository.KardexEntry) []dto.KardexEntryResponse {
	out := make([]dto.KardexEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.KardexEntryResponse{
			MovementID:  e.MovementID,
			Code:        e.Code,
			Kind:        string(e.Kind),
			DisplayKind: displayKind(e.Kind, e.HasSupplier),
			Sign:        domledger.StockSign(e.Kind, e.HasSupplier),
			Quantity:    e.Quantity,
			UnitID:      e.UnitID,
			LotID:       e.LotID,
			ProductID:   e.ProductID,
			SourceWh:    e.SourceWh,
			DestWh:      e.DestWh,
			Date:        e.Date.Format("2006-01-02"),
		})
	}
	return out
}

// displayKind etiqueta de presentación: las devoluciones se desambiguan según
// salgan hacia el proveedor o reingresen del campo.
func displayKind(kind entity.MovementKind, hasSupplier bool) string {
	if kind != entity.MovementDevolucion {
		return string(kind)
	}
	if hasSupplier {
		return "DEV. PROVEEDOR"
	}
	return "DEV. INTERNA"
}
