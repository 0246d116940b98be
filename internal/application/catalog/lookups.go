package catalog

import (
	"context"

	"github.com/agrocampo/bodega-api/internal/application/dto"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// LookupUseCase listas de catálogo para selectores del frontend.
type LookupUseCase struct {
	catalogRepo repository.CatalogRepository
}

// NewLookupUseCase construye el caso de uso.
func NewLookupUseCase(catalogRepo repository.CatalogRepository) *LookupUseCase {
	return &LookupUseCase{catalogRepo: catalogRepo}
}

// Warehouses bodegas ordenadas por nombre.
func (uc *LookupUseCase) Warehouses(ctx context.Context) ([]dto.WarehouseResponse, error) {
	list, err := uc.catalogRepo.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		out = append(out, dto.WarehouseResponse{ID: w.ID, Name: w.Name})
	}
	return out, nil
}

// Suppliers proveedores ordenados por nombre.
func (uc *LookupUseCase) Suppliers(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := uc.catalogRepo.ListSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SupplierResponse{ID: s.ID, Name: s.Name, NIT: s.NIT})
	}
	return out, nil
}

// Categories categorías ordenadas por nombre.
func (uc *LookupUseCase) Categories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// FarmsWithOpenLots fincas con sus lotes ABIERTO.
func (uc *LookupUseCase) FarmsWithOpenLots(ctx context.Context) ([]dto.FarmResponse, error) {
	list, err := uc.catalogRepo.ListFarmsWithOpenLots(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FarmResponse, 0, len(list))
	for _, f := range list {
		farm := dto.FarmResponse{ID: f.Farm.ID, Name: f.Farm.Name, Lots: make([]dto.LotResponse, 0, len(f.Lots))}
		for _, l := range f.Lots {
			farm.Lots = append(farm.Lots, dto.LotResponse{
				ID:           l.ID,
				Code:         l.Code,
				CropName:     l.CropName,
				AreaManzanas: l.AreaManzanas,
				Status:       l.Status,
			})
		}
		out = append(out, farm)
	}
	return out, nil
}
