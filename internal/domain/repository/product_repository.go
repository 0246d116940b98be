package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia de productos (catálogo, solo
// lectura para el motor salvo el precio de referencia derivado).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE); el
	// transactor de entrega lo usa para serializar entregas concurrentes
	// sobre el mismo producto.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// Search busca productos activos por nombre o código, insensible a
	// mayúsculas y tildes.
	Search(ctx context.Context, term string, limit int) ([]*entity.Product, error)
	UpdateReferencePrice(ctx context.Context, productID string, price decimal.Decimal) error
}

// CatalogRepository lecturas de catálogo referenciadas por id desde el motor.
type CatalogRepository interface {
	GetUnit(ctx context.Context, id string) (*entity.Unit, error)
	GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error)
	GetSupplier(ctx context.Context, id string) (*entity.Supplier, error)
	GetLot(ctx context.Context, id string) (*entity.Lot, error)
	ListWarehouses(ctx context.Context) ([]*entity.Warehouse, error)
	ListSuppliers(ctx context.Context) ([]*entity.Supplier, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	ListFarmsWithOpenLots(ctx context.Context) ([]*FarmWithLots, error)
}

// FarmWithLots finca con sus lotes abiertos, para el selector del frontend.
type FarmWithLots struct {
	Farm entity.Farm
	Lots []entity.Lot
}

// UserRepository puerto de usuarios (solo lo que necesita auth).
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
