package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un insumo agrícola del catálogo.
// ReferencePrice es derivado: la moda de los costos de los ingresos recientes
// (ver application/pricing); el resto del catálogo es propiedad de módulos
// externos y aquí se referencia solo por id.
type Product struct {
	ID               string
	Code             string // código único, ej. "FER-001"
	Name             string
	ActiveIngredient string
	CategoryID       string
	UnitID           string
	Active           bool
	ReferencePrice   *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Unit unidad de medida (kg, L, saco...).
type Unit struct {
	ID           string
	Name         string
	Abbreviation string
}

// Category categoría de producto (fertilizantes, herbicidas...).
type Category struct {
	ID   string
	Name string
}

// Supplier proveedor de insumos.
type Supplier struct {
	ID   string
	Name string
	NIT  string
}

// Warehouse bodega física donde se almacena inventario.
type Warehouse struct {
	ID   string
	Name string
}
