package dto

// UnitResponse unidad de medida.
type UnitResponse struct {
	ID           string `json:"id"`
	Name         string `json:"nombre"`
	Abbreviation string `json:"abreviatura"`
}

// CategoryResponse categoría de producto.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// SupplierResponse proveedor.
type SupplierResponse struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
	NIT  string `json:"nit,omitempty"`
}

// WarehouseResponse bodega.
type WarehouseResponse struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// LotResponse lote de cultivo.
type LotResponse struct {
	ID           string   `json:"id"`
	Code         string   `json:"codigo"`
	CropName     string   `json:"cultivo,omitempty"`
	AreaManzanas *float64 `json:"area_manzanas,omitempty"`
	Status       string   `json:"estado"`
}

// FarmResponse finca con sus lotes abiertos.
type FarmResponse struct {
	ID   string        `json:"id"`
	Name string        `json:"nombre"`
	Lots []LotResponse `json:"lotes"`
}
