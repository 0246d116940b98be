package dto

import (
	"github.com/shopspring/decimal"
)

// AvailabilityResponse existencias de un producto. Disponible se trunca en
// cero para presentación: el sobrecompromiso interno no se muestra negativo.
type AvailabilityResponse struct {
	ProductID string          `json:"producto_id"`
	Physical  decimal.Decimal `json:"fisico"`
	Committed decimal.Decimal `json:"comprometido"`
	Available decimal.Decimal `json:"disponible"`
	Status    string          `json:"estado_stock"` // Normal | Bajo | Crítico
}

// InventoryItemResponse fila del listado de inventario.
type InventoryItemResponse struct {
	ProductID      string           `json:"producto_id"`
	Code           string           `json:"codigo"`
	Name           string           `json:"nombre"`
	CategoryID     string           `json:"categoria_id,omitempty"`
	UnitID         string           `json:"unidad_id,omitempty"`
	ReferencePrice *decimal.Decimal `json:"precio_ref,omitempty"`
	Physical       decimal.Decimal  `json:"fisico"`
	Committed      decimal.Decimal  `json:"comprometido"`
	Available      decimal.Decimal  `json:"disponible"`
	Status         string           `json:"estado_stock"`
}

// KardexEntryResponse línea del kardex de un producto o lote.
// DisplayKind distingue las devoluciones en pantalla: "DEV. PROVEEDOR"
// (salen hacia el proveedor) frente a "DEV. INTERNA" (reingresan del campo).
type KardexEntryResponse struct {
	MovementID  string          `json:"documento_id"`
	Code        string          `json:"codigo"`
	Kind        string          `json:"tipo"`
	DisplayKind string          `json:"tipo_detalle"`
	Sign        int             `json:"signo"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitID      string          `json:"unidad_id,omitempty"`
	LotID       string          `json:"lote_id,omitempty"`
	ProductID   string          `json:"producto_id"`
	SourceWh    string          `json:"bodega_origen_id,omitempty"`
	DestWh      string          `json:"bodega_destino_id,omitempty"`
	Date        string          `json:"fecha"`
}

// ProductDetailResponse detalle de producto con kardex.
type ProductDetailResponse struct {
	Inventory InventoryItemResponse `json:"producto"`
	Kardex    []KardexEntryResponse `json:"kardex"`
}

// DashboardResponse indicadores del panel.
type DashboardResponse struct {
	PendingRequests int `json:"solicitudes_pendientes"`
	MovementsToday  int `json:"movimientos_hoy"`
}

// FloorZero trunca un decimal negativo a cero (presentación).
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
