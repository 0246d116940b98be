package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
)

// MovementItemRequest línea del body de creación de documentos.
type MovementItemRequest struct {
	ProductID string           `json:"producto_id"`
	Quantity  decimal.Decimal  `json:"cantidad"`
	UnitID    string           `json:"unidad_id,omitempty"`
	LotID     string           `json:"lote_id,omitempty"`
	UnitCost  *decimal.Decimal `json:"costo_unitario,omitempty"`
	Notes     string           `json:"notas,omitempty"`
}

// CreateMovementRequest body para POST /api/movimientos.
type CreateMovementRequest struct {
	Kind            string                `json:"tipo"`
	Date            *time.Time            `json:"fecha,omitempty"`
	SourceWarehouse string                `json:"bodega_origen_id,omitempty"`
	DestWarehouse   string                `json:"bodega_destino_id,omitempty"`
	SupplierID      string                `json:"proveedor_id,omitempty"`
	Observation     string                `json:"observacion,omitempty"`
	Items           []MovementItemRequest `json:"items"`
}

// MovementItemResponse línea de documento en respuestas.
type MovementItemResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"producto_id"`
	Quantity  decimal.Decimal  `json:"cantidad"`
	UnitID    string           `json:"unidad_id,omitempty"`
	LotID     string           `json:"lote_id,omitempty"`
	UnitCost  *decimal.Decimal `json:"costo_unitario,omitempty"`
	Notes     string           `json:"notas,omitempty"`
}

// MovementResponse documento de movimiento en respuestas.
type MovementResponse struct {
	ID              string                 `json:"id"`
	Code            string                 `json:"codigo"`
	Kind            string                 `json:"tipo"`
	Status          string                 `json:"estado"`
	Date            time.Time              `json:"fecha"`
	SourceWarehouse string                 `json:"bodega_origen_id,omitempty"`
	DestWarehouse   string                 `json:"bodega_destino_id,omitempty"`
	SupplierID      string                 `json:"proveedor_id,omitempty"`
	RequestID       string                 `json:"solicitud_id,omitempty"`
	Observation     string                 `json:"observacion,omitempty"`
	CreatedBy       string                 `json:"creado_por,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	Items           []MovementItemResponse `json:"items"`
}

// ToMovementResponse mapea la entidad al DTO.
func ToMovementResponse(m *entity.Movement) *MovementResponse {
	if m == nil {
		return nil
	}
	resp := &MovementResponse{
		ID:              m.ID,
		Code:            m.Code,
		Kind:            string(m.Kind),
		Status:          string(m.Status),
		Date:            m.Date,
		SourceWarehouse: m.SourceWarehouse,
		DestWarehouse:   m.DestWarehouse,
		SupplierID:      m.SupplierID,
		RequestID:       m.RequestID,
		Observation:     m.Observation,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
		Items:           make([]MovementItemResponse, 0, len(m.Lines)),
	}
	for _, l := range m.Lines {
		resp.Items = append(resp.Items, MovementItemResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitID:    l.UnitID,
			LotID:     l.LotID,
			UnitCost:  l.UnitCost,
			Notes:     l.Notes,
		})
	}
	return resp
}
