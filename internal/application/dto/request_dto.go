package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
)

// RequestItemRequest línea del body de creación de solicitudes.
type RequestItemRequest struct {
	ProductID string          `json:"producto_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitID    string          `json:"unidad_id,omitempty"`
	LotID     string          `json:"lote_id,omitempty"`
	Notes     string          `json:"notas,omitempty"`
}

// CreateRequestRequest body para POST /api/solicitudes.
type CreateRequestRequest struct {
	Kind            string               `json:"tipo"`
	WarehouseID     string               `json:"bodega_id"`
	OriginRequestID string               `json:"solicitud_origen_id,omitempty"`
	Items           []RequestItemRequest `json:"items"`
}

// TransitionRequestBody body para PATCH /api/solicitudes/:id/estado.
type TransitionRequestBody struct {
	Status string `json:"estado"`
}

// RequestItemResponse línea de solicitud en respuestas.
type RequestItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"producto_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
	UnitID    string          `json:"unidad_id,omitempty"`
	LotID     string          `json:"lote_id,omitempty"`
	Notes     string          `json:"notas,omitempty"`
}

// RequestResponse solicitud en respuestas.
type RequestResponse struct {
	ID              string                `json:"id"`
	Code            string                `json:"codigo"`
	Kind            string                `json:"tipo"`
	Status          string                `json:"estado"`
	RequesterID     string                `json:"solicitante_id"`
	ApproverID      string                `json:"aprobador_id,omitempty"`
	WarehouseID     string                `json:"bodega_id"`
	Date            time.Time             `json:"fecha"`
	OriginRequestID string                `json:"solicitud_origen_id,omitempty"`
	MovementID      string                `json:"documento_id,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Items           []RequestItemResponse `json:"items"`
}

// FulfillResponse resultado de la entrega: solicitud + documento generado.
type FulfillResponse struct {
	Request  RequestResponse  `json:"solicitud"`
	Movement MovementResponse `json:"documento"`
}

// ToRequestResponse mapea la entidad al DTO.
func ToRequestResponse(r *entity.Request) *RequestResponse {
	if r == nil {
		return nil
	}
	resp := &RequestResponse{
		ID:              r.ID,
		Code:            r.Code,
		Kind:            string(r.Kind),
		Status:          string(r.Status),
		RequesterID:     r.RequesterID,
		ApproverID:      r.ApproverID,
		WarehouseID:     r.WarehouseID,
		Date:            r.Date,
		OriginRequestID: r.OriginRequestID,
		MovementID:      r.MovementID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Items:           make([]RequestItemResponse, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		resp.Items = append(resp.Items, RequestItemResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitID:    l.UnitID,
			LotID:     l.LotID,
			Notes:     l.Notes,
		})
	}
	return resp
}
