package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/agrocampo/bodega-api/internal/application/dto"
	"github.com/agrocampo/bodega-api/internal/application/ledger"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// MovementHandler documentos de movimiento de inventario (protegido).
type MovementHandler struct {
	record  *ledger.RecordMovementUseCase
	movRepo repository.MovementRepository
}

// NewMovementHandler construye el handler.
func NewMovementHandler(record *ledger.RecordMovementUseCase, movRepo repository.MovementRepository) *MovementHandler {
	return &MovementHandler{record: record, movRepo: movRepo}
}

// Create POST /api/movimientos.
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := ledger.MovementInput{
		Kind:            entity.MovementKind(in.Kind),
		SourceWarehouse: in.SourceWarehouse,
		DestWarehouse:   in.DestWarehouse,
		SupplierID:      in.SupplierID,
		Observation:     in.Observation,
		ActorID:         GetUserID(c),
	}
	if in.Date != nil {
		input.Date = *in.Date
	} else {
		input.Date = time.Now()
	}
	for _, item := range in.Items {
		input.Lines = append(input.Lines, ledger.MovementLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitID:    item.UnitID,
			LotID:     item.LotID,
			UnitCost:  item.UnitCost,
			Notes:     item.Notes,
		})
	}

	mov, err := h.record.Record(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// List GET /api/movimientos.
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	movs, err := h.movRepo.List(c.Context(), page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// GetByID GET /api/movimientos/:id.
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	mov, err := h.movRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if mov == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	}
	return c.JSON(dto.ToMovementResponse(mov))
}
