package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrocampo/bodega-api/internal/application/catalog"
	"github.com/agrocampo/bodega-api/internal/application/dto"
	"github.com/agrocampo/bodega-api/internal/application/requests"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// RequestHandler ciclo de vida de solicitudes (protegido).
type RequestHandler struct {
	create     *requests.CreateRequestUseCase
	transition *requests.TransitionRequestUseCase
	fulfill    *requests.FulfillUseCase
	reports    *catalog.ReportUseCase
	reqRepo    repository.RequestRepository
}

// NewRequestHandler construye el handler.
func NewRequestHandler(
	create *requests.CreateRequestUseCase,
	transition *requests.TransitionRequestUseCase,
	fulfill *requests.FulfillUseCase,
	reports *catalog.ReportUseCase,
	reqRepo repository.RequestRepository,
) *RequestHandler {
	return &RequestHandler{
		create:     create,
		transition: transition,
		fulfill:    fulfill,
		reports:    reports,
		reqRepo:    reqRepo,
	}
}

// Create POST /api/solicitudes.
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := requests.CreateRequestInput{
		Kind:            entity.RequestKind(in.Kind),
		RequesterID:     GetUserID(c),
		WarehouseID:     in.WarehouseID,
		OriginRequestID: in.OriginRequestID,
	}
	for _, item := range in.Items {
		input.Lines = append(input.Lines, requests.RequestLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitID:    item.UnitID,
			LotID:     item.LotID,
			Notes:     item.Notes,
		})
	}

	req, err := h.create.Create(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRequestResponse(req))
}

// List GET /api/solicitudes?estado=&solicitante=&limit=.
func (h *RequestHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	filter := repository.RequestFilter{
		Status:      entity.RequestStatus(c.Query("estado")),
		RequesterID: c.Query("solicitante"),
		Limit:       page.Limit,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado desconocido"})
	}

	list, err := h.reqRepo.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.RequestResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ToRequestResponse(r))
	}
	return c.JSON(out)
}

// GetByID GET /api/solicitudes/:id.
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.reqRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if req == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitud no encontrada"})
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// Transition PATCH /api/solicitudes/:id/estado — aprobar o rechazar.
func (h *RequestHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequestBody
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.transition.Transition(c.Context(), c.Params("id"), entity.RequestStatus(in.Status), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// Fulfill POST /api/solicitudes/:id/entregar — genera el documento y cierra
// la solicitud como ENTREGADA.
func (h *RequestHandler) Fulfill(c *fiber.Ctx) error {
	result, err := h.fulfill.Fulfill(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FulfillResponse{
		Request:  *dto.ToRequestResponse(result.Request),
		Movement: *dto.ToMovementResponse(result.Movement),
	})
}

// PDF GET /api/solicitudes/:id/pdf — hoja imprimible de la solicitud.
func (h *RequestHandler) PDF(c *fiber.Ctx) error {
	data, err := h.reports.RequestPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="solicitud.pdf"`)
	return c.Send(data)
}
