package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrocampo/bodega-api/internal/application/catalog"
	"github.com/agrocampo/bodega-api/internal/application/dto"
)

// InventoryHandler lecturas de inventario: listado, disponibilidad, detalle
// con kardex, búsqueda y aplicaciones por lote (protegido).
type InventoryHandler struct {
	inventory *catalog.InventoryUseCase
	reports   *catalog.ReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(inventory *catalog.InventoryUseCase, reports *catalog.ReportUseCase) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, reports: reports}
}

// List GET /api/inventario.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.inventory.ListInventory(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// Availability GET /api/inventario/:productoId/disponibilidad.
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	resp, err := h.inventory.GetAvailability(c.Context(), c.Params("productoId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// ProductDetail GET /api/inventario/:productoId.
func (h *InventoryHandler) ProductDetail(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	resp, err := h.inventory.GetProductDetail(c.Context(), c.Params("productoId"), page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}

// Search GET /api/productos/buscar?q=.
func (h *InventoryHandler) Search(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	items, err := h.inventory.SearchProducts(c.Context(), c.Query("q"), page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(items)
}

// LotApplications GET /api/lotes/:id/aplicaciones.
func (h *InventoryHandler) LotApplications(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	entries, err := h.inventory.ApplicationsByLot(c.Context(), c.Params("id"), page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(entries)
}

// ReportPDF GET /api/inventario/reporte/pdf.
func (h *InventoryHandler) ReportPDF(c *fiber.Ctx) error {
	data, err := h.reports.InventoryPDF(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventario.pdf"`)
	return c.Send(data)
}
