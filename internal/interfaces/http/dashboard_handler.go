package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrocampo/bodega-api/internal/application/catalog"
)

// DashboardHandler indicadores del panel (protegido).
type DashboardHandler struct {
	uc *catalog.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *catalog.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Get GET /api/dashboard.
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	resp, err := h.uc.Get(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(resp)
}
