package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrocampo/bodega-api/internal/application/catalog"
)

// CatalogHandler listas de catálogo para selectores (protegido).
type CatalogHandler struct {
	lookups *catalog.LookupUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(lookups *catalog.LookupUseCase) *CatalogHandler {
	return &CatalogHandler{lookups: lookups}
}

// Warehouses GET /api/bodegas.
func (h *CatalogHandler) Warehouses(c *fiber.Ctx) error {
	list, err := h.lookups.Warehouses(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Suppliers GET /api/proveedores.
func (h *CatalogHandler) Suppliers(c *fiber.Ctx) error {
	list, err := h.lookups.Suppliers(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Categories GET /api/categorias.
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	list, err := h.lookups.Categories(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Farms GET /api/fincas — fincas con sus lotes abiertos.
func (h *CatalogHandler) Farms(c *fiber.Ctx) error {
	list, err := h.lookups.FarmsWithOpenLots(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
