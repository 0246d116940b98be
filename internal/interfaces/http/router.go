package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrocampo/bodega-api/internal/application/auth"
	"github.com/agrocampo/bodega-api/internal/application/catalog"
	"github.com/agrocampo/bodega-api/internal/application/ledger"
	"github.com/agrocampo/bodega-api/internal/application/requests"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	RecordMovement *ledger.RecordMovementUseCase
	CreateRequest  *requests.CreateRequestUseCase
	TransitionReq  *requests.TransitionRequestUseCase
	FulfillReq     *requests.FulfillUseCase
	InventoryUC    *catalog.InventoryUseCase
	DashboardUC    *catalog.DashboardUseCase
	LookupUC       *catalog.LookupUseCase
	ReportUC       *catalog.ReportUseCase
	MovementRepo   repository.MovementRepository
	RequestRepo    repository.RequestRepository
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Get)

	// Inventario y productos
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.ReportUC)
	protected.Get("/inventario", inventoryHandler.List)
	protected.Get("/inventario/reporte/pdf", inventoryHandler.ReportPDF)
	protected.Get("/inventario/:productoId/disponibilidad", inventoryHandler.Availability)
	protected.Get("/inventario/:productoId", inventoryHandler.ProductDetail)
	protected.Get("/productos/buscar", inventoryHandler.Search)
	protected.Get("/lotes/:id/aplicaciones", inventoryHandler.LotApplications)

	// Movimientos: registrar exige rol de bodega
	movementHandler := NewMovementHandler(deps.RecordMovement, deps.MovementRepo)
	movimientos := protected.Group("/movimientos")
	movimientos.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), movementHandler.Create)
	movimientos.Get("/", movementHandler.List)
	movimientos.Get("/:id", movementHandler.GetByID)

	// Solicitudes: cualquier usuario autenticado crea; aprobar/rechazar y
	// entregar exigen rol de bodega
	requestHandler := NewRequestHandler(deps.CreateRequest, deps.TransitionReq, deps.FulfillReq, deps.ReportUC, deps.RequestRepo)
	solicitudes := protected.Group("/solicitudes")
	solicitudes.Post("/", requestHandler.Create)
	solicitudes.Get("/", requestHandler.List)
	solicitudes.Get("/:id", requestHandler.GetByID)
	solicitudes.Get("/:id/pdf", requestHandler.PDF)
	solicitudes.Patch("/:id/estado", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), requestHandler.Transition)
	solicitudes.Post("/:id/entregar", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), requestHandler.Fulfill)

	// Catálogo
	catalogHandler := NewCatalogHandler(deps.LookupUC)
	protected.Get("/bodegas", catalogHandler.Warehouses)
	protected.Get("/proveedores", catalogHandler.Suppliers)
	protected.Get("/categorias", catalogHandler.Categories)
	protected.Get("/fincas", catalogHandler.Farms)
}
