package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/agrocampo/bodega-api/internal/application/auth"
	"github.com/agrocampo/bodega-api/internal/application/catalog"
	"github.com/agrocampo/bodega-api/internal/application/ledger"
	"github.com/agrocampo/bodega-api/internal/application/pricing"
	"github.com/agrocampo/bodega-api/internal/application/requests"
	infrapdf "github.com/agrocampo/bodega-api/internal/infrastructure/pdf"
	"github.com/agrocampo/bodega-api/internal/infrastructure/postgres"
	httpRouter "github.com/agrocampo/bodega-api/internal/interfaces/http"
	"github.com/agrocampo/bodega-api/pkg/config"
	"github.com/agrocampo/bodega-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (las variantes transaccionales las arman
	// los TxRunner con repos atados a la tx)
	movementRepo := postgres.NewMovementRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	requestTxRunner := postgres.NewRequestTxRunner(pool)

	availability := ledger.NewAvailabilityCalculator(movementRepo, requestRepo)
	priceEstimator := pricing.NewEstimator(movementRepo, productRepo, cfg.Inventory.PriceSampleSize)

	recordMovementUC := ledger.NewRecordMovementUseCase(txRunner, productRepo, catalogRepo, priceEstimator, log)
	createRequestUC := requests.NewCreateRequestUseCase(requestTxRunner, productRepo, catalogRepo, requestRepo, availability)
	transitionUC := requests.NewTransitionRequestUseCase(requestRepo)
	fulfillUC := requests.NewFulfillUseCase(requestTxRunner, log)

	inventoryUC := catalog.NewInventoryUseCase(productRepo, movementRepo, availability, catalog.Thresholds{
		Critical: cfg.Inventory.CriticalThreshold,
		Low:      cfg.Inventory.LowThreshold,
	})
	dashboardUC := catalog.NewDashboardUseCase(movementRepo, requestRepo)
	lookupUC := catalog.NewLookupUseCase(catalogRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	reportUC := catalog.NewReportUseCase(requestRepo, productRepo, inventoryUC, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		RecordMovement: recordMovementUC,
		CreateRequest:  createRequestUC,
		TransitionReq:  transitionUC,
		FulfillReq:     fulfillUC,
		InventoryUC:    inventoryUC,
		DashboardUC:    dashboardUC,
		LookupUC:       lookupUC,
		ReportUC:       reportUC,
		MovementRepo:   movementRepo,
		RequestRepo:    requestRepo,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
