package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/avelar-dev/lotstock-api/docs"
	"github.com/avelar-dev/lotstock-api/internal/application/allocation"
	"github.com/avelar-dev/lotstock-api/internal/application/auth"
	"github.com/avelar-dev/lotstock-api/internal/application/batch"
	"github.com/avelar-dev/lotstock-api/internal/application/reporting"
	"github.com/avelar-dev/lotstock-api/internal/application/stocksync"
	infrapdf "github.com/avelar-dev/lotstock-api/internal/infrastructure/pdf"
	"github.com/avelar-dev/lotstock-api/internal/infrastructure/postgres"
	httpRouter "github.com/avelar-dev/lotstock-api/internal/interfaces/http"
	"github.com/avelar-dev/lotstock-api/pkg/config"
	"github.com/avelar-dev/lotstock-api/pkg/logger"
)

// @title        Lotstock API
// @version      1.0
// @description  Dated-lot inventory allocation service: FIFO allocation of lots
// @description  to paid orders, derived availability, cost valuation, and sync
// @description  into the storefront's inventory and pricing stores.
// @securityDefinitions.apikey Bearer
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	batchRepo := postgres.NewBatchRepository(pool)
	allocRepo := postgres.NewAllocationRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	linkRepo := postgres.NewStockLinkRepository(pool)
	levelRepo := postgres.NewInventoryLevelRepository(pool)
	priceRepo := postgres.NewPriceRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	invSync := stocksync.NewInventorySync(
		batchRepo, allocRepo, linkRepo, levelRepo, cfg.Sync.DefaultLocationID, log,
	)
	priceSync := stocksync.NewPricingSync(batchRepo, priceRepo, stocksync.PricingConfig{
		Currency:        cfg.Sync.Currency,
		CustomerGroupID: cfg.Sync.CustomerGroupID,
		PriceListName:   cfg.Sync.PriceListName,
	}, log)
	if err := priceSync.EnsurePriceList(ctx); err != nil {
		log.Fatal().Err(err).Msg("provision price list")
	}

	engine := allocation.NewEngine(txRunner, orderRepo, log)
	batchUC := batch.NewUseCase(batchRepo, allocRepo, txRunner, invSync, priceSync, log)
	reportUC := reporting.NewUseCase(
		batchRepo, allocRepo, infrapdf.NewMarotoReportGenerator(), cfg.Sync.Currency,
	)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Lotstock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		BatchUC:   batchUC,
		Engine:    engine,
		ReportUC:  reportUC,
		InvSync:   invSync,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
