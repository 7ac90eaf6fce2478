// Package http wires the Fiber handlers for the admin API, storefront event
// webhooks, and reports.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/avelar-dev/lotstock-api/internal/application/allocation"
	"github.com/avelar-dev/lotstock-api/internal/application/auth"
	"github.com/avelar-dev/lotstock-api/internal/application/batch"
	"github.com/avelar-dev/lotstock-api/internal/application/reporting"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/pkg/logger"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	BatchUC   *batch.UseCase
	Engine    *allocation.Engine
	ReportUC  *reporting.UseCase
	InvSync   batch.Syncer
	JWTSecret string
	Log       *logger.Logger
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Protected routes (Bearer token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Batches and allocations (any operator)
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches := protected.Group("/batches")
	batches.Post("/", batchHandler.Create)
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Put("/:id", batchHandler.Update)
	batches.Delete("/:id", RequireRole(entity.RoleAdmin), batchHandler.Delete)
	batches.Get("/:id/allocations", batchHandler.ListAllocations)
	batches.Post("/:id/allocations", batchHandler.CreateAllocation)
	protected.Delete("/allocations/:id", batchHandler.DeleteAllocation)

	// Derived variant views
	variants := protected.Group("/variants")
	variants.Get("/:variant_id/availability", batchHandler.Availability)
	variants.Get("/:variant_id/valuation", batchHandler.Valuation)

	// Storefront order events
	eventHandler := NewEventHandler(deps.Engine, deps.InvSync, deps.Log)
	events := protected.Group("/events")
	events.Post("/payment-captured", eventHandler.PaymentCaptured)
	events.Post("/order-canceled", eventHandler.OrderCanceled)

	// Reports (admin only)
	reportHandler := NewReportHandler(deps.ReportUC)
	protected.Get("/reports/stock-valuation", RequireRole(entity.RoleAdmin), reportHandler.StockValuation)
}
