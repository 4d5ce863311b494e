package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/infrastructure/metrics"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine     *inventory.AllocationEngine
	Reconciler *inventory.StockReconciler
	Locations  *inventory.LocationService
	Expiry     ExpiryRunner     // opcional
	Metrics    *metrics.Metrics // opcional
	Log        *logger.Logger
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	supervisors := RequireRole(RoleAdmin, RolePharmacist)

	lotHandler := NewLotHandler(deps.Engine, log)
	lots := api.Group("/lots")
	lots.Post("/", supervisors, lotHandler.Receive)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Get("/:id/movements", lotHandler.Movements)
	lots.Post("/:id/returns", lotHandler.Return)
	lots.Post("/:id/adjustments", supervisors, lotHandler.Adjust)
	lots.Post("/:id/withdraw", supervisors, lotHandler.Withdraw)

	stockHandler := NewStockHandler(deps.Reconciler, deps.Expiry, log)
	products := api.Group("/products")
	products.Get("/:id/lots", lotHandler.ActiveByProduct)
	products.Get("/:id/movements", lotHandler.ProductMovements)
	products.Get("/:id/stock", stockHandler.Snapshot)
	products.Post("/:id/reconcile", supervisors, stockHandler.Reconcile)

	allocationHandler := NewAllocationHandler(deps.Engine, log)
	allocations := api.Group("/allocations")
	allocations.Post("/plan", allocationHandler.Plan)
	allocations.Post("/", allocationHandler.Allocate)

	api.Post("/expiry/sweep", RequireRole(RoleAdmin), stockHandler.SweepExpired)

	locationHandler := NewLocationHandler(deps.Locations, log)
	locations := api.Group("/locations")
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", RequireRole(RoleAdmin), locationHandler.Create)
}
