package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// ExpiryRunner ejecuta un barrido de vencimientos bajo demanda.
type ExpiryRunner interface {
	RunOnce(ctx context.Context) (int, error)
}

// StockHandler existencias conciliadas y barrido de vencimientos.
type StockHandler struct {
	reconciler *inventory.StockReconciler
	expiry     ExpiryRunner
	log        *logger.Logger
}

// NewStockHandler construye el handler. expiry puede ser nil (barrido manual deshabilitado).
func NewStockHandler(reconciler *inventory.StockReconciler, expiry ExpiryRunner, log *logger.Logger) *StockHandler {
	return &StockHandler{reconciler: reconciler, expiry: expiry, log: log}
}

// Snapshot último stock conciliado del producto (caché o cálculo).
func (h *StockHandler) Snapshot(c *fiber.Ctx) error {
	snap, err := h.reconciler.Snapshot(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(snap)
}

// Reconcile fuerza la conciliación del producto.
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	snap, err := h.reconciler.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(snap)
}

// SweepExpired ejecuta el barrido de vencimientos ahora.
func (h *StockHandler) SweepExpired(c *fiber.Ctx) error {
	if h.expiry == nil {
		return c.SendStatus(fiber.StatusNotImplemented)
	}
	n, err := h.expiry.RunOnce(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"expired": n})
}
