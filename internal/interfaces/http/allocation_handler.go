package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-lotes/internal/application/dto"
	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// AllocationHandler planificación y confirmación FEFO (protegido).
type AllocationHandler struct {
	engine *inventory.AllocationEngine
	log    *logger.Logger
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(engine *inventory.AllocationEngine, log *logger.Logger) *AllocationHandler {
	return &AllocationHandler{engine: engine, log: log}
}

// Plan godoc
// @Summary      Planificar asignación FEFO (solo lectura)
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlanRequest  true  "producto y cantidad"
// @Success      200   {object}  dto.PlanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/allocations/plan [post]
func (h *AllocationHandler) Plan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	plan, err := h.engine.PlanAllocation(c.Context(), in.ProductID, in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewPlanResponse(plan))
}

// Allocate godoc
// @Summary      Descontar stock por FEFO (venta o ajuste)
// @Description  Planifica y confirma en una transacción. Si otro proceso tomó los mismos lotes
//
//	se vuelve a planificar una vez antes de responder 409.
//
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "producto, cantidad, tipo (sale|adjustment), motivo con {lot} y {qty}"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	_, lines, err := h.engine.Allocate(c.Context(), in.ProductID, in.Quantity, inventory.CommitInput{
		Type:    entity.MovementType(in.Type),
		ActorID: GetUserID(c),
		Reason:  in.Reason,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAllocationResponse(in.ProductID, lines))
}
