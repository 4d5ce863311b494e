package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-lotes/internal/application/dto"
	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// LotHandler maneja las peticiones HTTP de lotes (protegido).
type LotHandler struct {
	engine *inventory.AllocationEngine
	log    *logger.Logger
}

// NewLotHandler construye el handler.
func NewLotHandler(engine *inventory.AllocationEngine, log *logger.Logger) *LotHandler {
	return &LotHandler{engine: engine, log: log}
}

// Receive godoc
// @Summary      Recibir mercancía (crear lote)
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "producto, cantidad, vencimiento, precios; location_id vacío = ubicación por defecto"
// @Success      201   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/lots [post]
func (h *LotHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	lot, err := h.engine.ReceiveStock(c.Context(), inventory.ReceiveStockInput{
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		Code:          in.Code,
		LocationID:    in.LocationID,
		ExpiryDate:    in.ExpiryDate,
		EntryDate:     in.EntryDate,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		SupplierID:    in.SupplierID,
		Notes:         in.Notes,
		ActorID:       GetUserID(c),
		Reason:        in.Reason,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLotResponse(lot))
}

// GetByID godoc
// @Summary      Obtener lote
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Lot ID"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/lots/{id} [get]
func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	lot, err := h.engine.GetLot(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewLotResponse(lot))
}

// Movements historial del lote, del más antiguo al más reciente.
func (h *LotHandler) Movements(c *fiber.Ctx) error {
	movs, err := h.engine.MovementsForLot(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewMovementList(movs))
}

// Return godoc
// @Summary      Devolución de cliente a un lote
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Lot ID"
// @Param        body  body  dto.ReturnRequest  true  "cantidad y motivo"
// @Success      200   {object}  dto.LotResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/lots/{id}/returns [post]
func (h *LotHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	lot, err := h.engine.ReturnToLot(c.Context(), inventory.ReturnInput{
		LotID:    c.Params("id"),
		Quantity: in.Quantity,
		Reason:   in.Reason,
		ActorID:  GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewLotResponse(lot))
}

// Adjust ajuste manual con signo (conteo físico, baja de vencidos).
func (h *LotHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	lot, err := h.engine.AdjustLot(c.Context(), inventory.AdjustInput{
		LotID:   c.Params("id"),
		Delta:   in.Delta,
		Reason:  in.Reason,
		ActorID: GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewLotResponse(lot))
}

// Withdraw retira el lote (recall o baja sanitaria).
func (h *LotHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.WithdrawRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	lot, err := h.engine.WithdrawLot(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewLotResponse(lot))
}

// ActiveByProduct lotes con existencias del producto en orden FEFO.
func (h *LotHandler) ActiveByProduct(c *fiber.Ctx) error {
	lots, err := h.engine.ActiveLots(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewLotList(lots))
}

// ProductMovements godoc
// @Summary      Movimientos de un producto
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Product ID"
// @Param        from    query  string  false  "desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit   query  int     false  "máximo 500"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/products/{id}/movements [get]
func (h *LotHandler) ProductMovements(c *fiber.Ctx) error {
	var page dto.Page
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	if err := validate.Struct(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: describeValidation(err)})
	}
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	page = page.Normalized()
	movs, total, err := h.engine.MovementsForProduct(c.Context(), c.Params("id"), inventory.MovementFilter{
		From:   from,
		To:     to,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: dto.NewMovementList(movs),
		Page:  dto.NewPageResponse(page, len(movs), total),
	})
}

func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("fecha %q: %w", raw, domain.ErrValidation)
}
