package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-lotes/internal/application/dto"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: ErrAllocationConflict envuelve a ErrConcurrentModification e ErrInsufficientQuantity.
var errorMappings = []errorMapping{
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrAllocationConflict, fiber.StatusConflict, "ALLOCATION_CONFLICT"},
	{domain.ErrConcurrentModification, fiber.StatusConflict, "CONCURRENT_MODIFICATION"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{domain.ErrInsufficientQuantity, fiber.StatusUnprocessableEntity, "INSUFFICIENT_QUANTITY"},
	{domain.ErrReturnExceedsOriginal, fiber.StatusUnprocessableEntity, "RETURN_EXCEEDS_ORIGINAL"},
	{domain.ErrLotNotReturnable, fiber.StatusUnprocessableEntity, "LOT_NOT_RETURNABLE"},
	{domain.ErrNoLocationAvailable, fiber.StatusServiceUnavailable, "NO_LOCATION_AVAILABLE"},
	{domain.ErrUnavailable, fiber.StatusServiceUnavailable, "UNAVAILABLE"},
}

// writeError traduce un error de dominio a su respuesta HTTP. Lo desconocido es 500 y se registra.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
