package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-lotes/internal/application/dto"
	"github.com/jhoicas/farmacia-lotes/internal/application/inventory"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// LocationHandler registro de ubicaciones (estante/casilla).
type LocationHandler struct {
	svc *inventory.LocationService
	log *logger.Logger
}

// NewLocationHandler construye el handler.
func NewLocationHandler(svc *inventory.LocationService, log *logger.Logger) *LocationHandler {
	return &LocationHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "estante y casilla; code vacío = ESTANTE-CASILLA"
// @Success      201   {object}  dto.LocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	loc, err := h.svc.Create(c.Context(), inventory.CreateLocationInput{
		Code:  in.Code,
		Shelf: in.Shelf,
		Slot:  in.Slot,
		Name:  in.Name,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewLocationResponse(loc))
}

// List ubicaciones activas.
func (h *LocationHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.ListActive(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.NewLocationResponse(l))
	}
	return c.JSON(out)
}

// GetByID obtiene una ubicación.
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	loc, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewLocationResponse(loc))
}
