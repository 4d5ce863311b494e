package dto

import (
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Code  string `json:"code" validate:"max=32"`
	Shelf string `json:"shelf" validate:"required,max=16"`
	Slot  string `json:"slot" validate:"required,max=16"`
	Name  string `json:"name" validate:"max=120"`
}

// LocationResponse ubicación en respuestas HTTP.
type LocationResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Shelf     string    `json:"shelf"`
	Slot      string    `json:"slot"`
	Name      string    `json:"name,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLocationResponse convierte la entidad.
func NewLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{ID: l.ID, Code: l.Code, Shelf: l.Shelf, Slot: l.Slot, Name: l.Name, Active: l.Active, CreatedAt: l.CreatedAt}
}
