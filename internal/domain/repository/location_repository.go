package repository

import (
	"context"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para ubicaciones (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// FirstActive devuelve la ubicación activa por defecto (la de menor código) o nil.
	FirstActive(ctx context.Context) (*entity.Location, error)
	ListActive(ctx context.Context) ([]*entity.Location, error)
}
