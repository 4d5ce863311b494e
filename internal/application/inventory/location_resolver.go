package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ LocationResolver = (*DefaultLocationResolver)(nil)

// DefaultLocationResolver resuelve ubicaciones contra el registro de ubicaciones.
type DefaultLocationResolver struct {
	repo repository.LocationRepository
}

// NewDefaultLocationResolver construye el resolver.
func NewDefaultLocationResolver(repo repository.LocationRepository) *DefaultLocationResolver {
	return &DefaultLocationResolver{repo: repo}
}

// Resolve devuelve locationID si existe y está activa; si viene vacío usa la primera ubicación activa.
func (r *DefaultLocationResolver) Resolve(ctx context.Context, locationID string) (string, error) {
	if locationID != "" {
		loc, err := r.repo.GetByID(ctx, locationID)
		if err != nil {
			return "", err
		}
		if loc == nil {
			return "", fmt.Errorf("ubicación %s: %w", locationID, domain.ErrNotFound)
		}
		if !loc.Active {
			return "", fmt.Errorf("ubicación %s inactiva: %w", loc.Code, domain.ErrValidation)
		}
		return loc.ID, nil
	}
	loc, err := r.repo.FirstActive(ctx)
	if err != nil {
		return "", err
	}
	if loc == nil {
		return "", domain.ErrNoLocationAvailable
	}
	return loc.ID, nil
}
