package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

// LocationService registro de ubicaciones físicas (estante/casilla).
type LocationService struct {
	repo repository.LocationRepository
}

// NewLocationService construye el servicio.
func NewLocationService(repo repository.LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

// CreateLocationInput datos de una ubicación nueva. Code vacío = "<estante>-<casilla>".
type CreateLocationInput struct {
	Code  string
	Shelf string
	Slot  string
	Name  string
}

// Create registra una ubicación activa.
func (s *LocationService) Create(ctx context.Context, in CreateLocationInput) (*entity.Location, error) {
	shelf := strings.TrimSpace(in.Shelf)
	slot := strings.TrimSpace(in.Slot)
	if shelf == "" || slot == "" {
		return nil, fmt.Errorf("estante y casilla son obligatorios: %w", domain.ErrValidation)
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		code = strings.ToUpper(shelf + "-" + slot)
	}
	now := time.Now()
	loc := &entity.Location{
		ID:        uuid.New().String(),
		Code:      code,
		Shelf:     shelf,
		Slot:      slot,
		Name:      strings.TrimSpace(in.Name),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// ListActive ubicaciones activas ordenadas por código.
func (s *LocationService) ListActive(ctx context.Context) ([]*entity.Location, error) {
	return s.repo.ListActive(ctx)
}

// Get devuelve una ubicación o domain.ErrNotFound.
func (s *LocationService) Get(ctx context.Context, id string) (*entity.Location, error) {
	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	return loc, nil
}
