package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

// MovementFilter rango y paginación de la consulta de movimientos.
type MovementFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// GetLot devuelve un lote o domain.ErrNotFound.
func (e *AllocationEngine) GetLot(ctx context.Context, lotID string) (*entity.Lot, error) {
	return getLot(ctx, e.lotRepo, lotID)
}

// ActiveLots lotes con existencias del producto en orden FEFO.
func (e *AllocationEngine) ActiveLots(ctx context.Context, productID string) ([]*entity.Lot, error) {
	if productID == "" {
		return nil, fmt.Errorf("producto requerido: %w", domain.ErrValidation)
	}
	return e.lotRepo.ActiveByProduct(ctx, productID)
}

// MovementsForLot historial completo de un lote, del más antiguo al más reciente.
func (e *AllocationEngine) MovementsForLot(ctx context.Context, lotID string) ([]*entity.Movement, error) {
	if _, err := getLot(ctx, e.lotRepo, lotID); err != nil {
		return nil, err
	}
	return e.movRepo.ListByLot(ctx, lotID)
}

// MovementsForProduct movimientos del producto (más recientes primero) y el total del producto sin rango ni paginación.
func (e *AllocationEngine) MovementsForProduct(ctx context.Context, productID string, f MovementFilter) ([]*entity.Movement, int, error) {
	if productID == "" {
		return nil, 0, fmt.Errorf("producto requerido: %w", domain.ErrValidation)
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	items, err := e.movRepo.ListByProduct(ctx, productID, f.From, f.To, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := e.movRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
