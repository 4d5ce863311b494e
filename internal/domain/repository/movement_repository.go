package repository

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

// MovementRepository libro de movimientos: solo inserción y consulta.
// No existen operaciones de actualización ni borrado.
type MovementRepository interface {
	Record(ctx context.Context, movement *entity.Movement) error
	ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
}
