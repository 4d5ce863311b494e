package repository

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

// LotRepository define el puerto de persistencia de lotes.
// Las implementaciones deben aceptar ejecución dentro de una transacción (ver TxRunner).
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	// GetByID devuelve nil, nil si el lote no existe.
	GetByID(ctx context.Context, id string) (*entity.Lot, error)

	// ActiveByProduct lotes con cantidad > 0 y estado distinto de withdrawn, en orden FEFO
	// (vencimiento asc con nulos al final, entrada asc, id asc).
	ActiveByProduct(ctx context.Context, productID string) ([]*entity.Lot, error)

	// ApplyDelta suma delta a la cantidad solo si la cantidad actual es expectedBefore.
	// Errores: domain.ErrNotFound, domain.ErrConcurrentModification (cantidad distinta),
	// domain.ErrInsufficientQuantity (< 0), domain.ErrReturnExceedsOriginal (> inicial).
	// Mantiene quantity_sold y el estado (depleted/active) en la misma escritura.
	ApplyDelta(ctx context.Context, lotID string, delta, expectedBefore int) (*entity.Lot, error)

	// TransitionState cambia el estado si el actual está en from; si no, domain.ErrConcurrentModification.
	TransitionState(ctx context.Context, lotID string, to entity.LotState, from ...entity.LotState) (*entity.Lot, error)

	// ListExpirable lotes con vencimiento < now y estado distinto de expired/withdrawn.
	ListExpirable(ctx context.Context, now time.Time) ([]*entity.Lot, error)
}
