package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos en memoria (solo inserción).
type MovementRepo struct {
	store *Store
	tx    *dataset
}

func (r *MovementRepo) Record(_ context.Context, m *entity.Movement) error {
	if !m.Consistent() {
		return fmt.Errorf("movimiento %s inconsistente (%d%+d=%d): %w", m.Type, m.QuantityBefore, m.Delta, m.QuantityAfter, domain.ErrValidation)
	}
	return r.store.view(r.tx, func(d *dataset) error {
		if r.store.failMovements != nil {
			return fmt.Errorf("registrar movimiento: %w", r.store.failMovements)
		}
		c := *m
		d.movements = append(d.movements, &c)
		return nil
	})
}

func (r *MovementRepo) ListByLot(_ context.Context, lotID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.store.view(r.tx, func(d *dataset) error {
		for _, m := range d.movements {
			if m.LotID == lotID {
				c := *m
				out = append(out, &c)
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.store.view(r.tx, func(d *dataset) error {
		skipped := 0
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if m.ProductID != productID {
				continue
			}
			if from != nil && m.CreatedAt.Before(*from) {
				continue
			}
			if to != nil && m.CreatedAt.After(*to) {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && len(out) >= limit {
				break
			}
			c := *m
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	err := r.store.view(r.tx, func(d *dataset) error {
		for _, m := range d.movements {
			if m.ProductID == productID {
				n++
			}
		}
		return nil
	})
	return n, err
}
