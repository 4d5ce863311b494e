package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	dominv "github.com/jhoicas/farmacia-lotes/internal/domain/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes en memoria.
type LotRepo struct {
	store *Store
	tx    *dataset
}

func (r *LotRepo) Create(_ context.Context, lot *entity.Lot) error {
	return r.store.view(r.tx, func(d *dataset) error {
		if _, ok := d.lots[lot.ID]; ok {
			return fmt.Errorf("lote %s: %w", lot.ID, domain.ErrDuplicate)
		}
		for _, l := range d.lots {
			if l.ProductID == lot.ProductID && l.Code == lot.Code {
				return fmt.Errorf("lote %s: %w", lot.Code, domain.ErrDuplicate)
			}
		}
		d.lots[lot.ID] = cloneLot(lot)
		return nil
	})
}

func (r *LotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.store.view(r.tx, func(d *dataset) error {
		if l, ok := d.lots[id]; ok {
			out = cloneLot(l)
		}
		return nil
	})
	return out, err
}

func (r *LotRepo) ActiveByProduct(_ context.Context, productID string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.store.view(r.tx, func(d *dataset) error {
		for _, l := range d.lots {
			if l.ProductID == productID && l.Quantity > 0 && l.State != entity.LotStateWithdrawn {
				out = append(out, cloneLot(l))
			}
		}
		return nil
	})
	dominv.SortFEFO(out)
	return out, err
}

func (r *LotRepo) ApplyDelta(_ context.Context, lotID string, delta, expectedBefore int) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.store.view(r.tx, func(d *dataset) error {
		l, ok := d.lots[lotID]
		if !ok {
			return fmt.Errorf("lote %s: %w", lotID, domain.ErrNotFound)
		}
		if l.Quantity != expectedBefore {
			return fmt.Errorf("lote %s: esperado %d, actual %d: %w", l.Code, expectedBefore, l.Quantity, domain.ErrConcurrentModification)
		}
		// Comparaciones sin sumar: delta puede venir cerca de los límites de int.
		if delta < -l.Quantity {
			return fmt.Errorf("lote %s: %w", l.Code, domain.ErrInsufficientQuantity)
		}
		if delta > l.InitialQuantity-l.Quantity {
			return fmt.Errorf("lote %s: %w", l.Code, domain.ErrReturnExceedsOriginal)
		}
		l.SetQuantity(l.Quantity+delta, time.Now())
		out = cloneLot(l)
		return nil
	})
	return out, err
}

func (r *LotRepo) TransitionState(_ context.Context, lotID string, to entity.LotState, from ...entity.LotState) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.store.view(r.tx, func(d *dataset) error {
		l, ok := d.lots[lotID]
		if !ok {
			return fmt.Errorf("lote %s: %w", lotID, domain.ErrNotFound)
		}
		allowed := len(from) == 0
		for _, s := range from {
			if l.State == s {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("lote %s en estado %s: %w", l.Code, l.State, domain.ErrConcurrentModification)
		}
		l.State = to
		l.UpdatedAt = time.Now()
		out = cloneLot(l)
		return nil
	})
	return out, err
}

func (r *LotRepo) ListExpirable(_ context.Context, now time.Time) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.store.view(r.tx, func(d *dataset) error {
		for _, l := range d.lots {
			if l.ExpiredAt(now) && !l.State.Terminal() {
				out = append(out, cloneLot(l))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return dominv.CompareFEFO(out[i], out[j]) < 0 })
	return out, err
}
