package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	store *Store
	tx    *dataset
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.store.view(r.tx, func(d *dataset) error {
		if p, ok := d.products[id]; ok {
			c := *p
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) AdjustCachedStock(_ context.Context, productID string, delta int) error {
	return r.store.view(r.tx, func(d *dataset) error {
		p, ok := d.products[productID]
		if !ok {
			return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		p.StockActual = max(p.StockActual+delta, 0)
		p.UpdatedAt = time.Now()
		return nil
	})
}

func (r *ProductRepo) UpdateStockCache(_ context.Context, productID string, stock int, status entity.StockStatus) error {
	return r.store.view(r.tx, func(d *dataset) error {
		p, ok := d.products[productID]
		if !ok {
			return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		p.StockActual = stock
		p.Status = status
		p.UpdatedAt = time.Now()
		return nil
	})
}
