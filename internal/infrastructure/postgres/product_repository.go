package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// El catálogo lo administra otro módulo; aquí solo se leen precio y mínimo y se escribe el stock cacheado.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Upsert inserta o actualiza los datos de catálogo de un producto (semillas y pruebas).
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, sale_price, min_stock, stock_actual, stock_status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id)
		DO UPDATE SET sku = EXCLUDED.sku, name = EXCLUDED.name, sale_price = EXCLUDED.sale_price,
		              min_stock = EXCLUDED.min_stock, updated_at = now()`
	status := p.Status
	if status == "" {
		status = entity.StockStatusOutOfStock
	}
	_, err := r.q.Exec(ctx, query, p.ID, p.SKU, p.Name, p.SalePrice, p.MinStock, p.StockActual, string(status))
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, sale_price, min_stock, stock_actual, stock_status, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.SalePrice, &p.MinStock, &p.StockActual, &status, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.Status = entity.StockStatus(status)
	return &p, nil
}

// AdjustCachedStock suma delta al stock cacheado sin bajar de 0.
func (r *ProductRepo) AdjustCachedStock(ctx context.Context, productID string, delta int) error {
	query := `
		UPDATE products SET stock_actual = GREATEST(stock_actual + $2, 0), updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, productID, delta)
	if err != nil {
		return fmt.Errorf("adjust cached stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return nil
}

// UpdateStockCache escribe stock y etiqueta de estado.
func (r *ProductRepo) UpdateStockCache(ctx context.Context, productID string, stock int, status entity.StockStatus) error {
	query := `
		UPDATE products SET stock_actual = $2, stock_status = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, productID, stock, string(status))
	if err != nil {
		return fmt.Errorf("update stock cache: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return nil
}
