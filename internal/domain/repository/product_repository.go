package repository

import (
	"context"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

// ProductRepository puerto hacia el catálogo de productos (colaborador externo).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// AdjustCachedStock suma delta al stock cacheado sin bajar de 0.
	AdjustCachedStock(ctx context.Context, productID string, delta int) error
	// UpdateStockCache escribe el stock cacheado y la etiqueta de estado.
	UpdateStockCache(ctx context.Context, productID string, stock int, status entity.StockStatus) error
}
