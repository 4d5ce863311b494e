package inventory

import (
	"context"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: lotes, movimientos y caché del producto se escriben juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// LocationResolver decide en qué ubicación se ancla un lote nuevo.
type LocationResolver interface {
	// Resolve valida locationID si viene informado; si está vacío devuelve la ubicación activa
	// por defecto o domain.ErrNoLocationAvailable.
	Resolve(ctx context.Context, locationID string) (string, error)
}

// StockCache guarda el último resultado de conciliación por producto.
type StockCache interface {
	Get(ctx context.Context, productID string) (*entity.StockSnapshot, bool, error)
	Set(ctx context.Context, snapshot *entity.StockSnapshot) error
}

// Metrics contadores de negocio del libro de lotes.
type Metrics interface {
	AllocationCommitted(movementType entity.MovementType, units int)
	AllocationConflict()
	StockReceived(units int)
	StockReturned(units int)
	LotsExpired(count int)
}

// NoopStockCache caché deshabilitada.
type NoopStockCache struct{}

func (NoopStockCache) Get(_ context.Context, _ string) (*entity.StockSnapshot, bool, error) {
	return nil, false, nil
}

func (NoopStockCache) Set(_ context.Context, _ *entity.StockSnapshot) error { return nil }

// NoopMetrics métricas deshabilitadas.
type NoopMetrics struct{}

func (NoopMetrics) AllocationCommitted(entity.MovementType, int) {}
func (NoopMetrics) AllocationConflict()                          {}
func (NoopMetrics) StockReceived(int)                            {}
func (NoopMetrics) StockReturned(int)                            {}
func (NoopMetrics) LotsExpired(int)                              {}
