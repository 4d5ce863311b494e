package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	dominv "github.com/jhoicas/farmacia-lotes/internal/domain/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// ReconcileConfig parámetros de conciliación.
type ReconcileConfig struct {
	ExpiryWarning time.Duration // ventana de "próximo a vencer"
	// Strict iguala el stock cacheado a la suma de lotes. En false el caché solo sube.
	Strict bool
}

// StockReconciler recalcula el stock cacheado y la etiqueta de estado de un producto a partir de sus lotes.
type StockReconciler struct {
	tx    TxRunner
	cache StockCache
	cfg   ReconcileConfig
	log   *logger.Logger
	now   func() time.Time
}

// NewStockReconciler construye el conciliador. cache y log pueden ser nil.
func NewStockReconciler(tx TxRunner, cache StockCache, cfg ReconcileConfig, log *logger.Logger) *StockReconciler {
	if cache == nil {
		cache = NoopStockCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.ExpiryWarning <= 0 {
		cfg.ExpiryWarning = dominv.DefaultExpiryWarning
	}
	return &StockReconciler{tx: tx, cache: cache, cfg: cfg, log: log, now: time.Now}
}

// Reconcile concilia un producto en su propia transacción y publica el resultado en la caché.
func (r *StockReconciler) Reconcile(ctx context.Context, productID string) (*entity.StockSnapshot, error) {
	var snap *entity.StockSnapshot
	err := r.tx.Run(ctx, func(lotRepo repository.LotRepository, _ repository.MovementRepository, productRepo repository.ProductRepository) error {
		var err error
		snap, err = r.ReconcileInTx(ctx, lotRepo, productRepo, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.publish(ctx, snap)
	return snap, nil
}

// ReconcileInTx concilia usando repos ya atados a una transacción abierta.
// Suma los lotes con existencias (vencidos incluidos, retirados no) y escribe stock y estado en el producto.
func (r *StockReconciler) ReconcileInTx(ctx context.Context, lotRepo repository.LotRepository, productRepo repository.ProductRepository, productID string) (*entity.StockSnapshot, error) {
	return r.reconcileAt(ctx, lotRepo, productRepo, productID, r.now())
}

func (r *StockReconciler) reconcileAt(ctx context.Context, lotRepo repository.LotRepository, productRepo repository.ProductRepository, productID string, now time.Time) (*entity.StockSnapshot, error) {
	product, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	lots, err := lotRepo.ActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	lotStock := 0
	for _, l := range lots {
		lotStock += l.Quantity
	}
	stock := lotStock
	if !r.cfg.Strict && product.StockActual > stock {
		stock = product.StockActual
	}

	status := dominv.ComputeStatus(stock, product.MinStock, lots, now, r.cfg.ExpiryWarning)
	if err := productRepo.UpdateStockCache(ctx, productID, stock, status); err != nil {
		return nil, err
	}
	return &entity.StockSnapshot{
		ProductID:      productID,
		Stock:          stock,
		LotStock:       lotStock,
		Status:         status,
		EarliestExpiry: dominv.EarliestExpiry(lots),
		ComputedAt:     now,
	}, nil
}

// Snapshot devuelve la última conciliación cacheada o concilia si no hay caché.
func (r *StockReconciler) Snapshot(ctx context.Context, productID string) (*entity.StockSnapshot, error) {
	snap, ok, err := r.cache.Get(ctx, productID)
	if err != nil {
		r.log.ForProduct(productID).Warn().Err(err).Msg("caché de existencias no disponible")
	}
	if ok {
		return snap, nil
	}
	return r.Reconcile(ctx, productID)
}

// publish escribe en caché solo después del commit; un fallo de caché no invalida la operación.
func (r *StockReconciler) publish(ctx context.Context, snap *entity.StockSnapshot) {
	if snap == nil {
		return
	}
	if err := r.cache.Set(ctx, snap); err != nil {
		r.log.ForProduct(snap.ProductID).Warn().Err(err).Msg("no se pudo publicar la conciliación en caché")
	}
}
