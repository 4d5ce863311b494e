package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// SweepReason motivo registrado en los movimientos del barrido.
const SweepReason = "vencimiento automático"

// ExpirySweeper marca como vencidos los lotes cuya fecha ya pasó.
// La cantidad no se toca: la baja física se registra aparte con un ajuste.
type ExpirySweeper struct {
	txRunner   TxRunner
	lotRepo    repository.LotRepository
	reconciler *StockReconciler
	metrics    Metrics
	log        *logger.Logger
}

// NewExpirySweeper construye el barrido. metrics y log pueden ser nil.
func NewExpirySweeper(txRunner TxRunner, lotRepo repository.LotRepository, reconciler *StockReconciler, metrics Metrics, log *logger.Logger) *ExpirySweeper {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ExpirySweeper{txRunner: txRunner, lotRepo: lotRepo, reconciler: reconciler, metrics: metrics, log: log}
}

// SweepExpired pasa a expired cada lote con vencimiento < now, registra un movimiento expiry de delta 0
// y concilia su producto. Cada lote va en su propia transacción; un lote que otro proceso ya cambió se omite.
// Devuelve cuántos lotes se marcaron.
func (s *ExpirySweeper) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	lots, err := s.lotRepo.ListExpirable(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	var errs []error
	for _, candidate := range lots {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		snap, err := s.expire(ctx, candidate, now)
		if errors.Is(err, domain.ErrConcurrentModification) {
			continue
		}
		if err != nil {
			s.log.Error().Err(err).Str("lot", candidate.Code).Msg("no se pudo marcar el lote como vencido")
			errs = append(errs, fmt.Errorf("lote %s: %w", candidate.Code, err))
			continue
		}
		s.reconciler.publish(ctx, snap)
		count++
	}

	s.metrics.LotsExpired(count)
	s.log.Info().Int("candidates", len(lots)).Int("expired", count).Time("now", now).Msg("barrido de vencimientos")
	return count, errors.Join(errs...)
}

func (s *ExpirySweeper) expire(ctx context.Context, candidate *entity.Lot, now time.Time) (*entity.StockSnapshot, error) {
	var snap *entity.StockSnapshot
	err := s.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		lot, err := lotRepo.TransitionState(ctx, candidate.ID, entity.LotStateExpired,
			entity.LotStateActive, entity.LotStateDepleted)
		if err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:             uuid.New().String(),
			LotID:          lot.ID,
			ProductID:      lot.ProductID,
			Type:           entity.MovementExpiry,
			Delta:          0,
			QuantityBefore: lot.Quantity,
			QuantityAfter:  lot.Quantity,
			Reason:         SweepReason,
			CreatedAt:      now,
		}
		if err := movRepo.Record(ctx, mov); err != nil {
			return err
		}
		snap, err = s.reconciler.reconcileAt(ctx, lotRepo, productRepo, lot.ProductID, now)
		return err
	})
	return snap, err
}
