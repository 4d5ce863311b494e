package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	dominv "github.com/jhoicas/farmacia-lotes/internal/domain/inventory"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
	"github.com/jhoicas/farmacia-lotes/pkg/logger"
)

// AllocationEngine reparte ventas entre lotes en orden FEFO y registra cada cambio de cantidad
// en el libro de movimientos dentro de una única transacción (lotes + movimientos + conciliación).
type AllocationEngine struct {
	txRunner    TxRunner
	lotRepo     repository.LotRepository
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	locations   LocationResolver
	reconciler  *StockReconciler
	metrics     Metrics
	log         *logger.Logger
	now         func() time.Time
}

// EngineOption configura dependencias opcionales del motor.
type EngineOption func(*AllocationEngine)

// WithMetrics registra contadores de negocio.
func WithMetrics(m Metrics) EngineOption {
	return func(e *AllocationEngine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithLogger asigna el logger del motor.
func WithLogger(l *logger.Logger) EngineOption {
	return func(e *AllocationEngine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock reemplaza el reloj (pruebas de vencimiento).
func WithClock(now func() time.Time) EngineOption {
	return func(e *AllocationEngine) {
		if now != nil {
			e.now = now
			if e.reconciler != nil {
				e.reconciler.now = now
			}
		}
	}
}

// NewAllocationEngine construye el motor. Los repos sin transacción se usan solo para lecturas.
func NewAllocationEngine(
	txRunner TxRunner,
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	locations LocationResolver,
	reconciler *StockReconciler,
	opts ...EngineOption,
) *AllocationEngine {
	e := &AllocationEngine{
		txRunner:    txRunner,
		lotRepo:     lotRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
		locations:   locations,
		reconciler:  reconciler,
		metrics:     NoopMetrics{},
		log:         logger.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CommitInput datos de auditoría de una confirmación.
// Reason admite los marcadores {lot} y {qty}, que se reemplazan por línea.
type CommitInput struct {
	Type    entity.MovementType // sale (por defecto) o adjustment
	ActorID string
	Reason  string
}

// PlanAllocation calcula el reparto FEFO de qty unidades sin modificar nada.
// Dos llamadas sobre el mismo estado devuelven el mismo plan.
func (e *AllocationEngine) PlanAllocation(ctx context.Context, productID string, qty int) (*entity.AllocationPlan, error) {
	if productID == "" || !entity.QuantityInRange(qty) {
		return nil, fmt.Errorf("cantidad %d: %w", qty, domain.ErrValidation)
	}
	product, err := e.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	lots, err := e.lotRepo.ActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return dominv.BuildPlan(productID, qty, lots, product.SalePrice, e.now()), nil
}

// CommitAllocation aplica el plan: por cada línea descuenta del lote con control optimista
// (cantidad esperada), registra un movimiento y al final concilia el producto. Todo o nada.
// Si algún lote cambió desde la planificación devuelve domain.ErrAllocationConflict.
func (e *AllocationEngine) CommitAllocation(ctx context.Context, plan *entity.AllocationPlan, in CommitInput) ([]entity.CommittedLine, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan vacío: %w", domain.ErrValidation)
	}
	if plan.Shortfall > 0 {
		return nil, fmt.Errorf("faltan %d de %d unidades: %w", plan.Shortfall, plan.Requested, domain.ErrInsufficientStock)
	}
	if len(plan.Lines) == 0 {
		return nil, fmt.Errorf("plan sin líneas: %w", domain.ErrValidation)
	}
	movType := in.Type
	if movType == "" {
		movType = entity.MovementSale
	}
	if movType != entity.MovementSale && movType != entity.MovementAdjustment {
		return nil, fmt.Errorf("tipo %q no válido para asignación: %w", movType, domain.ErrValidation)
	}

	now := e.now()
	var committed []entity.CommittedLine
	var snap *entity.StockSnapshot
	err := e.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		committed = make([]entity.CommittedLine, 0, len(plan.Lines))
		units := 0
		for _, line := range plan.Lines {
			lot, err := lotRepo.ApplyDelta(ctx, line.LotID, -line.Quantity, line.ExpectedBefore)
			if err != nil {
				if errors.Is(err, domain.ErrConcurrentModification) || errors.Is(err, domain.ErrInsufficientQuantity) {
					return fmt.Errorf("%w: lote %s: %w", domain.ErrAllocationConflict, line.LotCode, err)
				}
				return err
			}
			// Vencido o retirado entre la planificación y la confirmación.
			if movType == entity.MovementSale && lot.State.Terminal() {
				return fmt.Errorf("%w: lote %s en estado %s: %w", domain.ErrAllocationConflict, line.LotCode, lot.State, domain.ErrConcurrentModification)
			}

			price := line.UnitPrice
			mov := &entity.Movement{
				ID:             uuid.New().String(),
				LotID:          lot.ID,
				ProductID:      plan.ProductID,
				Type:           movType,
				Delta:          -line.Quantity,
				QuantityBefore: line.ExpectedBefore,
				QuantityAfter:  lot.Quantity,
				UnitPrice:      &price,
				Reason:         renderReason(in.Reason, line.LotCode, line.Quantity),
				ActorID:        in.ActorID,
				CreatedAt:      now,
			}
			if err := movRepo.Record(ctx, mov); err != nil {
				return err
			}
			committed = append(committed, entity.CommittedLine{
				LotID:      lot.ID,
				LotCode:    line.LotCode,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				ExpiryDate: line.ExpiryDate,
				MovementID: mov.ID,
			})
			units += line.Quantity
		}
		if err := productRepo.AdjustCachedStock(ctx, plan.ProductID, -units); err != nil {
			return err
		}
		var err error
		snap, err = e.reconciler.ReconcileInTx(ctx, lotRepo, productRepo, plan.ProductID)
		return err
	})
	log := e.log.ForProduct(plan.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrAllocationConflict) {
			e.metrics.AllocationConflict()
			log.Warn().Err(err).Msg("conflicto al confirmar asignación")
		}
		return nil, err
	}

	e.reconciler.publish(ctx, snap)
	e.metrics.AllocationCommitted(movType, plan.Satisfied)
	log.Debug().
		Int("units", plan.Satisfied).
		Int("lots", len(committed)).
		Str("status", string(snap.Status)).
		Msg("asignación confirmada")
	return committed, nil
}

// Allocate planifica y confirma. Ante un conflicto vuelve a planificar una sola vez con el estado nuevo.
func (e *AllocationEngine) Allocate(ctx context.Context, productID string, qty int, in CommitInput) (*entity.AllocationPlan, []entity.CommittedLine, error) {
	plan, err := e.PlanAllocation(ctx, productID, qty)
	if err != nil {
		return nil, nil, err
	}
	lines, err := e.CommitAllocation(ctx, plan, in)
	if err == nil || !errors.Is(err, domain.ErrAllocationConflict) {
		return plan, lines, err
	}

	plan, err = e.PlanAllocation(ctx, productID, qty)
	if err != nil {
		return nil, nil, err
	}
	lines, err = e.CommitAllocation(ctx, plan, in)
	return plan, lines, err
}

// renderReason reemplaza {lot} y {qty} en el motivo.
func renderReason(tmpl, lotCode string, qty int) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	return strings.NewReplacer("{lot}", lotCode, "{qty}", strconv.Itoa(qty)).Replace(tmpl)
}
