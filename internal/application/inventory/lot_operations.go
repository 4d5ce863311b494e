package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/farmacia-lotes/internal/domain"
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReceiveStockInput entrada de mercancía: crea un lote nuevo.
// LocationID vacío = ubicación activa por defecto. EntryDate nil = ahora.
type ReceiveStockInput struct {
	ProductID     string
	Quantity      int
	Code          string
	LocationID    string
	ExpiryDate    *time.Time
	EntryDate     *time.Time
	PurchasePrice decimal.Decimal
	SalePrice     *decimal.Decimal
	SupplierID    *string
	Notes         string
	ActorID       string
	Reason        string
}

// ReturnInput devolución de unidades a un lote existente.
type ReturnInput struct {
	LotID    string
	Quantity int
	Reason   string
	ActorID  string
}

// AdjustInput ajuste manual con signo (conteo físico, baja de vencidos).
type AdjustInput struct {
	LotID   string
	Delta   int
	Reason  string
	ActorID string
}

// ReceiveStock crea el lote (cantidad = inicial, activo), registra la entrada y concilia el producto.
func (e *AllocationEngine) ReceiveStock(ctx context.Context, in ReceiveStockInput) (*entity.Lot, error) {
	if in.ProductID == "" || !entity.QuantityInRange(in.Quantity) {
		return nil, fmt.Errorf("cantidad %d: %w", in.Quantity, domain.ErrValidation)
	}
	if in.PurchasePrice.IsNegative() || (in.SalePrice != nil && in.SalePrice.IsNegative()) {
		return nil, fmt.Errorf("precio negativo: %w", domain.ErrValidation)
	}
	now := e.now()
	if in.ExpiryDate != nil && in.ExpiryDate.Before(now) {
		return nil, fmt.Errorf("el lote ya está vencido: %w", domain.ErrValidation)
	}
	product, err := e.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
	}
	locationID, err := e.locations.Resolve(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	lot := newLot(in, locationID, now)
	var snap *entity.StockSnapshot
	err = e.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := lotRepo.Create(ctx, lot); err != nil {
			return err
		}
		price := lot.PurchasePrice
		mov := &entity.Movement{
			ID:             uuid.New().String(),
			LotID:          lot.ID,
			ProductID:      lot.ProductID,
			Type:           entity.MovementReceipt,
			Delta:          lot.Quantity,
			QuantityBefore: 0,
			QuantityAfter:  lot.Quantity,
			UnitPrice:      &price,
			Reason:         renderReason(in.Reason, lot.Code, lot.Quantity),
			ActorID:        in.ActorID,
			CreatedAt:      now,
		}
		if err := movRepo.Record(ctx, mov); err != nil {
			return err
		}
		if err := productRepo.AdjustCachedStock(ctx, lot.ProductID, lot.Quantity); err != nil {
			return err
		}
		var err error
		snap, err = e.reconciler.ReconcileInTx(ctx, lotRepo, productRepo, lot.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.reconciler.publish(ctx, snap)
	e.metrics.StockReceived(lot.Quantity)
	e.log.Info().Str("lot", lot.Code).Str("product_id", lot.ProductID).Int("quantity", lot.Quantity).Msg("lote recibido")
	return lot, nil
}

func newLot(in ReceiveStockInput, locationID string, now time.Time) *entity.Lot {
	id := uuid.New().String()
	code := strings.TrimSpace(in.Code)
	if code == "" {
		code = "L-" + strings.ToUpper(id[:8])
	}
	entry := now
	if in.EntryDate != nil {
		entry = *in.EntryDate
	}
	loc := locationID
	return &entity.Lot{
		ID:              id,
		Code:            code,
		ProductID:       in.ProductID,
		LocationID:      &loc,
		Quantity:        in.Quantity,
		InitialQuantity: in.Quantity,
		PurchasePrice:   in.PurchasePrice,
		SalePrice:       in.SalePrice,
		EntryDate:       entry,
		ExpiryDate:      in.ExpiryDate,
		SupplierID:      in.SupplierID,
		Notes:           in.Notes,
		State:           entity.LotStateActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// ReturnToLot suma unidades devueltas al lote sin superar su cantidad inicial.
// Lotes vencidos o retirados no aceptan devoluciones (domain.ErrLotNotReturnable).
func (e *AllocationEngine) ReturnToLot(ctx context.Context, in ReturnInput) (*entity.Lot, error) {
	if in.LotID == "" || in.Quantity <= 0 {
		return nil, fmt.Errorf("cantidad %d: %w", in.Quantity, domain.ErrValidation)
	}
	now := e.now()
	var updated *entity.Lot
	var snap *entity.StockSnapshot
	err := e.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		lot, err := getLot(ctx, lotRepo, in.LotID)
		if err != nil {
			return err
		}
		if lot.State.Terminal() || lot.ExpiredAt(now) {
			return fmt.Errorf("lote %s: %w", lot.Code, domain.ErrLotNotReturnable)
		}
		if in.Quantity > lot.InitialQuantity-lot.Quantity {
			return fmt.Errorf("lote %s: %d + %d > %d: %w", lot.Code, lot.Quantity, in.Quantity, lot.InitialQuantity, domain.ErrReturnExceedsOriginal)
		}
		product, err := productRepo.GetByID(ctx, lot.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", lot.ProductID, domain.ErrNotFound)
		}
		updated, err = lotRepo.ApplyDelta(ctx, lot.ID, in.Quantity, lot.Quantity)
		if err != nil {
			return err
		}
		price := lot.EffectivePrice(product.SalePrice)
		mov := &entity.Movement{
			ID:             uuid.New().String(),
			LotID:          lot.ID,
			ProductID:      lot.ProductID,
			Type:           entity.MovementReturn,
			Delta:          in.Quantity,
			QuantityBefore: lot.Quantity,
			QuantityAfter:  updated.Quantity,
			UnitPrice:      &price,
			Reason:         renderReason(in.Reason, lot.Code, in.Quantity),
			ActorID:        in.ActorID,
			CreatedAt:      now,
		}
		if err := movRepo.Record(ctx, mov); err != nil {
			return err
		}
		if err := productRepo.AdjustCachedStock(ctx, lot.ProductID, in.Quantity); err != nil {
			return err
		}
		snap, err = e.reconciler.ReconcileInTx(ctx, lotRepo, productRepo, lot.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.reconciler.publish(ctx, snap)
	e.metrics.StockReturned(in.Quantity)
	return updated, nil
}

// AdjustLot aplica un delta con signo sobre la cantidad actual del lote.
// El resultado queda entre 0 y la cantidad inicial; un lote vencido o retirado solo admite bajas.
func (e *AllocationEngine) AdjustLot(ctx context.Context, in AdjustInput) (*entity.Lot, error) {
	if in.LotID == "" || in.Delta == 0 {
		return nil, fmt.Errorf("delta %d: %w", in.Delta, domain.ErrValidation)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("el ajuste requiere motivo: %w", domain.ErrValidation)
	}
	now := e.now()
	var updated *entity.Lot
	var snap *entity.StockSnapshot
	err := e.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		lot, err := getLot(ctx, lotRepo, in.LotID)
		if err != nil {
			return err
		}
		if in.Delta > 0 && lot.State.Terminal() {
			return fmt.Errorf("lote %s en estado %s: %w", lot.Code, lot.State, domain.ErrValidation)
		}
		updated, err = lotRepo.ApplyDelta(ctx, lot.ID, in.Delta, lot.Quantity)
		if err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:             uuid.New().String(),
			LotID:          lot.ID,
			ProductID:      lot.ProductID,
			Type:           entity.MovementAdjustment,
			Delta:          in.Delta,
			QuantityBefore: lot.Quantity,
			QuantityAfter:  updated.Quantity,
			Reason:         renderReason(in.Reason, lot.Code, in.Delta),
			ActorID:        in.ActorID,
			CreatedAt:      now,
		}
		if err := movRepo.Record(ctx, mov); err != nil {
			return err
		}
		// Los retirados ya no cuentan en el stock del producto.
		if lot.State != entity.LotStateWithdrawn {
			if err := productRepo.AdjustCachedStock(ctx, lot.ProductID, in.Delta); err != nil {
				return err
			}
		}
		snap, err = e.reconciler.ReconcileInTx(ctx, lotRepo, productRepo, lot.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.reconciler.publish(ctx, snap)
	e.log.Info().Str("lot", updated.Code).Int("delta", in.Delta).Str("actor", in.ActorID).Msg("lote ajustado")
	return updated, nil
}

// WithdrawLot retira un lote (recall): deja de venderse y de contar en el stock.
// La cantidad no cambia; se registra un ajuste de delta 0.
func (e *AllocationEngine) WithdrawLot(ctx context.Context, lotID, reason, actorID string) (*entity.Lot, error) {
	if lotID == "" {
		return nil, fmt.Errorf("lote requerido: %w", domain.ErrValidation)
	}
	now := e.now()
	var updated *entity.Lot
	var snap *entity.StockSnapshot
	err := e.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		lot, err := getLot(ctx, lotRepo, lotID)
		if err != nil {
			return err
		}
		if lot.State == entity.LotStateWithdrawn {
			return fmt.Errorf("lote %s ya retirado: %w", lot.Code, domain.ErrValidation)
		}
		updated, err = lotRepo.TransitionState(ctx, lot.ID, entity.LotStateWithdrawn,
			entity.LotStateActive, entity.LotStateDepleted, entity.LotStateExpired)
		if err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:             uuid.New().String(),
			LotID:          lot.ID,
			ProductID:      lot.ProductID,
			Type:           entity.MovementAdjustment,
			Delta:          0,
			QuantityBefore: updated.Quantity,
			QuantityAfter:  updated.Quantity,
			Reason:         renderReason(reason, lot.Code, updated.Quantity),
			ActorID:        actorID,
			CreatedAt:      now,
		}
		if err := movRepo.Record(ctx, mov); err != nil {
			return err
		}
		if err := productRepo.AdjustCachedStock(ctx, lot.ProductID, -updated.Quantity); err != nil {
			return err
		}
		snap, err = e.reconciler.ReconcileInTx(ctx, lotRepo, productRepo, lot.ProductID)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.reconciler.publish(ctx, snap)
	e.log.Warn().Str("lot", updated.Code).Str("actor", actorID).Msg("lote retirado")
	return updated, nil
}

func getLot(ctx context.Context, lotRepo repository.LotRepository, id string) (*entity.Lot, error) {
	lot, err := lotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}
	return lot, nil
}
