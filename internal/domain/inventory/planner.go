package inventory

import (
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BuildPlan recorre los lotes en orden FEFO tomando min(pendiente, lote.Quantity) de cada uno
// hasta cubrir qty o agotar lotes. No modifica los lotes recibidos.
// Los lotes vencidos o retirados no se ofrecen para la venta.
func BuildPlan(productID string, qty int, lots []*entity.Lot, defaultPrice decimal.Decimal, now time.Time) *entity.AllocationPlan {
	ordered := make([]*entity.Lot, len(lots))
	copy(ordered, lots)
	SortFEFO(ordered)

	plan := &entity.AllocationPlan{ProductID: productID, Requested: qty}
	remaining := qty
	for _, lot := range ordered {
		if remaining == 0 {
			break
		}
		if !lot.Sellable(now) {
			continue
		}
		take := min(remaining, lot.Quantity)
		plan.Lines = append(plan.Lines, entity.PlanLine{
			LotID:          lot.ID,
			LotCode:        lot.Code,
			Quantity:       take,
			UnitPrice:      lot.EffectivePrice(defaultPrice),
			ExpectedBefore: lot.Quantity,
			ExpiryDate:     lot.ExpiryDate,
		})
		remaining -= take
	}
	plan.Satisfied = qty - remaining
	plan.Shortfall = remaining
	return plan
}
