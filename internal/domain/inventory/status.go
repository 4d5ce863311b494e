package inventory

import (
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
)

// DefaultExpiryWarning ventana por defecto para "próximo a vencer".
const DefaultExpiryWarning = 30 * 24 * time.Hour

// EarliestExpiry menor fecha de vencimiento entre lotes con existencias (nil si ninguno vence).
func EarliestExpiry(lots []*entity.Lot) *time.Time {
	var earliest *time.Time
	for _, l := range lots {
		if l.Quantity <= 0 || l.ExpiryDate == nil || l.State == entity.LotStateWithdrawn {
			continue
		}
		if earliest == nil || l.ExpiryDate.Before(*earliest) {
			e := *l.ExpiryDate
			earliest = &e
		}
	}
	return earliest
}

// ComputeStatus calcula la etiqueta de existencias. Prioridad:
// out_of_stock > expired > expiring_soon > low_stock > normal.
func ComputeStatus(stock, minStock int, lots []*entity.Lot, now time.Time, warning time.Duration) entity.StockStatus {
	if stock <= 0 {
		return entity.StockStatusOutOfStock
	}
	earliest := EarliestExpiry(lots)
	if earliest != nil && earliest.Before(now) {
		return entity.StockStatusExpired
	}
	if earliest != nil && !earliest.After(now.Add(warning)) {
		return entity.StockStatusExpiringSoon
	}
	if stock <= minStock {
		return entity.StockStatusLowStock
	}
	return entity.StockStatusNormal
}
