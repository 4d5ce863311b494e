package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxLotQuantity tope de unidades de un lote y de cualquier cantidad pedida (columnas INTEGER).
const MaxLotQuantity = math.MaxInt32

// QuantityInRange indica si qty es una cantidad positiva representable.
func QuantityInRange(qty int) bool {
	return qty > 0 && qty <= MaxLotQuantity
}

// LotState estado del ciclo de vida de un lote.
type LotState string

const (
	LotStateActive    LotState = "active"    // con existencias
	LotStateDepleted  LotState = "depleted"  // cantidad en 0
	LotStateExpired   LotState = "expired"   // fecha de vencimiento superada
	LotStateWithdrawn LotState = "withdrawn" // retirado (recall, baja sanitaria)
)

// Valid indica si el estado es uno de los conocidos.
func (s LotState) Valid() bool {
	switch s {
	case LotStateActive, LotStateDepleted, LotStateExpired, LotStateWithdrawn:
		return true
	}
	return false
}

// Lot representa un lote físico de un producto anclado a una ubicación.
// Nunca se borra: al llegar a 0 queda depleted.
// Invariantes: 0 <= Quantity <= InitialQuantity y QuantitySold + Quantity = InitialQuantity.
type Lot struct {
	ID              string
	Code            string // código legible impreso en la etiqueta del lote
	ProductID       string
	LocationID      *string // nil = lote heredado sin ubicar
	Quantity        int
	InitialQuantity int
	QuantitySold    int
	PurchasePrice   decimal.Decimal  // costo unitario de compra
	SalePrice       *decimal.Decimal // nil = usar el precio por defecto del producto
	EntryDate       time.Time
	ExpiryDate      *time.Time
	SupplierID      *string
	Notes           string
	State           LotState
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ExpiredAt indica si la fecha de vencimiento es anterior a now.
func (l *Lot) ExpiredAt(now time.Time) bool {
	return l.ExpiryDate != nil && l.ExpiryDate.Before(now)
}

// Sellable indica si el lote puede entrar en un plan de venta.
func (l *Lot) Sellable(now time.Time) bool {
	if l.Quantity <= 0 {
		return false
	}
	if l.State == LotStateExpired || l.State == LotStateWithdrawn {
		return false
	}
	return !l.ExpiredAt(now)
}

// Terminal indica si el estado tiene prioridad sobre active/depleted.
func (s LotState) Terminal() bool {
	return s == LotStateExpired || s == LotStateWithdrawn
}

// StateForQuantity calcula el estado tras un cambio de cantidad.
// expired y withdrawn tienen prioridad; si no, 0 => depleted y > 0 => active.
func StateForQuantity(current LotState, quantity int) LotState {
	if current.Terminal() {
		return current
	}
	if quantity == 0 {
		return LotStateDepleted
	}
	return LotStateActive
}

// SetQuantity aplica una nueva cantidad manteniendo QuantitySold y State coherentes.
func (l *Lot) SetQuantity(quantity int, now time.Time) {
	l.Quantity = quantity
	l.QuantitySold = l.InitialQuantity - quantity
	l.State = StateForQuantity(l.State, quantity)
	l.UpdatedAt = now
}

// EffectivePrice precio unitario de venta del lote o el valor por defecto del producto.
func (l *Lot) EffectivePrice(productDefault decimal.Decimal) decimal.Decimal {
	if l.SalePrice != nil {
		return *l.SalePrice
	}
	return productDefault
}
