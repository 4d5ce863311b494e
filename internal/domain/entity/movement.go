package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del libro de lotes.
type MovementType string

const (
	MovementReceipt    MovementType = "receipt"    // entrada de mercancía (+)
	MovementSale       MovementType = "sale"       // venta (-)
	MovementAdjustment MovementType = "adjustment" // ajuste manual (+/-)
	MovementExpiry     MovementType = "expiry"     // marca de vencimiento (0 o -)
	MovementReturn     MovementType = "return"     // devolución de cliente (+)
)

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementReceipt, MovementSale, MovementAdjustment, MovementExpiry, MovementReturn:
		return true
	}
	return false
}

// AcceptsDelta valida el signo del delta según el tipo:
// venta y vencimiento nunca suman, entrada y devolución siempre suman, el ajuste admite ambos.
func (t MovementType) AcceptsDelta(delta int) bool {
	switch t {
	case MovementSale, MovementExpiry:
		return delta <= 0
	case MovementReceipt, MovementReturn:
		return delta > 0
	case MovementAdjustment:
		return true
	}
	return false
}

// Movement registro inmutable de un cambio de cantidad en un lote.
// QuantityAfter = QuantityBefore + Delta. Una vez escrito no se modifica ni se borra.
type Movement struct {
	ID             string
	LotID          string
	ProductID      string
	Type           MovementType
	Delta          int
	QuantityBefore int
	QuantityAfter  int
	UnitPrice      *decimal.Decimal
	Reason         string
	ActorID        string
	CreatedAt      time.Time
}

// Consistent verifica la aritmética y el signo del movimiento.
func (m *Movement) Consistent() bool {
	return m.QuantityAfter == m.QuantityBefore+m.Delta && m.Type.AcceptsDelta(m.Delta)
}
