package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanLine una línea del plan: cuánto tomar de un lote y a qué precio.
// ExpectedBefore es la cantidad del lote al momento de planificar (control optimista).
type PlanLine struct {
	LotID          string
	LotCode        string
	Quantity       int
	UnitPrice      decimal.Decimal
	ExpectedBefore int
	ExpiryDate     *time.Time
}

// AllocationPlan propuesta de reparto FEFO de una cantidad entre lotes. No se persiste.
type AllocationPlan struct {
	ProductID string
	Requested int
	Lines     []PlanLine
	Satisfied int
	Shortfall int
}

// Complete indica si el plan cubre toda la cantidad solicitada.
func (p *AllocationPlan) Complete() bool {
	return p.Shortfall == 0 && p.Satisfied == p.Requested
}

// Total importe del plan (suma de cantidad * precio unitario).
func (p *AllocationPlan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// CommittedLine lote efectivamente consumido; es lo que el módulo de ventas guarda como detalle.
type CommittedLine struct {
	LotID      string
	LotCode    string
	Quantity   int
	UnitPrice  decimal.Decimal
	ExpiryDate *time.Time
	MovementID string
}
