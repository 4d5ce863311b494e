package inventory

import (
	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// WeightedPrice promedio ponderado de dos tramos de unidades (servicio de dominio).
// Precio = ((CantA * PrecioA) + (CantB * PrecioB)) / (CantA + CantB)
func WeightedPrice(qtyA int, priceA decimal.Decimal, qtyB int, priceB decimal.Decimal) decimal.Decimal {
	sum := qtyA + qtyB
	if sum <= 0 {
		return decimal.Zero
	}
	num := priceA.Mul(decimal.NewFromInt(int64(qtyA))).Add(priceB.Mul(decimal.NewFromInt(int64(qtyB))))
	return num.Div(decimal.NewFromInt(int64(sum)))
}

// AverageUnitPrice precio unitario promedio de un plan, redondeado a 2 decimales.
func AverageUnitPrice(plan *entity.AllocationPlan) decimal.Decimal {
	qty := 0
	avg := decimal.Zero
	for _, l := range plan.Lines {
		avg = WeightedPrice(qty, avg, l.Quantity, l.UnitPrice)
		qty += l.Quantity
	}
	return avg.Round(2)
}
