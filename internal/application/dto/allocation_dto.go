package dto

import (
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/jhoicas/farmacia-lotes/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// PlanRequest body para POST /api/allocations/plan.
type PlanRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0,max=2147483647"`
}

// AllocateRequest body para POST /api/allocations. Type vacío = sale.
type AllocateRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0,max=2147483647"`
	Type      string `json:"type" validate:"omitempty,oneof=sale adjustment"`
	Reason    string `json:"reason" validate:"max=200"`
}

// PlanLineResponse línea del plan.
type PlanLineResponse struct {
	LotID          string          `json:"lot_id"`
	LotCode        string          `json:"lot_code"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	ExpectedBefore int             `json:"expected_before"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
}

// PlanResponse plan de asignación FEFO.
type PlanResponse struct {
	ProductID        string             `json:"product_id"`
	Requested        int                `json:"requested"`
	Satisfied        int                `json:"satisfied"`
	Shortfall        int                `json:"shortfall"`
	Total            decimal.Decimal    `json:"total"`
	AverageUnitPrice decimal.Decimal    `json:"average_unit_price"`
	Lines            []PlanLineResponse `json:"lines"`
}

// NewPlanResponse convierte el plan.
func NewPlanResponse(p *entity.AllocationPlan) PlanResponse {
	lines := make([]PlanLineResponse, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, PlanLineResponse{
			LotID:          l.LotID,
			LotCode:        l.LotCode,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			ExpectedBefore: l.ExpectedBefore,
			ExpiryDate:     l.ExpiryDate,
		})
	}
	return PlanResponse{
		ProductID:        p.ProductID,
		Requested:        p.Requested,
		Satisfied:        p.Satisfied,
		Shortfall:        p.Shortfall,
		Total:            p.Total(),
		AverageUnitPrice: inventory.AverageUnitPrice(p),
		Lines:            lines,
	}
}

// CommittedLineResponse lote consumido por una venta.
type CommittedLineResponse struct {
	LotID      string          `json:"lot_id"`
	LotCode    string          `json:"lot_code"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	MovementID string          `json:"movement_id"`
}

// AllocationResponse resultado de POST /api/allocations.
type AllocationResponse struct {
	ProductID string                  `json:"product_id"`
	Quantity  int                     `json:"quantity"`
	Total     decimal.Decimal         `json:"total"`
	Lines     []CommittedLineResponse `json:"lines"`
}

// NewAllocationResponse convierte las líneas confirmadas.
func NewAllocationResponse(productID string, lines []entity.CommittedLine) AllocationResponse {
	out := AllocationResponse{ProductID: productID, Total: decimal.Zero, Lines: make([]CommittedLineResponse, 0, len(lines))}
	for _, l := range lines {
		out.Quantity += l.Quantity
		out.Total = out.Total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		out.Lines = append(out.Lines, CommittedLineResponse{
			LotID:      l.LotID,
			LotCode:    l.LotCode,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			ExpiryDate: l.ExpiryDate,
			MovementID: l.MovementID,
		})
	}
	return out
}
