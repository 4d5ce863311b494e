package dto

import (
	"time"

	"github.com/jhoicas/farmacia-lotes/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReceiveStockRequest body para POST /api/lots.
type ReceiveStockRequest struct {
	ProductID     string           `json:"product_id" validate:"required"`
	Quantity      int              `json:"quantity" validate:"gt=0,max=2147483647"`
	Code          string           `json:"code" validate:"max=64"`
	LocationID    string           `json:"location_id,omitempty" validate:"omitempty,uuid"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	EntryDate     *time.Time       `json:"entry_date,omitempty"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	SupplierID    *string          `json:"supplier_id,omitempty"`
	Notes         string           `json:"notes" validate:"max=500"`
	Reason        string           `json:"reason" validate:"max=200"`
}

// ReturnRequest body para POST /api/lots/:id/returns.
type ReturnRequest struct {
	Quantity int    `json:"quantity" validate:"gt=0,max=2147483647"`
	Reason   string `json:"reason" validate:"max=200"`
}

// AdjustRequest body para POST /api/lots/:id/adjustments.
type AdjustRequest struct {
	Delta  int    `json:"delta" validate:"ne=0,min=-2147483647,max=2147483647"`
	Reason string `json:"reason" validate:"required,max=200"`
}

// WithdrawRequest body para POST /api/lots/:id/withdraw.
type WithdrawRequest struct {
	Reason string `json:"reason" validate:"required,max=200"`
}

// LotResponse lote en respuestas HTTP.
type LotResponse struct {
	ID              string           `json:"id"`
	Code            string           `json:"code"`
	ProductID       string           `json:"product_id"`
	LocationID      *string          `json:"location_id,omitempty"`
	Quantity        int              `json:"quantity"`
	InitialQuantity int              `json:"initial_quantity"`
	QuantitySold    int              `json:"quantity_sold"`
	PurchasePrice   decimal.Decimal  `json:"purchase_price"`
	SalePrice       *decimal.Decimal `json:"sale_price,omitempty"`
	EntryDate       time.Time        `json:"entry_date"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	SupplierID      *string          `json:"supplier_id,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	State           string           `json:"state"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewLotResponse convierte la entidad.
func NewLotResponse(l *entity.Lot) LotResponse {
	return LotResponse{
		ID:              l.ID,
		Code:            l.Code,
		ProductID:       l.ProductID,
		LocationID:      l.LocationID,
		Quantity:        l.Quantity,
		InitialQuantity: l.InitialQuantity,
		QuantitySold:    l.QuantitySold,
		PurchasePrice:   l.PurchasePrice,
		SalePrice:       l.SalePrice,
		EntryDate:       l.EntryDate,
		ExpiryDate:      l.ExpiryDate,
		SupplierID:      l.SupplierID,
		Notes:           l.Notes,
		State:           string(l.State),
		UpdatedAt:       l.UpdatedAt,
	}
}

// NewLotList convierte una lista de lotes.
func NewLotList(lots []*entity.Lot) []LotResponse {
	out := make([]LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, NewLotResponse(l))
	}
	return out
}

// MovementResponse movimiento del libro.
type MovementResponse struct {
	ID             string           `json:"id"`
	LotID          string           `json:"lot_id"`
	ProductID      string           `json:"product_id"`
	Type           string           `json:"type"`
	Delta          int              `json:"delta"`
	QuantityBefore int              `json:"quantity_before"`
	QuantityAfter  int              `json:"quantity_after"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	ActorID        string           `json:"actor_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewMovementList convierte movimientos.
func NewMovementList(movs []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, MovementResponse{
			ID:             m.ID,
			LotID:          m.LotID,
			ProductID:      m.ProductID,
			Type:           string(m.Type),
			Delta:          m.Delta,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			UnitPrice:      m.UnitPrice,
			Reason:         m.Reason,
			ActorID:        m.ActorID,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
