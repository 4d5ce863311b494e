package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus etiqueta derivada del estado de existencias de un producto.
type StockStatus string

const (
	StockStatusNormal       StockStatus = "normal"
	StockStatusLowStock     StockStatus = "low_stock"
	StockStatusExpiringSoon StockStatus = "expiring_soon"
	StockStatusExpired      StockStatus = "expired"
	StockStatusOutOfStock   StockStatus = "out_of_stock"
)

// Product agregado del catálogo (lo administra el módulo de productos).
// El libro de lotes solo lee SalePrice y MinStock y escribe StockActual y Status.
type Product struct {
	ID          string
	SKU         string
	Name        string
	SalePrice   decimal.Decimal // precio de venta por defecto
	MinStock    int             // umbral de stock bajo
	StockActual int             // caché derivada de los lotes
	Status      StockStatus
	UpdatedAt   time.Time
}

// StockSnapshot resultado de conciliar un producto con sus lotes.
type StockSnapshot struct {
	ProductID      string      `json:"product_id"`
	Stock          int         `json:"stock"`
	LotStock       int         `json:"lot_stock"`
	Status         StockStatus `json:"status"`
	EarliestExpiry *time.Time  `json:"earliest_expiry,omitempty"`
	ComputedAt     time.Time   `json:"computed_at"`
}
