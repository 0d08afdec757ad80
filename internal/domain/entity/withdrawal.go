package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdrawal representa un retiro interno de mercadería (merma, consumo del personal).
// Total es la pérdida valorizada a precio de venta al momento del retiro.
type Withdrawal struct {
	ID        int64
	Total     decimal.Decimal
	CreatedAt time.Time
	Items     []WithdrawalItem
}

// WithdrawalItem línea de un retiro; UnitPrice se copia de Product.PrecioVenta.
type WithdrawalItem struct {
	ID           int64
	WithdrawalID int64
	ProductID    int64
	Quantity     int
	UnitPrice    decimal.Decimal
	Subtotal     decimal.Decimal
	Position     int
}
