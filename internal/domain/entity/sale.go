package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod método de pago de una venta.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "efectivo"
	PaymentCard     PaymentMethod = "tarjeta"
	PaymentTransfer PaymentMethod = "transferencia"
)

var paymentAliases = map[string]PaymentMethod{
	"efectivo":      PaymentCash,
	"cash":          PaymentCash,
	"tarjeta":       PaymentCard,
	"card":          PaymentCard,
	"transferencia": PaymentTransfer,
	"transfer":      PaymentTransfer,
}

// ParsePaymentMethod normaliza el método de pago; acepta los alias en inglés.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	pm, ok := paymentAliases[strings.ToLower(strings.TrimSpace(s))]
	return pm, ok
}

// Sale representa una venta confirmada. Total == Σ Items[i].Subtotal.
type Sale struct {
	ID            int64
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
	Items         []SaleItem
}

// SaleItem línea de una venta; el precio unitario lo informa la caja.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Position  int
}
