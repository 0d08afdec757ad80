package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary foto del negocio para un día calendario.
type DailySummary struct {
	Date               time.Time
	SalesToday         decimal.Decimal
	WithdrawalsToday   decimal.Decimal
	NetResult          decimal.Decimal
	ActiveProductCount int
	LowStockCount      int
	LastSaleAt         *time.Time
}
