package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatisticsRepository consultas de solo lectura para el resumen diario.
// Los rangos son semiabiertos: from <= created_at < to.
type StatisticsRepository interface {
	SumSalesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	SumWithdrawalsBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	// LastSaleAt devuelve la fecha de la última venta registrada, o nil si no hay ventas.
	LastSaleAt(ctx context.Context) (*time.Time, error)
}
