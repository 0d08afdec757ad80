package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

var _ repository.StatisticsRepository = (*StatisticsRepo)(nil)

// StatisticsRepo agregados de solo lectura para el resumen diario.
type StatisticsRepo struct {
	q Querier
}

// NewStatisticsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStatisticsRepository(q Querier) *StatisticsRepo {
	return &StatisticsRepo{q: q}
}

func (r *StatisticsRepo) sumBetween(ctx context.Context, table string, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(total), 0) FROM ` + table + ` WHERE created_at >= $1 AND created_at < $2`
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", table, err)
	}
	return sum, nil
}

func (r *StatisticsRepo) SumSalesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sumBetween(ctx, "ventas", from, to)
}

func (r *StatisticsRepo) SumWithdrawalsBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sumBetween(ctx, "retiros", from, to)
}

func (r *StatisticsRepo) LastSaleAt(ctx context.Context) (*time.Time, error) {
	var last *time.Time
	if err := r.q.QueryRow(ctx, `SELECT MAX(created_at) FROM ventas`).Scan(&last); err != nil {
		return nil, fmt.Errorf("last venta: %w", err)
	}
	return last, nil
}
