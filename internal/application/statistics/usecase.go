// Package statistics calcula el resumen diario del negocio a partir de una foto consistente
// de ventas, retiros y catálogo.
package statistics

import (
	"context"
	"time"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

// SnapshotRunner ejecuta fn en una transacción de solo lectura con una única foto de los datos.
type SnapshotRunner interface {
	RunSnapshot(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// StatisticsUseCase produce el DailySummary.
type StatisticsUseCase struct {
	runner   SnapshotRunner
	location *time.Location
	now      func() time.Time
}

// NewStatisticsUseCase loc es la zona horaria de la tienda; nil usa UTC.
func NewStatisticsUseCase(runner SnapshotRunner, loc *time.Location) *StatisticsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &StatisticsUseCase{runner: runner, location: loc, now: time.Now}
}

// Location zona horaria con la que se cortan los días.
func (uc *StatisticsUseCase) Location() *time.Location { return uc.location }

// Today fecha actual en la zona de la tienda.
func (uc *StatisticsUseCase) Today() time.Time {
	return uc.now().In(uc.location)
}

// DayBounds devuelve [00:00, 00:00 del día siguiente) del día calendario de t en loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}

// GetDailySummary agrega ventas y retiros del día calendario de asOf más el estado del
// catálogo. Las cinco lecturas se hacen dentro de la misma foto.
func (uc *StatisticsUseCase) GetDailySummary(ctx context.Context, asOf time.Time) (*entity.DailySummary, error) {
	from, to := DayBounds(asOf, uc.location)
	out := &entity.DailySummary{Date: from}

	err := uc.runner.RunSnapshot(ctx, func(repos repository.Repositories) error {
		var err error
		if out.SalesToday, err = repos.Statistics.SumSalesBetween(ctx, from, to); err != nil {
			return domain.Persistence("sumar ventas", err)
		}
		if out.WithdrawalsToday, err = repos.Statistics.SumWithdrawalsBetween(ctx, from, to); err != nil {
			return domain.Persistence("sumar retiros", err)
		}
		if out.ActiveProductCount, err = repos.Products.CountActiveWhere(ctx, entity.PredicateAll); err != nil {
			return domain.Persistence("contar productos", err)
		}
		if out.LowStockCount, err = repos.Products.CountActiveWhere(ctx, entity.PredicateLowStock); err != nil {
			return domain.Persistence("contar bajo stock", err)
		}
		if out.LastSaleAt, err = repos.Statistics.LastSaleAt(ctx); err != nil {
			return domain.Persistence("última venta", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.NetResult = out.SalesToday.Sub(out.WithdrawalsToday)
	return out, nil
}
