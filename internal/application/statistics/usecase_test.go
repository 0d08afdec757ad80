package statistics_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
	"github.com/jhoicas/botilleria-pos/internal/application/statistics"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func santiago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Skipf("tzdata no disponible: %v", err)
	}
	return loc
}

func seed(t *testing.T, store *memory.Store, codigo string, stock, minimo int, precio string, activo bool) int64 {
	t.Helper()
	p := &entity.Product{
		Codigo:      codigo,
		Nombre:      codigo,
		PrecioVenta: dec(precio),
		Stock:       stock,
		StockMinimo: minimo,
		Activo:      activo,
	}
	require.NoError(t, store.Repositories().Products.Create(context.Background(), p))
	return p.ID
}

func newLedger(store *memory.Store, at time.Time) *ledger.LedgerUseCase {
	repos := store.Repositories()
	uc := ledger.NewLedgerUseCase(store, repos.Sales, repos.Withdrawals, nil, zerolog.Nop())
	uc.WithClock(func() time.Time { return at })
	return uc
}

// Escenario E: venta de 3000 y retiro de 3000 el mismo día dejan utilidad neta 0.
func TestGetDailySummary_VentaYRetiroMismoDia(t *testing.T) {
	loc := santiago(t)
	store := memory.NewStore()
	p1 := seed(t, store, "P1", 10, 5, "1000", true)
	p2 := seed(t, store, "P2", 10, 5, "1500", true)

	at := time.Date(2026, 5, 14, 15, 30, 0, 0, loc)
	led := newLedger(store, at)
	_, err := led.RecordSale(context.Background(), ledger.SaleInput{
		PaymentMethod: "efectivo",
		Lines:         []ledger.SaleLineInput{{ProductID: p1, Quantity: 3, UnitPrice: dec("1000")}},
	})
	require.NoError(t, err)
	_, err = led.RecordWithdrawal(context.Background(), ledger.WithdrawalInput{
		Lines: []ledger.WithdrawalLineInput{{ProductID: p2, Quantity: 2}},
	})
	require.NoError(t, err)

	uc := statistics.NewStatisticsUseCase(store, loc)
	sum, err := uc.GetDailySummary(context.Background(), at)
	require.NoError(t, err)

	assert.True(t, sum.SalesToday.Equal(dec("3000")), "ventas_hoy = %s", sum.SalesToday)
	assert.True(t, sum.WithdrawalsToday.Equal(dec("3000")), "retiros_hoy = %s", sum.WithdrawalsToday)
	assert.True(t, sum.NetResult.IsZero())
	assert.Equal(t, 2, sum.ActiveProductCount)
	assert.Equal(t, 0, sum.LowStockCount)
	require.NotNil(t, sum.LastSaleAt)
	assert.True(t, sum.LastSaleAt.Equal(at))
}

// Los días se cortan a medianoche de la tienda y la última venta no se limita al día.
func TestGetDailySummary_CorteDeDiaYUltimaVenta(t *testing.T) {
	loc := santiago(t)
	store := memory.NewStore()
	id := seed(t, store, "P1", 100, 5, "1000", true)

	ayerTarde := time.Date(2026, 5, 13, 23, 59, 59, 0, loc)
	hoyTemprano := time.Date(2026, 5, 14, 0, 0, 0, 0, loc)
	manana := time.Date(2026, 5, 15, 0, 0, 0, 0, loc)
	for _, at := range []time.Time{ayerTarde, hoyTemprano, manana} {
		_, err := newLedger(store, at).RecordSale(context.Background(), ledger.SaleInput{
			PaymentMethod: "efectivo",
			Lines:         []ledger.SaleLineInput{{ProductID: id, Quantity: 1, UnitPrice: dec("1000")}},
		})
		require.NoError(t, err)
	}

	uc := statistics.NewStatisticsUseCase(store, loc)
	sum, err := uc.GetDailySummary(context.Background(), time.Date(2026, 5, 14, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.True(t, sum.SalesToday.Equal(dec("1000")))
	assert.True(t, sum.WithdrawalsToday.IsZero())
	require.NotNil(t, sum.LastSaleAt)
	assert.True(t, sum.LastSaleAt.Equal(manana))
}

func TestGetDailySummary_ConteosDeCatalogo(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "OK", 10, 5, "1", true)
	seed(t, store, "BAJO", 4, 5, "1", true)
	seed(t, store, "LIMITE", 5, 5, "1", true)
	seed(t, store, "INACTIVO", 0, 5, "1", false)

	uc := statistics.NewStatisticsUseCase(store, time.UTC)
	sum, err := uc.GetDailySummary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.ActiveProductCount)
	assert.Equal(t, 1, sum.LowStockCount)
	assert.Nil(t, sum.LastSaleAt)
	assert.True(t, sum.SalesToday.IsZero())
	assert.True(t, sum.NetResult.IsZero())
}

// Dos lecturas sin escrituras entre medio son idénticas.
func TestGetDailySummary_LecturaIdempotente(t *testing.T) {
	store := memory.NewStore()
	id := seed(t, store, "P1", 10, 5, "1000", true)
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	_, err := newLedger(store, at).RecordSale(context.Background(), ledger.SaleInput{
		PaymentMethod: "tarjeta",
		Lines:         []ledger.SaleLineInput{{ProductID: id, Quantity: 7, UnitPrice: dec("990.50")}},
	})
	require.NoError(t, err)

	uc := statistics.NewStatisticsUseCase(store, time.UTC)
	first, err := uc.GetDailySummary(context.Background(), at)
	require.NoError(t, err)
	second, err := uc.GetDailySummary(context.Background(), at)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.LowStockCount)
}

func TestDayBounds_SemiAbierto(t *testing.T) {
	from, to := statistics.DayBounds(time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC), to)
}

func TestToday_UsaZonaDeLaTienda(t *testing.T) {
	loc := santiago(t)
	uc := statistics.NewStatisticsUseCase(memory.NewStore(), loc)
	statistics.SetClock(uc, func() time.Time { return time.Date(2026, 5, 15, 2, 0, 0, 0, time.UTC) })
	assert.Equal(t, 14, uc.Today().Day(), "02:00 UTC aún es el día anterior en Santiago")
}
