package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/botilleria-pos/internal/application/catalog"
	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
	"github.com/jhoicas/botilleria-pos/internal/application/statistics"
	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/migrations"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/botilleria-pos/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test: un contenedor PostgreSQL por test con el esquema migrado.
// ──────────────────────────────────────────────────────────────────────────────

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("botilleria_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	mg, err := migrations.New(dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, DatabaseURLSource: "DATABASE_URL", MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, codigo string, stock int, precio string) int64 {
	t.Helper()
	p := &entity.Product{
		Codigo:      codigo,
		Nombre:      "Producto " + codigo,
		PrecioVenta: decimal.RequireFromString(precio),
		Stock:       stock,
		StockMinimo: entity.DefaultStockMinimo,
		Activo:      true,
	}
	require.NoError(t, postgres.NewProductRepository(pool).Create(context.Background(), p))
	return p.ID
}

func stockOf(t *testing.T, pool *pgxpool.Pool, id int64) int {
	t.Helper()
	p, err := postgres.NewProductRepository(pool).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func newEngine(pool *pgxpool.Pool) *ledger.LedgerUseCase {
	return ledger.NewLedgerUseCase(postgres.NewTxRunner(pool),
		postgres.NewSaleRepository(pool), postgres.NewWithdrawalRepository(pool), nil, zerolog.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_VentaYRetiroConEstadisticas(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	p1 := seedProduct(t, pool, "P1", 10, "1000")
	p2 := seedProduct(t, pool, "P2", 10, "1500")
	uc := newEngine(pool)

	sale, err := uc.RecordSale(ctx, ledger.SaleInput{
		PaymentMethod: "efectivo",
		Lines:         []ledger.SaleLineInput{{ProductID: p1, Quantity: 3, UnitPrice: decimal.NewFromInt(1000)}},
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 7, stockOf(t, pool, p1))

	w, err := uc.RecordWithdrawal(ctx, ledger.WithdrawalInput{
		Lines: []ledger.WithdrawalLineInput{{ProductID: p2, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, w.Total.Equal(decimal.NewFromInt(3000)))

	stored, err := uc.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].Subtotal.Equal(decimal.NewFromInt(3000)))

	stats := statistics.NewStatisticsUseCase(postgres.NewTxRunner(pool), time.UTC)
	sum, err := stats.GetDailySummary(ctx, sale.CreatedAt)
	require.NoError(t, err)
	assert.True(t, sum.SalesToday.Equal(decimal.NewFromInt(3000)))
	assert.True(t, sum.WithdrawalsToday.Equal(decimal.NewFromInt(3000)))
	assert.True(t, sum.NetResult.IsZero())
	assert.Equal(t, 2, sum.ActiveProductCount)
	require.NotNil(t, sum.LastSaleAt)

	movs, err := postgres.NewStockMovementRepository(pool).ListByProduct(ctx, p2, 10)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeRetiro, movs[0].Type)
	assert.Equal(t, w.ID, movs[0].ReferenceID)
}

func TestPostgres_AtomicidadMultiLinea(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	a := seedProduct(t, pool, "A", 10, "1000")
	b := seedProduct(t, pool, "B", 1, "1000")

	_, err := newEngine(pool).RecordSale(ctx, ledger.SaleInput{
		PaymentMethod: "tarjeta",
		Lines: []ledger.SaleLineInput{
			{ProductID: a, Quantity: 5, UnitPrice: decimal.NewFromInt(1000)},
			{ProductID: b, Quantity: 2, UnitPrice: decimal.NewFromInt(1000)},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 10, stockOf(t, pool, a))
	assert.Equal(t, 1, stockOf(t, pool, b))
	list, err := postgres.NewSaleRepository(pool).List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// Los FOR UPDATE serializan las ventas concurrentes: nunca se vende más que el stock.
func TestPostgres_ConcurrenciaNoSobrevende(t *testing.T) {
	pool := newTestPool(t)
	id := seedProduct(t, pool, "P1", 5, "1000")
	uc := newEngine(pool)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordSale(context.Background(), ledger.SaleInput{
				PaymentMethod: "efectivo",
				Lines:         []ledger.SaleLineInput{{ProductID: id, Quantity: 1, UnitPrice: decimal.NewFromInt(1000)}},
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 0, stockOf(t, pool, id))
}

func TestPostgres_DecrementStockNoDejaNegativo(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	id := seedProduct(t, pool, "P1", 2, "1000")
	repo := postgres.NewProductRepository(pool)

	_, err := repo.DecrementStock(ctx, id, 3)
	assert.ErrorIs(t, err, domain.ErrStockWouldGoNegative)

	_, err = repo.DecrementStock(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := repo.DecrementStock(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPostgres_CodigoDuplicadoYBusqueda(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)
	seedProduct(t, pool, "PISCO001", 1, "6990")

	err := repo.Create(ctx, &entity.Product{Codigo: "pisco001", Nombre: "Otro", Activo: true})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	found, err := repo.Search(ctx, "isco", 20)
	require.NoError(t, err)
	require.Len(t, found, 1)

	low, err := repo.CountActiveWhere(ctx, entity.PredicateLowStock)
	require.NoError(t, err)
	assert.Equal(t, 1, low)
}

// afterLockRunner llama a after apenas LockForUpdate devuelve, con la fila aún bloqueada.
type afterLockRunner struct {
	inner catalog.TxRunner
	after func()
}

type afterLockProducts struct {
	repository.ProductRepository
	after func()
}

func (p afterLockProducts) LockForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Product, error) {
	out, err := p.ProductRepository.LockForUpdate(ctx, ids)
	p.after()
	return out, err
}

func (r afterLockRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return r.inner.Run(ctx, func(repos repository.Repositories) error {
		repos.Products = afterLockProducts{ProductRepository: repos.Products, after: r.after}
		return fn(repos)
	})
}

func TestPostgres_ActualizacionNoPisaVentaConcurrente(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	id := seedProduct(t, pool, "PIS-40", 10, "6990")
	engine := newEngine(pool)

	saleDone := make(chan error, 1)
	var once sync.Once
	sell := func() {
		once.Do(func() {
			go func() {
				_, err := engine.RecordSale(ctx, ledger.SaleInput{
					PaymentMethod: "efectivo",
					Lines:         []ledger.SaleLineInput{{ProductID: id, Quantity: 3, UnitPrice: decimal.NewFromInt(6990)}},
				})
				saleDone <- err
			}()
		})
	}

	uc := catalog.NewProductUseCase(afterLockRunner{inner: postgres.NewTxRunner(pool), after: sell},
		postgres.NewProductRepository(pool), postgres.NewStockMovementRepository(pool), zerolog.Nop())
	precio := decimal.NewFromInt(7490)
	_, err := uc.Update(ctx, id, dto.UpdateProductRequest{PrecioVenta: &precio})
	require.NoError(t, err)
	require.NoError(t, <-saleDone)
	assert.Equal(t, 7, stockOf(t, pool, id))

	stock := 20
	_, err = uc.Update(ctx, id, dto.UpdateProductRequest{Stock: &stock})
	require.NoError(t, err)
	movs, err := postgres.NewStockMovementRepository(pool).ListByProduct(ctx, id, 10)
	require.NoError(t, err)
	require.NotEmpty(t, movs)
	assert.Equal(t, entity.MovementTypeAjuste, movs[0].Type)
	assert.Equal(t, 13, movs[0].Quantity)
}

// El total admite la suma de subtotales del máximo ancho por línea.
func TestPostgres_TotalGrandeSePersiste(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	id := seedProduct(t, pool, "GRANEL", 20, "1")
	price := decimal.RequireFromString("9999999999.99")

	sale, err := newEngine(pool).RecordSale(ctx, ledger.SaleInput{
		PaymentMethod: "transferencia",
		Lines: []ledger.SaleLineInput{
			{ProductID: id, Quantity: 10, UnitPrice: price},
			{ProductID: id, Quantity: 10, UnitPrice: price},
		},
	})
	require.NoError(t, err)

	stored, err := newEngine(pool).GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(decimal.RequireFromString("199999999999.80")), stored.Total.String())
}
