package catalog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/botilleria-pos/internal/application/catalog"
	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/memory"
)

func newUseCase() *catalog.ProductUseCase {
	uc, _ := newUseCaseWithStore()
	return uc
}

func newUseCaseWithStore() (*catalog.ProductUseCase, *memory.Store) {
	store := memory.NewStore()
	repos := store.Repositories()
	return catalog.NewProductUseCase(store, repos.Products, repos.Movements, zerolog.Nop()), store
}

func createReq(codigo, nombre string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Codigo:       codigo,
		Nombre:       nombre,
		PrecioCompra: decimal.NewFromInt(700),
		PrecioVenta:  decimal.RequireFromString("1190.499"),
		Stock:        10,
		Categoria:    "Cerveza",
	}
}

func TestCreate_AplicaValoresPorDefecto(t *testing.T) {
	uc := newUseCase()
	p, err := uc.Create(context.Background(), createReq("CERV001", "Cerveza Escudo"))
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.Equal(t, 5, p.StockMinimo)
	assert.True(t, p.Activo)
	assert.True(t, p.PrecioVenta.Equal(decimal.RequireFromString("1190.50")))
	assert.False(t, p.BajoStock)
}

func TestCreate_CodigoDuplicado(t *testing.T) {
	uc := newUseCase()
	_, err := uc.Create(context.Background(), createReq("CERV001", "A"))
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), createReq("CERV001", "B"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_PrecioNegativo(t *testing.T) {
	uc := newUseCase()
	in := createReq("X", "X")
	in.PrecioVenta = decimal.NewFromInt(-1)
	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Update solo toca los campos presentes.
func TestUpdate_PatchParcial(t *testing.T) {
	uc := newUseCase()
	p, err := uc.Create(context.Background(), createReq("CERV001", "Cerveza Escudo"))
	require.NoError(t, err)

	nombre := "Cerveza Escudo 1L"
	stock := 3
	out, err := uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Nombre: &nombre, Stock: &stock})
	require.NoError(t, err)

	assert.Equal(t, nombre, out.Nombre)
	assert.Equal(t, 3, out.Stock)
	assert.True(t, out.BajoStock)
	assert.Equal(t, "CERV001", out.Codigo)
	assert.Equal(t, "Cerveza", out.Categoria)
	assert.True(t, out.PrecioVenta.Equal(p.PrecioVenta))
	require.NotNil(t, out.UpdatedAt)
}

func TestUpdate_CodigoDeOtroProducto(t *testing.T) {
	uc := newUseCase()
	_, err := uc.Create(context.Background(), createReq("A1", "A"))
	require.NoError(t, err)
	b, err := uc.Create(context.Background(), createReq("B1", "B"))
	require.NoError(t, err)

	codigo := "A1"
	_, err = uc.Update(context.Background(), b.ID, dto.UpdateProductRequest{Codigo: &codigo})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(context.Background(), 999, dto.UpdateProductRequest{Codigo: &codigo})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Delete es baja lógica: el producto sigue existiendo pero deja de aparecer en la búsqueda.
func TestDelete_BajaLogica(t *testing.T) {
	uc := newUseCase()
	p, err := uc.Create(context.Background(), createReq("PISCO001", "Pisco Mistral"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), p.ID))

	got, err := uc.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, got.Activo)

	found, err := uc.Search(context.Background(), "pisco")
	require.NoError(t, err)
	assert.Empty(t, found)

	assert.ErrorIs(t, uc.Delete(context.Background(), 404), domain.ErrNotFound)
}

func TestList_FiltrosYPaginacion(t *testing.T) {
	uc := newUseCase()
	for _, c := range []string{"A", "B", "C"} {
		_, err := uc.Create(context.Background(), createReq(c, "Producto "+c))
		require.NoError(t, err)
	}
	in := createReq("D", "Vino")
	in.Categoria = "Vino"
	_, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	all, err := uc.List(context.Background(), dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	vinos, err := uc.List(context.Background(), dto.ProductListQuery{Categoria: "Vino"})
	require.NoError(t, err)
	require.Len(t, vinos, 1)
	assert.Equal(t, "D", vinos[0].Codigo)

	pagina, err := uc.List(context.Background(), dto.ProductListQuery{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, pagina, 2)
	assert.Equal(t, "B", pagina[0].Codigo)
}

func TestSearch_CodigoONombre(t *testing.T) {
	uc := newUseCase()
	_, err := uc.Create(context.Background(), createReq("RON001", "Ron Bacardi Blanco"))
	require.NoError(t, err)
	_, err = uc.Create(context.Background(), createReq("VODKA001", "Vodka Absolut"))
	require.NoError(t, err)

	byName, err := uc.Search(context.Background(), "bacardi")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "RON001", byName[0].Codigo)

	byCode, err := uc.Search(context.Background(), "001")
	require.NoError(t, err)
	assert.Len(t, byCode, 2)

	_, err = uc.Search(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSeedIfEmpty_SoloUnaVez(t *testing.T) {
	uc := newUseCase()
	n, err := uc.SeedIfEmpty(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = uc.SeedIfEmpty(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	found, err := uc.Search(context.Background(), "PISCO001")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 12, found[0].Stock)
}

func TestImport_OmiteDuplicadosYReportaInvalidos(t *testing.T) {
	uc := newUseCase()
	_, err := uc.Create(context.Background(), createReq("RON001", "Ron Bacardi Blanco"))
	require.NoError(t, err)

	sinNombre := createReq("X1", "")
	negativo := createReq("X2", "Negativo")
	negativo.PrecioVenta = decimal.NewFromInt(-5)

	res, err := uc.Import(context.Background(), []dto.CreateProductRequest{
		createReq("PISCO001", "Pisco"),
		createReq("RON001", "Ron repetido"),
		sinNombre,
		negativo,
		createReq("VODKA001", "Vodka"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, []int{1}, res.Duplicated)
	require.Len(t, res.Rejected, 2)
	assert.ErrorIs(t, res.Rejected[2], domain.ErrInvalidInput)
	assert.ErrorIs(t, res.Rejected[3], domain.ErrInvalidInput)

	list, err := uc.List(context.Background(), dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestReplenishment_OrdenaPorMargen(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	a := createReq("A", "Cerveza Escudo")
	a.Stock = 2 // stock_minimo por defecto 5
	_, err := uc.Create(ctx, a)
	require.NoError(t, err)

	minimo := 10
	b := createReq("B", "Pisco Alto del Carmen")
	b.Stock = 0
	b.StockMinimo = &minimo
	b.PrecioCompra = decimal.NewFromInt(500)
	b.PrecioVenta = decimal.NewFromInt(1000)
	_, err = uc.Create(ctx, b)
	require.NoError(t, err)

	_, err = uc.Create(ctx, createReq("C", "Vino con stock"))
	require.NoError(t, err)

	d := createReq("D", "Descontinuado")
	d.Stock = 0
	inactivo, err := uc.Create(ctx, d)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, inactivo.ID))

	out, err := uc.Replenishment(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "B", out[0].Codigo)
	assert.Equal(t, 1, out[0].Prioridad)
	assert.Equal(t, 15, out[0].CantidadPedir)
	assert.Equal(t, 15, out[0].StockIdeal)
	assert.True(t, out[0].CostoEstimado.Equal(decimal.NewFromInt(7500)))
	assert.True(t, out[0].MargenPct.Equal(decimal.NewFromInt(50)))

	assert.Equal(t, "A", out[1].Codigo)
	assert.Equal(t, 2, out[1].Prioridad)
	assert.Equal(t, 6, out[1].CantidadPedir)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualización concurrente con ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_AjusteDeStockQuedaEnBitacora(t *testing.T) {
	uc, store := newUseCaseWithStore()
	ctx := context.Background()
	p, err := uc.Create(ctx, createReq("RON-01", "Ron Havana"))
	require.NoError(t, err)

	stock := 3
	out, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Stock)

	precio := decimal.NewFromInt(9990)
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{PrecioVenta: &precio})
	require.NoError(t, err)

	movs, err := store.Repositories().Movements.ListByProduct(ctx, p.ID, 10)
	require.NoError(t, err)
	require.Len(t, movs, 1, "solo el cambio de stock se registra")
	assert.Equal(t, entity.MovementTypeAjuste, movs[0].Type)
	assert.Equal(t, -7, movs[0].Quantity)
	assert.Equal(t, 10, movs[0].StockAnterior)
	assert.Equal(t, 3, movs[0].StockNuevo)
}

// lockHook llama a after justo después de bloquear la fila.
type lockHook struct {
	repository.ProductRepository
	after func()
}

func (h lockHook) LockForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Product, error) {
	out, err := h.ProductRepository.LockForUpdate(ctx, ids)
	h.after()
	return out, err
}

type hookedRunner struct {
	inner catalog.TxRunner
	after func()
}

func (r hookedRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return r.inner.Run(ctx, func(repos repository.Repositories) error {
		repos.Products = lockHook{ProductRepository: repos.Products, after: r.after}
		return fn(repos)
	})
}

// Una venta que llega mientras se desactiva el producto no se pierde.
func TestDelete_VentaConcurrenteNoSePierde(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	p := &entity.Product{
		Codigo:      "PIS-40",
		Nombre:      "Pisco Control 40",
		PrecioVenta: decimal.NewFromInt(6990),
		Stock:       10,
		StockMinimo: entity.DefaultStockMinimo,
		Activo:      true,
	}
	require.NoError(t, repos.Products.Create(ctx, p))

	engine := ledger.NewLedgerUseCase(store, repos.Sales, repos.Withdrawals, nil, zerolog.Nop())
	saleDone := make(chan error, 1)
	var once sync.Once
	sellDuringUpdate := func() {
		once.Do(func() {
			go func() {
				_, err := engine.RecordSale(ctx, ledger.SaleInput{
					PaymentMethod: "efectivo",
					Lines:         []ledger.SaleLineInput{{ProductID: p.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(6990)}},
				})
				saleDone <- err
			}()
		})
	}

	uc := catalog.NewProductUseCase(hookedRunner{inner: store, after: sellDuringUpdate}, repos.Products, repos.Movements, zerolog.Nop())
	require.NoError(t, uc.Delete(ctx, p.ID))
	require.NoError(t, <-saleDone)

	got, err := repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock, "la baja lógica no restaura el stock vendido")
	assert.False(t, got.Activo)
}
