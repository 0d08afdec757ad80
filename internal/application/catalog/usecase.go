// Package catalog casos de uso CRUD del catálogo de productos.
// El stock se modifica por ventas y retiros; aquí solo por creación o actualización directa.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

const (
	// DefaultListLimit límite del listado si no se informa.
	DefaultListLimit = 100
	// SearchLimit máximo de resultados de la búsqueda rápida de caja.
	SearchLimit = 20
	// DefaultMovementsLimit movimientos de stock devueltos por producto.
	DefaultMovementsLimit = 50
)

// TxRunner ejecuta fn con repositorios atados a una misma transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// ProductUseCase casos de uso del catálogo.
type ProductUseCase struct {
	txRunner  TxRunner
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewProductUseCase construye el caso de uso. Update y Delete corren en txRunner.
func NewProductUseCase(
	txRunner TxRunner,
	repo repository.ProductRepository,
	movements repository.StockMovementRepository,
	log zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, movements: movements, log: log, now: time.Now}
}

// Create crea un producto. Un código ya usado retorna domain.ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	codigo := strings.TrimSpace(in.Codigo)
	if codigo == "" {
		return nil, domain.Invalid("codigo", "es obligatorio")
	}
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, domain.Invalid("nombre", "es obligatorio")
	}
	if err := nonNegative("precio_compra", in.PrecioCompra); err != nil {
		return nil, err
	}
	if err := nonNegative("precio_venta", in.PrecioVenta); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCodigo(ctx, codigo)
	if err != nil {
		return nil, domain.Persistence("buscar código", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	product := &entity.Product{
		Codigo:       codigo,
		Nombre:       nombre,
		Descripcion:  in.Descripcion,
		PrecioCompra: in.PrecioCompra.Round(2),
		PrecioVenta:  in.PrecioVenta.Round(2),
		Stock:        in.Stock,
		StockMinimo:  entity.DefaultStockMinimo,
		Categoria:    in.Categoria,
		Marca:        in.Marca,
		Cantidad:     in.Cantidad,
		UnidadMedida: in.UnidadMedida,
		ImagenURL:    in.ImagenURL,
		Activo:       true,
	}
	if in.StockMinimo != nil {
		product.StockMinimo = *in.StockMinimo
	}
	if in.Activo != nil {
		product.Activo = *in.Activo
	}
	if product.Stock < 0 || product.StockMinimo < 0 {
		return nil, domain.Invalid("stock", "no puede ser negativo")
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicate
		}
		return nil, domain.Persistence("crear producto", err)
	}
	uc.log.Info().Int64("producto_id", product.ID).Str("codigo", product.Codigo).Msg("producto creado")
	return dto.NewProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("obtener producto", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// GetByID obtiene un producto, activo o no.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// Update aplica solo los campos presentes en la entrada. La fila queda bloqueada
// mientras se aplica el patch, así una venta concurrente no se pierde. Un cambio de
// stock deja un movimiento de ajuste en la bitácora.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	patch := in.Patch()
	if patch.Codigo != nil {
		c := strings.TrimSpace(*patch.Codigo)
		if c == "" {
			return nil, domain.Invalid("codigo", "no puede quedar vacío")
		}
		patch.Codigo = &c
	}
	if patch.Nombre != nil {
		n := strings.TrimSpace(*patch.Nombre)
		if n == "" {
			return nil, domain.Invalid("nombre", "no puede quedar vacío")
		}
		patch.Nombre = &n
	}
	var err error
	if patch.PrecioCompra, err = roundPrice("precio_compra", patch.PrecioCompra); err != nil {
		return nil, err
	}
	if patch.PrecioVenta, err = roundPrice("precio_venta", patch.PrecioVenta); err != nil {
		return nil, err
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, domain.Invalid("stock", "no puede ser negativo")
	}
	if patch.StockMinimo != nil && *patch.StockMinimo < 0 {
		return nil, domain.Invalid("stock_minimo", "no puede ser negativo")
	}

	var product *entity.Product
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		locked, err := repos.Products.LockForUpdate(ctx, []int64{id})
		if err != nil {
			return domain.Persistence("bloquear producto", err)
		}
		p, ok := locked[id]
		if !ok {
			return domain.ErrNotFound
		}
		if patch.Codigo != nil && *patch.Codigo != p.Codigo {
			other, err := repos.Products.GetByCodigo(ctx, *patch.Codigo)
			if err != nil {
				return domain.Persistence("buscar código", err)
			}
			if other != nil && other.ID != p.ID {
				return domain.ErrDuplicate
			}
		}

		before := p.Stock
		patch.Apply(p)
		if err := repos.Products.Update(ctx, p); err != nil {
			switch {
			case errors.Is(err, domain.ErrDuplicate):
				return domain.ErrDuplicate
			case errors.Is(err, domain.ErrNotFound):
				return domain.ErrNotFound
			}
			return domain.Persistence("actualizar producto", err)
		}
		if p.Stock != before {
			mov := &entity.StockMovement{
				ProductID:     p.ID,
				Type:          entity.MovementTypeAjuste,
				Quantity:      p.Stock - before,
				StockAnterior: before,
				StockNuevo:    p.Stock,
				CreatedAt:     uc.now(),
			}
			if err := repos.Movements.Create(ctx, mov); err != nil {
				return domain.Persistence("registrar movimiento de stock", err)
			}
			uc.log.Info().
				Int64("producto_id", p.ID).
				Int("stock_anterior", before).
				Int("stock", p.Stock).
				Msg("ajuste de stock")
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// Delete baja lógica: activo=false. El producto y su historial se conservan.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	off := false
	_, err := uc.Update(ctx, id, dto.UpdateProductRequest{Activo: &off})
	if err == nil {
		uc.log.Info().Int64("producto_id", id).Msg("producto desactivado")
	}
	return err
}

// List lista productos con filtros opcionales.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) ([]dto.ProductResponse, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	list, err := uc.repo.List(ctx, entity.ProductFilter{
		Activo:    q.Activo,
		Categoria: q.Categoria,
		Skip:      q.Skip,
		Limit:     q.Limit,
	})
	if err != nil {
		return nil, domain.Persistence("listar productos", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.NewProductResponse(p))
	}
	return items, nil
}

// Search busca por código o nombre entre los productos activos.
func (uc *ProductUseCase) Search(ctx context.Context, term string) ([]dto.ProductSearchResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.Invalid("q", "el término de búsqueda es obligatorio")
	}
	list, err := uc.repo.Search(ctx, term, SearchLimit)
	if err != nil {
		return nil, domain.Persistence("buscar productos", err)
	}
	items := make([]dto.ProductSearchResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.NewProductSearchResponse(p))
	}
	return items, nil
}

// Movements bitácora de stock del producto, más recientes primero.
func (uc *ProductUseCase) Movements(ctx context.Context, id int64, limit int) ([]dto.StockMovementResponse, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMovementsLimit
	}
	list, err := uc.movements.ListByProduct(ctx, id, limit)
	if err != nil {
		return nil, domain.Persistence("listar movimientos", err)
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.NewStockMovementResponse(m))
	}
	return items, nil
}

func roundPrice(field string, v *decimal.Decimal) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	if err := nonNegative(field, *v); err != nil {
		return nil, err
	}
	r := v.Round(2)
	return &r, nil
}

func nonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.Invalid(field, "no puede ser negativo")
	}
	return nil
}
