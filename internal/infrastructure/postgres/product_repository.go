package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, codigo, nombre, descripcion, precio_compra, precio_venta, stock, stock_minimo,
	categoria, marca, cantidad, unidad_medida, imagen_url, activo, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Codigo, &p.Nombre, &p.Descripcion, &p.PrecioCompra, &p.PrecioVenta, &p.Stock, &p.StockMinimo,
		&p.Categoria, &p.Marca, &p.Cantidad, &p.UnidadMedida, &p.ImagenURL, &p.Activo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto; id y created_at los asigna la base.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO productos (codigo, nombre, descripcion, precio_compra, precio_venta, stock, stock_minimo,
			categoria, marca, cantidad, unidad_medida, imagen_url, activo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		product.Codigo, product.Nombre, product.Descripcion, product.PrecioCompra, product.PrecioVenta,
		product.Stock, product.StockMinimo, product.Categoria, product.Marca, product.Cantidad,
		product.UnidadMedida, product.ImagenURL, product.Activo,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("codigo %q: %w", product.Codigo, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM productos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCodigo obtiene un producto por código (sin distinguir mayúsculas).
func (r *ProductRepo) GetByCodigo(ctx context.Context, codigo string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM productos WHERE lower(codigo) = lower($1)`, codigo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by codigo: %w", err)
	}
	return p, nil
}

// Update reescribe todos los campos editables; el patch ya se aplicó sobre product.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE productos SET codigo = $2, nombre = $3, descripcion = $4, precio_compra = $5, precio_venta = $6,
			stock = $7, stock_minimo = $8, categoria = $9, marca = $10, cantidad = $11, unidad_medida = $12,
			imagen_url = $13, activo = $14, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query,
		product.ID, product.Codigo, product.Nombre, product.Descripcion, product.PrecioCompra, product.PrecioVenta,
		product.Stock, product.StockMinimo, product.Categoria, product.Marca, product.Cantidad, product.UnidadMedida,
		product.ImagenURL, product.Activo,
	).Scan(&product.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.ErrNotFound
		case isUniqueViolation(err):
			return fmt.Errorf("codigo %q: %w", product.Codigo, domain.ErrDuplicate)
		case isCheckViolation(err):
			return domain.Invalid("stock", "no puede ser negativo")
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List lista productos ordenados por id con filtros opcionales.
func (r *ProductRepo) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.Activo != nil {
		args = append(args, *filter.Activo)
		where = append(where, fmt.Sprintf("activo = $%d", len(args)))
	}
	if filter.Categoria != "" {
		args = append(args, filter.Categoria)
		where = append(where, fmt.Sprintf("categoria = $%d", len(args)))
	}
	query := `SELECT ` + productColumns + ` FROM productos`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Skip > 0 {
		args = append(args, filter.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// Search busca por substring en código o nombre, solo activos.
func (r *ProductRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM productos
		WHERE activo AND (codigo ILIKE $1 OR nombre ILIKE $1)
		ORDER BY id LIMIT $2`
	rows, err := r.q.Query(ctx, query, likePattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return collectProducts(rows)
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM productos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// LockForUpdate bloquea las filas (SELECT FOR UPDATE) en orden de id para evitar deadlocks
// entre transacciones que tocan los mismos productos.
func (r *ProductRepo) LockForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Product, error) {
	out := make(map[int64]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM productos
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// DecrementStock descuenta de forma condicional: la fila solo cambia si alcanza el stock.
func (r *ProductRepo) DecrementStock(ctx context.Context, id int64, amount int) (int, error) {
	var newStock int
	err := r.q.QueryRow(ctx, `
		UPDATE productos SET stock = stock - $2
		WHERE id = $1 AND stock >= $2
		RETURNING stock`, id, amount).Scan(&newStock)
	if err == nil {
		return newStock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if isCheckViolation(err) {
			return 0, domain.ErrStockWouldGoNegative
		}
		return 0, fmt.Errorf("decrement stock: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM productos WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	return 0, domain.ErrStockWouldGoNegative
}

func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM productos WHERE activo ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	return collectProducts(rows)
}

// CountActiveWhere traduce el predicado a SQL para no traer filas.
func (r *ProductRepo) CountActiveWhere(ctx context.Context, predicate entity.ProductPredicate) (int, error) {
	query := `SELECT count(*) FROM productos WHERE activo`
	if predicate == entity.PredicateLowStock {
		query += ` AND stock < stock_minimo`
	}
	var n int
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active products: %w", err)
	}
	return n, nil
}
