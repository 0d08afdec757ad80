package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

var errReadOnly = errors.New("memory: escritura en transacción de solo lectura")

// productRow fila inmutable; toda modificación reemplaza el puntero.
type productRow struct{ p entity.Product }

func (r *productRow) entity() *entity.Product {
	cp := r.p
	return &cp
}

// ProductRepository implementa repository.ProductRepository.
type ProductRepository struct{ a access }

func (r *ProductRepository) codigoTaken(st *state, codigo string, exceptID int64) bool {
	for id, row := range st.products {
		if id != exceptID && strings.EqualFold(row.p.Codigo, codigo) {
			return true
		}
	}
	return false
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.a.with(ctx, true, func(st *state) error {
		if r.codigoTaken(st, product.Codigo, 0) {
			return fmt.Errorf("codigo %q: %w", product.Codigo, domain.ErrDuplicate)
		}
		st.seqProduct++
		product.ID = st.seqProduct
		product.CreatedAt = nowOr(product.CreatedAt)
		st.products[product.ID] = &productRow{p: *product}
		return nil
	})
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.with(ctx, false, func(st *state) error {
		if row, ok := st.products[id]; ok {
			out = row.entity()
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) GetByCodigo(ctx context.Context, codigo string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.with(ctx, false, func(st *state) error {
		for _, row := range st.products {
			if strings.EqualFold(row.p.Codigo, codigo) {
				out = row.entity()
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.a.with(ctx, true, func(st *state) error {
		if _, ok := st.products[product.ID]; !ok {
			return domain.ErrNotFound
		}
		if r.codigoTaken(st, product.Codigo, product.ID) {
			return fmt.Errorf("codigo %q: %w", product.Codigo, domain.ErrDuplicate)
		}
		now := time.Now()
		product.UpdatedAt = &now
		st.products[product.ID] = &productRow{p: *product}
		return nil
	})
}

func sortedProducts(st *state, keep func(p *entity.Product) bool) []*entity.Product {
	out := make([]*entity.Product, 0, len(st.products))
	for _, row := range st.products {
		if keep(&row.p) {
			out = append(out, row.entity())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func page[T any](list []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(list) {
		return []T{}
	}
	list = list[skip:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func (r *ProductRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.with(ctx, false, func(st *state) error {
		out = sortedProducts(st, func(p *entity.Product) bool {
			if filter.Activo != nil && p.Activo != *filter.Activo {
				return false
			}
			return filter.Categoria == "" || p.Categoria == filter.Categoria
		})
		out = page(out, filter.Skip, filter.Limit)
		return nil
	})
	return out, err
}

func (r *ProductRepository) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	term = strings.ToLower(term)
	var out []*entity.Product
	err := r.a.with(ctx, false, func(st *state) error {
		out = sortedProducts(st, func(p *entity.Product) bool {
			return p.Activo && (strings.Contains(strings.ToLower(p.Codigo), term) ||
				strings.Contains(strings.ToLower(p.Nombre), term))
		})
		out = page(out, 0, limit)
		return nil
	})
	return out, err
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.a.with(ctx, false, func(st *state) error {
		n = len(st.products)
		return nil
	})
	return n, err
}

// LockForUpdate dentro de Run el lock del Store ya es exclusivo; solo lee las filas.
func (r *ProductRepository) LockForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Product, error) {
	out := make(map[int64]*entity.Product, len(ids))
	err := r.a.with(ctx, false, func(st *state) error {
		for _, id := range ids {
			if row, ok := st.products[id]; ok {
				out[id] = row.entity()
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, amount int) (int, error) {
	var newStock int
	err := r.a.with(ctx, true, func(st *state) error {
		row, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if row.p.Stock < amount {
			return domain.ErrStockWouldGoNegative
		}
		next := row.p
		next.Stock -= amount
		st.products[id] = &productRow{p: next}
		newStock = next.Stock
		return nil
	})
	return newStock, err
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.with(ctx, false, func(st *state) error {
		out = sortedProducts(st, func(p *entity.Product) bool { return p.Activo })
		return nil
	})
	return out, err
}

func (r *ProductRepository) CountActiveWhere(ctx context.Context, predicate entity.ProductPredicate) (int, error) {
	var n int
	err := r.a.with(ctx, false, func(st *state) error {
		for _, row := range st.products {
			if row.p.Activo && predicate.Match(&row.p) {
				n++
			}
		}
		return nil
	})
	return n, err
}
