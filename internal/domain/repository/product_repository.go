package repository

import (
	"context"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del catálogo (DIP).
// GetByID y GetByCodigo devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByCodigo(ctx context.Context, codigo string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	// Search busca por código o nombre (substring), solo productos activos.
	Search(ctx context.Context, term string, limit int) ([]*entity.Product, error)
	Count(ctx context.Context) (int, error)

	// LockForUpdate bloquea las filas indicadas hasta el fin de la transacción
	// (SELECT ... FOR UPDATE). Los ids inexistentes no aparecen en el mapa.
	LockForUpdate(ctx context.Context, ids []int64) (map[int64]*entity.Product, error)
	// DecrementStock resta amount al stock y devuelve el stock resultante.
	// Retorna domain.ErrNotFound o domain.ErrStockWouldGoNegative.
	DecrementStock(ctx context.Context, id int64, amount int) (int, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)
	CountActiveWhere(ctx context.Context, predicate entity.ProductPredicate) (int, error)
}
