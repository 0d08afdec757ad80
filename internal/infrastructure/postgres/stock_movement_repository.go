package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo bitácora movimientos_stock; solo inserta y lee.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO movimientos_stock (producto_id, tipo, cantidad, stock_anterior, stock_nuevo, referencia_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
		RETURNING id, created_at`,
		m.ProductID, m.Type, m.Quantity, m.StockAnterior, m.StockNuevo, m.ReferenceID, nullTime(m.CreatedAt),
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert movimiento_stock: %w", err)
	}
	return nil
}

// ListByProduct movimientos del producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, producto_id, tipo, cantidad, stock_anterior, stock_nuevo, referencia_id, created_at
		FROM movimientos_stock WHERE producto_id = $1
		ORDER BY id DESC LIMIT $2`, productID, nullLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list movimientos_stock: %w", err)
	}
	defer rows.Close()
	list := []*entity.StockMovement{}
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.StockAnterior, &m.StockNuevo, &m.ReferenceID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movimiento_stock: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
