package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y venta_items (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y luego las líneas en su orden. Debe correr dentro de una tx.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO ventas (total, metodo_pago, created_at)
		VALUES ($1, $2, COALESCE($3, now()))
		RETURNING id, created_at`,
		sale.Total, string(sale.PaymentMethod), nullTime(sale.CreatedAt),
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert venta: %w", err)
	}
	for i := range sale.Items {
		it := &sale.Items[i]
		it.SaleID = sale.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO venta_items (venta_id, producto_id, cantidad, precio_unitario, subtotal, posicion)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			it.SaleID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal, it.Position,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert venta_item %d: %w", it.Position, err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas ordenadas por posición.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var (
		s  entity.Sale
		pm string
	)
	err := r.q.QueryRow(ctx, `SELECT id, total, metodo_pago, created_at FROM ventas WHERE id = $1`, id).
		Scan(&s.ID, &s.Total, &pm, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}
	s.PaymentMethod = entity.PaymentMethod(pm)

	rows, err := r.q.Query(ctx, `
		SELECT id, venta_id, producto_id, cantidad, precio_unitario, subtotal, posicion
		FROM venta_items WHERE venta_id = $1 ORDER BY posicion`, id)
	if err != nil {
		return nil, fmt.Errorf("get venta_items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal, &it.Position); err != nil {
			return nil, fmt.Errorf("scan venta_item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// List cabeceras, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, skip, limit int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, total, metodo_pago, created_at FROM ventas
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2`, skip, nullLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()
	list := []*entity.Sale{}
	for rows.Next() {
		var (
			s  entity.Sale
			pm string
		)
		if err := rows.Scan(&s.ID, &s.Total, &pm, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		s.PaymentMethod = entity.PaymentMethod(pm)
		list = append(list, &s)
	}
	return list, rows.Err()
}
