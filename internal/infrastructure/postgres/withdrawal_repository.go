package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

var _ repository.WithdrawalRepository = (*WithdrawalRepo)(nil)

// WithdrawalRepo retiros y retiro_items (usable con pool o tx).
type WithdrawalRepo struct {
	q Querier
}

// NewWithdrawalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWithdrawalRepository(q Querier) *WithdrawalRepo {
	return &WithdrawalRepo{q: q}
}

func (r *WithdrawalRepo) Create(ctx context.Context, w *entity.Withdrawal) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO retiros (total, created_at)
		VALUES ($1, COALESCE($2, now()))
		RETURNING id, created_at`,
		w.Total, nullTime(w.CreatedAt),
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert retiro: %w", err)
	}
	for i := range w.Items {
		it := &w.Items[i]
		it.WithdrawalID = w.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO retiro_items (retiro_id, producto_id, cantidad, precio_unitario, subtotal, posicion)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			it.WithdrawalID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal, it.Position,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert retiro_item %d: %w", it.Position, err)
		}
	}
	return nil
}

func (r *WithdrawalRepo) GetByID(ctx context.Context, id int64) (*entity.Withdrawal, error) {
	var w entity.Withdrawal
	err := r.q.QueryRow(ctx, `SELECT id, total, created_at FROM retiros WHERE id = $1`, id).
		Scan(&w.ID, &w.Total, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get retiro: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, retiro_id, producto_id, cantidad, precio_unitario, subtotal, posicion
		FROM retiro_items WHERE retiro_id = $1 ORDER BY posicion`, id)
	if err != nil {
		return nil, fmt.Errorf("get retiro_items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.WithdrawalItem
		if err := rows.Scan(&it.ID, &it.WithdrawalID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal, &it.Position); err != nil {
			return nil, fmt.Errorf("scan retiro_item: %w", err)
		}
		w.Items = append(w.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepo) List(ctx context.Context, skip, limit int) ([]*entity.Withdrawal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, total, created_at FROM retiros
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2`, skip, nullLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list retiros: %w", err)
	}
	defer rows.Close()
	list := []*entity.Withdrawal{}
	for rows.Next() {
		var w entity.Withdrawal
		if err := rows.Scan(&w.ID, &w.Total, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan retiro: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}
