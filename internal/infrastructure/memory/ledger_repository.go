package memory

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

type saleRow struct{ s entity.Sale }

func (r saleRow) entity(withItems bool) *entity.Sale {
	cp := r.s
	cp.Items = nil
	if withItems {
		cp.Items = slices.Clone(r.s.Items)
	}
	return &cp
}

type withdrawalRow struct{ w entity.Withdrawal }

func (r withdrawalRow) entity(withItems bool) *entity.Withdrawal {
	cp := r.w
	cp.Items = nil
	if withItems {
		cp.Items = slices.Clone(r.w.Items)
	}
	return &cp
}

type movementRow struct{ m entity.StockMovement }

// SaleRepository implementa repository.SaleRepository.
type SaleRepository struct{ a access }

func (r *SaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.a.with(ctx, true, func(st *state) error {
		st.seqSale++
		sale.ID = st.seqSale
		sale.CreatedAt = nowOr(sale.CreatedAt)
		for i := range sale.Items {
			st.seqSaleItem++
			sale.Items[i].ID = st.seqSaleItem
			sale.Items[i].SaleID = sale.ID
		}
		row := saleRow{s: *sale}
		row.s.Items = slices.Clone(sale.Items)
		st.sales = append(st.sales, row)
		return nil
	})
}

func (r *SaleRepository) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.a.with(ctx, false, func(st *state) error {
		for _, row := range st.sales {
			if row.s.ID == id {
				out = row.entity(true)
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List más recientes primero; los IDs crecen con el tiempo, basta recorrer al revés.
func (r *SaleRepository) List(ctx context.Context, skip, limit int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.a.with(ctx, false, func(st *state) error {
		all := make([]*entity.Sale, 0, len(st.sales))
		for i := len(st.sales) - 1; i >= 0; i-- {
			all = append(all, st.sales[i].entity(false))
		}
		out = page(all, skip, limit)
		return nil
	})
	return out, err
}

// WithdrawalRepository implementa repository.WithdrawalRepository.
type WithdrawalRepository struct{ a access }

func (r *WithdrawalRepository) Create(ctx context.Context, w *entity.Withdrawal) error {
	return r.a.with(ctx, true, func(st *state) error {
		st.seqWithdrawal++
		w.ID = st.seqWithdrawal
		w.CreatedAt = nowOr(w.CreatedAt)
		for i := range w.Items {
			st.seqWithdrawalItem++
			w.Items[i].ID = st.seqWithdrawalItem
			w.Items[i].WithdrawalID = w.ID
		}
		row := withdrawalRow{w: *w}
		row.w.Items = slices.Clone(w.Items)
		st.withdrawals = append(st.withdrawals, row)
		return nil
	})
}

func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*entity.Withdrawal, error) {
	var out *entity.Withdrawal
	err := r.a.with(ctx, false, func(st *state) error {
		for _, row := range st.withdrawals {
			if row.w.ID == id {
				out = row.entity(true)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *WithdrawalRepository) List(ctx context.Context, skip, limit int) ([]*entity.Withdrawal, error) {
	var out []*entity.Withdrawal
	err := r.a.with(ctx, false, func(st *state) error {
		all := make([]*entity.Withdrawal, 0, len(st.withdrawals))
		for i := len(st.withdrawals) - 1; i >= 0; i-- {
			all = append(all, st.withdrawals[i].entity(false))
		}
		out = page(all, skip, limit)
		return nil
	})
	return out, err
}

// StockMovementRepository implementa repository.StockMovementRepository.
type StockMovementRepository struct{ a access }

func (r *StockMovementRepository) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.a.with(ctx, true, func(st *state) error {
		st.seqMovement++
		m.ID = st.seqMovement
		m.CreatedAt = nowOr(m.CreatedAt)
		st.movements = append(st.movements, movementRow{m: *m})
		return nil
	})
}

func (r *StockMovementRepository) ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.a.with(ctx, false, func(st *state) error {
		out = []*entity.StockMovement{}
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].m.ProductID != productID {
				continue
			}
			cp := st.movements[i].m
			out = append(out, &cp)
			if limit > 0 && len(out) == limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// StatisticsRepository implementa repository.StatisticsRepository.
type StatisticsRepository struct{ a access }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *StatisticsRepository) SumSalesBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.a.with(ctx, false, func(st *state) error {
		for _, row := range st.sales {
			if inRange(row.s.CreatedAt, from, to) {
				sum = sum.Add(row.s.Total)
			}
		}
		return nil
	})
	return sum, err
}

func (r *StatisticsRepository) SumWithdrawalsBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.a.with(ctx, false, func(st *state) error {
		for _, row := range st.withdrawals {
			if inRange(row.w.CreatedAt, from, to) {
				sum = sum.Add(row.w.Total)
			}
		}
		return nil
	})
	return sum, err
}

func (r *StatisticsRepository) LastSaleAt(ctx context.Context) (*time.Time, error) {
	var out *time.Time
	err := r.a.with(ctx, false, func(st *state) error {
		for _, row := range st.sales {
			if out == nil || row.s.CreatedAt.After(*out) {
				t := row.s.CreatedAt
				out = &t
			}
		}
		return nil
	})
	return out, err
}
