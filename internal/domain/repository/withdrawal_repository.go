package repository

import (
	"context"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

// WithdrawalRepository persistencia de retiros y sus líneas.
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *entity.Withdrawal) error
	GetByID(ctx context.Context, id int64) (*entity.Withdrawal, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Withdrawal, error)
}
