package repository

import (
	"context"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

// StockMovementRepository bitácora append-only de cambios de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockMovement, error)
}
