package repository

import (
	"context"

	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

// SaleRepository persistencia de ventas y sus líneas.
type SaleRepository interface {
	// Create inserta cabecera y líneas; asigna IDs y CreatedAt.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	// List devuelve cabeceras (sin líneas), más recientes primero.
	List(ctx context.Context, skip, limit int) ([]*entity.Sale, error)
}
