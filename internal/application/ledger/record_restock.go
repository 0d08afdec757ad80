package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/inventory"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

// KindRestock tipo reportado en logs y rechazos.
const KindRestock = "reposicion"

// RestockInput entrada de mercadería para un producto.
// UnitCost nil deja el precio_compra como está.
type RestockInput struct {
	ProductID int64
	Quantity  int
	UnitCost  *decimal.Decimal
}

// RecordRestock suma stock a un producto y deja un movimiento positivo en la bitácora.
// Si viene costo unitario, precio_compra pasa a ser el costo promedio ponderado.
func (uc *LedgerUseCase) RecordRestock(ctx context.Context, in RestockInput) (*entity.Product, error) {
	if in.Quantity <= 0 {
		return nil, uc.reject(KindRestock, domain.Invalid("cantidad", "debe ser mayor que 0"))
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, uc.reject(KindRestock, domain.Invalid("costo_unitario", "no puede ser negativo"))
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		locked, err := repos.Products.LockForUpdate(ctx, []int64{in.ProductID})
		if err != nil {
			return domain.Persistence("bloquear producto", err)
		}
		p, ok := locked[in.ProductID]
		if !ok {
			return &domain.ProductNotFoundError{ID: in.ProductID}
		}

		before := p.Stock
		if in.UnitCost != nil {
			p.PrecioCompra = inventory.WeightedAverageCost(before, p.PrecioCompra, in.Quantity, *in.UnitCost).Round(2)
		}
		p.Stock = before + in.Quantity
		if err := repos.Products.Update(ctx, p); err != nil {
			return domain.Persistence("actualizar stock", err)
		}
		mov := &entity.StockMovement{
			ProductID:     p.ID,
			Type:          entity.MovementTypeReposicion,
			Quantity:      in.Quantity,
			StockAnterior: before,
			StockNuevo:    p.Stock,
			CreatedAt:     uc.now(),
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return domain.Persistence("registrar movimiento de stock", err)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, uc.reject(KindRestock, err)
	}

	uc.log.Info().
		Int64("producto_id", product.ID).
		Int("cantidad", in.Quantity).
		Int("stock", product.Stock).
		Str("precio_compra", product.PrecioCompra.StringFixed(2)).
		Msg("reposición registrada")
	return product, nil
}
