package catalog

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/application/dto"
	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/inventory"
)

// Replenishment lista los productos activos bajo su punto de reorden con la cantidad
// sugerida de pedido. Orden: mayor margen primero, luego mayor déficit.
func (uc *ProductUseCase) Replenishment(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	products, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, domain.Persistence("listar productos activos", err)
	}

	hundred := decimal.NewFromInt(100)
	out := make([]dto.ReplenishmentSuggestion, 0)
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		qty := inventory.SuggestedOrder(p.Stock, p.StockMinimo)
		var margin decimal.Decimal
		if p.PrecioVenta.IsPositive() {
			margin = p.PrecioVenta.Sub(p.PrecioCompra).Div(p.PrecioVenta).Mul(hundred).Round(2)
		}
		out = append(out, dto.ReplenishmentSuggestion{
			ProductID:     p.ID,
			Codigo:        p.Codigo,
			Nombre:        p.Nombre,
			Stock:         p.Stock,
			StockMinimo:   p.StockMinimo,
			StockIdeal:    p.Stock + qty,
			CantidadPedir: qty,
			PrecioCompra:  p.PrecioCompra,
			CostoEstimado: p.PrecioCompra.Mul(decimal.NewFromInt(int64(qty))),
			MargenPct:     margin,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.MargenPct.Equal(b.MargenPct) {
			return a.MargenPct.GreaterThan(b.MargenPct)
		}
		return a.StockMinimo-a.Stock > b.StockMinimo-b.Stock
	})
	for i := range out {
		out[i].Prioridad = i + 1
	}
	return out, nil
}
