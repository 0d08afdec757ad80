// Package inventory servicios de dominio sobre el stock.
package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una reposición.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// El stock negativo se trata como cero.
func WeightedAverageCost(stock int, cost decimal.Decimal, qty int, unitCost decimal.Decimal) decimal.Decimal {
	if stock < 0 {
		stock = 0
	}
	sum := stock + qty
	if sum <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(stock)).Mul(cost).Add(decimal.NewFromInt(int64(qty)).Mul(unitCost))
	return num.Div(decimal.NewFromInt(int64(sum)))
}

// SuggestedOrder cantidad a pedir para llegar a 1,5 veces el punto de reorden.
func SuggestedOrder(stock, stockMinimo int) int {
	ideal := (stockMinimo*3 + 1) / 2
	if q := ideal - stock; q > 0 {
		return q
	}
	return 0
}
