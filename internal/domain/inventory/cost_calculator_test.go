package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/botilleria-pos/internal/domain/inventory"
)

func TestWeightedAverageCost(t *testing.T) {
	// 10 unidades a $4.000 + 10 a $5.000 → $4.500
	got := inventory.WeightedAverageCost(10, decimal.NewFromInt(4000), 10, decimal.NewFromInt(5000))
	assert.True(t, got.Equal(decimal.NewFromInt(4500)), got.String())

	// sin stock previo el costo es el de la entrada
	got = inventory.WeightedAverageCost(0, decimal.NewFromInt(9999), 6, decimal.NewFromInt(3000))
	assert.True(t, got.Equal(decimal.NewFromInt(3000)))

	assert.True(t, inventory.WeightedAverageCost(0, decimal.Zero, 0, decimal.Zero).IsZero())
}

func TestSuggestedOrder(t *testing.T) {
	assert.Equal(t, 8, inventory.SuggestedOrder(0, 5), "ideal = ceil(5*1.5) = 8")
	assert.Equal(t, 5, inventory.SuggestedOrder(3, 5))
	assert.Equal(t, 0, inventory.SuggestedOrder(10, 5))
}
