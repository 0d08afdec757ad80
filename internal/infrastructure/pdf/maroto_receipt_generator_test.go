package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/infrastructure/pdf"
)

func TestFormatCLP(t *testing.T) {
	cases := map[string]string{
		"0":       "$0",
		"990":     "$990",
		"14990":   "$14.990",
		"19927.60": "$19.928",
		"1250000": "$1.250.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, pdf.FormatCLP(decimal.RequireFromString(in)), in)
	}
}

func TestRenderSaleReceipt_GeneraPDF(t *testing.T) {
	g := pdf.NewMarotoReceiptGenerator(time.UTC)
	r := &ledger.Receipt{
		ShopName: "Botillería Test",
		Sale: &entity.Sale{
			ID:            7,
			Total:         decimal.NewFromInt(20980),
			PaymentMethod: entity.PaymentCash,
			CreatedAt:     time.Date(2024, 3, 1, 20, 30, 0, 0, time.UTC),
		},
		Lines: []ledger.ReceiptLine{
			{Quantity: 2, Codigo: "PISCO001", Nombre: "Pisco Mistral 35°", UnitPrice: decimal.NewFromInt(6990), Subtotal: decimal.NewFromInt(13980)},
			{Quantity: 1, Codigo: "RON001", Nombre: "Ron Havana Club", UnitPrice: decimal.NewFromInt(7000), Subtotal: decimal.NewFromInt(7000)},
		},
	}

	doc, err := g.RenderSaleReceipt(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
