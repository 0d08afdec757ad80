package ledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

// ReceiptLine línea de la boleta ya enriquecida con los datos del producto.
type ReceiptLine struct {
	Quantity  int
	Codigo    string
	Nombre    string
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// Receipt datos que necesita el generador de la boleta.
type Receipt struct {
	ShopName string
	Sale     *entity.Sale
	Lines    []ReceiptLine
}

// ReceiptRenderer genera el documento de una boleta (PDF).
type ReceiptRenderer interface {
	RenderSaleReceipt(ctx context.Context, receipt *Receipt) ([]byte, error)
}

// ReceiptUseCase arma la boleta de una venta registrada.
type ReceiptUseCase struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	renderer ReceiptRenderer
	shopName string
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	renderer ReceiptRenderer,
	shopName string,
) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, products: products, renderer: renderer, shopName: shopName}
}

// SaleReceipt devuelve el PDF y el nombre de archivo sugerido.
// Retorna domain.ErrNotFound si la venta no existe.
func (uc *ReceiptUseCase) SaleReceipt(ctx context.Context, saleID int64) ([]byte, string, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("boleta: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	lines := make([]ReceiptLine, 0, len(sale.Items))
	for _, it := range sale.Items {
		line := ReceiptLine{
			Quantity:  it.Quantity,
			Nombre:    "Producto " + strconv.FormatInt(it.ProductID, 10),
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
		// las líneas pueden apuntar a productos dados de baja; solo se pierde el nombre
		if p, pErr := uc.products.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
			line.Codigo = p.Codigo
			line.Nombre = p.Nombre
		}
		lines = append(lines, line)
	}

	doc, err := uc.renderer.RenderSaleReceipt(ctx, &Receipt{ShopName: uc.shopName, Sale: sale, Lines: lines})
	if err != nil {
		return nil, "", fmt.Errorf("boleta: generación fallida: %w", err)
	}
	return doc, fmt.Sprintf("boleta_%06d.pdf", sale.ID), nil
}
