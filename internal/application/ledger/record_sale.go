package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

// SaleLineInput línea de venta tal como la envía la caja.
type SaleLineInput struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// SaleInput entrada de RecordSale.
type SaleInput struct {
	PaymentMethod string
	Lines         []SaleLineInput
}

func (in SaleInput) validate() (entity.PaymentMethod, []lineRequest, error) {
	pm, ok := entity.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return "", nil, domain.Invalid("metodo_pago", "debe ser efectivo, tarjeta o transferencia")
	}
	if len(in.Lines) == 0 {
		return "", nil, domain.Invalid("items", "la venta debe tener al menos un ítem")
	}
	lines := make([]lineRequest, 0, len(in.Lines))
	for i, l := range in.Lines {
		if l.Quantity <= 0 {
			return "", nil, domain.Invalid(fmt.Sprintf("items[%d].cantidad", i), "debe ser mayor que 0")
		}
		if l.UnitPrice.IsNegative() {
			return "", nil, domain.Invalid(fmt.Sprintf("items[%d].precio_unitario", i), "no puede ser negativo")
		}
		price := l.UnitPrice.Round(2)
		lines = append(lines, lineRequest{productID: l.ProductID, quantity: l.Quantity, unitPrice: &price})
	}
	return pm, lines, nil
}

// RecordSale valida todas las líneas contra el stock y, solo si todas pasan, crea la venta,
// sus líneas y descuenta el stock en una única transacción.
//
// Errores: domain.ErrInvalidInput (sin tocar la BD), *domain.ProductNotFoundError,
// *domain.InsufficientStockError, domain.ErrPersistence.
func (uc *LedgerUseCase) RecordSale(ctx context.Context, in SaleInput) (*entity.Sale, error) {
	pm, lines, err := in.validate()
	if err != nil {
		return nil, uc.reject(KindSale, err)
	}

	var sale *entity.Sale
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		priced, total, err := validateLines(ctx, repos.Products, lines, func(p *entity.Product, available int) string {
			return fmt.Sprintf("Stock insuficiente para %s. Disponible: %d", p.Nombre, available)
		})
		if err != nil {
			return err
		}

		now := uc.now()
		sale = &entity.Sale{
			Total:         total,
			PaymentMethod: pm,
			CreatedAt:     now,
			Items:         make([]entity.SaleItem, 0, len(priced)),
		}
		for i, l := range priced {
			sale.Items = append(sale.Items, entity.SaleItem{
				ProductID: l.product.ID,
				Quantity:  l.quantity,
				UnitPrice: l.unitPrice,
				Subtotal:  l.subtotal,
				Position:  i + 1,
			})
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return domain.Persistence("crear venta", err)
		}
		return applyDecrements(ctx, repos, priced, entity.MovementTypeVenta, sale.ID, now)
	})
	if err != nil {
		return nil, uc.reject(KindSale, err)
	}

	uc.recorder.SaleRecorded(sale.Total, len(sale.Items))
	uc.log.Info().
		Int64("venta_id", sale.ID).
		Str("total", sale.Total.StringFixed(2)).
		Str("metodo_pago", string(sale.PaymentMethod)).
		Int("items", len(sale.Items)).
		Msg("venta registrada")
	return sale, nil
}

// GetSale obtiene una venta con sus líneas.
func (uc *LedgerUseCase) GetSale(ctx context.Context, id int64) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("obtener venta", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// ListSales lista ventas, más recientes primero.
func (uc *LedgerUseCase) ListSales(ctx context.Context, skip, limit int) ([]*entity.Sale, error) {
	list, err := uc.saleRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, domain.Persistence("listar ventas", err)
	}
	return list, nil
}
