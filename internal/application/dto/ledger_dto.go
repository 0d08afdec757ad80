package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/application/ledger"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

// SaleItemRequest línea de venta recibida desde la caja. El precio es obligatorio:
// una línea sin precio_unitario se rechaza en vez de venderse a 0.
type SaleItemRequest struct {
	ProductoID     int64            `json:"producto_id" validate:"gt=0"`
	Cantidad       int              `json:"cantidad" validate:"gt=0"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario" validate:"required,gte=0"`
}

// CreateSaleRequest cuerpo de POST /api/ventas.
type CreateSaleRequest struct {
	Items      []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	MetodoPago string            `json:"metodo_pago" validate:"required"`
}

// Input convierte la petición en la entrada del motor.
func (r CreateSaleRequest) Input() ledger.SaleInput {
	in := ledger.SaleInput{PaymentMethod: r.MetodoPago, Lines: make([]ledger.SaleLineInput, 0, len(r.Items))}
	for _, it := range r.Items {
		price := decimal.Zero
		if it.PrecioUnitario != nil {
			price = *it.PrecioUnitario
		}
		in.Lines = append(in.Lines, ledger.SaleLineInput{
			ProductID: it.ProductoID,
			Quantity:  it.Cantidad,
			UnitPrice: price,
		})
	}
	return in
}

// WithdrawalItemRequest línea de retiro.
type WithdrawalItemRequest struct {
	ProductoID int64 `json:"producto_id" validate:"gt=0"`
	Cantidad   int   `json:"cantidad" validate:"gt=0"`
}

// CreateWithdrawalRequest cuerpo de POST /api/retiros.
type CreateWithdrawalRequest struct {
	Items []WithdrawalItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r CreateWithdrawalRequest) Input() ledger.WithdrawalInput {
	in := ledger.WithdrawalInput{Lines: make([]ledger.WithdrawalLineInput, 0, len(r.Items))}
	for _, it := range r.Items {
		in.Lines = append(in.Lines, ledger.WithdrawalLineInput{ProductID: it.ProductoID, Quantity: it.Cantidad})
	}
	return in
}

// LineItemResponse línea de venta o retiro.
type LineItemResponse struct {
	ID             int64           `json:"id"`
	ProductoID     int64           `json:"producto_id"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con sus líneas. Items se omite en los listados.
type SaleResponse struct {
	ID         int64              `json:"id"`
	Total      decimal.Decimal    `json:"total"`
	MetodoPago string             `json:"metodo_pago"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []LineItemResponse `json:"items,omitempty"`
}

// WithdrawalResponse retiro con sus líneas.
type WithdrawalResponse struct {
	ID        int64              `json:"id"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []LineItemResponse `json:"items,omitempty"`
}

func NewSaleResponse(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:         s.ID,
		Total:      s.Total,
		MetodoPago: string(s.PaymentMethod),
		CreatedAt:  s.CreatedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, LineItemResponse{
			ID:             it.ID,
			ProductoID:     it.ProductID,
			Cantidad:       it.Quantity,
			PrecioUnitario: it.UnitPrice,
			Subtotal:       it.Subtotal,
		})
	}
	return out
}

func NewWithdrawalResponse(w *entity.Withdrawal) WithdrawalResponse {
	out := WithdrawalResponse{ID: w.ID, Total: w.Total, CreatedAt: w.CreatedAt}
	for _, it := range w.Items {
		out.Items = append(out.Items, LineItemResponse{
			ID:             it.ID,
			ProductoID:     it.ProductID,
			Cantidad:       it.Quantity,
			PrecioUnitario: it.UnitPrice,
			Subtotal:       it.Subtotal,
		})
	}
	return out
}
