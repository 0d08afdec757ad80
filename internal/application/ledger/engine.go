// Package ledger contiene el motor de ventas y retiros: valida todas las líneas contra el
// stock bloqueado y solo entonces aplica los descuentos, todo en una misma transacción.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

// Kinds reportados al Recorder.
const (
	KindSale       = "venta"
	KindWithdrawal = "retiro"
)

// LedgerUseCase registra ventas y retiros de forma atómica y expone su consulta.
type LedgerUseCase struct {
	txRunner       TxRunner
	saleRepo       repository.SaleRepository
	withdrawalRepo repository.WithdrawalRepository
	recorder       Recorder
	log            zerolog.Logger
	now            func() time.Time

	idem    IdempotencyStore
	idemTTL time.Duration
}

// NewLedgerUseCase construye el caso de uso. recorder puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	withdrawalRepo repository.WithdrawalRepository,
	recorder Recorder,
	log zerolog.Logger,
) *LedgerUseCase {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &LedgerUseCase{
		txRunner:       txRunner,
		saleRepo:       saleRepo,
		withdrawalRepo: withdrawalRepo,
		recorder:       recorder,
		log:            log,
		now:            time.Now,
	}
}

// WithClock reemplaza el reloj usado para fechar ventas, retiros y movimientos.
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// lineRequest línea normalizada; unitPrice nil significa "usar precio_venta del producto".
type lineRequest struct {
	productID int64
	quantity  int
	unitPrice *decimal.Decimal
}

// pricedLine línea que pasó la validación.
type pricedLine struct {
	product   *entity.Product
	quantity  int
	unitPrice decimal.Decimal
	subtotal  decimal.Decimal
}

// validateLines es la fase de validación: bloquea las filas y revisa cada línea en el
// orden recibido. Reporta el primer error encontrado. La cantidad ya reservada por líneas
// anteriores del mismo producto se descuenta del disponible.
func validateLines(
	ctx context.Context,
	products repository.ProductRepository,
	lines []lineRequest,
	stockMessage func(p *entity.Product, available int) string,
) ([]pricedLine, decimal.Decimal, error) {
	locked, err := products.LockForUpdate(ctx, distinctSorted(lines))
	if err != nil {
		return nil, decimal.Zero, domain.Persistence("bloquear productos", err)
	}

	total := decimal.Zero
	claimed := make(map[int64]int, len(locked))
	priced := make([]pricedLine, 0, len(lines))
	for _, l := range lines {
		p, ok := locked[l.productID]
		if !ok {
			return nil, decimal.Zero, &domain.ProductNotFoundError{ID: l.productID}
		}
		available := p.Stock - claimed[p.ID]
		if available < l.quantity {
			return nil, decimal.Zero, &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Nombre,
				Requested:   l.quantity,
				Available:   available,
				Message:     stockMessage(p, available),
			}
		}
		claimed[p.ID] += l.quantity

		price := p.PrecioVenta
		if l.unitPrice != nil {
			price = *l.unitPrice
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(l.quantity)))
		total = total.Add(subtotal)
		priced = append(priced, pricedLine{product: p, quantity: l.quantity, unitPrice: price, subtotal: subtotal})
	}
	return priced, total, nil
}

// applyDecrements es la fase de aplicación: descuenta stock y deja el movimiento en la bitácora.
func applyDecrements(
	ctx context.Context,
	repos repository.Repositories,
	lines []pricedLine,
	movementType string,
	referenceID int64,
	now time.Time,
) error {
	for _, l := range lines {
		newStock, err := repos.Products.DecrementStock(ctx, l.product.ID, l.quantity)
		if err != nil {
			// Tras la validación con filas bloqueadas esto no debería ocurrir:
			// es una falla de control de concurrencia, no un error del usuario.
			if errors.Is(err, domain.ErrStockWouldGoNegative) || errors.Is(err, domain.ErrNotFound) {
				return domain.Persistence(fmt.Sprintf("descontar stock del producto %d", l.product.ID), err)
			}
			return domain.Persistence("descontar stock", err)
		}
		mov := &entity.StockMovement{
			ProductID:     l.product.ID,
			Type:          movementType,
			Quantity:      -l.quantity,
			StockAnterior: newStock + l.quantity,
			StockNuevo:    newStock,
			ReferenceID:   referenceID,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return domain.Persistence("registrar movimiento de stock", err)
		}
	}
	return nil
}

func distinctSorted(lines []lineRequest) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.productID]; ok {
			continue
		}
		seen[l.productID] = struct{}{}
		ids = append(ids, l.productID)
	}
	// Orden ascendente: dos transacciones concurrentes bloquean en el mismo orden.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// rejectionReason clasifica el error para métricas y logs.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "persistence"
	}
}

func (uc *LedgerUseCase) reject(kind string, err error) error {
	reason := rejectionReason(err)
	uc.recorder.Rejected(kind, reason)
	ev := uc.log.Warn()
	if reason == "persistence" {
		ev = uc.log.Error()
	}
	ev.Err(err).Str("tipo", kind).Str("motivo", reason).Msg("transacción rechazada")
	return err
}
