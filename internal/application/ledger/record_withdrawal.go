package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

// WithdrawalLineInput línea de retiro: el precio no lo informa la caja.
type WithdrawalLineInput struct {
	ProductID int64
	Quantity  int
}

// WithdrawalInput entrada de RecordWithdrawal.
type WithdrawalInput struct {
	Lines []WithdrawalLineInput
}

func (in WithdrawalInput) validate() ([]lineRequest, error) {
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("items", "el retiro debe tener al menos un ítem")
	}
	lines := make([]lineRequest, 0, len(in.Lines))
	for i, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].cantidad", i), "debe ser mayor que 0")
		}
		lines = append(lines, lineRequest{productID: l.ProductID, quantity: l.Quantity})
	}
	return lines, nil
}

// RecordWithdrawal registra un retiro interno. El precio unitario de cada línea es el
// precio_venta vigente del producto al momento de validar, por lo que el total refleja
// la pérdida a precio de hoy.
func (uc *LedgerUseCase) RecordWithdrawal(ctx context.Context, in WithdrawalInput) (*entity.Withdrawal, error) {
	lines, err := in.validate()
	if err != nil {
		return nil, uc.reject(KindWithdrawal, err)
	}

	var w *entity.Withdrawal
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		priced, total, err := validateLines(ctx, repos.Products, lines, func(p *entity.Product, available int) string {
			return fmt.Sprintf("Stock insuficiente para %s. Stock actual: %d", p.Nombre, available)
		})
		if err != nil {
			return err
		}

		now := uc.now()
		w = &entity.Withdrawal{
			Total:     total,
			CreatedAt: now,
			Items:     make([]entity.WithdrawalItem, 0, len(priced)),
		}
		for i, l := range priced {
			w.Items = append(w.Items, entity.WithdrawalItem{
				ProductID: l.product.ID,
				Quantity:  l.quantity,
				UnitPrice: l.unitPrice,
				Subtotal:  l.subtotal,
				Position:  i + 1,
			})
		}
		if err := repos.Withdrawals.Create(ctx, w); err != nil {
			return domain.Persistence("crear retiro", err)
		}
		return applyDecrements(ctx, repos, priced, entity.MovementTypeRetiro, w.ID, now)
	})
	if err != nil {
		return nil, uc.reject(KindWithdrawal, err)
	}

	uc.recorder.WithdrawalRecorded(w.Total, len(w.Items))
	uc.log.Info().
		Int64("retiro_id", w.ID).
		Str("total", w.Total.StringFixed(2)).
		Int("items", len(w.Items)).
		Msg("retiro registrado")
	return w, nil
}

// GetWithdrawal obtiene un retiro con sus líneas.
func (uc *LedgerUseCase) GetWithdrawal(ctx context.Context, id int64) (*entity.Withdrawal, error) {
	w, err := uc.withdrawalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence("obtener retiro", err)
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

// ListWithdrawals lista retiros, más recientes primero.
func (uc *LedgerUseCase) ListWithdrawals(ctx context.Context, skip, limit int) ([]*entity.Withdrawal, error) {
	list, err := uc.withdrawalRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, domain.Persistence("listar retiros", err)
	}
	return list, nil
}
