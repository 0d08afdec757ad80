package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/botilleria-pos/internal/domain"
	"github.com/jhoicas/botilleria-pos/internal/domain/entity"
)

// DefaultIdempotencyTTL tiempo que se recuerda una Idempotency-Key completada.
const DefaultIdempotencyTTL = 24 * time.Hour

// WithIdempotency habilita RecordSaleOnce/RecordWithdrawalOnce sobre store.
func (uc *LedgerUseCase) WithIdempotency(store IdempotencyStore, ttl time.Duration) *LedgerUseCase {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	uc.idem = store
	uc.idemTTL = ttl
	return uc
}

// RecordSaleOnce registra la venta una sola vez por key. replayed=true indica que la
// venta ya existía y se devuelve la registrada originalmente.
// Una key en curso por otra petición retorna domain.ErrConflict.
func (uc *LedgerUseCase) RecordSaleOnce(ctx context.Context, key string, in SaleInput) (*entity.Sale, bool, error) {
	return runOnce(ctx, uc, KindSale+":"+key, key == "",
		func() (*entity.Sale, int64, error) {
			s, err := uc.RecordSale(ctx, in)
			if err != nil {
				return nil, 0, err
			}
			return s, s.ID, nil
		},
		func(id int64) (*entity.Sale, error) { return uc.GetSale(ctx, id) },
	)
}

// RecordWithdrawalOnce igual que RecordSaleOnce para retiros.
func (uc *LedgerUseCase) RecordWithdrawalOnce(ctx context.Context, key string, in WithdrawalInput) (*entity.Withdrawal, bool, error) {
	return runOnce(ctx, uc, KindWithdrawal+":"+key, key == "",
		func() (*entity.Withdrawal, int64, error) {
			w, err := uc.RecordWithdrawal(ctx, in)
			if err != nil {
				return nil, 0, err
			}
			return w, w.ID, nil
		},
		func(id int64) (*entity.Withdrawal, error) { return uc.GetWithdrawal(ctx, id) },
	)
}

func runOnce[T any](
	ctx context.Context,
	uc *LedgerUseCase,
	key string,
	noKey bool,
	record func() (T, int64, error),
	load func(id int64) (T, error),
) (T, bool, error) {
	var zero T
	if noKey || uc.idem == nil {
		v, _, err := record()
		return v, false, err
	}

	reserved, err := uc.idem.Reserve(ctx, key, uc.idemTTL)
	if err != nil {
		// Sin almacén de claves se sigue registrando: la caja no puede quedar detenida.
		uc.log.Warn().Err(err).Str("idempotency_key", key).Msg("no se pudo reservar la clave, se registra sin idempotencia")
		v, _, err := record()
		return v, false, err
	}
	if !reserved {
		id, done, err := uc.idem.Lookup(ctx, key)
		if err != nil {
			return zero, false, domain.Persistence("consultar idempotency key", err)
		}
		if !done {
			return zero, false, fmt.Errorf("idempotency key %q en curso: %w", key, domain.ErrConflict)
		}
		v, err := load(id)
		if err != nil {
			return zero, false, err
		}
		return v, true, nil
	}

	v, id, err := record()
	if err != nil {
		if relErr := uc.idem.Release(ctx, key); relErr != nil {
			uc.log.Warn().Err(relErr).Str("idempotency_key", key).Msg("no se pudo liberar la clave")
		}
		return zero, false, err
	}
	if err := uc.idem.Complete(ctx, key, id, uc.idemTTL); err != nil {
		uc.log.Warn().Err(err).Str("idempotency_key", key).Int64("id", id).Msg("no se pudo completar la clave")
	}
	return v, false, nil
}
