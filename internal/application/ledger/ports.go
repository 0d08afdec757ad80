package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// IdempotencyStore reserva claves Idempotency-Key para que un doble envío desde la caja
// no registre dos veces la misma venta o retiro.
type IdempotencyStore interface {
	// Reserve marca la clave como "en curso". Devuelve false si ya existía.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Complete asocia la clave al ID creado.
	Complete(ctx context.Context, key string, id int64, ttl time.Duration) error
	// Lookup devuelve el ID asociado; done=false si la clave sigue en curso o no existe.
	Lookup(ctx context.Context, key string) (id int64, done bool, err error)
	// Release libera una reserva cuyo registro falló.
	Release(ctx context.Context, key string) error
}

// Recorder recibe los eventos del motor para métricas.
type Recorder interface {
	SaleRecorded(total decimal.Decimal, lines int)
	WithdrawalRecorded(total decimal.Decimal, lines int)
	Rejected(kind, reason string)
}

type noopRecorder struct{}

func (noopRecorder) SaleRecorded(decimal.Decimal, int)       {}
func (noopRecorder) WithdrawalRecorded(decimal.Decimal, int) {}
func (noopRecorder) Rejected(string, string)                 {}
