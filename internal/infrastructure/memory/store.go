// Package memory implementa los repositorios sobre un estado en memoria.
// Se usa con STORAGE_DRIVER=memory en desarrollo y como doble de prueba.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/botilleria-pos/internal/domain/repository"
)

type state struct {
	products    map[int64]*productRow
	sales       []saleRow
	withdrawals []withdrawalRow
	movements   []movementRow

	seqProduct        int64
	seqSale           int64
	seqSaleItem       int64
	seqWithdrawal     int64
	seqWithdrawalItem int64
	seqMovement       int64
}

// clone copia el estado. Las filas son inmutables (copy-on-write), basta con copiar los contenedores.
func (s *state) clone() *state {
	c := *s
	c.products = maps.Clone(s.products)
	c.sales = slices.Clone(s.sales)
	c.withdrawals = slices.Clone(s.withdrawals)
	c.movements = slices.Clone(s.movements)
	return &c
}

// Store guarda el estado completo detrás de un RWMutex.
// Run serializa las transacciones de escritura: trabaja sobre una copia y la publica solo si fn
// no retorna error, lo que da atomicidad y aislamiento equivalentes a una tx serializable.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: &state{products: make(map[int64]*productRow)}}
}

// access resuelve cómo se toca el estado: directo (bloqueando por llamada) o dentro de una tx.
type access struct {
	store *Store
	tx    *state
	ro    bool
}

func (a access) with(ctx context.Context, write bool, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.tx != nil {
		if write && a.ro {
			return errReadOnly
		}
		return fn(a.tx)
	}
	if write {
		a.store.mu.Lock()
		defer a.store.mu.Unlock()
	} else {
		a.store.mu.RLock()
		defer a.store.mu.RUnlock()
	}
	return fn(a.store.state)
}

func reposFor(a access) repository.Repositories {
	return repository.Repositories{
		Products:    &ProductRepository{a: a},
		Sales:       &SaleRepository{a: a},
		Withdrawals: &WithdrawalRepository{a: a},
		Movements:   &StockMovementRepository{a: a},
		Statistics:  &StatisticsRepository{a: a},
	}
}

// Repositories devuelve repositorios fuera de transacción: cada llamada toma el lock.
func (s *Store) Repositories() repository.Repositories {
	return reposFor(access{store: s})
}

// Run ejecuta fn como una transacción. Si fn retorna error el estado no cambia.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(reposFor(access{tx: work})); err != nil {
		return err
	}
	s.state = work
	return nil
}

// RunSnapshot ejecuta fn de solo lectura sobre una foto consistente del estado.
func (s *Store) RunSnapshot(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(reposFor(access{tx: s.state, ro: true}))
}

// Ping cumple el chequeo de salud.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
