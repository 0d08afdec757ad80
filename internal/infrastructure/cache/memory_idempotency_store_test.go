package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/botilleria-pos/internal/infrastructure/cache"
)

func TestMemoryIdempotencyStore_CicloCompleto(t *testing.T) {
	ctx := context.Background()
	s := cache.NewMemoryIdempotencyStore()

	ok, err := s.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "una clave reservada no se vuelve a reservar")

	_, done, err := s.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.False(t, done, "reservada pero no completada")

	require.NoError(t, s.Complete(ctx, "k", 42, time.Minute))
	id, done, err := s.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, int64(42), id)
}

func TestMemoryIdempotencyStore_ReleaseYExpiracion(t *testing.T) {
	ctx := context.Background()
	s := cache.NewMemoryIdempotencyStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.SetClock(s, func() time.Time { return now })

	_, err := s.Reserve(ctx, "a", time.Minute)
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, "a"))
	ok, err := s.Reserve(ctx, "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "tras Release la clave queda libre")

	require.NoError(t, s.Complete(ctx, "b", 7, time.Minute))
	now = now.Add(2 * time.Minute)
	_, done, err := s.Lookup(ctx, "b")
	require.NoError(t, err)
	assert.False(t, done, "la clave vencida se olvida")
}
