package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tms-settlements/internal/domain"
)

func TestMemoryRunLocker_Contention(t *testing.T) {
	l := NewMemoryRunLocker()
	ctx := context.Background()

	release, err := l.TryLock(ctx, "run", time.Minute)
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "run", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)

	// otra clave es independiente
	_, err = l.TryLock(ctx, "other", time.Minute)
	assert.NoError(t, err)

	require.NoError(t, release(ctx))
	_, err = l.TryLock(ctx, "run", time.Minute)
	assert.NoError(t, err)
}

func TestMemoryRunLocker_ExpiredLockCanBeRetaken(t *testing.T) {
	now := time.Date(2026, 10, 12, 2, 0, 0, 0, time.UTC)
	l := NewMemoryRunLocker()
	l.clock = func() time.Time { return now }
	ctx := context.Background()

	staleRelease, err := l.TryLock(ctx, "run", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = l.TryLock(ctx, "run", time.Minute)
	require.NoError(t, err)

	// liberar con el token viejo no suelta el lock del nuevo dueño
	require.NoError(t, staleRelease(ctx))
	_, err = l.TryLock(ctx, "run", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)
}
