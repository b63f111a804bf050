package lock

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/tms-settlements/internal/application/settlement"
	"github.com/jhoicas/tms-settlements/internal/domain"
)

var _ settlement.RunLocker = (*MemoryRunLocker)(nil)

type memoryEntry struct {
	token     uint64
	expiresAt time.Time
}

// MemoryRunLocker lock en proceso para despliegues de una sola instancia (sin Redis).
type MemoryRunLocker struct {
	mu    sync.Mutex
	held  map[string]memoryEntry
	seq   uint64
	clock func() time.Time
}

// NewMemoryRunLocker construye el locker en memoria.
func NewMemoryRunLocker() *MemoryRunLocker {
	return &MemoryRunLocker{held: make(map[string]memoryEntry), clock: time.Now}
}

// TryLock toma el lock si está libre o expirado.
func (l *MemoryRunLocker) TryLock(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if e, ok := l.held[key]; ok && now.Before(e.expiresAt) {
		return nil, domain.ErrLockNotAcquired
	}
	l.seq++
	token := l.seq
	l.held[key] = memoryEntry{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if e, ok := l.held[key]; ok && e.token == token {
			delete(l.held, key)
		}
		return nil
	}, nil
}
