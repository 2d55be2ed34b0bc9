package lockService

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrLockHeld is returned when another holder owns an unexpired lease.
var ErrLockHeld = errors.New("lock held")

// Locker hands out named leases. A lease expires on its own after ttl so a
// holder that dies mid-run cannot block later runs forever. The returned
// release func is safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), err error)
}

type memoryLease struct {
	token     string
	expiresAt time.Time
}

// MemoryLocker coordinates runs within one process.
type MemoryLocker struct {
	mu     sync.Mutex
	leases map[string]memoryLease
	now    func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{leases: map[string]memoryLease{}, now: time.Now}
}

func (l *MemoryLocker) Acquire(_ context.Context, name string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if lease, ok := l.leases[name]; ok && now.Before(lease.expiresAt) {
		return nil, ErrLockHeld
	}
	token := uuid.NewString()
	l.leases[name] = memoryLease{token: token, expiresAt: now.Add(ttl)}

	return onceFunc(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if lease, ok := l.leases[name]; ok && lease.token == token {
			delete(l.leases, name)
		}
	}), nil
}

func onceFunc(f func()) func() {
	var once sync.Once
	return func() { once.Do(f) }
}
