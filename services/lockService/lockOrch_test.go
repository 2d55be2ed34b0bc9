package lockService

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Gavin-Payne/Adrenyline-sub001/services/storageService"
)

func exerciseLocker(t *testing.T, locker Locker, advance func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "settle", time.Minute)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	if _, err := locker.Acquire(ctx, "settle", time.Minute); !errors.Is(err, ErrLockHeld) {
		t.Fatalf("Expected ErrLockHeld while held, got %v", err)
	}

	other, err := locker.Acquire(ctx, "expire", time.Minute)
	if err != nil {
		t.Fatalf("different task should not be blocked: %v", err)
	}
	other()

	release()
	release()

	release, err = locker.Acquire(ctx, "settle", time.Minute)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}

	if advance == nil {
		release()
		return
	}

	// holder crashed without releasing; lease runs out
	advance(2 * time.Minute)
	stale := release
	fresh, err := locker.Acquire(ctx, "settle", time.Minute)
	if err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}

	// the stale holder must not release the new lease
	stale()
	if _, err := locker.Acquire(ctx, "settle", time.Minute); !errors.Is(err, ErrLockHeld) {
		t.Fatalf("stale release dropped the new lease: %v", err)
	}
	fresh()
}

func TestMemoryLocker(t *testing.T) {
	locker := NewMemoryLocker()
	now := time.Now()
	locker.now = func() time.Time { return now }

	exerciseLocker(t, locker, func(d time.Duration) { now = now.Add(d) })
}

func TestDBLocker(t *testing.T) {
	locker := NewDBLocker(storageService.NewTestDB(t))
	now := time.Now()
	locker.now = func() time.Time { return now }

	exerciseLocker(t, locker, func(d time.Duration) { now = now.Add(d) })
}

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	locker, err := NewRedisLocker(context.Background(), RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer locker.Close()
	locker.prefix = "lock:test:" + t.Name() + ":"

	exerciseLocker(t, locker, nil)
}
