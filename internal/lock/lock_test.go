package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	unlock, ok, err := l.TryLock(ctx)
	if err != nil || !ok {
		t.Fatalf("first TryLock: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := l.TryLock(ctx); ok {
		t.Fatal("second TryLock should fail while held")
	}

	unlock()
	unlock()

	unlock, ok, err = l.TryLock(ctx)
	if err != nil || !ok {
		t.Fatalf("TryLock after unlock: ok=%v err=%v", ok, err)
	}
	unlock()
}

func TestLocalLockerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok, err := NewLocalLocker().TryLock(ctx); ok || err == nil {
		t.Fatalf("expected context error, ok=%v err=%v", ok, err)
	}
}

func newRedisLocker(t *testing.T, ttl time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l, err := NewRedisLocker(client, "", ttl)
	if err != nil {
		t.Fatalf("new redis locker: %v", err)
	}
	return l, mr
}

func TestRedisLockerExclusive(t *testing.T) {
	l, mr := newRedisLocker(t, time.Minute)
	ctx := context.Background()

	unlock, ok, err := l.TryLock(ctx)
	if err != nil || !ok {
		t.Fatalf("first TryLock: ok=%v err=%v", ok, err)
	}
	if !mr.Exists(DefaultKey) {
		t.Fatalf("expected %s to be set", DefaultKey)
	}
	if ttl := mr.TTL(DefaultKey); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}

	if _, ok, err := l.TryLock(ctx); err != nil || ok {
		t.Fatalf("second TryLock: ok=%v err=%v", ok, err)
	}

	unlock()
	if mr.Exists(DefaultKey) {
		t.Fatal("expected lock key to be released")
	}
}

func TestRedisLockerReleaseKeepsForeignToken(t *testing.T) {
	l, mr := newRedisLocker(t, time.Minute)

	unlock, ok, err := l.TryLock(context.Background())
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}

	// lease expired and another instance took over
	mr.FastForward(2 * time.Minute)
	if err := mr.Set(DefaultKey, "other-instance"); err != nil {
		t.Fatalf("set: %v", err)
	}

	unlock()
	got, err := mr.Get(DefaultKey)
	if err != nil || got != "other-instance" {
		t.Fatalf("foreign lock should survive, got %q err=%v", got, err)
	}
}

func TestRedisLockerExpires(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second)
	ctx := context.Background()

	if _, ok, _ := l.TryLock(ctx); !ok {
		t.Fatal("expected first lock")
	}
	mr.FastForward(2 * time.Second)
	if _, ok, _ := l.TryLock(ctx); !ok {
		t.Fatal("expected lock after ttl expiry")
	}
}

func TestRedisLockerUnavailable(t *testing.T) {
	l, mr := newRedisLocker(t, time.Minute)
	mr.Close()
	if _, ok, err := l.TryLock(context.Background()); ok || err == nil {
		t.Fatalf("expected redis error, ok=%v err=%v", ok, err)
	}
}

func TestNewRedisLockerValidation(t *testing.T) {
	if _, err := NewRedisLocker(nil, "", time.Minute); err == nil {
		t.Fatal("expected error for nil client")
	}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	if _, err := NewRedisLocker(client, "", 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
