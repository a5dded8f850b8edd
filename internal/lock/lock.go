package lock

import (
	"context"
	"sync"
)

// Locker guards a scheduler tick. TryLock never blocks: ok is false when
// another holder owns the lock. unlock is non-nil only when ok is true.
type Locker interface {
	TryLock(ctx context.Context) (unlock func(), ok bool, err error)
}

// LocalLocker serialises ticks inside one process.
type LocalLocker struct {
	mu sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{}
}

func (l *LocalLocker) TryLock(ctx context.Context) (func(), bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if !l.mu.TryLock() {
		return nil, false, nil
	}

	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, true, nil
}
