package session

import (
	"context"
	"sync"

	"ai-triage-be/pkg/triage"
)

// Locker serializes session operations per contact identity. TryLock never
// blocks: a held lock means another message for the same session is in
// flight and the caller must surface ErrSessionConflict.
type Locker interface {
	TryLock(ctx context.Context, contact string) (release func(), err error)
}

// MemoryLocker is the single-instance Locker, a mutex-guarded set of held
// contact identities. Used in tests and single-node deployments.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) TryLock(_ context.Context, contact string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[contact]; ok {
		return nil, triage.ErrSessionConflict
	}
	l.held[contact] = struct{}{}

	return func() {
		l.mu.Lock()
		delete(l.held, contact)
		l.mu.Unlock()
	}, nil
}
