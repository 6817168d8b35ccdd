package stream

import (
	"context"
	"sync"
)

type slot struct {
	ch   chan struct{}
	refs int
}

// KeyedLock serializes work per key. Waiting honours context cancellation.
type KeyedLock struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{slots: make(map[string]*slot)}
}

// Acquire blocks until key is free or ctx is done. The returned release must
// be called exactly once.
func (l *KeyedLock) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(key, s)
		})
	}, nil
}

func (l *KeyedLock) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Len reports how many keys are held or awaited.
func (l *KeyedLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
