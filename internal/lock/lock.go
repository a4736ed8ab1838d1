// Package lock serializes work per key. Cart mutations and checkout take the
// user's lock so a cart is never read and rewritten by two requests at once.
package lock

import (
	"context"
	"sync"
)

type Unlock func()

type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

type entry struct {
	ch   chan struct{}
	refs int
}

// Local is an in-process keyed mutex. Entries are dropped once nobody holds
// or waits for them.
type Local struct {
	mu   sync.Mutex
	keys map[string]*entry
}

func NewLocal() *Local {
	return &Local{keys: make(map[string]*entry)}
}

func (l *Local) Lock(ctx context.Context, key string) (Unlock, error) {
	l.mu.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.keys[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *Local) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
}
