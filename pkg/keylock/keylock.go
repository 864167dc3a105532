// Package keylock provides mutual exclusion keyed by an arbitrary
// comparable value. The game services use it to serialize read-modify-write
// sequences per account while letting different accounts proceed in parallel.
package keylock

import "sync"

// KeyLock is a set of mutexes addressed by key. The zero value is not
// usable; call New.
type KeyLock[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty KeyLock.
func New[K comparable]() *KeyLock[K] {
	return &KeyLock[K]{locks: make(map[K]*entry)}
}

// Lock acquires the mutex for key, blocking until it is available.
func (l *KeyLock[K]) Lock(key K) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. The entry is removed once no goroutine
// holds or waits on it, so the map does not grow with the account set.
func (l *KeyLock[K]) Unlock(key K) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		l.mu.Unlock()
		panic("keylock: unlock of unheld key")
	}
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}
