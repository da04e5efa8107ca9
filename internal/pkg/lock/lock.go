// Package lock provides per-username locking for session mutations.
// Session start must close any prior open session before inserting a new
// one; serializing that read-modify-write per username keeps the
// single-open-session invariant under concurrent starts.
package lock

import "sync"

// keyMutex wraps a mutex with reference counting for cleanup.
type keyMutex struct {
	mu       sync.Mutex
	refCount int
}

// KeyLock provides per-key locking. Keys are normalized usernames.
type KeyLock struct {
	locks sync.Map // map[string]*keyMutex
	pool  sync.Pool
}

// NewKeyLock creates a new KeyLock instance.
func NewKeyLock() *KeyLock {
	return &KeyLock{
		pool: sync.Pool{
			New: func() any {
				return &keyMutex{}
			},
		},
	}
}

// getLock retrieves or creates a mutex for the given key.
func (kl *KeyLock) getLock(key string) *keyMutex {
	// Try to load existing lock
	if v, ok := kl.locks.Load(key); ok {
		return v.(*keyMutex)
	}

	// Create new lock from pool
	newLock := kl.pool.Get().(*keyMutex)
	newLock.refCount = 0

	// Store or load existing (handles race condition)
	actual, loaded := kl.locks.LoadOrStore(key, newLock)
	if loaded {
		// Another goroutine created the lock first, return ours to pool
		kl.pool.Put(newLock)
	}
	return actual.(*keyMutex)
}

// Lock acquires the lock for a key.
func (kl *KeyLock) Lock(key string) {
	lock := kl.getLock(key)
	lock.mu.Lock()
	lock.refCount++
}

// Unlock releases the lock for a key.
func (kl *KeyLock) Unlock(key string) {
	if v, ok := kl.locks.Load(key); ok {
		lock := v.(*keyMutex)
		lock.refCount--
		lock.mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false otherwise.
func (kl *KeyLock) TryLock(key string) bool {
	lock := kl.getLock(key)
	if lock.mu.TryLock() {
		lock.refCount++
		return true
	}
	return false
}

// WithLock executes a function while holding the key's lock.
// This is a convenience method that ensures proper lock/unlock.
func (kl *KeyLock) WithLock(key string, fn func() error) error {
	kl.Lock(key)
	defer kl.Unlock(key)
	return fn()
}
