// Package lock provides per-chat mutual exclusion. Queue deliveries
// for one chat may arrive concurrently, and the session record in the
// key-value store is read-modify-write, so every load-dispatch-save
// cycle runs under the chat's lock.
package lock

import (
	"context"
	"sync"
	"time"
)

// ChatLock hands out one mutex per chat id. Locks for different chats
// are independent.
type ChatLock struct {
	locks sync.Map // map[int64]*sync.Mutex
}

// NewChatLock creates a new ChatLock instance.
func NewChatLock() *ChatLock {
	return &ChatLock{}
}

func (cl *ChatLock) getLock(chatID int64) *sync.Mutex {
	if v, ok := cl.locks.Load(chatID); ok {
		return v.(*sync.Mutex)
	}

	actual, _ := cl.locks.LoadOrStore(chatID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// Lock acquires the chat's lock, blocking until it is available.
func (cl *ChatLock) Lock(chatID int64) {
	cl.getLock(chatID).Lock()
}

// Unlock releases the chat's lock.
func (cl *ChatLock) Unlock(chatID int64) {
	if v, ok := cl.locks.Load(chatID); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// TryLock attempts to acquire the chat's lock without blocking.
func (cl *ChatLock) TryLock(chatID int64) bool {
	return cl.getLock(chatID).TryLock()
}

// WithLock runs fn while holding the chat's lock.
func (cl *ChatLock) WithLock(chatID int64, fn func() error) error {
	cl.Lock(chatID)
	defer cl.Unlock(chatID)
	return fn()
}

// WithLockContext runs fn while holding the chat's lock, giving up
// with ErrLockTimeout when the lock cannot be acquired in time.
func (cl *ChatLock) WithLockContext(ctx context.Context, chatID int64, timeout time.Duration, fn func() error) error {
	mu := cl.getLock(chatID)

	acquired := make(chan struct{})
	go func() {
		mu.Lock()
		close(acquired)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-acquired:
	case <-timeoutCtx.Done():
		// the waiting goroutine will eventually get the lock;
		// release it right away so the chat is not stuck
		go func() {
			<-acquired
			mu.Unlock()
		}()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrLockTimeout
	}

	defer mu.Unlock()
	return fn()
}
