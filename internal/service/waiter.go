// FILE: internal/service/waiter.go
package service

import (
	"context"
	"sync"
	"time"
)

// WaitTimeout is the longest a client may wait for a game to change
const WaitTimeout = 25 * time.Second

// WaitRegistry wakes long-polling clients when a game changes. Each game has one channel
// that is closed on the next change and replaced lazily.
type WaitRegistry struct {
	mu      sync.Mutex
	waiters map[string]chan struct{}
	closed  bool
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{waiters: make(map[string]chan struct{})}
}

// channel returns the channel closed by the next NotifyGame for gameID
func (w *WaitRegistry) channel(gameID string) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	ch, ok := w.waiters[gameID]
	if !ok {
		ch = make(chan struct{})
		w.waiters[gameID] = ch
	}
	return ch
}

// NotifyGame wakes every client waiting on gameID
func (w *WaitRegistry) NotifyGame(gameID string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if ch, ok := w.waiters[gameID]; ok {
		close(ch)
		delete(w.waiters, gameID)
	}
}

// Wait blocks until ch fires, ctx ends or WaitTimeout passes. Timing out is not an error.
func (w *WaitRegistry) Wait(ctx context.Context, ch <-chan struct{}) error {
	timer := time.NewTimer(WaitTimeout)
	defer timer.Stop()

	select {
	case <-ch:
		return nil
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown releases all waiters; later waits return immediately
func (w *WaitRegistry) Shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	for id, ch := range w.waiters {
		close(ch)
		delete(w.waiters, id)
	}
}
