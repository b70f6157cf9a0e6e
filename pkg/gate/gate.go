package gate

import (
	"context"
	"sync"
	"time"
)

// Gate is a manually-reset binary signal. The zero value is not usable;
// create gates with New.
type Gate struct {
	mu  sync.Mutex
	set bool
	ch  chan struct{} // closed while set
}

// New returns a cleared gate.
func New() *Gate {
	return &Gate{ch: make(chan struct{})}
}

// Set signals the gate. Waiters blocked in Wait return nil.
// Setting an already signaled gate has no effect.
func (g *Gate) Set() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.set {
		return
	}
	g.set = true
	close(g.ch)
}

// Clear resets the gate so subsequent Wait calls block until the next Set.
func (g *Gate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.set {
		return
	}
	g.set = false
	g.ch = make(chan struct{})
}

// IsSet reports whether the gate is signaled.
func (g *Gate) IsSet() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.set
}

// Done returns a channel that is closed while the gate is signaled.
// The channel returned before a Clear is never reused afterwards.
func (g *Gate) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ch
}

// Wait blocks until the gate is signaled or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitTimeout blocks for at most d and reports whether the gate was signaled.
// A non-positive d checks the gate without blocking.
func (g *Gate) WaitTimeout(d time.Duration) bool {
	if d <= 0 {
		return g.IsSet()
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return g.Wait(ctx) == nil
}
