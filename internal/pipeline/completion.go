// Package pipeline connects a producing goroutine to a consuming goroutine
// through a token queue and tells the consumer when production is over.
package pipeline

import "sync"

// Completion is a one-shot signal raised by a producer once it will push no
// more items. Fire may be called any number of times.
type Completion struct {
	once sync.Once
	done chan struct{}
}

// NewCompletion creates an unfired signal.
func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Fire raises the signal.
func (c *Completion) Fire() {
	c.once.Do(func() { close(c.done) })
}

// Fired reports whether Fire has been called.
func (c *Completion) Fired() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed by Fire.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Readiness is a flag set once by the consumer when it has drained
// everything. Waiters block until it is set.
type Readiness struct {
	mu    sync.Mutex
	cond  *sync.Cond
	ready bool
}

// NewReadiness creates an unset flag.
func NewReadiness() *Readiness {
	r := &Readiness{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Set marks the flag and wakes every waiter.
func (r *Readiness) Set() {
	r.mu.Lock()
	r.ready = true
	r.mu.Unlock()
	r.cond.Broadcast()
}

// IsSet reports whether Set has been called.
func (r *Readiness) IsSet() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// Wait blocks until Set has been called.
func (r *Readiness) Wait() {
	r.mu.Lock()
	for !r.ready {
		r.cond.Wait()
	}
	r.mu.Unlock()
}
