package pipeline

import "github.com/shapestone/shape-csv-dialect/internal/queue"

// Pipe carries items from one producer to one consumer.
//
// The producer calls Push for every item and Close when it is finished. The
// consumer runs Drain, which returns only after Close has been called and
// the queue has been observed empty, so items pushed before Close are never
// lost. Wait lets a third party block until Drain has returned.
type Pipe[T any] struct {
	queue *queue.Queue[T]
	done  *Completion
	ready *Readiness
}

// NewPipe creates an open pipe.
func NewPipe[T any]() *Pipe[T] {
	return &Pipe[T]{
		queue: queue.New[T](),
		done:  NewCompletion(),
		ready: NewReadiness(),
	}
}

// Push enqueues v for the consumer.
func (p *Pipe[T]) Push(v T) {
	p.queue.Push(v)
}

// Close signals that no more items will be pushed.
func (p *Pipe[T]) Close() {
	p.done.Fire()
}

// Drain passes every item to consume, in push order, until the pipe is
// closed and empty. It then marks the pipe ready.
func (p *Pipe[T]) Drain(consume func(T)) {
	defer p.ready.Set()

	for {
		if v, ok := p.queue.TryPop(); ok {
			consume(v)
			continue
		}

		// Every Push happens before Close, so an empty queue after the
		// signal means nothing is in flight.
		if p.done.Fired() && p.queue.Len() == 0 {
			return
		}

		select {
		case <-p.queue.Ready():
		case <-p.done.Done():
		}
	}
}

// Wait blocks until Drain has consumed everything.
func (p *Pipe[T]) Wait() {
	p.ready.Wait()
}

// Ready reports whether Drain has finished.
func (p *Pipe[T]) Ready() bool {
	return p.ready.IsSet()
}
