// Package channel provides a typed, unbounded, multi-producer/single-consumer
// queue used to hand snapshots from collector goroutines to the refresh loop.
//
// Unlike a buffered Go channel, a send never blocks and never drops: values
// queue until the consumer drains them. The consumer side only ever polls, so
// a refresh tick can never stall waiting for a producer.
package channel

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Send once every sender has been closed.
var ErrClosed = errors.New("channel: send on closed channel")

// RecvStatus reports the outcome of a non-blocking receive.
type RecvStatus int

const (
	// Received means a value was returned.
	Received RecvStatus = iota
	// Empty means nothing was queued but senders are still attached.
	Empty
	// Disconnected means nothing was queued and every sender has closed.
	Disconnected
)

// String returns the status name.
func (s RecvStatus) String() string {
	switch s {
	case Received:
		return "received"
	case Empty:
		return "empty"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// queue is the shared state behind a Sender/Receiver pair.
type queue[T any] struct {
	mu      sync.Mutex
	buf     []T
	head    int
	senders int
}

// Sender is the producer half. It may be cloned for additional producers;
// the channel disconnects once every clone has been closed.
type Sender[T any] struct {
	q      *queue[T]
	once   sync.Once
	closed bool
	mu     sync.Mutex
}

// Receiver is the consumer half. It must be used from a single goroutine.
type Receiver[T any] struct {
	q *queue[T]
}

// New returns a connected Sender/Receiver pair.
func New[T any]() (*Sender[T], *Receiver[T]) {
	q := &queue[T]{senders: 1}
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Send enqueues v. It never blocks. It returns ErrClosed if this sender has
// already been closed.
func (s *Sender[T]) Send(v T) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	s.q.mu.Lock()
	s.q.buf = append(s.q.buf, v)
	s.q.mu.Unlock()
	return nil
}

// Clone returns a new Sender attached to the same queue.
func (s *Sender[T]) Clone() *Sender[T] {
	s.q.mu.Lock()
	s.q.senders++
	s.q.mu.Unlock()
	return &Sender[T]{q: s.q}
}

// Close detaches this sender. Values already queued remain receivable.
// Close is idempotent.
func (s *Sender[T]) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.q.mu.Lock()
		s.q.senders--
		s.q.mu.Unlock()
	})
}

// TryRecv pops the oldest queued value without blocking.
func (r *Receiver[T]) TryRecv() (T, RecvStatus) {
	var zero T

	r.q.mu.Lock()
	defer r.q.mu.Unlock()

	if r.q.head < len(r.q.buf) {
		v := r.q.buf[r.q.head]
		r.q.buf[r.q.head] = zero
		r.q.head++
		if r.q.head == len(r.q.buf) {
			r.q.buf = r.q.buf[:0]
			r.q.head = 0
		}
		return v, Received
	}

	if r.q.senders <= 0 {
		return zero, Disconnected
	}
	return zero, Empty
}

// DrainLatest removes everything currently queued and returns only the most
// recently sent value. discarded counts the older values that were dropped.
// The whole burst is taken under a single lock acquisition.
func (r *Receiver[T]) DrainLatest() (latest T, discarded int, status RecvStatus) {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()

	pending := r.q.buf[r.q.head:]
	if len(pending) == 0 {
		if r.q.senders <= 0 {
			return latest, 0, Disconnected
		}
		return latest, 0, Empty
	}

	latest = pending[len(pending)-1]
	discarded = len(pending) - 1

	clear(r.q.buf)
	r.q.buf = r.q.buf[:0]
	r.q.head = 0
	return latest, discarded, Received
}

// Len returns the number of queued values.
func (r *Receiver[T]) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.buf) - r.q.head
}

// Disconnected reports whether every sender has closed. Queued values may
// still be pending.
func (r *Receiver[T]) Disconnected() bool {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return r.q.senders <= 0
}
