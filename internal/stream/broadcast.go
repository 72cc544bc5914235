// Package stream provides a replaying, multi-consumer broadcast channel.
//
// A Broadcast has one producer and any number of subscribers. Each subscriber
// owns an unbounded queue drained by its own goroutine, so Publish never blocks
// on a slow reader and every subscriber sees values in publish order. New
// subscribers first receive the most recently published value, if any.
package stream

import (
	"context"
	"sync"
)

// Broadcast fans published values out to every live subscriber.
type Broadcast[T any] struct {
	mu        sync.Mutex
	subs      map[*subscriber[T]]struct{}
	latest    T
	hasLatest bool
	closed    bool
}

// New returns an empty Broadcast.
func New[T any]() *Broadcast[T] {
	return &Broadcast[T]{subs: make(map[*subscriber[T]]struct{})}
}

// NewWithInitial returns a Broadcast that replays initial until the first Publish.
func NewWithInitial[T any](initial T) *Broadcast[T] {
	b := New[T]()
	b.latest = initial
	b.hasLatest = true
	return b
}

// Publish records v as the latest value and queues it for every subscriber.
// Publishing after Close is a no-op.
func (b *Broadcast[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.latest = v
	b.hasLatest = true
	for sub := range b.subs {
		sub.push(v)
	}
}

// Subscribe returns a channel that yields the latest value (if any) followed by
// every later Publish. The channel closes after Close once the queue drains, or
// as soon as ctx is done.
func (b *Broadcast[T]) Subscribe(ctx context.Context) <-chan T {
	sub := &subscriber[T]{
		wake: make(chan struct{}, 1),
		out:  make(chan T),
	}

	b.mu.Lock()
	if b.hasLatest {
		sub.push(b.latest)
	}
	if b.closed {
		sub.close()
	} else {
		b.subs[sub] = struct{}{}
	}
	b.mu.Unlock()

	go sub.run(ctx, func() { b.remove(sub) })
	return sub.out
}

// Close ends every subscription after its pending values are delivered.
func (b *Broadcast[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		sub.close()
	}
}

func (b *Broadcast[T]) remove(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub)
}

type subscriber[T any] struct {
	mu     sync.Mutex
	queue  []T
	closed bool
	wake   chan struct{}
	out    chan T
}

func (s *subscriber[T]) push(v T) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	s.signal()
}

func (s *subscriber[T]) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
}

func (s *subscriber[T]) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) run(ctx context.Context, detach func()) {
	defer close(s.out)
	defer detach()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-ctx.Done():
				return
			}
		}
		v := s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-ctx.Done():
			return
		}
	}
}
