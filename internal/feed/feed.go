// Package feed fans published values out to subscribers without blocking the publisher.
package feed

import (
	"sync"
)

// BufferSize is the number of values a subscriber may lag behind before it misses values.
var BufferSize = 64

// Feed delivers every published value to all current subscribers, in publish order.
type Feed[T any] struct {
	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

func New[T any]() *Feed[T] {
	return &Feed[T]{
		subs: make(map[*Subscription[T]]struct{}),
	}
}

// Subscribe forwards published values to channel until the subscription is closed.
func (f *Feed[T]) Subscribe(channel chan<- T) *Subscription[T] {
	sub := &Subscription[T]{
		feed:    f,
		channel: channel,
		in:      make(chan T, BufferSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	go sub.run()
	return sub
}

// Publish hands value to every subscriber and returns how many of them were too slow to take it.
func (f *Feed[T]) Publish(value T) (dropped int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs {
		select {
		case sub.in <- value:
		default:
			dropped++
		}
	}
	return dropped
}

// Len returns the number of open subscriptions.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close unsubscribes every subscriber.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	subs := make([]*Subscription[T], 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (f *Feed[T]) remove(sub *Subscription[T]) {
	f.mu.Lock()
	delete(f.subs, sub)
	f.mu.Unlock()
}

type Subscription[T any] struct {
	feed    *Feed[T]
	channel chan<- T
	in      chan T

	quitOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// Unsubscribe stops the forwarding loop. Buffered values that were not forwarded yet are discarded.
func (s *Subscription[T]) Unsubscribe() {
	s.quitOnce.Do(func() {
		s.feed.remove(s)
		close(s.quit)
		<-s.done
	})
}

// Done is closed once the subscription stopped forwarding.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription[T]) IsClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Subscription[T]) run() {
	defer close(s.done)

	for {
		select {
		case <-s.quit:
			return
		case value := <-s.in:
			select {
			case s.channel <- value:
			case <-s.quit:
				return
			}
		}
	}
}
