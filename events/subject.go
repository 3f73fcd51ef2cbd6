package events

import "sync"

// DefaultBuffer is the per-subscriber channel size
const DefaultBuffer = 64

// Subject broadcasts values to every subscriber.
// A replaying subject remembers the last value and delivers it to new subscribers.
type Subject[T any] struct {
	mu      sync.Mutex
	subs    map[int]chan T
	nextID  int
	replay  bool
	last    T
	hasLast bool
	closed  bool
	buffer  int
}

// NewSubject creates a subject without replay
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[int]chan T), buffer: DefaultBuffer}
}

// NewReplaySubject creates a subject that replays the last value, seeded with initial
func NewReplaySubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		subs:    make(map[int]chan T),
		buffer:  DefaultBuffer,
		replay:  true,
		last:    initial,
		hasLast: true,
	}
}

// Publish sends v to every subscriber without blocking.
// A subscriber whose buffer is full misses the value.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.replay {
		s.last = v
		s.hasLast = true
	}
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Value returns the last published value of a replaying subject
func (s *Subject[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Subscribe returns a channel of values and a cancel func that closes it
func (s *Subject[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan T, s.buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	if s.replay && s.hasLast {
		ch <- s.last
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close closes every subscriber channel; later publishes are dropped
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
