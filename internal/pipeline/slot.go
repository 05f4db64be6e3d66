package pipeline

import "sync"

// Slot is a single-value latest-wins hand-off point. A Put replaces any
// unconsumed value, so a waiting consumer only ever sees the newest
// item. It is deliberately not a queue: there is exactly one cell.
type Slot[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	val    T
	full   bool
	closed bool
}

// NewSlot creates an empty slot.
func NewSlot[T any]() *Slot[T] {
	s := &Slot[T]{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Put stores v, overwriting any value not yet taken. The sender
// relinquishes ownership of v. Put on a closed slot is a no-op.
func (s *Slot[T]) Put(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.val = v
	s.full = true
	s.cond.Signal()
}

// TryTake removes and returns the held value without blocking.
func (s *Slot[T]) TryTake() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		var zero T
		return zero, false
	}
	v := s.val
	var zero T
	s.val = zero
	s.full = false
	return v, true
}

// Take blocks until a value is available or the slot is closed. It
// returns false only when the slot is closed and drained.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.full && !s.closed {
		s.cond.Wait()
	}
	if !s.full {
		var zero T
		return zero, false
	}
	v := s.val
	var zero T
	s.val = zero
	s.full = false
	return v, true
}

// Close wakes all waiters; subsequent Puts are dropped. A value already
// held can still be taken.
func (s *Slot[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
}
