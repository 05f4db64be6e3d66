package pipeline

import (
	"testing"
	"time"
)

func TestSlotPutTryTake(t *testing.T) {
	s := NewSlot[int]()
	if _, ok := s.TryTake(); ok {
		t.Fatal("empty slot yielded a value")
	}
	s.Put(1)
	v, ok := s.TryTake()
	if !ok || v != 1 {
		t.Fatalf("TryTake = %d,%v", v, ok)
	}
	if _, ok := s.TryTake(); ok {
		t.Fatal("slot not drained after take")
	}
}

func TestSlotLatestWins(t *testing.T) {
	s := NewSlot[string]()
	s.Put("old")
	s.Put("new")
	v, ok := s.TryTake()
	if !ok || v != "new" {
		t.Fatalf("TryTake = %q,%v, want \"new\"", v, ok)
	}
	if _, ok := s.TryTake(); ok {
		t.Fatal("overwritten value still present")
	}
}

func TestSlotTakeBlocksUntilPut(t *testing.T) {
	s := NewSlot[int]()
	got := make(chan int, 1)
	go func() {
		v, ok := s.Take()
		if ok {
			got <- v
		}
	}()

	time.Sleep(20 * time.Millisecond)
	s.Put(42)

	select {
	case v := <-got:
		if v != 42 {
			t.Fatalf("Take = %d, want 42", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Take did not wake")
	}
}

func TestSlotCloseWakesWaiter(t *testing.T) {
	s := NewSlot[int]()
	done := make(chan bool, 1)
	go func() {
		_, ok := s.Take()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("Take on closed empty slot returned a value")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not wake waiter")
	}
}

func TestSlotCloseKeepsHeldValue(t *testing.T) {
	s := NewSlot[int]()
	s.Put(7)
	s.Close()
	if v, ok := s.Take(); !ok || v != 7 {
		t.Fatalf("Take after close = %d,%v, want 7,true", v, ok)
	}
	s.Put(8) // dropped
	if _, ok := s.TryTake(); ok {
		t.Fatal("Put after close was accepted")
	}
}
