package services

import (
	"fmt"
	"sync"
)

// slotLocks serializes the availability check and the reservation insert
// for a single (table, date) pair. Without it two concurrent bookings can
// both read "available" and both insert, double-booking the table.
// Mutexes are kept per key and never removed; the key space is bounded by
// tables x active dates, which stays small for a single venue.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*sync.Mutex)}
}

func (s *slotLocks) lock(tableNumber int, date string) *sync.Mutex {
	key := fmt.Sprintf("%d|%s", tableNumber, date)

	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m
}
