package avatar

import (
	"context"
	"sync"
)

// Slot is a single-slot future: starting a new read supersedes the one in
// flight, and only the most recent read may apply its result.
type Slot struct {
	gen    uint64
	cancel context.CancelFunc

	mu sync.Mutex
}

type Ticket struct {
	Ctx context.Context
	gen uint64
}

// Begin starts a new read and cancels the previous one.
func (s *Slot) Begin(parent context.Context) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.gen++
	s.cancel = cancel
	return Ticket{Ctx: ctx, gen: s.gen}
}

// Commit runs apply if t is still the latest ticket. It reports whether
// apply ran.
func (s *Slot) Commit(t Ticket, apply func() error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.gen != s.gen {
		return false, nil
	}
	s.cancel()
	s.cancel = nil
	return true, apply()
}

// Abandon releases t without applying anything.
func (s *Slot) Abandon(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.gen == s.gen && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
