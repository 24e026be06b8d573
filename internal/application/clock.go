package application

import (
	"sync"
	"time"
)

// Clock abstracts time for tests.
type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Stamper hands out strictly increasing UTC timestamps at microsecond
// resolution, so records appended in sequence keep their order.
type Stamper struct {
	clock Clock

	mu   sync.Mutex
	last time.Time
}

// NewStamper uses the wall clock when c is nil.
func NewStamper(c Clock) *Stamper {
	if c == nil {
		c = realClock{}
	}
	return &Stamper{clock: c}
}

func (s *Stamper) Stamp() time.Time {
	now := s.clock.Now().UTC().Truncate(time.Microsecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	return now
}
