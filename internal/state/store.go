package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot represents the latest catalog health visible to the UI.
type Snapshot struct {
	Requests            int
	Failures            int
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed catalog calls
}

// IsOffline returns true when the catalog has failed several calls in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Record notes the outcome of one catalog call. A nil err resets the
// failure streak; a non-nil err is kept for display.
func (s *Store) Record(err error) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Requests++
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.Failures++
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
