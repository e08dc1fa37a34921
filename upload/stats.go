package upload

import (
	"sync"
	"time"
)

// Stats tracks acknowledged chunks of an upload for reporting.
type Stats struct {
	mu       sync.Mutex
	sum      time.Duration
	finished int
	bytes    int64
}

// NewStats ...
func NewStats() *Stats {
	return &Stats{}
}

// Update records an acknowledged chunk.
func (s *Stats) Update(d time.Duration, size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sum += d
	s.finished++
	s.bytes += size
}

// Average returns the average round-trip of acknowledged chunks.
func (s *Stats) Average() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished == 0 {
		return 0
	}
	return s.sum / time.Duration(s.finished)
}

// FinishedCount ...
func (s *Stats) FinishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// TotalBytes ...
func (s *Stats) TotalBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// TotalDuration returns the sum of all chunk round-trips.
func (s *Stats) TotalDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sum
}
