package transcript

import (
	"sync"
	"time"

	"replog/app/util/watch"

	"github.com/samber/do"
)

// Service is the append-only conversation log. Past entries are never edited
// or removed; the only mutation is Append.
type Service struct {
	mu      sync.RWMutex
	entries []Entry
	source  *watch.Source
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		source: watch.NewSource(),
	}, nil
}

func (s *Service) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()

	s.source.Notify()
}

// Entries returns a snapshot of the log in insertion order.
func (s *Service) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Entry, len(s.entries))
	copy(result, s.entries)

	return result
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Watch returns a channel closed on the next append.
func (s *Service) Watch() <-chan struct{} {
	return s.source.Watch()
}
