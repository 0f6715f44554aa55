package record

import (
	"log/slog"
	"sync"

	"replog/app/util/watch"

	"github.com/samber/do"
)

// Service holds the current best-known interaction record. It is only ever
// mutated through Merge, which overrides exactly the keys present in an
// update and leaves the rest alone.
type Service struct {
	mu      sync.RWMutex
	current Interaction
	source  *watch.Source
}

func New(_ *do.Injector) (*Service, error) {
	return &Service{
		current: NewInteraction(),
		source:  watch.NewSource(),
	}, nil
}

func (s *Service) Current() Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// Merge applies a partial update. Unknown keys are ignored rather than
// rejected, since the backend's schema can evolve independently of ours.
// Merging the same update twice is a no-op the second time.
func (s *Service) Merge(update map[string]string) {
	s.mu.Lock()

	changed := false
	for key, value := range update {
		next := s.current
		if !next.set(key, value) {
			slog.Debug("Ignoring unknown record field", "key", key)
			continue
		}

		if next != s.current {
			s.current = next
			changed = true
		}
	}

	s.mu.Unlock()

	if changed {
		s.source.Notify()
	}
}

// Watch returns a channel closed on the next effective merge.
func (s *Service) Watch() <-chan struct{} {
	return s.source.Watch()
}
