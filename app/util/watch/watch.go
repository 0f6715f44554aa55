package watch

import "sync"

// Source lets any number of watchers block until the next state change.
// The returned channel is closed on change, so a watcher re-arms by calling
// Watch again after waking up.
type Source struct {
	mu sync.Mutex
	ch chan struct{}
}

func NewSource() *Source {
	return &Source{ch: make(chan struct{})}
}

func (s *Source) Watch() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ch
}

func (s *Source) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.ch)
	s.ch = make(chan struct{})
}
