package recordings

import "sync"

// SeenSet is the set of recording URLs already handled in this run.
// It only grows and is safe for concurrent use.
type SeenSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewSeenSet returns an empty set.
func NewSeenSet() *SeenSet {
	return &SeenSet{urls: make(map[string]struct{})}
}

// MarkSeen adds url and reports whether it was not in the set before.
func (s *SeenSet) MarkSeen(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// Len returns the number of URLs marked so far.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}
