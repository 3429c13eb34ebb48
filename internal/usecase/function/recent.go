package function

import "sync"

// defaultRecentExecutions bounds how many execution ids are remembered for redelivery checks.
const defaultRecentExecutions = 1024

// executionSet remembers the most recent execution ids, evicting the oldest past capacity.
type executionSet struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	order []string
	next  int
}

func newExecutionSet(capacity int) *executionSet {
	return &executionSet{
		ids:   make(map[string]struct{}, capacity),
		order: make([]string, capacity),
	}
}

// add records id and reports whether it was not seen before.
func (s *executionSet) add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return false
	}
	if old := s.order[s.next]; old != "" {
		delete(s.ids, old)
	}
	s.order[s.next] = id
	s.ids[id] = struct{}{}
	s.next = (s.next + 1) % len(s.order)
	return true
}
