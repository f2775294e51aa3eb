package leaveapi

import "sync"

// Leave is one leave application as submitted by a client.
type Leave struct {
	ID       int    `json:"id"`
	Employee string `json:"employee,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Store holds leave applications in memory for the lifetime of the
// process. It is owned by the server; nothing is persisted.
type Store struct {
	mu     sync.Mutex
	leaves []Leave
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Apply records a leave application and assigns it the next ID.
func (s *Store) Apply(l Leave) Leave {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = len(s.leaves) + 1
	s.leaves = append(s.leaves, l)
	return l
}

// Count returns the number of recorded leaves.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leaves)
}
