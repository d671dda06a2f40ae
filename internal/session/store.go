// Package session holds the short-lived slot state of in-flight upload
// batches between the negotiation and transfer phases.
package session

import "sync"

// Slot pairs an object filename with the destination URL negotiated for it.
// A slot is valid for a single transfer.
type Slot struct {
	// Filename is the object filename the slot was allocated for
	Filename string

	// URL is the destination the object bytes are PUT to
	URL string
}

// Store is a mutex-guarded map from record identifier to negotiated slots.
// Each client owns its own Store instance so concurrently issued batches
// from different clients cannot interfere. All methods are safe for
// concurrent use.
type Store struct {
	mu    sync.Mutex
	slots map[string][]Slot
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{slots: make(map[string][]Slot)}
}

// Put records the negotiated slots for a record identifier, replacing any
// previous entry.
func (s *Store) Put(recordID string, slots []Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[recordID] = slots
}

// Get returns the slots for a record identifier. The entry stays in the
// store; the transfer phase removes it with Remove when it completes.
func (s *Store) Get(recordID string) ([]Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots, ok := s.slots[recordID]
	return slots, ok
}

// Remove erases the entry for a record identifier. Removing an absent entry
// is a no-op.
func (s *Store) Remove(recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, recordID)
}

// Len returns the number of in-flight entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
