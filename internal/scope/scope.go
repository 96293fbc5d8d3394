// Package scope holds the currently selected event.  Every import and
// every check-in lookup is scoped to exactly one active event; the
// selection lives only in memory and is passed explicitly into the
// importer and resolver rather than read from shared global state.
// Selecting an event performs no store write.
package scope

import "sync"

// Selection identifies the active event by id and display name.
type Selection struct {
	ID   uint64
	Name string
}

// Selector is a concurrency-safe holder for the active event selection.
// The zero value is usable and starts with no selection.
type Selector struct {
	mu  sync.RWMutex
	cur *Selection
}

// NewSelector returns an empty Selector.
func NewSelector() *Selector { return &Selector{} }

// Select makes the given event the active one, replacing any previous
// selection.
func (s *Selector) Select(id uint64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = &Selection{ID: id, Name: name}
}

// Active returns the current selection.  The second return value is
// false when no event is selected.
func (s *Selector) Active() (Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return Selection{}, false
	}
	return *s.cur, true
}

// Clear drops the current selection unconditionally.
func (s *Selector) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
}

// ClearIf drops the selection only when it points at the given event id
// and reports whether it did.  Used after an event delete so a stale
// selection cannot scope further imports or check-ins to a gone event.
func (s *Selector) ClearIf(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur != nil && s.cur.ID == id {
		s.cur = nil
		return true
	}
	return false
}
