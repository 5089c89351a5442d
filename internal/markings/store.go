// Package markings holds the planner's working set of map markings.
// The store is an ordered sequence: insertion order doubles as z-order
// when two markings overlap on screen.
package markings

import (
	"errors"
	"sync"
	"time"

	"github.com/canyonplan/planner/pkg/core"
)

// ErrUnknownTeam is returned when a marking is added for a team
// outside the closed identifier set. This is a programmer error, not
// user input: the UI only offers the four known teams.
var ErrUnknownTeam = errors.New("unknown team identifier")

// Store is a mutex-guarded, ordered collection of markings. A single
// logical owner (the planner view) mutates it from user handlers and
// the timeline tick, so the lock is for snapshot consistency rather
// than concurrent writers.
type Store struct {
	mu     sync.RWMutex
	items  []core.Marking
	lastID int64

	now func() time.Time
}

// NewStore creates an empty marking store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// nextID assigns a creation-timestamp id, bumping past the previous
// one so rapid placements within the same millisecond cannot collide.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Add constructs a marking and appends it. Returns the new id.
func (s *Store) Add(team core.Team, pos core.Position, appearTime, duration float64) (int64, error) {
	if !team.Valid() {
		return 0, ErrUnknownTeam
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := core.Marking{
		ID:         s.nextID(),
		Position:   pos,
		Team:       team,
		AppearTime: appearTime,
		Duration:   duration,
	}
	s.items = append(s.items, m)
	return m.ID, nil
}

// Remove deletes the marking with the given id. Removing an absent id
// is a no-op: deletions can race harmlessly with re-renders.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.items {
		if m.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Clear removes all markings.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Load replaces the store contents with a plan's markings, preserving
// their ids. The id counter is advanced past the largest loaded id so
// later additions cannot collide.
func (s *Store) Load(items []core.Marking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]core.Marking(nil), items...)
	for _, m := range s.items {
		if m.ID > s.lastID {
			s.lastID = m.ID
		}
	}
}

// All returns a copy of every marking in insertion order.
func (s *Store) All() []core.Marking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Marking(nil), s.items...)
}

// Snapshot is All under its persistence name: the deep copy a plan
// stores, decoupled from the live working set.
func (s *Store) Snapshot() []core.Marking {
	return s.All()
}

// VisibleAt returns the markings active at battle minute t, in
// insertion order.
func (s *Store) VisibleAt(t float64) []core.Marking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Marking
	for _, m := range s.items {
		if m.VisibleAt(t) {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the total number of markings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// ActiveCount returns how many markings are visible at minute t.
func (s *Store) ActiveCount(t float64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.items {
		if m.VisibleAt(t) {
			n++
		}
	}
	return n
}
