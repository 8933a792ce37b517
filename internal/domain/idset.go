package domain

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// IDSet is a set of node ids that remembers the order ids were last added.
// Adding an id that is already present moves it to the newest position.
type IDSet struct {
	m *orderedmap.OrderedMap[string, struct{}]
}

// NewIDSet returns a set holding ids, oldest first
func NewIDSet(ids ...string) *IDSet {
	s := &IDSet{m: orderedmap.New[string, struct{}]()}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id as the newest member. It reports whether id was absent.
func (s *IDSet) Add(id string) bool {
	_, present := s.m.Delete(id)
	s.m.Set(id, struct{}{})
	return !present
}

// Remove deletes id and reports whether it was present
func (s *IDSet) Remove(id string) bool {
	_, present := s.m.Delete(id)
	return present
}

// Has reports membership
func (s *IDSet) Has(id string) bool {
	_, ok := s.m.Get(id)
	return ok
}

// Toggle flips membership and returns the new state
func (s *IDSet) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.m.Set(id, struct{}{})
	return true
}

// Len returns the number of members
func (s *IDSet) Len() int { return s.m.Len() }

// Clear removes every member
func (s *IDSet) Clear() {
	s.m = orderedmap.New[string, struct{}]()
}

// IDs returns the members, oldest first
func (s *IDSet) IDs() []string {
	ids := make([]string, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// All yields the members, oldest first
func (s *IDSet) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key) {
				return
			}
		}
	}
}

// Newest returns the most recently added member accepted by keep
func (s *IDSet) Newest(keep func(string) bool) (string, bool) {
	for pair := s.m.Newest(); pair != nil; pair = pair.Prev() {
		if keep == nil || keep(pair.Key) {
			return pair.Key, true
		}
	}
	return "", false
}

// RemoveFunc deletes every member for which drop returns true and returns
// the removed ids.
func (s *IDSet) RemoveFunc(drop func(string) bool) []string {
	var removed []string
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		if drop(pair.Key) {
			removed = append(removed, pair.Key)
		}
	}
	for _, id := range removed {
		s.m.Delete(id)
	}
	return removed
}
