package engine

import "fmt"

// ScentKey identifies the position and orientation from which a robot was lost
type ScentKey struct {
	X           int         `json:"x"`
	Y           int         `json:"y"`
	Orientation Orientation `json:"orientation"`
}

func (k ScentKey) String() string {
	return fmt.Sprintf("%d %d %s", k.X, k.Y, k.Orientation)
}

// ScentRegistry is the set of scents left during one run. It only grows.
// It is not safe for concurrent use; a run hands it to one robot at a time.
type ScentRegistry struct {
	keys  map[ScentKey]struct{}
	order []ScentKey
}

// NewScentRegistry creates an empty registry
func NewScentRegistry() *ScentRegistry {
	return &ScentRegistry{keys: make(map[ScentKey]struct{})}
}

// Contains reports whether a robot was lost from (x, y) facing o
func (s *ScentRegistry) Contains(x, y int, o Orientation) bool {
	_, ok := s.keys[ScentKey{X: x, Y: y, Orientation: o}]
	return ok
}

// Add records a scent. It returns false when the scent was already present.
func (s *ScentRegistry) Add(x, y int, o Orientation) bool {
	key := ScentKey{X: x, Y: y, Orientation: o}
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}

// Len returns the number of scents
func (s *ScentRegistry) Len() int {
	return len(s.order)
}

// Keys returns a copy of the scents in the order they were left
func (s *ScentRegistry) Keys() []ScentKey {
	keys := make([]ScentKey, len(s.order))
	copy(keys, s.order)
	return keys
}
