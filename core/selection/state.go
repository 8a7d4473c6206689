// Package selection holds the currently chosen index for every axis.
package selection

import (
	"sync"

	"habitat-pricer/core/types"
)

// State maps each axis to its selected index. The zero value selects
// index 0 on every axis and is ready to use.
type State struct {
	mu      sync.RWMutex
	indices types.Indices
}

// New creates a state with every axis at index 0
func New() *State {
	return &State{}
}

// SetIndex overwrites the index for an axis. The index is not checked
// against the catalog; an out-of-range index is reported when the value is
// looked up. Unknown axes are ignored.
func (s *State) SetIndex(axis types.Axis, index int) {
	if !axis.IsValid() {
		return
	}
	s.mu.Lock()
	s.indices[axis] = index
	s.mu.Unlock()
}

// IndexFor returns the selected index for an axis
func (s *State) IndexFor(axis types.Axis) int {
	if !axis.IsValid() {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indices[axis]
}

// Snapshot returns a copy of all three indices
func (s *State) Snapshot() types.Indices {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indices
}
