package filter

import (
	"slices"
	"sync"
)

// State holds the active filters of a list view.
//
// Every mutation replaces the value slice and reports the new list to the
// change callback. Fixed filters survive Remove and Reset.
type State struct {
	mu       sync.Mutex
	schemas  []Schema
	initial  []Value
	values   []Value
	onChange func([]Value)
}

// NewState creates a state seeded with initial values.
func NewState(schemas []Schema, initial []Value, onChange func([]Value)) *State {
	return &State{
		schemas:  schemas,
		initial:  slices.Clone(initial),
		values:   slices.Clone(initial),
		onChange: onChange,
	}
}

// Schemas returns the filter schemas.
func (s *State) Schemas() []Schema { return s.schemas }

// Values returns a copy of the active filters.
func (s *State) Values() []Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.values)
}

// Set replaces all active filters.
func (s *State) Set(values []Value) {
	s.commit(func([]Value) []Value { return append([]Value{}, values...) })
}

// Add appends a filter.
func (s *State) Add(v Value) {
	s.commit(func(cur []Value) []Value {
		return append(slices.Clone(cur), v)
	})
}

// Remove drops the filter at index. Fixed filters and out-of-range
// indexes are ignored.
func (s *State) Remove(index int) {
	s.commit(func(cur []Value) []Value {
		if index < 0 || index >= len(cur) || cur[index].Fixed {
			return nil
		}
		return slices.Delete(slices.Clone(cur), index, index+1)
	})
}

// Update applies fn to a copy of the filter at index.
func (s *State) Update(index int, fn func(*Value)) {
	s.commit(func(cur []Value) []Value {
		if index < 0 || index >= len(cur) {
			return nil
		}
		next := slices.Clone(cur)
		fn(&next[index])
		return next
	})
}

// Reset restores the initial filters, keeping fixed filters that were
// added since.
func (s *State) Reset() {
	s.commit(func(cur []Value) []Value {
		next := append([]Value{}, s.initial...)
		for _, v := range cur {
			if v.Fixed && !containsKey(next, v) {
				next = append(next, v)
			}
		}
		return next
	})
}

// Predicate compiles the active filters joined with AND.
func (s *State) Predicate() (Predicate, error) {
	return Compile(s.schemas, s.Values(), And)
}

// commit applies fn under the lock. A nil result means no change.
func (s *State) commit(fn func([]Value) []Value) {
	s.mu.Lock()
	next := fn(s.values)
	if next == nil {
		s.mu.Unlock()
		return
	}
	s.values = next
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(slices.Clone(next))
	}
}

func containsKey(values []Value, v Value) bool {
	return slices.ContainsFunc(values, func(o Value) bool {
		return slices.Equal(o.KeyPath, v.KeyPath) && o.Operator == v.Operator
	})
}
