package world

import (
	"sort"
	"strings"
)

// State is the world-level progress that outlives individual references:
// the day counter and named story flags.
type State struct {
	Day   int
	Flags map[string]bool
}

// NewState creates a state starting on the given day.
func NewState(day int) *State {
	if day < 1 {
		day = 1
	}
	return &State{Day: day, Flags: make(map[string]bool)}
}

// Flag reports whether a named flag is set.
func (s *State) Flag(name string) bool {
	return s.Flags[name]
}

// SetFlag sets or clears a named flag.
func (s *State) SetFlag(name string, value bool) {
	if !value {
		delete(s.Flags, name)
		return
	}
	s.Flags[name] = true
}

// FlagNames returns the set flags sorted by name.
func (s *State) FlagNames() []string {
	names := make([]string, 0, len(s.Flags))
	for name, set := range s.Flags {
		if set {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ClearFlags clears every flag whose name starts with prefix.
func (s *State) ClearFlags(prefix string) {
	for name := range s.Flags {
		if strings.HasPrefix(name, prefix) {
			delete(s.Flags, name)
		}
	}
}
