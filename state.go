package analytical

import (
	"sort"
	"time"
)

// SpacecraftState bundles the orbit, attitude, mass and named additional
// states of a vehicle at one epoch. All components share the same epoch.
// States are immutable: the With* methods return modified copies.
type SpacecraftState struct {
	orbit      Orbit
	attitude   Attitude
	mass       float64
	additional map[string][]float64
}

// NewSpacecraftState assembles a state. The attitude is expected to be
// sampled at the orbit's epoch.
func NewSpacecraftState(o Orbit, att Attitude, mass float64) SpacecraftState {
	return SpacecraftState{orbit: o, attitude: att, mass: mass}
}

// Orbit returns the orbit.
func (s SpacecraftState) Orbit() Orbit {
	return s.orbit
}

// Attitude returns the attitude.
func (s SpacecraftState) Attitude() Attitude {
	return s.attitude
}

// Mass returns the mass in kilograms.
func (s SpacecraftState) Mass() float64 {
	return s.mass
}

// Epoch returns the epoch shared by all state components.
func (s SpacecraftState) Epoch() time.Time {
	return s.orbit.Epoch()
}

// HasAdditional returns whether the named additional state is present.
func (s SpacecraftState) HasAdditional(name string) bool {
	_, found := s.additional[name]
	return found
}

// Additional returns a copy of the named additional state array.
func (s SpacecraftState) Additional(name string) ([]float64, bool) {
	vals, found := s.additional[name]
	if !found {
		return nil, false
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	return cp, true
}

// AdditionalNames returns the sorted names of the additional states.
func (s SpacecraftState) AdditionalNames() []string {
	names := make([]string, 0, len(s.additional))
	for name := range s.additional {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithAdditional returns a copy of the state carrying the named array. The
// input slice is copied, keys stay unique: an existing name is replaced.
func (s SpacecraftState) WithAdditional(name string, values []float64) SpacecraftState {
	next := make(map[string][]float64, len(s.additional)+1)
	for k, v := range s.additional {
		next[k] = v
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	next[name] = cp
	s.additional = next
	return s
}
