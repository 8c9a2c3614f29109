package analytical

import (
	"fmt"
	"time"
)

// ModelErrorKind enumerates the construction-time model violations.
type ModelErrorKind uint8

const (
	// KindHyperbolic rejects parabolic and hyperbolic trajectories.
	KindHyperbolic ModelErrorKind = iota + 1
	// KindEccentricityCeiling rejects eccentricities above the theory validity bound.
	KindEccentricityCeiling
	// KindCriticalInclination rejects inclinations where the secular-rate denominator vanishes.
	KindCriticalInclination
	// KindEquatorial rejects near-equatorial orbits for theories which forbid them.
	KindEquatorial
	// KindUnderBrillouinSphere rejects semi-major axes inside the reference ellipsoid.
	KindUnderBrillouinSphere
	// KindPerigeeBelowSurface rejects trajectories whose perigee dips below the body radius.
	KindPerigeeBelowSurface
)

func (k ModelErrorKind) String() string {
	switch k {
	case KindHyperbolic:
		return "hyperbolic or parabolic orbit"
	case KindEccentricityCeiling:
		return "eccentricity above theory validity bound"
	case KindCriticalInclination:
		return "critical inclination"
	case KindEquatorial:
		return "equatorial orbit unsupported"
	case KindUnderBrillouinSphere:
		return "trajectory inside the Brillouin sphere"
	case KindPerigeeBelowSurface:
		return "perigee below body surface"
	}
	panic("cannot stringify unknown model error kind")
}

// ModelError is a fatal model violation. It carries the offending value and
// the limit it violated since those numbers are the primary debugging aid.
type ModelError struct {
	Theory string
	Kind   ModelErrorKind
	Value  float64
	Limit  float64
}

func (e ModelError) Error() string {
	return fmt.Sprintf("%s: %s (value=%g limit=%g)", e.Theory, e.Kind, e.Value, e.Limit)
}

// ConvergenceError is raised when the mean-element solver exhausts its
// iteration budget. It is always fatal, never a best-effort return.
type ConvergenceError struct {
	Theory     string
	Iterations int
	Tolerance  float64
	Residual   float64
}

func (e ConvergenceError) Error() string {
	return fmt.Sprintf("%s: unable to compute mean parameters after %d iterations (residual=%g tolerance=%g)",
		e.Theory, e.Iterations, e.Residual, e.Tolerance)
}

// NonResettableError is raised when resetting a propagator whose theory does
// not support re-solving mean elements from an arbitrary state.
type NonResettableError struct {
	Theory string
}

func (e NonResettableError) Error() string {
	return fmt.Sprintf("%s: propagator does not support state reset", e.Theory)
}

// ResetDirectionError is raised when an intermediate reset goes against the
// already-computed propagation direction. Distinct from NonResettableError.
type ResetDirectionError struct {
	Forward bool
}

func (e ResetDirectionError) Error() string {
	if e.Forward {
		return "cannot reset intermediate state backward after a forward propagation"
	}
	return "cannot reset intermediate state forward after a backward propagation"
}

// OutOfBoundsError is raised when a bounded ephemeris is queried beyond its
// recorded span plus the extrapolation threshold.
type OutOfBoundsError struct {
	Date     time.Time
	Min, Max time.Time
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("date %s outside ephemeris span [%s, %s]", e.Date, e.Min, e.Max)
}
