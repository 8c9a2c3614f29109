package analytical

import (
	"time"

	"github.com/pkg/errors"
)

// ephemerisRecorder accumulates the epochs covered by the propagations run
// while recording was armed.
type ephemerisRecorder struct {
	min, max time.Time
	count    int
}

func (r *ephemerisRecorder) record(s SpacecraftState) {
	dt := s.Epoch()
	if r.count == 0 {
		r.min, r.max = dt, dt
	} else {
		if dt.Before(r.min) {
			r.min = dt
		}
		if dt.After(r.max) {
			r.max = dt
		}
	}
	r.count++
}

// EphemerisGenerator hands out the bounded ephemeris covering the
// propagations performed since it was armed. It holds its own recorder, so
// re-arming the propagator cannot rewrite the span behind its back.
type EphemerisGenerator struct {
	prop *Propagator
	rec  *ephemerisRecorder
}

// Ephemeris returns the bounded ephemeris. The span is the min/max of the
// recorded epochs; queries outside it fail immediately rather than
// extrapolating, except within the configured extrapolation threshold.
func (g *EphemerisGenerator) Ephemeris() (*BoundedEphemeris, error) {
	rec := g.rec
	if rec == nil || rec.count == 0 {
		return nil, errors.New("no states recorded, propagate before generating the ephemeris")
	}
	// Snapshot the mean state so later resets on the propagator do not
	// silently rewrite an already-generated ephemeris.
	return &BoundedEphemeris{
		theory:    g.prop.theory,
		mean:      g.prop.mean,
		attitude:  g.prop.attitude,
		mass:      g.prop.mass,
		providers: append([]AdditionalStateProvider(nil), g.prop.providers...),
		min:       rec.min,
		max:       rec.max,
		threshold: g.prop.cfg.ExtrapolationThreshold,
	}, nil
}

// BoundedEphemeris replays the closed-form evaluation over a fixed epoch
// span. States are well-formed and epoch-tagged exactly like the
// propagator's; only the span is constrained.
type BoundedEphemeris struct {
	theory    AnalyticalTheory
	mean      Orbit
	attitude  AttitudeProvider
	mass      float64
	providers []AdditionalStateProvider
	min, max  time.Time
	threshold time.Duration
}

// MinDate returns the lower bound of the recorded span.
func (e *BoundedEphemeris) MinDate() time.Time {
	return e.min
}

// MaxDate returns the upper bound of the recorded span.
func (e *BoundedEphemeris) MaxDate() time.Time {
	return e.max
}

// StateAt evaluates the ephemeris at the provided epoch. Epochs strictly
// inside the span, or within the extrapolation threshold outside either
// bound, succeed; anything further fails with an OutOfBoundsError.
func (e *BoundedEphemeris) StateAt(dt time.Time) (SpacecraftState, error) {
	slack := e.threshold.Seconds()
	if elapsedSeconds(dt, e.min) > slack || elapsedSeconds(e.max, dt) > slack {
		return SpacecraftState{}, OutOfBoundsError{Date: dt, Min: e.min, Max: e.max}
	}
	osc, err := e.theory.OsculatingFromMean(e.mean, dt)
	if err != nil {
		return SpacecraftState{}, err
	}
	att, err := e.attitude.Attitude(osc, dt, osc.Frame())
	if err != nil {
		return SpacecraftState{}, err
	}
	return resolveAdditional(e.providers, NewSpacecraftState(osc, att, e.mass))
}
