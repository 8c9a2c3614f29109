package analytical

import (
	"math"
	"time"
)

// AnalyticalTheory is the capability interface shared by all closed-form
// perturbation theories. The propagator state machine depends only on this
// interface.
type AnalyticalTheory interface {
	Name() string
	// OsculatingFromMean evaluates the theory at the target epoch from the
	// provided mean elements and returns the osculating orbit there.
	OsculatingFromMean(mean Orbit, target time.Time) (Orbit, error)
	// MeanFromOsculating inverts OsculatingFromMean at the orbit's own epoch
	// by fixed-point iteration, failing hard past maxIterations.
	MeanFromOsculating(osc Orbit, tolerance float64, maxIterations int) (Orbit, error)
	// Validate runs the construction-time model checks on an orbit intended
	// as initial state.
	Validate(o Orbit) error
	// Resettable reports whether the theory supports re-solving mean
	// elements from an arbitrary state after construction.
	Resettable() bool
	// Drivers returns the physical parameters of the theory, if any.
	Drivers() []*ParameterDriver
}

// ComputeMeanOrbit solves the mean elements generating the provided
// osculating orbit under the given theory, with the configured tolerance and
// iteration budget.
func ComputeMeanOrbit(theory AnalyticalTheory, osc Orbit, cfg Config) (Orbit, error) {
	return theory.MeanFromOsculating(osc, cfg.MeanTolerance, cfg.MeanMaxIterations)
}

// Keplerian is the two-body theory: mean and osculating elements coincide
// and only the mean anomaly drifts. It doubles as the zero-coefficient
// cross-check for the zonal theories.
type Keplerian struct{}

// NewKeplerian returns the two-body theory.
func NewKeplerian() Keplerian {
	return Keplerian{}
}

// Name implements the AnalyticalTheory interface.
func (Keplerian) Name() string {
	return "Keplerian"
}

// Validate implements the AnalyticalTheory interface.
func (k Keplerian) Validate(o Orbit) error {
	if o.e >= 1 || o.a <= 0 {
		return ModelError{Theory: k.Name(), Kind: KindHyperbolic, Value: o.e, Limit: 1}
	}
	return nil
}

// OsculatingFromMean implements the AnalyticalTheory interface.
func (k Keplerian) OsculatingFromMean(mean Orbit, target time.Time) (Orbit, error) {
	if err := k.Validate(mean); err != nil {
		return Orbit{}, err
	}
	M := mean.MeanAnomaly() + mean.MeanMotion()*elapsedSeconds(mean.Epoch(), target)
	return newOrbit(mean.a, mean.e, mean.i, mean.Ω, mean.ω, trueFromMean(M, mean.e), target, mean.frame, mean.μ), nil
}

// MeanFromOsculating implements the AnalyticalTheory interface. For the
// two-body problem the mean elements are the osculating elements.
func (k Keplerian) MeanFromOsculating(osc Orbit, tolerance float64, maxIterations int) (Orbit, error) {
	if err := k.Validate(osc); err != nil {
		return Orbit{}, err
	}
	return osc, nil
}

// Resettable implements the AnalyticalTheory interface.
func (Keplerian) Resettable() bool {
	return true
}

// Drivers implements the AnalyticalTheory interface.
func (Keplerian) Drivers() []*ParameterDriver {
	return nil
}

// evaluator is the mean-to-osculating mapping at a fixed epoch, the function
// the shared fixed-point solver inverts.
type evaluator func(mean Orbit) (Orbit, error)

// solveMeanElements inverts eval around the target osculating orbit: the
// trial mean state starts at the osculating values and is adjusted by the
// rebuilt-minus-target residual each round, until the element-wise residual
// passes below the thresholds scaled from tolerance, or the iteration cap is
// reached, which is a hard failure.
func solveMeanElements(theory string, eval evaluator, osc Orbit, tolerance float64, maxIterations int) (Orbit, error) {
	// Convergence thresholds on each element's natural scale.
	thresholdA := tolerance * (1 + math.Abs(osc.a))
	thresholdE := tolerance * (1 + osc.e)
	thresholdAngles := tolerance * math.Pi

	a, e, i := osc.a, osc.e, osc.i
	Ω, ω, M := osc.Ω, osc.ω, osc.MeanAnomaly()
	residual := math.Inf(1)
	for k := 0; k < maxIterations; k++ {
		mean := newOrbit(a, e, i, Ω, ω, trueFromMean(M, e), osc.epoch, osc.frame, osc.μ)
		rebuilt, err := eval(mean)
		if err != nil {
			return Orbit{}, err
		}
		δa := osc.a - rebuilt.a
		δe := osc.e - rebuilt.e
		δi := angularDistance(rebuilt.i, osc.i)
		δΩ := angularDistance(rebuilt.Ω, osc.Ω)
		δω := angularDistance(rebuilt.ω, osc.ω)
		δM := angularDistance(rebuilt.MeanAnomaly(), osc.MeanAnomaly())
		if osc.e < eccentricityε || rebuilt.e < eccentricityε {
			// Circular-safe branch: the perigee split is arbitrary, only the
			// combined phase is observable.
			δω = 0
			δM = angularDistance(rebuilt.ω+rebuilt.MeanAnomaly(), osc.ω+osc.MeanAnomaly())
		}

		a += δa
		e = math.Max(0, e+δe)
		i += δi
		Ω += δΩ
		ω += δω
		M += δM

		if math.Abs(δa) < thresholdA && math.Abs(δe) < thresholdE &&
			math.Abs(δi) < thresholdAngles && math.Abs(δΩ) < thresholdAngles &&
			math.Abs(δω) < thresholdAngles && math.Abs(δM) < thresholdAngles {
			return newOrbit(a, e, i, Ω, ω, trueFromMean(M, e), osc.epoch, osc.frame, osc.μ), nil
		}
		residual = math.Abs(δa)/(1+math.Abs(osc.a)) + math.Abs(δe) + math.Abs(δi) + math.Abs(δΩ) + math.Abs(δω) + math.Abs(δM)
	}
	return Orbit{}, ConvergenceError{Theory: theory, Iterations: maxIterations, Tolerance: tolerance, Residual: residual}
}
