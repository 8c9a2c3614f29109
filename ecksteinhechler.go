package analytical

import (
	"math"
	"time"
)

const (
	// ehMaxEccentricity is the Eckstein-Hechler validity ceiling: the theory
	// expands in powers of the eccentricity and is only meant for
	// near-circular orbits.
	ehMaxEccentricity = 0.1
	// ehMinInclination: the circular-element formulation still divides by
	// sin i, equatorial orbits are out of the validity domain.
	ehMinInclination = (5e-2 / 360) * (2 * math.Pi)
)

// EcksteinHechler is the closed-form zonal theory of Eckstein and Hechler
// for near-circular orbits, formulated on circular elements (a, ex, ey, i,
// Ω, αM) and driven by the J2..J6 zonal harmonics.
//
// Near-zero eccentricity is the nominal regime here (unlike Brouwer-Lyddane
// which guards it), but near-zero or critical inclination is out of domain
// and rejected.
type EcksteinHechler struct {
	field ZonalField
}

// NewEcksteinHechler returns the theory for the provided zonal field.
func NewEcksteinHechler(field ZonalField) *EcksteinHechler {
	return &EcksteinHechler{field: field}
}

// NewEcksteinHechlerFromProvider evaluates the gravity provider once at
// construction, the theory never re-reads coefficients.
func NewEcksteinHechlerFromProvider(gp GravityProvider, epoch time.Time) (*EcksteinHechler, error) {
	field, err := gp.Zonal(6, epoch)
	if err != nil {
		return nil, err
	}
	return NewEcksteinHechler(field), nil
}

// Name implements the AnalyticalTheory interface.
func (eh *EcksteinHechler) Name() string {
	return "Eckstein-Hechler"
}

// Drivers implements the AnalyticalTheory interface.
func (eh *EcksteinHechler) Drivers() []*ParameterDriver {
	return nil
}

// Resettable implements the AnalyticalTheory interface.
func (eh *EcksteinHechler) Resettable() bool {
	return true
}

// Validate implements the AnalyticalTheory interface.
func (eh *EcksteinHechler) Validate(o Orbit) error {
	if o.e >= 1 || o.a <= 0 {
		return ModelError{Theory: eh.Name(), Kind: KindHyperbolic, Value: o.e, Limit: 1}
	}
	if o.e > ehMaxEccentricity {
		return ModelError{Theory: eh.Name(), Kind: KindEccentricityCeiling, Value: o.e, Limit: ehMaxEccentricity}
	}
	if o.a < eh.field.Re() {
		return ModelError{Theory: eh.Name(), Kind: KindUnderBrillouinSphere, Value: o.a, Limit: eh.field.Re()}
	}
	if perigee := o.Periapsis(); perigee < eh.field.Re() {
		return ModelError{Theory: eh.Name(), Kind: KindPerigeeBelowSurface, Value: perigee, Limit: eh.field.Re()}
	}
	sinI := math.Sin(o.i)
	if math.Abs(sinI) < math.Sin(ehMinInclination) {
		return ModelError{Theory: eh.Name(), Kind: KindEquatorial, Value: o.i, Limit: ehMinInclination}
	}
	θ := math.Cos(o.i)
	if d := math.Abs(1 - 5*θ*θ); d < criticalInclinationε {
		return ModelError{Theory: eh.Name(), Kind: KindCriticalInclination, Value: o.i, Limit: math.Acos(1 / math.Sqrt(5))}
	}
	return nil
}

// OsculatingFromMean implements the AnalyticalTheory interface.
func (eh *EcksteinHechler) OsculatingFromMean(mean Orbit, target time.Time) (Orbit, error) {
	if err := eh.Validate(mean); err != nil {
		return Orbit{}, err
	}
	return eh.propagate(mean, elapsedSeconds(mean.Epoch(), target), target), nil
}

// MeanFromOsculating implements the AnalyticalTheory interface.
func (eh *EcksteinHechler) MeanFromOsculating(osc Orbit, tolerance float64, maxIterations int) (Orbit, error) {
	if err := eh.Validate(osc); err != nil {
		return Orbit{}, err
	}
	eval := func(mean Orbit) (Orbit, error) {
		if err := eh.Validate(mean); err != nil {
			return Orbit{}, err
		}
		return eh.propagate(mean, 0, osc.Epoch()), nil
	}
	return solveMeanElements(eh.Name(), eval, osc, tolerance, maxIterations)
}

// propagate maps the mean circular elements to the osculating orbit Δt
// seconds away: secular drift of αM, Ω and the eccentricity-vector rotation
// under J2/J2²/J4/J6, then first-order J2 periodic corrections and the
// odd-zonal (J3, J5) frozen eccentricity offset.
//
// The returned orbit enforces the theory's own non-Keplerian consistency:
// even at Δt=0 the osculating elements differ from the mean ones by the
// periodic terms.
func (eh *EcksteinHechler) propagate(mean Orbit, Δt float64, target time.Time) Orbit {
	a, ex, ey, i, Ω0, αM0 := mean.CircularElements()

	re := eh.field.Re()
	J2 := eh.field.J(2)
	J3 := eh.field.J(3)
	J4 := eh.field.J(4)
	J5 := eh.field.J(5)
	J6 := eh.field.J(6)

	e2 := ex*ex + ey*ey
	η2 := 1 - e2
	η := math.Sqrt(η2)
	p := a * η2
	θ := math.Cos(i)
	θ2 := θ * θ
	θ4 := θ2 * θ2
	s2 := 1 - θ2
	sinI := math.Sin(i)
	n0 := mean.MeanMotion()

	q := re / p
	γ2 := 0.5 * J2 * q * q
	γ4 := -0.375 * J4 * q * q * q * q
	γ6 := 0.3125 * J6 * math.Pow(q, 6)

	// Secular rates on the circular set. Same zonal physics as the Brouwer
	// rates, truncated to the near-circular regime (η ~ 1) and extended to
	// J6 for the node and argument-of-latitude drifts.
	dM := n0 * (1 +
		1.5*γ2*η*(1-1.5*s2) +
		(3.0/32.0)*γ2*γ2*η*(16*η+25*η2-15+(30-96*η-90*η2)*θ2+(105+144*η+25*η2)*θ4) +
		(15.0/16.0)*γ4*η*(1-5*θ2*(1-θ2)) -
		(35.0/128.0)*γ6*η*(1-9*θ2)*(1-θ2))
	dω := n0 * (1.5*γ2*(2-2.5*s2) +
		(3.0/32.0)*γ2*γ2*(-35+24*η+25*η2+(90-192*η-126*η2)*θ2+(385+360*η+45*η2)*θ4) +
		(5.0/16.0)*γ4*(21-9*η2+(-270+126*η2)*θ2+(385-189*η2)*θ4))
	dΩ := n0 * (-3*γ2*θ +
		1.5*γ2*γ2*((-5+12*η+9*η2)*θ-(35+36*η+5*η2)*θ*θ2) +
		1.25*γ4*θ*(5-3*η2)*(3-7*θ2) -
		(35.0/16.0)*γ6*θ*(1-3*θ2))

	// αM = ω + M: the drift combines both rates.
	αMpp := αM0 + (dM+dω)*Δt
	Ωpp := Ω0 + dΩ*Δt
	// The eccentricity vector rotates at the perigee drift rate.
	sinδω, cosδω := math.Sincos(dω * Δt)
	exPP := ex*cosδω - ey*sinδω
	eyPP := ex*sinδω + ey*cosδω

	// First-order J2 periodic corrections, circular-orbit expansion. The
	// argument of latitude is the phase variable, no perigee anywhere.
	α := αMpp + 2*(exPP*math.Sin(αMpp)-eyPP*math.Cos(αMpp)) // true argument of latitude to O(e)
	sinα, cosα := math.Sincos(α)
	sin2α, cos2α := math.Sincos(2 * α)
	sin3α, cos3α := math.Sincos(3 * α)

	δa := a * γ2 * (3*(3*θ2-1)*(exPP*cosα+eyPP*sinα) + 3*s2*cos2α)
	δex := γ2 * ((3*θ2-1)*cosα + s2*(1.5*cosα+(7.0/6.0)*cos3α))
	δey := γ2 * ((3*θ2-1)*sinα + s2*(1.5*sinα+(7.0/6.0)*sin3α))
	δi := 1.5 * γ2 * θ * sinI * cos2α
	// Equation-of-center excess to O(e).
	χ := 2 * (exPP*sinα - eyPP*cosα)
	δΩ := -γ2 * θ * (3*χ - 1.5*sin2α)
	δα := γ2 * ((3-3.5*s2)*χ + 0.75*s2*sin2α)

	// Odd-zonal frozen eccentricity offset along ey.
	eF := 0.0
	if math.Abs(J2) > 1e-30 {
		eF = -(re / p) * sinI / (2 * J2) * (J3 + (5.0/16.0)*J5*q*q*(4-7*s2))
	}

	aOsc := a + δa
	exOsc := exPP + δex
	eyOsc := eyPP + δey + eF
	iOsc := i + δi
	ΩOsc := Ωpp + δΩ
	αMOsc := αMpp + δα

	return newOrbitFromCircular(aOsc, exOsc, eyOsc, iOsc, ΩOsc, αMOsc, target, mean.frame, mean.μ)
}
