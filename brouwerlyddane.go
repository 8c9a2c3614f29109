package analytical

import (
	"math"
	"time"
)

const (
	// blMaxEccentricity is the Brouwer-Lyddane validity ceiling. The series
	// degrade well before e=1; past this bound the theory must reject, not
	// silently lose accuracy.
	blMaxEccentricity = 0.25
	// lyddaneSmallE is the eccentricity below which the perigee argument is
	// no longer observable and the mapping works on the eccentricity vector
	// only (circular-safe branch).
	lyddaneSmallE = 1e-6
)

// BrouwerLyddane is the zonal secular/periodic closed-form theory of
// Brouwer (1959) with the Lyddane (1963) reformulation near the circular
// singularities, driven by the J2..J5 zonal harmonics. The M2 parameter is
// a first-order along-track secular rate standing in for atmospheric drag,
// applied to the mean anomaly as M2·Δt².
type BrouwerLyddane struct {
	field ZonalField
	m2    *ParameterDriver
}

// M2DriverName is the name of the drag parameter driver.
const M2DriverName = "M2"

// NewBrouwerLyddane returns the theory for the provided zonal field and M2
// secular drag term (rad/s²). Pass 0 for a drag-free model.
func NewBrouwerLyddane(field ZonalField, m2 float64) *BrouwerLyddane {
	// The scale is the typical LEO decay order of magnitude, it sizes the
	// finite-difference step of the harvester.
	driver := NewParameterDriver(M2DriverName, m2, 1e-14)
	return &BrouwerLyddane{field: field, m2: driver}
}

// NewBrouwerLyddaneFromProvider evaluates the gravity provider once, as the
// theory never re-reads coefficients after construction.
func NewBrouwerLyddaneFromProvider(gp GravityProvider, epoch time.Time, m2 float64) (*BrouwerLyddane, error) {
	field, err := gp.Zonal(5, epoch)
	if err != nil {
		return nil, err
	}
	return NewBrouwerLyddane(field, m2), nil
}

// Name implements the AnalyticalTheory interface.
func (bl *BrouwerLyddane) Name() string {
	return "Brouwer-Lyddane"
}

// M2 returns the drag parameter driver.
func (bl *BrouwerLyddane) M2() *ParameterDriver {
	return bl.m2
}

// Drivers implements the AnalyticalTheory interface.
func (bl *BrouwerLyddane) Drivers() []*ParameterDriver {
	return []*ParameterDriver{bl.m2}
}

// Resettable implements the AnalyticalTheory interface.
func (bl *BrouwerLyddane) Resettable() bool {
	return true
}

// Validate implements the AnalyticalTheory interface. All checks run up
// front as a single validation pass; each rejection carries the offending
// value.
func (bl *BrouwerLyddane) Validate(o Orbit) error {
	if o.e >= 1 || o.a <= 0 {
		return ModelError{Theory: bl.Name(), Kind: KindHyperbolic, Value: o.e, Limit: 1}
	}
	if o.e > blMaxEccentricity {
		return ModelError{Theory: bl.Name(), Kind: KindEccentricityCeiling, Value: o.e, Limit: blMaxEccentricity}
	}
	if o.a < bl.field.Re() {
		return ModelError{Theory: bl.Name(), Kind: KindUnderBrillouinSphere, Value: o.a, Limit: bl.field.Re()}
	}
	if perigee := o.Periapsis(); perigee < bl.field.Re() {
		return ModelError{Theory: bl.Name(), Kind: KindPerigeeBelowSurface, Value: perigee, Limit: bl.field.Re()}
	}
	θ := math.Cos(o.i)
	if d := math.Abs(1 - 5*θ*θ); d < criticalInclinationε {
		return ModelError{Theory: bl.Name(), Kind: KindCriticalInclination, Value: o.i, Limit: math.Acos(1 / math.Sqrt(5))}
	}
	return nil
}

// OsculatingFromMean implements the AnalyticalTheory interface.
func (bl *BrouwerLyddane) OsculatingFromMean(mean Orbit, target time.Time) (Orbit, error) {
	if err := bl.Validate(mean); err != nil {
		return Orbit{}, err
	}
	return bl.propagate(mean, elapsedSeconds(mean.Epoch(), target), target), nil
}

// MeanFromOsculating implements the AnalyticalTheory interface.
func (bl *BrouwerLyddane) MeanFromOsculating(osc Orbit, tolerance float64, maxIterations int) (Orbit, error) {
	if err := bl.Validate(osc); err != nil {
		return Orbit{}, err
	}
	eval := func(mean Orbit) (Orbit, error) {
		if err := bl.Validate(mean); err != nil {
			return Orbit{}, err
		}
		return bl.propagate(mean, 0, osc.Epoch()), nil
	}
	return solveMeanElements(bl.Name(), eval, osc, tolerance, maxIterations)
}

// propagate maps the mean elements to the osculating orbit Δt seconds away.
// Secular drift first (J2, J2², J4 rates plus the M2 drag term), then the
// long-period J2²/J3 terms, then the J2 short-period terms, assembled in
// Lyddane variables so that the e→0 limit stays regular.
func (bl *BrouwerLyddane) propagate(mean Orbit, Δt float64, target time.Time) Orbit {
	a, e, i := mean.a, mean.e, mean.i
	Ω0, ω0, M0 := mean.Ω, mean.ω, mean.MeanAnomaly()

	re := bl.field.Re()
	J2 := bl.field.J(2)
	J3 := bl.field.J(3)
	J4 := bl.field.J(4)
	J5 := bl.field.J(5)

	η2 := 1 - e*e
	η := math.Sqrt(η2)
	η3 := η * η2
	p := a * η2
	θ := math.Cos(i)
	θ2 := θ * θ
	θ4 := θ2 * θ2
	s2 := 1 - θ2 // sin²i
	sinI := math.Sin(i)
	n0 := mean.MeanMotion()

	// γ2 on the semi-major axis, primed variant on the semi-parameter.
	γ2 := 0.5 * J2 * math.Pow(re/a, 2)
	γ2p := γ2 / (η2 * η2)
	γ4 := -0.375 * J4 * math.Pow(re/a, 4)
	γ4p := γ4 / math.Pow(η2, 4)

	// Secular rates, Brouwer first order with the J2² and J4 second-order
	// contributions (cf. Brouwer 1959; arrangement follows Vallado ch. 9).
	dM := n0 * (1 +
		1.5*γ2p*η*(1-1.5*s2) +
		(3.0/32.0)*γ2p*γ2p*η*(16*η+25*η2-15+(30-96*η-90*η2)*θ2+(105+144*η+25*η2)*θ4))
	dω := n0 * (1.5*γ2p*(2-2.5*s2) +
		(3.0/32.0)*γ2p*γ2p*(-35+24*η+25*η2+(90-192*η-126*η2)*θ2+(385+360*η+45*η2)*θ4) +
		(5.0/16.0)*γ4p*(21-9*η2+(-270+126*η2)*θ2+(385-189*η2)*θ4))
	dΩ := n0 * (-3*γ2p*θ +
		1.5*γ2p*γ2p*((-5+12*η+9*η2)*θ-(35+36*η+5*η2)*θ*θ2) +
		1.25*γ4p*θ*(5-3*η2)*(3-7*θ2))

	Mpp := M0 + dM*Δt + bl.m2.Value()*Δt*Δt
	ωpp := ω0 + dω*Δt
	Ωpp := Ω0 + dΩ*Δt

	// Long-period terms. The 1-5θ² denominator is guarded by Validate.
	d5 := 1 - 5*θ2
	cos2ω, sin2ω := math.Cos(2*ωpp), math.Sin(2*ωpp)
	δe1 := (γ2p / 8) * e * η2 * (1 - 11*θ2 - 40*θ4/d5) * cos2ω
	δi1 := 0.0
	if sinI > angleε {
		δi1 = -e * δe1 * θ / (η2 * sinI) // -e·δe1 / (η² tan i)
	}
	δλ1 := (γ2p / 8) * η3 * (1 - 11*θ2 - 40*θ4/d5) * sin2ω
	// Odd-zonal eccentricity vector offset (J3, J5): the frozen-orbit
	// displacement along e·sinω. For Earth (J3<0) the offset is positive,
	// freezing the perigee at ω=90°.
	eF := 0.0
	if math.Abs(J2) > 1e-30 {
		eF = -(re / p) * sinI / (2 * J2) * (J3 + (5.0/16.0)*J5*math.Pow(re/p, 2)*(4-7*s2))
	}

	// Short-period J2 terms at the secularly-advanced phase.
	f := trueFromMean(Mpp, e)
	sinf, cosf := math.Sincos(f)
	aOverR := (1 + e*cosf) / η2
	aOverR3 := aOverR * aOverR * aOverR
	u2 := 2*ωpp + 2*f
	cos2u, sin2u := math.Cos(u2), math.Sin(u2)
	cosu1, sinu1 := math.Cos(2*ωpp+f), math.Sin(2*ωpp+f)
	cosu3, sinu3 := math.Cos(2*ωpp+3*f), math.Sin(2*ωpp+3*f)
	// Equation-of-center excess, wrap-safe.
	χ := normalizeAngle(f-Mpp) + e*sinf

	δa := a * γ2 * ((3*θ2-1)*(aOverR3-1/η3) + 3*(1-θ2)*aOverR3*cos2u)
	cosf2 := cosf * cosf
	radial := 3*cosf + 3*e*cosf2 + e*e*cosf2*cosf
	δe := (η2 / 2) * (γ2*((3*θ2-1)/(η2*η2*η2)*(e*η+e/(1+η)+radial)+
		3*(1-θ2)/(η2*η2*η2)*(e+radial)*cos2u) -
		γ2p*(1-θ2)*(3*cosu1+cosu3))
	δi := 0.5 * γ2p * θ * sinI * (3*cos2u + 3*e*cosu1 + e*cosu3)
	δΩ := -γ2p * θ * (3*χ - 1.5*sin2u - 1.5*e*sinu1 - 0.5*e*sinu3)
	// Combined perigee+anomaly short period; the 1/e halves of δω and δM
	// cancel in the sum, which is the only observable quantity near e=0.
	δωM := γ2p * ((3-3.5*s2)*χ + 0.75*s2*(sin2u+e*sinu1+(e/3)*sinu3))

	// Assembly in Lyddane variables.
	aOsc := a + δa
	eMag := e + δe + δe1
	cosω, sinω := math.Cos(ωpp), math.Sin(ωpp)
	ξ := eMag * cosω
	ζ := eMag*sinω + eF
	iOsc := i + δi + δi1
	ΩOsc := Ωpp + δΩ
	λOsc := Mpp + ωpp + δωM + δλ1

	eOsc := math.Hypot(ξ, ζ)
	ωOsc := 0.0
	if eOsc > lyddaneSmallE {
		ωOsc = math.Atan2(ζ, ξ)
	}
	MOsc := λOsc - ωOsc
	return newOrbit(aOsc, eOsc, iOsc, ΩOsc, ωOsc, trueFromMean(MOsc, eOsc), target, mean.frame, mean.μ)
}
