package analytical

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	eccentricityε = 5e-7                         // dimensionless
	angleε        = (5e-5 / 360) * (2 * math.Pi) // 5e-5 degrees
	distanceε     = 1e-3                         // 1 mm
	// criticalInclinationε guards the 1-5cos²i denominator of the zonal
	// secular rates (cos²i = 1/5, i ≈ 63.43 deg and its complement).
	criticalInclinationε = 1e-4
)

// Frame identifies an inertial reference frame. Transformations between
// frames are an external collaborator; the kernel only checks identity.
type Frame struct {
	Name string
}

// EME2000 is the default inertial frame.
var EME2000 = Frame{"EME2000"}

// Orbit defines an orbit via its orbital elements, tagged with its epoch,
// reference frame and gravitational parameter. Orbits are immutable: they
// are never mutated, only replaced.
type Orbit struct {
	a, e, i, Ω, ω, ν float64
	epoch            time.Time
	frame            Frame
	μ                float64
}

// NewOrbitFromOE creates an orbit from the orbital elements, with a in
// meters and μ in m³/s².
// WARNING: Angles must be in degrees not radian.
func NewOrbitFromOE(a, e, i, Ω, ω, ν float64, epoch time.Time, frame Frame, μ float64) Orbit {
	return newOrbit(a, e, Deg2rad(i), Deg2rad(Ω), Deg2rad(ω), Deg2rad(ν), epoch, frame, μ)
}

// newOrbit builds an orbit from elements already in radians.
func newOrbit(a, e, i, Ω, ω, ν float64, epoch time.Time, frame Frame, μ float64) Orbit {
	return Orbit{a, e, i, positiveAngle(Ω), positiveAngle(ω), positiveAngle(ν), epoch.UTC(), frame, μ}
}

// NewOrbitFromRV returns orbital elements from the R and V vectors (meters
// and meters per second), from Vallado's RV2COE.
func NewOrbitFromRV(R, V []float64, epoch time.Time, frame Frame, μ float64) Orbit {
	hVec := cross(R, V)
	n := cross([]float64{0, 0, 1}, hVec)
	v := norm(V)
	r := norm(R)
	ξ := (v*v)/2 - μ/r
	a := -μ / (2 * ξ)
	eVec := make([]float64, 3)
	for k := 0; k < 3; k++ {
		eVec[k] = ((v*v-μ/r)*R[k] - dot(R, V)*V[k]) / μ
	}
	e := norm(eVec)
	i := math.Acos(hVec[2] / norm(hVec))
	ω := math.Acos(dot(n, eVec) / (norm(n) * e))
	if math.IsNaN(ω) {
		ω = 0
	}
	if eVec[2] < 0 {
		ω = 2*math.Pi - ω
	}
	Ω := math.Acos(n[0] / norm(n))
	if math.IsNaN(Ω) {
		Ω = 0
	}
	if n[1] < 0 {
		Ω = 2*math.Pi - Ω
	}
	cosν := dot(eVec, R) / (e * r)
	if abscosν := math.Abs(cosν); abscosν > 1 && scalar.EqualWithinAbs(abscosν, 1, 1e-12) {
		cosν = sign(cosν) // Rounding error on a quadrant boundary.
	}
	ν := math.Acos(cosν)
	if dot(R, V) < 0 {
		ν = 2*math.Pi - ν
	}
	// Fix rounding errors.
	i = math.Mod(i, 2*math.Pi)
	return newOrbit(a, e, i, Ω, ω, ν, epoch, frame, μ)
}

// Epoch returns the epoch this orbit is valid at.
func (o Orbit) Epoch() time.Time {
	return o.epoch
}

// Frame returns the reference frame identity.
func (o Orbit) Frame() Frame {
	return o.frame
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (o Orbit) GM() float64 {
	return o.μ
}

// Elements returns the six Keplerian elements plus the composite angles
// which work in all types of orbits.
func (o Orbit) Elements() (a, e, i, Ω, ω, ν, λ, tildeω, u float64) {
	return o.a, o.e, o.i, o.Ω, o.ω, o.ν, o.TrueLongλ(), o.Tildeω(), o.ArgLatitudeU()
}

// Energyξ returns the specific mechanical energy ξ.
func (o Orbit) Energyξ() float64 {
	return -o.μ / (2 * o.a)
}

// Tildeω returns the longitude of periapsis.
func (o Orbit) Tildeω() float64 {
	return math.Mod(o.ω+o.Ω, 2*math.Pi)
}

// TrueLongλ returns the *approximate* true longitude (cf. Vallado page 103).
// NOTE: One should only need this for equatorial orbits.
func (o Orbit) TrueLongλ() float64 {
	return math.Mod(o.ω+o.Ω+o.ν, 2*math.Pi)
}

// ArgLatitudeU returns the argument of latitude.
func (o Orbit) ArgLatitudeU() float64 {
	return math.Mod(o.ν+o.ω, 2*math.Pi)
}

// SemiParameter returns the semi-parameter p = a(1-e²).
func (o Orbit) SemiParameter() float64 {
	return o.a * (1 - o.e*o.e)
}

// Apoapsis returns the apoapsis radius.
func (o Orbit) Apoapsis() float64 {
	return o.a * (1 + o.e)
}

// Periapsis returns the periapsis radius.
func (o Orbit) Periapsis() float64 {
	return o.a * (1 - o.e)
}

// MeanMotion returns the Keplerian mean motion n = sqrt(μ/a³).
func (o Orbit) MeanMotion() float64 {
	return math.Sqrt(o.μ / math.Pow(o.a, 3))
}

// Period returns the period of this orbit.
func (o Orbit) Period() time.Duration {
	// The time package does not trivially handle fractions of a second, so
	// let's compute this in a convoluted way...
	seconds := 2 * math.Pi * math.Sqrt(math.Pow(o.a, 3)/o.μ)
	duration, _ := time.ParseDuration(fmt.Sprintf("%.6fs", seconds))
	return duration
}

// EccentricAnomaly returns the eccentric anomaly.
func (o Orbit) EccentricAnomaly() float64 {
	return eccentricFromTrue(o.ν, o.e)
}

// MeanAnomaly returns the mean anomaly.
func (o Orbit) MeanAnomaly() float64 {
	return meanFromEccentric(o.EccentricAnomaly(), o.e)
}

// CircularElements returns the circular element set (a, ex, ey, i, Ω, αM)
// used by the near-circular theories: the eccentricity vector in the orbital
// frame and the mean argument of latitude.
func (o Orbit) CircularElements() (a, ex, ey, i, Ω, αM float64) {
	sinω, cosω := math.Sincos(o.ω)
	return o.a, o.e * cosω, o.e * sinω, o.i, o.Ω, positiveAngle(o.ω + o.MeanAnomaly())
}

// newOrbitFromCircular rebuilds a Keplerian orbit from circular elements.
func newOrbitFromCircular(a, ex, ey, i, Ω, αM float64, epoch time.Time, frame Frame, μ float64) Orbit {
	e := math.Hypot(ex, ey)
	ω := 0.0
	if e > 1e-15 {
		ω = math.Atan2(ey, ex)
	}
	M := αM - ω
	return newOrbit(a, e, i, Ω, ω, trueFromMean(M, e), epoch, frame, μ)
}

// RV returns the radius and velocity vectors in the orbit frame.
func (o Orbit) RV() ([]float64, []float64) {
	p := o.SemiParameter()
	// Support special orbits.
	ν := o.ν
	ω := o.ω
	Ω := o.Ω
	if o.e < eccentricityε {
		ω = 0
		if o.i < angleε {
			// Circular equatorial
			Ω = 0
			ν = o.TrueLongλ()
		} else {
			// Circular inclined
			ν = o.ArgLatitudeU()
		}
	} else if o.i < angleε {
		Ω = 0
		ω = o.Tildeω()
	}

	sinν, cosν := math.Sincos(ν)
	R := []float64{p * cosν / (1 + o.e*cosν), p * sinν / (1 + o.e*cosν), 0}
	R = PQW2ECI(o.i, ω, Ω, R)

	V := []float64{-math.Sqrt(o.μ/p) * sinν, math.Sqrt(o.μ/p) * (o.e + cosν), 0}
	V = PQW2ECI(o.i, ω, Ω, V)
	return R, V
}

// R returns the radius vector.
func (o Orbit) R() (R []float64) {
	R, _ = o.RV()
	return R
}

// V returns the velocity vector.
func (o Orbit) V() (V []float64) {
	_, V = o.RV()
	return V
}

// RNorm returns the norm of the radius vector, but without computing the
// radius vector itself.
func (o Orbit) RNorm() float64 {
	return o.SemiParameter() / (1 + o.e*math.Cos(o.ν))
}

// VNorm returns the norm of the velocity vector, but without computing the
// velocity vector itself.
func (o Orbit) VNorm() float64 {
	if scalar.EqualWithinAbs(o.e, 0, eccentricityε) {
		return math.Sqrt(o.μ / o.RNorm())
	}
	if scalar.EqualWithinAbs(o.e, 1, eccentricityε) {
		return math.Sqrt(2 * o.μ / o.RNorm())
	}
	return math.Sqrt(2 * (o.μ/o.RNorm() + o.Energyξ()))
}

// String implements the stringer interface (hence the value receiver)
func (o Orbit) String() string {
	if o.e < eccentricityε {
		return fmt.Sprintf("a=%.1f e=%.6f i=%.3f Ω=%.3f u=%.3f @ %s", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ArgLatitudeU()), o.epoch.Format(time.RFC3339))
	}
	return fmt.Sprintf("a=%.1f e=%.6f i=%.3f Ω=%.3f ω=%.3f ν=%.3f @ %s", o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), Rad2deg(o.ν), o.epoch.Format(time.RFC3339))
}

// Equals returns whether two orbits are identical with free true anomaly.
// Use StrictlyEquals to also check true anomaly and epoch.
func (o Orbit) Equals(o1 Orbit) (bool, error) {
	if o.frame != o1.frame {
		return false, errors.New("different frame")
	}
	if !scalar.EqualWithinAbs(o.μ, o1.μ, 1) {
		return false, errors.New("different gravitational parameter")
	}
	if !scalar.EqualWithinAbs(o.a, o1.a, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !scalar.EqualWithinAbs(o.e, o1.e, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !scalar.EqualWithinAbs(o.i, o1.i, angleε) {
		return false, errors.New("inclination invalid")
	}
	if !scalar.EqualWithinAbs(o.Ω, o1.Ω, angleε) {
		return false, errors.New("RAAN invalid")
	}
	if o.e < eccentricityε {
		if !scalar.EqualWithinAbs(normalizeAngle(o.ArgLatitudeU()), normalizeAngle(o1.ArgLatitudeU()), angleε) {
			return false, errors.New("argument of latitude invalid")
		}
	} else if !scalar.EqualWithinAbs(o.ω, o1.ω, angleε) {
		return false, errors.New("argument of perigee invalid")
	}
	return true, nil
}

// StrictlyEquals returns whether two orbits are identical.
func (o Orbit) StrictlyEquals(o1 Orbit) (bool, error) {
	if !o.epoch.Equal(o1.epoch) {
		return false, errors.New("epoch invalid")
	}
	if o.e > eccentricityε && !scalar.EqualWithinAbs(o.ν, o1.ν, angleε) {
		return false, errors.New("true anomaly invalid")
	}
	return o.Equals(o1)
}
