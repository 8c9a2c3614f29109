package analytical

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	deg2rad = math.Pi / 180
)

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if scalar.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// dot performs the inner product.
func dot(a, b []float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// cross performs the cross product.
func cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]} // Cross product R x V.
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// normalizeAngle returns the angle equivalent to α which lies in (-π, π].
// All angle differences go through here before being combined, otherwise the
// secular and periodic contributions cancel badly across the 2π wrap.
func normalizeAngle(α float64) float64 {
	α = math.Mod(α, 2*math.Pi)
	if α <= -math.Pi {
		α += 2 * math.Pi
	} else if α > math.Pi {
		α -= 2 * math.Pi
	}
	return α
}

// angularDistance returns the signed distance from α to β in (-π, π].
func angularDistance(α, β float64) float64 {
	return normalizeAngle(β - α)
}

// positiveAngle returns the angle equivalent to α which lies in [0, 2π).
func positiveAngle(α float64) float64 {
	α = math.Mod(α, 2*math.Pi)
	if α < 0 {
		α += 2 * math.Pi
	}
	return α
}

// eccentricFromMean solves Kepler's equation M = E - e sinE for E via Newton
// iteration. Converges in a handful of iterations for any elliptical orbit.
func eccentricFromMean(M, e float64) float64 {
	M = normalizeAngle(M)
	E := M
	if e > 0.8 {
		// Better seed near parabolic, cf. Vallado algorithm 2.
		E = math.Pi * sign(M)
	}
	for k := 0; k < 50; k++ {
		sinE, cosE := math.Sincos(E)
		δ := (M - (E - e*sinE)) / (1 - e*cosE)
		E += δ
		if math.Abs(δ) < 1e-14 {
			break
		}
	}
	return E
}

// trueFromEccentric converts the eccentric anomaly to the true anomaly.
func trueFromEccentric(E, e float64) float64 {
	sinE, cosE := math.Sincos(E)
	β := math.Sqrt(1 - e*e)
	return math.Atan2(β*sinE, cosE-e)
}

// eccentricFromTrue converts the true anomaly to the eccentric anomaly.
func eccentricFromTrue(ν, e float64) float64 {
	sinν, cosν := math.Sincos(ν)
	β := math.Sqrt(1 - e*e)
	return math.Atan2(β*sinν, e+cosν)
}

// meanFromEccentric converts the eccentric anomaly to the mean anomaly.
func meanFromEccentric(E, e float64) float64 {
	return E - e*math.Sin(E)
}

// trueFromMean chains both anomaly conversions.
func trueFromMean(M, e float64) float64 {
	return trueFromEccentric(eccentricFromMean(M, e), e)
}

// meanFromTrue chains both anomaly conversions.
func meanFromTrue(ν, e float64) float64 {
	return meanFromEccentric(eccentricFromTrue(ν, e), e)
}
