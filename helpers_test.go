package analytical

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

var testEpoch = time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)

// leoOrbit returns a well-behaved LEO test orbit.
func leoOrbit() Orbit {
	return NewOrbitFromOE(7.2e6, 0.05, 50, 30, 80, 40, testEpoch, EME2000, EarthGRIM5C1.GM())
}

// nearCircularOrbit stays inside the Eckstein-Hechler validity domain.
func nearCircularOrbit() Orbit {
	return NewOrbitFromOE(7.2e6, 0.001, 98.7, 15, 0, 10, testEpoch, EME2000, EarthGRIM5C1.GM())
}

func vectorsEqual(t *testing.T, name string, got, exp []float64, ε float64) {
	t.Helper()
	for k := range exp {
		if !scalar.EqualWithinAbs(got[k], exp[k], ε) {
			t.Fatalf("%s[%d] invalid: got %.9f expected %.9f (ε=%g)", name, k, got[k], exp[k], ε)
		}
	}
}

func anglesEqual(t *testing.T, name string, got, exp, ε float64) {
	t.Helper()
	if d := math.Abs(angularDistance(got, exp)); d > ε {
		t.Fatalf("%s invalid: got %.12f expected %.12f (Δ=%g)", name, got, exp, d)
	}
}
