package analytical

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestZonalFieldJSign(t *testing.T) {
	// J_n = -Cn0: for Earth C20 is negative, so J2 must come out positive.
	if J2 := EarthGRIM5C1.J(2); !scalar.EqualWithinAbs(J2, 1.08262631303e-3, 1e-15) {
		t.Fatalf("J2 invalid: %g", J2)
	}
	if EarthGRIM5C1.J(3) >= 0 {
		t.Fatal("Earth J3 must be negative")
	}
	if EarthGRIM5C1.C(1) != 0 || EarthGRIM5C1.C(7) != 0 {
		t.Fatal("coefficients outside 2..6 must read as zero")
	}
}

func TestStaticGravityTruncation(t *testing.T) {
	gp := StaticGravity{Field: EarthGRIM5C1}
	f, err := gp.Zonal(3, testEpoch)
	if err != nil {
		t.Fatalf("truncation failed: %s", err)
	}
	if f.C(2) != EarthGRIM5C1.C(2) || f.C(3) != EarthGRIM5C1.C(3) {
		t.Fatal("kept coefficients must be untouched")
	}
	for n := uint8(4); n <= 6; n++ {
		if f.C(n) != 0 {
			t.Fatalf("C%d0 must be truncated to zero, got %g", n, f.C(n))
		}
	}
	if f.Re() != EarthGRIM5C1.Re() || f.GM() != EarthGRIM5C1.GM() {
		t.Fatal("radius and GM must survive truncation")
	}
	if _, err := gp.Zonal(7, testEpoch); err == nil {
		t.Fatal("degree above 6 must be rejected")
	}
	if _, err := gp.Zonal(1, testEpoch); err == nil {
		t.Fatal("degree below 2 must be rejected")
	}
}
