package analytical

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestJulianDate(t *testing.T) {
	// J2000.0 reference epoch.
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if jd := JulianDate(j2000); !scalar.EqualWithinAbs(jd, 2451545.0, 1e-6) {
		t.Fatalf("J2000 Julian date invalid: %f", jd)
	}
}

func TestElapsedSeconds(t *testing.T) {
	if d := elapsedSeconds(testEpoch, testEpoch.Add(90*time.Minute)); !scalar.EqualWithinAbs(d, 5400, 1e-4) {
		t.Fatalf("elapsed seconds invalid: %f", d)
	}
	if d := elapsedSeconds(testEpoch, testEpoch.Add(-time.Hour)); !scalar.EqualWithinAbs(d, -3600, 1e-4) {
		t.Fatalf("elapsed seconds must be signed: %f", d)
	}
	// Julian-day arithmetic keeps multi-century spans usable where
	// time.Duration saturates.
	far := testEpoch.AddDate(400, 0, 0)
	if d := elapsedSeconds(testEpoch, far); d < 400*365*86400 {
		t.Fatalf("multi-century span invalid: %f", d)
	}
}
