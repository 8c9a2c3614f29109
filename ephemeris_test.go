package analytical

import (
	"testing"
	"time"
)

func TestEphemerisSpanFromRecordedEpochs(t *testing.T) {
	p, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	gen := p.EphemerisGenerator()
	lo := testEpoch.Add(10 * time.Minute)
	hi := testEpoch.Add(30 * time.Minute)
	// Out of order on purpose, the span is min/max over the recorded epochs.
	for _, target := range []time.Time{hi, lo, testEpoch.Add(20 * time.Minute)} {
		if _, err := p.Propagate(target); err != nil {
			t.Fatalf("propagation failed: %s", err)
		}
	}
	eph, err := gen.Ephemeris()
	if err != nil {
		t.Fatalf("could not generate ephemeris: %s", err)
	}
	if !eph.MinDate().Equal(lo) || !eph.MaxDate().Equal(hi) {
		t.Fatalf("span invalid: [%s, %s]", eph.MinDate(), eph.MaxDate())
	}
}

func TestEphemerisStateAtBounds(t *testing.T) {
	p, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	gen := p.EphemerisGenerator()
	lo := testEpoch.Add(10 * time.Minute)
	hi := testEpoch.Add(30 * time.Minute)
	for _, target := range []time.Time{lo, hi} {
		if _, err := p.Propagate(target); err != nil {
			t.Fatalf("propagation failed: %s", err)
		}
	}
	eph, err := gen.Ephemeris()
	if err != nil {
		t.Fatalf("could not generate ephemeris: %s", err)
	}

	inside := testEpoch.Add(17 * time.Minute)
	state, err := eph.StateAt(inside)
	if err != nil {
		t.Fatalf("in-span query failed: %s", err)
	}
	if !state.Epoch().Equal(inside) {
		t.Fatalf("ephemeris state epoch invalid: %s", state.Epoch())
	}
	// The replay matches the propagator's own evaluation.
	direct, err := p.Propagate(inside)
	if err != nil {
		t.Fatalf("direct propagation failed: %s", err)
	}
	vectorsEqual(t, "R", state.Orbit().R(), direct.Orbit().R(), 1e-6)

	// Half a second past the bound is inside the extrapolation threshold.
	if _, err := eph.StateAt(hi.Add(500 * time.Millisecond)); err != nil {
		t.Fatalf("query within the extrapolation threshold must succeed: %s", err)
	}
	// Well past the threshold fails with the typed error.
	_, err = eph.StateAt(hi.Add(time.Hour))
	if err == nil {
		t.Fatal("query far outside the span must fail")
	}
	oerr, ok := err.(OutOfBoundsError)
	if !ok {
		t.Fatalf("expected an OutOfBoundsError, got %T (%s)", err, err)
	}
	if !oerr.Min.Equal(lo) || !oerr.Max.Equal(hi) {
		t.Fatalf("error span invalid: [%s, %s]", oerr.Min, oerr.Max)
	}
	if _, err := eph.StateAt(lo.Add(-time.Minute)); err == nil {
		t.Fatal("query before the span must fail")
	}
}

// Re-arming the propagator must not rewrite the span of a generator armed
// earlier: each generator keeps its own recording.
func TestEphemerisRearmKeepsEarlierSpan(t *testing.T) {
	p, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	first := p.EphemerisGenerator()
	t1 := testEpoch.Add(10 * time.Minute)
	if _, err := p.Propagate(t1); err != nil {
		t.Fatalf("propagation failed: %s", err)
	}
	second := p.EphemerisGenerator()
	t2 := testEpoch.Add(40 * time.Minute)
	if _, err := p.Propagate(t2); err != nil {
		t.Fatalf("propagation failed: %s", err)
	}
	eph1, err := first.Ephemeris()
	if err != nil {
		t.Fatalf("first generator failed: %s", err)
	}
	if !eph1.MinDate().Equal(t1) || !eph1.MaxDate().Equal(t1) {
		t.Fatalf("first span rewritten by re-arming: [%s, %s]", eph1.MinDate(), eph1.MaxDate())
	}
	eph2, err := second.Ephemeris()
	if err != nil {
		t.Fatalf("second generator failed: %s", err)
	}
	if !eph2.MinDate().Equal(t2) || !eph2.MaxDate().Equal(t2) {
		t.Fatalf("second span invalid: [%s, %s]", eph2.MinDate(), eph2.MaxDate())
	}
}

func TestEphemerisWithoutRecordedStates(t *testing.T) {
	p, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	gen := p.EphemerisGenerator()
	if _, err := gen.Ephemeris(); err == nil {
		t.Fatal("ephemeris without recorded states must fail")
	}
}
