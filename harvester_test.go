package analytical

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"
)

func TestHarvesterSetupRejections(t *testing.T) {
	p, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	if _, err := p.SetupMatricesComputation("", nil, nil); err == nil {
		t.Fatal("empty harvester name must be rejected")
	}
	if _, err := p.SetupMatricesComputation("stm", mat.NewDense(5, 5, nil), nil); err == nil {
		t.Fatal("non-6x6 initial STM must be rejected")
	}
}

func TestHarvesterNoParametersNilJacobian(t *testing.T) {
	p, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	h, err := p.SetupMatricesComputation("stm", nil, nil)
	if err != nil {
		t.Fatalf("could not set up harvester: %s", err)
	}
	s, err := p.Propagate(testEpoch.Add(time.Minute))
	if err != nil {
		t.Fatalf("propagation failed: %s", err)
	}
	J, err := h.ParametersJacobian(s)
	if err != nil {
		t.Fatalf("jacobian computation failed: %s", err)
	}
	if J != nil {
		t.Fatal("jacobian must be nil (not empty) when no parameter is selected")
	}
	if names := h.ColumnsNames(); len(names) != 0 {
		t.Fatalf("column names must be empty, got %v", names)
	}
}

func TestHarvesterSTMIdentityAtEpoch(t *testing.T) {
	p, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	h, err := p.SetupMatricesComputation("stm", nil, nil)
	if err != nil {
		t.Fatalf("could not set up harvester: %s", err)
	}
	Φ, err := h.StateTransitionMatrix(p.InitialState())
	if err != nil {
		t.Fatalf("STM computation failed: %s", err)
	}
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			exp := 0.0
			if i == j {
				exp = 1.0
			}
			if got := Φ.At(i, j); math.Abs(got-exp) > 1e-5 {
				t.Fatalf("Φ[%d][%d] invalid at zero elapsed time: got %g expected %g", i, j, got, exp)
			}
		}
	}
}

func TestHarvesterSTMVelocityBlock(t *testing.T) {
	p, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	h, err := p.SetupMatricesComputation("stm", nil, nil)
	if err != nil {
		t.Fatalf("could not set up harvester: %s", err)
	}
	Δt := 10.0
	s, err := p.Propagate(testEpoch.Add(time.Duration(Δt) * time.Second))
	if err != nil {
		t.Fatalf("propagation failed: %s", err)
	}
	Φ, err := h.StateTransitionMatrix(s)
	if err != nil {
		t.Fatalf("STM computation failed: %s", err)
	}
	// Over a short arc the motion is nearly inertial: ∂r/∂r0 ≈ I and
	// ∂r/∂v0 ≈ Δt·I, with O(Δt²) gravity curvature on top.
	for i := 0; i < 3; i++ {
		if got := Φ.At(i, i); math.Abs(got-1) > 1e-2 {
			t.Fatalf("Φ[%d][%d] invalid: got %g expected ~1", i, i, got)
		}
		if got := Φ.At(i, i+3); math.Abs(got-Δt) > 1e-2 {
			t.Fatalf("Φ[%d][%d] invalid: got %g expected ~%g", i, i+3, got, Δt)
		}
		if got := Φ.At(i+3, i+3); math.Abs(got-1) > 1e-2 {
			t.Fatalf("Φ[%d][%d] invalid: got %g expected ~1", i+3, i+3, got)
		}
	}
}

func TestHarvesterChainsInitialSTM(t *testing.T) {
	p, err := NewPropagator(NewKeplerian(), leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	twice := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		twice.Set(i, i, 2)
	}
	h, err := p.SetupMatricesComputation("stm", twice, nil)
	if err != nil {
		t.Fatalf("could not set up harvester: %s", err)
	}
	Φ, err := h.StateTransitionMatrix(p.InitialState())
	if err != nil {
		t.Fatalf("STM computation failed: %s", err)
	}
	for i := 0; i < 6; i++ {
		if got := Φ.At(i, i); math.Abs(got-2) > 1e-5 {
			t.Fatalf("Φ[%d][%d] invalid: got %g expected ~2", i, i, got)
		}
	}
}

func TestHarvesterM2JacobianMatchesCentralDifference(t *testing.T) {
	const m2 = 1e-9
	cfg := DefaultConfig()
	bl := NewBrouwerLyddane(EarthGRIM5C1, m2)
	bl.M2().SetSelected(true)
	p, err := NewPropagator(bl, leoOrbit(), Osculating, nil, 450, cfg)
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	h, err := p.SetupMatricesComputation("stm", nil, nil)
	if err != nil {
		t.Fatalf("could not set up harvester: %s", err)
	}
	target := testEpoch.Add(10 * time.Minute)
	s, err := p.Propagate(target)
	if err != nil {
		t.Fatalf("propagation failed: %s", err)
	}
	J, err := h.ParametersJacobian(s)
	if err != nil {
		t.Fatalf("jacobian computation failed: %s", err)
	}
	if r, c := J.Dims(); r != 6 || c != 1 {
		t.Fatalf("jacobian dimensions invalid: %dx%d", r, c)
	}
	if bl.M2().Value() != m2 {
		t.Fatalf("driver value not restored after differentiation: %g", bl.M2().Value())
	}

	// Coarse second-order central difference over two independent theories.
	const step = 1e-13
	perturbed := func(value float64) [6]float64 {
		theory := NewBrouwerLyddane(EarthGRIM5C1, value)
		prop, err := NewPropagator(theory, leoOrbit(), Osculating, nil, 450, cfg)
		if err != nil {
			t.Fatalf("perturbed propagator failed: %s", err)
		}
		st, err := prop.Propagate(target)
		if err != nil {
			t.Fatalf("perturbed propagation failed: %s", err)
		}
		return cartesian(st.Orbit())
	}
	plus := perturbed(m2 + step)
	minus := perturbed(m2 - step)
	var colMax float64
	manual := [6]float64{}
	for i := 0; i < 6; i++ {
		manual[i] = (plus[i] - minus[i]) / (2 * step)
		colMax = math.Max(colMax, math.Abs(manual[i]))
	}
	for i := 0; i < 6; i++ {
		if diff := math.Abs(J.At(i, 0) - manual[i]); diff > 1e-2*colMax {
			t.Fatalf("∂y[%d]/∂M2 invalid: got %g expected %g", i, J.At(i, 0), manual[i])
		}
	}
}

func TestHarvesterFrozenColumns(t *testing.T) {
	bl := NewBrouwerLyddane(EarthGRIM5C1, 0)
	bl.M2().SetSelected(true)
	p, err := NewPropagator(bl, leoOrbit(), Osculating, nil, 450, DefaultConfig())
	if err != nil {
		t.Fatalf("could not build propagator: %s", err)
	}
	frozen, err := p.SetupMatricesComputation("frozen", nil, nil)
	if err != nil {
		t.Fatalf("could not set up harvester: %s", err)
	}
	live, err := p.SetupMatricesComputation("live", nil, nil)
	if err != nil {
		t.Fatalf("could not set up harvester: %s", err)
	}
	frozen.FreezeColumnsNames()
	bl.M2().SetSelected(false)
	if names := frozen.ColumnsNames(); len(names) != 1 || names[0] != M2DriverName {
		t.Fatalf("frozen columns must survive deselection, got %v", names)
	}
	if names := live.ColumnsNames(); len(names) != 0 {
		t.Fatalf("unfrozen columns must follow the selection, got %v", names)
	}
}
