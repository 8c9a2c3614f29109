package analytical

import (
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// OrbitType is the parameterization convention of harvested matrices.
type OrbitType uint8

// PositionAngle is the anomaly convention of harvested matrices.
type PositionAngle uint8

const (
	// CartesianType: rows/columns are (x, y, z, vx, vy, vz).
	CartesianType OrbitType = iota
)

const (
	// MeanAngle is the mean-anomaly convention.
	MeanAngle PositionAngle = iota
)

// Eighth-order central difference: f' = Σ w_k (f(+kh) - f(-kh)) / h.
var stencilWeights = [4]float64{4.0 / 5.0, -1.0 / 5.0, 4.0 / 105.0, -1.0 / 280.0}

// MatricesHarvester differentiates the propagation with respect to the
// initial state and the selected theory parameters. The closed-form
// theories are evaluated through an 8-point central stencil, one fully
// independent shifted propagator per perturbation column.
//
// Matrices are valid only at the exact epoch they are requested at; they
// are never interpolated.
type MatricesHarvester struct {
	name       string
	prop       *Propagator
	initialSTM *mat.Dense
	initialJac *mat.Dense
	columns    []string
	frozen     bool
}

// SetupMatricesComputation builds a named harvester bound to this propagator.
// The name addresses the computation later and must not be empty. The
// initial STM defaults to identity; an initial parameter Jacobian may be
// provided to chain a previous propagation's partials.
func (p *Propagator) SetupMatricesComputation(name string, initialSTM, initialJac *mat.Dense) (*MatricesHarvester, error) {
	if name == "" {
		return nil, errors.New("harvester needs a non-empty name")
	}
	if initialSTM == nil {
		initialSTM = denseIdentity(6)
	}
	if r, c := initialSTM.Dims(); r != 6 || c != 6 {
		return nil, errors.Errorf("initial STM must be 6x6, got %dx%d", r, c)
	}
	h := &MatricesHarvester{name: name, prop: p, initialSTM: initialSTM, initialJac: initialJac}
	return h, nil
}

// Name returns the harvester name.
func (h *MatricesHarvester) Name() string {
	return h.name
}

// OrbitType returns the row/column state convention.
func (h *MatricesHarvester) OrbitType() OrbitType {
	return CartesianType
}

// PositionAngleType returns the anomaly convention.
func (h *MatricesHarvester) PositionAngleType() PositionAngle {
	return MeanAngle
}

// ColumnsNames returns the parameter names sizing the Jacobian, in driver
// order. Once FreezeColumnsNames has been called the set no longer follows
// later selection changes.
func (h *MatricesHarvester) ColumnsNames() []string {
	if h.frozen {
		return append([]string(nil), h.columns...)
	}
	var names []string
	for _, d := range h.prop.theory.Drivers() {
		if d.IsSelected() {
			names = append(names, d.Name())
		}
	}
	return names
}

// FreezeColumnsNames locks the selected parameter set so that later
// selection changes do not retroactively resize already-computed matrices.
func (h *MatricesHarvester) FreezeColumnsNames() {
	h.columns = h.ColumnsNames()
	h.frozen = true
}

// cartesian flattens a state into (x, y, z, vx, vy, vz).
func cartesian(o Orbit) [6]float64 {
	R, V := o.RV()
	return [6]float64{R[0], R[1], R[2], V[0], V[1], V[2]}
}

// shiftedPropagator builds an independent propagator whose initial
// osculating state is shifted by δ along Cartesian component j.
func (h *MatricesHarvester) shiftedPropagator(j int, δ float64) (*Propagator, error) {
	o := h.prop.initial.Orbit()
	y := cartesian(o)
	y[j] += δ
	shifted := NewOrbitFromRV(y[0:3], y[3:6], o.Epoch(), o.Frame(), o.GM())
	return NewPropagator(h.prop.theory, shifted, Osculating, h.prop.attitude, h.prop.mass, h.prop.cfg)
}

// columnStep returns the stencil step for Cartesian component j: the
// configured position shift, scaled by the orbital rate for the velocity
// components.
func (h *MatricesHarvester) columnStep(j int) float64 {
	if j < 3 {
		return h.prop.cfg.DifferenceStep
	}
	return h.prop.cfg.DifferenceStep * h.prop.initial.Orbit().MeanMotion()
}

// StateTransitionMatrix returns the 6×6 Jacobian of the state at the
// provided state's epoch with respect to the initial state, chained with
// the initial STM.
func (h *MatricesHarvester) StateTransitionMatrix(s SpacecraftState) (*mat.Dense, error) {
	Φ := mat.NewDense(6, 6, nil)
	target := s.Epoch()
	for j := 0; j < 6; j++ {
		step := h.columnStep(j)
		col, err := h.differentiateState(j, step, target)
		if err != nil {
			return nil, err
		}
		for i := 0; i < 6; i++ {
			Φ.Set(i, j, col[i])
		}
	}
	var out mat.Dense
	out.Mul(Φ, h.initialSTM)
	return &out, nil
}

// differentiateState applies the 8-point stencil to initial-state column j.
func (h *MatricesHarvester) differentiateState(j int, step float64, target time.Time) ([6]float64, error) {
	var col [6]float64
	for k := 1; k <= 4; k++ {
		plus, err := h.shiftedState(j, float64(k)*step, target)
		if err != nil {
			return col, err
		}
		minus, err := h.shiftedState(j, -float64(k)*step, target)
		if err != nil {
			return col, err
		}
		w := stencilWeights[k-1] / step
		for i := 0; i < 6; i++ {
			col[i] += w * (plus[i] - minus[i])
		}
	}
	return col, nil
}

func (h *MatricesHarvester) shiftedState(j int, δ float64, target time.Time) ([6]float64, error) {
	prop, err := h.shiftedPropagator(j, δ)
	if err != nil {
		return [6]float64{}, errors.Wrapf(err, "shifting state component %d by %g", j, δ)
	}
	state, err := prop.Propagate(target)
	if err != nil {
		return [6]float64{}, err
	}
	return cartesian(state.Orbit()), nil
}

// ParametersJacobian returns the 6×p Jacobian of the state at the provided
// state's epoch with respect to the selected parameters, or nil when no
// parameter is selected (an explicitly absent value, not a zero-width
// matrix).
func (h *MatricesHarvester) ParametersJacobian(s SpacecraftState) (*mat.Dense, error) {
	names := h.ColumnsNames()
	if len(names) == 0 {
		return nil, nil
	}
	target := s.Epoch()
	J := mat.NewDense(6, len(names), nil)
	for c, name := range names {
		driver := h.driverByName(name)
		if driver == nil {
			return nil, errors.Errorf("parameter %q not exposed by theory %s", name, h.prop.theory.Name())
		}
		col, err := h.differentiateParameter(driver, target)
		if err != nil {
			return nil, err
		}
		for i := 0; i < 6; i++ {
			J.Set(i, c, col[i])
		}
	}
	if h.initialJac != nil {
		Φ, err := h.StateTransitionMatrix(s)
		if err != nil {
			return nil, err
		}
		var chained mat.Dense
		chained.Mul(Φ, h.initialJac)
		var out mat.Dense
		out.Add(J, &chained)
		return &out, nil
	}
	return J, nil
}

func (h *MatricesHarvester) driverByName(name string) *ParameterDriver {
	for _, d := range h.prop.theory.Drivers() {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// differentiateParameter applies the stencil to one theory parameter, using
// the driver scale as step. The driver value is restored afterwards.
func (h *MatricesHarvester) differentiateParameter(driver *ParameterDriver, target time.Time) ([6]float64, error) {
	var col [6]float64
	nominal := driver.Value()
	defer driver.SetValue(nominal)
	step := driver.Scale()
	for k := 1; k <= 4; k++ {
		driver.SetValue(nominal + float64(k)*step)
		plus, err := h.reEvaluate(target)
		if err != nil {
			return col, err
		}
		driver.SetValue(nominal - float64(k)*step)
		minus, err := h.reEvaluate(target)
		if err != nil {
			return col, err
		}
		w := stencilWeights[k-1] / step
		for i := 0; i < 6; i++ {
			col[i] += w * (plus[i] - minus[i])
		}
	}
	return col, nil
}

// reEvaluate rebuilds a propagator from the unshifted initial state under
// the current (perturbed) parameter values and propagates it.
func (h *MatricesHarvester) reEvaluate(target time.Time) ([6]float64, error) {
	o := h.prop.initial.Orbit()
	prop, err := NewPropagator(h.prop.theory, o, Osculating, h.prop.attitude, h.prop.mass, h.prop.cfg)
	if err != nil {
		return [6]float64{}, err
	}
	state, err := prop.Propagate(target)
	if err != nil {
		return [6]float64{}, err
	}
	return cartesian(state.Orbit()), nil
}

// denseIdentity returns an n×n identity matrix.
func denseIdentity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
