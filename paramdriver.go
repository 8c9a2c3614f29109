package analytical

import "fmt"

// ParameterDriver is the configuration handle of one physical parameter of
// a theory: its name, reference value, perturbation scale and selection
// flag. The matrices harvester reads the selection flag and the scale to
// size the parameter Jacobian.
type ParameterDriver struct {
	name      string
	reference float64
	scale     float64
	value     float64
	selected  bool
}

// NewParameterDriver returns a driver at its reference value, unselected.
func NewParameterDriver(name string, reference, scale float64) *ParameterDriver {
	return &ParameterDriver{name: name, reference: reference, scale: scale, value: reference}
}

// Name returns the parameter name.
func (d *ParameterDriver) Name() string {
	return d.name
}

// Reference returns the reference value.
func (d *ParameterDriver) Reference() float64 {
	return d.reference
}

// Scale returns the perturbation scale used when differentiating with
// respect to this parameter.
func (d *ParameterDriver) Scale() float64 {
	return d.scale
}

// Value returns the current value.
func (d *ParameterDriver) Value() float64 {
	return d.value
}

// SetValue updates the current value.
func (d *ParameterDriver) SetValue(v float64) {
	d.value = v
}

// IsSelected returns whether this parameter participates in the Jacobian.
func (d *ParameterDriver) IsSelected() bool {
	return d.selected
}

// SetSelected flags this parameter for Jacobian computation.
func (d *ParameterDriver) SetSelected(selected bool) {
	d.selected = selected
}

func (d *ParameterDriver) String() string {
	return fmt.Sprintf("%s=%g (ref=%g selected=%v)", d.name, d.value, d.reference, d.selected)
}
