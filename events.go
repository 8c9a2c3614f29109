package analytical

// StepHandler receives every state produced by a propagator, in production
// order. The kernel does not implement root-finding; handlers which need
// event bracketing do their own bookkeeping across calls.
type StepHandler interface {
	HandleStep(s SpacecraftState) error
}

// EventDetector is notified with every produced state. Errors abort the
// propagation and are wrapped with the detector name preserved as cause
// context.
type EventDetector interface {
	Name() string
	OnState(s SpacecraftState) error
}

// StepFunc adapts a plain function to the StepHandler interface.
type StepFunc func(s SpacecraftState) error

// HandleStep implements the StepHandler interface.
func (f StepFunc) HandleStep(s SpacecraftState) error {
	return f(s)
}
