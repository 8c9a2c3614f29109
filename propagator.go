package analytical

import (
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/pkg/errors"
)

// PropagationType states whether a constructor input orbit is osculating or
// already expressed in the theory's mean elements.
type PropagationType uint8

const (
	// Osculating input orbits go through one mean-element solve at construction.
	Osculating PropagationType = iota
	// Mean input orbits are adopted as the internal mean state directly.
	Mean
)

func (t PropagationType) String() string {
	switch t {
	case Osculating:
		return "osculating"
	case Mean:
		return "mean"
	}
	panic("cannot stringify unknown propagation type")
}

/* Handles the analytical propagations. */

// Propagator is the shared state machine over one closed-form theory: it
// solves the invariant mean elements once, evaluates the theory at each
// requested epoch, runs the additional-state scheduler and hands each
// produced state to the registered collaborators.
//
// A Propagator is single-owner, single-thread: concurrent Propagate calls on
// one instance must be serialized by the caller. Distinct instances are
// fully independent.
type Propagator struct {
	theory    AnalyticalTheory
	attitude  AttitudeProvider
	mass      float64
	mean      Orbit // invariant mean state, replaced only by resets
	initial   SpacecraftState
	providers []AdditionalStateProvider
	handlers  []StepHandler
	detectors []EventDetector
	recorder  *ephemerisRecorder
	direction int // -1 backward, 0 undecided, +1 forward
	cfg       Config
	logger    kitlog.Logger
}

// NewPropagator builds a propagator over the provided theory. The orbit is
// either osculating (one mean solve happens here, bounded by the Config
// iteration cap) or already mean, per ptype. Construction fails on any
// theory validity violation, identifying the offending value.
func NewPropagator(theory AnalyticalTheory, o Orbit, ptype PropagationType, att AttitudeProvider, mass float64, cfg Config) (*Propagator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if att == nil {
		att = DefaultAttitude
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "theory", theory.Name())

	var mean Orbit
	var err error
	switch ptype {
	case Mean:
		if err = theory.Validate(o); err != nil {
			return nil, err
		}
		mean = o
	default:
		mean, err = theory.MeanFromOsculating(o, cfg.MeanTolerance, cfg.MeanMaxIterations)
		if err != nil {
			return nil, err
		}
	}

	p := &Propagator{
		theory:   theory,
		attitude: att,
		mass:     mass,
		mean:     mean,
		cfg:      cfg,
		logger:   klog,
	}
	initial, err := p.evaluate(o.Epoch())
	if err != nil {
		return nil, err
	}
	p.initial = initial
	p.logger.Log("level", "info", "subsys", "prop", "status", "constructed", "input", ptype, "mean", mean)
	return p, nil
}

// Theory returns the underlying analytical theory.
func (p *Propagator) Theory() AnalyticalTheory {
	return p.theory
}

// InitialState returns the state assembled at construction or at the last
// reset.
func (p *Propagator) InitialState() SpacecraftState {
	return p.initial
}

// MeanOrbit returns the invariant internal mean elements.
func (p *Propagator) MeanOrbit() Orbit {
	return p.mean
}

// RegisterAdditionalProvider adds a named state-generating provider. Names
// are unique per propagator.
func (p *Propagator) RegisterAdditionalProvider(provider AdditionalStateProvider) error {
	if provider.Name() == "" {
		return errors.New("additional state provider needs a name")
	}
	for _, existing := range p.providers {
		if existing.Name() == provider.Name() {
			return errors.Errorf("additional state %q already registered", provider.Name())
		}
	}
	p.providers = append(p.providers, provider)
	return nil
}

// RegisterStepHandler adds a step handler called with every produced state.
func (p *Propagator) RegisterStepHandler(h StepHandler) {
	p.handlers = append(p.handlers, h)
}

// RegisterEventDetector adds an event detector notified with every produced
// state.
func (p *Propagator) RegisterEventDetector(d EventDetector) {
	p.detectors = append(p.detectors, d)
}

// evaluate runs one closed-form evaluation and assembles the state, without
// notifying collaborators nor recording ephemeris.
func (p *Propagator) evaluate(target time.Time) (SpacecraftState, error) {
	osc, err := p.theory.OsculatingFromMean(p.mean, target)
	if err != nil {
		return SpacecraftState{}, err
	}
	att, err := p.attitude.Attitude(osc, target, osc.Frame())
	if err != nil {
		return SpacecraftState{}, errors.Wrap(err, "attitude provider failed")
	}
	state := NewSpacecraftState(osc, att, p.mass)
	return resolveAdditional(p.providers, state)
}

// Propagate evaluates the theory at the target epoch and returns the
// assembled state. It is a pure function of the target epoch, the stored
// mean elements and the registered providers: same inputs, bit-identical
// output. Epochs may be requested in any order, this is not a stepping
// integrator.
func (p *Propagator) Propagate(target time.Time) (SpacecraftState, error) {
	state, err := p.evaluate(target)
	if err != nil {
		return SpacecraftState{}, err
	}
	if d := elapsedSeconds(p.initial.Epoch(), target); d > 0 {
		p.direction = 1
	} else if d < 0 {
		p.direction = -1
	}
	for _, h := range p.handlers {
		if err := h.HandleStep(state); err != nil {
			return SpacecraftState{}, errors.Wrap(err, "step handler failed")
		}
	}
	for _, d := range p.detectors {
		if err := d.OnState(state); err != nil {
			return SpacecraftState{}, errors.Wrapf(err, "event detector %q failed", d.Name())
		}
	}
	if p.recorder != nil {
		p.recorder.record(state)
	}
	return state, nil
}

// ResetInitialState replaces the stored mean elements by re-solving the
// mean-from-osculating problem for the provided state. Theories which do
// not support resets yield a NonResettableError.
func (p *Propagator) ResetInitialState(s SpacecraftState) error {
	if !p.theory.Resettable() {
		return NonResettableError{Theory: p.theory.Name()}
	}
	mean, err := p.theory.MeanFromOsculating(s.Orbit(), p.cfg.MeanTolerance, p.cfg.MeanMaxIterations)
	if err != nil {
		return err
	}
	p.mean = mean
	p.initial = s
	p.mass = s.Mass()
	p.direction = 0
	p.logger.Log("level", "info", "subsys", "prop", "status", "reset", "mean", mean)
	return nil
}

// ResetIntermediateState is the mid-propagation flavor of reset: it only
// accepts states lying along the already-computed propagation direction.
// A backward reset after forward propagation (or vice versa) is a design
// invariant violation, signalled distinctly from other reset failures.
func (p *Propagator) ResetIntermediateState(s SpacecraftState) error {
	if p.direction != 0 {
		d := elapsedSeconds(p.initial.Epoch(), s.Epoch())
		if d*float64(p.direction) < 0 {
			return ResetDirectionError{Forward: p.direction > 0}
		}
	}
	return p.ResetInitialState(s)
}

// EphemerisGenerator arms bounded-ephemeris recording: every subsequent
// Propagate call appends its state. Call Ephemeris once the propagations of
// interest are done. Arming again detaches any previously returned
// generator, which keeps the span it recorded while it was armed.
func (p *Propagator) EphemerisGenerator() *EphemerisGenerator {
	rec := &ephemerisRecorder{}
	p.recorder = rec
	return &EphemerisGenerator{prop: p, rec: rec}
}
