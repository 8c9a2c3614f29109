package analytical

import (
	"github.com/pkg/errors"
)

// AdditionalStateProvider generates one named additional state array from a
// propagated state. A provider may depend on the output of another provider
// by name; Dependency returns the empty string when there is none.
type AdditionalStateProvider interface {
	Name() string
	Dependency() string
	Compute(s SpacecraftState) ([]float64, error)
}

// StateFunction is the function-literal flavor of AdditionalStateProvider.
type StateFunction struct {
	StateName string
	DependsOn string
	Fn        func(s SpacecraftState) ([]float64, error)
}

// Name implements the AdditionalStateProvider interface.
func (f StateFunction) Name() string {
	return f.StateName
}

// Dependency implements the AdditionalStateProvider interface.
func (f StateFunction) Dependency() string {
	return f.DependsOn
}

// Compute implements the AdditionalStateProvider interface.
func (f StateFunction) Compute(s SpacecraftState) ([]float64, error) {
	return f.Fn(s)
}

// resolveAdditional runs the additional-state scheduler for one fixed input
// state: repeated fixed-point passes over the provider list, evaluating each
// provider at most once, after its dependency if that dependency resolved in
// this same pass set. A full pass which resolves nothing terminates the
// loop; any provider still pending at that point (circular or unsatisfiable
// dependency) is silently dropped for this step. Registration order is
// preserved among independent providers, which makes the resolved subset and
// values deterministic.
func resolveAdditional(providers []AdditionalStateProvider, s SpacecraftState) (SpacecraftState, error) {
	pending := make([]AdditionalStateProvider, len(providers))
	copy(pending, providers)
	for len(pending) > 0 {
		var remaining []AdditionalStateProvider
		progress := false
		for _, p := range pending {
			dep := p.Dependency()
			if dep != "" && !s.HasAdditional(dep) {
				remaining = append(remaining, p)
				continue
			}
			vals, err := p.Compute(s)
			if err != nil {
				return s, errors.Wrapf(err, "additional state provider %q", p.Name())
			}
			s = s.WithAdditional(p.Name(), vals)
			progress = true
		}
		if !progress {
			break // Cycle or unmet dependency: drop the stragglers silently.
		}
		pending = remaining
	}
	return s, nil
}
