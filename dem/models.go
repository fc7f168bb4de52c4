package dem

import (
	"fmt"
	"sort"
)

// ModelSpec is a data-driven demographic model descriptor: a named parameter
// schema plus a pure epoch-generation rule. Keeping models as data rather
// than free functions makes them enumerable and lets arity and bounds be
// validated generically.
type ModelSpec struct {
	Name        string
	Description string

	// Params lists the free parameter names in the order the parameter
	// vector binds them.
	Params []string

	// Epochs maps a parameter vector (already validated for arity) to the
	// time-ordered epoch sequence. The mapping is total and side-effect
	// free.
	Epochs func(p []float64) []Epoch
}

// Validate checks a parameter vector against the model's schema.
func (m ModelSpec) Validate(params []float64) error {
	if len(params) != len(m.Params) {
		return fmt.Errorf("%w: model %s takes %d parameters %v, got %d",
			ErrInvalidParameters, m.Name, len(m.Params), m.Params, len(params))
	}
	return nil
}

// Build evaluates the model at one grid resolution: ancestral density, split,
// one engine Advance per epoch in order, projection, corner masking. Repeated
// epochs re-invoke the engine each time; the density differs between
// repetitions so nothing is cached.
func (m ModelSpec) Build(params []float64, n1, n2, pts int) (*Spectrum, error) {
	if err := m.Validate(params); err != nil {
		return nil, err
	}
	if NewEngineFunc == nil {
		return nil, fmt.Errorf("%w (import dem/diffusion)", ErrNoEngine)
	}
	eng := NewEngineFunc()

	xx := eng.Grid(pts)
	phi := eng.Split(xx, eng.InitialDensity(xx))
	for k, ep := range m.Epochs(params) {
		if err := ep.Validate(); err != nil {
			return nil, fmt.Errorf("model %s epoch %d: %w", m.Name, k, err)
		}
		var err error
		phi, err = eng.Advance(phi, xx, ep.Duration, ep.Size1, ep.Size2, ep.M12, ep.M21)
		if err != nil {
			return nil, fmt.Errorf("model %s epoch %d: %w", m.Name, k, err)
		}
	}

	fs, err := eng.Project(phi, xx, n1, n2)
	if err != nil {
		return nil, fmt.Errorf("model %s projection: %w", m.Name, err)
	}
	fs.MaskCorners()
	return fs, nil
}

var registry = map[string]ModelSpec{}

func register(m ModelSpec) {
	if _, dup := registry[m.Name]; dup {
		panic(fmt.Sprintf("duplicate model registration: %s", m.Name))
	}
	registry[m.Name] = m
}

// LookupModel returns the registered model with the given name.
func LookupModel(name string) (ModelSpec, error) {
	m, ok := registry[name]
	if !ok {
		return ModelSpec{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownModel, name, ModelNames())
	}
	return m, nil
}

// ModelNames lists the registered model names in sorted order.
func ModelNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
