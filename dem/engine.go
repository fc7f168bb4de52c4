package dem

import "gonum.org/v1/gonum/mat"

// Engine integrates a two-population allele-frequency density forward in time
// and projects it into an expected frequency spectrum. Implementations are
// synchronous: Advance blocks until the integration for that epoch completes,
// and each epoch consumes the previous epoch's output density as its initial
// condition.
//
// Contract details the composition layer relies on:
//   - Advance with duration 0 returns the input density unchanged.
//   - Migration rates of exactly 0 leak nothing across populations.
//   - Non-finite densities or spectra are reported as errors wrapping
//     ErrNumericalInstability, never returned silently.
type Engine interface {
	// Grid returns the frequency discretization for the given resolution.
	Grid(pts int) []float64

	// InitialDensity returns the single-population ancestral density on xx.
	InitialDensity(xx []float64) []float64

	// Split turns the 1-D ancestral density into a joint two-population
	// density with both populations at the ancestral size.
	Split(xx []float64, phi []float64) *mat.Dense

	// Advance integrates the joint density through one epoch.
	Advance(phi *mat.Dense, xx []float64, duration float64,
		size1, size2 SizeFunc, m12, m21 float64) (*mat.Dense, error)

	// Project samples the joint density into a spectrum for sample sizes
	// (n1, n2).
	Project(phi *mat.Dense, xx []float64, n1, n2 int) (*Spectrum, error)
}

// NewEngineFunc constructs the numerical engine used by ModelSpec.Build.
// dem/diffusion sets it from an init() function, so importing that package
// (directly in production code, or via a blank import in external tests) is
// enough to wire the default engine without an import cycle.
var NewEngineFunc func() Engine
