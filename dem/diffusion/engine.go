// Package diffusion implements dem.Engine: forward integration of a
// two-population allele-frequency density under drift and migration, and
// projection of that density into an expected frequency spectrum.
//
// The scheme is alternating-direction implicit: the drift operator along each
// frequency axis is advanced with an implicit tridiagonal solve (Thomas
// algorithm, unconditionally stable), and the migration coupling is advanced
// with an explicit conservative upwind step. Domain boundaries are absorbing:
// density reaching frequency 0 or 1 represents loss or fixation.
package diffusion

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Engine integrates allele-frequency densities on a uniform grid over [0,1].
type Engine struct {
	// TimeStepFactor controls the base time step of the explicit migration
	// substep; the step shrinks further as migration rates grow.
	TimeStepFactor float64
}

// New returns an Engine with the default time-step policy.
func New() *Engine {
	return &Engine{TimeStepFactor: 0.05}
}

// Grid returns a uniform frequency grid with pts points spanning [0, 1].
func (e *Engine) Grid(pts int) []float64 {
	xx := make([]float64, pts)
	dx := 1 / float64(pts-1)
	for i := range xx {
		xx[i] = float64(i) * dx
	}
	xx[pts-1] = 1
	return xx
}

// InitialDensity returns the ancestral single-population density at
// mutation-drift equilibrium, proportional to 1/x. The x=0 entry is
// continued from its neighbor; the boundary classes are masked downstream
// anyway.
func (e *Engine) InitialDensity(xx []float64) []float64 {
	phi := make([]float64, len(xx))
	for i := 1; i < len(xx); i++ {
		phi[i] = 1 / xx[i]
	}
	phi[0] = phi[1]
	return phi
}

// quadWeights returns trapezoid quadrature weights for the grid.
func quadWeights(xx []float64) []float64 {
	dx := xx[1] - xx[0]
	w := make([]float64, len(xx))
	for i := range w {
		w[i] = dx
	}
	w[0] = dx / 2
	w[len(xx)-1] = dx / 2
	return w
}

// finiteSum reports whether the summed values stay finite. A single NaN or
// Inf anywhere poisons the sum, so this is a cheap whole-field instability
// check.
func finiteSum(values []float64) bool {
	s := floats.Sum(values)
	return !math.IsNaN(s) && !math.IsInf(s, 0)
}
