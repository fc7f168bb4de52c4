package dem

import (
	"fmt"
	"math"
	"math/rand"
)

// Perturb returns a randomized starting point for optimization: each
// parameter of p0 is multiplied by a log-uniform factor in
// [2^-fold, 2^fold] and the result is clamped into its bounds, so the
// returned vector never violates them. The random source is injected;
// callers wanting reproducibility seed it via PartitionedRNG.
func Perturb(p0 []float64, fold float64, lower, upper []float64, rng *rand.Rand) ([]float64, error) {
	if err := ValidateBounds(lower, upper, len(p0)); err != nil {
		return nil, err
	}
	if fold < 0 {
		return nil, fmt.Errorf("%w: perturbation fold must be non-negative, got %g", ErrInvalidParameters, fold)
	}

	out := make([]float64, len(p0))
	for i, v := range p0 {
		factor := math.Exp2((2*rng.Float64() - 1) * fold)
		out[i] = clamp(v*factor, lower[i], upper[i])
	}
	return out, nil
}

// ValidateBounds checks that the bound vectors match the parameter arity and
// that lower[i] <= upper[i] everywhere, naming the first offending index.
func ValidateBounds(lower, upper []float64, n int) error {
	if len(lower) != n || len(upper) != n {
		return fmt.Errorf("%w: %d parameters but %d lower / %d upper bounds",
			ErrInvalidBounds, n, len(lower), len(upper))
	}
	for i := range lower {
		if lower[i] > upper[i] {
			return fmt.Errorf("%w: lower[%d]=%g exceeds upper[%d]=%g",
				ErrInvalidBounds, i, lower[i], i, upper[i])
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
