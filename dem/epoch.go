package dem

import (
	"fmt"
	"math"
)

type sizeKind int

const (
	sizeConstant sizeKind = iota
	sizeExponential
)

// SizeFunc is a population size trajectory over one epoch, relative to the
// ancestral size. It is a pure value: the engine evaluates it at arbitrary
// times within [0, Duration] and no state is captured.
type SizeFunc struct {
	kind     sizeKind
	size     float64
	start    float64
	end      float64
	duration float64
}

// ConstantSize returns a trajectory fixed at nu for the whole epoch.
func ConstantSize(nu float64) SizeFunc {
	return SizeFunc{kind: sizeConstant, size: nu}
}

// ExponentialGrowth returns the trajectory
//
//	size(t) = start * (end/start)^(t/duration)
//
// so that size(0) == start and size(duration) == end exactly, monotone in
// between and strictly positive for positive start and end.
func ExponentialGrowth(start, end, duration float64) SizeFunc {
	return SizeFunc{kind: sizeExponential, start: start, end: end, duration: duration}
}

// At evaluates the trajectory at elapsed time t within the epoch.
func (f SizeFunc) At(t float64) float64 {
	switch f.kind {
	case sizeExponential:
		if f.duration == 0 {
			return f.end
		}
		return f.start * math.Pow(f.end/f.start, t/f.duration)
	default:
		return f.size
	}
}

// Validate reports non-positive sizes, which would make the diffusion
// coefficients blow up.
func (f SizeFunc) Validate() error {
	switch f.kind {
	case sizeExponential:
		if f.start <= 0 || f.end <= 0 {
			return fmt.Errorf("exponential trajectory requires positive sizes, got start=%g end=%g", f.start, f.end)
		}
	default:
		if f.size <= 0 {
			return fmt.Errorf("constant trajectory requires a positive size, got %g", f.size)
		}
	}
	return nil
}

// Epoch is one segment of population history: a duration, a size trajectory
// per population, and the pair of migration rates. M12 is the rate into
// population 1 from population 2; M21 the reverse. A rate of exactly zero
// means no migration at all.
type Epoch struct {
	Duration float64
	Size1    SizeFunc
	Size2    SizeFunc
	M12      float64
	M21      float64
}

// Validate checks the epoch invariants: non-negative duration and migration
// rates, strictly positive size trajectories.
func (e Epoch) Validate() error {
	if e.Duration < 0 {
		return fmt.Errorf("epoch duration must be non-negative, got %g", e.Duration)
	}
	if e.M12 < 0 || e.M21 < 0 {
		return fmt.Errorf("migration rates must be non-negative, got m12=%g m21=%g", e.M12, e.M21)
	}
	if err := e.Size1.Validate(); err != nil {
		return fmt.Errorf("population 1: %w", err)
	}
	if err := e.Size2.Validate(); err != nil {
		return fmt.Errorf("population 2: %w", err)
	}
	return nil
}
