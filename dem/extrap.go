package dem

import (
	"fmt"
	"math"
)

// ExtrapEvaluator evaluates a demographic model over a list of grid
// resolutions and extrapolates the result to the infinite-resolution limit.
type ExtrapEvaluator func(params []float64, n1, n2 int, pts []int) (*Spectrum, error)

// MakeExtrapLogFunc wraps a demographic model so that it is evaluated once
// per grid resolution and the resulting spectra are Richardson-extrapolated,
// entry-wise and in log space, to 1/pts -> 0. Log space keeps extrapolated
// values positive and matches the multiplicative character of discretization
// error. A single resolution degenerates exactly to direct evaluation.
//
// Known limitation: convergence is assumed, not verified. If the model is
// numerically unstable at the coarsest resolution the extrapolation amplifies
// that error silently.
func MakeExtrapLogFunc(m ModelSpec) ExtrapEvaluator {
	return func(params []float64, n1, n2 int, pts []int) (*Spectrum, error) {
		if err := validateResolutions(pts); err != nil {
			return nil, err
		}
		spectra := make([]*Spectrum, len(pts))
		for i, p := range pts {
			fs, err := m.Build(params, n1, n2, p)
			if err != nil {
				return nil, fmt.Errorf("grid %d: %w", p, err)
			}
			spectra[i] = fs
		}
		return extrapolateLog(spectra, pts)
	}
}

func validateResolutions(pts []int) error {
	if len(pts) == 0 {
		return fmt.Errorf("%w: empty grid resolution list", ErrInvalidParameters)
	}
	seen := make(map[int]bool, len(pts))
	for _, p := range pts {
		if p < 3 {
			return fmt.Errorf("%w: grid resolution %d too small", ErrInvalidParameters, p)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate grid resolution %d", ErrInvalidParameters, p)
		}
		seen[p] = true
	}
	return nil
}

// extrapolateLog combines per-resolution spectra with Lagrange weights
// evaluated at 1/pts -> 0. Entries that are positive at every resolution are
// combined in log space; entries touching zero (the masked fixed classes)
// fall back to linear combination.
func extrapolateLog(spectra []*Spectrum, pts []int) (*Spectrum, error) {
	for i := 1; i < len(spectra); i++ {
		if err := sameShape(spectra[0], spectra[i]); err != nil {
			return nil, err
		}
	}
	if len(spectra) == 1 {
		return spectra[0].Clone(), nil
	}

	w := lagrangeWeightsAtZero(pts)
	out := spectra[len(spectra)-1].Clone()
	for i := range out.Data {
		for j := range out.Data[i] {
			allPositive := true
			masked := false
			for _, fs := range spectra {
				if fs.Data[i][j] <= 0 {
					allPositive = false
				}
				if fs.Mask[i][j] {
					masked = true
				}
			}
			var v float64
			if allPositive {
				for k, fs := range spectra {
					v += w[k] * math.Log(fs.Data[i][j])
				}
				v = math.Exp(v)
			} else {
				for k, fs := range spectra {
					v += w[k] * fs.Data[i][j]
				}
			}
			out.Data[i][j] = v
			out.Mask[i][j] = masked
		}
	}
	return out, nil
}

// lagrangeWeightsAtZero returns the weights of the unique polynomial through
// the points x_k = 1/pts[k], evaluated at x = 0.
func lagrangeWeightsAtZero(pts []int) []float64 {
	x := make([]float64, len(pts))
	for i, p := range pts {
		x[i] = 1 / float64(p)
	}
	w := make([]float64, len(x))
	for i := range x {
		w[i] = 1
		for j := range x {
			if j == i {
				continue
			}
			w[i] *= x[j] / (x[j] - x[i])
		}
	}
	return w
}
