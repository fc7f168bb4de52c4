package dem

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// stubEngine is a minimal Engine for exercising the composition and
// extrapolation layers without real numerics. Advance records every epoch it
// is asked to integrate; Project fills the spectrum with a caller-chosen
// function of the grid resolution.
type stubEngine struct {
	advanced []Epoch
	project  func(pts, k1, k2 int) float64
}

func (s *stubEngine) Grid(pts int) []float64 {
	xx := make([]float64, pts)
	for i := range xx {
		xx[i] = float64(i) / float64(pts-1)
	}
	return xx
}

func (s *stubEngine) InitialDensity(xx []float64) []float64 {
	phi := make([]float64, len(xx))
	for i := range phi {
		phi[i] = 1
	}
	return phi
}

func (s *stubEngine) Split(xx []float64, phi []float64) *mat.Dense {
	n := len(xx)
	joint := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		joint.Set(i, i, phi[i])
	}
	return joint
}

func (s *stubEngine) Advance(phi *mat.Dense, xx []float64, duration float64,
	size1, size2 SizeFunc, m12, m21 float64) (*mat.Dense, error) {
	s.advanced = append(s.advanced, Epoch{
		Duration: duration, Size1: size1, Size2: size2, M12: m12, M21: m21,
	})
	return phi, nil
}

func (s *stubEngine) Project(phi *mat.Dense, xx []float64, n1, n2 int) (*Spectrum, error) {
	fs := NewSpectrum(n1, n2)
	for k1 := 0; k1 <= n1; k1++ {
		for k2 := 0; k2 <= n2; k2++ {
			if s.project != nil {
				fs.Data[k1][k2] = s.project(len(xx), k1, k2)
			} else {
				fs.Data[k1][k2] = 1
			}
		}
	}
	return fs, nil
}

// withStubEngine installs eng as the registered engine for one test.
func withStubEngine(t *testing.T, eng *stubEngine) {
	t.Helper()
	prev := NewEngineFunc
	NewEngineFunc = func() Engine { return eng }
	t.Cleanup(func() { NewEngineFunc = prev })
}
