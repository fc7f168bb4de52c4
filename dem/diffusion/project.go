package diffusion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/demfit/demfit/dem"
)

// Project integrates the joint density against binomial sampling kernels to
// obtain the expected spectrum for sample sizes (n1, n2):
//
//	F[k1][k2] = integral B(k1; n1, x) B(k2; n2, y) phi(x, y) dx dy
//
// computed as a pair of dense matrix products against the trapezoid-weighted
// density field.
func (e *Engine) Project(phi *mat.Dense, xx []float64, n1, n2 int) (*dem.Spectrum, error) {
	if n1 < 1 || n2 < 1 {
		return nil, fmt.Errorf("sample sizes must be positive, got (%d, %d)", n1, n2)
	}
	pts := len(xx)
	w := quadWeights(xx)

	weighted := mat.NewDense(pts, pts, nil)
	for i := 0; i < pts; i++ {
		for j := 0; j < pts; j++ {
			weighted.Set(i, j, w[i]*w[j]*phi.At(i, j))
		}
	}

	b1 := samplingKernel(n1, xx)
	b2 := samplingKernel(n2, xx)

	var tmp, out mat.Dense
	tmp.Mul(b1, weighted)
	out.Mul(&tmp, b2.T())

	if !finiteSum(out.RawMatrix().Data) {
		return nil, fmt.Errorf("%w: non-finite spectrum from projection (n1=%d n2=%d pts=%d)",
			dem.ErrNumericalInstability, n1, n2, pts)
	}

	fs := dem.NewSpectrum(n1, n2)
	for k1 := 0; k1 <= n1; k1++ {
		for k2 := 0; k2 <= n2; k2++ {
			fs.Data[k1][k2] = out.At(k1, k2)
		}
	}
	return fs, nil
}

// samplingKernel returns the (n+1) x len(xx) matrix of binomial sampling
// probabilities B(k; n, x) = C(n,k) x^k (1-x)^(n-k).
func samplingKernel(n int, xx []float64) *mat.Dense {
	b := mat.NewDense(n+1, len(xx), nil)
	for k := 0; k <= n; k++ {
		lnC := combin.LogGeneralizedBinomial(float64(n), float64(k))
		for i, x := range xx {
			var p float64
			switch {
			case x == 0:
				if k == 0 {
					p = 1
				}
			case x == 1:
				if k == n {
					p = 1
				}
			default:
				p = math.Exp(lnC + float64(k)*math.Log(x) + float64(n-k)*math.Log(1-x))
			}
			b.Set(k, i, p)
		}
	}
	return b
}
