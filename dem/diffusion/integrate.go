package diffusion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/demfit/demfit/dem"
)

// Split turns the 1-D ancestral density into a joint density concentrated on
// the diagonal x1 = x2: immediately after the split both daughter
// populations share every allele frequency. The delta function is
// discretized against the trapezoid quadrature weights so that the joint
// density integrates to the same mass as the 1-D input.
func (e *Engine) Split(xx []float64, phi []float64) *mat.Dense {
	n := len(xx)
	w := quadWeights(xx)
	joint := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		joint.Set(i, i, phi[i]/w[i])
	}
	return joint
}

// Advance integrates the joint density through one epoch of the given
// duration, size trajectories and migration rates. A zero duration returns
// the input unchanged. Migration rates of exactly zero skip the coupling
// step entirely, so nothing can leak across populations.
func (e *Engine) Advance(phi *mat.Dense, xx []float64, duration float64,
	size1, size2 dem.SizeFunc, m12, m21 float64) (*mat.Dense, error) {

	if duration == 0 {
		return phi, nil
	}
	if duration < 0 {
		return nil, fmt.Errorf("negative epoch duration %g", duration)
	}

	n := len(xx)
	dx := xx[1] - xx[0]

	// The implicit drift solve is unconditionally stable; the explicit
	// migration step needs a CFL bound on top of the base step.
	dtMax := e.TimeStepFactor
	if m := m12 + m21; m > 0 {
		if cfl := 0.5 * dx / m; cfl < dtMax {
			dtMax = cfl
		}
	}
	steps := int(math.Ceil(duration / dtMax))
	if steps < 1 {
		steps = 1
	}
	dt := duration / float64(steps)

	cur := mat.DenseCopyOf(phi)
	solver := newTridiagSolver(n)
	col := make([]float64, n)

	for k := 0; k < steps; k++ {
		tMid := (float64(k) + 0.5) * dt
		nu1 := size1.At(tMid)
		nu2 := size2.At(tMid)
		if nu1 <= 0 || nu2 <= 0 {
			return nil, fmt.Errorf("%w: non-positive population size (nu1=%g nu2=%g at t=%g)",
				dem.ErrNumericalInstability, nu1, nu2, tMid)
		}

		// Implicit drift along axis 1, one tridiagonal solve per column.
		solver.setDrift(xx, nu1, dt, dx)
		for j := 0; j < n; j++ {
			mat.Col(col, j, cur)
			solver.solve(col)
			cur.SetCol(j, col)
		}

		// Implicit drift along axis 2, rows are contiguous.
		solver.setDrift(xx, nu2, dt, dx)
		for i := 0; i < n; i++ {
			solver.solve(cur.RawRowView(i))
		}

		if m12 > 0 {
			migrateAxis1(cur, xx, m12, dt, dx)
		}
		if m21 > 0 {
			migrateAxis2(cur, xx, m21, dt, dx)
		}
	}

	if !finiteSum(cur.RawMatrix().Data) {
		return nil, fmt.Errorf("%w: non-finite density after epoch (duration=%g, nu1(0)=%g, nu2(0)=%g)",
			dem.ErrNumericalInstability, duration, size1.At(0), size2.At(0))
	}
	return cur, nil
}

// migrateAxis1 applies the explicit conservative upwind step for migration
// into population 1: dphi/dt = -d/dx1 [ m12 (x2 - x1) phi ]. No-flux faces
// at the domain edges keep total mass conserved by the migration operator.
func migrateAxis1(phi *mat.Dense, xx []float64, m12, dt, dx float64) {
	n := len(xx)
	flux := make([]float64, n+1)
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		mat.Col(col, j, phi)
		for i := 0; i < n-1; i++ {
			v := m12 * (xx[j] - 0.5*(xx[i]+xx[i+1]))
			if v >= 0 {
				flux[i+1] = v * col[i]
			} else {
				flux[i+1] = v * col[i+1]
			}
		}
		flux[0], flux[n] = 0, 0
		for i := 0; i < n; i++ {
			col[i] -= dt / dx * (flux[i+1] - flux[i])
		}
		phi.SetCol(j, col)
	}
}

// migrateAxis2 is the symmetric step for migration into population 2.
func migrateAxis2(phi *mat.Dense, xx []float64, m21, dt, dx float64) {
	n := len(xx)
	flux := make([]float64, n+1)
	for i := 0; i < n; i++ {
		row := phi.RawRowView(i)
		for j := 0; j < n-1; j++ {
			v := m21 * (xx[i] - 0.5*(xx[j]+xx[j+1]))
			if v >= 0 {
				flux[j+1] = v * row[j]
			} else {
				flux[j+1] = v * row[j+1]
			}
		}
		flux[0], flux[n] = 0, 0
		for j := 0; j < n; j++ {
			row[j] -= dt / dx * (flux[j+1] - flux[j])
		}
	}
}

// tridiagSolver solves (I - dt*L) u = rhs by the Thomas algorithm, where L is
// the drift operator L u = d^2/dx^2 [ a(x) u ] with a(x) = x(1-x)/(4 nu).
// a vanishes at both boundaries, which absorb density (loss and fixation).
type tridiagSolver struct {
	lower, diag, upper []float64
	cp, dp             []float64
}

func newTridiagSolver(n int) *tridiagSolver {
	return &tridiagSolver{
		lower: make([]float64, n),
		diag:  make([]float64, n),
		upper: make([]float64, n),
		cp:    make([]float64, n),
		dp:    make([]float64, n),
	}
}

// setDrift fills the tridiagonal bands for one axis and one time step.
func (s *tridiagSolver) setDrift(xx []float64, nu, dt, dx float64) {
	n := len(xx)
	r := dt / (dx * dx)
	a := func(i int) float64 { return xx[i] * (1 - xx[i]) / (4 * nu) }
	for i := 0; i < n; i++ {
		s.diag[i] = 1 + 2*r*a(i)
		if i > 0 {
			s.lower[i] = -r * a(i-1)
		}
		if i < n-1 {
			s.upper[i] = -r * a(i+1)
		}
	}
	// Boundary rows: a(0) = a(n-1) = 0, ghost values outside the domain are
	// zero, so only the interior neighbor contributes.
	s.lower[0], s.upper[n-1] = 0, 0
}

// solve overwrites rhs with the solution of the tridiagonal system.
func (s *tridiagSolver) solve(rhs []float64) {
	n := len(rhs)
	s.cp[0] = s.upper[0] / s.diag[0]
	s.dp[0] = rhs[0] / s.diag[0]
	for i := 1; i < n; i++ {
		m := s.diag[i] - s.lower[i]*s.cp[i-1]
		s.cp[i] = s.upper[i] / m
		s.dp[i] = (rhs[i] - s.lower[i]*s.dp[i-1]) / m
	}
	rhs[n-1] = s.dp[n-1]
	for i := n - 2; i >= 0; i-- {
		rhs[i] = s.dp[i] - s.cp[i]*rhs[i+1]
	}
}
