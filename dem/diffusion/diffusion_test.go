package diffusion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"

	"github.com/demfit/demfit/dem"
)

func TestGrid_UniformOnUnitInterval(t *testing.T) {
	e := New()
	xx := e.Grid(11)
	assert.Len(t, xx, 11)
	assert.Equal(t, 0.0, xx[0])
	assert.Equal(t, 1.0, xx[10])
	for i := 1; i < len(xx); i++ {
		assert.InDelta(t, 0.1, xx[i]-xx[i-1], 1e-12)
	}
}

func TestInitialDensity_RareVariantsDominate(t *testing.T) {
	e := New()
	xx := e.Grid(21)
	phi := e.InitialDensity(xx)
	for i := 2; i < len(phi); i++ {
		assert.Less(t, phi[i], phi[i-1], "density must decay with frequency")
	}
}

func TestSplit_ConservesMass(t *testing.T) {
	e := New()
	xx := e.Grid(21)
	phi := e.InitialDensity(xx)
	w := quadWeights(xx)

	var mass1D float64
	for i, v := range phi {
		mass1D += w[i] * v
	}

	joint := e.Split(xx, phi)
	var mass2D float64
	for i := range xx {
		for j := range xx {
			mass2D += w[i] * w[j] * joint.At(i, j)
		}
	}
	assert.InDelta(t, mass1D, mass2D, 1e-9*mass1D)
}

func TestAdvance_ZeroDurationIsNoOp(t *testing.T) {
	e := New()
	xx := e.Grid(15)
	phi := e.Split(xx, e.InitialDensity(xx))

	got, err := e.Advance(phi, xx, 0, dem.ConstantSize(1), dem.ConstantSize(1), 0.5, 0.5)
	assert.NoError(t, err)
	if got != phi {
		t.Fatal("zero-duration advance must return the input density unchanged")
	}
}

func TestAdvance_NegativeDuration(t *testing.T) {
	e := New()
	xx := e.Grid(15)
	phi := e.Split(xx, e.InitialDensity(xx))
	_, err := e.Advance(phi, xx, -1, dem.ConstantSize(1), dem.ConstantSize(1), 0, 0)
	assert.Error(t, err)
}

func TestAdvance_FiniteAndConservative(t *testing.T) {
	e := New()
	xx := e.Grid(25)
	phi := e.Split(xx, e.InitialDensity(xx))

	before := floats.Sum(phi.RawMatrix().Data)
	got, err := e.Advance(phi, xx, 0.5, dem.ConstantSize(2), dem.ConstantSize(0.5), 0.3, 0.7)
	assert.NoError(t, err)

	after := floats.Sum(got.RawMatrix().Data)
	assert.False(t, math.IsNaN(after) || math.IsInf(after, 0))
	// Drift parks absorbed density on the boundary nodes and migration uses
	// no-flux faces, so the raw sum is conserved up to rounding.
	assert.InDelta(t, before, after, 1e-8*before)

	// The input density is never mutated in place.
	assert.Equal(t, before, floats.Sum(phi.RawMatrix().Data))
}

func TestSamplingKernel_RowsAreDistributions(t *testing.T) {
	e := New()
	xx := e.Grid(21)
	b := samplingKernel(10, xx)
	for i, x := range xx {
		var sum float64
		for k := 0; k <= 10; k++ {
			sum += b.At(k, i)
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "kernel at x=%g", x)
	}
}

func buildModel(t *testing.T, name string, params []float64, n1, n2, pts int) *dem.Spectrum {
	t.Helper()
	m, err := dem.LookupModel(name)
	assert.NoError(t, err)
	fs, err := m.Build(params, n1, n2, pts)
	assert.NoError(t, err)
	return fs
}

func TestStrictIsolation_SymmetricUnderLabelSwap(t *testing.T) {
	fs := buildModel(t, "SI", []float64{2, 0.5, 1}, 8, 8, 25)
	swapped := buildModel(t, "SI", []float64{0.5, 2, 1}, 8, 8, 25)

	for i := 0; i <= 8; i++ {
		for j := 0; j <= 8; j++ {
			assert.InDelta(t, fs.Data[i][j], swapped.Data[j][i], 1e-6,
				"entry (%d,%d) vs transposed", i, j)
		}
	}
}

func TestStrictIsolation_AsymmetricWithoutSwap(t *testing.T) {
	fs := buildModel(t, "SI", []float64{2, 0.5, 1}, 8, 8, 25)
	var diff float64
	for i := 0; i <= 8; i++ {
		for j := 0; j <= 8; j++ {
			diff += math.Abs(fs.Data[i][j] - fs.Data[j][i])
		}
	}
	assert.Greater(t, diff, 1e-3, "unequal sizes must break label symmetry")
}

func TestZeroMigrationMatchesStrictIsolation(t *testing.T) {
	im := buildModel(t, "IM", []float64{2, 0.5, 0, 0, 1}, 6, 6, 20)
	si := buildModel(t, "SI", []float64{2, 0.5, 1}, 6, 6, 20)
	assert.Equal(t, si.Data, im.Data, "zero migration rates must not leak anything")
}

func TestZeroGrowthDurationMatchesStrictIsolation(t *testing.T) {
	siex := buildModel(t, "SIex", []float64{2, 0.5, 3, 0.8, 1, 0}, 6, 6, 20)
	si := buildModel(t, "SI", []float64{2, 0.5, 1}, 6, 6, 20)
	assert.Equal(t, si.Data, siex.Data, "zero-duration growth epoch must be a no-op")
}

func TestMigrationChangesTheSpectrum(t *testing.T) {
	im := buildModel(t, "IM", []float64{2, 0.5, 1.5, 1.5, 1}, 6, 6, 20)
	si := buildModel(t, "SI", []float64{2, 0.5, 1}, 6, 6, 20)
	var diff float64
	for i := 0; i <= 6; i++ {
		diff += floats.Distance(im.Data[i], si.Data[i], 1)
	}
	assert.Greater(t, diff, 1e-6)
}

func TestEndToEnd_StrictIsolationSpectrumShape(t *testing.T) {
	fs := buildModel(t, "SI", []float64{2.0, 0.5, 1.0}, 10, 10, 30)

	total := fs.Total()
	assert.Greater(t, total, 0.0)
	assert.False(t, math.IsInf(total, 0) || math.IsNaN(total))

	// Fixed corners carry nothing; interior low-frequency classes do.
	assert.True(t, fs.Mask[0][0])
	assert.True(t, fs.Mask[10][10])
	assert.Greater(t, fs.Data[1][1], fs.Data[0][0])
	assert.Greater(t, fs.Data[1][0], fs.Data[10][10])
	assert.Greater(t, fs.Data[1][1], 0.0)
}

func TestEndToEnd_SingleResolutionExtrapolationIsIdentity(t *testing.T) {
	m, err := dem.LookupModel("SI")
	assert.NoError(t, err)
	params := []float64{2, 0.5, 1}

	direct, err := m.Build(params, 6, 6, 20)
	assert.NoError(t, err)
	extrap, err := dem.MakeExtrapLogFunc(m)(params, 6, 6, []int{20})
	assert.NoError(t, err)
	assert.Equal(t, direct.Data, extrap.Data)
}

func TestEndToEnd_ExtrapolatedFitPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("full pipeline is slow")
	}
	m, err := dem.LookupModel("SI")
	assert.NoError(t, err)
	truth := []float64{2, 0.5, 0.3}
	pts := []int{15, 20}

	evaluate := dem.MakeExtrapLogFunc(m)
	synth, err := evaluate(truth, 8, 8, pts)
	assert.NoError(t, err)
	data := synth.Scaled(1000)

	res, err := dem.OptimizeLog(truth, data, evaluate, pts, dem.SearchOptions{
		Lower:         []float64{0.01, 0.01, 0.01},
		Upper:         []float64{100, 100, 20},
		MaxIterations: 3,
	})
	assert.NoError(t, err)

	// Data generated at the starting point: the baseline is already the
	// optimum, and the search must never move somewhere worse.
	best, err := evaluate(res.Params, 8, 8, pts)
	assert.NoError(t, err)
	fit := dem.Summarize(res.Params, best, data)
	assert.InDelta(t, data.Total(), fit.Theta*best.Total(), 1e-6*data.Total())
	assert.False(t, math.IsInf(fit.LogLikelihood, 0))
}
