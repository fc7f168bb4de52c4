package dem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSpectra() (model, data *Spectrum) {
	model = NewSpectrum(2, 2)
	data = NewSpectrum(2, 2)
	v := 0.0
	for i := 0; i <= 2; i++ {
		for j := 0; j <= 2; j++ {
			v++
			model.Data[i][j] = v * 0.1
			data.Data[i][j] = v * 3
		}
	}
	model.MaskCorners()
	data.MaskCorners()
	return model, data
}

func TestOptimalScaling_ReproducesObservedTotal(t *testing.T) {
	model, data := testSpectra()
	theta := OptimalScaling(model, data)
	assert.InDelta(t, data.Total(), model.Scaled(theta).Total(), 1e-9)
}

func TestOptimalScaling_EmptyModel(t *testing.T) {
	model := NewSpectrum(1, 1)
	data := NewSpectrum(1, 1)
	data.Data[0][1] = 5
	assert.Equal(t, 0.0, OptimalScaling(model, data))
}

func TestLogLikelihood_ZeroModelCellsAreMaskedNotNaN(t *testing.T) {
	model, data := testSpectra()
	model.Data[1][1] = 0 // nonzero observed data there
	ll := LogLikelihood(model, data)
	assert.False(t, math.IsNaN(ll))
	assert.False(t, math.IsInf(ll, 0))
}

func TestLogLikelihood_SkipsMaskedEntries(t *testing.T) {
	model, data := testSpectra()
	base := LogLikelihood(model, data)

	// Masking an entry in either spectrum removes its term.
	model.Mask[1][2] = true
	assert.NotEqual(t, base, LogLikelihood(model, data))
}

func TestLogLikelihoodMultinom_MaximizedByTrueShape(t *testing.T) {
	truth := NewSpectrum(2, 2)
	for i := 0; i <= 2; i++ {
		for j := 0; j <= 2; j++ {
			truth.Data[i][j] = math.Exp(-float64(i) - 0.5*float64(j))
		}
	}
	data := truth.Scaled(500)

	exact := LogLikelihoodMultinom(truth, data)

	skewed := truth.Clone()
	skewed.Data[2][0] *= 3
	assert.Greater(t, exact, LogLikelihoodMultinom(skewed, data))
}

func TestAIC_PenalizesParameterCount(t *testing.T) {
	ll := -1234.5
	assert.Greater(t, AIC(ll, 9), AIC(ll, 6))
	assert.Equal(t, AIC(ll, 6)+6, AIC(ll, 9))
}

func TestSummarize(t *testing.T) {
	model, data := testSpectra()
	params := []float64{2, 0.5, 1}
	res := Summarize(params, model, data)

	assert.Equal(t, params, res.Params)
	assert.InDelta(t, LogLikelihoodMultinom(model, data), res.LogLikelihood, 1e-12)
	assert.InDelta(t, OptimalScaling(model, data), res.Theta, 1e-12)
	assert.InDelta(t, AIC(res.LogLikelihood, 3), res.AIC, 1e-12)

	// The result owns its parameter copy.
	params[0] = 99
	assert.Equal(t, 2.0, res.Params[0])
}
