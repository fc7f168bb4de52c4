package dem

import (
	"math"
)

// Scoring follows the multinomial convention: theta is profiled out
// analytically rather than searched, so it does not count as a free parameter
// in AIC. Entries masked in either spectrum, entries with zero observed
// count, and entries where the model assigns no density are excluded from the
// likelihood by explicit masking — never by letting a log(0) propagate.

// LogLikelihood returns the Poisson log-likelihood of the observed spectrum
// given model-predicted counts, summed over shared unmasked entries with
// positive observed count and positive model density.
func LogLikelihood(model, data *Spectrum) float64 {
	var ll float64
	for i := range data.Data {
		for j, obs := range data.Data[i] {
			if data.Mask[i][j] || model.Mask[i][j] {
				continue
			}
			pred := model.Data[i][j]
			if obs <= 0 || pred <= 0 {
				continue
			}
			lg, _ := math.Lgamma(obs + 1)
			ll += obs*math.Log(pred) - pred - lg
		}
	}
	return ll
}

// LogLikelihoodMultinom returns the Poisson log-likelihood after scaling the
// model spectrum by its optimal theta, i.e. the likelihood with the
// mutation-rate parameter profiled out.
func LogLikelihoodMultinom(model, data *Spectrum) float64 {
	theta := OptimalScaling(model, data)
	if theta <= 0 || math.IsInf(theta, 0) || math.IsNaN(theta) {
		return math.Inf(-1)
	}
	return LogLikelihood(model.Scaled(theta), data)
}

// OptimalScaling returns the closed-form theta maximizing the Poisson
// likelihood for a fixed model shape: the ratio of total observed count to
// total model density over shared unmasked entries.
func OptimalScaling(model, data *Spectrum) float64 {
	var obsTotal, predTotal float64
	for i := range data.Data {
		for j, obs := range data.Data[i] {
			if data.Mask[i][j] || model.Mask[i][j] {
				continue
			}
			obsTotal += obs
			predTotal += model.Data[i][j]
		}
	}
	if predTotal == 0 {
		return 0
	}
	return obsTotal / predTotal
}

// AIC returns the Akaike information criterion 2k - 2ll, where k is the
// demographic model's free parameter count. Theta is excluded from k, per
// the multinomial convention above; AIC values are only comparable across
// models scored under the same convention.
func AIC(ll float64, k int) float64 {
	return 2*float64(k) - 2*ll
}

// FitResult is the immutable outcome of one completed fit.
type FitResult struct {
	Params        []float64
	LogLikelihood float64
	Theta         float64
	AIC           float64
	Evaluations   int
	Converged     bool
}

// Summarize scores a best-fit model spectrum against the observed data,
// producing the final likelihood, theta and AIC for reporting.
func Summarize(params []float64, model, data *Spectrum) FitResult {
	ll := LogLikelihoodMultinom(model, data)
	out := FitResult{
		Params:        append([]float64(nil), params...),
		LogLikelihood: ll,
		Theta:         OptimalScaling(model, data),
		AIC:           AIC(ll, len(params)),
	}
	return out
}
