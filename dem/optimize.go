package dem

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/optimize"
)

// Penalty returned for candidates outside the bound box. Large enough that a
// penalized vertex is always discarded, finite so the simplex can still rank
// violations by distance and contract back inside.
const outOfBoundsPenalty = 1e8

// Penalty for candidates whose evaluation failed or produced a non-finite
// likelihood. Such candidates are rejected, never recorded as a new best.
const failedCandidatePenalty = 1e100

// SearchOptions bound and budget one optimization run.
type SearchOptions struct {
	// Lower and Upper constrain the search region, in original (not log)
	// units, with the same length and order as the parameter vector.
	Lower []float64
	Upper []float64

	// MaxIterations caps the number of outer optimizer iterations. Zero
	// means evaluate the starting point once and return it unchanged.
	MaxIterations int

	// VerboseEvery > 0 logs the current candidate and likelihood every that
	// many model evaluations. Observational only.
	VerboseEvery int
}

// SearchResult is the outcome of one OptimizeLog call: the best parameter
// vector seen, its log-likelihood, and how the search ended. Non-convergence
// within the iteration budget is not an error; Converged is simply false.
type SearchResult struct {
	Params        []float64
	LogLikelihood float64
	Evaluations   int
	Converged     bool
}

// OptimizeLog maximizes the multinomial likelihood of the observed spectrum
// over model parameters, searching in log-parameter space so that bound and
// step constraints behave multiplicatively in original units. Every candidate
// is exponentiated before being handed to the evaluator (the extrapolated
// model bound to a chosen variant), scored against data, and accepted or
// rejected by a Nelder-Mead simplex — accepted steps never decrease the
// likelihood and bounds are never violated by the returned vector.
//
// Candidates that fail to evaluate are demoted with a penalty rather than
// aborting the run; a failure on the very first evaluation is fatal since no
// valid baseline exists.
func OptimizeLog(p0 []float64, data *Spectrum, eval ExtrapEvaluator, pts []int, opts SearchOptions) (*SearchResult, error) {
	n := len(p0)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty initial guess", ErrInvalidParameters)
	}
	if err := ValidateBounds(opts.Lower, opts.Upper, n); err != nil {
		return nil, err
	}
	for i, v := range p0 {
		if v < opts.Lower[i] || v > opts.Upper[i] {
			return nil, fmt.Errorf("%w: initial guess p0[%d]=%g outside bounds [%g, %g]",
				ErrInvalidParameters, i, v, opts.Lower[i], opts.Upper[i])
		}
	}

	n1, n2 := data.SampleSizes()

	evals := 0
	best := &SearchResult{
		Params:        append([]float64(nil), p0...),
		LogLikelihood: math.Inf(-1),
	}

	// score evaluates one candidate in original units and tracks the best.
	score := func(p []float64) (float64, error) {
		fs, err := eval(p, n1, n2, pts)
		evals++
		if err != nil {
			return math.Inf(-1), err
		}
		ll := LogLikelihoodMultinom(fs, data)
		if !math.IsInf(ll, 0) && !math.IsNaN(ll) && ll > best.LogLikelihood {
			best.LogLikelihood = ll
			best.Params = append([]float64(nil), p...)
		}
		if opts.VerboseEvery > 0 && evals%opts.VerboseEvery == 0 {
			logrus.Infof("eval %d: ll=%.6g params=%v", evals, ll, p)
		}
		return ll, nil
	}

	// The baseline must be valid before any search step.
	ll0, err := score(p0)
	if err != nil {
		return nil, fmt.Errorf("initial evaluation: %w", err)
	}
	if math.IsInf(ll0, 0) || math.IsNaN(ll0) {
		return nil, fmt.Errorf("%w: non-finite likelihood %g at initial guess", ErrNumericalInstability, ll0)
	}
	if opts.MaxIterations <= 0 {
		best.Evaluations = evals
		return best, nil
	}

	objective := func(x []float64) float64 {
		p := make([]float64, n)
		var violation float64
		for i, lx := range x {
			p[i] = math.Exp(lx)
			if p[i] < opts.Lower[i] {
				violation += opts.Lower[i] - p[i]
			} else if p[i] > opts.Upper[i] {
				violation += p[i] - opts.Upper[i]
			}
		}
		if violation > 0 {
			return outOfBoundsPenalty * (1 + violation)
		}
		ll, err := score(p)
		if err != nil || math.IsInf(ll, 0) || math.IsNaN(ll) {
			if err != nil {
				logrus.Debugf("candidate rejected: %v", err)
			}
			return failedCandidatePenalty
		}
		return -ll
	}

	logP0 := make([]float64, n)
	for i, v := range p0 {
		// Parameters sitting on a zero lower bound would map to -Inf; nudge
		// them onto the smallest representable positive value instead.
		logP0[i] = math.Log(math.Max(v, math.SmallestNonzeroFloat64))
	}

	settings := &optimize.Settings{
		MajorIterations: opts.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 30,
		},
	}
	result, optErr := optimize.Minimize(optimize.Problem{Func: objective}, logP0, settings, &optimize.NelderMead{})
	if optErr != nil {
		// Best-so-far is still valid; report and keep it.
		logrus.Warnf("optimizer stopped early: %v", optErr)
	}

	best.Evaluations = evals
	best.Converged = optErr == nil && result != nil && result.Status != optimize.IterationLimit
	return best, nil
}
