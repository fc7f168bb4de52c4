package cmd

import (
	"fmt"
	"io"

	dem "github.com/demfit/demfit/dem"
)

// printFitReport writes the textual summary of one completed fit: best-fit
// parameters by name, the multinomial log-likelihood, theta, AIC (theta not
// counted as a free parameter), and the scaled-model vs. data totals as a
// quick residual check. Plotting of per-class residuals is left to external
// tooling; this hand-off is everything it needs.
func printFitReport(w io.Writer, model dem.ModelSpec, res dem.FitResult, best, data *dem.Spectrum) {
	fmt.Fprintf(w, "Model: %s (%s)\n", model.Name, model.Description)
	fmt.Fprintf(w, "Optimized parameters:\n")
	for i, name := range model.Params {
		fmt.Fprintf(w, "  %-6s %.6g\n", name, res.Params[i])
	}
	fmt.Fprintf(w, "Optimized log-likelihood: %.6f\n", res.LogLikelihood)
	fmt.Fprintf(w, "theta: %.6f\n", res.Theta)
	fmt.Fprintf(w, "AIC (k=%d, theta profiled out): %.6f\n", len(model.Params), res.AIC)
	fmt.Fprintf(w, "Scaled model total: %.2f  observed total: %.2f\n",
		res.Theta*best.Total(), data.Total())
	fmt.Fprintf(w, "Evaluations: %d  converged: %v\n", res.Evaluations, res.Converged)
}
