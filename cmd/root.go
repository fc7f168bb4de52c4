package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	dem "github.com/demfit/demfit/dem"
	_ "github.com/demfit/demfit/dem/diffusion" // registers the default engine
	"github.com/demfit/demfit/dem/sfsio"
)

var (
	// CLI flags for the observed data
	dataPath string // SNP table path
	pop1     string // first population name
	pop2     string // second population name
	n1       int    // down-projected sample size for pop1
	n2       int    // down-projected sample size for pop2
	folded   bool   // ancestral state unknown: fold the spectrum

	// CLI flags for the model and the fit
	modelName    string    // demographic model variant
	gridPts      []int     // grid resolutions for extrapolation
	start        []float64 // initial parameter guess
	lowerBound   []float64 // per-parameter lower bounds
	upperBound   []float64 // per-parameter upper bounds
	perturbFold  float64   // log2 fold for starting-point perturbation
	maxIter      int       // optimizer iteration budget
	verboseEvery int       // progress report cadence in evaluations
	seed         int64     // seed for the perturbation RNG
	logLevel     string    // log verbosity level
	specPath     string    // optional YAML fit spec
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "demfit",
	Short: "Demographic-history inference from joint allele-frequency spectra",
}

// fitCmd runs one maximum-likelihood fit using parameters from CLI flags
// and/or a YAML fit spec.
var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a demographic model to an observed spectrum",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if specPath != "" {
			spec, err := LoadFitSpec(specPath)
			if err != nil {
				logrus.Fatalf("unable to read fit spec: %v", err)
			}
			applyFitSpec(cmd, spec)
		}
		if dataPath == "" {
			logrus.Fatalf("no SNP table provided (--data). Exiting fit.")
		}
		if modelName == "" {
			logrus.Fatalf("no demographic model provided (--model). Exiting fit.")
		}

		model, err := dem.LookupModel(modelName)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		data, err := sfsio.LoadSNPFile(dataPath, pop1, pop2, n1, n2, !folded)
		if err != nil {
			logrus.Fatalf("loading observed spectrum: %v", err)
		}
		logrus.Infof("Loaded spectrum for (%s, %s) at sizes (%d, %d), folded=%v, segregating total=%.1f",
			pop1, pop2, n1, n2, data.Folded, data.Total())

		res, best, err := runFit(model, data)
		if err != nil {
			logrus.Fatalf("fit failed: %v", err)
		}
		printFitReport(os.Stdout, model, res, best, data)
	},
}

// runFit executes the core pipeline: perturb the starting point, optimize in
// log space with grid extrapolation, and score the optimum.
func runFit(model dem.ModelSpec, data *dem.Spectrum) (dem.FitResult, *dem.Spectrum, error) {
	evaluate := dem.MakeExtrapLogFunc(model)
	if data.Folded {
		inner := evaluate
		evaluate = func(p []float64, a, b int, pts []int) (*dem.Spectrum, error) {
			fs, err := inner(p, a, b, pts)
			if err != nil {
				return nil, err
			}
			return fs.Fold(), nil
		}
	}

	rng := dem.NewPartitionedRNG(dem.NewFitKey(seed))
	p0, err := dem.Perturb(start, perturbFold, lowerBound, upperBound, rng.ForSubsystem(dem.SubsystemPerturb))
	if err != nil {
		return dem.FitResult{}, nil, fmt.Errorf("perturbing starting point: %w", err)
	}
	logrus.Infof("Beginning optimization of %s from %v", model.Name, p0)
	startTime := time.Now()

	search, err := dem.OptimizeLog(p0, data, evaluate, gridPts, dem.SearchOptions{
		Lower:         lowerBound,
		Upper:         upperBound,
		MaxIterations: maxIter,
		VerboseEvery:  verboseEvery,
	})
	if err != nil {
		return dem.FitResult{}, nil, err
	}
	logrus.Infof("Finished optimization: %d evaluations in %v, converged=%v",
		search.Evaluations, time.Since(startTime), search.Converged)

	dn1, dn2 := data.SampleSizes()
	best, err := evaluate(search.Params, dn1, dn2, gridPts)
	if err != nil {
		return dem.FitResult{}, nil, fmt.Errorf("evaluating best-fit model: %w", err)
	}
	res := dem.Summarize(search.Params, best, data)
	res.Evaluations = search.Evaluations
	res.Converged = search.Converged
	return res, best, nil
}

// modelsCmd lists the registered demographic model variants.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available demographic model variants",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range dem.ModelNames() {
			m, _ := dem.LookupModel(name)
			fmt.Fprintf(os.Stdout, "%-8s %-12v %s\n", m.Name, m.Params, m.Description)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	fitCmd.Flags().StringVar(&specPath, "spec", "", "YAML fit spec; explicit flags override its values")
	fitCmd.Flags().StringVar(&dataPath, "data", "", "SNP table with per-population allele counts")
	fitCmd.Flags().StringVar(&pop1, "pop1", "", "Name of the first population")
	fitCmd.Flags().StringVar(&pop2, "pop2", "", "Name of the second population")
	fitCmd.Flags().IntVar(&n1, "n1", 0, "Down-projected sample size for pop1 (chromosomes)")
	fitCmd.Flags().IntVar(&n2, "n2", 0, "Down-projected sample size for pop2 (chromosomes)")
	fitCmd.Flags().BoolVar(&folded, "folded", false, "Treat the ancestral state as unknown and fold the spectrum")

	fitCmd.Flags().StringVar(&modelName, "model", "", "Demographic model variant (see 'demfit models')")
	fitCmd.Flags().IntSliceVar(&gridPts, "pts", []int{40, 50, 60}, "Comma-separated grid resolutions for extrapolation")
	fitCmd.Flags().Float64SliceVar(&start, "p0", nil, "Comma-separated initial parameter guess")
	fitCmd.Flags().Float64SliceVar(&lowerBound, "lower", nil, "Comma-separated per-parameter lower bounds")
	fitCmd.Flags().Float64SliceVar(&upperBound, "upper", nil, "Comma-separated per-parameter upper bounds")
	fitCmd.Flags().Float64Var(&perturbFold, "perturb-fold", 1, "Perturb each start parameter by up to 2^fold up or down")
	fitCmd.Flags().IntVar(&maxIter, "maxiter", 10, "Optimizer iteration budget (0 evaluates the start once)")
	fitCmd.Flags().IntVar(&verboseEvery, "verbose-every", 0, "Log progress every N model evaluations (0 disables)")
	fitCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for starting-point perturbation")
	fitCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(modelsCmd)
}
