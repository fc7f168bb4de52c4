package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func writeSpec(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fit.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFitSpec(t *testing.T) {
	path := writeSpec(t, `
data: spectra/yri_ceu.snps
pop1: YRI
pop2: CEU
n1: 20
n2: 20
model: IM
grid_points: [40, 50, 60]
start: [2, 0.5, 1, 1, 0.3]
lower: [0.01, 0.01, 0, 0, 0.001]
upper: [100, 100, 20, 20, 10]
max_iterations: 50
seed: 7
`)
	spec, err := LoadFitSpec(path)
	assert.NoError(t, err)
	assert.Equal(t, "spectra/yri_ceu.snps", spec.Data)
	assert.Equal(t, "IM", spec.Model)
	assert.Equal(t, []int{40, 50, 60}, spec.GridPoints)
	assert.Equal(t, []float64{2, 0.5, 1, 1, 0.3}, spec.Start)
	assert.Equal(t, 50, spec.MaxIterations)
	assert.Equal(t, int64(7), spec.Seed)
	assert.False(t, spec.Folded)
}

func TestLoadFitSpec_RejectsUnknownKeys(t *testing.T) {
	path := writeSpec(t, `
model: SI
max_iters: 50
`)
	_, err := LoadFitSpec(path)
	assert.Error(t, err, "typoed keys must not be silently dropped")
}

func TestLoadFitSpec_MissingFile(t *testing.T) {
	_, err := LoadFitSpec(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestApplyFitSpec_ExplicitFlagsWin(t *testing.T) {
	defer resetFitFlags(t)

	spec := &FitSpec{
		Data:          "from-spec.snps",
		Model:         "SC",
		GridPoints:    []int{30, 40},
		MaxIterations: 77,
		Seed:          9,
	}

	// The user set --model on the command line; everything else comes from
	// the spec.
	assert.NoError(t, fitCmd.Flags().Set("model", "AM"))
	applyFitSpec(fitCmd, spec)

	assert.Equal(t, "AM", modelName)
	assert.Equal(t, "from-spec.snps", dataPath)
	assert.Equal(t, []int{30, 40}, gridPts)
	assert.Equal(t, 77, maxIter)
	assert.Equal(t, int64(9), seed)
}

func TestApplyFitSpec_ZeroValuesKeepDefaults(t *testing.T) {
	defer resetFitFlags(t)

	applyFitSpec(fitCmd, &FitSpec{Model: "SI"})

	// Unset numeric knobs in the spec keep the flag defaults.
	assert.Equal(t, []int{40, 50, 60}, gridPts)
	assert.Equal(t, 10, maxIter)
	assert.Equal(t, int64(42), seed)
	assert.Equal(t, 1.0, perturbFold)
}

// resetFitFlags restores the flag variables touched by these tests to their
// registered defaults so state does not leak between tests.
func resetFitFlags(t *testing.T) {
	t.Helper()
	dataPath, modelName = "", ""
	gridPts = []int{40, 50, 60}
	maxIter, seed, perturbFold = 10, 42, 1
	fitCmd.Flags().Visit(func(f *pflag.Flag) { f.Changed = false })
}
