package dem

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExponentialGrowth_Endpoints(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		end      float64
		duration float64
	}{
		{"growth", 1, 4, 2},
		{"decline", 2, 0.5, 1},
		{"flat", 1.5, 1.5, 3},
		{"short epoch", 0.01, 100, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ExponentialGrowth(tt.start, tt.end, tt.duration)
			if got := f.At(0); got != tt.start {
				t.Errorf("size(0) = %g, want %g", got, tt.start)
			}
			if got := f.At(tt.duration); math.Abs(got-tt.end) > 1e-12*tt.end {
				t.Errorf("size(duration) = %g, want %g", got, tt.end)
			}
		})
	}
}

func TestExponentialGrowth_MonotoneAndPositive(t *testing.T) {
	f := ExponentialGrowth(0.5, 8, 2)
	prev := f.At(0)
	for i := 1; i <= 100; i++ {
		cur := f.At(2 * float64(i) / 100)
		if cur < prev {
			t.Fatalf("trajectory not monotone at step %d: %g < %g", i, cur, prev)
		}
		if cur <= 0 {
			t.Fatalf("trajectory not positive at step %d: %g", i, cur)
		}
		prev = cur
	}
}

func TestExponentialGrowth_ZeroDuration(t *testing.T) {
	f := ExponentialGrowth(1, 5, 0)
	assert.Equal(t, 5.0, f.At(0))
}

func TestConstantSize(t *testing.T) {
	f := ConstantSize(2.5)
	for _, tm := range []float64{0, 0.5, 10} {
		assert.Equal(t, 2.5, f.At(tm))
	}
}

func TestSizeFuncValidate(t *testing.T) {
	assert.NoError(t, ConstantSize(1).Validate())
	assert.Error(t, ConstantSize(0).Validate())
	assert.Error(t, ConstantSize(-1).Validate())
	assert.NoError(t, ExponentialGrowth(1, 2, 1).Validate())
	assert.Error(t, ExponentialGrowth(0, 2, 1).Validate())
	assert.Error(t, ExponentialGrowth(1, -2, 1).Validate())
}

func TestEpochValidate(t *testing.T) {
	ok := Epoch{Duration: 1, Size1: ConstantSize(1), Size2: ConstantSize(2), M12: 0.5}
	assert.NoError(t, ok.Validate())

	negDur := ok
	negDur.Duration = -1
	assert.Error(t, negDur.Validate())

	negMig := ok
	negMig.M21 = -0.1
	assert.Error(t, negMig.Validate())

	zeroDur := ok
	zeroDur.Duration = 0
	assert.NoError(t, zeroDur.Validate())
}
