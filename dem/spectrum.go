package dem

import (
	"fmt"
	"math"
)

// Spectrum is a joint allele-frequency spectrum for two populations.
// Data[i][j] is the (expected or observed) count of sites where the derived
// allele appears i times in the population-1 sample and j times in the
// population-2 sample, so Data has shape (n1+1) x (n2+1) for sample sizes
// (n1, n2). Masked entries carry no information and are excluded from totals
// and likelihoods.
type Spectrum struct {
	Data   [][]float64
	Mask   [][]bool
	Folded bool
}

// NewSpectrum allocates an unmasked, unfolded spectrum for sample sizes
// (n1, n2).
func NewSpectrum(n1, n2 int) *Spectrum {
	data := make([][]float64, n1+1)
	mask := make([][]bool, n1+1)
	for i := range data {
		data[i] = make([]float64, n2+1)
		mask[i] = make([]bool, n2+1)
	}
	return &Spectrum{Data: data, Mask: mask}
}

// SampleSizes returns the per-population sample sizes implied by the array
// shape.
func (s *Spectrum) SampleSizes() (n1, n2 int) {
	return len(s.Data) - 1, len(s.Data[0]) - 1
}

// Clone returns a deep copy.
func (s *Spectrum) Clone() *Spectrum {
	n1, n2 := s.SampleSizes()
	out := NewSpectrum(n1, n2)
	out.Folded = s.Folded
	for i := range s.Data {
		copy(out.Data[i], s.Data[i])
		copy(out.Mask[i], s.Mask[i])
	}
	return out
}

// Total returns the sum over unmasked entries.
func (s *Spectrum) Total() float64 {
	var sum float64
	for i := range s.Data {
		for j, v := range s.Data[i] {
			if s.Mask[i][j] {
				continue
			}
			sum += v
		}
	}
	return sum
}

// Scale multiplies every unmasked entry by f in place.
func (s *Spectrum) Scale(f float64) {
	for i := range s.Data {
		for j := range s.Data[i] {
			if s.Mask[i][j] {
				continue
			}
			s.Data[i][j] *= f
		}
	}
}

// Scaled returns a copy with every unmasked entry multiplied by f.
func (s *Spectrum) Scaled(f float64) *Spectrum {
	out := s.Clone()
	out.Scale(f)
	return out
}

// MaskCorners masks and zeroes the fixed frequency classes [0][0] and
// [n1][n2]. Sites where the derived allele is absent from, or fixed in, both
// samples carry no polymorphism information and are excluded from every
// likelihood by convention.
func (s *Spectrum) MaskCorners() {
	n1, n2 := s.SampleSizes()
	s.Data[0][0] = 0
	s.Mask[0][0] = true
	s.Data[n1][n2] = 0
	s.Mask[n1][n2] = true
}

// Fold collapses the spectrum by derived/ancestral symmetry, for data where
// the ancestral state is unknown. Entry (i, j) absorbs its complement
// (n1-i, n2-j); entries on the central hyperplane are averaged with their
// complement; the majority-derived half is zeroed and masked.
func (s *Spectrum) Fold() *Spectrum {
	n1, n2 := s.SampleSizes()
	out := s.Clone()
	out.Folded = true
	total := n1 + n2
	for i := 0; i <= n1; i++ {
		for j := 0; j <= n2; j++ {
			ci, cj := n1-i, n2-j
			switch {
			case 2*(i+j) < total:
				out.Data[i][j] = s.Data[i][j] + s.Data[ci][cj]
				out.Mask[i][j] = s.Mask[i][j] && s.Mask[ci][cj]
			case 2*(i+j) == total:
				out.Data[i][j] = 0.5 * (s.Data[i][j] + s.Data[ci][cj])
				out.Mask[i][j] = s.Mask[i][j]
			default:
				out.Data[i][j] = 0
				out.Mask[i][j] = true
			}
		}
	}
	// Corner masking survives folding: [0][0] now also covers [n1][n2].
	if s.Mask[0][0] || s.Mask[n1][n2] {
		out.Data[0][0] = 0
		out.Mask[0][0] = true
	}
	return out
}

// IsFinite reports whether every unmasked entry is finite.
func (s *Spectrum) IsFinite() bool {
	for i := range s.Data {
		for j, v := range s.Data[i] {
			if s.Mask[i][j] {
				continue
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// sameShape reports an error when two spectra cannot be compared entry-wise.
func sameShape(a, b *Spectrum) error {
	an1, an2 := a.SampleSizes()
	bn1, bn2 := b.SampleSizes()
	if an1 != bn1 || an2 != bn2 {
		return fmt.Errorf("spectrum shape mismatch: (%d,%d) vs (%d,%d)", an1, an2, bn1, bn2)
	}
	return nil
}
