// Package sfsio builds observed frequency spectra from SNP tables.
//
// The input format is one header line plus one line per site:
//
//	Ingroup Outgroup Allele1 <pop>... Allele2 <pop>... Gene Position
//	ACG     ATG      A       24 0     G       0 40     abcb1 289
//
// Ingroup/Outgroup are three-base sequence contexts whose middle base is the
// allele; the Allele1 and Allele2 columns give per-population counts of each
// allele. Sites are down-projected hypergeometrically to the requested sample
// sizes, so sites with missing data still contribute as long as at least
// (n1, n2) chromosomes were called.
package sfsio

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/demfit/demfit/dem"
)

// LoadSNPFile parses the SNP table at path into an observed spectrum for the
// two named populations, down-projected to sample sizes (n1, n2). With
// polarized=false the ancestral state is treated as unknown and the spectrum
// is folded.
func LoadSNPFile(path string, pop1, pop2 string, n1, n2 int, polarized bool) (*dem.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening SNP table: %w", err)
	}
	defer f.Close()
	fs, err := FromSNPTable(f, pop1, pop2, n1, n2, polarized)
	if err != nil {
		return nil, fmt.Errorf("parsing SNP table %q: %w", path, err)
	}
	return fs, nil
}

// header describes the column layout of one SNP table.
type header struct {
	allele1 int   // index of the Allele1 base column
	allele2 int   // index of the Allele2 base column
	counts1 []int // per selected population: Allele1 count column
	counts2 []int // per selected population: Allele2 count column
	cols    int
}

func parseHeader(fields []string, pops [2]string) (*header, error) {
	a1 := -1
	for i, f := range fields {
		if f == "Allele1" {
			a1 = i
			break
		}
	}
	if a1 < 0 {
		return nil, fmt.Errorf("header has no Allele1 column")
	}
	a2 := -1
	for i := a1 + 1; i < len(fields); i++ {
		if fields[i] == "Allele2" {
			a2 = i
			break
		}
	}
	if a2 < 0 {
		return nil, fmt.Errorf("header has no Allele2 column")
	}

	h := &header{allele1: a1, allele2: a2, cols: len(fields)}
	for _, pop := range pops {
		found := -1
		for i := a1 + 1; i < a2; i++ {
			if fields[i] == pop {
				found = i
				break
			}
		}
		if found < 0 {
			available := fields[a1+1 : a2]
			return nil, fmt.Errorf("population %q not in header (available: %v)", pop, available)
		}
		h.counts1 = append(h.counts1, found)
		h.counts2 = append(h.counts2, found+(a2-a1))
	}
	return h, nil
}

// FromSNPTable reads a SNP table and accumulates the joint spectrum for the
// selected population pair. Sites whose orientation cannot be determined
// (polarized mode with an outgroup allele matching neither segregating
// allele) are skipped with a debug log, as are sites with too few called
// chromosomes to project down to (n1, n2).
func FromSNPTable(r io.Reader, pop1, pop2 string, n1, n2 int, polarized bool) (*dem.Spectrum, error) {
	if n1 < 1 || n2 < 1 {
		return nil, fmt.Errorf("%w: sample sizes must be positive, got (%d, %d)", dem.ErrInvalidParameters, n1, n2)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var h *header
	fs := dem.NewSpectrum(n1, n2)
	sizes := [2]int{n1, n2}

	lineNo := 0
	used, skipped := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if h == nil {
			var err error
			h, err = parseHeader(fields, [2]string{pop1, pop2})
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}
		if len(fields) != h.cols {
			return nil, fmt.Errorf("line %d: %d columns, header has %d", lineNo, len(fields), h.cols)
		}

		derived, totals, ok, err := siteCounts(h, fields, polarized)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !ok {
			skipped++
			logrus.Debugf("line %d: unresolvable ancestral state, site skipped", lineNo)
			continue
		}

		proj := [2][]float64{}
		projectable := true
		for k := 0; k < 2; k++ {
			if totals[k] < sizes[k] {
				projectable = false
				break
			}
			proj[k] = projectDown(derived[k], totals[k], sizes[k])
		}
		if !projectable {
			skipped++
			continue
		}

		for i := 0; i <= n1; i++ {
			if proj[0][i] == 0 {
				continue
			}
			for j := 0; j <= n2; j++ {
				fs.Data[i][j] += proj[0][i] * proj[1][j]
			}
		}
		used++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading SNP table: %w", err)
	}
	if h == nil {
		return nil, fmt.Errorf("empty SNP table")
	}

	logrus.Infof("SNP table: %d sites used, %d skipped", used, skipped)

	fs.MaskCorners()
	if !polarized {
		fs = fs.Fold()
	}
	return fs, nil
}

// siteCounts extracts per-population derived counts and total called
// chromosomes for one site. In polarized mode the outgroup context decides
// which allele is derived; otherwise Allele2 is taken as derived and folding
// removes the arbitrary orientation later.
func siteCounts(h *header, fields []string, polarized bool) (derived, totals [2]int, ok bool, err error) {
	var c1, c2 [2]int
	for k := 0; k < 2; k++ {
		c1[k], err = strconv.Atoi(fields[h.counts1[k]])
		if err != nil {
			return derived, totals, false, fmt.Errorf("bad Allele1 count %q: %w", fields[h.counts1[k]], err)
		}
		c2[k], err = strconv.Atoi(fields[h.counts2[k]])
		if err != nil {
			return derived, totals, false, fmt.Errorf("bad Allele2 count %q: %w", fields[h.counts2[k]], err)
		}
		totals[k] = c1[k] + c2[k]
	}

	derivedIsAllele2 := true
	if polarized {
		outgroup := fields[1]
		if len(outgroup) != 3 {
			return derived, totals, false, fmt.Errorf("outgroup context %q is not a base triplet", outgroup)
		}
		ancestral := string(outgroup[1])
		switch ancestral {
		case fields[h.allele1]:
			derivedIsAllele2 = true
		case fields[h.allele2]:
			derivedIsAllele2 = false
		default:
			return derived, totals, false, nil
		}
	}

	for k := 0; k < 2; k++ {
		if derivedIsAllele2 {
			derived[k] = c2[k]
		} else {
			derived[k] = c1[k]
		}
	}
	return derived, totals, true, nil
}

// projectDown returns the hypergeometric projection of observing d derived
// alleles among t called chromosomes onto a sample of size n: entry k is the
// probability that a random subsample of size n contains exactly k derived
// copies.
func projectDown(d, t, n int) []float64 {
	out := make([]float64, n+1)
	denom := combin.LogGeneralizedBinomial(float64(t), float64(n))
	for k := 0; k <= n; k++ {
		if k > d || n-k > t-d {
			continue
		}
		out[k] = math.Exp(combin.LogGeneralizedBinomial(float64(d), float64(k)) +
			combin.LogGeneralizedBinomial(float64(t-d), float64(n-k)) - denom)
	}
	return out
}
