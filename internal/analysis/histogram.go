package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/optics"
)

// binSub is the number of midpoint evaluations per bin for expected counts.
const binSub = 32

// Histogram counts xs into bins equal-width bins over [lo, hi]. Values outside
// the range are dropped; hi itself lands in the last bin.
func Histogram(xs []float64, lo, hi float64, bins int) []float64 {
	if bins <= 0 || hi <= lo {
		return nil
	}
	out := make([]float64, bins)
	w := (hi - lo) / float64(bins)
	for _, x := range xs {
		if x < lo || x > hi || math.IsNaN(x) {
			continue
		}
		i := int((x - lo) / w)
		if i >= bins {
			i = bins - 1
		}
		out[i]++
	}
	return out
}

// Expected distributes total landings over the bins in proportion to the
// integrated intensity. All zeros when the field vanishes on [lo, hi].
func Expected(cfg dynamo.SimulationConfig, sc dynamo.Scale, lo, hi float64, bins, total int) []float64 {
	if bins <= 0 || hi <= lo {
		return nil
	}
	out := make([]float64, bins)
	w := (hi - lo) / float64(bins)
	for i := range out {
		a := lo + float64(i)*w
		out[i] = optics.BinMass(cfg, sc, a, a+w, binSub)
	}
	sum := floats.Sum(out)
	if sum <= 0 {
		return make([]float64, bins)
	}
	floats.Scale(float64(total)/sum, out)
	return out
}

type Fit struct {
	ChiSquare float64 `json:"chi_square"`
	DOF       int     `json:"dof"`
	PValue    float64 `json:"p_value"`
}

// GoodnessOfFit runs Pearson's chi-squared test. Bins with no expected mass
// are skipped.
func GoodnessOfFit(observed, expected []float64) Fit {
	n := min(len(observed), len(expected))
	obs := make([]float64, 0, n)
	exp := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if expected[i] <= 0 {
			continue
		}
		obs = append(obs, observed[i])
		exp = append(exp, expected[i])
	}

	dof := len(obs) - 1
	if dof < 1 {
		return Fit{DOF: max(dof, 0), PValue: 1}
	}

	chi := stat.ChiSquare(obs, exp)
	dist := distuv.ChiSquared{K: float64(dof)}
	return Fit{
		ChiSquare: chi,
		DOF:       dof,
		PValue:    1 - dist.CDF(chi),
	}
}

// Visibility is the fringe contrast (max-min)/(max+min) of a profile.
func Visibility(profile []float64) float64 {
	if len(profile) == 0 {
		return 0
	}
	hi, lo := floats.Max(profile), floats.Min(profile)
	if hi+lo <= 0 {
		return 0
	}
	return (hi - lo) / (hi + lo)
}
