package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/slitsim/internal/dynamo"
)

// FringeSpacing is the screen distance between adjacent bright fringes.
func FringeSpacing(cfg dynamo.SimulationConfig, sc dynamo.Scale) float64 {
	den := cfg.SlitSeparation * sc.FieldScale
	if den == 0 {
		return math.Inf(1)
	}
	return cfg.WavelengthNm * sc.WavelengthUnit * cfg.ScreenDistance / den
}

// EnvelopeWidth is the distance from the axis to the first diffraction zero.
func EnvelopeWidth(cfg dynamo.SimulationConfig, sc dynamo.Scale) float64 {
	den := cfg.SlitWidth * sc.FieldScale
	if den == 0 {
		return math.Inf(1)
	}
	return cfg.WavelengthNm * sc.WavelengthUnit * cfg.ScreenDistance / den
}

// DominantPeriod returns the strongest spatial period in a histogram with
// the given bin width, or 0 when the histogram carries no oscillation.
func DominantPeriod(hist []float64, binWidth float64) float64 {
	n := len(hist)
	if n < 4 || binWidth <= 0 {
		return 0
	}

	centered := make([]float64, n)
	copy(centered, hist)
	floats.AddConst(-stat.Mean(hist, nil), centered)

	spectrum := fft.FFTReal(centered)
	best, bestPow := 0, 0.0
	for k := 1; k <= n/2; k++ {
		if p := cmplx.Abs(spectrum[k]); p > bestPow {
			best, bestPow = k, p
		}
	}
	if best == 0 || bestPow < 1e-9 {
		return 0
	}
	return float64(n) * binWidth / float64(best)
}

// FitWavelength finds the wavelength whose predicted landing distribution
// best matches observed over [lo, hi], starting from cfg.WavelengthNm.
func FitWavelength(observed []float64, lo, hi float64, cfg dynamo.SimulationConfig, sc dynamo.Scale) (float64, error) {
	bins := len(observed)
	total := floats.Sum(observed)
	if bins == 0 || total == 0 {
		return 0, dynamo.ErrEmptyRun
	}

	trial := cfg
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if x[0] <= 0 {
				return math.Inf(1)
			}
			trial.WavelengthNm = x[0]
			exp := Expected(trial, sc, lo, hi, bins, int(total))
			return floats.Distance(observed, exp, 2)
		},
	}
	settings := &optimize.Settings{FuncEvaluations: 500}

	result, err := optimize.Minimize(problem, []float64{cfg.WavelengthNm}, settings, &optimize.NelderMead{SimplexSize: 10})
	if err != nil {
		return 0, fmt.Errorf("fit wavelength: %w", err)
	}
	return result.X[0], nil
}
