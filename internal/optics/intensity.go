package optics

import (
	"math"

	"github.com/san-kum/slitsim/internal/dynamo"
)

const (
	// denominators below this collapse the field to zero
	minDenominator = 1e-9
	// |β| under this uses the sinc limit of 1
	sincEpsilon = 1e-3
)

// Intensity returns the normalized screen intensity at x, in [0, 1].
// Degenerate configurations (λ·L ≈ 0) and non-finite inputs yield 0.
func Intensity(x float64, cfg dynamo.SimulationConfig, sc dynamo.Scale) float64 {
	lambda := cfg.WavelengthNm * sc.WavelengthUnit
	den := lambda * cfg.ScreenDistance
	if math.IsNaN(den) || math.IsInf(den, 0) || math.Abs(den) < minDenominator {
		return 0
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}

	k := math.Pi * x * sc.FieldScale / den

	alpha := k * cfg.SlitSeparation
	c := math.Cos(alpha)
	interference := c * c

	beta := k * cfg.SlitWidth
	diffraction := 1.0
	if math.Abs(beta) >= sincEpsilon {
		s := math.Sin(beta) / beta
		diffraction = s * s
	}

	i := interference * diffraction
	if !(i >= 0) {
		return 0
	}
	return math.Min(i, 1)
}

// Evaluator binds a configuration so renderers can sample the field
// without threading cfg and scale through every call.
type Evaluator struct {
	cfg dynamo.SimulationConfig
	sc  dynamo.Scale
}

func NewEvaluator(cfg dynamo.SimulationConfig, sc dynamo.Scale) Evaluator {
	return Evaluator{cfg: cfg, sc: sc}
}

func (e Evaluator) At(x float64) float64 { return Intensity(x, e.cfg, e.sc) }
