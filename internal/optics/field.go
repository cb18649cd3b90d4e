package optics

import "github.com/san-kum/slitsim/internal/dynamo"

// Profile samples the field at n bin centers spanning the screen width.
func Profile(cfg dynamo.SimulationConfig, sc dynamo.Scale, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	field := NewEvaluator(cfg, sc)
	step := sc.ScreenWidth / float64(n)
	for i := range out {
		// mirrored samples land on exactly negated x
		out[i] = field.At(float64(2*i+1-n) * step / 2)
	}
	return out
}

// BinMass integrates intensity over [lo, hi] with the midpoint rule using
// sub evaluation points.
func BinMass(cfg dynamo.SimulationConfig, sc dynamo.Scale, lo, hi float64, sub int) float64 {
	if sub < 1 {
		sub = 1
	}
	if hi <= lo {
		return 0
	}
	field := NewEvaluator(cfg, sc)
	h := (hi - lo) / float64(sub)
	sum := 0.0
	for i := 0; i < sub; i++ {
		sum += field.At(lo + (float64(i)+0.5)*h)
	}
	return sum * h
}
