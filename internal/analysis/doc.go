// Package analysis compares landing patterns against the Fraunhofer field.
//
//   - [Histogram]: bin landing positions across the screen
//   - [Expected]: bin counts predicted by the intensity model
//   - [GoodnessOfFit]: chi-squared test of observed against expected counts
//   - [FringeSpacing], [EnvelopeWidth]: closed-form pattern geometry
//   - [DominantPeriod]: fringe period recovered from a histogram spectrum
//   - [FitWavelength]: wavelength that best explains an observed histogram
//
// # Checking a run
//
//	obs := analysis.Histogram(res.HitXs(), -10, 10, 64)
//	exp := analysis.Expected(cfg, sc, -10, 10, 64, len(res.Hits))
//	fit := analysis.GoodnessOfFit(obs, exp)
//	if fit.PValue < 0.01 {
//	    // landings do not follow the field
//	}
package analysis
