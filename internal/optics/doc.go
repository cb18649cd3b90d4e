// Package optics evaluates the Fraunhofer double-slit intensity field.
//
// [Intensity] is the single formula shared by the particle sampler and every
// continuous rendering of the screen, so the discrete and continuous
// patterns cannot drift apart:
//
//	I(x) = cos²(π·d·x·S / (λ·L)) · sinc²(π·a·x·S / (λ·L))
//
// The package also derives the barrier geometry ([Layout]) and an
// approximate display color for a wavelength ([WavelengthRGB]).
package optics
