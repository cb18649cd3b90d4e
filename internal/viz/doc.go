// Package viz renders the slit experiment in the terminal.
//
// The package implements a live view using the Bubble Tea framework:
//
//   - [Model]: drives a particle pool at a fixed frame rate
//   - [Canvas]: Braille-based pixel canvas with world viewports
//   - [Camera], [Wireframe]: perspective projection of the scene
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset particles and parameters
//	V     - Toggle top-down and perspective views
//	Tab   - Select parameter, Up/Down to adjust
//	C     - Clear the landing histogram
//	T     - Cycle color themes
//	?     - Show help overlay
//
// Particles are drawn in the color of the configured wavelength. Below the
// scene, the landing histogram is plotted against the field profile.
package viz
