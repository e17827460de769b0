// Package viz draws a soft body in the terminal.
//
//   - [Model]: Bubble Tea model that steps a body at 60 Hz and lets the
//     mouse drag its points
//   - [Menu]: preset picker that opens a [Model]
//   - [Canvas]: Braille pixel canvas, 2x4 dots per cell
//   - [Projection]: simulation space to canvas pixels and back
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset body and parameters
//	G     - Toggle gravity
//	V     - Toggle force indicators
//	T     - Cycle color themes
//	Tab   - Select parameter, Up/Down to tune it
//	?     - Show help overlay
package viz
