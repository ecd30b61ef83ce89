// Package viz provides the terminal views of drawfire: a braille heatmap
// canvas, lipgloss styles and an interactive inspector built on Bubble Tea.
//
// # Inspector Key Bindings
//
//	h/←   - Previous output time
//	l/→   - Next output time
//	g/G   - First/last output time
//	t     - Cycle color themes
//	q     - Quit
package viz
