// Package viz renders the convergence monitor in the terminal.
//
// A Bubble Tea program fires a [TickMsg] every configured interval; each tick
// advances the [monitor.Driver] once and the view redraws two panels:
//
//   - VELOCITY DISTRIBUTION: density bars drawn on a braille [Canvas]
//   - CONVERGENCE TREND (LOG): mean velocity over time via asciigraph
//
// # Key Bindings
//
//	Space - Pause/Resume
//	T     - Cycle color themes
//	?     - Toggle help
//	Q     - Quit
package viz
