// Package viz renders a live preview of the panel in the terminal.
//
// The preview is a Bubble Tea program stepping a [player.Player] at a fixed
// frame rate. Each pixel is drawn at its position-matrix coordinate, so
// strips of different lengths keep their physical spacing.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N / P - Next/previous animation
//	R     - Restart the current animation
//	+ / - - Faster/slower
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
