// Package viz draws running scenes in the terminal with Bubble Tea.
//
//   - [Model]: live view of one scene, with replay and GIF capture
//   - [App]: scene, preset and parameter picker that opens a [Model]
//   - [Canvas]: braille pixel canvas, 2x4 dots per cell
//   - [Camera]: orthographic projection of the scene's view box
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	.      - Single step while paused
//	R      - Rebuild the scene from its config
//	Arrows - Move the bridge load, or rotate the camera in other scenes
//	T      - Cycle color themes
//	G      - Toggle GIF recording
//	[ ]    - Time travel through the last 600 frames
//	?      - Show help overlay
package viz
