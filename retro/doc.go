// Package retro hosts a dynamically loaded libretro core and exposes
// it through a buffered, thread-aware Go surface: load a core and a
// game, run frames, drain normalized video and audio, write controller
// input, and save or restore machine state.
//
// The core's five callback channels (environment, video refresh, audio
// sample, audio batch, input) re-enter this package synchronously on
// the goroutine that calls Run; there is no internal worker. Because
// the libretro callback pointers have no context parameter, only one
// Core can be active per process; see LoadCore and Destroy.
//
// Video frames are buffered at most one deep and audio accumulates
// unboundedly until drained; a consumer that renders and plays must
// call VideoFrame and AudioSamples once per frame. A core that blocks
// inside retro_run blocks the caller; no timeout is imposed here.
//
// The package requires cgo and a dlfcn-based platform (Linux, macOS,
// BSDs).
package retro
