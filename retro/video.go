package retro

import (
	"sync"

	"github.com/ryanmagoon/gamelord/pixel"
)

// VideoFrame is one rendered frame normalized to tightly packed
// RGBA8888. Data is width*height*4 bytes and owned by the caller.
type VideoFrame struct {
	Width  int
	Height int
	Data   []byte
}

// frameBuffer holds the most recent frame from the core. At most one
// frame is buffered; a new frame overwrites an undrained one. Written
// by the video refresh callback during Run, read by the consumer,
// possibly from another goroutine.
type frameBuffer struct {
	mu     sync.Mutex
	buf    []byte
	width  int
	height int
	ready  bool
}

// store converts a raw core framebuffer into the RGBA buffer and marks
// it ready. The buffer is reused across frames to avoid per-frame
// allocation at steady state.
func (f *frameBuffer) store(src []byte, format pixel.Format, width, height, pitch int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	need := width * height * 4
	if cap(f.buf) < need {
		f.buf = make([]byte, need)
	}
	f.buf = f.buf[:need]

	pixel.ToRGBA(f.buf, src, format, width, height, pitch)
	f.width = width
	f.height = height
	f.ready = true
}

// take drains the frame: it returns a copy of the current frame once,
// then reports no data until the core renders again.
func (f *frameBuffer) take() (VideoFrame, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.ready || len(f.buf) == 0 {
		return VideoFrame{}, false
	}

	out := make([]byte, len(f.buf))
	copy(out, f.buf)
	f.ready = false
	return VideoFrame{Width: f.width, Height: f.height, Data: out}, true
}

// reset clears the ready flag without releasing storage, for reuse
// across game loads.
func (f *frameBuffer) reset() {
	f.mu.Lock()
	f.ready = false
	f.mu.Unlock()
}
