package retro

import "sync"

// sampleBuffer accumulates interleaved stereo int16 samples pushed by
// the core. Cores may mix the single-pair and batch callback styles
// within one frame; both append here so temporal order is preserved.
//
// There is no backpressure: the buffer grows until drained. Consumers
// must drain at least once per frame at playback rate or memory grows
// without bound.
type sampleBuffer struct {
	mu      sync.Mutex
	samples []int16
}

// push appends one stereo sample pair.
func (b *sampleBuffer) push(left, right int16) {
	b.mu.Lock()
	b.samples = append(b.samples, left, right)
	b.mu.Unlock()
}

// pushBatch appends interleaved stereo frames (len(src) = frames*2).
func (b *sampleBuffer) pushBatch(src []int16) {
	b.mu.Lock()
	b.samples = append(b.samples, src...)
	b.mu.Unlock()
}

// drain returns all accumulated samples and clears the buffer
// atomically. Returns nil when nothing has accumulated. Storage is
// retained for reuse.
func (b *sampleBuffer) drain() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.samples) == 0 {
		return nil
	}
	out := make([]int16, len(b.samples))
	copy(out, b.samples)
	b.samples = b.samples[:0]
	return out
}

// reset discards accumulated samples without returning them.
func (b *sampleBuffer) reset() {
	b.mu.Lock()
	b.samples = b.samples[:0]
	b.mu.Unlock()
}
