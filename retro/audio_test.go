package retro

import "testing"

// TestSampleBuffer_MixedCallOrder verifies single-pair and batch pushes
// accumulate in call order.
func TestSampleBuffer_MixedCallOrder(t *testing.T) {
	var b sampleBuffer

	// Three single pairs followed by a two-frame batch.
	b.push(1, 2)
	b.push(3, 4)
	b.push(5, 6)
	b.pushBatch([]int16{7, 8, 9, 10})

	got := b.drain()
	want := []int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	if len(got) != len(want) {
		t.Fatalf("drained %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// TestSampleBuffer_CountAfterMixedCalls checks the N*2 + M*2 total for
// N single-sample calls and one M-frame batch.
func TestSampleBuffer_CountAfterMixedCalls(t *testing.T) {
	var b sampleBuffer

	const n = 5
	const m = 7
	for i := 0; i < n; i++ {
		b.push(int16(i), int16(-i))
	}
	batch := make([]int16, m*2)
	b.pushBatch(batch)

	got := b.drain()
	if len(got) != n*2+m*2 {
		t.Errorf("drained %d samples, want %d", len(got), n*2+m*2)
	}
}

// TestSampleBuffer_DrainEmpty verifies "no data" (nil) rather than an
// empty slice.
func TestSampleBuffer_DrainEmpty(t *testing.T) {
	var b sampleBuffer

	if got := b.drain(); got != nil {
		t.Errorf("drain of empty buffer = %v, want nil", got)
	}

	// Drained-then-empty behaves the same.
	b.push(1, 2)
	b.drain()
	if got := b.drain(); got != nil {
		t.Errorf("second drain = %v, want nil", got)
	}
}

// TestSampleBuffer_DrainClears verifies draining is atomic: samples
// pushed after a drain are not mixed with pre-drain data.
func TestSampleBuffer_DrainClears(t *testing.T) {
	var b sampleBuffer

	b.push(1, 2)
	first := b.drain()
	b.push(3, 4)
	second := b.drain()

	if len(first) != 2 || first[0] != 1 || first[1] != 2 {
		t.Errorf("first drain = %v, want [1 2]", first)
	}
	if len(second) != 2 || second[0] != 3 || second[1] != 4 {
		t.Errorf("second drain = %v, want [3 4]", second)
	}
}

// TestSampleBuffer_DrainCopies verifies the returned slice does not
// alias internal storage reused by later pushes.
func TestSampleBuffer_DrainCopies(t *testing.T) {
	var b sampleBuffer

	b.push(10, 20)
	got := b.drain()
	b.push(30, 40)

	if got[0] != 10 || got[1] != 20 {
		t.Errorf("drained data mutated by later push: %v", got)
	}
}
