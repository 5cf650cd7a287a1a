package retro

import "sync"

const (
	// MaxPorts is the number of controller ports the host exposes.
	MaxPorts = 2

	// MaxButtons is the number of digital buttons per port, matching
	// the RETRO_DEVICE_ID_JOYPAD_* range.
	MaxButtons = 16
)

// inputTable is the fixed per-port, per-button state grid. The
// consumer writes it directly; the core reads it synchronously through
// the input state callback during Run. Last write before a read wins.
type inputTable struct {
	mu    sync.Mutex
	state [MaxPorts][MaxButtons]int16
}

// set stores a button value. Out-of-range ports and buttons are
// dropped silently so a misbehaving caller cannot destabilize a
// running frame loop.
func (t *inputTable) set(port, button int, value int16) {
	if port < 0 || port >= MaxPorts || button < 0 || button >= MaxButtons {
		return
	}
	t.mu.Lock()
	t.state[port][button] = value
	t.mu.Unlock()
}

// read returns the current value of one cell, zero when out of range.
func (t *inputTable) read(port, button int) int16 {
	if port < 0 || port >= MaxPorts || button < 0 || button >= MaxButtons {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state[port][button]
}

// mask returns the pressed-button bitmask for a port, bit n set when
// button n is nonzero. Serves cores polling in bitmask mode.
func (t *inputTable) mask(port int) int16 {
	if port < 0 || port >= MaxPorts {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var m int16
	for id, v := range t.state[port] {
		if v != 0 {
			m |= 1 << id
		}
	}
	return m
}

// reset clears all cells, used when a game unloads.
func (t *inputTable) reset() {
	t.mu.Lock()
	t.state = [MaxPorts][MaxButtons]int16{}
	t.mu.Unlock()
}
