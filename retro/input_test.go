package retro

import "testing"

// TestInputTable_SetRead verifies basic write-then-read on valid cells.
func TestInputTable_SetRead(t *testing.T) {
	var tab inputTable

	tab.set(0, 3, 1)
	tab.set(1, 15, 1)

	if got := tab.read(0, 3); got != 1 {
		t.Errorf("read(0,3) = %d, want 1", got)
	}
	if got := tab.read(1, 15); got != 1 {
		t.Errorf("read(1,15) = %d, want 1", got)
	}
	if got := tab.read(0, 4); got != 0 {
		t.Errorf("read(0,4) = %d, want 0", got)
	}
}

// TestInputTable_OutOfRangeIgnored verifies writes past the 2x16 grid
// neither alter the table nor panic.
func TestInputTable_OutOfRangeIgnored(t *testing.T) {
	var tab inputTable

	testCases := []struct {
		name         string
		port, button int
	}{
		{"port too high", 2, 0},
		{"port negative", -1, 0},
		{"button too high", 0, 16},
		{"button negative", 0, -1},
		{"both out of range", 99, 99},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tab.set(tc.port, tc.button, 1)
		})
	}

	for port := 0; port < MaxPorts; port++ {
		for button := 0; button < MaxButtons; button++ {
			if got := tab.read(port, button); got != 0 {
				t.Errorf("cell (%d,%d) = %d after out-of-range writes, want 0", port, button, got)
			}
		}
	}
}

// TestInputTable_OutOfRangeReadsZero verifies reads past the grid
// return released state.
func TestInputTable_OutOfRangeReadsZero(t *testing.T) {
	var tab inputTable
	tab.set(0, 0, 1)

	if got := tab.read(2, 0); got != 0 {
		t.Errorf("read(2,0) = %d, want 0", got)
	}
	if got := tab.read(0, 16); got != 0 {
		t.Errorf("read(0,16) = %d, want 0", got)
	}
}

// TestInputTable_LastWriteWins verifies successive writes to one cell.
func TestInputTable_LastWriteWins(t *testing.T) {
	var tab inputTable

	tab.set(0, 0, 1)
	tab.set(0, 0, 0)
	if got := tab.read(0, 0); got != 0 {
		t.Errorf("read(0,0) = %d, want 0 after release", got)
	}

	// Analog-range values pass through untouched.
	tab.set(1, 2, 0x7FFF)
	if got := tab.read(1, 2); got != 0x7FFF {
		t.Errorf("read(1,2) = %d, want 32767", got)
	}
}

// TestInputTable_Mask verifies the aggregate bitmask used by cores
// polling in bitmask mode.
func TestInputTable_Mask(t *testing.T) {
	var tab inputTable

	tab.set(0, 0, 1)  // B
	tab.set(0, 3, 1)  // Start
	tab.set(0, 8, 1)  // A
	tab.set(1, 15, 1) // R3, other port

	if got := tab.mask(0); got != 1<<0|1<<3|1<<8 {
		t.Errorf("mask(0) = %#x, want %#x", got, 1<<0|1<<3|1<<8)
	}
	if got := uint16(tab.mask(1)); got != 1<<15 {
		t.Errorf("mask(1) = %#x, want %#x", got, uint16(1)<<15)
	}
	if got := tab.mask(2); got != 0 {
		t.Errorf("mask(2) = %#x, want 0", got)
	}
}

// TestInputTable_Reset verifies reset clears every cell.
func TestInputTable_Reset(t *testing.T) {
	var tab inputTable

	tab.set(0, 1, 1)
	tab.set(1, 2, 1)
	tab.reset()

	if got := tab.read(0, 1); got != 0 {
		t.Errorf("read(0,1) = %d after reset, want 0", got)
	}
	if got := tab.mask(1); got != 0 {
		t.Errorf("mask(1) = %#x after reset, want 0", got)
	}
}
