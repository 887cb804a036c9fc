package etm

import "testing"

func TestConfig(t *testing.T) {
	var c Config

	if c.ContextIDBytes() != 0 {
		t.Error("expected default ContextIDBytes 0")
	}
	if c.AltAddrEncode() {
		t.Error("unexpected default AltAddrEncode")
	}
	if c.CycleAccurate() {
		t.Error("unexpected default CycleAccurate")
	}
	if c.DataOnlyMode() {
		t.Error("unexpected default DataOnlyMode")
	}

	for _, n := range []int{0, 1, 2, 4} {
		if err := c.SetContextIDBytes(n); err != nil {
			t.Errorf("SetContextIDBytes(%d): %v", n, err)
		}
		if c.ContextIDBytes() != n {
			t.Errorf("ContextIDBytes() = %d, want %d", c.ContextIDBytes(), n)
		}
	}
	if err := c.SetContextIDBytes(3); err == nil {
		t.Error("expected an error for an invalid context ID byte width")
	}
	// a rejected width must not clobber the last valid one.
	if c.ContextIDBytes() != 4 {
		t.Errorf("ContextIDBytes() = %d, want 4 (unchanged after rejected Set)", c.ContextIDBytes())
	}

	c.SetAltAddrEncode(true)
	if !c.AltAddrEncode() {
		t.Error("expected AltAddrEncode true")
	}
	c.SetAltAddrEncode(false)
	if c.AltAddrEncode() {
		t.Error("expected AltAddrEncode false")
	}

	c.SetCycleAccurate(true)
	if !c.CycleAccurate() {
		t.Error("expected CycleAccurate true")
	}

	c.SetDataOnlyMode(true)
	if !c.DataOnlyMode() {
		t.Error("expected DataOnlyMode true")
	}
}
