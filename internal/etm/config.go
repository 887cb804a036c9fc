package etm

import "fmt"

// Config holds the ETMv3.5 decoder-context configuration fields from
// spec §3 ("Decoder context") that are not transient per-packet
// accumulators: contextBytes, usingAltAddrEncode, cycleAccurate, and
// dataOnlyMode. Styled on internal/etmv3/config.go's plain-struct-plus-
// accessor-methods shape from the teacher.
type Config struct {
	contextBytes       int
	usingAltAddrEncode bool
	cycleAccurate      bool
	dataOnlyMode       bool
}

// SetContextIDBytes validates and stores the configured width of
// context-ID fields in the stream. Valid widths are 0 (no context-ID
// field), 1, 2 or 4 bytes, mirroring the ETM ContextIDSize register field.
func (c *Config) SetContextIDBytes(n int) error {
	switch n {
	case 0, 1, 2, 4:
		c.contextBytes = n
		return nil
	default:
		return fmt.Errorf("etm: invalid context ID byte width %d (want 0, 1, 2 or 4)", n)
	}
}

func (c *Config) ContextIDBytes() int { return c.contextBytes }

// SetAltAddrEncode selects the alternate branch-address continuation
// byte layout (spec §4.C, "Branch-address collection").
func (c *Config) SetAltAddrEncode(alt bool) { c.usingAltAddrEncode = alt }

func (c *Config) AltAddrEncode() bool { return c.usingAltAddrEncode }

// SetCycleAccurate selects the cycle-accurate P-header grammar (Formats
// 0-4) over the default Format 1/2 grammar.
func (c *Config) SetCycleAccurate(ca bool) { c.cycleAccurate = ca }

func (c *Config) CycleAccurate() bool { return c.cycleAccurate }

// SetDataOnlyMode marks the stream as carrying no instruction-address
// payload on I-Sync packets.
func (c *Config) SetDataOnlyMode(dataOnly bool) { c.dataOnlyMode = dataOnly }

func (c *Config) DataOnlyMode() bool { return c.dataOnlyMode }
