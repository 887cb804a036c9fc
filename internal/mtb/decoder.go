// Package mtb implements the Micro Trace Buffer decoder: a two-state
// machine over fixed 8-byte (source, destination) address pairs emitted
// by Cortex-M0+ trace hardware.
//
// Grounded on spec.md §4.D and traceDecoder.c's _MTBDecoderPumpAction,
// the ETM decoder's much simpler sibling in the same source file.
package mtb

import "tracedecoder/internal/cpustate"

type protoState int

const (
	StateUnsynced protoState = iota
	StateIdle
)

func (s protoState) String() string {
	if s == StateIdle {
		return "IDLE"
	}
	return "UNSYNCED"
}

// Decoder is the MTB per-stream decoder. Unlike the ETM decoder it has
// no accumulators: each (source, dest) pair is fully self-contained.
type Decoder struct {
	cpu   *cpustate.CPUState
	state protoState
}

func New(cpu *cpustate.CPUState) *Decoder {
	return &Decoder{cpu: cpu, state: StateUnsynced}
}

func (d *Decoder) Synced() bool { return d.state != StateUnsynced }

// ForceSync mirrors etm.Decoder.ForceSync for the trace package's shared
// sync controller.
func (d *Decoder) ForceSync(synced bool) bool {
	if synced {
		if d.state == StateUnsynced {
			d.state = StateIdle
			return true
		}
		return false
	}
	if d.state != StateUnsynced {
		d.state = StateUnsynced
		return true
	}
	return false
}

// PumpPair consumes one (source, dest) address pair. It reports true iff
// this pair produced a committed address (i.e. the decoder was already
// synced before this call); the first pair after UNSYNCED only seeds
// nextAddr and never emits.
func (d *Decoder) PumpPair(source, dest uint32) (emitted bool) {
	cpu := d.cpu

	switch d.state {
	case StateUnsynced:
		cpu.NextAddr = (dest &^ 1) | (source & 1)
		cpu.RaiseIf(dest&1 != 0, cpustate.ChangeTraceStart)
		d.state = StateIdle
		return false

	case StateIdle:
		cpu.RaiseIf(cpu.NextAddr&1 != 0, cpustate.ChangeExEntry)
		cpu.RaiseIf(dest&1 != 0, cpustate.ChangeTraceStart)
		cpu.Addr = cpu.NextAddr &^ 1
		cpu.NextAddr = (dest &^ 1) | (source & 1)
		cpu.ToAddr = source &^ 1
		cpu.Exception = 0
		cpu.Raise(cpustate.ChangeAddress)
		cpu.Raise(cpustate.ChangeLinear)
		return true
	}

	return false
}
