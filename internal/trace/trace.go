// Package trace ties the ETM and MTB sub-decoders together behind a
// single push-driven façade (spec components E and F): it routes a raw
// buffer into whichever protocol is configured and tracks sync
// statistics independently of either sub-decoder's own bookkeeping.
//
// Grounded on traceDecoder.c's TRACEDecoderPump (protocol dispatch
// loop) and TRACEDecoderForceSync/TRACEDecoderZeroStats (the stats
// side of sync control).
package trace

import (
	"encoding/binary"

	"tracedecoder/internal/cpustate"
	"tracedecoder/internal/etm"
	"tracedecoder/internal/mtb"
	"tracedecoder/internal/reportsev"
)

// Protocol selects which sub-decoder Pump drives.
type Protocol int

const (
	ProtocolETM35 Protocol = iota
	ProtocolMTB
)

func (p Protocol) String() string {
	switch p {
	case ProtocolETM35:
		return "ETM35"
	case ProtocolMTB:
		return "MTB"
	default:
		return "UNKNOWN"
	}
}

// Stats accumulates sync-transition counters across the decoder's
// lifetime, reset only by ZeroStats.
type Stats struct {
	SyncCount     uint64
	LostSyncCount uint64
}

// Decoder is the public entry point: one instance per trace source, one
// CPUState, one active protocol sub-decoder.
type Decoder struct {
	cpu      *cpustate.CPUState
	protocol Protocol
	etmDec   *etm.Decoder
	mtbDec   *mtb.Decoder
	stats    Stats
}

// New constructs a decoder with a zeroed CPUState and the given
// protocol/alt-addr-encode configuration (the "init" control-surface
// operation). Both sub-decoders are always constructed; only the
// configured one is ever driven by Pump.
func New(protocol Protocol, usingAltAddrEncode bool) *Decoder {
	cpu := &cpustate.CPUState{}
	d := &Decoder{
		cpu:    cpu,
		etmDec: etm.New(cpu),
		mtbDec: mtb.New(cpu),
	}
	d.etmDec.Config().SetAltAddrEncode(usingAltAddrEncode)
	d.SetProtocol(protocol)
	return d
}

// SetProtocol validates and stores the active protocol. An unsupported
// value is a programming error and traps, matching the source's
// assert(false) in the equivalent switch default.
func (d *Decoder) SetProtocol(p Protocol) {
	switch p {
	case ProtocolETM35, ProtocolMTB:
		d.protocol = p
	default:
		panic("trace: unsupported protocol value")
	}
}

func (d *Decoder) Protocol() Protocol { return d.protocol }

// ETMConfig exposes the ETM sub-decoder's configuration (context-ID
// width, alt-addr-encode, cycle-accurate, data-only-mode) for callers
// running the ETM35 protocol.
func (d *Decoder) ETMConfig() *etm.Config { return d.etmDec.Config() }

func (d *Decoder) ZeroStats() { d.stats = Stats{} }

func (d *Decoder) Stats() Stats { return d.stats }

func (d *Decoder) CPUState() *cpustate.CPUState { return d.cpu }

// StateChanged is the component G accessor: atomic test-and-clear for
// one change kind.
func (d *Decoder) StateChanged(kind cpustate.ChangeKind) bool {
	return d.cpu.TakeChange(kind)
}

func (d *Decoder) IsSynced() bool {
	switch d.protocol {
	case ProtocolETM35:
		return d.etmDec.Synced()
	case ProtocolMTB:
		return d.mtbDec.Synced()
	default:
		panic("trace: unsupported protocol value")
	}
}

// ForceSync drives the active sub-decoder's sync state directly and
// accounts the transition in Stats (spec §4.F).
func (d *Decoder) ForceSync(synced bool) {
	var changed bool
	switch d.protocol {
	case ProtocolETM35:
		changed = d.etmDec.ForceSync(synced)
	case ProtocolMTB:
		changed = d.mtbDec.ForceSync(synced)
	default:
		panic("trace: unsupported protocol value")
	}
	if !changed {
		return
	}
	if synced {
		d.stats.SyncCount++
	} else {
		d.stats.LostSyncCount++
	}
}

// Pump is the component E façade: for ETM35 it consumes buf one octet
// at a time; for MTB it consumes 8-byte little-endian (source, dest)
// pairs while len(buf) > 7, matching TRACEDecoderPump's "len can arrive
// unaligned" tolerance (any trailing 1-7 bytes are simply left unread).
// cb fires at most once per consumed unit.
func (d *Decoder) Pump(buf []byte, cb func(), report reportsev.ReportFunc) {
	switch d.protocol {
	case ProtocolETM35:
		for _, b := range buf {
			d.etmDec.PumpByte(b, cb, report)
		}
	case ProtocolMTB:
		for len(buf) > 7 {
			source := binary.LittleEndian.Uint32(buf[0:4])
			dest := binary.LittleEndian.Uint32(buf[4:8])
			reportsev.Report(report, reportsev.Error, "[From 0x%08x to 0x%08x]", source, dest)
			if d.mtbDec.PumpPair(source, dest) {
				cb()
			}
			buf = buf[8:]
		}
	default:
		panic("trace: unsupported protocol value")
	}
}
