// Package etm implements the ETMv3.5 instruction-trace packet decoder
// (ARMv7-M Architecture Reference Manual Appendix D4): a byte-at-a-time,
// self-synchronizing state machine that turns a raw trace byte stream
// into CPUState updates.
//
// Grounded on internal/etmv3/processor.go's processHeaderByte/
// processPayloadByte dispatch shape and, for exact bit-level semantics,
// on traceDecoder.c's _ETM35DecoderPumpAction.
package etm

import (
	"fmt"

	"tracedecoder/internal/cpustate"
	"tracedecoder/internal/reportsev"
)

// protoState is the ETMv3.5 packet-level state.
type protoState int

const (
	StateUnsynced protoState = iota
	StateIdle
	StateCollectBAStdFormat
	StateCollectBAAltFormat
	StateCollectException
	StateGetVMID
	StateGetTstamp
	StateGetCycleCount
	StateGetContextID
	StateWaitISync
	StateGetContextByte
	StateGetInfoByte
	StateGetIAddress
	StateGetICycleCount
)

func (s protoState) String() string {
	names := [...]string{
		"UNSYNCED", "IDLE", "COLLECT_BA_STD_FORMAT", "COLLECT_BA_ALT_FORMAT",
		"COLLECT_EXCEPTION", "GET_VMID", "GET_TSTAMP", "GET_CYCLECOUNT",
		"GET_CONTEXTID", "WAIT_ISYNC", "GET_CONTEXTBYTE", "GET_INFOBYTE",
		"GET_IADDRESS", "GET_ICYCLECOUNT",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "UNKNOWN"
}

// Decoder is the ETMv3.5 per-stream decoder context (spec §3, component
// B) plus the packet-level state machine (component C). It mutates a
// caller-owned CPUState in place and never allocates once constructed.
type Decoder struct {
	cfg Config
	cpu *cpustate.CPUState

	state protoState

	asyncCount int // consecutive zero bytes seen, for A-Sync detection
	rxedISYNC  bool

	addrConstruct    uint32
	tsConstruct      uint64
	cycleConstruct   uint32
	contextConstruct uint32
	byteCount        int
}

// New creates an ETMv3.5 decoder bound to cpu. cpu must outlive the
// returned Decoder; every packet mutates it directly.
func New(cpu *cpustate.CPUState) *Decoder {
	return &Decoder{cpu: cpu, state: StateUnsynced}
}

func (d *Decoder) Config() *Config { return &d.cfg }

// Synced reports whether the decoder has left the UNSYNCED state.
func (d *Decoder) Synced() bool { return d.state != StateUnsynced }

// ForceSync drives the decoder's sync state directly (spec §4.F). It
// reports whether a transition actually occurred, so the caller (the
// trace package's sync controller) can account sync/lost-sync stats.
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
		d.asyncCount = 0
		d.rxedISYNC = false
		return true
	}
	return false
}

// PumpByte consumes one byte of the trace stream, updating the bound
// CPUState and the decoder's own accumulators. cb is invoked
// synchronously, before PumpByte returns, iff this byte completed a
// packet AND at least one I-Sync has already been received (spec
// Invariant 2: no message before the first I-Sync).
func (d *Decoder) PumpByte(c byte, cb func(), report reportsev.ReportFunc) {
	oldState := d.state
	newState := d.state
	emit := false

	if d.asyncCount >= 5 && c == 0x80 {
		reportsev.Report(report, reportsev.Debug, "A-Sync resync complete")
		newState = StateIdle
	} else {
		if c == 0 {
			d.asyncCount++
		} else {
			d.asyncCount = 0
		}

		switch d.state {
		case StateUnsynced:
			// accumulator not trusted; wait for A-Sync above.
		case StateIdle:
			newState, emit = d.dispatchIdle(c, report)
		case StateCollectBAAltFormat:
			newState, emit = d.collectBAAlt(c, report)
		case StateCollectBAStdFormat:
			newState, emit = d.collectBAStd(c, report)
		case StateCollectException:
			newState, emit = d.collectException(c, report)
		case StateGetVMID:
			newState, emit = d.getVMID(c)
		case StateGetTstamp:
			newState, emit = d.getTstamp(c)
		case StateGetCycleCount:
			newState, emit = d.getCycleCount(c)
		case StateGetContextID:
			newState, emit = d.getContextID(c)
		case StateWaitISync:
			newState, emit = d.waitISync(c)
		case StateGetContextByte:
			newState, emit = d.getContextByte(c)
		case StateGetInfoByte:
			newState, emit = d.getInfoByte(c, report)
		case StateGetIAddress:
			newState, emit = d.getIAddress(c, report)
		case StateGetICycleCount:
			newState, emit = d.getICycleCount(c)
		}
	}

	d.state = newState
	if report != nil {
		reportsev.Report(report, reportsev.Debug, "0x%02x: %s -> %s (emit=%v)", c, oldState, newState, emit)
	}
	if emit && d.rxedISYNC {
		cb()
	}
}

func (d *Decoder) dispatchIdle(c byte, report reportsev.ReportFunc) (protoState, bool) {
	cpu := d.cpu

	if c&0x01 == 0x01 {
		// Only the mask's bits are cleared, matching the original's
		// deliberately partial clear: any stale high bits left over
		// from a previous address construction survive into this one
		// until a later byte in the same packet overwrites them.
		switch cpu.AddrMode {
		case cpustate.AddrModeARM:
			d.addrConstruct = (d.addrConstruct &^ 0xFC) | (uint32(c&0x7E) << 1)
		case cpustate.AddrModeThumb:
			d.addrConstruct = (d.addrConstruct &^ 0x7F) | uint32(c&0x7E)
		case cpustate.AddrModeJazelle:
			d.addrConstruct = (d.addrConstruct &^ 0x3F) | (uint32(c&0x7E) >> 1)
		}
		d.byteCount = 1
		C := c&0x80 != 0
		cpu.Raise(cpustate.ChangeAddress)
		next := StateCollectBAStdFormat
		if d.cfg.usingAltAddrEncode {
			next = StateCollectBAAltFormat
		}
		return d.terminateAddrByte(c, C, false, next, report)
	}

	switch c {
	case 0x00:
		return StateIdle, false
	case 0x04:
		reportsev.Report(report, reportsev.Debug, "CYCLECOUNT")
		d.byteCount = 0
		d.cycleConstruct = 0
		return StateGetCycleCount, false
	case 0x08:
		reportsev.Report(report, reportsev.Debug, "ISYNC")
		d.byteCount = 0
		d.contextConstruct = 0
		if !d.rxedISYNC {
			reportsev.Report(report, reportsev.Debug, "initial ISYNC")
			cpu.ClearChanges()
			d.rxedISYNC = true
		}
		if d.cfg.contextBytes > 0 {
			return StateGetContextByte, false
		}
		return StateGetInfoByte, false
	case 0x0C:
		reportsev.Report(report, reportsev.Debug, "TRIGGER")
		cpu.Raise(cpustate.ChangeTrigger)
		return StateIdle, true
	case 0x3C:
		reportsev.Report(report, reportsev.Debug, "VMID")
		return StateGetVMID, false
	case 0x66:
		return StateIdle, false // ignore packet
	case 0x6E:
		reportsev.Report(report, reportsev.Debug, "CONTEXTID")
		cpu.ContextID = 0
		d.byteCount = 0
		return StateGetContextID, false
	case 0x70:
		reportsev.Report(report, reportsev.Debug, "ISYNC+CYCLECOUNT")
		d.byteCount = 0
		d.cycleConstruct = 0
		return StateGetICycleCount, false
	case 0x76:
		reportsev.Report(report, reportsev.Debug, "EXCEPTION-EXIT")
		cpu.Raise(cpustate.ChangeExExit)
		return StateIdle, true
	case 0x7E:
		reportsev.Report(report, reportsev.Debug, "EXCEPTION-ENTRY")
		cpu.Raise(cpustate.ChangeExEntry)
		return StateIdle, true
	}

	if c&0xFB == 0x42 {
		reportsev.Report(report, reportsev.Debug, "TIMESTAMP")
		d.byteCount = 0
		cpu.RaiseIf(c&0x04 != 0, cpustate.ChangeClockSpeed)
		return StateGetTstamp, false
	}

	if c&0x81 == 0x80 {
		return d.dispatchPHdr(c, report)
	}

	return StateIdle, false
}

// terminateAddrByte implements the shared tail of a branch-address byte
// (traceDecoder.c's terminateAddrByte label): decide whether the packet
// is complete, whether it carries a legacy 5-byte ARM exception suffix,
// or whether it continues into an exception-entry sub-packet.
func (d *Decoder) terminateAddrByte(c byte, C, X bool, sameState protoState, report reportsev.ReportFunc) (protoState, bool) {
	cpu := d.cpu
	if !C || d.byteCount == 5 {
		cpu.Addr = d.addrConstruct
		if d.byteCount == 5 && cpu.AddrMode == cpustate.AddrModeARM && C {
			cpu.Exception = uint16((c >> 4) & 0x07)
			cpu.Raise(cpustate.ChangeException)
			cpu.RaiseIf(c&0x40 != 0, cpustate.ChangeCancelled)
			reportsev.Report(report, reportsev.Debug, "branch to 0x%08x (exception %d)", cpu.Addr, cpu.Exception)
			return StateIdle, true
		}
		if !C && !X {
			reportsev.Report(report, reportsev.Debug, "branch to 0x%08x", cpu.Addr)
			return StateIdle, true
		}
		d.byteCount = 0
		cpu.Resume = 0
		cpu.Raise(cpustate.ChangeExEntry)
		return StateCollectException, false
	}
	return sameState, false
}

func ofsFor(mode cpustate.AddrMode) int {
	switch mode {
	case cpustate.AddrModeARM:
		return 1
	case cpustate.AddrModeThumb:
		return 0
	default:
		return -1 // Jazelle
	}
}

func (d *Decoder) collectBAAlt(c byte, report reportsev.ReportFunc) (protoState, bool) {
	C := c&0x80 != 0
	var mask uint32 = 0x3F
	if C {
		mask = 0x7F
	}
	shift := uint(7*d.byteCount + ofsFor(d.cpu.AddrMode))
	d.addrConstruct = (d.addrConstruct &^ (mask << shift)) | ((uint32(c) & mask) << shift)
	X := !C && c&0x40 != 0
	d.byteCount++
	return d.terminateAddrByte(c, C, X, StateCollectBAAltFormat, report)
}

func (d *Decoder) collectBAStd(c byte, report reportsev.ReportFunc) (protoState, bool) {
	shift := uint(7*d.byteCount + ofsFor(d.cpu.AddrMode))
	d.addrConstruct = (d.addrConstruct &^ (0x7F << shift)) | ((uint32(c) & 0x7F) << shift)
	d.byteCount++
	var C bool
	if d.byteCount < 5 {
		C = c&0x80 != 0
	} else {
		C = c&0x40 != 0
	}
	X := d.byteCount == 5 && C
	return d.terminateAddrByte(c, C, X, StateCollectBAStdFormat, report)
}

func (d *Decoder) collectException(c byte, report reportsev.ReportFunc) (protoState, bool) {
	cpu := d.cpu
	if d.byteCount == 0 {
		cpustate.UpdateField(cpu, &cpu.NonSecure, c&0x01 != 0, cpustate.ChangeSecure)
		cpu.Exception = uint16((c >> 1) & 0x0F)
		cpu.RaiseIf(c&0x20 != 0, cpustate.ChangeCancelled)
		cpustate.UpdateField(cpu, &cpu.AltISA, c&0x40 != 0, cpustate.ChangeAltISA)
		if c&0x80 != 0 {
			d.byteCount++
			return StateCollectException, false
		}
		reportsev.Report(report, reportsev.Error, "exception jump (%d) to 0x%08x", cpu.Exception, cpu.Addr)
		return StateIdle, true
	}

	if c&0x80 != 0 {
		cpu.Exception |= uint16(c&0x1F) << 4
		cpustate.UpdateField(cpu, &cpu.Hyp, c&0x20 != 0, cpustate.ChangeHyp)
		if c&0x40 == 0 {
			reportsev.Report(report, reportsev.Error, "exception jump (%d) to 0x%08x", cpu.Exception, cpu.Addr)
			return StateIdle, true
		}
		return StateCollectException, false
	}

	cpu.Resume = c & 0x0F
	cpu.RaiseIf(cpu.Resume != 0, cpustate.ChangeResume)
	reportsev.Report(report, reportsev.Error, "exception jump (%d) to 0x%08x, resume %d", cpu.Exception, cpu.Addr, cpu.Resume)
	return StateIdle, true
}

func (d *Decoder) getVMID(c byte) (protoState, bool) {
	cpustate.UpdateField(d.cpu, &d.cpu.VMID, c, cpustate.ChangeVMID)
	return StateIdle, true
}

// getTstamp reproduces traceDecoder.c's timestamp accumulation exactly,
// including its byte-offset (not bit-offset) shift for bytes 0-7 --
// see SPEC_FULL.md §7 open question 1.
func (d *Decoder) getTstamp(c byte) (protoState, bool) {
	if d.byteCount < 8 {
		shift := uint(d.byteCount)
		d.tsConstruct = (d.tsConstruct &^ (0x7F << shift)) | (uint64(c&0x7F) << shift)
	} else {
		shift := uint(d.byteCount)
		d.tsConstruct = (d.tsConstruct &^ (0xFF << shift)) | (uint64(c) << shift)
	}
	d.byteCount++
	if c&0x80 == 0 || d.byteCount == 9 {
		d.cpu.TS = d.tsConstruct
		d.cpu.Raise(cpustate.ChangeTstamp)
		return StateIdle, true
	}
	return StateGetTstamp, false
}

func (d *Decoder) getCycleCount(c byte) (protoState, bool) {
	shift := uint(7 * d.byteCount)
	d.cycleConstruct = (d.cycleConstruct &^ (0x7F << shift)) | (uint32(c&0x7F) << shift)
	d.byteCount++
	if c&0x80 == 0 || d.byteCount == 5 {
		d.cpu.CycleCount = d.cycleConstruct
		d.cpu.Raise(cpustate.ChangeCycleCount)
		return StateIdle, true
	}
	return StateGetCycleCount, false
}

func (d *Decoder) getContextID(c byte) (protoState, bool) {
	d.contextConstruct += uint32(c) << uint(8*d.byteCount)
	d.byteCount++
	if d.byteCount == d.cfg.contextBytes {
		cpustate.UpdateField(d.cpu, &d.cpu.ContextID, d.contextConstruct, cpustate.ChangeContextID)
		return StateIdle, true
	}
	return StateGetContextID, false
}

// waitISync mirrors traceDecoder.c's TRACE_WAIT_ISYNC case. No dispatch
// path in this decoder ever transitions into this state -- the IDLE
// handler goes straight to GET_CONTEXTBYTE/GET_INFOBYTE on 0x08 -- so it
// is dead in practice, kept only because the original carries it too.
func (d *Decoder) waitISync(c byte) (protoState, bool) {
	if c == 0x08 {
		d.rxedISYNC = true
		d.byteCount = d.cfg.contextBytes
		d.contextConstruct = 0
		if d.cfg.contextBytes > 0 {
			return StateGetContextByte, false
		}
		return StateGetInfoByte, false
	}
	return StateWaitISync, false
}

func (d *Decoder) getContextByte(c byte) (protoState, bool) {
	d.contextConstruct += uint32(c) << uint(8*d.byteCount)
	d.byteCount++
	if d.byteCount == d.cfg.contextBytes {
		cpustate.UpdateField(d.cpu, &d.cpu.ContextID, d.contextConstruct, cpustate.ChangeContextID)
		return StateGetInfoByte, false
	}
	return StateGetContextByte, false
}

// getInfoByte decodes the I-Sync info byte using the corrected 8-bit
// masks -- see SPEC_FULL.md §7 open question 2.
func (d *Decoder) getInfoByte(c byte, report reportsev.ReportFunc) (protoState, bool) {
	cpu := d.cpu
	cpustate.UpdateField(cpu, &cpu.IsLSiP, c&0x80 != 0, cpustate.ChangeISLsiP)
	cpustate.UpdateField(cpu, &cpu.Reason, cpustate.ISyncReason((c&0x60)>>5), cpustate.ChangeReason)
	cpustate.UpdateField(cpu, &cpu.Jazelle, c&0x10 != 0, cpustate.ChangeJazelle)
	cpustate.UpdateField(cpu, &cpu.NonSecure, c&0x08 != 0, cpustate.ChangeSecure)
	cpustate.UpdateField(cpu, &cpu.AltISA, c&0x04 != 0, cpustate.ChangeAltISA)
	cpustate.UpdateField(cpu, &cpu.Hyp, c&0x02 != 0, cpustate.ChangeHyp)
	d.byteCount = 0
	if d.cfg.dataOnlyMode {
		reportsev.Report(report, reportsev.Error, "ISYNC in dataOnlyMode")
		return StateIdle, true
	}
	return StateGetIAddress, false
}

// getIAddress decodes the 4-byte I-Sync address. Outside Jazelle state,
// bit 0 of the assembled address sets cpu.Thumb and selects THUMB vs ARM;
// THUMB is raised only when cpu.Thumb changes -- see SPEC_FULL.md §7
// open question 3.
func (d *Decoder) getIAddress(c byte, report reportsev.ReportFunc) (protoState, bool) {
	cpu := d.cpu
	shift := uint(8 * d.byteCount)
	d.addrConstruct = (d.addrConstruct &^ (0xFF << shift)) | (uint32(c) << shift)
	d.byteCount++
	if d.byteCount != 4 {
		return StateGetIAddress, false
	}

	cpu.Raise(cpustate.ChangeAddress)
	if cpu.Jazelle {
		cpu.AddrMode = cpustate.AddrModeJazelle
		cpu.Addr = d.addrConstruct
	} else {
		bit0 := d.addrConstruct&1 != 0
		if bit0 != cpu.Thumb {
			cpu.Thumb = bit0
			cpu.Raise(cpustate.ChangeThumb)
		}
		if d.addrConstruct&1 != 0 {
			cpu.AddrMode = cpustate.AddrModeThumb
			d.addrConstruct &^= 1
			cpu.Addr = d.addrConstruct
		} else {
			cpu.AddrMode = cpustate.AddrModeARM
			cpu.Addr = d.addrConstruct &^ 0x3
		}
	}

	if cpu.IsLSiP {
		// Resumes directly into branch-address collection without
		// resetting byteCount/addrConstruct: the LSiP suffix is a
		// continuation of this same construction, not a fresh packet.
		if d.cfg.usingAltAddrEncode {
			return StateCollectBAAltFormat, false
		}
		return StateCollectBAStdFormat, false
	}

	reportsev.Report(report, reportsev.Error, "ISYNC with IADDRESS 0x%08x", cpu.Addr)
	return StateIdle, true
}

func (d *Decoder) getICycleCount(c byte) (protoState, bool) {
	shift := uint(7 * d.byteCount)
	d.cycleConstruct = (d.cycleConstruct &^ (0x7F << shift)) | (uint32(c&0x7F) << shift)
	d.byteCount++
	if c&0x80 == 0 || d.byteCount == 5 {
		cpu := d.cpu
		cpu.CycleCount = d.cycleConstruct
		cpu.Raise(cpustate.ChangeCycleCount)
		d.byteCount = d.cfg.contextBytes
		d.contextConstruct = 0
		if d.cfg.contextBytes > 0 {
			return StateGetContextByte, false
		}
		return StateGetInfoByte, false
	}
	return StateGetICycleCount, false
}

// dispatchPHdr decodes a P-header byte (already known to match
// 0b1xxxxxx0) into atom counts and a disposition bitmap, in either the
// non-cycle-accurate (Format 1/2) or cycle-accurate (Format 0-4) grammar.
func (d *Decoder) dispatchPHdr(c byte, report reportsev.ReportFunc) (protoState, bool) {
	cpu := d.cpu

	if !d.cfg.cycleAccurate {
		if c&0x83 == 0x80 {
			cpu.EAtoms = int((c & 0x3C) >> 2)
			if c&0x40 != 0 {
				cpu.NAtoms = 1
			} else {
				cpu.NAtoms = 0
			}
			cpu.InstCount += uint64(cpu.EAtoms + cpu.NAtoms)
			cpu.Disposition = (uint32(1) << uint(cpu.EAtoms)) - 1
			cpu.Raise(cpustate.ChangeEnatoms)
			reportsev.Report(report, reportsev.Debug, "PHDR FMT1 E=%d N=%d", cpu.EAtoms, cpu.NAtoms)
			return StateIdle, true
		}
		if c&0xF3 == 0x82 {
			e := 0
			if c&0x04 == 0 {
				e++
			}
			if c&0x08 == 0 {
				e++
			}
			cpu.EAtoms = e
			cpu.NAtoms = 2 - e
			var d0, d1 uint32
			if c&0x08 == 0 {
				d0 = 1
			}
			if c&0x04 == 0 {
				d1 = 1
			}
			cpu.Disposition = d0 | (d1 << 1)
			cpu.InstCount += uint64(cpu.EAtoms + cpu.NAtoms)
			cpu.Raise(cpustate.ChangeEnatoms)
			reportsev.Report(report, reportsev.Debug, "PHDR FMT2 E=%d N=%d", cpu.EAtoms, cpu.NAtoms)
			return StateIdle, true
		}
		reportsev.Report(report, reportsev.Error, "%s",
			reportsev.New(reportsev.CodeInvalidPacketHeader, fmt.Sprintf("unprocessed P-header (0x%02X)", c)).Error())
		return StateIdle, false
	}

	switch {
	case c == 0x80:
		cpu.WAtoms = 1
		cpu.EAtoms, cpu.NAtoms = 0, 0
		cpu.InstCount++
		cpu.Raise(cpustate.ChangeEnatoms)
		cpu.Raise(cpustate.ChangeWatoms)
		reportsev.Report(report, reportsev.Debug, "CA PHDR FMT0 W=1")
		return StateIdle, true
	case c&0xA3 == 0x80:
		cpu.EAtoms = int((c & 0x1C) >> 2)
		if c&0x40 != 0 {
			cpu.NAtoms = 1
		} else {
			cpu.NAtoms = 0
		}
		cpu.WAtoms = cpu.EAtoms + cpu.NAtoms
		cpu.InstCount += uint64(cpu.WAtoms)
		cpu.Disposition = (uint32(1) << uint(cpu.EAtoms)) - 1
		cpu.Raise(cpustate.ChangeEnatoms)
		cpu.Raise(cpustate.ChangeWatoms)
		reportsev.Report(report, reportsev.Debug, "CA PHDR FMT1 E=%d N=%d W=%d", cpu.EAtoms, cpu.NAtoms, cpu.WAtoms)
		return StateIdle, true
	case c&0xF3 == 0x82:
		e := 0
		if c&0x04 != 0 {
			e++
		}
		if c&0x08 != 0 {
			e++
		}
		cpu.EAtoms = e
		cpu.NAtoms = 2 - e
		cpu.WAtoms = 1
		cpu.InstCount += uint64(cpu.WAtoms)
		var d0, d1 uint32
		if c&0x08 != 0 {
			d0 = 1
		}
		if c&0x04 != 0 {
			d1 = 1
		}
		cpu.Disposition = d0 | d1
		cpu.Raise(cpustate.ChangeEnatoms)
		cpu.Raise(cpustate.ChangeWatoms)
		reportsev.Report(report, reportsev.Debug, "CA PHDR FMT2 E=%d N=%d W=%d", cpu.EAtoms, cpu.NAtoms, cpu.WAtoms)
		return StateIdle, true
	case c&0xA0 == 0xA0:
		if c&0x40 != 0 {
			cpu.EAtoms = 1
		} else {
			cpu.EAtoms = 0
		}
		cpu.NAtoms = 0
		cpu.WAtoms = int((c & 0x1C) >> 2)
		cpu.InstCount += uint64(cpu.WAtoms)
		cpu.Disposition = uint32(cpu.EAtoms)
		cpu.Raise(cpustate.ChangeEnatoms)
		cpu.Raise(cpustate.ChangeWatoms)
		reportsev.Report(report, reportsev.Debug, "CA PHDR FMT3 E=%d N=%d W=%d", cpu.EAtoms, cpu.NAtoms, cpu.WAtoms)
		return StateIdle, true
	case c&0xFB == 0x92:
		if c&0x04 != 0 {
			cpu.EAtoms, cpu.NAtoms = 1, 0
		} else {
			cpu.EAtoms, cpu.NAtoms = 0, 1
		}
		cpu.WAtoms = 0
		cpu.Disposition = uint32(cpu.EAtoms)
		cpu.Raise(cpustate.ChangeEnatoms)
		cpu.Raise(cpustate.ChangeWatoms)
		reportsev.Report(report, reportsev.Debug, "CA PHDR FMT4 E=%d N=%d W=%d", cpu.EAtoms, cpu.NAtoms, cpu.WAtoms)
		return StateIdle, true
	}

	reportsev.Report(report, reportsev.Error, "%s",
		reportsev.New(reportsev.CodeInvalidPacketHeader, fmt.Sprintf("unprocessed cycle-accurate P-header (0x%02X)", c)).Error())
	return StateIdle, false
}
