// Command tracedump reads a raw ETMv3.5 or MTB trace capture and prints
// each decoded CPU-state change to standard output.
//
// Grounded on cmd/trc_pkt_lister/main.go's flag-based shape (a Config
// struct filled from flags, then handed to a Run function) and
// nickjones-etm__etm_decoder.go's use of logrus as the decode loop's
// diagnostic sink.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"tracedecoder/internal/cpustate"
	"tracedecoder/internal/reportsev"
	"tracedecoder/internal/trace"
)

func main() {
	path := flag.String("file", "", "Path to the raw trace capture")
	protocol := flag.String("protocol", "etm35", "Trace protocol: etm35 or mtb")
	altAddr := flag.Bool("alt-addr", false, "ETM35: use the alternate branch-address encoding")
	contextBytes := flag.Int("context-bytes", 4, "ETM35: context ID width in bytes (0, 1, 2 or 4)")
	cycleAccurate := flag.Bool("cycle-accurate", false, "ETM35: decode cycle-accurate P-headers")
	debug := flag.Bool("debug", false, "Enable debug-level diagnostics")

	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "tracedump: missing -file")
		os.Exit(1)
	}

	log := logrus.New()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	var proto trace.Protocol
	switch *protocol {
	case "etm35":
		proto = trace.ProtocolETM35
	case "mtb":
		proto = trace.ProtocolMTB
	default:
		fmt.Fprintf(os.Stderr, "tracedump: unknown -protocol %q (want etm35 or mtb)\n", *protocol)
		os.Exit(1)
	}

	buf, err := os.ReadFile(*path)
	if err != nil {
		log.WithError(err).Fatal("reading trace capture")
	}

	d := trace.New(proto, *altAddr)
	if proto == trace.ProtocolETM35 {
		if err := d.ETMConfig().SetContextIDBytes(*contextBytes); err != nil {
			log.WithError(err).Fatal("invalid -context-bytes")
		}
		d.ETMConfig().SetCycleAccurate(*cycleAccurate)
	}

	report := func(v reportsev.Verbosity, format string, args ...any) {
		entry := log.WithField("verbosity", v.String())
		switch v {
		case reportsev.Error:
			entry.Errorf(format, args...)
		case reportsev.Warn:
			entry.Warnf(format, args...)
		case reportsev.Info:
			entry.Infof(format, args...)
		default:
			entry.Debugf(format, args...)
		}
	}

	cpu := d.CPUState()
	count := 0
	d.Pump(buf, func() {
		count++
		printChanges(d, cpu, count)
	}, report)

	log.WithFields(logrus.Fields{
		"messages":       count,
		"sync_count":     d.Stats().SyncCount,
		"lost_sync_count": d.Stats().LostSyncCount,
		"synced":         d.IsSynced(),
	}).Info("decode complete")
}

func printChanges(d *trace.Decoder, cpu *cpustate.CPUState, seq int) {
	fmt.Printf("#%d addr=0x%08x mode=%s", seq, cpu.Addr, cpu.AddrMode)
	if d.StateChanged(cpustate.ChangeException) {
		fmt.Printf(" exception=0x%x", cpu.Exception)
	}
	if d.StateChanged(cpustate.ChangeEnatoms) {
		fmt.Printf(" e_atoms=%d n_atoms=%d disp=%#b", cpu.EAtoms, cpu.NAtoms, cpu.Disposition)
	}
	if d.StateChanged(cpustate.ChangeTrigger) {
		fmt.Print(" trigger")
	}
	if d.StateChanged(cpustate.ChangeTraceStart) {
		fmt.Print(" trace_start")
	}
	if d.StateChanged(cpustate.ChangeExEntry) {
		fmt.Print(" ex_entry")
	}
	fmt.Println()
}
