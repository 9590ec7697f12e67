// Package main provides the entry point for pipesim.
// Pipesim runs MIPS programs through a cycle-accurate five-stage pipeline
// with hazard detection, stall injection, and forwarding.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	akitasim "github.com/sarchlab/akita/v4/sim"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/emu"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/loader"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/clock"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/core"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/pipeline"
)

// emuInstructionCap bounds functional runs so a program that never falls
// off the end cannot hang the CLI.
const emuInstructionCap = 1000000

var (
	mode       = flag.String("mode", "batch", "Simulation mode: batch, realtime, or emu")
	configPath = flag.String("config", "", "Path to configuration JSON file")
	forwarding = flag.Bool("forwarding", true, "Enable forwarding paths")
	stalls     = flag.Bool("stalls", true, "Enable hazard detection and stall injection")
	memWords   = flag.Int("mem", 0, "Data memory size in words (0 = configured default)")
	tickHz     = flag.Int("hz", 0, "Real-time tick rate (0 = configured default)")
	trace      = flag.Bool("trace", false, "Print per-cycle stage occupancy (batch mode)")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: pipesim [options] <program.hex>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := buildConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	programPath := flag.Arg(0)
	program, err := loader.LoadFile(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}
	if len(program) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %s contains no instruction words\n", programPath)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s (%d instructions)\n", programPath, len(program))
	}

	logger := newLogger()

	switch *mode {
	case "emu":
		os.Exit(runEmulation(program, cfg, logger))
	case "realtime":
		os.Exit(runRealtime(program, cfg, logger))
	case "batch":
		os.Exit(runBatch(program, cfg, logger))
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q (want batch, realtime, or emu)\n", *mode)
		os.Exit(2)
	}
}

// buildConfig loads the configuration file if one was given and lets
// explicitly set flags override it.
func buildConfig() (*core.Config, error) {
	cfg := core.DefaultConfig()
	if *configPath != "" {
		loaded, err := core.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "forwarding":
			cfg.ForwardingEnabled = *forwarding
		case "stalls":
			cfg.StallsEnabled = *stalls
		case "mem":
			cfg.MemoryWords = *memWords
		case "hz":
			cfg.TickHz = *tickHz
		}
	})

	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runBatch runs the pipeline to completion as fast as the host allows.
func runBatch(program []uint32, cfg *core.Config, logger *slog.Logger) int {
	simulator, err := core.New(cfg, core.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	simulator.Start(program)

	if *verbose {
		fmt.Printf("Completion at cycle %d, %d stall cycles scheduled\n",
			simulator.MaxCycles(), totalStalls(simulator))
	}

	if *trace {
		printTrace(os.Stdout, simulator)
	} else {
		runner := clock.NewRunner(simulator, 1*akitasim.GHz, logger)
		if err := runner.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	printReport(os.Stdout, simulator)
	return 0
}

// runRealtime paces the pipeline against the wall clock at the configured
// tick rate.
func runRealtime(program []uint32, cfg *core.Config, logger *slog.Logger) int {
	simulator, err := core.New(cfg, core.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	simulator.Start(program)

	if *verbose {
		fmt.Printf("Ticking at %d Hz, completion at cycle %d\n",
			cfg.TickHz, simulator.MaxCycles())
	}

	driver := clock.NewDriver(simulator, cfg.TickHz, logger)
	driver.Start()
	<-driver.Done()

	printReport(os.Stdout, simulator)
	return 0
}

// runEmulation runs the program on the functional emulator, with no
// pipeline timing.
func runEmulation(program []uint32, cfg *core.Config, logger *slog.Logger) int {
	emulator := emu.NewEmulator(
		emu.WithMemorySize(cfg.MemoryWords),
		emu.WithMaxInstructions(emuInstructionCap),
		emu.WithLogger(logger),
	)
	emulator.LoadProgram(program)
	emulator.Run()

	fmt.Printf("Instructions executed: %d\n", emulator.InstructionCount())
	fmt.Println()
	printRegisters(os.Stdout, emulator.RegFile().Snapshot())
	printMemory(os.Stdout, emulator.Memory().Snapshot())
	return 0
}

// printTrace steps the simulation one cycle at a time, prints the stage
// each in-flight instruction occupies, and closes with the pipeline chart.
func printTrace(w io.Writer, simulator *core.Simulator) {
	chart := newDiagram()
	chart.observe(simulator)
	printStageRow(w, simulator)
	for simulator.Running() && !simulator.Finished() {
		simulator.Step()
		chart.observe(simulator)
		printStageRow(w, simulator)
	}
	chart.render(w)
}

func printStageRow(w io.Writer, simulator *core.Simulator) {
	text := simulator.Instructions()
	var cells []string
	for i, stage := range simulator.Stages() {
		if stage == pipeline.StageNone {
			continue
		}
		cells = append(cells, fmt.Sprintf("%s %s", stage, text[i]))
	}
	if len(cells) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "cycle %3d: %s\n", simulator.Cycle(), strings.Join(cells, " | "))
}

// printReport summarizes a finished run: counters, hazard table, forwarding
// paths, and the architectural end state.
func printReport(w io.Writer, simulator *core.Simulator) {
	stats := simulator.Stats()
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Cycles:       %d\n", stats.Cycles)
	_, _ = fmt.Fprintf(w, "Instructions: %d\n", stats.Instructions)
	_, _ = fmt.Fprintf(w, "CPI:          %.2f\n", stats.CPI())
	_, _ = fmt.Fprintf(w, "Stall Cycles: %d\n", stats.StallCycles)
	_, _ = fmt.Fprintf(w, "Redirects:    %d\n", stats.Redirects)

	text := simulator.Instructions()
	header := false
	for i, record := range simulator.Hazards() {
		if record.Kind == pipeline.HazardNone {
			continue
		}
		if !header {
			_, _ = fmt.Fprintf(w, "\nHazards:\n")
			header = true
		}
		_, _ = fmt.Fprintf(w, "  %2d  %-24s %s\n", i, text[i], record.Description)
	}

	if edges := simulator.ForwardingEdges(); len(edges) > 0 {
		_, _ = fmt.Fprintf(w, "\nForwarding paths:\n")
		for _, edge := range edges {
			_, _ = fmt.Fprintf(w, "  %s\n", edge)
		}
	}

	_, _ = fmt.Fprintln(w)
	printRegisters(w, simulator.Registers())
	printMemory(w, simulator.Memory())
}

func printRegisters(w io.Writer, regs [insts.NumRegs]uint32) {
	_, _ = fmt.Fprintln(w, "Registers (nonzero):")
	any := false
	for i, v := range regs {
		if v == 0 {
			continue
		}
		any = true
		_, _ = fmt.Fprintf(w, "  $%-2d = %-10d 0x%08X\n", i, v, v)
	}
	if !any {
		_, _ = fmt.Fprintln(w, "  (all zero)")
	}
}

func printMemory(w io.Writer, words []uint32) {
	_, _ = fmt.Fprintln(w, "Memory (nonzero):")
	any := false
	for addr, v := range words {
		if v == 0 {
			continue
		}
		any = true
		_, _ = fmt.Fprintf(w, "  [%2d] = %-10d 0x%08X\n", addr, v, v)
	}
	if !any {
		_, _ = fmt.Fprintln(w, "  (all zero)")
	}
}

// totalStalls sums the scheduled stall table for the loaded program.
func totalStalls(simulator *core.Simulator) int {
	total := 0
	for _, n := range simulator.Stalls() {
		total += n
	}
	return total
}
