// Package benchmarks provides canned pipeline programs and the harness that
// runs them for validation and configuration comparison.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	akitasim "github.com/sarchlab/akita/v4/sim"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/emu"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/clock"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/core"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/pipeline"
)

// referenceInstructionCap bounds the functional reference run so a program
// that never falls off the end cannot hang the harness.
const referenceInstructionCap = 100000

// BenchmarkResult holds the outcome of a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark exercises
	Description string `json:"description"`

	// Cycles is the total cycle count from the pipeline
	Cycles uint64 `json:"cycles"`

	// Instructions is the number of retired instructions
	Instructions uint64 `json:"instructions"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// StallCycles is the number of injected stall cycles
	StallCycles uint64 `json:"stall_cycles"`

	// Redirects is the number of taken control transfers
	Redirects uint64 `json:"redirects"`

	// Hazards is the number of instructions flagged with a hazard
	Hazards int `json:"hazards"`

	// ForwardingPaths is the number of forwarding edges in use
	ForwardingPaths int `json:"forwarding_paths"`

	// Passed reports whether the end state matched the benchmark's
	// expectations and the functional reference
	Passed bool `json:"passed"`

	// Failures lists the expectation mismatches for a failed run
	Failures []string `json:"failures,omitempty"`

	// WallTime is the host time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark exercises
	Description string

	// Program is the raw instruction words to run
	Program []uint32

	// ExpectedRegisters maps register numbers to required final values
	ExpectedRegisters map[uint8]uint32

	// ExpectedMemory maps word addresses to required final values
	ExpectedMemory map[uint32]uint32
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// ForwardingEnabled turns forwarding paths on
	ForwardingEnabled bool

	// StallsEnabled turns hazard detection and stall injection on
	StallsEnabled bool

	// MemoryWords is the data memory size for each run
	MemoryWords int

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Logger receives run diagnostics (default: slog.Default())
	Logger *slog.Logger
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		ForwardingEnabled: true,
		StallsEnabled:     true,
		MemoryWords:       core.DefaultConfig().MemoryWords,
		Output:            os.Stdout,
	}
}

// Harness runs benchmarks on the pipeline and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks in order and returns their results. The
// first harness-level error aborts the run; expectation mismatches are
// recorded per result instead.
func (h *Harness) RunAll() ([]BenchmarkResult, error) {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result, err := h.runBenchmark(bench)
		if err != nil {
			return results, fmt.Errorf("benchmark %s: %w", bench.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// runBenchmark executes a single benchmark to completion.
func (h *Harness) runBenchmark(bench Benchmark) (BenchmarkResult, error) {
	cfg := core.DefaultConfig()
	cfg.ForwardingEnabled = h.config.ForwardingEnabled
	cfg.StallsEnabled = h.config.StallsEnabled
	cfg.MemoryWords = h.config.MemoryWords

	simulator, err := core.New(cfg, core.WithLogger(h.config.Logger))
	if err != nil {
		return BenchmarkResult{}, err
	}
	simulator.Start(bench.Program)

	start := time.Now()
	runner := clock.NewRunner(simulator, 1*akitasim.GHz, h.config.Logger)
	if err := runner.Run(); err != nil {
		return BenchmarkResult{}, err
	}
	wallTime := time.Since(start)

	stats := simulator.Stats()
	hazardCount := 0
	for _, record := range simulator.Hazards() {
		if record.Kind != pipeline.HazardNone {
			hazardCount++
		}
	}

	failures := h.validate(bench, simulator)
	return BenchmarkResult{
		Name:            bench.Name,
		Description:     bench.Description,
		Cycles:          stats.Cycles,
		Instructions:    stats.Instructions,
		CPI:             stats.CPI(),
		StallCycles:     stats.StallCycles,
		Redirects:       stats.Redirects,
		Hazards:         hazardCount,
		ForwardingPaths: len(simulator.ForwardingEdges()),
		Passed:          len(failures) == 0,
		Failures:        failures,
		WallTime:        wallTime,
	}, nil
}

// validate compares the final architectural state against the benchmark's
// expectations and the functional reference emulator.
func (h *Harness) validate(bench Benchmark, simulator *core.Simulator) []string {
	var failures []string

	registers := simulator.Registers()
	for reg, want := range bench.ExpectedRegisters {
		if got := registers[reg]; got != want {
			failures = append(failures,
				fmt.Sprintf("$%d = %d, want %d", reg, got, want))
		}
	}

	memory := simulator.Memory()
	for addr, want := range bench.ExpectedMemory {
		if addr >= uint32(len(memory)) {
			failures = append(failures,
				fmt.Sprintf("mem[%d] out of range (%d words)", addr, len(memory)))
			continue
		}
		if got := memory[addr]; got != want {
			failures = append(failures,
				fmt.Sprintf("mem[%d] = %d, want %d", addr, got, want))
		}
	}

	if !h.matchesReference(bench, simulator) {
		failures = append(failures, "pipeline and functional reference disagree")
	}

	return failures
}

// matchesReference runs the program on the functional emulator and reports
// whether both models agree on the architectural end state.
func (h *Harness) matchesReference(bench Benchmark, simulator *core.Simulator) bool {
	ref := emu.NewEmulator(
		emu.WithMemorySize(h.config.MemoryWords),
		emu.WithMaxInstructions(referenceInstructionCap),
		emu.WithLogger(h.config.Logger),
	)
	ref.LoadProgram(bench.Program)
	ref.Run()

	if ref.RegFile().Snapshot() != simulator.Registers() {
		return false
	}

	refMem := ref.Memory().Snapshot()
	simMem := simulator.Memory()
	if len(refMem) != len(simMem) {
		return false
	}
	for i := range refMem {
		if refMem[i] != simMem[i] {
			return false
		}
	}
	return true
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Pipeline Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Status: %s\n", status)
		for _, failure := range r.Failures {
			_, _ = fmt.Fprintf(h.config.Output, "    %s\n", failure)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Cycles:           %d\n", r.Cycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions:     %d\n", r.Instructions)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:              %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Stall Cycles:     %d\n", r.StallCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Redirects:        %d\n", r.Redirects)
		_, _ = fmt.Fprintf(h.config.Output, "  Hazards:          %d\n", r.Hazards)
		_, _ = fmt.Fprintf(h.config.Output, "  Forwarding Paths: %d\n", r.ForwardingPaths)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,stalls,redirects,hazards,forwarding_paths,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%t\n",
			r.Name,
			r.Cycles,
			r.Instructions,
			r.CPI,
			r.StallCycles,
			r.Redirects,
			r.Hazards,
			r.ForwardingPaths,
			r.Passed,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the simulator
	Version string `json:"version"`

	// Config describes the pipeline configuration used
	Config ReportConfig `json:"config"`
}

// ReportConfig describes the pipeline configuration used for a run.
type ReportConfig struct {
	ForwardingEnabled bool `json:"forwarding_enabled"`
	StallsEnabled     bool `json:"stalls_enabled"`
	MemoryWords       int  `json:"memory_words"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Passed is the number of benchmarks whose expectations held
	Passed int `json:"passed"`

	// TotalCycles is the sum of all simulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// TotalInstructions is the sum of all retired instructions
	TotalInstructions uint64 `json:"total_instructions"`

	// AverageCPI is the average cycles per instruction
	AverageCPI float64 `json:"average_cpi"`

	// TotalWallTime is the total host time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated
// comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var totalCycles, totalInstructions uint64
	var totalWallTime time.Duration
	passed := 0
	for _, r := range results {
		totalCycles += r.Cycles
		totalInstructions += r.Instructions
		totalWallTime += r.WallTime
		if r.Passed {
			passed++
		}
	}

	avgCPI := float64(0)
	if totalInstructions > 0 {
		avgCPI = float64(totalCycles) / float64(totalInstructions)
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "0.1.0",
			Config: ReportConfig{
				ForwardingEnabled: h.config.ForwardingEnabled,
				StallsEnabled:     h.config.StallsEnabled,
				MemoryWords:       h.config.MemoryWords,
			},
		},
		Results: results,
		Summary: ReportSummary{
			TotalBenchmarks:   len(results),
			Passed:            passed,
			TotalCycles:       totalCycles,
			TotalInstructions: totalInstructions,
			AverageCPI:        avgCPI,
			TotalWallTime:     totalWallTime,
		},
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
