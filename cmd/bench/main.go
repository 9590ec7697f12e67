// Command bench runs the pipeline benchmark harness.
//
// Usage:
//
//	go run ./cmd/bench [flags]
//
// Flags:
//
//	-csv            Output results in CSV format (default: human-readable)
//	-json           Output a full report in JSON format
//	-quick          Run only the three-program validation set
//	-no-forwarding  Disable forwarding paths
//	-no-stalls      Disable hazard detection and stall injection
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/bench
//
//	# Compare the cost of running without forwarding
//	go run ./cmd/bench -csv > forwarded.csv
//	go run ./cmd/bench -csv -no-forwarding > stalled.csv
//
// Every benchmark carries its expected architectural end state, and each
// run is cross-checked against the functional emulator, so the harness
// doubles as a correctness gate for the timing model.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/benchmarks"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output a full report in JSON format")
	quick := flag.Bool("quick", false, "Run only the three-program validation set")
	noForwarding := flag.Bool("no-forwarding", false, "Disable forwarding paths")
	noStalls := flag.Bool("no-stalls", false, "Disable hazard detection and stall injection")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.ForwardingEnabled = !*noForwarding
	config.StallsEnabled = !*noStalls
	config.Output = os.Stdout

	harness := benchmarks.NewHarness(config)
	if *quick {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("Pipeline Benchmark Harness")
		fmt.Println("==========================")
		fmt.Printf("Forwarding: %v\n", config.ForwardingEnabled)
		fmt.Printf("Stalls:     %v\n", config.StallsEnabled)
		fmt.Println("")
	}

	results, err := harness.RunAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)

		fmt.Println("=== Summary ===")
		fmt.Println("")
		fmt.Println("Expected characteristics:")
		fmt.Println("- arithmetic_independent: No hazards, CPI approaches 1 as the program grows")
		fmt.Println("- dependency_chain: Back-to-back RAW hazards, covered by EX->EX forwarding")
		fmt.Println("- load_use_chain: Load-use hazard, covered by MEM->EX forwarding")
		fmt.Println("- store_load_sweep: Memory traffic with store-to-load round trips")
		fmt.Println("- countdown_loop: Taken branches, fetch redirects dominate")
		fmt.Println("- branch_skip: One taken branch, one squashed instruction")
		fmt.Println("- mixed_pipeline: A little of everything")
		fmt.Println("")
		fmt.Println("Rerun with -no-forwarding or -no-stalls to see each mechanism's")
		fmt.Println("contribution to the cycle counts.")
	}

	for _, result := range results {
		if !result.Passed {
			os.Exit(1)
		}
	}
}
