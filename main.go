// Package main provides the entry point for the pipeline simulator.
// It models a classic five-stage MIPS pipeline cycle by cycle, with hazard
// detection, stall injection, and forwarding.
//
// For the full CLI, use: go run ./cmd/pipesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("MIPS Five-Stage Pipeline Simulator")
	fmt.Println("")
	fmt.Println("Usage: pipesim [options] <program.hex>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -mode        Simulation mode: batch, realtime, or emu")
	fmt.Println("  -config      Path to configuration JSON file")
	fmt.Println("  -forwarding  Enable forwarding paths")
	fmt.Println("  -stalls      Enable hazard detection and stall injection")
	fmt.Println("  -trace       Print per-cycle stage occupancy")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/pipesim' for the full CLI, or")
	fmt.Println("'go run ./cmd/bench' for the benchmark harness.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/pipesim' instead.")
	}
}
