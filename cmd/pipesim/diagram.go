package main

import (
	"fmt"
	"io"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/core"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/pipeline"
)

// diagram accumulates stage occupancy cycle by cycle and renders the
// classic pipeline chart: one row per fetched instruction instance, one
// column per cycle. A held cycle renders as "**". A fetch redirect starts
// fresh rows for the surviving instructions, so squashed instructions keep
// their partial rows and refetched ones appear again further down.
type diagram struct {
	labels     []string
	cells      []map[int]string
	lastStage  []pipeline.Stage
	rowOf      []int
	lastOffset int
	maxCycle   int
}

func newDiagram() *diagram {
	return &diagram{lastOffset: -1}
}

// observe records the stage every in-flight instruction occupies on the
// simulator's current cycle. Call it once per cycle, including cycle 1.
func (d *diagram) observe(simulator *core.Simulator) {
	snap := simulator.Snapshot()
	if snap == nil || snap.Finished {
		return
	}

	if snap.WindowOffset != d.lastOffset || len(snap.Text) != len(d.rowOf) {
		d.lastOffset = snap.WindowOffset
		d.rowOf = make([]int, len(snap.Text))
		for k := range d.rowOf {
			d.rowOf[k] = -1
		}
	}

	for k, stage := range snap.Stages {
		if stage == pipeline.StageNone {
			continue
		}
		row := d.rowOf[k]
		if row < 0 {
			row = len(d.labels)
			d.rowOf[k] = row
			d.labels = append(d.labels, snap.Text[k])
			d.cells = append(d.cells, make(map[int]string))
			d.lastStage = append(d.lastStage, pipeline.StageNone)
		}

		cell := stage.String()
		if stage == d.lastStage[row] {
			cell = "**"
		}
		d.cells[row][snap.Cycle] = cell
		d.lastStage[row] = stage

		if snap.Cycle > d.maxCycle {
			d.maxCycle = snap.Cycle
		}
	}
}

// render writes the chart. Rows appear in fetch order.
func (d *diagram) render(w io.Writer) {
	if len(d.labels) == 0 {
		return
	}

	width := 0
	for _, label := range d.labels {
		if len(label) > width {
			width = len(label)
		}
	}

	_, _ = fmt.Fprintf(w, "\nPipeline diagram:\n")
	_, _ = fmt.Fprintf(w, "  %-*s", width, "")
	for c := 1; c <= d.maxCycle; c++ {
		_, _ = fmt.Fprintf(w, "  %-4s", fmt.Sprintf("C%d", c))
	}
	_, _ = fmt.Fprintln(w)

	for row, label := range d.labels {
		_, _ = fmt.Fprintf(w, "  %-*s", width, label)
		for c := 1; c <= d.maxCycle; c++ {
			_, _ = fmt.Fprintf(w, "  %-4s", d.cells[row][c])
		}
		_, _ = fmt.Fprintln(w)
	}
}
