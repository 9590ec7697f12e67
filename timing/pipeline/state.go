package pipeline

import (
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/emu"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
)

// Stage identifies one of the five pipeline stages. StageNone marks an
// instruction that is not in the pipeline this cycle.
type Stage int

const (
	// StageNone means the instruction has not entered the pipeline yet or
	// has already retired.
	StageNone Stage = iota - 1
	// StageIF is instruction fetch.
	StageIF
	// StageID is instruction decode.
	StageID
	// StageEX is execute.
	StageEX
	// StageMEM is memory access.
	StageMEM
	// StageWB is write-back.
	StageWB
)

// NumStages is the pipeline depth.
const NumStages = 5

// String returns the conventional stage abbreviation.
func (s Stage) String() string {
	switch s {
	case StageIF:
		return "IF"
	case StageID:
		return "ID"
	case StageEX:
		return "EX"
	case StageMEM:
		return "MEM"
	case StageWB:
		return "WB"
	default:
		return "--"
	}
}

// Statistics holds pipeline performance counters.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// StallCycles is the number of cycles spent in injected stalls.
	StallCycles uint64
	// Redirects is the number of taken branches and jumps that redirected
	// fetch.
	Redirects uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// State is one immutable pipeline snapshot. The scheduler's Step never
// mutates a State in place; it clones, advances the clone by one cycle, and
// returns it. Everything a renderer or a test needs to observe lives here.
//
// Instructions, Text, Hazards, Edges, and Stalls describe the active fetch
// window. A taken branch or jump reshapes the window (truncating the slices
// and rebasing the counters below); it never reruns hazard analysis.
type State struct {
	// Instructions is the decoded active window.
	Instructions []*insts.Instruction
	// Text is the disassembled form of each window instruction.
	Text []string

	// Cycle is the current cycle number, starting at 1.
	Cycle int
	// MaxCycles is the cycle on which the last instruction leaves
	// write-back. The simulation is finished once Cycle exceeds it.
	MaxCycles int

	// WindowOffset is the cycle count already consumed when the active
	// window was installed. Zero for the initial window.
	WindowOffset int
	// PC is the absolute index of the first window instruction in the
	// originally loaded program.
	PC uint32

	// Stages holds each window instruction's current stage.
	Stages []Stage

	// Hazards, Edges, and Stalls are the dependency tables, reindexed to
	// window positions.
	Hazards []HazardRecord
	Edges   []ForwardingEdge
	Stalls  []int

	// StallApplied marks window instructions whose stall count has already
	// been injected.
	StallApplied []bool
	// PendingStall is the number of bubble cycles still to consume before
	// any instruction advances again.
	PendingStall int
	// InjectedStalls is the total stall cycles already injected for the
	// active window. It offsets every stage computation.
	InjectedStalls int

	// Regs and Mem are the architectural state owned by this snapshot.
	Regs *emu.RegFile
	Mem  *emu.Memory

	// Running reports whether ticks advance the simulation.
	Running bool
	// Finished reports that the last instruction has retired.
	Finished bool

	// ForwardingEnabled and StallsEnabled record the feature toggles the
	// dependency tables were computed under.
	ForwardingEnabled bool
	StallsEnabled     bool

	// Stats accumulates performance counters across the run.
	Stats Statistics
}

// StageOf returns the stage instruction index holds this cycle, or
// StageNone if the index is out of range or the instruction is not in the
// pipeline.
func (s *State) StageOf(index int) Stage {
	if index < 0 || index >= len(s.Stages) {
		return StageNone
	}
	return s.Stages[index]
}

// TotalStalls sums the window's stall table.
func (s *State) TotalStalls() int {
	total := 0
	for _, n := range s.Stalls {
		total += n
	}
	return total
}

// Clone returns a deep copy. The copy shares no mutable storage with the
// receiver, so advancing one never disturbs the other.
func (s *State) Clone() *State {
	c := *s
	c.Instructions = append([]*insts.Instruction(nil), s.Instructions...)
	c.Text = append([]string(nil), s.Text...)
	c.Stages = append([]Stage(nil), s.Stages...)
	c.Hazards = append([]HazardRecord(nil), s.Hazards...)
	c.Edges = append([]ForwardingEdge(nil), s.Edges...)
	c.Stalls = append([]int(nil), s.Stalls...)
	c.StallApplied = append([]bool(nil), s.StallApplied...)
	if s.Regs != nil {
		c.Regs = s.Regs.Clone()
	}
	if s.Mem != nil {
		c.Mem = s.Mem.Clone()
	}
	return &c
}
