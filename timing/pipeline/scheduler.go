package pipeline

import (
	"log/slog"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/emu"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
)

// Scheduler owns the per-cycle state transition. Step is pure with respect
// to its input: it clones the previous snapshot, advances the clone by one
// cycle, and returns it. The previous snapshot is never touched, so callers
// can keep a full cycle-by-cycle history for replay.
type Scheduler struct {
	exec   *ExecUnit
	logger *slog.Logger
}

// NewScheduler creates a scheduler that dispatches stage effects to exec.
// A nil logger falls back to the default slog logger.
func NewScheduler(exec *ExecUnit, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		exec:   exec,
		logger: logger,
	}
}

// stageAt computes the stage an instruction occupies on the given cycle.
// Instructions enter fetch one cycle apart in window order; every stall
// cycle already injected for this window pushes the whole schedule back by
// one.
func stageAt(cycle, windowOffset, index, injectedStalls int) Stage {
	n := cycle - windowOffset - index - 1 - injectedStalls
	if n < 0 || n >= NumStages {
		return StageNone
	}
	return Stage(n)
}

// edgesFor returns the forwarding edges whose consumer is the given window
// index.
func edgesFor(edges []ForwardingEdge, index int) []ForwardingEdge {
	var scoped []ForwardingEdge
	for _, e := range edges {
		if e.To == index {
			scoped = append(scoped, e)
		}
	}
	return scoped
}

// Step advances the simulation by one cycle and returns the new snapshot.
// When the simulation is paused or finished the input snapshot is returned
// unchanged.
func (sch *Scheduler) Step(prev *State) *State {
	if !prev.Running || prev.Finished {
		return prev
	}

	s := prev.Clone()
	s.Cycle++

	if s.Cycle > s.MaxCycles {
		s.Finished = true
		s.Running = false
		for k := range s.Stages {
			s.Stages[k] = StageNone
		}
		return s
	}
	s.Stats.Cycles = uint64(s.Cycle)

	// A pending stall consumes this cycle whole: every instruction holds
	// its stage and no effect runs again.
	if s.PendingStall > 0 {
		s.PendingStall--
		s.Stats.StallCycles++
		return s
	}

	for k := range s.Instructions {
		s.Stages[k] = stageAt(s.Cycle, s.WindowOffset, k, s.InjectedStalls)
	}

	sch.injectStall(s)
	sch.runEffects(s)

	return s
}

// injectStall arms the pending stall counter when an instruction with a
// recorded stall cost enters decode. At most one instruction sits in decode
// on any cycle, and each window instruction injects at most once.
func (sch *Scheduler) injectStall(s *State) {
	for k := range s.Instructions {
		if s.Stages[k] != StageID {
			continue
		}
		if s.Stalls[k] > 0 && !s.StallApplied[k] {
			s.PendingStall = s.Stalls[k]
			s.InjectedStalls += s.Stalls[k]
			s.StallApplied[k] = true
		}
		return
	}
}

// runEffects dispatches this cycle's stage effects in window order, oldest
// instruction first, so an older instruction's commits are visible to a
// younger instruction's operand fetch within the same cycle. A redirect
// reshapes the window and ends the cycle early: instructions behind the
// branch are refetched, not completed.
func (sch *Scheduler) runEffects(s *State) {
	for k := range s.Instructions {
		switch s.Stages[k] {
		case StageEX:
			newPC, redirected := sch.exec.Execute(
				s.Text[k], s.Regs, s.Mem, uint32(k), StageEX, edgesFor(s.Edges, k))
			if redirected {
				sch.redirect(s, newPC)
				return
			}
		case StageMEM:
			sch.exec.Execute(
				s.Text[k], s.Regs, s.Mem, uint32(k), StageMEM, edgesFor(s.Edges, k))
		case StageWB:
			s.Stats.Instructions++
		}
	}
}

// redirect installs a new fetch window starting at the window-relative
// target index. The dependency tables are reindexed to the surviving
// instructions, never recomputed; bookkeeping restarts so the refetched
// instructions flow from fetch again, re-injecting their stalls.
func (sch *Scheduler) redirect(s *State, target uint32) {
	s.Stats.Redirects++

	newStart := int(target)
	if newStart > len(s.Instructions) {
		sch.logger.Warn("fetch redirected past end of program, draining",
			"target", target,
			"instructions", len(s.Instructions))
		newStart = len(s.Instructions)
	}

	s.Instructions = s.Instructions[newStart:]
	s.Text = s.Text[newStart:]
	s.Stalls = s.Stalls[newStart:]
	s.Hazards = s.Hazards[newStart:]
	s.Edges = reindexEdges(s.Edges, newStart)

	n := len(s.Instructions)
	s.Stages = make([]Stage, n)
	for k := range s.Stages {
		s.Stages[k] = StageNone
	}
	s.StallApplied = make([]bool, n)
	s.PendingStall = 0
	s.InjectedStalls = 0

	s.WindowOffset = s.Cycle
	s.PC += target

	total := 0
	for _, c := range s.Stalls {
		total += c
	}
	s.MaxCycles = s.Cycle + n + NumStages - 1 + total
}

// reindexEdges shifts forwarding edges to the new window positions,
// dropping any edge with an endpoint before the new start.
func reindexEdges(edges []ForwardingEdge, newStart int) []ForwardingEdge {
	var kept []ForwardingEdge
	for _, e := range edges {
		if e.From < newStart || e.To < newStart {
			continue
		}
		e.From -= newStart
		e.To -= newStart
		kept = append(kept, e)
	}
	return kept
}

// NewState builds the cycle-1 snapshot for an analyzed program. The window
// holds the whole program, architectural state is zeroed, and instruction 0
// sits in fetch.
func NewState(
	program []*insts.Instruction,
	hazards []HazardRecord,
	edges []ForwardingEdge,
	stalls []int,
	memoryWords int,
	forwardingEnabled bool,
	stallsEnabled bool,
) *State {
	n := len(program)
	text := make([]string, n)
	for i, inst := range program {
		text[i] = inst.String()
	}

	total := 0
	for _, c := range stalls {
		total += c
	}

	s := &State{
		Instructions:      append([]*insts.Instruction(nil), program...),
		Text:              text,
		Cycle:             1,
		MaxCycles:         n + NumStages - 1 + total,
		Stages:            make([]Stage, n),
		Hazards:           append([]HazardRecord(nil), hazards...),
		Edges:             append([]ForwardingEdge(nil), edges...),
		Stalls:            append([]int(nil), stalls...),
		StallApplied:      make([]bool, n),
		Regs:              emu.NewRegFile(),
		Mem:               emu.NewMemoryWithSize(memoryWords),
		Running:           true,
		ForwardingEnabled: forwardingEnabled,
		StallsEnabled:     stallsEnabled,
		Stats:             Statistics{Cycles: 1},
	}
	for k := range s.Stages {
		s.Stages[k] = stageAt(s.Cycle, 0, k, 0)
	}
	return s
}
