// Package core provides the cycle-accurate processor model. It wraps the
// hazard analyzer, scheduler, and execution unit behind a high-level
// interface a clock driver or UI steps one cycle at a time.
package core

import (
	"fmt"
	"log/slog"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/pipeline"
)

// Simulator drives one program through the five-stage pipeline. A zero
// simulator is idle; Start loads a program and Step advances it. All
// methods on an idle simulator are no-ops, so callers never have to guard
// against stepping before loading.
type Simulator struct {
	config    *Config
	decoder   *insts.Decoder
	analyzer  *pipeline.HazardAnalyzer
	scheduler *pipeline.Scheduler
	logger    *slog.Logger

	// state is the current snapshot, nil while idle.
	state *pipeline.State
}

// Option is a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for soft diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// New creates a Simulator with the given configuration. A nil config takes
// the defaults. An invalid configuration is the one hard failure: there is
// no reasonable state to degrade into.
func New(config *Config, opts ...Option) (*Simulator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Simulator{
		config:   config.Clone(),
		decoder:  insts.NewDecoder(),
		analyzer: pipeline.NewHazardAnalyzer(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scheduler = pipeline.NewScheduler(pipeline.NewExecUnit(s.logger), s.logger)

	return s, nil
}

// Start loads a program of raw instruction words, runs hazard analysis
// once, and installs a fresh cycle-1 snapshot with zeroed registers and
// memory. Starting with an empty program is equivalent to Reset.
func (s *Simulator) Start(words []uint32) {
	if len(words) == 0 {
		s.Reset()
		return
	}

	program := s.decoder.DecodeAll(words)
	hazards, edges, stalls := s.analyzer.Analyze(
		program, s.config.ForwardingEnabled, s.config.StallsEnabled)

	s.state = pipeline.NewState(
		program, hazards, edges, stalls,
		s.config.MemoryWords,
		s.config.ForwardingEnabled, s.config.StallsEnabled)

	s.logger.Debug("simulation started",
		"instructions", len(words),
		"maxCycles", s.state.MaxCycles,
		"stalls", s.state.TotalStalls(),
		"forwarding", s.config.ForwardingEnabled)
}

// Step advances the simulation by one cycle. It does nothing while idle,
// paused, or finished.
func (s *Simulator) Step() {
	if s.state == nil {
		return
	}
	s.state = s.scheduler.Step(s.state)
}

// Pause stops ticks from advancing the simulation.
func (s *Simulator) Pause() {
	if s.state == nil || s.state.Finished {
		return
	}
	s.state.Running = false
}

// Resume lets ticks advance the simulation again. It is a no-op unless a
// simulation is in progress and not finished.
func (s *Simulator) Resume() {
	if s.state == nil || s.state.Finished {
		return
	}
	s.state.Running = true
}

// Configure sets the feature toggles. The new values take effect on the
// next Start; the running simulation keeps the tables it was analyzed with.
func (s *Simulator) Configure(forwardingEnabled, stallsEnabled bool) {
	s.config.ForwardingEnabled = forwardingEnabled
	s.config.StallsEnabled = stallsEnabled
}

// Reset discards the running simulation and returns to idle. The feature
// toggles persist.
func (s *Simulator) Reset() {
	s.state = nil
}

// Config returns a copy of the active configuration.
func (s *Simulator) Config() *Config {
	return s.config.Clone()
}

// Active reports whether a program is loaded.
func (s *Simulator) Active() bool {
	return s.state != nil
}

// Cycle returns the current cycle number, 0 while idle.
func (s *Simulator) Cycle() int {
	if s.state == nil {
		return 0
	}
	return s.state.Cycle
}

// MaxCycles returns the completion cycle of the loaded program, 0 while
// idle.
func (s *Simulator) MaxCycles() int {
	if s.state == nil {
		return 0
	}
	return s.state.MaxCycles
}

// Running reports whether ticks currently advance the simulation.
func (s *Simulator) Running() bool {
	return s.state != nil && s.state.Running
}

// Finished reports whether the last instruction has retired.
func (s *Simulator) Finished() bool {
	return s.state != nil && s.state.Finished
}

// PC returns the absolute index of the first instruction in the active
// fetch window.
func (s *Simulator) PC() uint32 {
	if s.state == nil {
		return 0
	}
	return s.state.PC
}

// StageOf returns the stage the given instruction occupies this cycle, or
// StageNone when absent.
func (s *Simulator) StageOf(index int) pipeline.Stage {
	if s.state == nil {
		return pipeline.StageNone
	}
	return s.state.StageOf(index)
}

// Stages returns a copy of the per-instruction stage table.
func (s *Simulator) Stages() []pipeline.Stage {
	if s.state == nil {
		return nil
	}
	return append([]pipeline.Stage(nil), s.state.Stages...)
}

// Instructions returns the disassembled text of the active window.
func (s *Simulator) Instructions() []string {
	if s.state == nil {
		return nil
	}
	return append([]string(nil), s.state.Text...)
}

// Registers returns a copy of the register file contents.
func (s *Simulator) Registers() [insts.NumRegs]uint32 {
	if s.state == nil {
		return [insts.NumRegs]uint32{}
	}
	return s.state.Regs.Snapshot()
}

// Memory returns a copy of the data memory contents.
func (s *Simulator) Memory() []uint32 {
	if s.state == nil {
		return nil
	}
	return s.state.Mem.Snapshot()
}

// Hazards returns a copy of the hazard table for the active window.
func (s *Simulator) Hazards() []pipeline.HazardRecord {
	if s.state == nil {
		return nil
	}
	return append([]pipeline.HazardRecord(nil), s.state.Hazards...)
}

// ForwardingEdges returns a copy of the forwarding edges for the active
// window.
func (s *Simulator) ForwardingEdges() []pipeline.ForwardingEdge {
	if s.state == nil {
		return nil
	}
	return append([]pipeline.ForwardingEdge(nil), s.state.Edges...)
}

// Stalls returns a copy of the per-instruction stall table for the active
// window.
func (s *Simulator) Stalls() []int {
	if s.state == nil {
		return nil
	}
	return append([]int(nil), s.state.Stalls...)
}

// Stats returns the performance counters accumulated so far.
func (s *Simulator) Stats() pipeline.Statistics {
	if s.state == nil {
		return pipeline.Statistics{}
	}
	return s.state.Stats
}

// Snapshot returns a deep copy of the current pipeline state, or nil while
// idle. The copy is detached: stepping the simulator does not disturb it.
func (s *Simulator) Snapshot() *pipeline.State {
	if s.state == nil {
		return nil
	}
	return s.state.Clone()
}
