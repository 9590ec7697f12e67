package clock

import (
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/core"
)

// tickEvent advances the pipeline by one cycle when handled.
type tickEvent struct {
	*sim.EventBase
}

func newTickEvent(t sim.VTimeInSec, handler sim.Handler) *tickEvent {
	return &tickEvent{EventBase: sim.NewEventBase(t, handler)}
}

// Runner drives a Simulator to completion on a discrete-event engine. Each
// pipeline cycle is one event in virtual time, so a run completes as fast
// as the host allows while still accounting time at the chosen frequency.
type Runner struct {
	engine sim.Engine
	sim    *core.Simulator
	freq   sim.Freq
	logger *slog.Logger
	ticks  uint64
}

// NewRunner creates a runner that clocks the simulator at freq. A
// non-positive frequency falls back to 1 Hz; a nil logger falls back to
// the default slog logger.
func NewRunner(simulator *core.Simulator, freq sim.Freq, logger *slog.Logger) *Runner {
	if freq <= 0 {
		freq = 1 * sim.Hz
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine: sim.NewSerialEngine(),
		sim:    simulator,
		freq:   freq,
		logger: logger,
	}
}

// Run executes the simulation until it finishes and returns the engine
// error, if any. It returns immediately when the simulator has no program
// loaded or is paused.
func (r *Runner) Run() error {
	if !r.sim.Active() || !r.sim.Running() {
		return nil
	}

	r.engine.Schedule(newTickEvent(r.engine.CurrentTime()+r.freq.Period(), r))
	err := r.engine.Run()
	if err != nil {
		return err
	}

	stats := r.sim.Stats()
	r.logger.Debug("run complete",
		"ticks", r.ticks,
		"cycles", stats.Cycles,
		"instructions", stats.Instructions)
	return nil
}

// Handle advances the pipeline by one cycle and schedules the next tick
// while the simulation is still running.
func (r *Runner) Handle(e sim.Event) error {
	switch e.(type) {
	case *tickEvent:
		r.sim.Step()
		r.ticks++
		if r.sim.Running() && !r.sim.Finished() {
			r.engine.Schedule(newTickEvent(e.Time()+r.freq.Period(), r))
		}
	}
	return nil
}

// Ticks reports how many cycles the runner has delivered.
func (r *Runner) Ticks() uint64 {
	return r.ticks
}

// Time reports the virtual time consumed so far.
func (r *Runner) Time() sim.VTimeInSec {
	return r.engine.CurrentTime()
}
