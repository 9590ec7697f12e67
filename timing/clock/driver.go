// Package clock delivers ticks to the simulator. Driver paces a running
// simulation against the wall clock for interactive viewing; Runner replays
// it on a discrete-event engine in virtual time for batch runs.
package clock

import (
	"log/slog"
	"sync"
	"time"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/core"
)

// Driver steps a Simulator at a fixed real-time rate. Pausing gates tick
// delivery without touching the simulation itself, so a paused viewer
// resumes exactly where it stopped.
type Driver struct {
	sim      *core.Simulator
	interval time.Duration
	logger   *slog.Logger

	mutex   sync.Mutex
	enabled bool
	started bool
	ticks   uint64

	stop     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
}

// NewDriver creates a driver that ticks the simulator tickHz times per
// second. A nil logger falls back to the default slog logger.
func NewDriver(simulator *core.Simulator, tickHz int, logger *slog.Logger) *Driver {
	if tickHz <= 0 {
		tickHz = core.DefaultConfig().TickHz
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{
		sim:      simulator,
		interval: time.Second / time.Duration(tickHz),
		logger:   logger,
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Start begins delivering ticks. Subsequent calls are no-ops.
func (d *Driver) Start() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.started {
		d.enabled = true
		return
	}
	d.started = true
	d.enabled = true
	go d.tickLoop()
}

// Pause stops delivering ticks without stopping the tick source.
func (d *Driver) Pause() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.enabled = false
}

// Resume restarts tick delivery after Pause.
func (d *Driver) Resume() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.enabled = true
}

// Enabled reports whether ticks are currently delivered.
func (d *Driver) Enabled() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.enabled
}

// Ticks returns the number of ticks delivered so far.
func (d *Driver) Ticks() uint64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.ticks
}

// Stop shuts the driver down. It is safe to call more than once.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() {
		close(d.stop)
	})
}

// Done returns a channel closed when the driver exits, either because the
// simulation finished or because Stop was called.
func (d *Driver) Done() <-chan struct{} {
	return d.finished
}

func (d *Driver) tickLoop() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	defer close(d.finished)

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			d.mutex.Lock()
			if !d.enabled {
				d.mutex.Unlock()
				continue
			}
			d.sim.Step()
			d.ticks++
			done := d.sim.Finished()
			d.mutex.Unlock()

			if done {
				stats := d.sim.Stats()
				d.logger.Info("simulation finished",
					"cycles", stats.Cycles,
					"instructions", stats.Instructions,
					"stalls", stats.StallCycles)
				return
			}
		}
	}
}
