package clock_test

import (
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	akitasim "github.com/sarchlab/akita/v4/sim"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/clock"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/core"
)

var _ = Describe("Runner", func() {
	var (
		simulator *core.Simulator
		logger    *slog.Logger
	)

	BeforeEach(func() {
		var err error
		simulator, err = core.New(nil)
		Expect(err).ToNot(HaveOccurred())
		logger = slog.New(slog.NewTextHandler(GinkgoWriter, nil))
	})

	It("runs a single instruction to completion", func() {
		// addi $8, $0, 5
		simulator.Start([]uint32{0x20080005})

		runner := clock.NewRunner(simulator, 1*akitasim.Hz, logger)
		Expect(runner.Run()).To(Succeed())

		Expect(simulator.Finished()).To(BeTrue())
		Expect(simulator.Cycle()).To(Equal(6))
		Expect(simulator.Registers()[8]).To(Equal(uint32(5)))
		Expect(runner.Ticks()).To(Equal(uint64(5)))
	})

	It("accounts virtual time at the configured frequency", func() {
		// addi $8, $0, 5
		simulator.Start([]uint32{0x20080005})

		runner := clock.NewRunner(simulator, 1*akitasim.Hz, logger)
		Expect(runner.Run()).To(Succeed())

		// Five ticks at 1 Hz consume five seconds of virtual time.
		Expect(float64(runner.Time())).To(BeNumerically("~", 5.0, 1e-9))
	})

	It("carries forwarded values through a full run", func() {
		// addi $8, $0, 5
		// add  $9, $8, $8
		simulator.Start([]uint32{0x20080005, 0x01084820})

		runner := clock.NewRunner(simulator, 1*akitasim.GHz, logger)
		Expect(runner.Run()).To(Succeed())

		Expect(simulator.Finished()).To(BeTrue())
		Expect(simulator.Registers()[8]).To(Equal(uint32(5)))
		Expect(simulator.Registers()[9]).To(Equal(uint32(10)))
		Expect(runner.Ticks()).To(Equal(uint64(simulator.MaxCycles())))
	})

	It("returns immediately when no program is loaded", func() {
		runner := clock.NewRunner(simulator, 1*akitasim.Hz, logger)

		Expect(runner.Run()).To(Succeed())
		Expect(runner.Ticks()).To(BeZero())
		Expect(simulator.Cycle()).To(BeZero())
	})

	It("returns immediately when the simulation is paused", func() {
		// addi $8, $0, 5
		simulator.Start([]uint32{0x20080005})
		simulator.Pause()

		runner := clock.NewRunner(simulator, 1*akitasim.Hz, logger)

		Expect(runner.Run()).To(Succeed())
		Expect(runner.Ticks()).To(BeZero())
		Expect(simulator.Cycle()).To(Equal(1))
	})

	It("falls back to 1 Hz for a non-positive frequency", func() {
		// addi $8, $0, 5
		simulator.Start([]uint32{0x20080005})

		runner := clock.NewRunner(simulator, 0, logger)
		Expect(runner.Run()).To(Succeed())

		Expect(simulator.Finished()).To(BeTrue())
		Expect(float64(runner.Time())).To(BeNumerically("~", 5.0, 1e-9))
	})
})
