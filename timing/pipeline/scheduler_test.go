package pipeline_test

import (
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/pipeline"
)

var _ = Describe("Scheduler", func() {
	var scheduler *pipeline.Scheduler

	start := func(words []uint32, forwarding, stalls bool) *pipeline.State {
		program := insts.NewDecoder().DecodeAll(words)
		analyzer := pipeline.NewHazardAnalyzer()
		hazards, edges, stallTable := analyzer.Analyze(program, forwarding, stalls)
		return pipeline.NewState(program, hazards, edges, stallTable, 0, forwarding, stalls)
	}

	runToEnd := func(s *pipeline.State) *pipeline.State {
		for !s.Finished {
			s = scheduler.Step(s)
		}
		return s
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(GinkgoWriter, nil))
		scheduler = pipeline.NewScheduler(pipeline.NewExecUnit(logger), logger)
	})

	Describe("single instruction", func() {
		// addi $8, $0, 5
		words := []uint32{0x20080005}

		It("should start at cycle 1 with the instruction in fetch", func() {
			s := start(words, true, true)

			Expect(s.Cycle).To(Equal(1))
			Expect(s.MaxCycles).To(Equal(5))
			Expect(s.Running).To(BeTrue())
			Expect(s.Finished).To(BeFalse())
			Expect(s.StageOf(0)).To(Equal(pipeline.StageIF))
		})

		It("should commit the result at execute", func() {
			s := start(words, true, true)
			s = scheduler.Step(s) // cycle 2, decode
			Expect(s.StageOf(0)).To(Equal(pipeline.StageID))
			Expect(s.Regs.ReadReg(8)).To(Equal(uint32(0)))

			s = scheduler.Step(s) // cycle 3, execute
			Expect(s.StageOf(0)).To(Equal(pipeline.StageEX))
			Expect(s.Regs.ReadReg(8)).To(Equal(uint32(5)))
		})

		It("should finish one cycle past write-back", func() {
			s := runToEnd(start(words, true, true))

			Expect(s.Cycle).To(Equal(6))
			Expect(s.Finished).To(BeTrue())
			Expect(s.Running).To(BeFalse())
			Expect(s.StageOf(0)).To(Equal(pipeline.StageNone))
			Expect(s.Regs.ReadReg(8)).To(Equal(uint32(5)))
			Expect(s.Stats.Cycles).To(Equal(uint64(5)))
			Expect(s.Stats.Instructions).To(Equal(uint64(1)))
			Expect(s.Stats.CPI()).To(Equal(5.0))
		})
	})

	Describe("independent instructions", func() {
		It("should complete in instruction count plus drain time", func() {
			// addi $8, $0, 5
			// addi $9, $0, 7
			// addi $10, $0, 9
			s := runToEnd(start([]uint32{0x20080005, 0x20090007, 0x200A0009}, true, true))

			Expect(s.MaxCycles).To(Equal(7))
			Expect(s.Cycle).To(Equal(8))
			Expect(s.Regs.ReadReg(8)).To(Equal(uint32(5)))
			Expect(s.Regs.ReadReg(9)).To(Equal(uint32(7)))
			Expect(s.Regs.ReadReg(10)).To(Equal(uint32(9)))
			Expect(s.Stats.Instructions).To(Equal(uint64(3)))
			Expect(s.Stats.StallCycles).To(BeZero())
		})
	})

	Describe("stalled dependent pair", func() {
		// addi $8, $0, 5
		// add  $9, $8, $8
		words := []uint32{0x20080005, 0x01084820}

		It("should hold stages while the stall drains", func() {
			s := start(words, false, true)
			Expect(s.TotalStalls()).To(Equal(2))
			Expect(s.MaxCycles).To(Equal(8))

			s = scheduler.Step(s) // cycle 2
			s = scheduler.Step(s) // cycle 3: consumer reaches decode, stall armed
			Expect(s.StageOf(0)).To(Equal(pipeline.StageEX))
			Expect(s.StageOf(1)).To(Equal(pipeline.StageID))

			s = scheduler.Step(s) // cycle 4: bubble
			Expect(s.StageOf(0)).To(Equal(pipeline.StageEX))
			Expect(s.StageOf(1)).To(Equal(pipeline.StageID))

			s = scheduler.Step(s) // cycle 5: bubble
			Expect(s.StageOf(1)).To(Equal(pipeline.StageID))

			s = scheduler.Step(s) // cycle 6: pipeline moves again
			Expect(s.StageOf(0)).To(Equal(pipeline.StageMEM))
			Expect(s.StageOf(1)).To(Equal(pipeline.StageEX))
			Expect(s.Regs.ReadReg(9)).To(Equal(uint32(10)))
		})

		It("should finish at the stall-adjusted completion cycle", func() {
			s := runToEnd(start(words, false, true))

			Expect(s.Cycle).To(Equal(9))
			Expect(s.Regs.ReadReg(8)).To(Equal(uint32(5)))
			Expect(s.Regs.ReadReg(9)).To(Equal(uint32(10)))
			Expect(s.Stats.StallCycles).To(Equal(uint64(2)))
			Expect(s.Stats.Instructions).To(Equal(uint64(2)))
			Expect(s.Stats.Cycles).To(Equal(uint64(8)))
		})

		It("should run without stalls when forwarding", func() {
			s := runToEnd(start(words, true, true))

			Expect(s.Cycle).To(Equal(7))
			Expect(s.Regs.ReadReg(9)).To(Equal(uint32(10)))
			Expect(s.Stats.StallCycles).To(BeZero())
			Expect(s.Edges).To(HaveLen(1))
		})
	})

	Describe("store, load, and use", func() {
		// addi $8, $0, 7
		// sw   $8, 4($0)
		// lw   $10, 4($0)
		// add  $11, $10, $10
		words := []uint32{0x20080007, 0xAC080004, 0x8C0A0004, 0x014A5820}

		It("should stall twice for the store and once for the load use", func() {
			s := start(words, false, true)
			Expect(s.Stalls).To(Equal([]int{0, 2, 0, 1}))
			Expect(s.MaxCycles).To(Equal(11))

			s = runToEnd(s)
			Expect(s.Cycle).To(Equal(12))
			Expect(s.Regs.ReadReg(8)).To(Equal(uint32(7)))
			Expect(s.Regs.ReadReg(10)).To(Equal(uint32(7)))
			Expect(s.Regs.ReadReg(11)).To(Equal(uint32(14)))

			word, ok := s.Mem.ReadWord(4)
			Expect(ok).To(BeTrue())
			Expect(word).To(Equal(uint32(7)))

			Expect(s.Stats.StallCycles).To(Equal(uint64(3)))
			Expect(s.Stats.Instructions).To(Equal(uint64(4)))
		})

		It("should complete without stalls when forwarding", func() {
			s := start(words, true, true)
			Expect(s.TotalStalls()).To(BeZero())
			Expect(s.MaxCycles).To(Equal(8))

			s = runToEnd(s)
			Expect(s.Cycle).To(Equal(9))
			Expect(s.Regs.ReadReg(11)).To(Equal(uint32(14)))

			word, _ := s.Mem.ReadWord(4)
			Expect(word).To(Equal(uint32(7)))
		})
	})

	Describe("branch redirection", func() {
		It("should refetch the loop body on a taken backward branch", func() {
			// addi $8, $0, 2
			// addi $9, $9, 1
			// addi $8, $8, -1
			// bne  $8, $0, -3
			s := start([]uint32{0x20080002, 0x21290001, 0x2108FFFF, 0x1500FFFD}, true, true)

			s = runToEnd(s)
			Expect(s.Regs.ReadReg(9)).To(Equal(uint32(2)))
			Expect(s.Regs.ReadReg(8)).To(Equal(uint32(0)))
			Expect(s.Stats.Redirects).To(Equal(uint64(1)))
			Expect(s.PC).To(Equal(uint32(1)))
			Expect(s.Cycle).To(Equal(14))
			Expect(s.Stats.Instructions).To(Equal(uint64(5)))
		})

		It("should skip flushed instructions on a taken forward branch", func() {
			// addi $8, $0, 1
			// beq  $8, $8, 1
			// addi $9, $0, 99    flushed
			// addi $10, $0, 7
			s := runToEnd(start([]uint32{0x20080001, 0x11080001, 0x20090063, 0x200A0007}, true, true))

			Expect(s.Regs.ReadReg(9)).To(Equal(uint32(0)))
			Expect(s.Regs.ReadReg(10)).To(Equal(uint32(7)))
			Expect(s.Stats.Redirects).To(Equal(uint64(1)))
		})

		It("should drain when a jump leaves the program", func() {
			// addi $8, $0, 5
			// j    64            index 16, past the end
			// addi $9, $0, 9     flushed
			s := runToEnd(start([]uint32{0x20080005, 0x08000040, 0x20090009}, true, true))

			Expect(s.Finished).To(BeTrue())
			Expect(s.Regs.ReadReg(8)).To(Equal(uint32(5)))
			Expect(s.Regs.ReadReg(9)).To(Equal(uint32(0)))
			Expect(s.PC).To(Equal(uint32(16)))
			Expect(s.Stats.Redirects).To(Equal(uint64(1)))
		})

		It("should reindex the stall table to the new window", func() {
			// addi $8, $0, 1
			// beq  $8, $8, 1     redirect to index 3 of the window
			// addi $9, $0, 99    flushed
			// lw   $10, 4($0)
			// add  $11, $10, $10 load use survives the flush
			s := start([]uint32{0x20080001, 0x11080001, 0x20090063, 0x8C0A0004, 0x014A5820}, false, true)
			Expect(s.Stalls).To(Equal([]int{0, 2, 0, 0, 1}))

			s = runToEnd(s)
			Expect(s.Stalls).To(Equal([]int{0, 1}))
			Expect(s.Regs.ReadReg(11)).To(BeZero())
			Expect(s.Stats.Redirects).To(Equal(uint64(1)))
		})
	})

	Describe("step discipline", func() {
		It("should return a paused state unchanged", func() {
			s := start([]uint32{0x20080005}, true, true)
			s.Running = false

			Expect(scheduler.Step(s)).To(BeIdenticalTo(s))
		})

		It("should return a finished state unchanged", func() {
			s := runToEnd(start([]uint32{0x20080005}, true, true))

			Expect(scheduler.Step(s)).To(BeIdenticalTo(s))
		})

		It("should never mutate the input snapshot", func() {
			s1 := start([]uint32{0x20080005}, true, true)
			s2 := scheduler.Step(s1)
			s3 := scheduler.Step(s2)

			Expect(s1.Cycle).To(Equal(1))
			Expect(s2.Cycle).To(Equal(2))
			Expect(s3.Cycle).To(Equal(3))
			Expect(s1.Regs.ReadReg(8)).To(BeZero())
			Expect(s2.Regs.ReadReg(8)).To(BeZero())
			Expect(s3.Regs.ReadReg(8)).To(Equal(uint32(5)))
		})
	})

	Describe("register zero", func() {
		It("should stay zero through every cycle", func() {
			// addi $0, $0, 7
			s := start([]uint32{0x20000007}, true, true)
			for !s.Finished {
				s = scheduler.Step(s)
				Expect(s.Regs.ReadReg(0)).To(BeZero())
			}
		})
	})
})
