package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/timing/pipeline"
)

var _ = Describe("State", func() {
	newState := func(words []uint32) *pipeline.State {
		program := insts.NewDecoder().DecodeAll(words)
		hazards, edges, stalls := pipeline.NewHazardAnalyzer().Analyze(program, false, true)
		return pipeline.NewState(program, hazards, edges, stalls, 0, false, true)
	}

	It("should disassemble the loaded program", func() {
		s := newState([]uint32{0x20080005, 0x01084820})

		Expect(s.Text).To(Equal([]string{"addi $8, $0, 5", "add $9, $8, $8"}))
	})

	It("should report absent stages out of range", func() {
		s := newState([]uint32{0x20080005})

		Expect(s.StageOf(-1)).To(Equal(pipeline.StageNone))
		Expect(s.StageOf(5)).To(Equal(pipeline.StageNone))
	})

	It("should sum the stall table", func() {
		s := newState([]uint32{0x20080005, 0x01084820})

		Expect(s.TotalStalls()).To(Equal(2))
	})

	Describe("Clone", func() {
		It("should not share mutable storage", func() {
			s := newState([]uint32{0x20080005, 0x01084820})
			c := s.Clone()

			c.Cycle = 9
			c.Stages[0] = pipeline.StageWB
			c.Stalls[1] = 7
			c.Regs.WriteReg(8, 1)
			c.Mem.WriteWord(0, 2)

			Expect(s.Cycle).To(Equal(1))
			Expect(s.Stages[0]).To(Equal(pipeline.StageIF))
			Expect(s.Stalls[1]).To(Equal(2))
			Expect(s.Regs.ReadReg(8)).To(BeZero())

			word, _ := s.Mem.ReadWord(0)
			Expect(word).To(BeZero())
		})
	})
})
