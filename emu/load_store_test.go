package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/emu"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		lsu     *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile()
		memory = emu.NewMemory()
		lsu = emu.NewLoadStoreUnit(regFile, memory)
	})

	It("should compute base+offset addresses", func() {
		regFile.WriteReg(1, 10)
		Expect(lsu.Address(1, 4)).To(Equal(uint32(14)))
		Expect(lsu.Address(1, -2)).To(Equal(uint32(8)))
	})

	It("should load words", func() {
		memory.WriteWord(5, 0xCAFEBABE)
		regFile.WriteReg(1, 3)

		Expect(lsu.LW(2, 1, 2)).To(BeTrue())
		Expect(regFile.ReadReg(2)).To(Equal(uint32(0xCAFEBABE)))
	})

	It("should mask byte and half-word loads", func() {
		memory.WriteWord(0, 0x11223344)

		Expect(lsu.LBU(2, 0, 0)).To(BeTrue())
		Expect(regFile.ReadReg(2)).To(Equal(uint32(0x44)))

		Expect(lsu.LHU(2, 0, 0)).To(BeTrue())
		Expect(regFile.ReadReg(2)).To(Equal(uint32(0x3344)))
	})

	It("should store words", func() {
		regFile.WriteReg(2, 0xDEADBEEF)
		regFile.WriteReg(1, 6)

		Expect(lsu.SW(2, 1, 1)).To(BeTrue())

		v, _ := memory.ReadWord(7)
		Expect(v).To(Equal(uint32(0xDEADBEEF)))
	})

	It("should replace the whole word on masked stores", func() {
		memory.WriteWord(3, 0xFFFFFFFF)
		regFile.WriteReg(2, 0x11223344)

		Expect(lsu.SB(2, 0, 3)).To(BeTrue())
		v, _ := memory.ReadWord(3)
		Expect(v).To(Equal(uint32(0x44)))

		Expect(lsu.SH(2, 0, 3)).To(BeTrue())
		v, _ = memory.ReadWord(3)
		Expect(v).To(Equal(uint32(0x3344)))
	})

	It("should treat ll as a word load", func() {
		memory.WriteWord(1, 77)

		Expect(lsu.LL(2, 0, 1)).To(BeTrue())
		Expect(regFile.ReadReg(2)).To(Equal(uint32(77)))
	})

	It("should store conditionally and commit the success indicator", func() {
		regFile.WriteReg(2, 123)

		Expect(lsu.SC(2, 0, 4)).To(BeTrue())

		v, _ := memory.ReadWord(4)
		Expect(v).To(Equal(uint32(123)))
		Expect(regFile.ReadReg(2)).To(Equal(uint32(1)))
	})

	It("should refuse out-of-range accesses without side effects", func() {
		regFile.WriteReg(1, 100)
		regFile.WriteReg(2, 9)

		Expect(lsu.LW(2, 1, 0)).To(BeFalse())
		Expect(regFile.ReadReg(2)).To(Equal(uint32(9)))

		Expect(lsu.SW(2, 1, 0)).To(BeFalse())
		Expect(lsu.SC(2, 1, 0)).To(BeFalse())
		Expect(regFile.ReadReg(2)).To(Equal(uint32(9)))
	})
})

var _ = Describe("BranchUnit", func() {
	var (
		regFile *emu.RegFile
		branch  *emu.BranchUnit
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile()
		branch = emu.NewBranchUnit(regFile)
	})

	It("should take beq when registers are equal", func() {
		regFile.PC = 4
		regFile.WriteReg(1, 7)
		regFile.WriteReg(2, 7)

		Expect(branch.BEQ(1, 2, 3)).To(BeTrue())
		Expect(regFile.PC).To(Equal(uint32(8))) // 4 + 1 + 3
	})

	It("should not take beq when registers differ", func() {
		regFile.PC = 4
		regFile.WriteReg(1, 7)

		Expect(branch.BEQ(1, 2, 3)).To(BeFalse())
		Expect(regFile.PC).To(Equal(uint32(4)))
	})

	It("should branch backwards with negative offsets", func() {
		regFile.PC = 5

		Expect(branch.BNE(1, 2, -3)).To(BeFalse()) // both zero, not taken
		regFile.WriteReg(1, 1)
		Expect(branch.BNE(1, 2, -3)).To(BeTrue())
		Expect(regFile.PC).To(Equal(uint32(3))) // 5 + 1 - 3
	})

	It("should convert jump targets to instruction indices", func() {
		branch.J(16)
		Expect(regFile.PC).To(Equal(uint32(4)))
	})

	It("should link pc+2 on jal", func() {
		regFile.PC = 1
		branch.JAL(12)

		Expect(regFile.ReadReg(31)).To(Equal(uint32(3)))
		Expect(regFile.PC).To(Equal(uint32(3)))
	})

	It("should jump through a register with jr", func() {
		regFile.WriteReg(31, 20)
		branch.JR(31)

		Expect(regFile.PC).To(Equal(uint32(5))) // 20 >> 2
	})
})
