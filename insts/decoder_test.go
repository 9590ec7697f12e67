package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("R-format", func() {
		// add $9, $10, $11 -> 0x014B4820
		// Encoding: 000000 | rs=10 | rt=11 | rd=9 | shamt=0 | funct=100000
		It("should decode add $9, $10, $11", func() {
			inst := decoder.Decode(0x014B4820)

			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Format).To(Equal(insts.FormatR))
			Expect(inst.Rs).To(Equal(uint8(10)))
			Expect(inst.Rt).To(Equal(uint8(11)))
			Expect(inst.Rd).To(Equal(uint8(9)))
			Expect(inst.Dest()).To(Equal(uint8(9)))
			Expect(inst.String()).To(Equal("add $9, $10, $11"))
		})

		// sub $10, $11, $12 -> 0x016C5022
		It("should decode sub $10, $11, $12", func() {
			inst := decoder.Decode(0x016C5022)

			Expect(inst.Op).To(Equal(insts.OpSUB))
			Expect(inst.Rd).To(Equal(uint8(10)))
			Expect(inst.String()).To(Equal("sub $10, $11, $12"))
		})

		// sll $9, $10, 2 -> 0x000A4880
		// Encoding: 000000 | rs=0 | rt=10 | rd=9 | shamt=2 | funct=000000
		It("should decode sll $9, $10, 2", func() {
			inst := decoder.Decode(0x000A4880)

			Expect(inst.Op).To(Equal(insts.OpSLL))
			Expect(inst.Rt).To(Equal(uint8(10)))
			Expect(inst.Rd).To(Equal(uint8(9)))
			Expect(inst.Shamt).To(Equal(uint8(2)))
			Expect(inst.String()).To(Equal("sll $9, $10, 2"))
		})

		// srl $9, $10, 4 -> 0x000A4902
		It("should decode srl $9, $10, 4", func() {
			inst := decoder.Decode(0x000A4902)

			Expect(inst.Op).To(Equal(insts.OpSRL))
			Expect(inst.Shamt).To(Equal(uint8(4)))
		})

		// jr $31 -> 0x03E00008
		It("should decode jr $31 with no destination register", func() {
			inst := decoder.Decode(0x03E00008)

			Expect(inst.Op).To(Equal(insts.OpJR))
			Expect(inst.Rs).To(Equal(uint8(31)))
			Expect(inst.Dest()).To(Equal(insts.RegZero))
			Expect(inst.String()).To(Equal("jr $31"))
		})

		// slt $1, $2, $3 -> 0x0043082A; sltu -> 0x0043082B
		It("should distinguish slt from sltu", func() {
			Expect(decoder.Decode(0x0043082A).Op).To(Equal(insts.OpSLT))
			Expect(decoder.Decode(0x0043082B).Op).To(Equal(insts.OpSLTU))
		})

		// nor $4, $5, $6 -> 0x00A62027
		It("should decode nor $4, $5, $6", func() {
			inst := decoder.Decode(0x00A62027)

			Expect(inst.Op).To(Equal(insts.OpNOR))
			Expect(inst.String()).To(Equal("nor $4, $5, $6"))
		})
	})

	Describe("I-format", func() {
		// addi $8, $0, 5 -> 0x20080005
		// Encoding: 001000 | rs=0 | rt=8 | imm=5
		It("should decode addi $8, $0, 5", func() {
			inst := decoder.Decode(0x20080005)

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.Format).To(Equal(insts.FormatI))
			Expect(inst.Rs).To(Equal(uint8(0)))
			Expect(inst.Rt).To(Equal(uint8(8)))
			Expect(inst.SignedImm()).To(Equal(int32(5)))
			Expect(inst.Dest()).To(Equal(uint8(8)))
			Expect(inst.String()).To(Equal("addi $8, $0, 5"))
		})

		// addi $8, $9, -1 -> 0x2128FFFF
		It("should sign-extend negative immediates", func() {
			inst := decoder.Decode(0x2128FFFF)

			Expect(inst.Op).To(Equal(insts.OpADDI))
			Expect(inst.SignedImm()).To(Equal(int32(-1)))
			Expect(inst.ZeroImm()).To(Equal(uint32(0xFFFF)))
		})

		// lui $8, 255 -> 0x3C0800FF
		It("should decode lui $8, 255", func() {
			inst := decoder.Decode(0x3C0800FF)

			Expect(inst.Op).To(Equal(insts.OpLUI))
			Expect(inst.ZeroImm()).To(Equal(uint32(255)))
			Expect(inst.String()).To(Equal("lui $8, 255"))
		})

		// andi $9, $10, 255 -> 0x314900FF; ori $9, $10, 240 -> 0x354900F0
		It("should decode andi and ori with unsigned immediates", func() {
			andi := decoder.Decode(0x314900FF)
			Expect(andi.Op).To(Equal(insts.OpANDI))
			Expect(andi.String()).To(Equal("andi $9, $10, 255"))

			ori := decoder.Decode(0x354900F0)
			Expect(ori.Op).To(Equal(insts.OpORI))
			Expect(ori.ZeroImm()).To(Equal(uint32(240)))
		})

		// beq $8, $9, -2 -> 0x1109FFFE
		It("should decode beq with a negative offset", func() {
			inst := decoder.Decode(0x1109FFFE)

			Expect(inst.Op).To(Equal(insts.OpBEQ))
			Expect(inst.Rs).To(Equal(uint8(8)))
			Expect(inst.Rt).To(Equal(uint8(9)))
			Expect(inst.SignedImm()).To(Equal(int32(-2)))
			Expect(inst.Dest()).To(Equal(insts.RegZero))
			Expect(inst.String()).To(Equal("beq $8, $9, -2"))
		})

		// bne $3, $0, 2 -> 0x14600002
		It("should decode bne $3, $0, 2", func() {
			inst := decoder.Decode(0x14600002)

			Expect(inst.Op).To(Equal(insts.OpBNE))
			Expect(inst.SignedImm()).To(Equal(int32(2)))
		})
	})

	Describe("Loads and stores", func() {
		// lw $8, 4($9) -> 0x8D280004
		// Encoding: 100011 | rs=9 | rt=8 | imm=4
		It("should decode lw $8, 4($9)", func() {
			inst := decoder.Decode(0x8D280004)

			Expect(inst.Op).To(Equal(insts.OpLW))
			Expect(inst.IsLoad).To(BeTrue())
			Expect(inst.IsStore).To(BeFalse())
			Expect(inst.Rs).To(Equal(uint8(9)))
			Expect(inst.Rt).To(Equal(uint8(8)))
			Expect(inst.Dest()).To(Equal(uint8(8)))
			Expect(inst.String()).To(Equal("lw $8, 4($9)"))
		})

		// sw $8, 8($9) -> 0xAD280008
		It("should decode sw $8, 8($9) with no destination register", func() {
			inst := decoder.Decode(0xAD280008)

			Expect(inst.Op).To(Equal(insts.OpSW))
			Expect(inst.IsStore).To(BeTrue())
			Expect(inst.IsLoad).To(BeFalse())
			Expect(inst.Dest()).To(Equal(insts.RegZero))
			Expect(inst.String()).To(Equal("sw $8, 8($9)"))
		})

		// lbu $5, 1($6) -> 0x90C50001; lhu $7, 2($8) -> 0x95070002
		It("should decode the byte and half-word loads", func() {
			Expect(decoder.Decode(0x90C50001).Op).To(Equal(insts.OpLBU))
			Expect(decoder.Decode(0x95070002).Op).To(Equal(insts.OpLHU))
		})

		// sb $7, 3($8) -> 0xA1070003; sh $7, 2($8) -> 0xA5070002
		It("should decode the byte and half-word stores", func() {
			Expect(decoder.Decode(0xA1070003).Op).To(Equal(insts.OpSB))
			Expect(decoder.Decode(0xA5070002).Op).To(Equal(insts.OpSH))
		})

		// ll $7, 0($8) -> 0xC1070000; sc $7, 0($8) -> 0xE1070000
		It("should decode ll and sc", func() {
			ll := decoder.Decode(0xC1070000)
			Expect(ll.Op).To(Equal(insts.OpLL))
			Expect(ll.IsLoad).To(BeTrue())

			sc := decoder.Decode(0xE1070000)
			Expect(sc.Op).To(Equal(insts.OpSC))
			Expect(sc.IsStore).To(BeTrue())
		})
	})

	Describe("J-format", func() {
		// j 12 -> 0x0800000C
		It("should decode j 12", func() {
			inst := decoder.Decode(0x0800000C)

			Expect(inst.Op).To(Equal(insts.OpJ))
			Expect(inst.Format).To(Equal(insts.FormatJ))
			Expect(inst.Target).To(Equal(uint32(12)))
			Expect(inst.IsJump()).To(BeTrue())
			Expect(inst.String()).To(Equal("j 12"))
		})

		// jal 16 -> 0x0C000010
		It("should decode jal 16 with register 31 as destination", func() {
			inst := decoder.Decode(0x0C000010)

			Expect(inst.Op).To(Equal(insts.OpJAL))
			Expect(inst.Target).To(Equal(uint32(16)))
			Expect(inst.Dest()).To(Equal(insts.RegRA))
		})
	})

	Describe("Special cases", func() {
		It("should decode the all-zero word as nop", func() {
			inst := decoder.Decode(0)

			Expect(inst.Op).To(Equal(insts.OpNOP))
			Expect(inst.Dest()).To(Equal(insts.RegZero))
			Expect(inst.String()).To(Equal("nop"))
		})

		// Opcode 0x3F is not part of the supported subset.
		It("should mark unsupported encodings as unknown", func() {
			inst := decoder.Decode(0xFFFFFFFF)

			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.Format).To(Equal(insts.FormatUnknown))
			Expect(inst.String()).To(Equal("unknown"))
		})

		It("should decode whole programs in order", func() {
			program := []uint32{0x20080005, 0x014B4820, 0x0800000C}
			decoded := decoder.DecodeAll(program)

			Expect(decoded).To(HaveLen(3))
			Expect(decoded[0].Op).To(Equal(insts.OpADDI))
			Expect(decoded[1].Op).To(Equal(insts.OpADD))
			Expect(decoded[2].Op).To(Equal(insts.OpJ))
		})
	})
})
