package insts

// Op identifies a decoded MIPS operation.
type Op uint16

// Supported operations.
const (
	// OpUnknown represents an unrecognized instruction.
	OpUnknown Op = iota

	// R-format register arithmetic and logic.
	OpADD
	OpADDU
	OpSUB
	OpSUBU
	OpAND
	OpOR
	OpNOR
	OpSLT
	OpSLTU
	OpSLL
	OpSRL
	OpJR

	// I-format immediate arithmetic and logic.
	OpADDI
	OpADDIU
	OpANDI
	OpORI
	OpSLTI
	OpSLTIU
	OpLUI

	// Conditional branches.
	OpBEQ
	OpBNE

	// Loads.
	OpLW
	OpLBU
	OpLHU
	OpLL

	// Stores.
	OpSW
	OpSB
	OpSH
	OpSC

	// Jumps.
	OpJ
	OpJAL

	// OpNOP is the canonical no-op (the all-zero word).
	OpNOP
)

// Format identifies the MIPS encoding format.
type Format uint8

// Instruction formats.
const (
	// FormatUnknown represents an unrecognized encoding.
	FormatUnknown Format = iota
	// FormatR encodes register operations: opcode | rs | rt | rd | shamt | funct.
	FormatR
	// FormatI encodes immediate operations: opcode | rs | rt | imm16.
	FormatI
	// FormatJ encodes jumps: opcode | target26.
	FormatJ
)

// Register aliases used across the simulator.
const (
	// RegZero is the hardwired zero register.
	RegZero uint8 = 0
	// RegRA is the return address register written by jal.
	RegRA uint8 = 31
)

// NumRegs is the size of the architectural register file.
const NumRegs = 32

// Instruction represents a decoded MIPS instruction.
type Instruction struct {
	Word   uint32 // raw 32-bit encoding
	Op     Op
	Format Format

	// Raw encoding fields.
	Opcode uint8 // bits 31-26
	Rs     uint8 // bits 25-21
	Rt     uint8 // bits 20-16
	Rd     uint8 // bits 15-11
	Shamt  uint8 // bits 10-6
	Funct  uint8 // bits 5-0

	Imm    uint16 // I-format immediate, raw 16 bits
	Target uint32 // J-format target, 26 bits

	// Classification.
	IsLoad  bool
	IsStore bool
}

// SignedImm returns the immediate sign-extended to 32 bits.
func (i *Instruction) SignedImm() int32 {
	return int32(int16(i.Imm))
}

// ZeroImm returns the immediate zero-extended to 32 bits.
func (i *Instruction) ZeroImm() uint32 {
	return uint32(i.Imm)
}

// Dest returns the architectural destination register, or register 0 when the
// instruction writes no register (stores, branches, jumps other than jal).
func (i *Instruction) Dest() uint8 {
	switch {
	case i.Op == OpJAL:
		return RegRA
	case i.Op == OpJR, i.Op == OpNOP, i.Op == OpUnknown:
		return RegZero
	case i.Format == FormatR:
		return i.Rd
	case i.IsStore, i.Op == OpBEQ, i.Op == OpBNE:
		return RegZero
	case i.Format == FormatI:
		return i.Rt
	}
	return RegZero
}

// IsJump reports whether the instruction is a J-format jump.
func (i *Instruction) IsJump() bool {
	return i.Format == FormatJ
}

// Decoder decodes raw MIPS instruction words.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit instruction word. Unrecognized encodings yield an
// Instruction with OpUnknown; callers treat those as no-ops.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{
		Word:   word,
		Op:     OpUnknown,
		Format: FormatUnknown,
		Opcode: uint8(word >> 26),
	}

	if word == 0 {
		inst.Op = OpNOP
		inst.Format = FormatR
		return inst
	}

	switch inst.Opcode {
	case 0x00:
		d.decodeRFormat(word, inst)
	case 0x02, 0x03:
		d.decodeJFormat(word, inst)
	default:
		d.decodeIFormat(word, inst)
	}

	return inst
}

// decodeRFormat decodes a register-format instruction.
// Layout: 000000 | rs(5) | rt(5) | rd(5) | shamt(5) | funct(6)
func (d *Decoder) decodeRFormat(word uint32, inst *Instruction) {
	inst.Rs = uint8((word >> 21) & 0x1F)
	inst.Rt = uint8((word >> 16) & 0x1F)
	inst.Rd = uint8((word >> 11) & 0x1F)
	inst.Shamt = uint8((word >> 6) & 0x1F)
	inst.Funct = uint8(word & 0x3F)

	switch inst.Funct {
	case 0x00:
		inst.Op = OpSLL
	case 0x02:
		inst.Op = OpSRL
	case 0x08:
		inst.Op = OpJR
	case 0x20:
		inst.Op = OpADD
	case 0x21:
		inst.Op = OpADDU
	case 0x22:
		inst.Op = OpSUB
	case 0x23:
		inst.Op = OpSUBU
	case 0x24:
		inst.Op = OpAND
	case 0x25:
		inst.Op = OpOR
	case 0x27:
		inst.Op = OpNOR
	case 0x2A:
		inst.Op = OpSLT
	case 0x2B:
		inst.Op = OpSLTU
	default:
		return
	}
	inst.Format = FormatR
}

// decodeIFormat decodes an immediate-format instruction.
// Layout: opcode(6) | rs(5) | rt(5) | imm(16)
func (d *Decoder) decodeIFormat(word uint32, inst *Instruction) {
	inst.Rs = uint8((word >> 21) & 0x1F)
	inst.Rt = uint8((word >> 16) & 0x1F)
	inst.Imm = uint16(word & 0xFFFF)

	switch inst.Opcode {
	case 0x04:
		inst.Op = OpBEQ
	case 0x05:
		inst.Op = OpBNE
	case 0x08:
		inst.Op = OpADDI
	case 0x09:
		inst.Op = OpADDIU
	case 0x0A:
		inst.Op = OpSLTI
	case 0x0B:
		inst.Op = OpSLTIU
	case 0x0C:
		inst.Op = OpANDI
	case 0x0D:
		inst.Op = OpORI
	case 0x0F:
		inst.Op = OpLUI
	case 0x23:
		inst.Op = OpLW
	case 0x24:
		inst.Op = OpLBU
	case 0x25:
		inst.Op = OpLHU
	case 0x28:
		inst.Op = OpSB
	case 0x29:
		inst.Op = OpSH
	case 0x2B:
		inst.Op = OpSW
	case 0x30:
		inst.Op = OpLL
	case 0x38:
		inst.Op = OpSC
	default:
		return
	}
	inst.Format = FormatI

	switch inst.Op {
	case OpLW, OpLBU, OpLHU, OpLL:
		inst.IsLoad = true
	case OpSW, OpSB, OpSH, OpSC:
		inst.IsStore = true
	}
}

// decodeJFormat decodes a jump-format instruction.
// Layout: opcode(6) | target(26)
func (d *Decoder) decodeJFormat(word uint32, inst *Instruction) {
	inst.Target = word & 0x03FFFFFF

	switch inst.Opcode {
	case 0x02:
		inst.Op = OpJ
	case 0x03:
		inst.Op = OpJAL
	default:
		return
	}
	inst.Format = FormatJ
}

// DecodeAll decodes a program of raw words in order.
func (d *Decoder) DecodeAll(words []uint32) []*Instruction {
	insts := make([]*Instruction, len(words))
	for i, w := range words {
		insts[i] = d.Decode(w)
	}
	return insts
}
