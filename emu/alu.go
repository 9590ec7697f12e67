package emu

// ALU implements the integer arithmetic and logic operations. Overflow
// trapping is not modeled, so add/addu (and sub/subu, addi/addiu) commit
// identical results.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs rd = rs + rt.
func (a *ALU) ADD(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)+a.regFile.ReadReg(rt))
}

// SUB performs rd = rs - rt.
func (a *ALU) SUB(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)-a.regFile.ReadReg(rt))
}

// AND performs rd = rs & rt.
func (a *ALU) AND(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)&a.regFile.ReadReg(rt))
}

// OR performs rd = rs | rt.
func (a *ALU) OR(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs)|a.regFile.ReadReg(rt))
}

// NOR performs rd = ^(rs | rt).
func (a *ALU) NOR(rd, rs, rt uint8) {
	a.regFile.WriteReg(rd, ^(a.regFile.ReadReg(rs) | a.regFile.ReadReg(rt)))
}

// SLT performs a signed comparison: rd = (rs < rt) ? 1 : 0.
func (a *ALU) SLT(rd, rs, rt uint8) {
	if int32(a.regFile.ReadReg(rs)) < int32(a.regFile.ReadReg(rt)) {
		a.regFile.WriteReg(rd, 1)
	} else {
		a.regFile.WriteReg(rd, 0)
	}
}

// SLTU performs an unsigned comparison: rd = (rs < rt) ? 1 : 0.
func (a *ALU) SLTU(rd, rs, rt uint8) {
	if a.regFile.ReadReg(rs) < a.regFile.ReadReg(rt) {
		a.regFile.WriteReg(rd, 1)
	} else {
		a.regFile.WriteReg(rd, 0)
	}
}

// SLL performs a logical left shift: rd = rt << shamt.
func (a *ALU) SLL(rd, rt, shamt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rt)<<(shamt&0x1F))
}

// SRL performs a logical right shift: rd = rt >> shamt.
func (a *ALU) SRL(rd, rt, shamt uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rt)>>(shamt&0x1F))
}

// ADDI performs rt = rs + imm with a sign-extended immediate.
func (a *ALU) ADDI(rt, rs uint8, imm int32) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)+uint32(imm))
}

// ANDI performs rt = rs & imm with a zero-extended immediate.
func (a *ALU) ANDI(rt, rs uint8, imm uint32) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)&imm)
}

// ORI performs rt = rs | imm with a zero-extended immediate.
func (a *ALU) ORI(rt, rs uint8, imm uint32) {
	a.regFile.WriteReg(rt, a.regFile.ReadReg(rs)|imm)
}

// SLTI performs a signed comparison against a sign-extended immediate.
func (a *ALU) SLTI(rt, rs uint8, imm int32) {
	if int32(a.regFile.ReadReg(rs)) < imm {
		a.regFile.WriteReg(rt, 1)
	} else {
		a.regFile.WriteReg(rt, 0)
	}
}

// SLTIU performs an unsigned comparison against the sign-extended immediate
// reinterpreted as unsigned, matching the MIPS definition.
func (a *ALU) SLTIU(rt, rs uint8, imm int32) {
	if a.regFile.ReadReg(rs) < uint32(imm) {
		a.regFile.WriteReg(rt, 1)
	} else {
		a.regFile.WriteReg(rt, 0)
	}
}

// LUI commits the immediate shifted into the upper half: rt = imm << 16.
func (a *ALU) LUI(rt uint8, imm uint32) {
	a.regFile.WriteReg(rt, imm<<16)
}
