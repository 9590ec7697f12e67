package emu

// BranchUnit implements branch and jump operations. The program counter is
// an instruction index; taken branches land on pc + 1 + offset and jump
// targets shift right by two to convert the encoded target to an index.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// BEQ branches when rs == rt and reports whether the branch was taken.
func (b *BranchUnit) BEQ(rs, rt uint8, offset int32) bool {
	if b.regFile.ReadReg(rs) != b.regFile.ReadReg(rt) {
		return false
	}
	b.regFile.PC = b.regFile.PC + 1 + uint32(offset)
	return true
}

// BNE branches when rs != rt and reports whether the branch was taken.
func (b *BranchUnit) BNE(rs, rt uint8, offset int32) bool {
	if b.regFile.ReadReg(rs) == b.regFile.ReadReg(rt) {
		return false
	}
	b.regFile.PC = b.regFile.PC + 1 + uint32(offset)
	return true
}

// J jumps to the target converted to an instruction index.
func (b *BranchUnit) J(target uint32) {
	b.regFile.PC = target >> 2
}

// JAL saves the link value pc + 2 into register 31, then jumps.
func (b *BranchUnit) JAL(target uint32) {
	b.regFile.WriteReg(31, b.regFile.PC+2)
	b.regFile.PC = target >> 2
}

// JR jumps to the shifted value of the source register.
func (b *BranchUnit) JR(rs uint8) {
	b.regFile.PC = b.regFile.ReadReg(rs) >> 2
}
