package emu

// LoadStoreUnit implements the load and store operations against the
// word-addressable memory. The effective address is base + offset treated as
// an unsigned word index. Every method reports whether the address was in
// range; out-of-range accesses leave state untouched so the caller can
// diagnose and continue.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// Address computes the effective word address: base register + offset.
func (lsu *LoadStoreUnit) Address(base uint8, offset int32) uint32 {
	return lsu.regFile.ReadReg(base) + uint32(offset)
}

// LW performs a word load: rt = mem[base + offset].
func (lsu *LoadStoreUnit) LW(rt, base uint8, offset int32) bool {
	value, ok := lsu.memory.ReadWord(lsu.Address(base, offset))
	if !ok {
		return false
	}
	lsu.regFile.WriteReg(rt, value)
	return true
}

// LBU performs an unsigned byte load: rt = mem[base + offset] & 0xFF.
func (lsu *LoadStoreUnit) LBU(rt, base uint8, offset int32) bool {
	value, ok := lsu.memory.ReadWord(lsu.Address(base, offset))
	if !ok {
		return false
	}
	lsu.regFile.WriteReg(rt, value&0xFF)
	return true
}

// LHU performs an unsigned half-word load: rt = mem[base + offset] & 0xFFFF.
func (lsu *LoadStoreUnit) LHU(rt, base uint8, offset int32) bool {
	value, ok := lsu.memory.ReadWord(lsu.Address(base, offset))
	if !ok {
		return false
	}
	lsu.regFile.WriteReg(rt, value&0xFFFF)
	return true
}

// LL performs a load-linked, behaving as a word load in this model.
func (lsu *LoadStoreUnit) LL(rt, base uint8, offset int32) bool {
	return lsu.LW(rt, base, offset)
}

// SW performs a word store: mem[base + offset] = rt.
func (lsu *LoadStoreUnit) SW(rt, base uint8, offset int32) bool {
	return lsu.memory.WriteWord(lsu.Address(base, offset), lsu.regFile.ReadReg(rt))
}

// SB stores the low byte of rt. The masked value replaces the whole word,
// matching the word-granular memory model.
func (lsu *LoadStoreUnit) SB(rt, base uint8, offset int32) bool {
	return lsu.memory.WriteWord(lsu.Address(base, offset), lsu.regFile.ReadReg(rt)&0xFF)
}

// SH stores the low half-word of rt, replacing the whole word.
func (lsu *LoadStoreUnit) SH(rt, base uint8, offset int32) bool {
	return lsu.memory.WriteWord(lsu.Address(base, offset), lsu.regFile.ReadReg(rt)&0xFFFF)
}

// SC performs a store-conditional. The store always succeeds in this model,
// so rt receives the success indicator 1 after the write.
func (lsu *LoadStoreUnit) SC(rt, base uint8, offset int32) bool {
	if !lsu.memory.WriteWord(lsu.Address(base, offset), lsu.regFile.ReadReg(rt)) {
		return false
	}
	lsu.regFile.WriteReg(rt, 1)
	return true
}
