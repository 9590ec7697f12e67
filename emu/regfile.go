// Package emu provides the architectural state of the simulated processor
// and a functional (non-pipelined) reference emulator.
package emu

import "github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"

// RegFile represents the MIPS general-purpose register file.
type RegFile struct {
	// R holds the 32 general-purpose registers. R[0] is hardwired to zero.
	R [insts.NumRegs]uint32

	// PC is the program counter, expressed as an instruction index.
	PC uint32
}

// NewRegFile creates a new register file with all registers zeroed.
func NewRegFile() *RegFile {
	return &RegFile{}
}

// ReadReg reads a general-purpose register. Register 0 always reads as zero;
// out-of-range numbers read as zero.
func (r *RegFile) ReadReg(reg uint8) uint32 {
	if reg == insts.RegZero || reg >= insts.NumRegs {
		return 0
	}
	return r.R[reg]
}

// WriteReg writes a general-purpose register. Writes to register 0 and to
// out-of-range numbers are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint32) {
	if reg == insts.RegZero || reg >= insts.NumRegs {
		return
	}
	r.R[reg] = value
}

// EnforceZero pins register 0 back to zero. The execution unit calls it after
// every instruction so no code path can leave a stray value there.
func (r *RegFile) EnforceZero() {
	r.R[insts.RegZero] = 0
}

// Reset zeroes all registers and the program counter.
func (r *RegFile) Reset() {
	*r = RegFile{}
}

// Clone returns an independent copy of the register file.
func (r *RegFile) Clone() *RegFile {
	c := *r
	return &c
}

// Snapshot returns the register values as an array copy.
func (r *RegFile) Snapshot() [insts.NumRegs]uint32 {
	return r.R
}
