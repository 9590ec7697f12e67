package emu

import (
	"log/slog"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Done is true once the program counter has run past the last
	// instruction or the instruction cap was reached.
	Done bool
}

// Emulator executes decoded programs functionally, one instruction per step,
// with no pipeline timing. It serves as the reference for the pipelined
// model's architectural end state.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	alu    *ALU
	lsu    *LoadStoreUnit
	branch *BranchUnit

	program []*insts.Instruction
	logger  *slog.Logger

	instructionCount uint64
	maxInstructions  uint64
}

// EmulatorOption configures an Emulator.
type EmulatorOption func(*Emulator)

// WithMemorySize sets the data memory size in words.
func WithMemorySize(words int) EmulatorOption {
	return func(e *Emulator) {
		e.memory = NewMemoryWithSize(words)
	}
}

// WithMaxInstructions caps the number of executed instructions. Zero means
// no cap.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// NewEmulator creates a new functional emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: NewRegFile(),
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branch = NewBranchUnit(e.regFile)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// InstructionCount returns the number of instructions executed so far.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// LoadProgram decodes and installs a program of raw instruction words,
// resetting registers, memory, and the program counter.
func (e *Emulator) LoadProgram(words []uint32) {
	e.program = e.decoder.DecodeAll(words)
	e.Reset()
}

// Reset clears the architectural state but keeps the loaded program.
func (e *Emulator) Reset() {
	e.regFile.Reset()
	e.memory.Reset()
	e.instructionCount = 0
}

func (e *Emulator) done() bool {
	return e.regFile.PC >= uint32(len(e.program))
}

// Step executes the instruction at the current program counter.
func (e *Emulator) Step() StepResult {
	if e.done() {
		return StepResult{Done: true}
	}
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Done: true}
	}

	pc := e.regFile.PC
	inst := e.program[pc]
	redirected := e.execute(inst)
	e.regFile.EnforceZero()
	e.instructionCount++

	if !redirected {
		e.regFile.PC = pc + 1
	}

	return StepResult{Done: e.done()}
}

// Run executes until the program counter runs past the last instruction or
// the instruction cap is reached.
func (e *Emulator) Run() StepResult {
	for {
		result := e.Step()
		if result.Done {
			return result
		}
	}
}

// execute applies the instruction's semantics and reports whether it
// redirected the program counter.
func (e *Emulator) execute(inst *insts.Instruction) bool {
	switch inst.Op {
	case insts.OpADD, insts.OpADDU:
		e.alu.ADD(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSUB, insts.OpSUBU:
		e.alu.SUB(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpAND:
		e.alu.AND(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpOR:
		e.alu.OR(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpNOR:
		e.alu.NOR(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSLT:
		e.alu.SLT(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSLTU:
		e.alu.SLTU(inst.Rd, inst.Rs, inst.Rt)
	case insts.OpSLL:
		e.alu.SLL(inst.Rd, inst.Rt, inst.Shamt)
	case insts.OpSRL:
		e.alu.SRL(inst.Rd, inst.Rt, inst.Shamt)
	case insts.OpADDI, insts.OpADDIU:
		e.alu.ADDI(inst.Rt, inst.Rs, inst.SignedImm())
	case insts.OpANDI:
		e.alu.ANDI(inst.Rt, inst.Rs, inst.ZeroImm())
	case insts.OpORI:
		e.alu.ORI(inst.Rt, inst.Rs, inst.ZeroImm())
	case insts.OpSLTI:
		e.alu.SLTI(inst.Rt, inst.Rs, inst.SignedImm())
	case insts.OpSLTIU:
		e.alu.SLTIU(inst.Rt, inst.Rs, inst.SignedImm())
	case insts.OpLUI:
		e.alu.LUI(inst.Rt, inst.ZeroImm())

	case insts.OpBEQ:
		return e.branch.BEQ(inst.Rs, inst.Rt, inst.SignedImm())
	case insts.OpBNE:
		return e.branch.BNE(inst.Rs, inst.Rt, inst.SignedImm())
	case insts.OpJ:
		e.branch.J(inst.Target)
		return true
	case insts.OpJAL:
		e.branch.JAL(inst.Target)
		return true
	case insts.OpJR:
		e.branch.JR(inst.Rs)
		return true

	case insts.OpLW:
		e.checkAccess(inst, e.lsu.LW(inst.Rt, inst.Rs, inst.SignedImm()))
	case insts.OpLBU:
		e.checkAccess(inst, e.lsu.LBU(inst.Rt, inst.Rs, inst.SignedImm()))
	case insts.OpLHU:
		e.checkAccess(inst, e.lsu.LHU(inst.Rt, inst.Rs, inst.SignedImm()))
	case insts.OpLL:
		e.checkAccess(inst, e.lsu.LL(inst.Rt, inst.Rs, inst.SignedImm()))
	case insts.OpSW:
		e.checkAccess(inst, e.lsu.SW(inst.Rt, inst.Rs, inst.SignedImm()))
	case insts.OpSB:
		e.checkAccess(inst, e.lsu.SB(inst.Rt, inst.Rs, inst.SignedImm()))
	case insts.OpSH:
		e.checkAccess(inst, e.lsu.SH(inst.Rt, inst.Rs, inst.SignedImm()))
	case insts.OpSC:
		e.checkAccess(inst, e.lsu.SC(inst.Rt, inst.Rs, inst.SignedImm()))

	case insts.OpNOP, insts.OpUnknown:
		// No effect.
	}
	return false
}

// checkAccess emits the out-of-range diagnostic for a skipped memory access.
func (e *Emulator) checkAccess(inst *insts.Instruction, ok bool) {
	if ok {
		return
	}
	e.logger.Warn("memory address out of range, access skipped",
		"instruction", inst.String(),
		"address", e.lsu.Address(inst.Rs, inst.SignedImm()),
		"words", e.memory.Size())
}
