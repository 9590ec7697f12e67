package pipeline

import (
	"errors"
	"log/slog"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/emu"
	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
)

// ExecUnit applies one instruction's semantic effect for the stage it
// currently occupies. Arithmetic, logic, and control flow commit at execute;
// loads and stores commit at memory access; fetch, decode, and write-back
// have no effects. Register and memory writes land directly in the supplied
// architectural state, so write-back is purely a completion marker.
type ExecUnit struct {
	logger *slog.Logger
}

// NewExecUnit creates an execution unit. A nil logger falls back to the
// default slog logger.
func NewExecUnit(logger *slog.Logger) *ExecUnit {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecUnit{logger: logger}
}

// Execute applies the effect the instruction text has at stage, mutating
// regs and mem in place. pc is the instruction's index in the active window.
// The returned program counter differs from pc only when a taken branch or
// jump redirects fetch.
//
// Unrecognized mnemonics are silent no-ops. Malformed operands and
// out-of-range memory addresses skip the effect with a diagnostic; neither
// aborts the simulation.
func (u *ExecUnit) Execute(
	text string,
	regs *emu.RegFile,
	mem *emu.Memory,
	pc uint32,
	stage Stage,
	edges []ForwardingEdge,
) (uint32, bool) {
	defer regs.EnforceZero()

	stmt, err := insts.ParseStatement(text)
	if err != nil {
		if !errors.Is(err, insts.ErrUnknownMnemonic) {
			u.logger.Warn("instruction effect skipped",
				"text", text,
				"stage", stage.String(),
				"err", err)
		}
		return pc, false
	}

	u.confirmForwarding(stmt, stage, edges)

	switch stage {
	case StageEX:
		return u.executeEX(stmt, regs, pc)
	case StageMEM:
		u.executeMEM(stmt, regs, mem, text)
	}
	return pc, false
}

// executeEX commits arithmetic and logic results and resolves control flow.
// Branch and jump targets are word-indexed relative to the active window.
func (u *ExecUnit) executeEX(stmt *insts.Statement, regs *emu.RegFile, pc uint32) (uint32, bool) {
	alu := emu.NewALU(regs)
	branch := emu.NewBranchUnit(regs)
	regs.PC = pc

	switch stmt.Op {
	case insts.OpADD, insts.OpADDU:
		alu.ADD(stmt.Rd, stmt.Rs, stmt.Rt)
	case insts.OpSUB, insts.OpSUBU:
		alu.SUB(stmt.Rd, stmt.Rs, stmt.Rt)
	case insts.OpAND:
		alu.AND(stmt.Rd, stmt.Rs, stmt.Rt)
	case insts.OpOR:
		alu.OR(stmt.Rd, stmt.Rs, stmt.Rt)
	case insts.OpNOR:
		alu.NOR(stmt.Rd, stmt.Rs, stmt.Rt)
	case insts.OpSLT:
		alu.SLT(stmt.Rd, stmt.Rs, stmt.Rt)
	case insts.OpSLTU:
		alu.SLTU(stmt.Rd, stmt.Rs, stmt.Rt)
	case insts.OpSLL:
		alu.SLL(stmt.Rd, stmt.Rt, stmt.Shamt)
	case insts.OpSRL:
		alu.SRL(stmt.Rd, stmt.Rt, stmt.Shamt)
	case insts.OpADDI, insts.OpADDIU:
		alu.ADDI(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpANDI:
		alu.ANDI(stmt.Rt, stmt.Rs, stmt.UImm)
	case insts.OpORI:
		alu.ORI(stmt.Rt, stmt.Rs, stmt.UImm)
	case insts.OpSLTI:
		alu.SLTI(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpSLTIU:
		alu.SLTIU(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpLUI:
		alu.LUI(stmt.Rt, stmt.UImm)
	case insts.OpBEQ:
		branch.BEQ(stmt.Rs, stmt.Rt, stmt.Imm)
	case insts.OpBNE:
		branch.BNE(stmt.Rs, stmt.Rt, stmt.Imm)
	case insts.OpJ:
		branch.J(stmt.Target)
	case insts.OpJAL:
		branch.JAL(stmt.Target)
	case insts.OpJR:
		branch.JR(stmt.Rs)
	}

	return regs.PC, regs.PC != pc
}

// executeMEM commits loads and stores. Out-of-range addresses leave both
// register file and memory untouched.
func (u *ExecUnit) executeMEM(stmt *insts.Statement, regs *emu.RegFile, mem *emu.Memory, text string) {
	lsu := emu.NewLoadStoreUnit(regs, mem)

	ok := true
	switch stmt.Op {
	case insts.OpLW:
		ok = lsu.LW(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpLBU:
		ok = lsu.LBU(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpLHU:
		ok = lsu.LHU(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpLL:
		ok = lsu.LL(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpSW:
		ok = lsu.SW(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpSB:
		ok = lsu.SB(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpSH:
		ok = lsu.SH(stmt.Rt, stmt.Rs, stmt.Imm)
	case insts.OpSC:
		ok = lsu.SC(stmt.Rt, stmt.Rs, stmt.Imm)
	default:
		return
	}

	if !ok {
		u.logger.Warn("memory address out of range, access skipped",
			"text", text,
			"address", lsu.Address(stmt.Rs, stmt.Imm),
			"words", mem.Size())
	}
}

// confirmForwarding reports, for each source operand covered by a bypass
// into the current stage, that the operand is satisfied by forwarding. The
// value itself still comes from the register file: commits happen early at
// execute and memory access, so the committed value and the bypassed value
// are the same.
func (u *ExecUnit) confirmForwarding(stmt *insts.Statement, stage Stage, edges []ForwardingEdge) {
	if len(edges) == 0 {
		return
	}
	for _, src := range sourceRegisters(stmt) {
		if src == insts.RegZero {
			continue
		}
		for _, edge := range edges {
			if edge.ToStage == stage && edge.Register == src {
				u.logger.Debug("operand satisfied by forwarding",
					"register", src,
					"edge", edge.String())
			}
		}
	}
}

// sourceRegisters lists the registers an operation reads.
func sourceRegisters(stmt *insts.Statement) []uint8 {
	switch stmt.Op {
	case insts.OpADD, insts.OpADDU, insts.OpSUB, insts.OpSUBU,
		insts.OpAND, insts.OpOR, insts.OpNOR, insts.OpSLT, insts.OpSLTU,
		insts.OpBEQ, insts.OpBNE:
		return []uint8{stmt.Rs, stmt.Rt}
	case insts.OpSLL, insts.OpSRL:
		return []uint8{stmt.Rt}
	case insts.OpJR:
		return []uint8{stmt.Rs}
	case insts.OpADDI, insts.OpADDIU, insts.OpANDI, insts.OpORI,
		insts.OpSLTI, insts.OpSLTIU,
		insts.OpLW, insts.OpLBU, insts.OpLHU, insts.OpLL:
		return []uint8{stmt.Rs}
	case insts.OpSW, insts.OpSB, insts.OpSH, insts.OpSC:
		return []uint8{stmt.Rs, stmt.Rt}
	default:
		return nil
	}
}
