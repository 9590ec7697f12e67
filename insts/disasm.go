package insts

import "fmt"

// operandSyntax identifies the operand layout of an operation's text form.
type operandSyntax uint8

const (
	synNone   operandSyntax = iota
	synRRR                  // op rd, rs, rt
	synShift                // op rd, rt, shamt
	synSrc                  // op rs
	synRRI                  // op rt, rs, imm (signed)
	synRRIU                 // op rt, rs, imm (unsigned)
	synUpper                // op rt, imm
	synBranch               // op rs, rt, offset
	synMem                  // op rt, offset(base)
	synJump                 // op target
)

type opInfo struct {
	mnemonic string
	syntax   operandSyntax
}

// opTable maps every supported operation to its mnemonic and operand layout.
// The parser and the disassembler share it so the two stay inverses.
var opTable = map[Op]opInfo{
	OpADD:   {"add", synRRR},
	OpADDU:  {"addu", synRRR},
	OpSUB:   {"sub", synRRR},
	OpSUBU:  {"subu", synRRR},
	OpAND:   {"and", synRRR},
	OpOR:    {"or", synRRR},
	OpNOR:   {"nor", synRRR},
	OpSLT:   {"slt", synRRR},
	OpSLTU:  {"sltu", synRRR},
	OpSLL:   {"sll", synShift},
	OpSRL:   {"srl", synShift},
	OpJR:    {"jr", synSrc},
	OpADDI:  {"addi", synRRI},
	OpADDIU: {"addiu", synRRI},
	OpANDI:  {"andi", synRRIU},
	OpORI:   {"ori", synRRIU},
	OpSLTI:  {"slti", synRRI},
	OpSLTIU: {"sltiu", synRRI},
	OpLUI:   {"lui", synUpper},
	OpBEQ:   {"beq", synBranch},
	OpBNE:   {"bne", synBranch},
	OpLW:    {"lw", synMem},
	OpLBU:   {"lbu", synMem},
	OpLHU:   {"lhu", synMem},
	OpLL:    {"ll", synMem},
	OpSW:    {"sw", synMem},
	OpSB:    {"sb", synMem},
	OpSH:    {"sh", synMem},
	OpSC:    {"sc", synMem},
	OpJ:     {"j", synJump},
	OpJAL:   {"jal", synJump},
	OpNOP:   {"nop", synNone},
}

// mnemonicTable is the inverse of opTable, built once at init.
var mnemonicTable = make(map[string]Op, len(opTable))

func init() {
	for op, info := range opTable {
		mnemonicTable[info.mnemonic] = op
	}
}

// Mnemonic returns the assembly mnemonic for the operation, or "unknown".
func (o Op) Mnemonic() string {
	if info, ok := opTable[o]; ok {
		return info.mnemonic
	}
	return "unknown"
}

// String renders the canonical assembly text of the instruction, using
// numeric register tokens ($0..$31). Unrecognized instructions render as
// "unknown".
func (i *Instruction) String() string {
	info, ok := opTable[i.Op]
	if !ok {
		return "unknown"
	}

	switch info.syntax {
	case synRRR:
		return fmt.Sprintf("%s $%d, $%d, $%d", info.mnemonic, i.Rd, i.Rs, i.Rt)
	case synShift:
		return fmt.Sprintf("%s $%d, $%d, %d", info.mnemonic, i.Rd, i.Rt, i.Shamt)
	case synSrc:
		return fmt.Sprintf("%s $%d", info.mnemonic, i.Rs)
	case synRRI:
		return fmt.Sprintf("%s $%d, $%d, %d", info.mnemonic, i.Rt, i.Rs, i.SignedImm())
	case synRRIU:
		return fmt.Sprintf("%s $%d, $%d, %d", info.mnemonic, i.Rt, i.Rs, i.ZeroImm())
	case synUpper:
		return fmt.Sprintf("%s $%d, %d", info.mnemonic, i.Rt, i.ZeroImm())
	case synBranch:
		return fmt.Sprintf("%s $%d, $%d, %d", info.mnemonic, i.Rs, i.Rt, i.SignedImm())
	case synMem:
		return fmt.Sprintf("%s $%d, %d($%d)", info.mnemonic, i.Rt, i.SignedImm(), i.Rs)
	case synJump:
		return fmt.Sprintf("%s %d", info.mnemonic, i.Target)
	default:
		return info.mnemonic
	}
}

// abiNames lists the conventional register names in numeric order.
var abiNames = [NumRegs]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

// RegisterName returns the conventional name of a register, e.g. "$t0" for
// register 8. Out-of-range numbers render numerically.
func RegisterName(r uint8) string {
	if int(r) < len(abiNames) {
		return "$" + abiNames[r]
	}
	return fmt.Sprintf("$%d", r)
}
