// Package insts provides MIPS instruction definitions, decoding, and text
// rendering.
//
// The package supports the MIPS I integer subset used by the pipeline
// simulator:
//   - R-format arithmetic and logic: add, addu, sub, subu, and, or, nor,
//     slt, sltu, sll, srl, jr
//   - I-format arithmetic and logic: addi, addiu, andi, ori, slti, sltiu, lui
//   - Branches: beq, bne
//   - Loads and stores: lw, lbu, lhu, ll, sw, sb, sh, sc
//   - Jumps: j, jal
//
// Raw 32-bit words decode into Instruction values; Instruction.String renders
// the canonical assembly text; ParseStatement turns assembly text back into
// operand fields for execution.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x20080005) // addi $8, $0, 5
//	fmt.Println(inst)
package insts
