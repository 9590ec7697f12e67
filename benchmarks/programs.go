package benchmarks

// GetMicrobenchmarks returns the standard benchmark set. Each benchmark
// targets one pipeline behavior.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticIndependent(),
		dependencyChain(),
		loadUseChain(),
		storeLoadSweep(),
		countdownLoop(),
		branchSkip(),
		mixedPipeline(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: a backward
// branch loop, a load-use chain, and a taken forward branch.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		countdownLoop(),
		loadUseChain(),
		branchSkip(),
	}
}

// 1. Independent Arithmetic - no hazards, pure pipeline throughput
func arithmeticIndependent() Benchmark {
	program := make([]uint32, 0, 8)
	expected := map[uint8]uint32{}
	for i := uint8(0); i < 8; i++ {
		program = append(program, EncodeADDI(8+i, 0, int16(i)+1))
		expected[8+i] = uint32(i) + 1
	}
	return Benchmark{
		Name:              "arithmetic_independent",
		Description:       "8 independent addi operations with no hazards",
		Program:           program,
		ExpectedRegisters: expected,
	}
}

// 2. Dependency Chain - back-to-back RAW hazards, stresses forwarding
func dependencyChain() Benchmark {
	program := []uint32{EncodeADDI(8, 0, 1)}
	for i := 0; i < 5; i++ {
		program = append(program, EncodeADD(8, 8, 8)) // $8 doubles each step
	}
	return Benchmark{
		Name:              "dependency_chain",
		Description:       "5 dependent adds doubling $8, distance-1 RAW at every step",
		Program:           program,
		ExpectedRegisters: map[uint8]uint32{8: 32},
	}
}

// 3. Load-Use Chain - store, load back, consume immediately
func loadUseChain() Benchmark {
	return Benchmark{
		Name:        "load_use_chain",
		Description: "store then load-and-use, exercising the load-use stall",
		Program: []uint32{
			EncodeADDI(8, 0, 7),   // $8 = 7
			EncodeSW(8, 0, 4),     // mem[4] = 7
			EncodeLW(10, 0, 4),    // $10 = 7
			EncodeADD(11, 10, 10), // $11 = 14, load-use on $10
		},
		ExpectedRegisters: map[uint8]uint32{8: 7, 10: 7, 11: 14},
		ExpectedMemory:    map[uint32]uint32{4: 7},
	}
}

// 4. Store-Load Sweep - value handed through memory across four addresses
func storeLoadSweep() Benchmark {
	return Benchmark{
		Name:        "store_load_sweep",
		Description: "store/load pairs chained through four memory words",
		Program: []uint32{
			EncodeADDI(8, 0, 5), // $8 = 5
			EncodeSW(8, 0, 0),
			EncodeLW(9, 0, 0),
			EncodeSW(9, 0, 1),
			EncodeLW(10, 0, 1),
			EncodeSW(10, 0, 2),
			EncodeLW(11, 0, 2),
			EncodeSW(11, 0, 3),
			EncodeLW(12, 0, 3),
		},
		ExpectedRegisters: map[uint8]uint32{8: 5, 9: 5, 10: 5, 11: 5, 12: 5},
		ExpectedMemory:    map[uint32]uint32{0: 5, 1: 5, 2: 5, 3: 5},
	}
}

// 5. Countdown Loop - backward branch taken once, then falls through
func countdownLoop() Benchmark {
	return Benchmark{
		Name:        "countdown_loop",
		Description: "two-iteration countdown loop with a backward bne",
		Program: []uint32{
			EncodeADDI(8, 0, 2),  // $8 = 2
			EncodeADDI(9, 9, 1),  // $9++ per iteration
			EncodeADDI(8, 8, -1), // $8--
			EncodeBNE(8, 0, -3),  // loop while $8 != 0
		},
		ExpectedRegisters: map[uint8]uint32{8: 0, 9: 2},
	}
}

// 6. Branch Skip - taken forward branch flushes the wrong-path instruction
func branchSkip() Benchmark {
	return Benchmark{
		Name:        "branch_skip",
		Description: "taken beq skips one instruction on the wrong path",
		Program: []uint32{
			EncodeADDI(8, 0, 5),  // $8 = 5
			EncodeBEQ(8, 8, 1),   // always taken, skip next
			EncodeADDI(9, 0, 99), // flushed
			EncodeADDI(10, 0, 7), // $10 = 7
		},
		ExpectedRegisters: map[uint8]uint32{8: 5, 9: 0, 10: 7},
	}
}

// 7. Mixed Pipeline - arithmetic, memory traffic, and a taken branch
func mixedPipeline() Benchmark {
	return Benchmark{
		Name:        "mixed_pipeline",
		Description: "arithmetic, store/load round trip, and a taken branch",
		Program: []uint32{
			EncodeADDI(8, 0, 3),   // $8 = 3
			EncodeADDI(9, 0, 4),   // $9 = 4
			EncodeADD(10, 8, 9),   // $10 = 7
			EncodeSW(10, 0, 2),    // mem[2] = 7
			EncodeLW(11, 0, 2),    // $11 = 7
			EncodeSUB(12, 11, 8),  // $12 = 4, load-use on $11
			EncodeBEQ(12, 9, 1),   // taken, skip next
			EncodeADDI(13, 0, 99), // flushed
			EncodeADD(14, 12, 9),  // $14 = 8
		},
		ExpectedRegisters: map[uint8]uint32{
			8: 3, 9: 4, 10: 7, 11: 7, 12: 4, 13: 0, 14: 8,
		},
		ExpectedMemory: map[uint32]uint32{2: 7},
	}
}

// Instruction encoding helpers for building programs in place.

// EncodeRType encodes an R-format word: opcode 0 | rs | rt | rd | shamt | funct.
func EncodeRType(funct, rd, rs, rt, shamt uint8) uint32 {
	return uint32(rs&0x1F)<<21 | uint32(rt&0x1F)<<16 | uint32(rd&0x1F)<<11 |
		uint32(shamt&0x1F)<<6 | uint32(funct&0x3F)
}

// EncodeIType encodes an I-format word: opcode | rs | rt | imm16.
func EncodeIType(opcode, rt, rs uint8, imm int16) uint32 {
	return uint32(opcode&0x3F)<<26 | uint32(rs&0x1F)<<21 | uint32(rt&0x1F)<<16 |
		uint32(uint16(imm))
}

// EncodeJType encodes a J-format word: opcode | target26.
func EncodeJType(opcode uint8, target uint32) uint32 {
	return uint32(opcode&0x3F)<<26 | target&0x03FFFFFF
}

// EncodeADD encodes add $rd, $rs, $rt.
func EncodeADD(rd, rs, rt uint8) uint32 {
	return EncodeRType(0x20, rd, rs, rt, 0)
}

// EncodeSUB encodes sub $rd, $rs, $rt.
func EncodeSUB(rd, rs, rt uint8) uint32 {
	return EncodeRType(0x22, rd, rs, rt, 0)
}

// EncodeAND encodes and $rd, $rs, $rt.
func EncodeAND(rd, rs, rt uint8) uint32 {
	return EncodeRType(0x24, rd, rs, rt, 0)
}

// EncodeOR encodes or $rd, $rs, $rt.
func EncodeOR(rd, rs, rt uint8) uint32 {
	return EncodeRType(0x25, rd, rs, rt, 0)
}

// EncodeJR encodes jr $rs.
func EncodeJR(rs uint8) uint32 {
	return EncodeRType(0x08, 0, rs, 0, 0)
}

// EncodeADDI encodes addi $rt, $rs, imm.
func EncodeADDI(rt, rs uint8, imm int16) uint32 {
	return EncodeIType(0x08, rt, rs, imm)
}

// EncodeLW encodes lw $rt, offset($base).
func EncodeLW(rt, base uint8, offset int16) uint32 {
	return EncodeIType(0x23, rt, base, offset)
}

// EncodeSW encodes sw $rt, offset($base).
func EncodeSW(rt, base uint8, offset int16) uint32 {
	return EncodeIType(0x2B, rt, base, offset)
}

// EncodeBEQ encodes beq $rs, $rt, offset.
func EncodeBEQ(rs, rt uint8, offset int16) uint32 {
	return EncodeIType(0x04, rt, rs, offset)
}

// EncodeBNE encodes bne $rs, $rt, offset.
func EncodeBNE(rs, rt uint8, offset int16) uint32 {
	return EncodeIType(0x05, rt, rs, offset)
}

// EncodeJ encodes j target.
func EncodeJ(target uint32) uint32 {
	return EncodeJType(0x02, target)
}

// EncodeJAL encodes jal target.
func EncodeJAL(target uint32) uint32 {
	return EncodeJType(0x03, target)
}

// EncodeNOP encodes the canonical no-op, the all-zero word.
func EncodeNOP() uint32 {
	return 0
}
