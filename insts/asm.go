package insts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrUnknownMnemonic reports an unrecognized mnemonic. Callers that treat
// unknown instructions as no-ops check for it with errors.Is.
var ErrUnknownMnemonic = errors.New("unknown mnemonic")

// Statement holds the operand fields parsed from one line of assembly text.
type Statement struct {
	Op Op

	Rd uint8
	Rs uint8
	Rt uint8

	Shamt  uint8
	Imm    int32  // sign-extended immediate or branch offset
	UImm   uint32 // zero-extended immediate (andi, ori, lui)
	Target uint32 // jump target
}

// ParseStatement parses one assembly statement, e.g. "addi $8, $0, 5" or
// "lw $t0, 4($t1)". It returns ErrUnknownMnemonic for unrecognized
// mnemonics and a descriptive error for malformed operands.
func ParseStatement(text string) (*Statement, error) {
	fields := splitOperands(text)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty statement")
	}

	op, ok := mnemonicTable[strings.ToLower(fields[0])]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMnemonic, fields[0])
	}

	stmt := &Statement{Op: op}
	operands := fields[1:]
	info := opTable[op]

	var err error
	switch info.syntax {
	case synNone:
		return stmt, nil
	case synRRR:
		err = stmt.parseRRR(operands)
	case synShift:
		err = stmt.parseShift(operands)
	case synSrc:
		err = stmt.parseSrc(operands)
	case synRRI, synRRIU:
		err = stmt.parseRRI(operands)
	case synUpper:
		err = stmt.parseUpper(operands)
	case synBranch:
		err = stmt.parseBranch(operands)
	case synMem:
		err = stmt.parseMem(operands)
	case synJump:
		err = stmt.parseJump(operands)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", info.mnemonic, err)
	}
	return stmt, nil
}

// splitOperands breaks a statement into mnemonic and operand tokens,
// treating commas as separators.
func splitOperands(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// ParseRegister parses a register token. Both numeric tokens ($13) and ABI
// names ($t5) are accepted, with or without the leading dollar sign.
func ParseRegister(token string) (uint8, error) {
	name := strings.TrimPrefix(token, "$")
	if name == "" {
		return 0, fmt.Errorf("invalid register %q", token)
	}

	if n, err := strconv.ParseUint(name, 10, 8); err == nil {
		if n >= NumRegs {
			return 0, fmt.Errorf("register %q out of range", token)
		}
		return uint8(n), nil
	}

	name = strings.ToLower(name)
	for i, abi := range abiNames {
		if name == abi {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("invalid register %q", token)
}

func parseImmediate(token string) (int32, error) {
	v, err := strconv.ParseInt(token, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q", token)
	}
	return int32(v), nil
}

func (s *Statement) parseRRR(operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("want 3 operands, got %d", len(operands))
	}
	var err error
	if s.Rd, err = ParseRegister(operands[0]); err != nil {
		return err
	}
	if s.Rs, err = ParseRegister(operands[1]); err != nil {
		return err
	}
	s.Rt, err = ParseRegister(operands[2])
	return err
}

func (s *Statement) parseShift(operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("want 3 operands, got %d", len(operands))
	}
	var err error
	if s.Rd, err = ParseRegister(operands[0]); err != nil {
		return err
	}
	if s.Rt, err = ParseRegister(operands[1]); err != nil {
		return err
	}
	sh, err := parseImmediate(operands[2])
	if err != nil {
		return err
	}
	if sh < 0 || sh > 31 {
		return fmt.Errorf("shift amount %d out of range", sh)
	}
	s.Shamt = uint8(sh)
	return nil
}

func (s *Statement) parseSrc(operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("want 1 operand, got %d", len(operands))
	}
	var err error
	s.Rs, err = ParseRegister(operands[0])
	return err
}

func (s *Statement) parseRRI(operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("want 3 operands, got %d", len(operands))
	}
	var err error
	if s.Rt, err = ParseRegister(operands[0]); err != nil {
		return err
	}
	if s.Rs, err = ParseRegister(operands[1]); err != nil {
		return err
	}
	imm, err := parseImmediate(operands[2])
	if err != nil {
		return err
	}
	s.Imm = imm
	s.UImm = uint32(uint16(imm))
	return nil
}

func (s *Statement) parseUpper(operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("want 2 operands, got %d", len(operands))
	}
	var err error
	if s.Rt, err = ParseRegister(operands[0]); err != nil {
		return err
	}
	imm, err := parseImmediate(operands[1])
	if err != nil {
		return err
	}
	s.Imm = imm
	s.UImm = uint32(uint16(imm))
	return nil
}

func (s *Statement) parseBranch(operands []string) error {
	if len(operands) != 3 {
		return fmt.Errorf("want 3 operands, got %d", len(operands))
	}
	var err error
	if s.Rs, err = ParseRegister(operands[0]); err != nil {
		return err
	}
	if s.Rt, err = ParseRegister(operands[1]); err != nil {
		return err
	}
	s.Imm, err = parseImmediate(operands[2])
	return err
}

// parseMem parses a "rt, offset(base)" operand pair.
func (s *Statement) parseMem(operands []string) error {
	if len(operands) != 2 {
		return fmt.Errorf("want 2 operands, got %d", len(operands))
	}
	var err error
	if s.Rt, err = ParseRegister(operands[0]); err != nil {
		return err
	}

	addr := operands[1]
	open := strings.IndexByte(addr, '(')
	if open < 0 || !strings.HasSuffix(addr, ")") {
		return fmt.Errorf("invalid address operand %q", addr)
	}

	offTok := addr[:open]
	if offTok == "" {
		offTok = "0"
	}
	if s.Imm, err = parseImmediate(offTok); err != nil {
		return err
	}
	s.Rs, err = ParseRegister(addr[open+1 : len(addr)-1])
	return err
}

func (s *Statement) parseJump(operands []string) error {
	if len(operands) != 1 {
		return fmt.Errorf("want 1 operand, got %d", len(operands))
	}
	t, err := strconv.ParseUint(operands[0], 0, 32)
	if err != nil {
		return fmt.Errorf("invalid jump target %q", operands[0])
	}
	s.Target = uint32(t)
	return nil
}
