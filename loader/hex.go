// Package loader reads machine code programs from hexadecimal word listings.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parse reads 32-bit instruction words from r, one or more per line
// separated by whitespace. Blank lines are skipped, '#' starts a comment
// that runs to the end of the line, and words may carry an optional 0x
// prefix.
func Parse(r io.Reader) ([]uint32, error) {
	var program []uint32

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, token := range strings.Fields(text) {
			word, err := parseWord(token)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			program = append(program, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	return program, nil
}

// LoadFile reads a program listing from the file at path.
func LoadFile(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file: %w", err)
	}
	defer func() { _ = f.Close() }()

	program, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return program, nil
}

func parseWord(token string) (uint32, error) {
	text := token
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		text = text[2:]
	}
	word, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid instruction word %q", token)
	}
	return uint32(word), nil
}
