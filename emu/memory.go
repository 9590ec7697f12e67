package emu

// DefaultMemoryWords is the data memory size of the modeled machine.
const DefaultMemoryWords = 32

// Memory models the word-addressable data memory. Addresses are word
// indices; byte and half-word accesses mask whole words at the access site.
type Memory struct {
	words []uint32
}

// NewMemory creates a memory of the default size.
func NewMemory() *Memory {
	return NewMemoryWithSize(DefaultMemoryWords)
}

// NewMemoryWithSize creates a memory holding the given number of words.
func NewMemoryWithSize(words int) *Memory {
	if words <= 0 {
		words = DefaultMemoryWords
	}
	return &Memory{words: make([]uint32, words)}
}

// Size returns the number of addressable words.
func (m *Memory) Size() int {
	return len(m.words)
}

// InRange reports whether addr is a valid word index.
func (m *Memory) InRange(addr uint32) bool {
	return addr < uint32(len(m.words))
}

// ReadWord reads the word at addr. The second return value is false for
// out-of-range addresses; callers skip the access and diagnose.
func (m *Memory) ReadWord(addr uint32) (uint32, bool) {
	if !m.InRange(addr) {
		return 0, false
	}
	return m.words[addr], true
}

// WriteWord writes the word at addr and reports whether the address was in
// range.
func (m *Memory) WriteWord(addr uint32, value uint32) bool {
	if !m.InRange(addr) {
		return false
	}
	m.words[addr] = value
	return true
}

// Reset zeroes the memory contents, keeping the size.
func (m *Memory) Reset() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// Clone returns an independent copy of the memory.
func (m *Memory) Clone() *Memory {
	c := &Memory{words: make([]uint32, len(m.words))}
	copy(c.words, m.words)
	return c
}

// Snapshot returns the memory contents as a slice copy.
func (m *Memory) Snapshot() []uint32 {
	s := make([]uint32, len(m.words))
	copy(s, m.words)
	return s
}
