package core

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/emu"
)

// Config holds the simulation parameters a caller can adjust. The pipeline
// depth itself is fixed; only the architectural and pacing knobs move.
type Config struct {
	// MemoryWords is the data memory size in words.
	// Default: 32 words.
	MemoryWords int `json:"memory_words"`

	// ForwardingEnabled selects whether the forwarding network resolves
	// hazards instead of stalling. Default: true.
	ForwardingEnabled bool `json:"forwarding_enabled"`

	// StallsEnabled selects whether hazard detection runs at all. With it
	// off, no hazards are reported and no stalls are injected.
	// Default: true.
	StallsEnabled bool `json:"stalls_enabled"`

	// TickHz is the real-time clock rate used by the interactive clock
	// driver, in ticks per second. Batch stepping ignores it.
	// Default: 2.
	TickHz int `json:"tick_hz"`
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() *Config {
	return &Config{
		MemoryWords:       emu.DefaultMemoryWords,
		ForwardingEnabled: true,
		StallsEnabled:     true,
		TickHz:            2,
	}
}

// LoadConfig loads a Config from a JSON file. Fields absent from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a runnable machine.
func (c *Config) Validate() error {
	if c.MemoryWords <= 0 {
		return fmt.Errorf("memory_words must be > 0")
	}
	if c.TickHz <= 0 {
		return fmt.Errorf("tick_hz must be > 0")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
