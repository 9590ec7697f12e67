package pipeline

import (
	"fmt"

	"github.com/EfraRS-dev/mips-pipeline-viewer-PRTY/insts"
)

// HazardKind classifies the dependency detected for an instruction.
type HazardKind int

const (
	// HazardNone means no dependency on a nearby producer.
	HazardNone HazardKind = iota
	// HazardRAW is a read-after-write dependency: the instruction reads a
	// register an earlier instruction writes.
	HazardRAW
	// HazardWAW is a write-after-write collision: two nearby instructions
	// write the same destination register.
	HazardWAW
)

// String returns the conventional name of the hazard kind.
func (k HazardKind) String() string {
	switch k {
	case HazardRAW:
		return "RAW"
	case HazardWAW:
		return "WAW"
	default:
		return "NONE"
	}
}

// HazardRecord describes the dependency detected for one instruction.
// Every instruction in an analyzed program has exactly one record.
type HazardRecord struct {
	// Kind is the hazard classification.
	Kind HazardKind
	// Register is the register carrying the dependency.
	Register uint8
	// Distance is how many instructions back the producer sits (1 to 3).
	Distance int
	// CanForward reports whether forwarding resolves the hazard without
	// stalling.
	CanForward bool
	// StallCycles is the number of bubbles required before the instruction
	// may enter execute.
	StallCycles int
	// Description is a human-readable account of the dependency.
	Description string
}

// ForwardingEdge describes one operand bypass from a producer's stage output
// to a consumer's execute input.
type ForwardingEdge struct {
	// From is the producer instruction index.
	From int
	// To is the consumer instruction index.
	To int
	// FromStage is the stage whose result is bypassed.
	FromStage Stage
	// ToStage is the stage consuming the bypassed value.
	ToStage Stage
	// Register is the register the bypassed value belongs to.
	Register uint8
}

// String renders the edge in "EX->EX $8 (0->1)" form.
func (e ForwardingEdge) String() string {
	return fmt.Sprintf("%s->%s $%d (%d->%d)",
		e.FromStage, e.ToStage, e.Register, e.From, e.To)
}

// HazardAnalyzer performs static dependency analysis over a decoded program.
// It runs once before simulation starts; its output never changes mid-run.
type HazardAnalyzer struct{}

// NewHazardAnalyzer creates a new hazard analyzer.
func NewHazardAnalyzer() *HazardAnalyzer {
	return &HazardAnalyzer{}
}

// Analyze scans the program and returns one hazard record per instruction,
// the forwarding edges that resolve the detected dependencies, and the
// per-instruction stall counts.
//
// With stallsEnabled false, detection is disabled entirely: every record is
// HazardNone and both the edge list and the stall table are empty of effects.
// With forwardingEnabled false, hazards that forwarding would absorb are
// charged as stall cycles instead.
func (h *HazardAnalyzer) Analyze(
	program []*insts.Instruction,
	forwardingEnabled bool,
	stallsEnabled bool,
) ([]HazardRecord, []ForwardingEdge, []int) {
	records := make([]HazardRecord, len(program))
	stalls := make([]int, len(program))

	if !stallsEnabled {
		return records, nil, stalls
	}

	var edges []ForwardingEdge
	for i := 1; i < len(program); i++ {
		consumer := program[i]
		if consumer.IsJump() {
			continue
		}

		// Look back up to three producers, the longest pipeline latency
		// that can still overlap with this instruction. Scanning runs
		// nearest to farthest and a farther match overwrites a nearer
		// one's record; edges accumulate from every match.
		for j := i - 1; j >= 0 && j >= i-3; j-- {
			producer := program[j]
			dest := producer.Dest()
			if dest == insts.RegZero && !producer.IsLoad {
				continue
			}

			distance := i - j
			if dest != insts.RegZero && readsRegister(consumer, dest) {
				records[i] = h.classifyRAW(producer, distance, dest, forwardingEnabled)
				if edge, ok := h.forwardingEdge(producer, distance, dest, forwardingEnabled); ok {
					edge.From = j
					edge.To = i
					edges = append(edges, edge)
				}
			} else if d := consumer.Dest(); d != insts.RegZero && d == dest {
				records[i] = HazardRecord{
					Kind:        HazardWAW,
					Register:    d,
					Distance:    distance,
					Description: fmt.Sprintf("WAW on $%d with instruction %d", d, j),
				}
			}
		}
		stalls[i] = records[i].StallCycles
	}

	return records, edges, stalls
}

// readsRegister reports whether the instruction reads reg as a source
// operand. rs is a source for every tracked format. rt is a source for
// stores and for non-load, non-immediate instructions; an immediate-type
// instruction's rt is its destination.
func readsRegister(inst *insts.Instruction, reg uint8) bool {
	if inst.Rs == reg {
		return true
	}
	rtIsSource := inst.IsStore || (!inst.IsLoad && inst.Format != insts.FormatI)
	return rtIsSource && inst.Rt == reg
}

// classifyRAW builds the hazard record for a RAW dependency at the given
// producer distance.
func (h *HazardAnalyzer) classifyRAW(
	producer *insts.Instruction,
	distance int,
	reg uint8,
	forwardingEnabled bool,
) HazardRecord {
	record := HazardRecord{
		Kind:       HazardRAW,
		Register:   reg,
		Distance:   distance,
		CanForward: forwardingEnabled,
	}

	switch {
	case producer.IsLoad && distance == 1:
		// Load-use: the value only exists after the producer's MEM stage.
		if forwardingEnabled {
			record.Description = fmt.Sprintf("load-use RAW on $%d, resolved by MEM->EX forwarding", reg)
		} else {
			record.StallCycles = 1
			record.Description = fmt.Sprintf("load-use RAW on $%d, 1 stall", reg)
		}
	case distance == 1:
		if forwardingEnabled {
			record.Description = fmt.Sprintf("RAW on $%d, resolved by EX->EX forwarding", reg)
		} else {
			record.StallCycles = 2
			record.Description = fmt.Sprintf("RAW on $%d, 2 stalls", reg)
		}
	case distance == 2:
		if forwardingEnabled {
			record.Description = fmt.Sprintf("RAW on $%d, resolved by MEM->EX forwarding", reg)
		} else {
			record.StallCycles = 1
			record.Description = fmt.Sprintf("RAW on $%d, 1 stall", reg)
		}
	default:
		// Distance 3: the producer writes back as the consumer executes,
		// so the register file alone satisfies the read.
		record.Description = fmt.Sprintf("RAW on $%d, resolved by register file", reg)
	}

	return record
}

// forwardingEdge returns the bypass an enabled forwarding network would use
// for a RAW dependency at the given distance, and whether one exists.
func (h *HazardAnalyzer) forwardingEdge(
	producer *insts.Instruction,
	distance int,
	reg uint8,
	forwardingEnabled bool,
) (ForwardingEdge, bool) {
	if !forwardingEnabled || distance > 2 {
		return ForwardingEdge{}, false
	}

	from := StageEX
	if producer.IsLoad || distance == 2 {
		from = StageMEM
	}
	return ForwardingEdge{
		FromStage: from,
		ToStage:   StageEX,
		Register:  reg,
	}, true
}
