package vm

import "fmt"

// Program is an immutable, compiler-produced instruction sequence ready
// for simulation. It is the only object the compiler collaborator hands
// to this package.
//
// Compiler → engine contract (spec §6):
//   - Save(0) is emitted before the first consuming instruction and
//     Save(1) immediately before Match, so slots 0/1 always delimit the
//     whole match — no heuristic post-processing is needed or permitted.
//   - For each capture group k ≥ 1, Save(2k)/Save(2k+1) bracket the
//     group's entry/exit.
//   - FindStart is distinct from Start and encodes the unanchored
//     `.*?`-style prefix as a Split whose second branch self-loops back
//     to FindStart and whose first branch enters Start.
type Program struct {
	Insts     []Instruction
	Start     PC
	FindStart PC
	SlotCount int

	// anchored is true when Start == FindStart, i.e. the compiler never
	// emitted an unanchored prefix because the pattern is inherently
	// anchored (e.g. begins with ^). Exposed via IsAnchored.
	anchored bool
}

// NewProgram validates and constructs a Program. It is the only place
// the compiler/engine boundary is checked; the simulator trusts a
// constructed Program completely (spec §4.2, §7: an invalid PC here is a
// precondition violation, not a runtime error the simulator detects).
func NewProgram(insts []Instruction, start, findStart PC, slotCount int) (*Program, error) {
	n := PC(len(insts))
	if slotCount < 2 || slotCount%2 != 0 {
		return nil, &ProgramError{Reason: fmt.Sprintf("slot count %d must be even and >= 2", slotCount)}
	}
	if start < 0 || start >= n {
		return nil, &ProgramError{Reason: fmt.Sprintf("start PC %d out of range [0,%d)", start, n)}
	}
	if findStart < 0 || findStart >= n {
		return nil, &ProgramError{Reason: fmt.Sprintf("find-start PC %d out of range [0,%d)", findStart, n)}
	}
	for i, inst := range insts {
		if inst.Out < 0 || inst.Out >= n {
			return nil, &ProgramError{Reason: fmt.Sprintf("inst %d: out PC %d out of range [0,%d)", i, inst.Out, n)}
		}
		if inst.Op == OpSplit && (inst.Alt < 0 || inst.Alt >= n) {
			return nil, &ProgramError{Reason: fmt.Sprintf("inst %d: alt PC %d out of range [0,%d)", i, inst.Alt, n)}
		}
		if inst.Op == OpSave && inst.Slot >= slotCount {
			return nil, &ProgramError{Reason: fmt.Sprintf("inst %d: slot %d out of range [0,%d)", i, inst.Slot, slotCount)}
		}
	}

	return &Program{
		Insts:     insts,
		Start:     start,
		FindStart: findStart,
		SlotCount: slotCount,
		anchored:  start == findStart,
	}, nil
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int { return len(p.Insts) }

// NumSubexp returns the number of capture groups, including group 0 (the
// whole match).
func (p *Program) NumSubexp() int { return p.SlotCount / 2 }

// IsAnchored reports whether the compiler emitted no unanchored prefix,
// i.e. Start and FindStart coincide because the pattern is inherently
// anchored.
func (p *Program) IsAnchored() bool { return p.anchored }
