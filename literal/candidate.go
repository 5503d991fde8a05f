// Package literal extracts literal byte-sequence candidates from a
// compiled vm.Program and scores them so the prefilter package can pick
// the fastest available search strategy (spec §4.4).
//
// Unlike the teacher's literal package, which walks a regexp/syntax AST
// (a collaborator this module's spec explicitly places out of scope —
// see spec §1), Extract walks the compiled bytecode directly: a Program
// is the only artifact this module is guaranteed to receive from its
// compiler collaborator. See DESIGN.md for why this is the grounded
// choice rather than a gap.
package literal

// Position classifies where a literal candidate can occur relative to
// the whole match.
type Position uint8

const (
	// Standalone means the candidate IS the entire match: no other
	// instruction in the program consumes input outside the literal run,
	// and no assertion needs separate verification.
	Standalone Position = iota
	// Prefix means the candidate must appear at the start of the match,
	// but more of the pattern follows it.
	Prefix
	// Suffix means the candidate must appear at the end of the match,
	// but more of the pattern precedes it.
	Suffix
	// Middle means the candidate is a necessary substring with pattern
	// material on both sides.
	Middle
)

func (p Position) String() string {
	switch p {
	case Standalone:
		return "Standalone"
	case Prefix:
		return "Prefix"
	case Suffix:
		return "Suffix"
	case Middle:
		return "Middle"
	default:
		return "Unknown"
	}
}

// Candidate is a literal byte sequence extracted from a Program, scored
// for prefilter strategy selection.
type Candidate struct {
	Bytes    []byte
	Position Position
	MinLen   int
	MaxLen   int
	Greedy   bool
}

// Score combines length, position, fixed-length, and greediness bonuses
// exactly as spec §4.4 specifies:
//
//	length weight:     10 per byte
//	position bonus:    Standalone/Prefix +50, Suffix +20, Middle +10
//	fixed-length bonus: +30 when MinLen == MaxLen
//	greedy bonus:      +5
func (c Candidate) Score() int {
	score := len(c.Bytes) * 10

	switch c.Position {
	case Standalone, Prefix:
		score += 50
	case Suffix:
		score += 20
	case Middle:
		score += 10
	}

	if c.MinLen == c.MaxLen {
		score += 30
	}
	if c.Greedy {
		score += 5
	}

	return score
}

// Best returns the highest-scoring candidate in cands, or the zero
// Candidate and false if cands is empty.
func Best(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Score() > best.Score() {
			best = c
		}
	}
	return best, true
}
