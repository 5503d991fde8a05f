// Package prefilter provides fast candidate filtering for regex search
// using the literal candidates extracted from a compiled Program.
//
// A prefilter is used to quickly reject positions in the haystack that
// cannot possibly match the full pattern. This gives a dramatic speedup
// for patterns with a usable literal, since a prefilter scan runs ahead
// of the full NFA simulation instead of driving it at every position.
//
// The package selects a strategy based on the best literal.Candidate a
// Program yields (spec §4.4):
//
//   - candidate length < 3          -> no prefilter (nil)
//   - candidate length 3..4         -> fixedStringPrefilter (naive scan)
//   - candidate length >= 5         -> boyerMoorePrefilter
//   - 2+ independent candidates     -> ahoCorasickPrefilter
//
// Example usage:
//
//	cands := literal.Extract(prog)
//	pf := prefilter.New(cands)
//	if pf != nil {
//	    pos := pf.Find(haystack, 0)
//	    if pos != -1 && pf.IsComplete() {
//	        // pos, pos+pf.LiteralLen() is a verified match
//	    }
//	}
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/rexvm/boyermoore"
	"github.com/coregx/rexvm/literal"
)

// Prefilter is used to quickly find candidate match positions before
// running the full NFA simulator.
//
// The prefilter scans the haystack for literals extracted from the
// pattern. When a literal is found, that position is returned as a
// candidate; the simulator must still verify a full match exists there,
// unless IsComplete reports the candidate is itself sufficient.
type Prefilter interface {
	// Find returns the index of the first candidate match at or after
	// start, or -1 if none exists.
	Find(haystack []byte, start int) int

	// IsComplete reports whether a Find hit guarantees a full match,
	// letting the caller skip NFA verification entirely.
	IsComplete() bool

	// LiteralLen returns the length of the matched literal when
	// IsComplete is true; 0 otherwise.
	LiteralLen() int

	// HeapBytes returns the heap memory this Prefilter holds, for
	// profiling and memory budgeting.
	HeapBytes() int
}

// New selects and builds the best Prefilter for cands, or returns nil if
// no candidate is usable. cands is typically literal.Extract's output.
func New(cands []literal.Candidate) Prefilter {
	if alternatives := viableAlternatives(cands); len(alternatives) >= 2 {
		if pf := newAhoCorasickPrefilter(alternatives); pf != nil {
			return pf
		}
	}

	best, ok := literal.Best(anchoredCandidates(cands))
	if !ok || len(best.Bytes) < 3 {
		return nil
	}

	complete := best.Position == literal.Standalone
	if len(best.Bytes) >= 5 {
		return newBoyerMoorePrefilter(best.Bytes, complete)
	}
	return newFixedStringPrefilter(best.Bytes, complete)
}

// anchoredCandidates keeps only Standalone/Prefix candidates: a Find hit
// for either is known to sit exactly at the match's start, which is what
// lets the caller anchor an NFA retry there. Middle/Suffix candidates
// are real substrings of the match but not valid start-position hints --
// the match can begin well before an interior literal -- so they are
// excluded here rather than risk unsound narrowing.
func anchoredCandidates(cands []literal.Candidate) []literal.Candidate {
	var out []literal.Candidate
	for _, c := range cands {
		if c.Position == literal.Standalone || c.Position == literal.Prefix {
			out = append(out, c)
		}
	}
	return out
}

// viableAlternatives returns the candidates long enough, and positioned
// usefully enough, to represent independent branches of an alternation
// -- but only when there are at least two, distinguishing a genuine
// alternation from one dominant literal accompanied by weaker candidates
// elsewhere in the program.
func viableAlternatives(cands []literal.Candidate) []literal.Candidate {
	var viable []literal.Candidate
	for _, c := range cands {
		if len(c.Bytes) >= 3 && (c.Position == literal.Standalone || c.Position == literal.Prefix) {
			viable = append(viable, c)
		}
	}
	if len(viable) < 2 {
		return nil
	}
	return viable
}

// fixedStringPrefilter performs a naive substring scan for short
// literals (length 3-4), where Boyer-Moore's bad-character table isn't
// worth the setup cost (spec §4.4).
type fixedStringPrefilter struct {
	needle   []byte
	complete bool
}

func newFixedStringPrefilter(needle []byte, complete bool) Prefilter {
	needleCopy := make([]byte, len(needle))
	copy(needleCopy, needle)
	return &fixedStringPrefilter{needle: needleCopy, complete: complete}
}

func (p *fixedStringPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], p.needle)
	if idx < 0 {
		return -1
	}
	return start + idx
}

func (p *fixedStringPrefilter) IsComplete() bool { return p.complete }

func (p *fixedStringPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

func (p *fixedStringPrefilter) HeapBytes() int { return len(p.needle) }

// boyerMoorePrefilter wraps boyermoore.Matcher as a Prefilter, used for
// literals of length >= 5 (spec §4.4).
type boyerMoorePrefilter struct {
	m        *boyermoore.Matcher
	complete bool
}

func newBoyerMoorePrefilter(needle []byte, complete bool) Prefilter {
	return &boyerMoorePrefilter{m: boyermoore.New(needle), complete: complete}
}

func (p *boyerMoorePrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) {
		return -1
	}
	idx, ok := p.m.Search(haystack[start:])
	if !ok {
		return -1
	}
	return start + idx
}

func (p *boyerMoorePrefilter) IsComplete() bool { return p.complete }

func (p *boyerMoorePrefilter) LiteralLen() int {
	if p.complete {
		return len(p.m.Pattern())
	}
	return 0
}

func (p *boyerMoorePrefilter) HeapBytes() int { return len(p.m.Pattern()) + 256*8 }

// ahoCorasickPrefilter wraps an ahocorasick.Automaton as a Prefilter,
// used when a Program carries several independent literal candidates
// (e.g. "cat|dog|bird") that a single-pattern matcher can't represent.
type ahoCorasickPrefilter struct {
	auto *ahocorasick.Automaton
}

func newAhoCorasickPrefilter(cands []literal.Candidate) Prefilter {
	builder := ahocorasick.NewBuilder()
	for _, c := range cands {
		builder.AddPattern(c.Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{auto: auto}
}

func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsComplete is always false: New only builds an AhoCorasick prefilter
// from Prefix/Standalone candidates belonging to an alternation, never
// from a single literal known to cover the whole pattern, so the
// simulator must always verify.
func (p *ahoCorasickPrefilter) IsComplete() bool { return false }

func (p *ahoCorasickPrefilter) LiteralLen() int { return 0 }

func (p *ahoCorasickPrefilter) HeapBytes() int { return 0 }
