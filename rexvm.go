// Package rexvm binds the bytecode VM, its bit-vector thread sets, and
// the literal prefilter into a small matching façade.
//
// rexvm does not parse pattern syntax: a Program is the only artifact
// it consumes, built by whatever AST→bytecode compiler a caller plugs
// in upstream (see Compiler). This mirrors the teacher's own engine/
// façade split, with the parser layer replaced by a documented seam
// instead of reimplemented.
//
// Basic usage:
//
//	prog := /* built by a compiler satisfying the vm.Program contract */
//	re, err := rexvm.New(prog, rexvm.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if re.Match([]byte("hello 123")) {
//	    println("matched")
//	}
package rexvm

import (
	"github.com/coregx/rexvm/literal"
	"github.com/coregx/rexvm/prefilter"
	"github.com/coregx/rexvm/vm"
)

// Compiler is the collaborator that turns pattern syntax into a
// *vm.Program. rexvm does not implement one -- New takes an
// already-compiled Program so any compiler satisfying this shape can be
// plugged in without this module depending on a parser.
type Compiler interface {
	Compile(pattern string) (*vm.Program, error)
}

// Regex binds a compiled Program to the simulator and prefilter needed
// to answer Match/Find/Captures queries against input bytes.
//
// A Regex is safe for concurrent use: Match/Find/Captures each allocate
// their own Simulator and Cursor per call, sharing only the immutable
// Program and Prefilter.
type Regex struct {
	prog *vm.Program
	pf   prefilter.Prefilter
	cfg  Config
}

// New builds a Regex around an already-compiled Program. It extracts
// literal candidates from prog and selects a prefilter strategy unless
// cfg.DisablePrefilter is set.
func New(prog *vm.Program, cfg Config) (*Regex, error) {
	if prog == nil {
		return nil, ErrNilProgram
	}
	re := &Regex{prog: prog, cfg: cfg}
	if !cfg.DisablePrefilter {
		if pf := prefilter.New(literal.Extract(prog)); pf != nil {
			re.pf = prefilter.WrapWithTracking(pf)
		}
	}
	return re, nil
}

// confirmMatch reports a verified match back to the prefilter's
// effectiveness tracker, if it is tracked. A prefilter that keeps
// producing candidates the simulator rejects is worse than no
// prefilter at all; Tracker uses this signal to retire itself once its
// confirm ratio falls below threshold (prefilter.DefaultTrackerConfig).
func (r *Regex) confirmMatch() {
	if tp, ok := r.pf.(*prefilter.TrackedPrefilter); ok {
		tp.ConfirmMatch()
	}
}

// NumSubexp returns the number of capture groups, including group 0
// (the whole match).
func (r *Regex) NumSubexp() int { return r.prog.NumSubexp() }

// Match reports whether b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	_, ok := r.find(b, 0, nil)
	return ok
}

// Find returns the leftmost match in b, or ok=false if there is none.
func (r *Regex) Find(b []byte) (Match, bool) {
	return r.find(b, 0, nil)
}

// FindFrom returns the leftmost match in b at or after from, or
// ok=false if there is none.
func (r *Regex) FindFrom(b []byte, from int) (Match, bool) {
	return r.find(b, from, nil)
}

// Captures returns the leftmost match in b together with its capture
// groups, or ok=false if there is none.
func (r *Regex) Captures(b []byte) (*Captures, bool) {
	slots := make([]int, r.prog.SlotCount)
	for i := range slots {
		slots[i] = -1
	}
	if _, ok := r.find(b, 0, slots); !ok {
		return nil, false
	}
	return &Captures{slots: slots}, true
}

// FindAll returns every successive, non-overlapping match in b. If
// n >= 0, at most n matches are returned.
func (r *Regex) FindAll(b []byte, n int) []Match {
	if n == 0 {
		return nil
	}
	var matches []Match
	pos := 0
	for pos <= len(b) {
		m, ok := r.find(b, pos, nil)
		if !ok {
			break
		}
		matches = append(matches, m)
		if m.End > pos {
			pos = m.End
		} else {
			pos++ // empty match: advance by one to avoid looping forever
		}
		if n > 0 && len(matches) >= n {
			break
		}
	}
	return matches
}

// find is the shared implementation behind Match/Find/Captures. When
// slots is non-nil it must already be sized to prog.SlotCount and is
// filled with the winning thread's capture offsets.
func (r *Regex) find(b []byte, from int, slots []int) (Match, bool) {
	if slots == nil && r.prog.SlotCount > 0 {
		slots = make([]int, r.prog.SlotCount)
	}
	if r.pf != nil {
		if m, ok := r.findWithPrefilter(b, from, slots); ok {
			return m, true
		}
		return Match{}, false
	}
	return r.findUnanchored(b, from, slots)
}

// findUnanchored runs the simulator from FindStart, which the compiler
// contract encodes as an implicit ".*?" prefix: a single Execute call
// already finds the leftmost match anywhere at or after from.
//
// The match bounds are read from slots[0]/slots[1] -- the Save(0)/
// Save(1) pair every Program's compiler contract guarantees delimit the
// whole match (vm.Program's doc comment) -- which Execute fills from the
// winning thread's own captures.
func (r *Regex) findUnanchored(b []byte, from int, slots []int) (Match, bool) {
	cur := vm.NewCursor(b, r.cfg.Mode, r.cfg.Multiline)
	cur.Reset(from)
	sim := vm.NewSimulator(r.prog)
	if !sim.Execute(cur, r.prog.FindStart, slots) {
		return Match{}, false
	}
	return Match{Start: slots[0], End: slots[1]}, true
}

// findWithPrefilter narrows the search using the literal candidate(s)
// rexvm extracted from the Program. The prefilter only ever reports
// Standalone or Prefix-position candidates (see prefilter.New), so a
// hit's start is always a valid anchor for the Program's Start entry
// point: if the anchored attempt fails, the literal's next occurrence
// is tried, never an earlier position. Once the prefilter's tracker has
// retired it, the rest of b is searched with findUnanchored instead.
func (r *Regex) findWithPrefilter(b []byte, from int, slots []int) (Match, bool) {
	pos := from
	for {
		start := r.pf.Find(b, pos)
		if start < 0 {
			// A retired tracker reports no candidates at all.
			if tp, ok := r.pf.(*prefilter.TrackedPrefilter); ok && !tp.IsActive() {
				return r.findUnanchored(b, pos, slots)
			}
			return Match{}, false
		}
		if r.pf.IsComplete() {
			end := start + r.pf.LiteralLen()
			if slots != nil {
				if len(slots) > 0 {
					slots[0] = start
				}
				if len(slots) > 1 {
					slots[1] = end
				}
			}
			r.confirmMatch()
			return Match{Start: start, End: end}, true
		}

		for i := range slots {
			slots[i] = -1
		}
		cur := vm.NewCursor(b, r.cfg.Mode, r.cfg.Multiline)
		cur.Reset(start)
		sim := vm.NewSimulator(r.prog)
		if sim.Execute(cur, r.prog.Start, slots) {
			r.confirmMatch()
			return Match{Start: slots[0], End: slots[1]}, true
		}
		pos = start + 1
	}
}
