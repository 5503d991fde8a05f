package vm

import (
	"fmt"

	"github.com/coregx/rexvm/bitvec"
)

// maxSimulatorInstructions bounds the Program size NewSimulator will
// allocate scratch state for. Each instruction costs one bit across
// three bit-vectors plus two cowCaptures slots (capCurrent/capNext);
// a Program past this size would commit tens of megabytes to a single
// Simulator, almost certainly from a runaway or adversarial compiler
// output rather than a real pattern.
const maxSimulatorInstructions = 1 << 20

// MatchResult is the {start, end} position pair a successful Execute
// call produces.
type MatchResult struct {
	Start int
	End   int
}

// cowCaptures is a copy-on-write capture-slot vector, shared between
// threads that fork from the same Save history until one of them writes
// a new slot. This mirrors the teacher's nfa.cowCaptures (nfa/pikevm.go),
// adapted so ownership is tracked per Program PC instead of per queued
// thread struct.
type cowCaptures struct {
	shared *sharedSlots
}

type sharedSlots struct {
	data []int
	refs int
}

// newCowCaptures allocates n slots initialized to -1 (unset).
func newCowCaptures(n int) cowCaptures {
	if n == 0 {
		return cowCaptures{}
	}
	data := make([]int, n)
	for i := range data {
		data[i] = -1
	}
	return cowCaptures{shared: &sharedSlots{data: data, refs: 1}}
}

// clone returns a reference to the same underlying data, marking it
// shared so the next write copies instead of mutating in place.
func (c cowCaptures) clone() cowCaptures {
	if c.shared == nil {
		return cowCaptures{}
	}
	c.shared.refs++
	return cowCaptures{shared: c.shared}
}

// update sets slot to value, copying the underlying data first if it is
// still shared with another thread.
func (c cowCaptures) update(slot, value int) cowCaptures {
	if c.shared == nil || slot < 0 || slot >= len(c.shared.data) {
		return c
	}
	if c.shared.refs > 1 {
		c.shared.refs--
		data := make([]int, len(c.shared.data))
		copy(data, c.shared.data)
		data[slot] = value
		return cowCaptures{shared: &sharedSlots{data: data, refs: 1}}
	}
	c.shared.data[slot] = value
	return c
}

// get returns the underlying slot data, or nil if empty.
func (c cowCaptures) get() []int {
	if c.shared == nil {
		return nil
	}
	return c.shared.data
}

// copyInto copies min(len(dst), len(data)) slots into dst.
func (c cowCaptures) copyInto(dst []int) {
	data := c.get()
	n := len(dst)
	if len(data) < n {
		n = len(data)
	}
	copy(dst[:n], data[:n])
}

// stackEntry is a closure-stack item: a PC paired with the capture
// state of the thread that reached it.
type stackEntry struct {
	pc   PC
	caps cowCaptures
}

// Simulator is a two-set, bit-vector based Thompson NFA stepper. It
// processes all live threads in lockstep, guaranteeing O(|Program| *
// |input|) worst-case time: every (PC, input position) pair is visited
// at most once.
//
// A Simulator owns its ThreadSet and closure scratch state for the
// duration of one Execute call; it is not safe for concurrent use.
// Reuse a single Simulator across many Execute calls (e.g. for repeated
// FindAll scans) to avoid reallocating its bit-vectors.
type Simulator struct {
	prog *Program
	ts   *bitvec.ThreadSet

	// closure scratch, reused across closureFrom calls within one Execute
	visited *bitvec.BitVector
	stack   []stackEntry
	seedBuf []PC

	// capCurrent/capNext hold one cowCaptures row per PC, mirroring
	// ts.Current/ts.Next: capCurrent[i] is the capture state of the
	// thread presently occupying PC i. They are swapped in lockstep with
	// ts's bit-vectors so a thread's captures travel with it across
	// input positions without ever touching another thread's row.
	capCurrent []cowCaptures
	capNext    []cowCaptures
	seedCaps   []cowCaptures

	matchEnd  int
	matchCaps cowCaptures
	hasMatch  bool

	// StepCount counts the (PC, position) pairs the epsilon-closure visits
	// across the most recent Execute call; the character step over
	// Current reads those same pairs and does not count them again. It exists solely so tests can assert the linear-time
	// bound of spec §8; it is not required for correctness and costs one
	// increment per visit.
	StepCount int
}

// NewSimulator constructs a Simulator for prog. The returned Simulator's
// internal bit-vectors are sized to prog.Len() and reused across calls.
//
// NewSimulator panics with *AllocationFailure if prog.Len() exceeds
// maxSimulatorInstructions, rather than committing to an unreasonable
// scratch-state allocation; per AllocationFailure's doc comment this
// is never silently swallowed, so the condition always surfaces to
// whatever called NewSimulator.
func NewSimulator(prog *Program) *Simulator {
	n := prog.Len()
	if n > maxSimulatorInstructions {
		panic(&AllocationFailure{
			Op:  "NewSimulator",
			Err: fmt.Errorf("program has %d instructions, exceeds limit of %d", n, maxSimulatorInstructions),
		})
	}
	return &Simulator{
		prog:       prog,
		ts:         bitvec.NewThreadSet(n),
		visited:    bitvec.New(n),
		stack:      make([]stackEntry, 0, n),
		seedBuf:    make([]PC, 0, n),
		capCurrent: make([]cowCaptures, n),
		capNext:    make([]cowCaptures, n),
		seedCaps:   make([]cowCaptures, 0, n),
	}
}

// Reset clears all simulator state, as if newly constructed. Execute
// calls Reset internally, so callers need not call it directly between
// searches; it is exposed because spec §4.2 names it as a distinct
// operation and because some callers reuse a Simulator across goroutines
// sequentially and want an explicit barrier.
func (s *Simulator) Reset() {
	s.ts.Clear()
	s.matchEnd = -1
	s.matchCaps = cowCaptures{}
	s.hasMatch = false
	s.StepCount = 0
}

// Execute runs the simulator over cursor starting at startPC, which is
// normally Program.Start (anchored match) or Program.FindStart
// (unanchored find, whose leading `.*?` is baked into the program).
//
// slots, if non-nil, receives capture positions once Execute returns
// true; it must have length >= Program.SlotCount. Internally, Execute
// always tracks the full Program.SlotCount worth of captures regardless
// of slots, since slots 0/1 (the whole-match bounds every compiled
// Program's Save(0)/Save(1) delimit, per Program's doc comment) are
// needed for MatchResult even when the caller only wants a bool.
//
// Execute reports whether a match was found; on success MatchResult
// returns the match's [start, end) bounds.
func (s *Simulator) Execute(cursor *Cursor, startPC PC, slots []int) bool {
	s.Reset()

	seed := newCowCaptures(s.prog.SlotCount)
	s.closureFrom([]PC{startPC}, []cowCaptures{seed}, s.ts.Current, s.capCurrent, cursor)

	for !cursor.IsConsumed() && !s.ts.Current.IsEmpty() {
		s.ts.Next.Clear()
		ch, _ := cursor.Current()

		s.ts.Current.Each(func(i int) {
			inst := &s.prog.Insts[i]
			switch inst.Op {
			case OpChar:
				if ch == inst.Char {
					s.transition(inst.Out, s.capCurrent[i])
				}
			case OpByteClass:
				if ch <= 0xFF && inst.Class.Contains(byte(ch)) {
					s.transition(inst.Out, s.capCurrent[i])
				}
			case OpAnyCharNotNL:
				if ch != '\n' {
					s.transition(inst.Out, s.capCurrent[i])
				}
			}
		})

		s.ts.Current.Swap(s.ts.Next)
		s.capCurrent, s.capNext = s.capNext, s.capCurrent
		cursor.Advance()
		s.recomputeClosureInPlace(cursor)
	}

	// The last closure above was computed at the cursor's final position
	// (after the last Advance, or the initial closure if the loop never
	// advanced), so end-of-input assertions ($, \b at EOI) have already
	// promoted threads into Match; closing again would revisit every
	// (PC, position) pair at that position.

	if s.hasMatch && slots != nil {
		s.matchCaps.copyInto(slots)
	}

	return s.hasMatch
}

// transition records that the thread at the consuming instruction whose
// captures are caps advances into pc for the next input position. A
// destination PC that two distinct source threads both transition into
// on the same step (only possible with overlapping character classes
// sharing a continuation) is resolved last-write-wins by Each's
// iteration order; ts.Current already de-duplicates everything upstream
// of this, so in practice this never arises for compiled programs.
func (s *Simulator) transition(pc PC, caps cowCaptures) {
	s.ts.Next.Set(int(pc))
	s.capNext[pc] = caps
}

// recomputeClosureInPlace re-derives ts.Current as the epsilon-closure
// of its own current members: copy current into scratch, clear current,
// then closure scratch's members into current.
func (s *Simulator) recomputeClosureInPlace(cursor *Cursor) {
	if s.ts.Current.IsEmpty() {
		return
	}
	s.ts.Scratch.CopyFrom(s.ts.Current)
	s.ts.Current.Clear()

	s.seedBuf = s.seedBuf[:0]
	s.seedCaps = s.seedCaps[:0]
	s.ts.Scratch.Each(func(i int) {
		s.seedBuf = append(s.seedBuf, PC(i))
		s.seedCaps = append(s.seedCaps, s.capCurrent[i])
	})

	s.closureFrom(s.seedBuf, s.seedCaps, s.ts.Current, s.capCurrent, cursor)
}

// closureFrom computes the epsilon-closure of seeds into out, using an
// explicit stack so cyclic epsilon graphs terminate (each PC is pushed
// at most once per call, via the visited bit-vector) rather than risking
// unbounded recursion on adversarial programs. capRow receives the
// capture state of whichever thread reaches each newly-visited PC.
//
// Split's two branches are pushed in reverse priority order (Alt then
// Out) so that on a LIFO stack, Out — the higher-priority branch — is
// popped and its entire reachable subgraph is explored before Alt is
// touched at all. This reproduces the leftmost-first semantics of a
// naive recursive closure (explore(out); explore(alt)) without using
// the call stack. Because visited is checked before a PC is (re-)pushed,
// whichever branch reaches a given Save or Match instruction first wins
// — which, under this ordering, is always the higher-priority thread.
//
// Each PC's captures are its own cowCaptures row (capRow), not a single
// shared array: a thread revisiting Save(0) to start a fresh unanchored
// attempt at a later PC generation only ever writes its own row, so it
// can never clobber the slots already recorded by an unrelated,
// still-live, higher-priority thread sitting at a different PC.
func (s *Simulator) closureFrom(seeds []PC, seedCaps []cowCaptures, out *bitvec.BitVector, capRow []cowCaptures, cursor *Cursor) {
	s.visited.Clear()
	s.stack = s.stack[:0]

	for i, seed := range seeds {
		s.pushIfUnvisited(seed, seedCaps[i], capRow)
	}

	for len(s.stack) > 0 {
		s.StepCount++
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		inst := &s.prog.Insts[top.pc]
		switch inst.Op {
		case OpJump:
			s.pushIfUnvisited(inst.Out, top.caps, capRow)

		case OpSplit:
			s.pushIfUnvisited(inst.Alt, top.caps.clone(), capRow)
			s.pushIfUnvisited(inst.Out, top.caps.clone(), capRow)

		case OpSave:
			next := top.caps.update(inst.Slot, cursor.Pos())
			s.pushIfUnvisited(inst.Out, next, capRow)

		case OpEmptyMatch:
			if cursor.IsEmptyMatch(inst.Assert) {
				s.pushIfUnvisited(inst.Out, top.caps, capRow)
			}

		case OpMatch:
			// A thread that started later than the recorded match does
			// not replace it, so the recorded match stays the leftmost.
			if prev, cur := s.matchCaps.get(), top.caps.get(); s.hasMatch && len(prev) > 0 && len(cur) > 0 && cur[0] > prev[0] {
				break
			}
			s.matchEnd = cursor.Pos()
			s.hasMatch = true
			s.matchCaps = top.caps

		case OpChar, OpByteClass, OpAnyCharNotNL:
			// Leaf of the closure: a consuming instruction stays marked
			// visited (so it's added to out) but does not transition
			// further on epsilon. Its row was already recorded by
			// pushIfUnvisited.
		}
	}

	out.UnionWith(s.visited)
}

func (s *Simulator) pushIfUnvisited(pc PC, caps cowCaptures, capRow []cowCaptures) {
	if s.visited.Get(int(pc)) {
		return
	}
	s.visited.Set(int(pc))
	capRow[pc] = caps
	s.stack = append(s.stack, stackEntry{pc: pc, caps: caps})
}

// MatchResult returns the match bounds found by the most recent Execute
// call, if any. Start is read from the winning thread's own slot 0,
// recorded via Save(0) (mandated by Program's compiler contract), not
// from a single globally-shared position — so it reflects the match
// that actually won, not whichever thread happened to run last.
func (s *Simulator) MatchResult() (MatchResult, bool) {
	if !s.hasMatch {
		return MatchResult{}, false
	}
	start := 0
	if data := s.matchCaps.get(); len(data) > 0 {
		start = data[0]
	}
	return MatchResult{Start: start, End: s.matchEnd}, true
}
