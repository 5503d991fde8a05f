package literal

import (
	"testing"

	"github.com/coregx/rexvm/vm"
)

func progFor(t *testing.T, insts []vm.Instruction, start vm.PC) *vm.Program {
	t.Helper()
	p, err := vm.NewProgram(insts, start, start, 2)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	return p
}

// helloProgram builds Save(0) 'h' 'e' 'l' 'l' 'o' Save(1) Match, the
// compiler contract's shape for the exact pattern /hello/.
func helloProgram(t *testing.T) *vm.Program {
	word := "hello"
	insts := make([]vm.Instruction, 0, len(word)+3)
	insts = append(insts, vm.Instruction{Op: vm.OpSave, Slot: 0, Out: 1})
	for i, c := range word {
		insts = append(insts, vm.Instruction{Op: vm.OpChar, Char: c, Out: vm.PC(len(insts) + 1)})
		_ = i
	}
	insts = append(insts, vm.Instruction{Op: vm.OpSave, Slot: 1, Out: vm.PC(len(insts) + 1)})
	insts = append(insts, vm.Instruction{Op: vm.OpMatch})
	return progFor(t, insts, 0)
}

func TestExtract_StandaloneLiteral(t *testing.T) {
	prog := helloProgram(t)
	cands := Extract(prog)
	if len(cands) != 1 {
		t.Fatalf("expected exactly one candidate, got %d: %+v", len(cands), cands)
	}
	c := cands[0]
	if string(c.Bytes) != "hello" {
		t.Errorf("Bytes = %q, want %q", c.Bytes, "hello")
	}
	if c.Position != Standalone {
		t.Errorf("Position = %v, want Standalone", c.Position)
	}
	if c.MinLen != 5 || c.MaxLen != 5 {
		t.Errorf("MinLen/MaxLen = %d/%d, want 5/5", c.MinLen, c.MaxLen)
	}
}

func TestExtract_PrefixWhenFollowedByBranch(t *testing.T) {
	// "ab(c|d)": Char a -> Char b -> Split(c,d) -> Match
	insts := []vm.Instruction{
		{Op: vm.OpChar, Char: 'a', Out: 1},
		{Op: vm.OpChar, Char: 'b', Out: 2},
		{Op: vm.OpSplit, Out: 3, Alt: 4},
		{Op: vm.OpChar, Char: 'c', Out: 5},
		{Op: vm.OpChar, Char: 'd', Out: 5},
		{Op: vm.OpMatch},
	}
	prog := progFor(t, insts, 0)
	cands := Extract(prog)

	var found bool
	for _, c := range cands {
		if string(c.Bytes) == "ab" {
			found = true
			if c.Position != Prefix {
				t.Errorf("Position = %v, want Prefix", c.Position)
			}
		}
	}
	if !found {
		t.Fatalf("expected an \"ab\" candidate, got %+v", cands)
	}
}

func TestExtract_AssertionBlocksStandalone(t *testing.T) {
	// "^x": EmptyMatch(BeginText) -> Char 'x' -> Match. The candidate
	// should be Prefix (still useful), not Standalone (can't bypass
	// verification of the assertion).
	insts := []vm.Instruction{
		{Op: vm.OpEmptyMatch, Assert: vm.BeginText, Out: 1},
		{Op: vm.OpChar, Char: 'x', Out: 2},
		{Op: vm.OpMatch},
	}
	prog := progFor(t, insts, 0)
	cands := Extract(prog)
	if len(cands) != 1 {
		t.Fatalf("expected one candidate, got %+v", cands)
	}
	if cands[0].Position == Standalone {
		t.Error("a run crossing an assertion must not be marked Standalone")
	}
}

// altProgram builds a Program for /cat|dog|bird/: a two-way Split whose
// Alt arm is itself a further Split, so three literal alternatives each
// reach Match directly with no shared prefix -- the shape viableAlternatives
// needs to pick AhoCorasick over a single dominant literal.
func altProgram(t *testing.T) *vm.Program {
	t.Helper()
	insts := []vm.Instruction{
		{Op: vm.OpSplit, Out: 1, Alt: 4},  // 0
		{Op: vm.OpChar, Char: 'c', Out: 2}, // 1: "cat"
		{Op: vm.OpChar, Char: 'a', Out: 3},
		{Op: vm.OpChar, Char: 't', Out: 12},
		{Op: vm.OpSplit, Out: 5, Alt: 8}, // 4
		{Op: vm.OpChar, Char: 'd', Out: 6}, // 5: "dog"
		{Op: vm.OpChar, Char: 'o', Out: 7},
		{Op: vm.OpChar, Char: 'g', Out: 12},
		{Op: vm.OpChar, Char: 'b', Out: 9}, // 8: "bird"
		{Op: vm.OpChar, Char: 'i', Out: 10},
		{Op: vm.OpChar, Char: 'r', Out: 11},
		{Op: vm.OpChar, Char: 'd', Out: 12},
		{Op: vm.OpMatch}, // 12
	}
	return progFor(t, insts, 0)
}

func TestExtract_AlternationProducesMultipleStandaloneCandidates(t *testing.T) {
	prog := altProgram(t)
	cands := Extract(prog)

	viable := 0
	seen := map[string]bool{}
	for _, c := range cands {
		seen[string(c.Bytes)] = true
		if (c.Position == Standalone || c.Position == Prefix) && len(c.Bytes) >= 3 {
			viable++
		}
	}
	if viable < 2 {
		t.Fatalf("expected >=2 viable Standalone/Prefix candidates from a real alternation, got %d: %+v", viable, cands)
	}
	for _, want := range []string{"cat", "dog", "bird"} {
		if !seen[want] {
			t.Errorf("expected a %q candidate, got %+v", want, cands)
		}
	}
}

func TestCandidate_Score(t *testing.T) {
	short := Candidate{Bytes: []byte("ab"), Position: Middle, MinLen: 2, MaxLen: 2}
	long := Candidate{Bytes: []byte("hello"), Position: Standalone, MinLen: 5, MaxLen: 5}
	if long.Score() <= short.Score() {
		t.Errorf("longer standalone candidate should outscore a short middle one: %d vs %d", long.Score(), short.Score())
	}

	best, ok := Best([]Candidate{short, long})
	if !ok || string(best.Bytes) != "hello" {
		t.Fatalf("Best() = %+v, want the \"hello\" candidate", best)
	}
}
