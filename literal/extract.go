package literal

import "github.com/coregx/rexvm/vm"

// Extract walks prog's instruction stream and returns every maximal
// literal byte run it can find, classified by Position.
//
// A run is a chain of single-byte-consuming instructions (Char with a
// value <= 0xFF, or a ByteClass containing exactly one byte) connected
// directly through transparent control-flow instructions (Jump, Save,
// EmptyMatch). The run ends at a Split (a branch — the pattern diverges,
// so nothing past this point is a guaranteed literal), a Match, or a
// non-literal consuming instruction (AnyCharNotNL, a multi-byte Char, or
// a ByteClass with more than one byte).
//
// A run only qualifies as Standalone — safe for the prefilter to accept
// outright without engine verification (spec §4.4) — when it started at
// the program's start, ends at Match, and never passed through an
// EmptyMatch assertion; an assertion needs the cursor's actual position
// to verify; a literal-only scan can't check it, so such a run is
// reported as Prefix or Suffix instead (still a useful narrowing hint,
// just not a bypass).
func Extract(prog *vm.Program) []Candidate {
	n := prog.Len()
	consumed := make([]bool, n)
	starts := reachableRunStarts(prog)

	var out []Candidate
	for pc := vm.PC(0); int(pc) < n; pc++ {
		var passedAssertion bool
		runStart := skipTransparent(prog, pc, &passedAssertion)
		if consumed[int(runStart)] {
			continue
		}
		if _, ok := literalByte(prog, runStart); !ok {
			continue
		}

		var bytes []byte
		cur := runStart
		for {
			b, ok := literalByte(prog, cur)
			if !ok {
				break
			}
			bytes = append(bytes, b)
			consumed[int(cur)] = true
			next := skipTransparent(prog, prog.Insts[cur].Out, &passedAssertion)
			cur = next
		}
		if len(bytes) == 0 {
			continue
		}

		isPrefix := starts[runStart]
		endsAtMatch := prog.Insts[cur].Op == vm.OpMatch

		pos := Middle
		switch {
		case isPrefix && endsAtMatch && !passedAssertion:
			pos = Standalone
		case isPrefix:
			pos = Prefix
		case endsAtMatch:
			pos = Suffix
		}

		out = append(out, Candidate{
			Bytes:    bytes,
			Position: pos,
			MinLen:   len(bytes),
			MaxLen:   len(bytes),
		})
	}
	return out
}

// literalByte reports the single byte an instruction deterministically
// consumes, if any.
func literalByte(prog *vm.Program, pc vm.PC) (byte, bool) {
	inst := &prog.Insts[pc]
	switch inst.Op {
	case vm.OpChar:
		if inst.Char >= 0 && inst.Char <= 0xFF {
			return byte(inst.Char), true
		}
	case vm.OpByteClass:
		if len(inst.Class.Ranges) == 1 && inst.Class.Ranges[0].Lo == inst.Class.Ranges[0].Hi {
			return inst.Class.Ranges[0].Lo, true
		}
	}
	return 0, false
}

// reachableRunStarts returns every PC a literal run can begin at
// directly from prog.Start without having consumed any input: the
// epsilon-closure of prog.Start across Jump, Save, EmptyMatch and
// Split. Split must be followed into both branches here -- unlike
// skipTransparent, which only resolves one fixed chain -- so that each
// alternative of a compiled alternation ("cat|dog|bird") is recognized
// as its own valid Prefix/Standalone anchor instead of only the first
// branch the compiler happened to emit.
func reachableRunStarts(prog *vm.Program) map[vm.PC]bool {
	starts := make(map[vm.PC]bool)
	visited := make([]bool, prog.Len())
	stack := []vm.PC{prog.Start}

	for len(stack) > 0 {
		pc := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[int(pc)] {
			continue
		}
		visited[int(pc)] = true

		inst := &prog.Insts[pc]
		switch inst.Op {
		case vm.OpJump, vm.OpSave, vm.OpEmptyMatch:
			stack = append(stack, inst.Out)
		case vm.OpSplit:
			stack = append(stack, inst.Out, inst.Alt)
		default:
			starts[pc] = true
		}
	}
	return starts
}

// skipTransparent follows Jump/Save/EmptyMatch chains (which consume no
// input) to the next consuming-or-branching instruction. If assertion
// points to a non-nil bool, it is set to true when an EmptyMatch was
// passed through. Epsilon cycles are bounded by the program length.
func skipTransparent(prog *vm.Program, pc vm.PC, assertion *bool) vm.PC {
	n := prog.Len()
	for steps := 0; steps < n; steps++ {
		inst := &prog.Insts[pc]
		switch inst.Op {
		case vm.OpJump, vm.OpSave:
			pc = inst.Out
		case vm.OpEmptyMatch:
			if assertion != nil {
				*assertion = true
			}
			pc = inst.Out
		default:
			return pc
		}
	}
	return pc
}
