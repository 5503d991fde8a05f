package rexvm

import "github.com/coregx/rexvm/vm"

// Config carries the few knobs the engine façade needs. It deliberately
// has no DFA-cache-size or determinization-limit fields -- those belong
// to the lazy-DFA layer this module does not implement.
type Config struct {
	// Multiline makes ^ and $ (BeginLine/EndLine) match at internal
	// line boundaries, not just the start and end of the whole input.
	Multiline bool

	// Mode selects whether the cursor advances byte-at-a-time or
	// decodes UTF-8 sequences.
	Mode vm.CursorMode

	// DisablePrefilter forces every search through the NFA simulator
	// unconditionally, bypassing literal-candidate extraction. Useful
	// for fuzzing or benchmarking the simulator in isolation.
	DisablePrefilter bool
}

// DefaultConfig returns the standard Config to pass to New: UTF-8 mode,
// single-line anchors, prefilter enabled.
func DefaultConfig() Config {
	return Config{Mode: vm.UTF8}
}
