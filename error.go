package rexvm

import "errors"

// ErrNilProgram is returned by New when given a nil *vm.Program.
var ErrNilProgram = errors.New("rexvm: nil program")
