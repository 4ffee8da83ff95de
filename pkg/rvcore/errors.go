package rvcore

import "errors"

// The following sentinel errors may be returned by Step and by the
// register/memory accessors it calls into. Callers should use errors.Is
// to test for a specific condition; diagnostics are wrapped with extra
// context via fmt.Errorf("%w: ...").
var (
	// ErrReadOnlyCSR indicates a write to a read-only control/status register.
	ErrReadOnlyCSR = errors.New("rvcore: write to read-only csr")

	// ErrReservedVType indicates a vset* instruction encoded a reserved
	// vtype (vsew=1xx, vlmul=100, or a nonzero bit above bit 7).
	ErrReservedVType = errors.New("rvcore: reserved vtype encoding")

	// ErrLMULOverflow indicates a widening vector op would need LMUL>8.
	ErrLMULOverflow = errors.New("rvcore: widening operation exceeds lmul=8")

	// ErrSEWRange indicates an operation requires SEW outside what it supports
	// (e.g. narrowing below the representable range, or FP SEW not in {32,64}).
	ErrSEWRange = errors.New("rvcore: sew out of range for operation")

	// ErrEMULRange indicates a unit-stride vector load/store computed an
	// EMUL outside [1/8, 8].
	ErrEMULRange = errors.New("rvcore: emul out of range")

	// ErrMemoryFault indicates an out-of-bounds memory access.
	ErrMemoryFault = errors.New("rvcore: memory fault")

	// ErrFaultOnFirst indicates a fault-only-first load faulted on its
	// very first element, which is fatal (unlike later elements).
	ErrFaultOnFirst = errors.New("rvcore: fault on first element of fault-only-first load")

	// ErrUnsupportedInstruction indicates the executor has no semantic
	// implementation for the given instruction value.
	ErrUnsupportedInstruction = errors.New("rvcore: unsupported instruction")

	// ErrHalted names the halted state, mirroring the teacher's ErrHalted
	// sentinel. Step itself reports a PC that has walked off the
	// instruction stream as (StepHalted, nil) and does not return it.
	ErrHalted = errors.New("rvcore: halted")
)
