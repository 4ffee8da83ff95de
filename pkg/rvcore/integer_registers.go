package rvcore

// IntegerRegisters holds x1..x31; x0 is virtual, always reading 0 with
// writes discarded. Grounded on
// original_source/crates/core/src/rv_core/registers/integer.rs, whose
// Rust Index/IndexMut impl routes index 0 to a throwaway static cell; Go
// expresses the same guard directly in Get/Set without needing that
// workaround (see DESIGN.md).
type IntegerRegisters struct {
	regs [31]uint64
}

// NewIntegerRegisters initializes SP (x2) to memSize-1, per spec.md §3.
func NewIntegerRegisters(memSize int) *IntegerRegisters {
	r := &IntegerRegisters{}
	r.Set(RegSP, uint64(memSize-1))
	return r
}

// Get reads register n; x0 always reads 0.
func (r *IntegerRegisters) Get(n int) uint64 {
	if n == 0 {
		return 0
	}
	return r.regs[n-1]
}

// Set writes register n; writes to x0 are silently discarded.
func (r *IntegerRegisters) Set(n int, value uint64) {
	if n == 0 {
		return
	}
	r.regs[n-1] = value
}

// Snapshot returns a by-value copy of x0..x31.
func (r *IntegerRegisters) Snapshot() [32]uint64 {
	var out [32]uint64
	copy(out[1:], r.regs[:])
	return out
}
