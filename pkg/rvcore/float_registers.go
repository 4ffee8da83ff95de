package rvcore

import "math"

// FloatRegisters holds the 32 64-bit FP cells f0..f31. Single-precision
// values are stored by composition: the low 32 bits hold the f32 value,
// the high 32 bits are whatever was previously there (preserved, not
// NaN-boxed). Grounded on
// original_source/crates/core/src/rv_core/registers/float.rs plus the
// decompose/compose pair in arbitrary_float.rs.
type FloatRegisters struct {
	regs [32]uint64 // raw bit patterns, interpreted as f64 or composed f32
}

// GetF64 reads register n as a double.
func (r *FloatRegisters) GetF64(n int) float64 {
	return math.Float64frombits(r.regs[n])
}

// SetF64 writes a double into register n, replacing the full 64 bits.
func (r *FloatRegisters) SetF64(n int, v float64) {
	r.regs[n] = math.Float64bits(v)
}

// GetF32 reads register n as a single, decomposing the low 32 bits.
func (r *FloatRegisters) GetF32(n int) float32 {
	f32, _ := decompose(r.GetF64(n))
	return f32
}

// SetF32 writes a single into register n, composing it with whatever
// upper 32 bits were already present — per spec.md §3, the untouched
// upper bits are preserved, not canonicalized to a NaN box.
func (r *FloatRegisters) SetF32(n int, v float32) {
	_, hi := decompose(r.GetF64(n))
	r.regs[n] = math.Float64bits(compose(v, hi))
}

// Snapshot returns a by-value copy of f0..f31 as doubles (the raw bit
// patterns reinterpreted, matching the Rust [f64; 32] snapshot shape).
func (r *FloatRegisters) Snapshot() [32]float64 {
	var out [32]float64
	for i, bits := range r.regs {
		out[i] = math.Float64frombits(bits)
	}
	return out
}

// decompose splits a float64 bit pattern into its low 32 bits (as an f32)
// and its high 32 bits, per spec.md §3's compose/decompose contract.
func decompose(f float64) (float32, uint32) {
	bits := math.Float64bits(f)
	lo := uint32(bits)
	hi := uint32(bits >> 32)
	return math.Float32frombits(lo), hi
}

// compose rebuilds a float64 bit pattern from an f32 value and the high
// 32 bits to preserve.
func compose(v float32, hi uint32) float64 {
	combined := (uint64(hi) << 32) | uint64(math.Float32bits(v))
	return math.Float64frombits(combined)
}
