package rvcore

// VectorRegisters is the flat byte buffer backing all 32 vector
// registers: register n occupies bytes [n*VLEN/8, (n+1)*VLEN/8).
// Grounded on
// original_source/crates/core/src/rv_core/registers/vector/vreg.rs,
// generalized from a per-register Vec<u8> (Vreg) to one contiguous
// buffer sliced per register, which is what spec.md §3 describes
// directly ("flat byte buffer of length 32*VLEN/8").
type VectorRegisters struct {
	raw     []byte
	regSize int // VLEN/8
}

// NewVectorRegisters allocates a zeroed buffer sized for the given VLEN.
func NewVectorRegisters(vlen Vlen) *VectorRegisters {
	regSize := vlen.ByteLength()
	return &VectorRegisters{raw: make([]byte, 32*regSize), regSize: regSize}
}

// RegBytes returns the raw byte slice backing register n. Mutating it
// mutates the register file; callers that want a safe copy should use
// Snapshot or copy explicitly.
func (v *VectorRegisters) RegBytes(n int) []byte {
	start := n * v.regSize
	return v.raw[start : start+v.regSize]
}

// RegSize returns VLEN/8, the byte size of one vector register.
func (v *VectorRegisters) RegSize() int { return v.regSize }

// Snapshot returns a by-value copy of the whole vector register file.
func (v *VectorRegisters) Snapshot() []byte {
	out := make([]byte, len(v.raw))
	copy(out, v.raw)
	return out
}
