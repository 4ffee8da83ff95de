package rvcore

// Registers aggregates all architectural state except memory: the
// integer and float register files, the CSR file, the vector register
// file, and the program counter. Grounded on
// original_source/crates/core/src/rv_core/registers.rs.
type Registers struct {
	PC uint64
	X  *IntegerRegisters
	F  *FloatRegisters
	C  *CsrFile
	V  *VectorRegisters
}

// NewRegisters builds a fresh register file: SP = memSize-1, VLENB =
// VLEN/8, everything else zeroed.
func NewRegisters(memSize int, vlen Vlen) *Registers {
	return &Registers{
		X: NewIntegerRegisters(memSize),
		F: &FloatRegisters{},
		C: NewCsrFile(vlen.BitLength()),
		V: NewVectorRegisters(vlen),
	}
}

// RegistersSnapshot is a by-value copy of all architectural state, handed
// to a driver for display without aliasing the live core.
type RegistersSnapshot struct {
	PC uint64
	X  [32]uint64
	F  [32]float64
	C  [4096]uint64
	V  []byte
}

// Snapshot returns a by-value copy of the register state.
func (r *Registers) Snapshot() RegistersSnapshot {
	return RegistersSnapshot{
		PC: r.PC,
		X:  r.X.Snapshot(),
		F:  r.F.Snapshot(),
		C:  r.C.Snapshot(),
		V:  r.V.Snapshot(),
	}
}
