package rvcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVsetvliReservedVtype exercises the one vsetvli scenario the
// assembler's own vtype grammar cannot express as literal source text:
// a reserved SEW encoding (vsew bits = 0b100, i.e. e128) delivered via a
// raw Vtypei immediate, the way a dynamically computed vsetvl would.
func TestVsetvliReservedVtype(t *testing.T) {
	mem := NewMemory(DefaultMemorySize)
	core := Build([]Instruction{
		Vsetvli{Rd: RegT0, Rs1: RegZero, Vtypei: 0x20}.WithLine(0),
	}, []int{0}, mem, NewVectorEngine(Vlen256))

	result, err := core.Step()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReservedVType))
	assert.Equal(t, StepFailed, result)
	assert.Equal(t, uint64(0), core.Registers.PC, "PC does not advance on a failed step")
}

// TestVsetvliVlNeverExceedsVlmax pins the universal invariant that
// CSR[VL] and rd always agree, and neither exceeds VLMAX for the active
// SEW/LMUL, regardless of how large the requested AVL is.
func TestVsetvliVlNeverExceedsVlmax(t *testing.T) {
	mem := NewMemory(DefaultMemorySize)
	core := Build([]Instruction{
		I{Op: "addi", Rd: RegT1, Rs1: RegZero, Imm12: 2000}.WithLine(0),
		Vsetvli{Rd: RegT0, Rs1: RegT1, Vtypei: 0b011000}.WithLine(1),
	}, []int{0, 1}, mem, NewVectorEngine(Vlen256))

	for i := 0; i < 2; i++ {
		result, err := core.Step()
		require.NoError(t, err)
		require.Equal(t, StepOK, result)
	}

	vlmax := core.VectorEngine.VLMAX()
	vl := core.Registers.X.Get(RegT0)
	assert.LessOrEqual(t, vl, uint64(vlmax))
	assert.Equal(t, vl, core.Registers.C.Read(CsrVL))
}
