package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rv64v/sim/pkg/rvcore"
)

// runProgramWith is runProgram parameterized on assembler options, for
// scenarios that need a non-default VLEN or memory size.
func runProgramWith(t *testing.T, src string, opts Options) rvcore.RegistersSnapshot {
	t.Helper()
	prog, err := Assemble(strings.NewReader(src), opts)
	require.NoError(t, err)

	core := rvcore.Build(prog.Instructions, prog.LineMap, prog.Memory, rvcore.NewVectorEngine(opts.Vlen))
	for steps := 0; steps < 10000; steps++ {
		result, err := core.Step()
		require.NoError(t, err)
		if result == rvcore.StepHalted {
			return core.Registers.Snapshot()
		}
	}
	t.Fatal("program did not halt within 10000 steps")
	return rvcore.RegistersSnapshot{}
}

// TestScenarioVectorMemcpyNarrowVlen exercises the unit-stride
// load/store loop under a VLEN the default test doesn't cover (128
// bits) copying a length shorter than one vsetvli chunk (10 bytes
// against a VLMAX of 16 at e8/m1), so the single pass runs at a short VL.
func TestScenarioVectorMemcpyNarrowVlen(t *testing.T) {
	opts := Options{MemorySize: 256, Vlen: rvcore.Vlen128}
	snap := runProgramWith(t, `
		.byte 1, 2, 3, 4, 5, 6, 7, 8, 9, 10
		li t0, 0       # src
		li t1, 128     # dst
		li t2, 10      # n bytes
	loop:
		vsetvli t3, t2, e8, m1, ta, ma
		vle8.v v0, (t0)
		vse8.v v0, (t1)
		add t0, t0, t3
		add t1, t1, t3
		sub t2, t2, t3
		bnez t2, loop
		lb a0, 128(zero)
		lb a1, 137(zero)
	`, opts)
	assert.Equal(t, uint64(1), snap.X[rvcore.RegA0])
	assert.Equal(t, uint64(10), snap.X[rvcore.RegA1])
}

// TestScenarioVectorStrlen scans a NUL-terminated byte string for its
// first zero byte using vmseq.vx to build a mask and vfirst.m to find
// the first set bit, the same idiom a vectorized strlen would use.
func TestScenarioVectorStrlen(t *testing.T) {
	snap := runProgram(t, `
		.asciz "hello"
		vsetvli t0, zero, e8, m1, ta, ma
		vle8.v v1, (zero)
		vmseq.vx v0, v1, zero
		vfirst.m a0, v0
	`)
	assert.Equal(t, uint64(5), snap.X[rvcore.RegA0], "index of the NUL terminator is the string length")
}

// TestScenarioVectorStrlenAllNonzero checks vfirst.m's documented -1
// (all-ones) result when no mask bit is set, i.e. no NUL byte appears
// in the scanned chunk.
func TestScenarioVectorStrlenAllNonzero(t *testing.T) {
	snap := runProgram(t, `
		.byte 1, 2, 3, 4
		li t1, 4
		vsetvli t0, t1, e8, m1, ta, ma
		vle8.v v1, (zero)
		vmseq.vx v0, v1, zero
		vfirst.m a0, v0
	`)
	assert.Equal(t, uint64(0xffffffffffffffff), snap.X[rvcore.RegA0])
}

// TestScenarioVectorDaxpy computes y = a*x + y elementwise over four
// e64 lanes via vfmacc.vf, the same fused multiply-accumulate a BLAS
// daxpy kernel reduces to once the scalar is broadcast.
func TestScenarioVectorDaxpy(t *testing.T) {
	snap := runProgram(t, `
		.double 1.0, 2.0, 3.0, 4.0
		.double 10.0, 20.0, 30.0, 40.0
		li t0, 0
		li t1, 32
		vsetvli t2, zero, e64, m1, ta, ma
		vle64.v v1, (t0)
		vle64.v v2, (t1)
		li a1, 2
		fcvt.d.w fa0, a1
		vfmacc.vf v2, v1, fa0
		vse64.v v2, (t1)
		fld fa1, 32(zero)
		fld fa2, 40(zero)
		fld fa3, 48(zero)
		fld fa4, 56(zero)
		fcvt.w.d a0, fa1
		fcvt.w.d a1, fa2
		fcvt.w.d a2, fa3
		fcvt.w.d a3, fa4
	`)
	assert.Equal(t, uint64(12), snap.X[rvcore.RegA0])
	assert.Equal(t, uint64(24), snap.X[rvcore.RegA1])
	assert.Equal(t, uint64(36), snap.X[rvcore.RegA2])
	assert.Equal(t, uint64(48), snap.X[rvcore.RegA3])
}

// TestScenarioFaultOnlyFirstBoundary places a unit-stride fault-only-
// first load straddling the end of memory: the first few elements
// succeed, the element that walks off the end truncates VL instead of
// failing the whole instruction, and CSR[VL] ends up holding the count
// that actually completed.
func TestScenarioFaultOnlyFirstBoundary(t *testing.T) {
	opts := Options{MemorySize: 4096, Vlen: rvcore.Vlen256}
	snap := runProgramWith(t, `
		li a1, 4093
		vsetvli t0, zero, e8, m1, ta, ma
		vle8ff.v v0, (a1)
		csrrs a0, vl, zero
	`, opts)
	assert.Equal(t, uint64(3), snap.X[rvcore.RegA0], "only the 3 in-bounds bytes (4093-4095) complete")
}

// TestScenarioScalarVsetvliInvariant checks the universal property that
// vsetvli's returned AVL never exceeds VLMAX and is mirrored into both
// rd and CSR[VL].
func TestScenarioScalarVsetvliInvariant(t *testing.T) {
	snap := runProgram(t, `
		li t1, 1000
		vsetvli t0, t1, e8, m1, ta, ma
	`)
	assert.LessOrEqual(t, snap.X[rvcore.RegT0], uint64(rvcore.Vlen256)/8)
	assert.Equal(t, snap.X[rvcore.RegT0], snap.C[rvcore.CsrVL])
}
