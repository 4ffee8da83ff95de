package asm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rv64v/sim/pkg/rvcore"
)

// runProgram assembles src and steps it to completion, returning the
// final register snapshot. Fails the test immediately on assembly or
// step errors so callers can assert purely on the resulting state.
func runProgram(t *testing.T, src string) rvcore.RegistersSnapshot {
	t.Helper()
	prog, err := Assemble(strings.NewReader(src), DefaultOptions())
	require.NoError(t, err)

	core := rvcore.Build(prog.Instructions, prog.LineMap, prog.Memory, rvcore.NewVectorEngine(DefaultOptions().Vlen))
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

func TestAssembleScalarArithmetic(t *testing.T) {
	snap := runProgram(t, `
		li a0, 5
		li a1, 7
		add a2, a0, a1
		sub a3, a1, a0
	`)
	assert.Equal(t, uint64(12), snap.X[rvcore.RegA2])
	assert.Equal(t, uint64(2), snap.X[rvcore.RegA3])
}

func TestAssembleLiWideImmediate(t *testing.T) {
	snap := runProgram(t, `
		li a0, 0x12345000
	`)
	assert.Equal(t, uint64(0x12345000), snap.X[rvcore.RegA0])
}

func TestAssembleBranchLoop(t *testing.T) {
	// sums 1..5 into a0 via a labeled loop, exercising label resolution
	// for the backward branch.
	snap := runProgram(t, `
		li a0, 0
		li t0, 1
		li t1, 6
	loop:
		add a0, a0, t0
		addi t0, t0, 1
		blt t0, t1, loop
	`)
	assert.Equal(t, uint64(15), snap.X[rvcore.RegA0])
}

func TestAssemblePseudoBranchZero(t *testing.T) {
	snap := runProgram(t, `
		li a0, 0
		li a1, 1
		beqz a1, skip
		li a0, 42
	skip:
		nop
	`)
	assert.Equal(t, uint64(42), snap.X[rvcore.RegA0])
}

func TestAssembleCallRet(t *testing.T) {
	snap := runProgram(t, `
		li a0, 1
		call double
		j end
	double:
		add a0, a0, a0
		ret
	end:
		nop
	`)
	assert.Equal(t, uint64(2), snap.X[rvcore.RegA0])
}

func TestAssembleMemoryLoadStore(t *testing.T) {
	snap := runProgram(t, `
		li t0, 100
		li t1, 0xdead
		sw t1, 0(t0)
		lw a0, 0(t0)
	`)
	assert.Equal(t, uint64(0xdead), snap.X[rvcore.RegA0])
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, err := Assemble(strings.NewReader("j nowhere\n"), DefaultOptions())
	require.Error(t, err)
}

func TestAssembleVectorMemcpy(t *testing.T) {
	snap := runProgram(t, `
		li t0, 0      # src
		li t1, 64     # dst
		li t2, 16     # n bytes
		li a1, 0x2abbccdd
		sw a1, 0(t0)
		sw a1, 4(t0)
		sw a1, 8(t0)
		sw a1, 12(t0)
	loop:
		vsetvli t3, t2, e8, m1, ta, ma
		vle8.v v0, (t0)
		vse8.v v0, (t1)
		add t0, t0, t3
		add t1, t1, t3
		sub t2, t2, t3
		bnez t2, loop
		lw a0, 64(zero)
	`)
	assert.Equal(t, uint64(0x2abbccdd), snap.X[rvcore.RegA0])
}

func TestAssembleVectorArithmetic(t *testing.T) {
	snap := runProgram(t, `
		li t0, 0
		vsetvli t3, zero, e64, m1, ta, ma
		li a1, 3
		vmv.v.x v1, a1
		li a1, 4
		vmv.v.x v2, a1
		vadd.vv v3, v1, v2
		vmv.x.s a0, v3
	`)
	assert.Equal(t, uint64(7), snap.X[rvcore.RegA0])
}

func TestAssembleVectorCompress(t *testing.T) {
	// marks only lane 2 via a vmseq comparison against vid.v, then
	// compresses v2 (all lanes holding 5) down to its low lane.
	snap := runProgram(t, `
		vsetvli t3, zero, e64, m1, ta, ma
		vid.v v4
		li a1, 2
		vmseq.vx v0, v4, a1
		li a1, 5
		vmv.v.x v2, a1
		vcompress.vm v3, v2, v0
		vmv.x.s a0, v3
	`)
	assert.Equal(t, uint64(5), snap.X[rvcore.RegA0])
}
