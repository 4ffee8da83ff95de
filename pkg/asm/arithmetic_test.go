package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rv64v/sim/pkg/rvcore"
)

// TestIntegerArithmeticLaws exercises the identities any conforming add/
// sub/slt/sltu must hold: wraparound on overflow and the x==x identities.
func TestIntegerArithmeticLaws(t *testing.T) {
	snap := runProgram(t, `
		li t0, -1
		li t1, 1
		add a0, t0, t1
		sub a1, t0, t0
		sltu a2, t0, t0
		slt a3, t0, t0
		li t2, 5
		sltu a4, zero, t2
	`)
	assert.Equal(t, uint64(0), snap.X[rvcore.RegA0], "add wraps mod 2^64")
	assert.Equal(t, uint64(0), snap.X[rvcore.RegA1], "sub x,x == 0")
	assert.Equal(t, uint64(0), snap.X[rvcore.RegA2], "sltu x,x == 0")
	assert.Equal(t, uint64(0), snap.X[rvcore.RegA3], "slt x,x == 0")
	assert.Equal(t, uint64(1), snap.X[rvcore.RegA4], "sltu 0,y == 1 for y != 0")
}

// TestMExtensionMultiply covers mul/mulh/mulhu/mulhsu; the division
// edge cases are covered by TestMExtensionDivideEdgeCases.
func TestMExtensionMultiply(t *testing.T) {
	snap := runProgram(t, `
		li t0, 6
		li t1, 7
		mul a0, t0, t1
		li t2, -1
		mulhu a1, t2, t2
		mulh a2, t2, t2
		mulhsu a3, t2, t1
	`)
	assert.Equal(t, uint64(42), snap.X[rvcore.RegA0])
	assert.Equal(t, uint64(0xfffffffffffffffe), snap.X[rvcore.RegA1], "mulhu(-1,-1) high half")
	assert.Equal(t, uint64(0), snap.X[rvcore.RegA2], "mulh(-1,-1) == mulh of 1, high half is 0")
	assert.Equal(t, uint64(0xffffffffffffffff), snap.X[rvcore.RegA3], "mulhsu(-1,7) high half is all-ones")
}

func TestMExtensionDivideEdgeCases(t *testing.T) {
	snap := runProgram(t, `
		li t0, 1
		slli t0, t0, 63
		li t1, -1
		div a0, t0, t1
		rem a1, t0, t1
		li t2, 11
		div a2, t2, zero
		divu a3, t2, zero
		rem a4, t2, zero
	`)
	intMin := uint64(1) << 63
	assert.Equal(t, intMin, snap.X[rvcore.RegA0], "INT_MIN / -1 == INT_MIN by RISC-V convention")
	assert.Equal(t, uint64(0), snap.X[rvcore.RegA1], "INT_MIN rem -1 == 0")
	assert.Equal(t, uint64(0xffffffffffffffff), snap.X[rvcore.RegA2], "division by zero == all-ones")
	assert.Equal(t, uint64(0xffffffffffffffff), snap.X[rvcore.RegA3], "unsigned division by zero == all-ones")
	assert.Equal(t, uint64(11), snap.X[rvcore.RegA4], "remainder by zero == the dividend")
}

func TestMExtensionWordForms(t *testing.T) {
	snap := runProgram(t, `
		li t0, 100000
		li t1, 100000
		mulw a0, t0, t1
		li t2, 7
		li t3, 2
		divw a1, t2, t3
		remw a2, t2, t3
	`)
	assert.Equal(t, uint64(0x540be400), snap.X[rvcore.RegA0], "mulw truncates to 32 bits then sign-extends")
	assert.Equal(t, uint64(3), snap.X[rvcore.RegA1])
	assert.Equal(t, uint64(1), snap.X[rvcore.RegA2])
}
