package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rv64v/sim/pkg/rvcore"
)

// TestScalarFusedMultiplyAdd covers the four R4-shape forms, which only
// differ in which product term is negated and whether the third operand
// is added or subtracted.
func TestScalarFusedMultiplyAdd(t *testing.T) {
	snap := runProgram(t, `
		li t0, 2
		li t1, 3
		li t2, 4
		fcvt.d.w f1, t0
		fcvt.d.w f2, t1
		fcvt.d.w f3, t2
		fmadd.d f10, f1, f2, f3
		fmsub.d f11, f1, f2, f3
		fnmsub.d f12, f1, f2, f3
		fnmadd.d f13, f1, f2, f3
		fcvt.w.d a0, f10
		fcvt.w.d a1, f11
		fcvt.w.d a2, f12
		fcvt.w.d a3, f13
	`)
	assert.Equal(t, uint64(10), snap.X[rvcore.RegA0], "fmadd: a*b+c == 2*3+4")
	assert.Equal(t, uint64(2), snap.X[rvcore.RegA1], "fmsub: a*b-c == 2*3-4")
	assert.Equal(t, uint64(0xfffffffffffffffe), snap.X[rvcore.RegA2], "fnmsub: -(a*b-c) == -2")
	assert.Equal(t, uint64(0xfffffffffffffff6), snap.X[rvcore.RegA3], "fnmadd: -(a*b+c) == -10")
}

// TestScalarFloatCompareAndClassify covers feq/flt/fle and the fclass
// bitmap's normal-positive/normal-negative bits.
func TestScalarFloatCompareAndClassify(t *testing.T) {
	snap := runProgram(t, `
		li t0, 3
		li t1, 5
		fcvt.d.w f1, t0
		fcvt.d.w f2, t1
		feq.d a0, f1, f1
		flt.d a1, f1, f2
		fle.d a2, f2, f1
		fclass.d a3, f1
		fneg.d f3, f1
		fclass.d a4, f3
	`)
	assert.Equal(t, uint64(1), snap.X[rvcore.RegA0])
	assert.Equal(t, uint64(1), snap.X[rvcore.RegA1])
	assert.Equal(t, uint64(0), snap.X[rvcore.RegA2])
	assert.Equal(t, uint64(1<<6), snap.X[rvcore.RegA3], "positive normal number")
	assert.Equal(t, uint64(1<<1), snap.X[rvcore.RegA4], "negative normal number")
}

// TestFloatRegisterUpperBitsPreserved checks that writing a single-
// precision value into an F register leaves the untouched upper 32 bits
// alone rather than canonicalizing them to a NaN box.
func TestFloatRegisterUpperBitsPreserved(t *testing.T) {
	snap := runProgram(t, `
		li t0, 0x7eadbeef
		slli t0, t0, 32
		fmv.d.x f1, t0
		li t1, 0x3f800000
		fmv.w.x f1, t1
		fmv.x.d a0, f1
		fmv.x.w a1, f1
	`)
	assert.Equal(t, uint64(0x7eadbeef3f800000), snap.X[rvcore.RegA0], "high 32 bits survive the f32 write")
	assert.Equal(t, uint64(0x3f800000), snap.X[rvcore.RegA1])
}
