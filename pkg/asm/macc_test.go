package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rv64v/sim/pkg/rvcore"
)

// TestVmaccVsVmaddOperandRoles pins down the one thing that
// distinguishes vmacc/vnmsac from vmadd/vnmsub: which operand plays the
// accumulator and which plays the second multiplicand. With dest=2,
// scalar=3, vs2=5 the two families disagree (17 vs 11), so a role swap
// is caught immediately.
func TestVmaccVsVmaddOperandRoles(t *testing.T) {
	snap := runProgram(t, `
		vsetvli t0, zero, e64, m1, ta, ma
		li a1, 5
		vmv.v.x v3, a1
		li a1, 2
		vmv.v.x v1, a1
		li a1, 3
		vmacc.vx v1, v3, a1
		vmv.x.s a0, v1
		li a1, 2
		vmv.v.x v4, a1
		li a1, 3
		vmadd.vx v4, v3, a1
		vmv.x.s a1, v4
	`)
	assert.Equal(t, uint64(17), snap.X[rvcore.RegA0], "vmacc: dest + scalar*vs2 == 2 + 3*5")
	assert.Equal(t, uint64(11), snap.X[rvcore.RegA1], "vmadd: scalar*dest + vs2 == 3*2 + 5")
}

// TestVnmsacVsVnmsubOperandRoles mirrors the above for the negated-
// accumulate pair.
func TestVnmsacVsVnmsubOperandRoles(t *testing.T) {
	snap := runProgram(t, `
		vsetvli t0, zero, e64, m1, ta, ma
		li a1, 5
		vmv.v.x v3, a1
		li a1, 2
		vmv.v.x v1, a1
		li a1, 3
		vnmsac.vx v1, v3, a1
		vmv.x.s a0, v1
		li a1, 2
		vmv.v.x v4, a1
		li a1, 3
		vnmsub.vx v4, v3, a1
		vmv.x.s a1, v4
	`)
	assert.Equal(t, uint64(0xfffffffffffffff3), snap.X[rvcore.RegA0], "vnmsac: dest - scalar*vs2 == 2 - 15")
	assert.Equal(t, uint64(0xffffffffffffffff), snap.X[rvcore.RegA1], "vnmsub: vs2 - scalar*dest == 5 - 6")
}

// TestVfmaccVsVfmaddOperandRoles is the floating-point analogue: the
// same dest/scalar/vs2 triple distinguishes vfmacc from vfmadd.
func TestVfmaccVsVfmaddOperandRoles(t *testing.T) {
	snap := runProgram(t, `
		vsetvli t0, zero, e32, m1, ta, ma
		li a1, 5
		fcvt.s.w fa1, a1
		vfmv.v.f v3, fa1
		li a1, 3
		fcvt.s.w fa2, a1
		li a1, 2
		fcvt.s.w fa0, a1
		vfmv.v.f v1, fa0
		vfmacc.vf v1, v3, fa2
		vfmv.f.s fa3, v1
		fcvt.w.s a0, fa3
		fcvt.s.w fa0, a1
		vfmv.v.f v4, fa0
		vfmadd.vf v4, v3, fa2
		vfmv.f.s fa3, v4
		fcvt.w.s a1, fa3
	`)
	assert.Equal(t, uint64(17), snap.X[rvcore.RegA0], "vfmacc: dest + scalar*vs2 == 2 + 3*5")
	assert.Equal(t, uint64(11), snap.X[rvcore.RegA1], "vfmadd: scalar*dest + vs2 == 3*2 + 5")
}

// TestVwmulsuSignedness checks the one mixed-signedness widening
// multiply: vwmulsu takes vs2 signed and vs1/scalar unsigned, despite
// ending in "u" like the all-unsigned forms.
func TestVwmulsuSignedness(t *testing.T) {
	snap := runProgram(t, `
		vsetvli t0, zero, e8, mf2, ta, ma
		li a1, 0xff
		vmv.v.x v2, a1
		li a1, 2
		vwmulsu.vx v4, v2, a1
		vsetvli t0, zero, e16, m1, ta, ma
		vmv.x.s a0, v4
	`)
	assert.Equal(t, uint64(0xfffe), snap.X[rvcore.RegA0]&0xffff, "signed(-1)*unsigned(2) == -2")
}

// TestWideningMaccFamily covers the four integer widening
// multiply-accumulate forms, which were entirely missing from both the
// executor and the assembler: the accumulator is read/written at double
// the operand sew, and only vwmaccsu/vwmaccus disagree on which side is
// signed.
func TestWideningMaccFamily(t *testing.T) {
	snap := runProgram(t, `
		vsetvli t0, zero, e8, mf2, ta, ma
		li a1, 0xff
		vmv.v.x v2, a1
		vwmaccu.vx v8, v2, a1
		vwmacc.vx v10, v2, a1
		vwmaccsu.vx v12, v2, a1
		vwmaccus.vx v14, v2, a1
		vsetvli t0, zero, e16, m1, ta, ma
		vmv.x.s a0, v8
		vmv.x.s a1, v10
		vmv.x.s a2, v12
		vmv.x.s a3, v14
	`)
	assert.Equal(t, uint64(0xfe01), snap.X[rvcore.RegA0]&0xffff, "vwmaccu: 0+255*255")
	assert.Equal(t, uint64(1), snap.X[rvcore.RegA1]&0xffff, "vwmacc: 0+(-1)*(-1)")
	assert.Equal(t, uint64(0xff01), snap.X[rvcore.RegA2]&0xffff, "vwmaccsu: 0+(-1)*255 (vs1 signed, vs2 unsigned)")
	assert.Equal(t, uint64(0xff01), snap.X[rvcore.RegA3]&0xffff, "vwmaccus: 0+255*(-1) (scalar unsigned, vs2 signed)")
}

// TestWideningFpMaccFamily covers the float widening fused
// multiply-accumulate family, which promotes operands to double
// precision before multiplying into a doubled-sew accumulator.
func TestWideningFpMaccFamily(t *testing.T) {
	snap := runProgram(t, `
		vsetvli t0, zero, e32, mf2, ta, ma
		li a1, 3
		fcvt.s.w fa0, a1
		vfmv.v.f v2, fa0
		li a1, 4
		fcvt.s.w fa1, a1
		vfwmacc.vf v8, v2, fa1
		vsetvli t0, zero, e64, m1, ta, ma
		vfmv.f.s fa2, v8
		fcvt.w.d a0, fa2
	`)
	assert.Equal(t, uint64(12), snap.X[rvcore.RegA0], "vfwmacc: 0 + 4*3 at double width")
}
