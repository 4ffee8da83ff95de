package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rv64v/sim/pkg/rvcore"
)

// TestFixedPointSignedMultiplySaturates exercises vsmul.vv's INT_MIN
// overflow clamp: the one product in Q(bits-1) fixed-point representation
// that cannot be represented, -1.0 * -1.0 rounding to 1.0, saturates to
// the signed maximum and sets vxsat.
func TestFixedPointSignedMultiplySaturates(t *testing.T) {
	snap := runProgram(t, `
		vsetvli t0, zero, e8, m1, ta, ma
		li a1, 0x80
		vmv.v.x v1, a1
		vsmul.vv v2, v1, v1
		vmv.x.s a0, v2
	`)
	assert.Equal(t, uint64(0x7f), snap.X[rvcore.RegA0]&0xff, "INT8_MIN*INT8_MIN saturates to INT8_MAX")
	assert.Equal(t, uint64(1), snap.C[rvcore.CsrVXSAT], "vsmul saturation sets vxsat")
}

// TestFixedPointNarrowingClipSaturates exercises vnclipu.wx: vs2 is read
// at the current (wide) vtype sew, vd is committed at half that, and a
// zero shift amount leaves the wide value unchanged before narrowing, so
// a value that overflows the narrow element width clamps to the narrow
// maximum instead of wrapping, and sets vxsat.
func TestFixedPointNarrowingClipSaturates(t *testing.T) {
	snap := runProgram(t, `
		vsetvli t0, zero, e16, m1, ta, ma
		li a1, 300
		vmv.v.x v2, a1
		vnclipu.wx v4, v2, zero
		vsetvli t0, zero, e8, mf2, ta, ma
		vmv.x.s a0, v4
	`)
	assert.Equal(t, uint64(0xff), snap.X[rvcore.RegA0]&0xff, "300 clips to the e8 unsigned maximum")
	assert.Equal(t, uint64(1), snap.C[rvcore.CsrVXSAT])
}
