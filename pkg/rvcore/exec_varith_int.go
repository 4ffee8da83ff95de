package rvcore

import "fmt"

// vxrmRound applies fixed-point rounding to a value computed with one
// extra low bit of precision (d), per the VXRM CSR's four rounding modes
// (spec.md §4.2 "fixed-point rounding"): 0=rnu (round-to-nearest-up),
// 1=rne (round-to-nearest-even), 2=rdn (round-down/truncate), 3=rod
// (round-to-odd).
func (c *Core) vxrmRound(v uint64, droppedBit uint64, restBitsNonzero bool) uint64 {
	switch c.Registers.C.Read(CsrVXRM) & 0b11 {
	case 0: // rnu
		return v + droppedBit
	case 1: // rne
		if droppedBit == 1 && (restBitsNonzero || v&1 == 1) {
			return v + 1
		}
		return v
	case 2: // rdn
		return v
	case 3: // rod
		if droppedBit == 1 || restBitsNonzero {
			return v | 1
		}
		return v
	}
	return v
}

func (c *Core) setVxsat() {
	c.Registers.C.UnsafeSet(CsrVXSAT, 1)
}

// execOpivv implements the vector-vector integer arithmetic shape,
// dispatching through the shared arithmetic/compare tables and
// special-casing the handful of ops whose operands don't fit that
// table (move, merge, carry, slide, gather).
func (c *Core) execOpivv(i Opivv) error {
	return c.withVectorView(func(vv *VectorView) error {
		sew, lmul := c.VectorEngine.Sew, c.VectorEngine.Lmul
		n := vv.ActiveCount(sew, lmul)
		vs1 := vv.ReadElemsN(i.Vs1, sew, n)
		vs2 := vv.ReadElemsN(i.Vs2, sew, n)

		switch i.Op {
		case "vmv.v.v":
			vv.Commit(i.Vd, sew, lmul, vs1)
			return nil
		case "vmerge.vvm":
			mask := vv.ReadMaskBits(0, n)
			dest := vv.ReadElemsN(i.Vd, sew, n)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				if mask[e] {
					out[e] = vs1[e]
				} else {
					out[e] = vs2[e]
				}
			}
			_ = dest
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vadc.vvm":
			carryIn := vv.ReadMaskBits(0, n)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				sum := vs2[e] + vs1[e]
				if carryIn[e] {
					sum++
				}
				out[e] = sum
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vsbc.vvm":
			borrowIn := vv.ReadMaskBits(0, n)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				diff := vs2[e] - vs1[e]
				if borrowIn[e] {
					diff--
				}
				out[e] = diff
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vmadc.vvm", "vmadc":
			carryIn := vv.DefaultMask(i.Op == "vmadc.vvm", n)
			out := make([]bool, n)
			bits := sew.BitLength()
			for e := 0; e < n; e++ {
				a, b := maskToSew(vs2[e], sew), maskToSew(vs1[e], sew)
				sum := a + b
				if carryIn[e] {
					sum++
				}
				if bits >= 64 {
					out[e] = sum < a || (carryIn[e] && sum == a && b == 0)
				} else {
					out[e] = sum > (uint64(1)<<uint(bits) - 1)
				}
			}
			vv.CommitMask(i.Vd, out)
			return nil
		case "vrgather":
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				idx := int(vs1[e])
				if idx < n {
					out[e] = vs2[idx]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		}

		if cmp, ok := ivCompareOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			out := make([]bool, n)
			for e := 0; e < n; e++ {
				if mask[e] {
					out[e] = cmp(vs2[e], vs1[e], sew)
				}
			}
			vv.CommitMask(i.Vd, out)
			return nil
		}
		if fixedPointOps[i.Op] {
			return c.execFixedPoint(vv, i.Op, i.Vd, vs2, vs1, sew, lmul, i.Vm, n)
		}
		if op, ok := ivArithOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			dest := vv.ReadElemsN(i.Vd, sew, n)
			out := MaskedMap(mask, dest, func(e int) uint64 { return op(vs2[e], vs1[e], sew) })
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		}
		return fmt.Errorf("%w: OPIVV op %q", ErrUnsupportedInstruction, i.Op)
	})
}

// execOpivx implements the vector-scalar(x register) integer arithmetic
// shape, plus slides (whose offset is the scalar operand).
func (c *Core) execOpivx(i Opivx) error {
	return c.withVectorView(func(vv *VectorView) error {
		sew, lmul := c.VectorEngine.Sew, c.VectorEngine.Lmul
		n := vv.ActiveCount(sew, lmul)
		scalar := c.Registers.X.Get(i.Rs1)
		vs2 := vv.ReadElemsN(i.Vs2, sew, n)

		switch i.Op {
		case "vmv.v.x":
			out := make([]uint64, n)
			for e := range out {
				out[e] = scalar
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vmerge.vxm":
			mask := vv.ReadMaskBits(0, n)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				if mask[e] {
					out[e] = scalar
				} else {
					out[e] = vs2[e]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vadc.vxm":
			carryIn := vv.ReadMaskBits(0, n)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				sum := vs2[e] + scalar
				if carryIn[e] {
					sum++
				}
				out[e] = sum
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vsbc.vxm":
			borrowIn := vv.ReadMaskBits(0, n)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				diff := vs2[e] - scalar
				if borrowIn[e] {
					diff--
				}
				out[e] = diff
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vmadc.vxm", "vmadc.vx":
			carryIn := vv.DefaultMask(i.Op == "vmadc.vxm", n)
			out := make([]bool, n)
			bits := sew.BitLength()
			for e := 0; e < n; e++ {
				a, b := maskToSew(vs2[e], sew), maskToSew(scalar, sew)
				sum := a + b
				if carryIn[e] {
					sum++
				}
				if bits >= 64 {
					out[e] = sum < a || (carryIn[e] && sum == a && b == 0)
				} else {
					out[e] = sum > (uint64(1)<<uint(bits) - 1)
				}
			}
			vv.CommitMask(i.Vd, out)
			return nil
		case "vmsbc.vxm", "vmsbc.vx":
			borrowIn := vv.DefaultMask(i.Op == "vmsbc.vxm", n)
			out := make([]bool, n)
			for e := 0; e < n; e++ {
				a, b := maskToSew(vs2[e], sew), maskToSew(scalar, sew)
				borrow := a < b || (borrowIn[e] && a == b)
				out[e] = borrow
			}
			vv.CommitMask(i.Vd, out)
			return nil
		case "vslideup":
			offset := int(scalar)
			dest := vv.ReadElemsN(i.Vd, sew, n)
			out := make([]uint64, n)
			copy(out, dest)
			for e := offset; e < n; e++ {
				if e-offset >= 0 {
					out[e] = vs2[e-offset]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vslidedown":
			offset := int(scalar)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				if e+offset < n {
					out[e] = vs2[e+offset]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vslide1up":
			dest := vv.ReadElemsN(i.Vd, sew, n)
			out := make([]uint64, n)
			copy(out, dest)
			if n > 0 {
				out[0] = scalar
				for e := 1; e < n; e++ {
					out[e] = vs2[e-1]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vslide1down":
			out := make([]uint64, n)
			for e := 0; e+1 < n; e++ {
				out[e] = vs2[e+1]
			}
			if n > 0 {
				out[n-1] = scalar
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vrgather":
			out := make([]uint64, n)
			idx := int(scalar)
			for e := 0; e < n; e++ {
				if idx < n {
					out[e] = vs2[idx]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vsaddu", "vsadd", "vssubu", "vssub":
			return c.execSaturating(vv, i.Op, i.Vd, scalar, vs2, sew, lmul, i.Vm, n, true)
		}

		if cmp, ok := ivCompareOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			out := make([]bool, n)
			for e := 0; e < n; e++ {
				if mask[e] {
					out[e] = cmp(vs2[e], scalar, sew)
				}
			}
			vv.CommitMask(i.Vd, out)
			return nil
		}
		if fixedPointOps[i.Op] {
			return c.execFixedPoint(vv, i.Op, i.Vd, vs2, broadcast(scalar, n), sew, lmul, i.Vm, n)
		}
		if op, ok := ivArithOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			dest := vv.ReadElemsN(i.Vd, sew, n)
			out := MaskedMap(mask, dest, func(e int) uint64 { return op(vs2[e], scalar, sew) })
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		}
		return fmt.Errorf("%w: OPIVX op %q", ErrUnsupportedInstruction, i.Op)
	})
}

func broadcast(v uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// execOpivi implements the vector-immediate integer arithmetic shape.
func (c *Core) execOpivi(i Opivi) error {
	return c.withVectorView(func(vv *VectorView) error {
		sew, lmul := c.VectorEngine.Sew, c.VectorEngine.Lmul
		n := vv.ActiveCount(sew, lmul)
		imm := uint64(int64(i.Imm5))
		vs2 := vv.ReadElemsN(i.Vs2, sew, n)

		switch i.Op {
		case "vmv.v.i":
			out := make([]uint64, n)
			for e := range out {
				out[e] = imm
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vmerge.vim":
			mask := vv.ReadMaskBits(0, n)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				if mask[e] {
					out[e] = imm
				} else {
					out[e] = vs2[e]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vadc.vim":
			carryIn := vv.ReadMaskBits(0, n)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				sum := vs2[e] + imm
				if carryIn[e] {
					sum++
				}
				out[e] = sum
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vmadc.vim", "vmadc.vi":
			carryIn := vv.DefaultMask(i.Op == "vmadc.vim", n)
			out := make([]bool, n)
			bits := sew.BitLength()
			for e := 0; e < n; e++ {
				a, b := maskToSew(vs2[e], sew), maskToSew(imm, sew)
				sum := a + b
				if carryIn[e] {
					sum++
				}
				if bits >= 64 {
					out[e] = sum < a || (carryIn[e] && sum == a && b == 0)
				} else {
					out[e] = sum > (uint64(1)<<uint(bits) - 1)
				}
			}
			vv.CommitMask(i.Vd, out)
			return nil
		case "vslideup":
			offset := int(i.Imm5)
			dest := vv.ReadElemsN(i.Vd, sew, n)
			out := make([]uint64, n)
			copy(out, dest)
			for e := offset; e < n; e++ {
				if e-offset >= 0 {
					out[e] = vs2[e-offset]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vslidedown":
			offset := int(i.Imm5)
			out := make([]uint64, n)
			for e := 0; e < n; e++ {
				if e+offset < n {
					out[e] = vs2[e+offset]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vrgather":
			out := make([]uint64, n)
			idx := int(i.Imm5)
			for e := 0; e < n; e++ {
				if idx < n {
					out[e] = vs2[idx]
				}
			}
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		case "vsaddu", "vsadd", "vssubu", "vssub":
			return c.execSaturating(vv, i.Op, i.Vd, imm, vs2, sew, lmul, i.Vm, n, true)
		}

		if cmp, ok := ivCompareOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			out := make([]bool, n)
			for e := 0; e < n; e++ {
				if mask[e] {
					out[e] = cmp(vs2[e], imm, sew)
				}
			}
			vv.CommitMask(i.Vd, out)
			return nil
		}
		if fixedPointOps[i.Op] {
			return c.execFixedPoint(vv, i.Op, i.Vd, vs2, broadcast(imm, n), sew, lmul, i.Vm, n)
		}
		if op, ok := ivArithOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			dest := vv.ReadElemsN(i.Vd, sew, n)
			out := MaskedMap(mask, dest, func(e int) uint64 { return op(vs2[e], imm, sew) })
			vv.Commit(i.Vd, sew, lmul, out)
			return nil
		}
		return fmt.Errorf("%w: OPIVI op %q", ErrUnsupportedInstruction, i.Op)
	})
}

// execSaturating implements vsadd[u]/vssub[u], shared by the vx and vi
// forms (scalar is already widened to the same operand position). It
// sets VXSAT when any active lane saturates.
func (c *Core) execSaturating(vv *VectorView, op string, vd int, scalar uint64, vs2 []uint64, sew Sew, lmul Lmul, vm bool, n int, reverse bool) error {
	mask := vv.DefaultMask(vm, n)
	dest := vv.ReadElemsN(vd, sew, n)
	anySat := false
	out := MaskedMap(mask, dest, func(e int) uint64 {
		bits := sew.BitLength()
		var v uint64
		var sat bool
		switch op {
		case "vsaddu":
			v, sat = satAddUnsigned(maskToSew(vs2[e], sew), maskToSew(scalar, sew), bits)
		case "vsadd":
			r, s := satAddSigned(signedSew(vs2[e], sew), signedSew(scalar, sew), bits)
			v, sat = uint64(r), s
		case "vssubu":
			v, sat = satSubUnsigned(maskToSew(vs2[e], sew), maskToSew(scalar, sew), bits)
		case "vssub":
			r, s := satSubSigned(signedSew(vs2[e], sew), signedSew(scalar, sew), bits)
			v, sat = uint64(r), s
		}
		if sat {
			anySat = true
		}
		return v
	})
	vv.Commit(vd, sew, lmul, out)
	if anySat {
		c.setVxsat()
	}
	return nil
}
