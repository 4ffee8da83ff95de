package rvcore

import (
	"fmt"
	"strings"
)

// MWideningOps covers OPMVV/OPMVX arithmetic that needs the double-width
// result semantics of the M group: widening add/sub/mul (widening
// multiply-accumulate is MWideningMaccOps). Unlike ivArithOps these run at the *wide* sew the
// caller already resolved, so the function bodies are plain.
var MWideningOps = map[string]func(a, b uint64) uint64{
	"vwaddu": func(a, b uint64) uint64 { return a + b },
	"vwadd":  func(a, b uint64) uint64 { return a + b },
	"vwsubu": func(a, b uint64) uint64 { return a - b },
	"vwsub":  func(a, b uint64) uint64 { return a - b },
	"vwmulu": func(a, b uint64) uint64 { return a * b },
	"vwmul":  func(a, b uint64) uint64 { return a * b },
	"vwmulsu": func(a, b uint64) uint64 { return a * b },
}

// MWideningMaccOps covers the widening multiply-accumulate family:
// vs1/vs2 (or the scalar) are read at the current sew and widened per
// wideningMaccOperandSigned before the product accumulates into dest at the
// doubled sew. vwmaccus is scalar-only (no .vv form) in RVV 1.0.
var MWideningMaccOps = map[string]bool{
	"vwmaccu": true, "vwmacc": true, "vwmaccsu": true, "vwmaccus": true,
}

// wideningMaccOperandSigned mirrors wideningOperandSigned for the
// widening macc family's naming: vwmaccsu's "su" means vs1 signed, vs2
// unsigned; vwmaccus (scalar-only) means the scalar is unsigned and vs2
// is signed — the reverse of vwmaccsu.
func wideningMaccOperandSigned(op string) (vs1Signed, vs2Signed bool) {
	switch op {
	case "vwmaccu":
		return false, false
	case "vwmacc":
		return true, true
	case "vwmaccsu":
		return true, false
	case "vwmaccus":
		return false, true
	}
	return true, true
}

// MaccOps covers the fused multiply-accumulate family; dest is both an
// input (the accumulator) and the output.
// vmacc/vnmsac multiply vs1 by vs2 and accumulate into dest; vmadd/
// vnmsub multiply vs1 by the prior dest and add vs2 instead — the
// accumulator and the second multiplicand swap roles between the two
// pairs, per RVV 1.0's vd/vs2 operand assignment.
var MaccOps = map[string]func(dest, a, b uint64) uint64{
	"vmacc":  func(dest, a, b uint64) uint64 { return dest + a*b },
	"vnmsac": func(dest, a, b uint64) uint64 { return dest - a*b },
	"vmadd":  func(dest, a, b uint64) uint64 { return a*dest + b },
	"vnmsub": func(dest, a, b uint64) uint64 { return b - a*dest },
}

// maskLogicalOps covers vmand.mm..vmxnor.mm: per-bit boolean operators
// over two mask registers, always unmasked regardless of the vm field.
var maskLogicalOps = map[string]func(a, b bool) bool{
	"vmand":  func(a, b bool) bool { return a && b },
	"vmnand": func(a, b bool) bool { return !(a && b) },
	"vmandn": func(a, b bool) bool { return a && !b },
	"vmor":   func(a, b bool) bool { return a || b },
	"vmnor":  func(a, b bool) bool { return !(a || b) },
	"vmorn":  func(a, b bool) bool { return a || !b },
	"vmxor":  func(a, b bool) bool { return a != b },
	"vmxnor": func(a, b bool) bool { return a == b },
}

// execOpmvv implements the vector-vector mask/multiply/widening shape:
// widening arithmetic, multiply-accumulate, reductions, mask logical
// ops, population-count family, and vector<->scalar moves.
func (c *Core) execOpmvv(i Opmvv) error {
	return c.withVectorView(func(vv *VectorView) error {
		sew, lmul := c.VectorEngine.Sew, c.VectorEngine.Lmul
		n := vv.ActiveCount(sew, lmul)

		if op, ok := maskLogicalOps[i.Op]; ok {
			a := vv.ReadMaskBits(i.Vs1, n)
			b := vv.ReadMaskBits(i.Vs2, n)
			out := make([]bool, n)
			for e := 0; e < n; e++ {
				out[e] = op(a[e], b[e])
			}
			vv.CommitMask(i.Dest, out)
			return nil
		}

		switch i.Op {
		case "vmv.x.s":
			v := vv.ReadElemsN(i.Vs2, sew, 1)
			if len(v) > 0 {
				c.Registers.X.Set(i.Dest, uint64(int64(signedSew(v[0], sew))))
			}
			return nil
		case "vcpop.m":
			bits := vv.ReadMaskBits(i.Vs2, n)
			mask := vv.DefaultMask(i.Vm, n)
			count := uint64(0)
			for e, b := range bits {
				if mask[e] && b {
					count++
				}
			}
			c.Registers.X.Set(i.Dest, count)
			return nil
		case "vfirst.m":
			bits := vv.ReadMaskBits(i.Vs2, n)
			idx := int64(-1)
			for e, b := range bits {
				if b {
					idx = int64(e)
					break
				}
			}
			c.Registers.X.Set(i.Dest, uint64(idx))
			return nil
		case "vmsbf.m", "vmsif.m", "vmsof.m":
			bits := vv.ReadMaskBits(i.Vs2, n)
			out := make([]bool, n)
			seen := false
			for e, b := range bits {
				switch i.Op {
				case "vmsbf.m":
					out[e] = !seen
				case "vmsif.m":
					out[e] = !seen || b
				case "vmsof.m":
					out[e] = !seen && b
				}
				if b {
					seen = true
				}
			}
			vv.CommitMask(i.Dest, out)
			return nil
		case "viota.m":
			bits := vv.ReadMaskBits(i.Vs2, n)
			out := make([]uint64, n)
			running := uint64(0)
			for e, b := range bits {
				out[e] = running
				if b {
					running++
				}
			}
			vv.Commit(i.Dest, sew, lmul, out)
			return nil
		case "vid.v":
			out := make([]uint64, n)
			for e := range out {
				out[e] = uint64(e)
			}
			vv.Commit(i.Dest, sew, lmul, out)
			return nil
		case "vsext.vf2", "vsext.vf4", "vsext.vf8", "vzext.vf2", "vzext.vf4", "vzext.vf8":
			return c.execVExt(vv, i.Op, i.Dest, i.Vs2, sew, lmul, n)
		case "vcompress":
			// vcompress.vm packs the elements selected by the vs1 mask
			// down into the low lanes of dest; the remaining (tail) lanes
			// keep their prior value (tail-undisturbed, unmaskable itself).
			sel := vv.ReadMaskBits(i.Vs1, n)
			src := vv.ReadElemsN(i.Vs2, sew, n)
			prior := vv.ReadElemsN(i.Dest, sew, n)
			out := make([]uint64, 0, n)
			for e, keep := range sel {
				if keep {
					out = append(out, src[e])
				}
			}
			for len(out) < n {
				out = append(out, prior[len(out)])
			}
			vv.Commit(i.Dest, sew, lmul, out)
			return nil
		case "vredsum", "vredand", "vredor", "vredxor", "vredminu", "vredmin", "vredmaxu", "vredmax":
			return c.execReduction(vv, i.Op, i.Dest, i.Vs1, i.Vs2, sew, lmul, n)
		}

		vs1 := vv.ReadElemsN(i.Vs1, sew, n)
		vs2 := vv.ReadElemsN(i.Vs2, sew, n)
		if op, ok := MaccOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			dest := vv.ReadElemsN(i.Dest, sew, n)
			out := MaskedMap(mask, dest, func(e int) uint64 { return op(dest[e], vs1[e], vs2[e]) })
			vv.Commit(i.Dest, sew, lmul, out)
			return nil
		}
		if strings.HasPrefix(i.Op, "vw") {
			if sew == SewE64 {
				return fmt.Errorf("%w: %s has no wider sew than e64", ErrSEWRange, i.Op)
			}
			wideSew := sew.Double()
			wideLmul, err := lmul.Double()
			if err != nil {
				return err
			}
			if MWideningMaccOps[i.Op] {
				vs1Signed, vs2Signed := wideningMaccOperandSigned(i.Op)
				mask := vv.DefaultMask(i.Vm, n)
				dest := vv.ReadElemsN(i.Dest, wideSew, n)
				out := MaskedMap(mask, dest, func(e int) uint64 {
					return dest[e] + widenOperand(vs1[e], sew, vs1Signed)*widenOperand(vs2[e], sew, vs2Signed)
				})
				vv.Commit(i.Dest, wideSew, wideLmul, out)
				return nil
			}
			if op, ok := MWideningOps[i.Op]; ok {
				vs1Signed, vs2Signed := wideningOperandSigned(i.Op)
				out := make([]uint64, n)
				for e := 0; e < n; e++ {
					out[e] = op(widenOperand(vs1[e], sew, vs1Signed), widenOperand(vs2[e], sew, vs2Signed))
				}
				vv.Commit(i.Dest, wideSew, wideLmul, out)
				return nil
			}
		}
		if op, ok := ivArithOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			dest := vv.ReadElemsN(i.Dest, sew, n)
			out := MaskedMap(mask, dest, func(e int) uint64 { return op(vs2[e], vs1[e], sew) })
			vv.Commit(i.Dest, sew, lmul, out)
			return nil
		}
		return fmt.Errorf("%w: OPMVV op %q", ErrUnsupportedInstruction, i.Op)
	})
}

// wideningOperandSigned reports whether the first (vs1/scalar) and
// second (vs2) operands of a widening op should be sign- or
// zero-extended before the wide multiply/add. vwmulsu is the one
// mixed-signedness case: vs2 is signed, vs1/the scalar is unsigned;
// every other op is uniformly "u"-suffixed (unsigned) or not (signed).
func wideningOperandSigned(op string) (vs1Signed, vs2Signed bool) {
	if op == "vwmulsu" {
		return false, true
	}
	if strings.HasSuffix(op, "u") {
		return false, false
	}
	return true, true
}

// widenOperand sign- or zero-extends v up from sew per signed.
func widenOperand(v uint64, sew Sew, signed bool) uint64 {
	if signed {
		return uint64(signedSew(v, sew))
	}
	return maskToSew(v, sew)
}

// execVExt implements vsext.vfN/vzext.vfN: widen a narrower source lane
// (sew/N) up to the destination's current sew.
func (c *Core) execVExt(vv *VectorView, op string, dest, vs2 int, destSew Sew, destLmul Lmul, n int) error {
	factor := 2
	switch {
	case strings.HasSuffix(op, "vf4"):
		factor = 4
	case strings.HasSuffix(op, "vf8"):
		factor = 8
	}
	srcBits := destSew.BitLength() / factor
	srcSew, err := SewFromBits(srcBits)
	if err != nil {
		return err
	}
	raw := vv.ReadElemsN(vs2, srcSew, n)
	out := make([]uint64, n)
	signed := strings.HasPrefix(op, "vsext")
	for e, v := range raw {
		if signed {
			out[e] = uint64(signedSew(v, srcSew))
		} else {
			out[e] = maskToSew(v, srcSew)
		}
	}
	vv.Commit(dest, destSew, destLmul, out)
	return nil
}

// execReduction implements the unordered integer reductions: vs1[0] is
// the initial accumulator, every active element of vs2 folds in, and the
// result lands in element 0 of dest (spec.md §4.2 "vector reductions").
func (c *Core) execReduction(vv *VectorView, op string, dest, vs1, vs2 int, sew Sew, lmul Lmul, n int) error {
	init := vv.ReadElemsN(vs1, sew, 1)
	acc := uint64(0)
	if len(init) > 0 {
		acc = init[0]
	}
	mask := vv.DefaultMask(true, n)
	elems := vv.ReadElemsN(vs2, sew, n)
	for e := 0; e < n; e++ {
		if !mask[e] {
			continue
		}
		switch op {
		case "vredsum":
			acc += elems[e]
		case "vredand":
			acc &= elems[e]
		case "vredor":
			acc |= elems[e]
		case "vredxor":
			acc ^= elems[e]
		case "vredminu":
			if maskToSew(elems[e], sew) < maskToSew(acc, sew) {
				acc = elems[e]
			}
		case "vredmin":
			if signedSew(elems[e], sew) < signedSew(acc, sew) {
				acc = elems[e]
			}
		case "vredmaxu":
			if maskToSew(elems[e], sew) > maskToSew(acc, sew) {
				acc = elems[e]
			}
		case "vredmax":
			if signedSew(elems[e], sew) > signedSew(acc, sew) {
				acc = elems[e]
			}
		}
	}
	vv.Commit(dest, sew, lmul, []uint64{acc})
	return nil
}

// execOpmvx implements the vector-scalar(x register) mask/widening
// shape: vmv.s.x and the remaining widening/macc ops against a scalar.
func (c *Core) execOpmvx(i Opmvx) error {
	return c.withVectorView(func(vv *VectorView) error {
		sew, lmul := c.VectorEngine.Sew, c.VectorEngine.Lmul
		n := vv.ActiveCount(sew, lmul)
		scalar := c.Registers.X.Get(i.Rs1)

		switch i.Op {
		case "vmv.s.x":
			if n > 0 {
				vv.Commit(i.Dest, sew, lmul, []uint64{scalar})
			}
			return nil
		}

		vs2 := vv.ReadElemsN(i.Vs2, sew, n)
		if op, ok := MaccOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			dest := vv.ReadElemsN(i.Dest, sew, n)
			out := MaskedMap(mask, dest, func(e int) uint64 { return op(dest[e], scalar, vs2[e]) })
			vv.Commit(i.Dest, sew, lmul, out)
			return nil
		}
		if strings.HasPrefix(i.Op, "vw") {
			if sew == SewE64 {
				return fmt.Errorf("%w: %s has no wider sew than e64", ErrSEWRange, i.Op)
			}
			wideSew := sew.Double()
			wideLmul, err := lmul.Double()
			if err != nil {
				return err
			}
			if MWideningMaccOps[i.Op] {
				vs1Signed, vs2Signed := wideningMaccOperandSigned(i.Op)
				mask := vv.DefaultMask(i.Vm, n)
				dest := vv.ReadElemsN(i.Dest, wideSew, n)
				out := MaskedMap(mask, dest, func(e int) uint64 {
					return dest[e] + widenOperand(scalar, sew, vs1Signed)*widenOperand(vs2[e], sew, vs2Signed)
				})
				vv.Commit(i.Dest, wideSew, wideLmul, out)
				return nil
			}
			if op, ok := MWideningOps[i.Op]; ok {
				vs1Signed, vs2Signed := wideningOperandSigned(i.Op)
				out := make([]uint64, n)
				for e := 0; e < n; e++ {
					out[e] = op(widenOperand(scalar, sew, vs1Signed), widenOperand(vs2[e], sew, vs2Signed))
				}
				vv.Commit(i.Dest, wideSew, wideLmul, out)
				return nil
			}
		}
		if op, ok := ivArithOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			dest := vv.ReadElemsN(i.Dest, sew, n)
			out := MaskedMap(mask, dest, func(e int) uint64 { return op(vs2[e], scalar, sew) })
			vv.Commit(i.Dest, sew, lmul, out)
			return nil
		}
		return fmt.Errorf("%w: OPMVX op %q", ErrUnsupportedInstruction, i.Op)
	})
}
