package rvcore

import (
	"fmt"
	"math"
)

// FpArithOps covers the shared elementwise FP arithmetic table for
// OPFVV/OPFVF, mirroring ivArithOps' role for the integer groups.
var FpArithOps = map[string]func(a, b ArbitraryFloat) ArbitraryFloat{
	"vfadd":   func(a, b ArbitraryFloat) ArbitraryFloat { return a.Add(b) },
	"vfsub":   func(a, b ArbitraryFloat) ArbitraryFloat { return a.Sub(b) },
	"vfrsub":  func(a, b ArbitraryFloat) ArbitraryFloat { return b.Sub(a) },
	"vfmul":   func(a, b ArbitraryFloat) ArbitraryFloat { return a.Mul(b) },
	"vfdiv":   func(a, b ArbitraryFloat) ArbitraryFloat { return a.Div(b) },
	"vfrdiv":  func(a, b ArbitraryFloat) ArbitraryFloat { return b.Div(a) },
	"vfmin":   func(a, b ArbitraryFloat) ArbitraryFloat { return a.Min(b) },
	"vfmax":   func(a, b ArbitraryFloat) ArbitraryFloat { return a.Max(b) },
	"vfsgnj":  func(a, b ArbitraryFloat) ArbitraryFloat { return a.WithSign(b.SignBit()) },
	"vfsgnjn": func(a, b ArbitraryFloat) ArbitraryFloat { return a.WithSign(!b.SignBit()) },
	"vfsgnjx": func(a, b ArbitraryFloat) ArbitraryFloat { return a.WithSign(a.SignBit() != b.SignBit()) },
}

var FpCompareOps = map[string]func(a, b ArbitraryFloat) bool{
	"vmfeq": func(a, b ArbitraryFloat) bool { return a.Equal(b) },
	"vmfne": func(a, b ArbitraryFloat) bool { return !a.Equal(b) },
	"vmflt": func(a, b ArbitraryFloat) bool { return a.Less(b) },
	"vmfle": func(a, b ArbitraryFloat) bool { return a.LessEqual(b) },
	"vmfgt": func(a, b ArbitraryFloat) bool { return b.Less(a) },
	"vmfge": func(a, b ArbitraryFloat) bool { return b.LessEqual(a) },
}

// vfmacc/vfnmacc/vfmsac/vfnmsac multiply vs1 by vs2 and accumulate into
// dest; vfmadd/vfnmadd/vfmsub/vfnmsub multiply vs1 by the prior dest and
// add/sub vs2 instead, per RVV 1.0's vd/vs2 operand assignment.
var FpMaccOps = map[string]func(dest, a, b ArbitraryFloat) ArbitraryFloat{
	"vfmacc":  func(dest, a, b ArbitraryFloat) ArbitraryFloat { return dest.Add(a.Mul(b)) },
	"vfnmacc": func(dest, a, b ArbitraryFloat) ArbitraryFloat { return dest.Add(a.Mul(b)).Neg() },
	"vfmsac":  func(dest, a, b ArbitraryFloat) ArbitraryFloat { return a.Mul(b).Sub(dest) },
	"vfnmsac": func(dest, a, b ArbitraryFloat) ArbitraryFloat { return dest.Sub(a.Mul(b)) },
	"vfmadd":  func(dest, a, b ArbitraryFloat) ArbitraryFloat { return a.Mul(dest).Add(b) },
	"vfnmadd": func(dest, a, b ArbitraryFloat) ArbitraryFloat { return a.Mul(dest).Add(b).Neg() },
	"vfmsub":  func(dest, a, b ArbitraryFloat) ArbitraryFloat { return a.Mul(dest).Sub(b) },
	"vfnmsub": func(dest, a, b ArbitraryFloat) ArbitraryFloat { return b.Sub(a.Mul(dest)) },
}

// FpWideningMaccOps covers the widening fused multiply-accumulate family:
// vs1/vs2 (or the scalar) are read at the current sew and promoted to
// double precision before the multiply; dest is read and written at the
// doubled sew. The four formulas mirror vfmacc/vfnmacc/vfmsac/vfnmsac's
// dest/vs2 role assignment, just at double width.
var FpWideningMaccOps = map[string]func(dest, a, b ArbitraryFloat) ArbitraryFloat{
	"vfwmacc":  func(dest, a, b ArbitraryFloat) ArbitraryFloat { return dest.Add(a.Mul(b)) },
	"vfwnmacc": func(dest, a, b ArbitraryFloat) ArbitraryFloat { return dest.Add(a.Mul(b)).Neg() },
	"vfwmsac":  func(dest, a, b ArbitraryFloat) ArbitraryFloat { return a.Mul(b).Sub(dest) },
	"vfwnmsac": func(dest, a, b ArbitraryFloat) ArbitraryFloat { return dest.Sub(a.Mul(b)) },
}

// execOpfvv implements the vector-vector floating-point shape: binary
// arithmetic, comparisons, fused multiply-add, reductions, unary
// conversions/classification, and vector<->scalar moves.
func (c *Core) execOpfvv(i Opfvv) error {
	return c.withVectorView(func(vv *VectorView) error {
		sew, lmul := c.VectorEngine.Sew, c.VectorEngine.Lmul
		n := vv.ActiveCount(sew, lmul)

		switch i.Op {
		case "vfmv.f.s":
			v, err := vv.ReadFP(i.Vs2, sew, lmul)
			if err != nil {
				return err
			}
			if len(v) > 0 {
				c.writeF(i.Dest, sew == SewE64, v[0])
			}
			return nil
		case "vfsqrt.v", "vfclass.v", "vfrsqrt7.v", "vfrec7.v",
			"vfcvt.xu.f.v", "vfcvt.x.f.v", "vfcvt.f.xu.v", "vfcvt.f.x.v",
			"vfcvt.rtz.xu.f.v", "vfcvt.rtz.x.f.v",
			"vfwcvt.xu.f.v", "vfwcvt.x.f.v", "vfwcvt.f.xu.v", "vfwcvt.f.x.v", "vfwcvt.f.f.v",
			"vfncvt.xu.f.v", "vfncvt.x.f.v", "vfncvt.f.xu.v", "vfncvt.f.x.v", "vfncvt.f.f.v":
			return c.execFpUnary(vv, i.Op, i.Dest, i.Vs2, sew, lmul, n, i.Vm)
		case "vfredusum", "vfredosum", "vfredmin", "vfredmax":
			return c.execFpReduction(vv, i.Op, i.Dest, i.Vs1, i.Vs2, sew, lmul, n)
		}

		if op, ok := FpWideningMaccOps[i.Op]; ok {
			if sew == SewE64 {
				return fmt.Errorf("%w: %s has no wider sew than e64", ErrSEWRange, i.Op)
			}
			wideSew := sew.Double()
			wideLmul, err := lmul.Double()
			if err != nil {
				return err
			}
			vs1, err := vv.ReadFP(i.Vs1, sew, lmul)
			if err != nil {
				return err
			}
			vs2, err := vv.ReadFP(i.Vs2, sew, lmul)
			if err != nil {
				return err
			}
			dest, err := vv.ReadFP(i.Dest, wideSew, wideLmul)
			if err != nil {
				return err
			}
			mask := vv.DefaultMask(i.Vm, n)
			out := MaskedMapFP(mask, dest, func(e int) ArbitraryFloat {
				return op(dest[e], vs1[e].DoublePrecision(), vs2[e].DoublePrecision())
			})
			vv.CommitFP(i.Dest, wideSew, wideLmul, out)
			return nil
		}

		vs1, err := vv.ReadFP(i.Vs1, sew, lmul)
		if err != nil {
			return err
		}
		vs2, err := vv.ReadFP(i.Vs2, sew, lmul)
		if err != nil {
			return err
		}
		dest, err := vv.ReadFP(i.Dest, sew, lmul)
		if err != nil {
			return err
		}

		if cmp, ok := FpCompareOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			out := make([]bool, n)
			for e := 0; e < n; e++ {
				if mask[e] {
					out[e] = cmp(vs2[e], vs1[e])
				}
			}
			vv.CommitMask(i.Dest, out)
			return nil
		}
		if op, ok := FpMaccOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			out := MaskedMapFP(mask, dest, func(e int) ArbitraryFloat { return op(dest[e], vs1[e], vs2[e]) })
			vv.CommitFP(i.Dest, sew, lmul, out)
			return nil
		}
		if op, ok := FpArithOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			out := MaskedMapFP(mask, dest, func(e int) ArbitraryFloat { return op(vs2[e], vs1[e]) })
			vv.CommitFP(i.Dest, sew, lmul, out)
			return nil
		}
		return fmt.Errorf("%w: OPFVV op %q", ErrUnsupportedInstruction, i.Op)
	})
}

// execOpfvf implements the vector-scalar(f register) floating-point
// shape.
func (c *Core) execOpfvf(i Opfvf) error {
	return c.withVectorView(func(vv *VectorView) error {
		sew, lmul := c.VectorEngine.Sew, c.VectorEngine.Lmul
		n := vv.ActiveCount(sew, lmul)
		scalar := c.readF(i.Rs1, sew == SewE64)

		switch i.Op {
		case "vfmv.s.f":
			if n > 0 {
				vv.CommitFP(i.Vd, sew, lmul, []ArbitraryFloat{scalar})
			}
			return nil
		case "vfmv.v.f":
			out := make([]ArbitraryFloat, n)
			for e := range out {
				out[e] = scalar
			}
			vv.CommitFP(i.Vd, sew, lmul, out)
			return nil
		case "vfslide1up.vf":
			vs2, err := vv.ReadFP(i.Vs2, sew, lmul)
			if err != nil {
				return err
			}
			out := make([]ArbitraryFloat, n)
			if n > 0 {
				out[0] = scalar
				copy(out[1:], vs2[:max0(n-1)])
			}
			vv.CommitFP(i.Vd, sew, lmul, out)
			return nil
		case "vfslide1down.vf":
			vs2, err := vv.ReadFP(i.Vs2, sew, lmul)
			if err != nil {
				return err
			}
			out := make([]ArbitraryFloat, n)
			for e := 0; e+1 < n; e++ {
				out[e] = vs2[e+1]
			}
			if n > 0 {
				out[n-1] = scalar
			}
			vv.CommitFP(i.Vd, sew, lmul, out)
			return nil
		}

		if op, ok := FpWideningMaccOps[i.Op]; ok {
			if sew == SewE64 {
				return fmt.Errorf("%w: %s has no wider sew than e64", ErrSEWRange, i.Op)
			}
			wideSew := sew.Double()
			wideLmul, err := lmul.Double()
			if err != nil {
				return err
			}
			vs2, err := vv.ReadFP(i.Vs2, sew, lmul)
			if err != nil {
				return err
			}
			dest, err := vv.ReadFP(i.Vd, wideSew, wideLmul)
			if err != nil {
				return err
			}
			mask := vv.DefaultMask(i.Vm, n)
			out := MaskedMapFP(mask, dest, func(e int) ArbitraryFloat {
				return op(dest[e], scalar.DoublePrecision(), vs2[e].DoublePrecision())
			})
			vv.CommitFP(i.Vd, wideSew, wideLmul, out)
			return nil
		}

		vs2, err := vv.ReadFP(i.Vs2, sew, lmul)
		if err != nil {
			return err
		}
		dest, err := vv.ReadFP(i.Vd, sew, lmul)
		if err != nil {
			return err
		}

		if cmp, ok := FpCompareOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			out := make([]bool, n)
			for e := 0; e < n; e++ {
				if mask[e] {
					out[e] = cmp(vs2[e], scalar)
				}
			}
			vv.CommitMask(i.Vd, out)
			return nil
		}
		if op, ok := FpMaccOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			out := MaskedMapFP(mask, dest, func(e int) ArbitraryFloat { return op(dest[e], scalar, vs2[e]) })
			vv.CommitFP(i.Vd, sew, lmul, out)
			return nil
		}
		if op, ok := FpArithOps[i.Op]; ok {
			mask := vv.DefaultMask(i.Vm, n)
			out := MaskedMapFP(mask, dest, func(e int) ArbitraryFloat { return op(vs2[e], scalar) })
			vv.CommitFP(i.Vd, sew, lmul, out)
			return nil
		}
		return fmt.Errorf("%w: OPFVF op %q", ErrUnsupportedInstruction, i.Op)
	})
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// execFpUnary implements the unary FP ops: sqrt, classify, the
// reciprocal approximations, and the float<->int conversion family
// (including the widening/narrowing cvt forms).
func (c *Core) execFpUnary(vv *VectorView, op string, dest, vs2 int, sew Sew, lmul Lmul, n int, vm bool) error {
	mask := vv.DefaultMask(vm, n)
	switch op {
	case "vfsqrt.v":
		vs2vals, err := vv.ReadFP(vs2, sew, lmul)
		if err != nil {
			return err
		}
		out := MaskedMapFP(mask, vs2vals, func(e int) ArbitraryFloat { return vs2vals[e].Sqrt() })
		vv.CommitFP(dest, sew, lmul, out)
		return nil
	case "vfrsqrt7.v":
		vs2vals, err := vv.ReadFP(vs2, sew, lmul)
		if err != nil {
			return err
		}
		out := make([]ArbitraryFloat, n)
		for e := range out {
			out[e] = vs2vals[e].CopyType(1 / math.Sqrt(vs2vals[e].F64()))
		}
		vv.CommitFP(dest, sew, lmul, out)
		return nil
	case "vfrec7.v":
		vs2vals, err := vv.ReadFP(vs2, sew, lmul)
		if err != nil {
			return err
		}
		out := make([]ArbitraryFloat, n)
		for e := range out {
			out[e] = vs2vals[e].CopyType(1 / vs2vals[e].F64())
		}
		vv.CommitFP(dest, sew, lmul, out)
		return nil
	case "vfclass.v":
		vs2vals, err := vv.ReadFP(vs2, sew, lmul)
		if err != nil {
			return err
		}
		out := make([]uint64, n)
		for e := range out {
			out[e] = vs2vals[e].Classify()
		}
		vv.Commit(dest, sew, lmul, out)
		return nil
	case "vfcvt.xu.f.v", "vfcvt.x.f.v", "vfcvt.rtz.xu.f.v", "vfcvt.rtz.x.f.v":
		vs2vals, err := vv.ReadFP(vs2, sew, lmul)
		if err != nil {
			return err
		}
		rtz := len(op) > 10 && op[6:9] == "rtz"
		out := make([]uint64, n)
		for e, v := range vs2vals {
			f := v.F64()
			if !rtz {
				f = v.RoundToNearestInt()
			}
			if op == "vfcvt.xu.f.v" || op == "vfcvt.rtz.xu.f.v" {
				out[e] = uint64(f)
			} else {
				out[e] = uint64(int64(f))
			}
		}
		vv.Commit(dest, sew, lmul, out)
		return nil
	case "vfcvt.f.xu.v", "vfcvt.f.x.v":
		raw := vv.ReadElemsN(vs2, sew, n)
		out := make([]ArbitraryFloat, n)
		for e, v := range raw {
			var f float64
			if op == "vfcvt.f.xu.v" {
				f = float64(maskToSew(v, sew))
			} else {
				f = float64(signedSew(v, sew))
			}
			if sew == SewE64 {
				out[e] = F64Float(f)
			} else {
				out[e] = F32Float(float32(f))
			}
		}
		vv.CommitFP(dest, sew, lmul, out)
		return nil
	case "vfwcvt.f.f.v":
		vs2vals, err := vv.ReadFP(vs2, sew, lmul)
		if err != nil {
			return err
		}
		wideSew := sew.Double()
		wideLmul, err := lmul.Double()
		if err != nil {
			return err
		}
		out := make([]ArbitraryFloat, n)
		for e := range out {
			out[e] = vs2vals[e].DoublePrecision()
		}
		vv.CommitFP(dest, wideSew, wideLmul, out)
		return nil
	case "vfncvt.f.f.v":
		narrowSew, err := sew.Half()
		if err != nil {
			return err
		}
		narrowLmulRatio := lmul.Ratio() / 2
		narrowLmul, err := LmulFromRatio(narrowLmulRatio)
		if err != nil {
			return err
		}
		vs2vals, err := vv.ReadFP(vs2, sew, lmul)
		if err != nil {
			return err
		}
		out := make([]ArbitraryFloat, n)
		for e := range out {
			out[e] = vs2vals[e].HalfPrecision(RoundNearest)
		}
		vv.CommitFP(dest, narrowSew, narrowLmul, out)
		return nil
	case "vfwcvt.xu.f.v", "vfwcvt.x.f.v":
		vs2vals, err := vv.ReadFP(vs2, sew, lmul)
		if err != nil {
			return err
		}
		wideSew := sew.Double()
		wideLmul, err := lmul.Double()
		if err != nil {
			return err
		}
		out := make([]uint64, n)
		for e, v := range vs2vals {
			if op == "vfwcvt.xu.f.v" {
				out[e] = v.ToUint()
			} else {
				out[e] = uint64(v.ToInt())
			}
		}
		vv.Commit(dest, wideSew, wideLmul, out)
		return nil
	case "vfwcvt.f.xu.v", "vfwcvt.f.x.v":
		raw := vv.ReadElemsN(vs2, sew, n)
		wideSew := sew.Double()
		wideLmul, err := lmul.Double()
		if err != nil {
			return err
		}
		out := make([]ArbitraryFloat, n)
		for e, v := range raw {
			var f float64
			if op == "vfwcvt.f.xu.v" {
				f = float64(maskToSew(v, sew))
			} else {
				f = float64(signedSew(v, sew))
			}
			out[e] = F64Float(f)
		}
		vv.CommitFP(dest, wideSew, wideLmul, out)
		return nil
	case "vfncvt.xu.f.v", "vfncvt.x.f.v", "vfncvt.f.xu.v", "vfncvt.f.x.v":
		narrowSew, err := sew.Half()
		if err != nil {
			return err
		}
		narrowLmulRatio := lmul.Ratio() / 2
		narrowLmul, err := LmulFromRatio(narrowLmulRatio)
		if err != nil {
			return err
		}
		if op == "vfncvt.xu.f.v" || op == "vfncvt.x.f.v" {
			vs2vals, err := vv.ReadFP(vs2, sew, lmul)
			if err != nil {
				return err
			}
			out := make([]uint64, n)
			for e, v := range vs2vals {
				if op == "vfncvt.xu.f.v" {
					out[e] = v.ToUint()
				} else {
					out[e] = uint64(v.ToInt())
				}
			}
			vv.Commit(dest, narrowSew, narrowLmul, out)
			return nil
		}
		raw := vv.ReadElemsN(vs2, sew, n)
		out := make([]ArbitraryFloat, n)
		for e, v := range raw {
			var f float64
			if op == "vfncvt.f.xu.v" {
				f = float64(maskToSew(v, sew))
			} else {
				f = float64(signedSew(v, sew))
			}
			out[e] = F32Float(float32(f))
		}
		vv.CommitFP(dest, narrowSew, narrowLmul, out)
		return nil
	default:
		return fmt.Errorf("%w: conversion %q", ErrUnsupportedInstruction, op)
	}
}

// execFpReduction implements the FP reduction family; ordered
// (vfredosum) sums left-to-right, unordered (vfredusum) is approximated
// the same way since this engine has no superscalar reassociation to
// model.
func (c *Core) execFpReduction(vv *VectorView, op string, dest, vs1, vs2 int, sew Sew, lmul Lmul, n int) error {
	init, err := vv.ReadFP(vs1, sew, lmul)
	if err != nil {
		return err
	}
	var acc ArbitraryFloat
	if len(init) > 0 {
		acc = init[0]
	}
	elems, err := vv.ReadFP(vs2, sew, lmul)
	if err != nil {
		return err
	}
	for e := 0; e < n; e++ {
		switch op {
		case "vfredusum", "vfredosum":
			acc = acc.Add(elems[e])
		case "vfredmin":
			acc = acc.Min(elems[e])
		case "vfredmax":
			acc = acc.Max(elems[e])
		}
	}
	vv.CommitFP(dest, sew, lmul, []ArbitraryFloat{acc})
	return nil
}
