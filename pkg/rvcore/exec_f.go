package rvcore

import (
	"fmt"
	"strings"
)

// execFR implements the scalar F/D instructions that share the R shape:
// arithmetic, sign-injection, min/max, comparisons, classification,
// int<->float conversions, and raw bit moves. The Op string's suffix
// (".s" or ".d") selects the operand width.
func (c *Core) execFR(i R) error {
	isF64 := strings.HasSuffix(i.Op, ".d")
	switch {
	case strings.HasPrefix(i.Op, "fadd."):
		c.writeF(i.Rd, isF64, c.readF(i.Rs1, isF64).Add(c.readF(i.Rs2, isF64)))
	case strings.HasPrefix(i.Op, "fsub."):
		c.writeF(i.Rd, isF64, c.readF(i.Rs1, isF64).Sub(c.readF(i.Rs2, isF64)))
	case strings.HasPrefix(i.Op, "fmul."):
		c.writeF(i.Rd, isF64, c.readF(i.Rs1, isF64).Mul(c.readF(i.Rs2, isF64)))
	case strings.HasPrefix(i.Op, "fdiv."):
		c.writeF(i.Rd, isF64, c.readF(i.Rs1, isF64).Div(c.readF(i.Rs2, isF64)))
	case strings.HasPrefix(i.Op, "fsqrt."):
		c.writeF(i.Rd, isF64, c.readF(i.Rs1, isF64).Sqrt())
	case strings.HasPrefix(i.Op, "fsgnj."):
		c.writeF(i.Rd, isF64, c.readF(i.Rs1, isF64).WithSign(c.readF(i.Rs2, isF64).SignBit()))
	case strings.HasPrefix(i.Op, "fsgnjn."):
		c.writeF(i.Rd, isF64, c.readF(i.Rs1, isF64).WithSign(!c.readF(i.Rs2, isF64).SignBit()))
	case strings.HasPrefix(i.Op, "fsgnjx."):
		a, b := c.readF(i.Rs1, isF64), c.readF(i.Rs2, isF64)
		c.writeF(i.Rd, isF64, a.WithSign(a.SignBit() != b.SignBit()))
	case strings.HasPrefix(i.Op, "fmin."):
		c.writeF(i.Rd, isF64, c.readF(i.Rs1, isF64).Min(c.readF(i.Rs2, isF64)))
	case strings.HasPrefix(i.Op, "fmax."):
		c.writeF(i.Rd, isF64, c.readF(i.Rs1, isF64).Max(c.readF(i.Rs2, isF64)))
	case strings.HasPrefix(i.Op, "feq."):
		c.Registers.X.Set(i.Rd, boolToU64(c.readF(i.Rs1, isF64).Equal(c.readF(i.Rs2, isF64))))
	case strings.HasPrefix(i.Op, "flt."):
		c.Registers.X.Set(i.Rd, boolToU64(c.readF(i.Rs1, isF64).Less(c.readF(i.Rs2, isF64))))
	case strings.HasPrefix(i.Op, "fle."):
		c.Registers.X.Set(i.Rd, boolToU64(c.readF(i.Rs1, isF64).LessEqual(c.readF(i.Rs2, isF64))))
	case strings.HasPrefix(i.Op, "fclass."):
		c.Registers.X.Set(i.Rd, c.readF(i.Rs1, isF64).Classify())
	case i.Op == "fcvt.w.s", i.Op == "fcvt.w.d":
		c.Registers.X.Set(i.Rd, signExtend32(uint32(c.readF(i.Rs1, isF64).ToInt())))
	case i.Op == "fcvt.wu.s", i.Op == "fcvt.wu.d":
		c.Registers.X.Set(i.Rd, signExtend32(uint32(c.readF(i.Rs1, isF64).ToUint())))
	case i.Op == "fcvt.l.s", i.Op == "fcvt.l.d":
		c.Registers.X.Set(i.Rd, uint64(c.readF(i.Rs1, isF64).ToInt()))
	case i.Op == "fcvt.lu.s", i.Op == "fcvt.lu.d":
		c.Registers.X.Set(i.Rd, c.readF(i.Rs1, isF64).ToUint())
	case i.Op == "fcvt.s.w":
		c.writeF(i.Rd, false, F32Float(float32(int32(c.Registers.X.Get(i.Rs1)))))
	case i.Op == "fcvt.d.w":
		c.writeF(i.Rd, true, F64Float(float64(int32(c.Registers.X.Get(i.Rs1)))))
	case i.Op == "fcvt.s.wu":
		c.writeF(i.Rd, false, F32Float(float32(uint32(c.Registers.X.Get(i.Rs1)))))
	case i.Op == "fcvt.d.wu":
		c.writeF(i.Rd, true, F64Float(float64(uint32(c.Registers.X.Get(i.Rs1)))))
	case i.Op == "fcvt.s.l":
		c.writeF(i.Rd, false, F32Float(float32(int64(c.Registers.X.Get(i.Rs1)))))
	case i.Op == "fcvt.d.l":
		c.writeF(i.Rd, true, F64Float(float64(int64(c.Registers.X.Get(i.Rs1)))))
	case i.Op == "fcvt.s.lu":
		c.writeF(i.Rd, false, F32Float(float32(c.Registers.X.Get(i.Rs1))))
	case i.Op == "fcvt.d.lu":
		c.writeF(i.Rd, true, F64Float(float64(c.Registers.X.Get(i.Rs1))))
	case i.Op == "fcvt.s.d":
		c.writeF(i.Rd, false, F32Float(c.readF(i.Rs1, true).F32()))
	case i.Op == "fcvt.d.s":
		c.writeF(i.Rd, true, F64Float(c.readF(i.Rs1, false).F64()))
	case i.Op == "fmv.x.w":
		c.Registers.X.Set(i.Rd, signExtend32(f32ToBits(c.Registers.F.GetF32(i.Rs1))))
	case i.Op == "fmv.w.x":
		c.Registers.F.SetF32(i.Rd, bitsToF32(uint32(c.Registers.X.Get(i.Rs1))))
	case i.Op == "fmv.x.d":
		c.Registers.X.Set(i.Rd, f64ToBits(c.Registers.F.GetF64(i.Rs1)))
	case i.Op == "fmv.d.x":
		c.Registers.F.SetF64(i.Rd, bitsToF64(c.Registers.X.Get(i.Rs1)))
	default:
		return fmt.Errorf("%w: scalar float op %q", ErrUnsupportedInstruction, i.Op)
	}
	return nil
}

// execR4 implements the four-register fused multiply-add shape.
func (c *Core) execR4(i R4) error {
	isF64 := strings.HasSuffix(i.Op, ".d")
	a, b, d := c.readF(i.Rs1, isF64), c.readF(i.Rs2, isF64), c.readF(i.Rs3, isF64)
	switch {
	case strings.HasPrefix(i.Op, "fmadd."):
		c.writeF(i.Rd, isF64, a.Mul(b).Add(d))
	case strings.HasPrefix(i.Op, "fmsub."):
		c.writeF(i.Rd, isF64, a.Mul(b).Sub(d))
	case strings.HasPrefix(i.Op, "fnmsub."):
		c.writeF(i.Rd, isF64, a.Mul(b).Sub(d).Neg())
	case strings.HasPrefix(i.Op, "fnmadd."):
		c.writeF(i.Rd, isF64, a.Mul(b).Add(d).Neg())
	default:
		return fmt.Errorf("%w: R4-shape op %q", ErrUnsupportedInstruction, i.Op)
	}
	return nil
}

func (c *Core) readF(reg int, isF64 bool) ArbitraryFloat {
	if isF64 {
		return F64Float(c.Registers.F.GetF64(reg))
	}
	return F32Float(c.Registers.F.GetF32(reg))
}

func (c *Core) writeF(reg int, isF64 bool, v ArbitraryFloat) {
	if isF64 {
		c.Registers.F.SetF64(reg, v.F64())
	} else {
		c.Registers.F.SetF32(reg, v.F32())
	}
}
