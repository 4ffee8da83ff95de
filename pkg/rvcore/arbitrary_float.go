package rvcore

import "math"

// ArbitraryFloat is a width-erased floating-point lane value, tagged
// F32 or F64. Grounded on
// original_source/crates/core/src/rv_core/arbitrary_float.rs; it exists
// because the vector FP lanes share one elementwise implementation
// across both widths (spec.md §4.4 / §9 "Float width erasure").
type ArbitraryFloat struct {
	isF64 bool
	f32   float32
	f64   float64
}

// F32Float builds a single-precision lane value.
func F32Float(v float32) ArbitraryFloat { return ArbitraryFloat{f32: v} }

// F64Float builds a double-precision lane value.
func F64Float(v float64) ArbitraryFloat { return ArbitraryFloat{isF64: true, f64: v} }

// IsF64 reports whether this value is double-precision.
func (a ArbitraryFloat) IsF64() bool { return a.isF64 }

// F64 returns the value widened to float64 regardless of tag.
func (a ArbitraryFloat) F64() float64 {
	if a.isF64 {
		return a.f64
	}
	return float64(a.f32)
}

// F32 returns the value narrowed to float32 regardless of tag.
func (a ArbitraryFloat) F32() float32 {
	if a.isF64 {
		return float32(a.f64)
	}
	return a.f32
}

// CopyType rebuilds a value tagged like other but holding value.
func (a ArbitraryFloat) CopyType(value float64) ArbitraryFloat {
	if a.isF64 {
		return F64Float(value)
	}
	return F32Float(float32(value))
}

// DoublePrecision promotes an F32 lane to F64.
func (a ArbitraryFloat) DoublePrecision() ArbitraryFloat {
	if a.isF64 {
		panic("rvcore: no f128 support")
	}
	return F64Float(float64(a.f32))
}

// RoundingMode selects how HalfPrecision narrows an F64 lane.
type RoundingMode int

const (
	RoundNearest RoundingMode = iota
	RoundTowardsOdd
)

// HalfPrecision narrows an F64 lane to F32 under the given rounding mode.
func (a ArbitraryFloat) HalfPrecision(mode RoundingMode) ArbitraryFloat {
	if !a.isF64 {
		panic("rvcore: no f16 support")
	}
	narrowed := float32(a.f64)
	if mode == RoundTowardsOdd {
		bits := math.Float32bits(narrowed) | 1
		narrowed = math.Float32frombits(bits)
	}
	return F32Float(narrowed)
}

// arithmetic helpers: per spec.md §4.4, when an F32 and F64 meet the
// wider operand is demoted to F32 before the operator runs.
func binaryOp(a, b ArbitraryFloat, op func(x, y float64) float64) ArbitraryFloat {
	switch {
	case a.isF64 && b.isF64:
		return F64Float(op(a.f64, b.f64))
	case !a.isF64 && !b.isF64:
		return F32Float(float32(op(float64(a.f32), float64(b.f32))))
	default:
		// mixed width: narrow the f64 side to f32 symmetrically
		af, bf := a.F32(), b.F32()
		return F32Float(float32(op(float64(af), float64(bf))))
	}
}

func (a ArbitraryFloat) Add(b ArbitraryFloat) ArbitraryFloat {
	return binaryOp(a, b, func(x, y float64) float64 { return x + y })
}

func (a ArbitraryFloat) Sub(b ArbitraryFloat) ArbitraryFloat {
	return binaryOp(a, b, func(x, y float64) float64 { return x - y })
}

func (a ArbitraryFloat) Mul(b ArbitraryFloat) ArbitraryFloat {
	return binaryOp(a, b, func(x, y float64) float64 { return x * y })
}

func (a ArbitraryFloat) Div(b ArbitraryFloat) ArbitraryFloat {
	return binaryOp(a, b, func(x, y float64) float64 { return x / y })
}

func (a ArbitraryFloat) Neg() ArbitraryFloat {
	if a.isF64 {
		return F64Float(-a.f64)
	}
	return F32Float(-a.f32)
}

func (a ArbitraryFloat) Abs() ArbitraryFloat {
	if a.isF64 {
		return F64Float(math.Abs(a.f64))
	}
	return F32Float(float32(math.Abs(float64(a.f32))))
}

func (a ArbitraryFloat) Sqrt() ArbitraryFloat {
	if a.isF64 {
		return F64Float(math.Sqrt(a.f64))
	}
	return F32Float(float32(math.Sqrt(float64(a.f32))))
}

// Less, LessEqual, Equal implement the partial ordering IEEE-754
// comparisons used by vmflt/vmfle/vmfeq and their scalar counterparts.
func (a ArbitraryFloat) Less(b ArbitraryFloat) bool    { return a.F64() < b.F64() }
func (a ArbitraryFloat) LessEqual(b ArbitraryFloat) bool { return a.F64() <= b.F64() }
func (a ArbitraryFloat) Equal(b ArbitraryFloat) bool   { return a.F64() == b.F64() }

// Min / Max implement the RISC-V minimumNumber/maximumNumber semantics
// approximated with Go's NaN-propagating math.Min/Max (no signaling-NaN
// distinction is made anywhere in this engine, per spec.md §9).
func (a ArbitraryFloat) Min(b ArbitraryFloat) ArbitraryFloat {
	return binaryOp(a, b, math.Min)
}

func (a ArbitraryFloat) Max(b ArbitraryFloat) ArbitraryFloat {
	return binaryOp(a, b, math.Max)
}

// SignBit returns true when the value's sign bit is set.
func (a ArbitraryFloat) SignBit() bool {
	if a.isF64 {
		return math.Signbit(a.f64)
	}
	return math.Signbit(float64(a.f32))
}

// WithSign rebuilds a value with the magnitude of a and the sign bit sign.
func (a ArbitraryFloat) WithSign(sign bool) ArbitraryFloat {
	mag := a.Abs()
	if sign {
		return mag.Neg()
	}
	return mag
}

// Classify produces the 10-bit fclass bitmap described in spec.md §4.2.
func (a ArbitraryFloat) Classify() uint64 {
	v := a.F64()
	neg := math.Signbit(v)
	switch {
	case math.IsInf(v, -1):
		return 1 << 0
	case math.IsInf(v, 1):
		return 1 << 7
	case math.IsNaN(v):
		return 1 << 9
	case v == 0:
		if neg {
			return 1 << 3
		}
		return 1 << 4
	}
	var isSubnormal bool
	if a.isF64 {
		isSubnormal = math.Abs(v) < 0x1p-1022
	} else {
		isSubnormal = math.Abs(float64(a.f32)) < 0x1p-126
	}
	switch {
	case neg && isSubnormal:
		return 1 << 2
	case neg:
		return 1 << 1
	case isSubnormal:
		return 1 << 5
	default:
		return 1 << 6
	}
}

// ToInt truncates toward zero to an int64, used by float->int conversions.
func (a ArbitraryFloat) ToInt() int64 { return int64(a.F64()) }

// ToUint truncates toward zero to a uint64.
func (a ArbitraryFloat) ToUint() uint64 { return uint64(a.F64()) }

// RoundToNearestInt rounds to the nearest integer, ties to even, matching
// the default RVV float->int conversion rounding mode.
func (a ArbitraryFloat) RoundToNearestInt() float64 {
	return math.RoundToEven(a.F64())
}
