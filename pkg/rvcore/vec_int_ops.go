package rvcore

// maskToSew truncates v to the low sew.BitLength() bits.
func maskToSew(v uint64, sew Sew) uint64 {
	bits := sew.BitLength()
	if bits >= 64 {
		return v
	}
	return v & (1<<uint(bits) - 1)
}

func signedSew(v uint64, sew Sew) int64 {
	return int64(signExtendN(v, sew.BitLength()))
}

// vecBinOp is an elementwise integer binary operator; its result is
// truncated to SEW width on commit, so operators need not mask unless
// the operator itself (shift amount, comparison) cares about width.
type vecBinOp func(a, b uint64, sew Sew) uint64

// ivArithOps covers the shared elementwise arithmetic/logic table for
// OPIVV/OPIVX/OPIVI, per spec.md §4.2's masked_map combinator.
var ivArithOps = map[string]vecBinOp{
	"vadd": func(a, b uint64, sew Sew) uint64 { return a + b },
	"vsub": func(a, b uint64, sew Sew) uint64 { return a - b },
	"vrsub": func(a, b uint64, sew Sew) uint64 { return b - a },
	"vand":  func(a, b uint64, sew Sew) uint64 { return a & b },
	"vor":   func(a, b uint64, sew Sew) uint64 { return a | b },
	"vxor":  func(a, b uint64, sew Sew) uint64 { return a ^ b },
	"vsll": func(a, b uint64, sew Sew) uint64 {
		return a << (b & uint64(sew.BitLength()-1))
	},
	"vsrl": func(a, b uint64, sew Sew) uint64 {
		return maskToSew(a, sew) >> (b & uint64(sew.BitLength()-1))
	},
	"vsra": func(a, b uint64, sew Sew) uint64 {
		return uint64(signedSew(a, sew) >> (b & uint64(sew.BitLength()-1)))
	},
	"vmin": func(a, b uint64, sew Sew) uint64 {
		if signedSew(a, sew) < signedSew(b, sew) {
			return a
		}
		return b
	},
	"vminu": func(a, b uint64, sew Sew) uint64 {
		if maskToSew(a, sew) < maskToSew(b, sew) {
			return a
		}
		return b
	},
	"vmax": func(a, b uint64, sew Sew) uint64 {
		if signedSew(a, sew) > signedSew(b, sew) {
			return a
		}
		return b
	},
	"vmaxu": func(a, b uint64, sew Sew) uint64 {
		if maskToSew(a, sew) > maskToSew(b, sew) {
			return a
		}
		return b
	},
	"vmul": func(a, b uint64, sew Sew) uint64 { return a * b },
	"vdiv": func(a, b uint64, sew Sew) uint64 {
		return uint64(divSigned(signedSew(a, sew), signedSew(b, sew)))
	},
	"vdivu": func(a, b uint64, sew Sew) uint64 {
		return divUnsigned(maskToSew(a, sew), maskToSew(b, sew))
	},
	"vrem": func(a, b uint64, sew Sew) uint64 {
		return uint64(remSigned(signedSew(a, sew), signedSew(b, sew)))
	},
	"vremu": func(a, b uint64, sew Sew) uint64 {
		return remUnsigned(maskToSew(a, sew), maskToSew(b, sew))
	},
	"vmacc": func(a, b uint64, sew Sew) uint64 { return a * b },
}

// ivCompareOps covers the mask-producing comparisons (vmseq.*, etc.),
// which commit through CommitMask rather than Commit.
var ivCompareOps = map[string]func(a, b uint64, sew Sew) bool{
	"vmseq":  func(a, b uint64, sew Sew) bool { return maskToSew(a, sew) == maskToSew(b, sew) },
	"vmsne":  func(a, b uint64, sew Sew) bool { return maskToSew(a, sew) != maskToSew(b, sew) },
	"vmslt":  func(a, b uint64, sew Sew) bool { return signedSew(a, sew) < signedSew(b, sew) },
	"vmsltu": func(a, b uint64, sew Sew) bool { return maskToSew(a, sew) < maskToSew(b, sew) },
	"vmsle":  func(a, b uint64, sew Sew) bool { return signedSew(a, sew) <= signedSew(b, sew) },
	"vmsleu": func(a, b uint64, sew Sew) bool { return maskToSew(a, sew) <= maskToSew(b, sew) },
	"vmsgt":  func(a, b uint64, sew Sew) bool { return signedSew(a, sew) > signedSew(b, sew) },
	"vmsgtu": func(a, b uint64, sew Sew) bool { return maskToSew(a, sew) > maskToSew(b, sew) },
}

// satAdd/satSub implement the saturating add/sub family (vsadd[u]/
// vssub[u]) and report whether the result saturated, for VXSAT.
func satAddSigned(a, b int64, bits int) (int64, bool) {
	sum := a + b
	maxV := int64(1)<<(uint(bits)-1) - 1
	minV := -(int64(1) << (uint(bits) - 1))
	overflow := (b > 0 && a > maxV-b) || (b < 0 && a < minV-b)
	if !overflow {
		return sum, false
	}
	if b > 0 {
		return maxV, true
	}
	return minV, true
}

func satSubSigned(a, b int64, bits int) (int64, bool) {
	return satAddSigned(a, -b, bits)
}

func satAddUnsigned(a, b uint64, bits int) (uint64, bool) {
	sum := a + b
	maxV := uint64(1)<<uint(bits) - 1
	if bits >= 64 {
		if sum < a {
			return maxUint64, true
		}
		return sum, false
	}
	if sum > maxV {
		return maxV, true
	}
	return sum, false
}

func satSubUnsigned(a, b uint64, bits int) (uint64, bool) {
	if b > a {
		return 0, true
	}
	return a - b, false
}
