package rvcore

// ABI names for the 32 integer registers, index == register number.
// x0 is the hard-wired zero register; see IntegerRegisters.
const (
	RegZero = 0
	RegRA   = 1
	RegSP   = 2
	RegGP   = 3
	RegTP   = 4
	RegT0   = 5
	RegT1   = 6
	RegT2   = 7
	RegS0   = 8
	RegS1   = 9
	RegA0   = 10
	RegA1   = 11
	RegA2   = 12
	RegA3   = 13
	RegA4   = 14
	RegA5   = 15
	RegA6   = 16
	RegA7   = 17
	RegS2   = 18
	RegS3   = 19
	RegS4   = 20
	RegS5   = 21
	RegS6   = 22
	RegS7   = 23
	RegS8   = 24
	RegS9   = 25
	RegS10  = 26
	RegS11  = 27
	RegT3   = 28
	RegT4   = 29
	RegT5   = 30
	RegT6   = 31
)

// intRegNames maps ABI mnemonics to register numbers; used by the assembler.
var intRegNames = map[string]int{
	"zero": RegZero, "ra": RegRA, "sp": RegSP, "gp": RegGP, "tp": RegTP,
	"t0": RegT0, "t1": RegT1, "t2": RegT2,
	"s0": RegS0, "fp": RegS0, "s1": RegS1,
	"a0": RegA0, "a1": RegA1, "a2": RegA2, "a3": RegA3,
	"a4": RegA4, "a5": RegA5, "a6": RegA6, "a7": RegA7,
	"s2": RegS2, "s3": RegS3, "s4": RegS4, "s5": RegS5,
	"s6": RegS6, "s7": RegS7, "s8": RegS8, "s9": RegS9,
	"s10": RegS10, "s11": RegS11,
	"t3": RegT3, "t4": RegT4, "t5": RegT5, "t6": RegT6,
}

// floatRegNames maps ABI FP mnemonics to register numbers.
var floatRegNames = map[string]int{
	"ft0": 0, "ft1": 1, "ft2": 2, "ft3": 3, "ft4": 4, "ft5": 5, "ft6": 6, "ft7": 7,
	"fs0": 8, "fs1": 9,
	"fa0": 10, "fa1": 11, "fa2": 12, "fa3": 13, "fa4": 14, "fa5": 15, "fa6": 16, "fa7": 17,
	"fs2": 18, "fs3": 19, "fs4": 20, "fs5": 21, "fs6": 22, "fs7": 23, "fs8": 24, "fs9": 25,
	"fs10": 26, "fs11": 27,
	"ft8": 28, "ft9": 29, "ft10": 30, "ft11": 31,
}

// CSR addresses referenced by name throughout the executor and assembler.
const (
	CsrFFlags  = 0x001
	CsrFRM     = 0x002
	CsrFCSR    = 0x003
	CsrVSTART  = 0x008
	CsrVXSAT   = 0x009
	CsrVXRM    = 0x00A
	CsrVCSR    = 0x00F
	CsrCYCLE   = 0xC00
	CsrTIME    = 0xC01
	CsrINSTRET = 0xC02
	CsrVL      = 0xC20
	CsrVTYPE   = 0xC21
	CsrVLENB   = 0xC22
	CsrMSTATUS = 0x300
)

// RegisterNumber resolves an integer register name (ABI name or xN) to a
// register number.
func RegisterNumber(name string) (int, bool) {
	if n, ok := intRegNames[name]; ok {
		return n, true
	}
	return parseNumberedReg(name, 'x')
}

// FloatRegisterNumber resolves an ABI or fN register name.
func FloatRegisterNumber(name string) (int, bool) {
	if n, ok := floatRegNames[name]; ok {
		return n, true
	}
	return parseNumberedReg(name, 'f')
}

func parseNumberedReg(name string, prefix byte) (int, bool) {
	if len(name) < 2 || name[0] != prefix {
		return 0, false
	}
	n := 0
	for i := 1; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n < 0 || n > 31 {
		return 0, false
	}
	return n, true
}
