package asm

import (
	"fmt"
	"strings"

	"github.com/rv64v/sim/pkg/rvcore"
)

// pseudoMnemonics lists the standard RISC-V pseudo-instructions this
// assembler expands, each into either a single primitive or a Fusion of
// a few. Grounded on original_source/'s assembler front end, which
// performs the same expansions ahead of encoding; here they're expanded
// ahead of label resolution instead, so a branch/jal target inside the
// expansion still resolves against the same instruction-index table as
// everything else.
var pseudoMnemonics = map[string]bool{
	"li": true, "mv": true, "nop": true, "not": true, "neg": true, "negw": true,
	"seqz": true, "snez": true, "sltz": true, "sgtz": true, "sext.w": true,
	"beqz": true, "bnez": true, "blez": true, "bgez": true, "bltz": true, "bgtz": true,
	"j": true, "jr": true, "ret": true, "call": true, "tail": true,
	"fmv.s": true, "fabs.s": true, "fneg.s": true,
	"fmv.d": true, "fabs.d": true, "fneg.d": true,
}

// parsePseudoLine lowers one pseudo-instruction mnemonic, returning
// (nil, "", nil) when the mnemonic isn't a recognized pseudo-op so the
// caller falls through to the scalar/vector classifiers. The returned
// target string carries an unresolved branch/jump label exactly as
// parseBranch/parseJal do, for the branch- and jump-expanding cases.
func parsePseudoLine(mnemonic string, operandText string, lineno int) (rvcore.Instruction, string, error) {
	if !pseudoMnemonics[mnemonic] {
		return nil, "", nil
	}
	ops := splitOperands(operandText)

	switch mnemonic {
	case "nop":
		return rvcore.I{Op: "addi", Rd: rvcore.RegZero, Rs1: rvcore.RegZero}.WithLine(lineno), "", nil
	case "mv":
		return twoRegAliasI("addi", ops, lineno)
	case "not":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, "", err
		}
		rd, rs1, err := twoIntRegs(mnemonic, ops)
		if err != nil {
			return nil, "", err
		}
		return rvcore.I{Op: "xori", Rd: rd, Rs1: rs1, Imm12: -1}.WithLine(lineno), "", nil
	case "neg", "negw":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, "", err
		}
		rd, rs1, err := twoIntRegs(mnemonic, ops)
		if err != nil {
			return nil, "", err
		}
		op := "sub"
		if mnemonic == "negw" {
			op = "subw"
		}
		return rvcore.R{Op: op, Rd: rd, Rs1: rvcore.RegZero, Rs2: rs1}.WithLine(lineno), "", nil
	case "seqz":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, "", err
		}
		rd, rs1, err := twoIntRegs(mnemonic, ops)
		if err != nil {
			return nil, "", err
		}
		return rvcore.I{Op: "sltiu", Rd: rd, Rs1: rs1, Imm12: 1}.WithLine(lineno), "", nil
	case "snez":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, "", err
		}
		rd, rs1, err := twoIntRegs(mnemonic, ops)
		if err != nil {
			return nil, "", err
		}
		return rvcore.R{Op: "sltu", Rd: rd, Rs1: rvcore.RegZero, Rs2: rs1}.WithLine(lineno), "", nil
	case "sltz":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, "", err
		}
		rd, rs1, err := twoIntRegs(mnemonic, ops)
		if err != nil {
			return nil, "", err
		}
		return rvcore.R{Op: "slt", Rd: rd, Rs1: rs1, Rs2: rvcore.RegZero}.WithLine(lineno), "", nil
	case "sgtz":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, "", err
		}
		rd, rs1, err := twoIntRegs(mnemonic, ops)
		if err != nil {
			return nil, "", err
		}
		return rvcore.R{Op: "slt", Rd: rd, Rs1: rvcore.RegZero, Rs2: rs1}.WithLine(lineno), "", nil
	case "sext.w":
		return twoRegAliasI("addiw", ops, lineno)
	case "li":
		return parseLi(ops, lineno)
	case "beqz", "bnez", "blez", "bgez", "bltz", "bgtz":
		return parseBranchZero(mnemonic, ops, lineno)
	case "j":
		if err := wantN(ops, 1, mnemonic); err != nil {
			return nil, "", err
		}
		return rvcore.U{Op: "jal", Rd: rvcore.RegZero}.WithLine(lineno), ops[0], nil
	case "tail":
		if err := wantN(ops, 1, mnemonic); err != nil {
			return nil, "", err
		}
		return rvcore.U{Op: "jal", Rd: rvcore.RegZero}.WithLine(lineno), ops[0], nil
	case "call":
		if err := wantN(ops, 1, mnemonic); err != nil {
			return nil, "", err
		}
		return rvcore.U{Op: "jal", Rd: rvcore.RegRA}.WithLine(lineno), ops[0], nil
	case "jr":
		if err := wantN(ops, 1, mnemonic); err != nil {
			return nil, "", err
		}
		rs1, ok := rvcore.RegisterNumber(ops[0])
		if !ok {
			return nil, "", fmt.Errorf("%s: bad register %q", mnemonic, ops[0])
		}
		return rvcore.I{Op: "jalr", Rd: rvcore.RegZero, Rs1: rs1}.WithLine(lineno), "", nil
	case "ret":
		if err := wantN(ops, 0, mnemonic); err != nil {
			return nil, "", err
		}
		return rvcore.I{Op: "jalr", Rd: rvcore.RegZero, Rs1: rvcore.RegRA}.WithLine(lineno), "", nil
	case "fmv.s", "fmv.d":
		return floatUnaryAlias(strings.TrimPrefix(mnemonic, "fmv"), "fsgnj", ops, lineno)
	case "fabs.s", "fabs.d":
		return floatUnaryAlias(strings.TrimPrefix(mnemonic, "fabs"), "fsgnjx", ops, lineno)
	case "fneg.s", "fneg.d":
		return floatUnaryAlias(strings.TrimPrefix(mnemonic, "fneg"), "fsgnjn", ops, lineno)
	}
	return nil, "", fmt.Errorf("unhandled pseudo-instruction %q", mnemonic)
}

func twoIntRegs(mnemonic string, ops []string) (rd, rs1 int, err error) {
	if e := wantN(ops, 2, mnemonic); e != nil {
		return 0, 0, e
	}
	rd, ok := rvcore.RegisterNumber(ops[0])
	if !ok {
		return 0, 0, fmt.Errorf("%s: bad rd %q", mnemonic, ops[0])
	}
	rs1, ok = rvcore.RegisterNumber(ops[1])
	if !ok {
		return 0, 0, fmt.Errorf("%s: bad rs1 %q", mnemonic, ops[1])
	}
	return rd, rs1, nil
}

// twoRegAliasI lowers a two-register pseudo-op ("mv rd, rs" / "sext.w
// rd, rs") to the I-shape primitive that already implements it with a
// zero immediate.
func twoRegAliasI(op string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	rd, rs1, err := twoIntRegs(op, ops)
	if err != nil {
		return nil, "", err
	}
	return rvcore.I{Op: op, Rd: rd, Rs1: rs1}.WithLine(lineno), "", nil
}

// floatUnaryAlias lowers fmv.s/fabs.s/fneg.s (and their .d counterparts)
// to the matching fsgnj family R instruction with both sources the same
// register, per the standard RISC-V pseudo-instruction definitions.
func floatUnaryAlias(width, base string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	mnemonic := base + width
	if err := wantN(ops, 2, mnemonic); err != nil {
		return nil, "", err
	}
	rd, ok := rvcore.FloatRegisterNumber(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rd %q", mnemonic, ops[0])
	}
	rs1, ok := rvcore.FloatRegisterNumber(ops[1])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rs1 %q", mnemonic, ops[1])
	}
	return rvcore.R{Op: mnemonic, Rd: rd, Rs1: rs1, Rs2: rs1}.WithLine(lineno), "", nil
}

// parseBranchZero lowers the zero-comparison branch pseudo-ops to their
// underlying two-register branch, reordering operands where the
// comparison's sense requires it (blez/bgtz swap the role of rs1/x0).
func parseBranchZero(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 2, mnemonic); err != nil {
		return nil, "", err
	}
	rs1, ok := rvcore.RegisterNumber(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad register %q", mnemonic, ops[0])
	}
	var base string
	var a, b int
	switch mnemonic {
	case "beqz":
		base, a, b = "beq", rs1, rvcore.RegZero
	case "bnez":
		base, a, b = "bne", rs1, rvcore.RegZero
	case "blez":
		base, a, b = "bge", rvcore.RegZero, rs1
	case "bgez":
		base, a, b = "bge", rs1, rvcore.RegZero
	case "bltz":
		base, a, b = "blt", rs1, rvcore.RegZero
	case "bgtz":
		base, a, b = "blt", rvcore.RegZero, rs1
	}
	return rvcore.S{Op: base, Rs1: a, Rs2: b}.WithLine(lineno), ops[1], nil
}

// parseLi expands "li rd, imm" to a single addi when imm fits in 12
// signed bits, otherwise to a lui+addi Fusion; the addi's immediate is
// computed so the pair reconstructs any 32-bit signed value, matching
// the standard toolchain expansion. Larger (true 64-bit) immediates
// aren't supported: see DESIGN.md.
func parseLi(ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 2, "li"); err != nil {
		return nil, "", err
	}
	rd, ok := rvcore.RegisterNumber(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("li: bad rd %q", ops[0])
	}
	imm, err := parseImm(ops[1])
	if err != nil {
		return nil, "", err
	}
	if imm >= -2048 && imm <= 2047 {
		return rvcore.I{Op: "addi", Rd: rd, Rs1: rvcore.RegZero, Imm12: int32(imm)}.WithLine(lineno), "", nil
	}
	if imm < -(1<<31) || imm > (1<<31)-1 {
		return nil, "", fmt.Errorf("li: immediate %d exceeds the 32-bit range this assembler expands", imm)
	}
	upper := (imm + 0x800) >> 12
	lower := imm - (upper << 12)
	seq := []rvcore.Instruction{
		rvcore.U{Op: "lui", Rd: rd, Imm20: int32(upper)}.WithLine(lineno),
		rvcore.I{Op: "addi", Rd: rd, Rs1: rd, Imm12: int32(lower)}.WithLine(lineno),
	}
	return rvcore.Fusion{Seq: seq}.WithLine(lineno), "", nil
}
