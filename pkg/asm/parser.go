package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rv64v/sim/pkg/rvcore"
)

// parsedLine is one fully-parsed instruction line awaiting label
// resolution (branches/jumps still carry a raw label target in Target,
// resolved by the assembler's second pass). Data directives are emitted
// to memory during the first pass and never become a parsedLine, so
// Directive is always nil.
type parsedLine struct {
	Lineno    int
	Instr     rvcore.Instruction
	Target    string     // unresolved branch/jump label, "" if none
	Directive *directive // unused: always nil
}

// rTypeMnemonics and the tables below name the families of scalar
// mnemonics sharing an operand syntax; each is a membership set
// (mnemonic -> true) consulted by the per-shape parsers.
var rTypeMnemonics = map[string]bool{
	"add": true, "sub": true, "sll": true, "slt": true, "sltu": true,
	"xor": true, "srl": true, "sra": true, "or": true, "and": true,
	"addw": true, "subw": true, "sllw": true, "srlw": true, "sraw": true,
	"mul": true, "mulh": true, "mulhu": true, "mulhsu": true, "mulw": true,
	"div": true, "divu": true, "rem": true, "remu": true,
	"divw": true, "divuw": true, "remw": true, "remuw": true,
	"fadd.s": true, "fsub.s": true, "fmul.s": true, "fdiv.s": true,
	"fadd.d": true, "fsub.d": true, "fmul.d": true, "fdiv.d": true,
	"fsgnj.s": true, "fsgnjn.s": true, "fsgnjx.s": true,
	"fsgnj.d": true, "fsgnjn.d": true, "fsgnjx.d": true,
	"fmin.s": true, "fmax.s": true, "fmin.d": true, "fmax.d": true,
	"feq.s": true, "flt.s": true, "fle.s": true,
	"feq.d": true, "flt.d": true, "fle.d": true,
}

// fFloatDestFloatSrc names R-shape ops whose Rd is a float register (sourced
// from two float register operands) rather than an integer register.
var fFloatDestFloatSrc = map[string]bool{
	"fadd.s": true, "fsub.s": true, "fmul.s": true, "fdiv.s": true,
	"fadd.d": true, "fsub.d": true, "fmul.d": true, "fdiv.d": true,
	"fsgnj.s": true, "fsgnjn.s": true, "fsgnjx.s": true,
	"fsgnj.d": true, "fsgnjn.d": true, "fsgnjx.d": true,
	"fmin.s": true, "fmax.s": true, "fmin.d": true, "fmax.d": true,
}

var iTypeMnemonics = map[string]bool{
	"addi": true, "slti": true, "sltiu": true, "xori": true, "ori": true,
	"andi": true, "slli": true, "srli": true, "srai": true,
	"addiw": true, "slliw": true, "srliw": true, "sraiw": true,
	"jalr": true,
}

var loadMnemonics = map[string]bool{
	"lb": true, "lh": true, "lw": true, "lbu": true, "lhu": true, "lwu": true, "ld": true,
}

var floatLoadMnemonics = map[string]bool{"flw": true, "fld": true}

var storeMnemonics = map[string]bool{
	"sb": true, "sh": true, "sw": true, "sd": true, "fsw": true, "fsd": true,
}

var branchMnemonics = map[string]bool{
	"beq": true, "bne": true, "blt": true, "bge": true, "bltu": true, "bgeu": true,
}

var r4Mnemonics = map[string]bool{
	"fmadd.s": true, "fmsub.s": true, "fnmsub.s": true, "fnmadd.s": true,
	"fmadd.d": true, "fmsub.d": true, "fnmsub.d": true, "fnmadd.d": true,
}

var csrRMnemonics = map[string]bool{"csrrw": true, "csrrs": true, "csrrc": true}
var csrIMnemonics = map[string]bool{"csrrwi": true, "csrrsi": true, "csrrci": true}

// fcvtMnemonics covers every fcvt.*/fmv.* scalar conversion/move, all
// lowered to the R shape with Rs2 unused (spec.md folds the rounding
// mode and source-format suffix into Op itself).
var fcvtMnemonics = map[string]bool{
	"fcvt.w.s": true, "fcvt.wu.s": true, "fcvt.l.s": true, "fcvt.lu.s": true,
	"fcvt.w.d": true, "fcvt.wu.d": true, "fcvt.l.d": true, "fcvt.lu.d": true,
	"fcvt.s.w": true, "fcvt.s.wu": true, "fcvt.s.l": true, "fcvt.s.lu": true,
	"fcvt.d.w": true, "fcvt.d.wu": true, "fcvt.d.l": true, "fcvt.d.lu": true,
	"fcvt.s.d": true, "fcvt.d.s": true,
	"fmv.x.w": true, "fmv.w.x": true, "fmv.x.d": true, "fmv.d.x": true,
	"fsqrt.s": true, "fsqrt.d": true, "fclass.s": true, "fclass.d": true,
}

// parseScalarLine lowers one mnemonic/operand pair to a scalar
// Instruction. Returns (nil, "", nil) if mnemonic isn't a scalar
// instruction this function recognizes, so callers can fall through to
// the vector classifier.
func parseScalarLine(mnemonic, operandText string, lineno int) (rvcore.Instruction, string, error) {
	ops := splitOperands(operandText)

	switch {
	case rTypeMnemonics[mnemonic]:
		return parseRType(mnemonic, ops, lineno)
	case fcvtMnemonics[mnemonic]:
		return parseFcvt(mnemonic, ops, lineno)
	case iTypeMnemonics[mnemonic]:
		return parseIType(mnemonic, ops, lineno)
	case loadMnemonics[mnemonic] || floatLoadMnemonics[mnemonic]:
		return parseLoad(mnemonic, ops, lineno)
	case storeMnemonics[mnemonic]:
		return parseStore(mnemonic, ops, lineno)
	case branchMnemonics[mnemonic]:
		return parseBranch(mnemonic, ops, lineno)
	case r4Mnemonics[mnemonic]:
		return parseR4(mnemonic, ops, lineno)
	case csrRMnemonics[mnemonic]:
		return parseCsrR(mnemonic, ops, lineno)
	case csrIMnemonics[mnemonic]:
		return parseCsrI(mnemonic, ops, lineno)
	case mnemonic == "lui" || mnemonic == "auipc":
		return parseU(mnemonic, ops, lineno)
	case mnemonic == "jal":
		return parseJal(ops, lineno)
	}
	return nil, "", nil
}

func wantN(ops []string, n int, mnemonic string) error {
	if len(ops) != n {
		return fmt.Errorf("%s: expected %d operands, got %d", mnemonic, n, len(ops))
	}
	return nil
}

// fCompareMnemonics names the feq/flt/fle family: integer rd, float rs1/rs2.
var fCompareMnemonics = map[string]bool{
	"feq.s": true, "flt.s": true, "fle.s": true,
	"feq.d": true, "flt.d": true, "fle.d": true,
}

func parseRType(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 3, mnemonic); err != nil {
		return nil, "", err
	}
	destParse := rvcore.RegisterNumber
	srcParse := rvcore.RegisterNumber
	if fFloatDestFloatSrc[mnemonic] {
		destParse = rvcore.FloatRegisterNumber
		srcParse = rvcore.FloatRegisterNumber
	} else if fCompareMnemonics[mnemonic] {
		srcParse = rvcore.FloatRegisterNumber
	}
	rd, ok := destParse(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rd %q", mnemonic, ops[0])
	}
	rs1, ok := srcParse(ops[1])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rs1 %q", mnemonic, ops[1])
	}
	rs2, ok := srcParse(ops[2])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rs2 %q", mnemonic, ops[2])
	}
	return rvcore.R{Op: mnemonic, Rd: rd, Rs1: rs1, Rs2: rs2}.WithLine(lineno), "", nil
}

// parseFcvt covers the fcvt.*/fmv.*/fsqrt.*/fclass.* family, whose
// register kinds vary per-mnemonic (int<->float, float<->float), with
// Rs2 left zero since the executor dispatches purely on Op.
func parseFcvt(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 2, mnemonic); err != nil {
		return nil, "", err
	}
	destIsFloat := strings.HasPrefix(mnemonic, "fcvt.s.") || strings.HasPrefix(mnemonic, "fcvt.d.") ||
		mnemonic == "fmv.w.x" || mnemonic == "fmv.d.x" ||
		mnemonic == "fsqrt.s" || mnemonic == "fsqrt.d"
	srcIsFloat := strings.HasPrefix(mnemonic, "fcvt.w") || strings.HasPrefix(mnemonic, "fcvt.l") ||
		mnemonic == "fcvt.s.d" || mnemonic == "fcvt.d.s" ||
		mnemonic == "fmv.x.w" || mnemonic == "fmv.x.d" ||
		mnemonic == "fsqrt.s" || mnemonic == "fsqrt.d" ||
		mnemonic == "fclass.s" || mnemonic == "fclass.d"
	destParse := rvcore.RegisterNumber
	if destIsFloat {
		destParse = rvcore.FloatRegisterNumber
	}
	srcParse := rvcore.RegisterNumber
	if srcIsFloat {
		srcParse = rvcore.FloatRegisterNumber
	}
	rd, ok := destParse(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rd %q", mnemonic, ops[0])
	}
	rs1, ok := srcParse(ops[1])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rs1 %q", mnemonic, ops[1])
	}
	return rvcore.R{Op: mnemonic, Rd: rd, Rs1: rs1}.WithLine(lineno), "", nil
}

func parseIType(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 3, mnemonic); err != nil {
		return nil, "", err
	}
	rd, ok := rvcore.RegisterNumber(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rd %q", mnemonic, ops[0])
	}
	rs1, ok := rvcore.RegisterNumber(ops[1])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rs1 %q", mnemonic, ops[1])
	}
	imm, err := parseImm(ops[2])
	if err != nil {
		return nil, "", err
	}
	return rvcore.I{Op: mnemonic, Rd: rd, Rs1: rs1, Imm12: int32(imm)}.WithLine(lineno), "", nil
}

func parseLoad(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 2, mnemonic); err != nil {
		return nil, "", err
	}
	immS, regS, err := splitMemOperand(ops[1])
	if err != nil {
		return nil, "", err
	}
	rs1, ok := rvcore.RegisterNumber(regS)
	if !ok {
		return nil, "", fmt.Errorf("%s: bad base register %q", mnemonic, regS)
	}
	imm, err := parseImm(immS)
	if err != nil {
		return nil, "", err
	}
	regParse := rvcore.RegisterNumber
	if floatLoadMnemonics[mnemonic] {
		regParse = rvcore.FloatRegisterNumber
	}
	rd, ok := regParse(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rd %q", mnemonic, ops[0])
	}
	return rvcore.I{Op: mnemonic, Rd: rd, Rs1: rs1, Imm12: int32(imm)}.WithLine(lineno), "", nil
}

func parseStore(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 2, mnemonic); err != nil {
		return nil, "", err
	}
	immS, regS, err := splitMemOperand(ops[1])
	if err != nil {
		return nil, "", err
	}
	rs1, ok := rvcore.RegisterNumber(regS)
	if !ok {
		return nil, "", fmt.Errorf("%s: bad base register %q", mnemonic, regS)
	}
	imm, err := parseImm(immS)
	if err != nil {
		return nil, "", err
	}
	regParse := rvcore.RegisterNumber
	if mnemonic == "fsw" || mnemonic == "fsd" {
		regParse = rvcore.FloatRegisterNumber
	}
	rs2, ok := regParse(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad source register %q", mnemonic, ops[0])
	}
	return rvcore.S{Op: mnemonic, Rs1: rs1, Rs2: rs2, Imm12: int32(imm)}.WithLine(lineno), "", nil
}

func parseBranch(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 3, mnemonic); err != nil {
		return nil, "", err
	}
	rs1, ok := rvcore.RegisterNumber(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rs1 %q", mnemonic, ops[0])
	}
	rs2, ok := rvcore.RegisterNumber(ops[1])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rs2 %q", mnemonic, ops[1])
	}
	return rvcore.S{Op: mnemonic, Rs1: rs1, Rs2: rs2}.WithLine(lineno), ops[2], nil
}

func parseR4(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 4, mnemonic); err != nil {
		return nil, "", err
	}
	regs := make([]int, 4)
	for i, o := range ops {
		n, ok := rvcore.FloatRegisterNumber(o)
		if !ok {
			return nil, "", fmt.Errorf("%s: bad float register %q", mnemonic, o)
		}
		regs[i] = n
	}
	return rvcore.R4{Op: mnemonic, Rd: regs[0], Rs1: regs[1], Rs2: regs[2], Rs3: regs[3]}.WithLine(lineno), "", nil
}

func parseCsrR(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 3, mnemonic); err != nil {
		return nil, "", err
	}
	rd, ok := rvcore.RegisterNumber(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rd %q", mnemonic, ops[0])
	}
	csr, err := parseCsrOperand(ops[1])
	if err != nil {
		return nil, "", err
	}
	rs1, ok := rvcore.RegisterNumber(ops[2])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rs1 %q", mnemonic, ops[2])
	}
	return rvcore.CsrR{Op: mnemonic, Rd: rd, Rs1: rs1, Csr: csr}.WithLine(lineno), "", nil
}

func parseCsrI(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 3, mnemonic); err != nil {
		return nil, "", err
	}
	rd, ok := rvcore.RegisterNumber(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rd %q", mnemonic, ops[0])
	}
	csr, err := parseCsrOperand(ops[1])
	if err != nil {
		return nil, "", err
	}
	uimm, err := parseImm(ops[2])
	if err != nil {
		return nil, "", err
	}
	return rvcore.CsrI{Op: mnemonic, Rd: rd, Csr: csr, Uimm: uint32(uimm)}.WithLine(lineno), "", nil
}

func parseCsrOperand(s string) (int, error) {
	s = strings.TrimSpace(s)
	if named, ok := csrNames[s]; ok {
		return named, nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("bad csr operand %q: %w", s, err)
		}
		return int(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad csr operand %q: %w", s, err)
	}
	return int(v), nil
}

var csrNames = map[string]int{
	"fflags": rvcore.CsrFFlags, "frm": rvcore.CsrFRM, "fcsr": rvcore.CsrFCSR,
	"vstart": rvcore.CsrVSTART, "vxsat": rvcore.CsrVXSAT, "vxrm": rvcore.CsrVXRM,
	"vcsr": rvcore.CsrVCSR, "cycle": rvcore.CsrCYCLE, "time": rvcore.CsrTIME,
	"instret": rvcore.CsrINSTRET, "vl": rvcore.CsrVL, "vtype": rvcore.CsrVTYPE,
	"vlenb": rvcore.CsrVLENB,
}

func parseU(mnemonic string, ops []string, lineno int) (rvcore.Instruction, string, error) {
	if err := wantN(ops, 2, mnemonic); err != nil {
		return nil, "", err
	}
	rd, ok := rvcore.RegisterNumber(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("%s: bad rd %q", mnemonic, ops[0])
	}
	imm, err := parseImm(ops[1])
	if err != nil {
		return nil, "", err
	}
	return rvcore.U{Op: mnemonic, Rd: rd, Imm20: int32(imm)}.WithLine(lineno), "", nil
}

// parseJal folds jal's offset into the U shape (spec.md's data model, §3:
// jal reuses U rather than defining its own shape since both carry one
// register and one wide immediate).
func parseJal(ops []string, lineno int) (rvcore.Instruction, string, error) {
	if len(ops) == 1 {
		ops = []string{"ra", ops[0]}
	}
	if err := wantN(ops, 2, "jal"); err != nil {
		return nil, "", err
	}
	rd, ok := rvcore.RegisterNumber(ops[0])
	if !ok {
		return nil, "", fmt.Errorf("jal: bad rd %q", ops[0])
	}
	return rvcore.U{Op: "jal", Rd: rd}.WithLine(lineno), ops[1], nil
}
