package asm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rv64v/sim/pkg/rvcore"
)

// vectorArithPassthrough lists mnemonics whose literal spelling already
// matches what the executor's switch statements key on, so the
// classifier below must route them through unchanged rather than
// suffix-strip them into a (possibly wrong) base op name.
var vectorArithPassthrough = map[string]bool{
	"vmv.v.v": true, "vmv.v.x": true, "vmv.v.i": true,
	"vmv.x.s": true, "vmv.s.x": true,
	"vfmv.f.s": true, "vfmv.s.f": true, "vfmv.v.f": true,
	"vmerge.vvm": true, "vmerge.vxm": true, "vmerge.vim": true,
	"vadc.vvm": true, "vadc.vxm": true, "vadc.vim": true,
	"vsbc.vvm": true, "vsbc.vxm": true,
	"vmadc.vvm": true, "vmadc.vxm": true, "vmadc.vim": true, "vmadc": true,
	"vmsbc.vvm": true, "vmsbc.vxm": true, "vmsbc": true,
	"vrgather.vv": true, "vrgather.vx": true, "vrgather.vi": true, "vrgatherei16.vv": true,
	"vslideup.vx": true, "vslideup.vi": true, "vslidedown.vx": true, "vslidedown.vi": true,
	"vslide1up.vx": true, "vslide1down.vx": true,
	"vfslide1up.vf": true, "vfslide1down.vf": true,
	"vsext.vf2": true, "vsext.vf4": true, "vsext.vf8": true,
	"vzext.vf2": true, "vzext.vf4": true, "vzext.vf8": true,
	"vfsqrt.v": true, "vfrsqrt7.v": true, "vfrec7.v": true, "vfclass.v": true,
	"vfwcvt.xu.f.v": true, "vfwcvt.x.f.v": true, "vfwcvt.f.xu.v": true, "vfwcvt.f.x.v": true, "vfwcvt.f.f.v": true,
	"vfncvt.xu.f.v": true, "vfncvt.x.f.v": true, "vfncvt.f.xu.v": true, "vfncvt.f.x.v": true, "vfncvt.f.f.v": true,
	"vfcvt.xu.f.v": true, "vfcvt.x.f.v": true, "vfcvt.rtz.xu.f.v": true, "vfcvt.rtz.x.f.v": true,
	"vfcvt.f.xu.v": true, "vfcvt.f.x.v": true,
	"vcpop.m": true, "vfirst.m": true, "vmsbf.m": true, "vmsif.m": true, "vmsof.m": true,
	"viota.m": true, "vid.v": true,
	"vredsum.vs": true, "vredand.vs": true, "vredor.vs": true, "vredxor.vs": true,
	"vredminu.vs": true, "vredmin.vs": true, "vredmaxu.vs": true, "vredmax.vs": true,
	"vfredusum.vs": true, "vfredosum.vs": true, "vfredmin.vs": true, "vfredmax.vs": true,
	"vmand.mm": true, "vmnand.mm": true, "vmandn.mm": true, "vmxor.mm": true,
	"vmor.mm": true, "vmnor.mm": true, "vmorn.mm": true, "vmxnor.mm": true,
	"vcompress.vm": true,
}

// stripVecSuffix removes one of the vector arithmetic operand-kind
// suffixes (.vv/.vx/.vi/.vf/.wv/.wx/.wi) and reports which kind it was.
func stripVecSuffix(mnemonic string) (base string, kind string, ok bool) {
	for _, suf := range []string{".vv", ".vx", ".vi", ".vf", ".wv", ".wx", ".wi"} {
		if strings.HasSuffix(mnemonic, suf) {
			return mnemonic[:len(mnemonic)-len(suf)], suf[1:], true
		}
	}
	return mnemonic, "", false
}

// parseVectorArithLine classifies and lowers one vector arithmetic
// mnemonic: the classifier's job is exactly to pick which elementwise
// table (rvcore.FpArithOps, rvcore.MaccOps, ...) a mnemonic belongs to,
// mirroring how the executor itself is keyed by mnemonic rather than by
// opcode bits.
func parseVectorArithLine(mnemonic, operandText string, lineno int) (rvcore.Instruction, error) {
	ops, vm := stripMaskSuffix(splitOperands(operandText))

	if vectorArithPassthrough[mnemonic] {
		return lowerPassthrough(mnemonic, ops, vm, lineno)
	}

	base, kind, stripped := stripVecSuffix(mnemonic)
	if !stripped {
		return nil, fmt.Errorf("unrecognized vector arithmetic mnemonic %q", mnemonic)
	}

	switch kind {
	case "vv", "wv":
		if _, ok := rvcore.FpWideningMaccOps[base]; ok {
			return parseOpfvv(base, ops, vm, lineno)
		}
		if _, ok := rvcore.FpArithOps[base]; ok {
			return parseOpfvv(base, ops, vm, lineno)
		}
		if _, ok := rvcore.FpCompareOps[base]; ok {
			return parseOpfvv(base, ops, vm, lineno)
		}
		if _, ok := rvcore.FpMaccOps[base]; ok {
			return parseOpfvv(base, ops, vm, lineno)
		}
		if _, ok := rvcore.MWideningMaccOps[base]; ok {
			return parseOpmvv(base, ops, vm, lineno)
		}
		if _, ok := rvcore.MWideningOps[base]; ok {
			return parseOpmvv(base, ops, vm, lineno)
		}
		if _, ok := rvcore.MaccOps[base]; ok {
			return parseOpmvv(base, ops, vm, lineno)
		}
		return parseOpivv(base, ops, vm, lineno)
	case "vx", "wx":
		if _, ok := rvcore.MWideningMaccOps[base]; ok {
			return parseOpmvx(base, ops, vm, lineno)
		}
		if _, ok := rvcore.MWideningOps[base]; ok {
			return parseOpmvx(base, ops, vm, lineno)
		}
		if _, ok := rvcore.MaccOps[base]; ok {
			return parseOpmvx(base, ops, vm, lineno)
		}
		return parseOpivx(base, ops, vm, lineno)
	case "vi", "wi":
		return parseOpivi(base, ops, vm, lineno)
	case "vf":
		return parseOpfvf(base, ops, vm, lineno)
	}
	return nil, fmt.Errorf("unrecognized vector arithmetic mnemonic %q", mnemonic)
}

func parseOpivv(op string, ops []string, vm bool, lineno int) (rvcore.Instruction, error) {
	if err := wantN(ops, 3, op); err != nil {
		return nil, err
	}
	vd, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	vs1, err := parseVecReg(ops[1])
	if err != nil {
		return nil, err
	}
	vs2, err := parseVecReg(ops[2])
	if err != nil {
		return nil, err
	}
	return rvcore.Opivv{Op: op, Vd: vd, Vs1: vs1, Vs2: vs2, Vm: vm}.WithLine(lineno), nil
}

// parseOpmvv handles the OPMVV vector-vector shape: plain and widening
// multiply-accumulate (vmacc.vv/vwmacc.vv and kin).
func parseOpmvv(op string, ops []string, vm bool, lineno int) (rvcore.Instruction, error) {
	if err := wantN(ops, 3, op); err != nil {
		return nil, err
	}
	vd, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	vs1, err := parseVecReg(ops[1])
	if err != nil {
		return nil, err
	}
	vs2, err := parseVecReg(ops[2])
	if err != nil {
		return nil, err
	}
	return rvcore.Opmvv{Op: op, Dest: vd, Vs1: vs1, Vs2: vs2, Vm: vm}.WithLine(lineno), nil
}

func parseOpivx(op string, ops []string, vm bool, lineno int) (rvcore.Instruction, error) {
	if err := wantN(ops, 3, op); err != nil {
		return nil, err
	}
	vd, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	vs2, err := parseVecReg(ops[1])
	if err != nil {
		return nil, err
	}
	rs1, err := parseIntReg(ops[2])
	if err != nil {
		return nil, err
	}
	return rvcore.Opivx{Op: op, Vd: vd, Rs1: rs1, Vs2: vs2, Vm: vm}.WithLine(lineno), nil
}

func parseOpivi(op string, ops []string, vm bool, lineno int) (rvcore.Instruction, error) {
	if err := wantN(ops, 3, op); err != nil {
		return nil, err
	}
	vd, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	vs2, err := parseVecReg(ops[1])
	if err != nil {
		return nil, err
	}
	imm, err := parseImm(ops[2])
	if err != nil {
		return nil, err
	}
	return rvcore.Opivi{Op: op, Vd: vd, Imm5: int32(imm), Vs2: vs2, Vm: vm}.WithLine(lineno), nil
}

func parseOpmvx(op string, ops []string, vm bool, lineno int) (rvcore.Instruction, error) {
	if err := wantN(ops, 3, op); err != nil {
		return nil, err
	}
	dest, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	vs2, err := parseVecReg(ops[1])
	if err != nil {
		return nil, err
	}
	rs1, err := parseIntReg(ops[2])
	if err != nil {
		return nil, err
	}
	return rvcore.Opmvx{Op: op, Dest: dest, Rs1: rs1, Vs2: vs2, Vm: vm}.WithLine(lineno), nil
}

func parseOpfvv(op string, ops []string, vm bool, lineno int) (rvcore.Instruction, error) {
	if err := wantN(ops, 3, op); err != nil {
		return nil, err
	}
	dest, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	vs1, err := parseVecReg(ops[1])
	if err != nil {
		return nil, err
	}
	vs2, err := parseVecReg(ops[2])
	if err != nil {
		return nil, err
	}
	return rvcore.Opfvv{Op: op, Dest: dest, Vs1: vs1, Vs2: vs2, Vm: vm}.WithLine(lineno), nil
}

func parseOpfvf(op string, ops []string, vm bool, lineno int) (rvcore.Instruction, error) {
	if err := wantN(ops, 3, op); err != nil {
		return nil, err
	}
	vd, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	vs2, err := parseVecReg(ops[1])
	if err != nil {
		return nil, err
	}
	rs1, err := parseFloatReg(ops[2])
	if err != nil {
		return nil, err
	}
	return rvcore.Opfvf{Op: op, Vd: vd, Rs1: rs1, Vs2: vs2, Vm: vm}.WithLine(lineno), nil
}

// lowerPassthrough handles the fixed-name mnemonics in
// vectorArithPassthrough, each needing its own operand layout.
func lowerPassthrough(mnemonic string, ops []string, vm bool, lineno int) (rvcore.Instruction, error) {
	switch mnemonic {
	case "vmv.x.s", "vcpop.m", "vfirst.m":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		dest, err := parseIntReg(ops[0])
		if err != nil {
			return nil, err
		}
		vs2, err := parseVecReg(ops[1])
		if err != nil {
			return nil, err
		}
		return rvcore.Opmvv{Op: mnemonic, Dest: dest, Vs2: vs2, Vm: vm}.WithLine(lineno), nil
	case "vmv.s.x":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		rs1, err := parseIntReg(ops[1])
		if err != nil {
			return nil, err
		}
		return rvcore.Opmvx{Op: mnemonic, Dest: vd, Rs1: rs1}.WithLine(lineno), nil
	case "vfmv.f.s":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		dest, err := parseFloatReg(ops[0])
		if err != nil {
			return nil, err
		}
		vs2, err := parseVecReg(ops[1])
		if err != nil {
			return nil, err
		}
		return rvcore.Opfvv{Op: mnemonic, Dest: dest, Vs2: vs2, Vm: vm}.WithLine(lineno), nil
	case "vfmv.s.f", "vfmv.v.f":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		rs1, err := parseFloatReg(ops[1])
		if err != nil {
			return nil, err
		}
		return rvcore.Opfvf{Op: mnemonic, Vd: vd, Rs1: rs1, Vm: vm}.WithLine(lineno), nil
	case "vmv.v.v":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		vs1, err := parseVecReg(ops[1])
		if err != nil {
			return nil, err
		}
		return rvcore.Opivv{Op: mnemonic, Vd: vd, Vs1: vs1, Vm: true}.WithLine(lineno), nil
	case "vmv.v.x":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		rs1, err := parseIntReg(ops[1])
		if err != nil {
			return nil, err
		}
		return rvcore.Opivx{Op: mnemonic, Vd: vd, Rs1: rs1, Vm: true}.WithLine(lineno), nil
	case "vmv.v.i":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		imm, err := parseImm(ops[1])
		if err != nil {
			return nil, err
		}
		return rvcore.Opivi{Op: mnemonic, Vd: vd, Imm5: int32(imm), Vm: true}.WithLine(lineno), nil
	case "vmerge.vvm", "vadc.vvm", "vsbc.vvm", "vmadc.vvm", "vmsbc.vvm":
		return parseOpivv(mnemonic, ops, true, lineno)
	case "vmadc", "vmsbc":
		return parseOpivv(mnemonic, ops, false, lineno)
	case "vmerge.vxm", "vadc.vxm", "vsbc.vxm":
		return parseOpivx(mnemonic, ops, true, lineno)
	case "vmerge.vim", "vadc.vim":
		return parseOpivi(mnemonic, ops, true, lineno)
	case "vrgather.vv", "vrgatherei16.vv":
		return parseOpivv(mnemonic, ops, vm, lineno)
	case "vrgather.vx", "vslideup.vx", "vslidedown.vx", "vslide1up.vx", "vslide1down.vx":
		return parseOpivx(mnemonic, ops, vm, lineno)
	case "vrgather.vi", "vslideup.vi", "vslidedown.vi":
		return parseOpivi(mnemonic, ops, vm, lineno)
	case "vfslide1up.vf", "vfslide1down.vf":
		return parseOpfvf(mnemonic, ops, vm, lineno)
	case "vsext.vf2", "vsext.vf4", "vsext.vf8", "vzext.vf2", "vzext.vf4", "vzext.vf8",
		"vfsqrt.v", "vfrsqrt7.v", "vfrec7.v", "vfclass.v",
		"vfwcvt.f.f.v", "vfncvt.f.f.v",
		"vfwcvt.xu.f.v", "vfwcvt.x.f.v", "vfwcvt.f.xu.v", "vfwcvt.f.x.v",
		"vfncvt.xu.f.v", "vfncvt.x.f.v", "vfncvt.f.xu.v", "vfncvt.f.x.v",
		"vfcvt.xu.f.v", "vfcvt.x.f.v", "vfcvt.rtz.xu.f.v", "vfcvt.rtz.x.f.v",
		"vfcvt.f.xu.v", "vfcvt.f.x.v",
		"vmsbf.m", "vmsif.m", "vmsof.m", "viota.m":
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		vs2, err := parseVecReg(ops[1])
		if err != nil {
			return nil, err
		}
		return rvcore.Opmvv{Op: mnemonic, Dest: vd, Vs2: vs2, Vm: vm}.WithLine(lineno), nil
	case "vid.v":
		if err := wantN(ops, 1, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		return rvcore.Opmvv{Op: mnemonic, Dest: vd, Vm: vm}.WithLine(lineno), nil
	case "vredsum.vs", "vredand.vs", "vredor.vs", "vredxor.vs",
		"vredminu.vs", "vredmin.vs", "vredmaxu.vs", "vredmax.vs":
		return parseOpivv(strings.TrimSuffix(mnemonic, ".vs"), ops, vm, lineno)
	case "vfredusum.vs", "vfredosum.vs", "vfredmin.vs", "vfredmax.vs":
		return parseOpfvv(strings.TrimSuffix(mnemonic, ".vs"), ops, vm, lineno)
	case "vmand.mm", "vmnand.mm", "vmandn.mm", "vmxor.mm",
		"vmor.mm", "vmnor.mm", "vmorn.mm", "vmxnor.mm":
		if err := wantN(ops, 3, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		vs1, err := parseVecReg(ops[1])
		if err != nil {
			return nil, err
		}
		vs2, err := parseVecReg(ops[2])
		if err != nil {
			return nil, err
		}
		base := strings.TrimSuffix(mnemonic, ".mm")
		return rvcore.Opmvv{Op: base, Dest: vd, Vs1: vs1, Vs2: vs2}.WithLine(lineno), nil
	case "vcompress.vm":
		if err := wantN(ops, 3, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		vs2, err := parseVecReg(ops[1])
		if err != nil {
			return nil, err
		}
		vs1, err := parseVecReg(ops[2])
		if err != nil {
			return nil, err
		}
		return rvcore.Opmvv{Op: "vcompress", Dest: vd, Vs1: vs1, Vs2: vs2}.WithLine(lineno), nil
	}
	return nil, fmt.Errorf("unhandled passthrough mnemonic %q", mnemonic)
}

// wholeRegMovePattern matches vmv1r.v/vmv2r.v/vmv4r.v/vmv8r.v, the
// register-to-register whole-register move, distinct from vlNre*.v/
// vsNr.v's memory traffic despite the similar spelling.
var wholeRegMovePattern = regexp.MustCompile(`^vmv([0-9]+)r\.v$`)

func wholeRegMoveCount(mnemonic string) (int, bool) {
	m := wholeRegMovePattern.FindStringSubmatch(mnemonic)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseVmvr(nf int, operandText string, lineno int) (rvcore.Instruction, error) {
	ops := splitOperands(operandText)
	if err := wantN(ops, 2, "vmvNr.v"); err != nil {
		return nil, err
	}
	vd, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	vs2, err := parseVecReg(ops[1])
	if err != nil {
		return nil, err
	}
	return rvcore.Vmvr{Vd: vd, Vs2: vs2, Nf: nf}.WithLine(lineno), nil
}

// vmemPattern extracts the unit-stride/strided/indexed/whole-register/
// segment/fault-only-first/mask shape of a vector load or store
// mnemonic, e.g. "vlseg3e16ff.v", "vl4re8.v", "vluxei32.v", "vlse32.v",
// "vsm.v". The "s" of a strided spelling (vlse32.v, vsse32.v) is accepted
// but not captured: an access is strided when its address operand carries
// a stride register. vmemPattern's eew marker is "ei<bits>" for indexed
// loads/stores and plain "e<bits>" otherwise (e.g. vluxei32.v vs.
// vle32.v), so the "ei" alternative is tried first.
var vmemPattern = regexp.MustCompile(`^v(l|s)s?(seg(\d))?(([0-9]+)r)?(([uo])x)?(?:(?:ei|e)([0-9]+))?(ff)?\.v$`)

func parseVectorMemLine(mnemonic, operandText string, lineno int) (rvcore.Instruction, error) {
	if mnemonic == "vlm.v" || mnemonic == "vsm.v" {
		return parseVectorMaskMem(mnemonic, operandText, lineno)
	}
	m := vmemPattern.FindStringSubmatch(mnemonic)
	if m == nil {
		return nil, fmt.Errorf("unrecognized vector memory mnemonic %q", mnemonic)
	}
	isLoad := m[1] == "l"
	nf := 1
	if m[3] != "" {
		n, _ := strconv.Atoi(m[3])
		nf = n
	}
	whole := m[4] != ""
	if whole {
		n, _ := strconv.Atoi(m[5])
		nf = n
	}
	indexed := m[6] != ""
	ordered := m[7] == "o" // vluxei/vsuxei are unordered, vloxei/vsoxei are ordered
	faultOnly := m[9] != ""

	var eew rvcore.Sew
	var err error
	if m[8] != "" {
		bits, _ := strconv.Atoi(m[8])
		eew, err = rvcore.SewFromBits(bits)
		if err != nil {
			return nil, err
		}
	} else {
		eew = rvcore.SewE8
	}

	ops, vm := stripMaskSuffix(splitOperands(operandText))

	if whole {
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		vd, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		_, rs1, err := splitMemOperandOrBare(ops[1])
		if err != nil {
			return nil, err
		}
		if isLoad {
			return rvcore.Vlr{Vd: vd, Rs1: rs1, Nf: nf, Eew: eew}.WithLine(lineno), nil
		}
		return rvcore.Vsr{Vs3: vd, Rs1: rs1, Nf: nf}.WithLine(lineno), nil
	}

	// splitOperands also cuts "(rs1), rs2" and "(rs1), vs2" at their comma;
	// rejoin the address with its stride or index register.
	if len(ops) == 3 {
		ops = []string{ops[0], ops[1] + ", " + ops[2]}
	}

	if indexed {
		if err := wantN(ops, 2, mnemonic); err != nil {
			return nil, err
		}
		vreg, err := parseVecReg(ops[0])
		if err != nil {
			return nil, err
		}
		_, rs1, vs2, err := splitIndexedMemOperand(ops[1])
		if err != nil {
			return nil, err
		}
		if isLoad {
			return rvcore.Vlx{Op: mnemonic, Vd: vreg, Rs1: rs1, Vs2: vs2, Vm: vm, Eew: eew, Nf: nf, Ordered: ordered}.WithLine(lineno), nil
		}
		return rvcore.Vsx{Op: mnemonic, Vs3: vreg, Rs1: rs1, Vs2: vs2, Vm: vm, Eew: eew, Nf: nf}.WithLine(lineno), nil
	}

	if err := wantN(ops, 2, mnemonic); err != nil {
		return nil, err
	}
	vreg, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	strideReg, rs1, hasStride, err := splitStridedMemOperand(ops[1])
	if err != nil {
		return nil, err
	}
	if hasStride {
		if isLoad {
			return rvcore.Vls{Op: mnemonic, Vd: vreg, Rs1: rs1, Rs2: strideReg, Vm: vm, Eew: eew, Nf: nf}.WithLine(lineno), nil
		}
		return rvcore.Vss{Op: mnemonic, Vs3: vreg, Rs1: rs1, Rs2: strideReg, Vm: vm, Eew: eew, Nf: nf}.WithLine(lineno), nil
	}
	if isLoad {
		return rvcore.Vl{Op: mnemonic, Vd: vreg, Rs1: rs1, Vm: vm, Eew: eew, Nf: nf, FaultOnly: faultOnly}.WithLine(lineno), nil
	}
	return rvcore.Vs{Op: mnemonic, Vs3: vreg, Rs1: rs1, Vm: vm, Eew: eew, Nf: nf}.WithLine(lineno), nil
}

func parseVectorMaskMem(mnemonic, operandText string, lineno int) (rvcore.Instruction, error) {
	ops := splitOperands(operandText)
	if err := wantN(ops, 2, mnemonic); err != nil {
		return nil, err
	}
	vreg, err := parseVecReg(ops[0])
	if err != nil {
		return nil, err
	}
	_, rs1, err := splitMemOperandOrBare(ops[1])
	if err != nil {
		return nil, err
	}
	if mnemonic == "vlm.v" {
		return rvcore.Vl{Op: mnemonic, Vd: vreg, Rs1: rs1, Vm: true, Eew: rvcore.SewE8, Nf: 1, Mask: true}.WithLine(lineno), nil
	}
	return rvcore.Vs{Op: mnemonic, Vs3: vreg, Rs1: rs1, Vm: true, Eew: rvcore.SewE8, Nf: 1, Mask: true}.WithLine(lineno), nil
}

// splitMemOperandOrBare accepts either "(rs1)" or a bare register name.
func splitMemOperandOrBare(s string) (string, int, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "(") {
		_, reg, err := splitMemOperand(s)
		if err != nil {
			return "", 0, err
		}
		rs1, ok := rvcore.RegisterNumber(reg)
		if !ok {
			return "", 0, fmt.Errorf("bad base register %q", reg)
		}
		return "0", rs1, nil
	}
	rs1, ok := rvcore.RegisterNumber(s)
	if !ok {
		return "", 0, fmt.Errorf("bad base register %q", s)
	}
	return "0", rs1, nil
}

// splitStridedMemOperand parses "(rs1), rs2"-style combined operand as
// rejoined by parseVectorMemLine, or a bare "(rs1)" with no stride
// register.
func splitStridedMemOperand(s string) (strideReg int, rs1 int, hasStride bool, err error) {
	shut := strings.IndexByte(s, ')')
	if shut < 0 {
		r, e := parseIntReg(s)
		return 0, r, false, e
	}
	memPart := s[:shut+1]
	rest := strings.TrimSpace(s[shut+1:])
	rest = strings.TrimPrefix(rest, ",")
	rest = strings.TrimSpace(rest)
	_, regName, e := splitMemOperand(memPart)
	if e != nil {
		return 0, 0, false, e
	}
	rs1, ok := rvcore.RegisterNumber(regName)
	if !ok {
		return 0, 0, false, fmt.Errorf("bad base register %q", regName)
	}
	if rest == "" {
		return 0, rs1, false, nil
	}
	strideReg, ok = rvcore.RegisterNumber(rest)
	if !ok {
		return 0, 0, false, fmt.Errorf("bad stride register %q", rest)
	}
	return strideReg, rs1, true, nil
}

// splitIndexedMemOperand parses "(rs1), vs2".
func splitIndexedMemOperand(s string) (imm string, rs1 int, vs2 int, err error) {
	shut := strings.IndexByte(s, ')')
	if shut < 0 {
		return "", 0, 0, fmt.Errorf("expected (rs1), vs2 operand, got %q", s)
	}
	memPart := s[:shut+1]
	rest := strings.TrimSpace(s[shut+1:])
	rest = strings.TrimPrefix(rest, ",")
	rest = strings.TrimSpace(rest)
	_, regName, e := splitMemOperand(memPart)
	if e != nil {
		return "", 0, 0, e
	}
	rs1, ok := rvcore.RegisterNumber(regName)
	if !ok {
		return "", 0, 0, fmt.Errorf("bad base register %q", regName)
	}
	vs2, e = parseVecReg(rest)
	if e != nil {
		return "", 0, 0, e
	}
	return "0", rs1, vs2, nil
}
