package asm

import (
	"fmt"
	"strings"

	"github.com/rv64v/sim/pkg/rvcore"
)

// parseVtype encodes a "e32,m1,ta,ma"-style vtype operand string into
// the 8-bit immediate decodeVtype expects: bits[7]=vma, [6]=vta,
// [5:3]=vsew, [2:0]=vlmul.
func parseVtype(s string) (uint32, error) {
	var sewBits, lmulBits uint32
	var vta, vma bool
	sewSeen, lmulSeen := false, false

	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(strings.ToLower(field))
		switch {
		case strings.HasPrefix(field, "e"):
			switch field[1:] {
			case "8":
				sewBits = 0
			case "16":
				sewBits = 1
			case "32":
				sewBits = 2
			case "64":
				sewBits = 3
			default:
				return 0, fmt.Errorf("bad sew field %q", field)
			}
			sewSeen = true
		case field != "ma" && field != "mu" && strings.HasPrefix(field, "m"):
			v, err := lmulEncodingFromField(field)
			if err != nil {
				return 0, err
			}
			lmulBits = v
			lmulSeen = true
		case field == "ta":
			vta = true
		case field == "tu":
			vta = false
		case field == "ma":
			vma = true
		case field == "mu":
			vma = false
		default:
			return 0, fmt.Errorf("unrecognized vtype field %q", field)
		}
	}
	if !sewSeen || !lmulSeen {
		return 0, fmt.Errorf("vtype %q missing sew or lmul field", s)
	}
	vtypei := sewBits<<3 | lmulBits
	if vta {
		vtypei |= 1 << 6
	}
	if vma {
		vtypei |= 1 << 7
	}
	return vtypei, nil
}

func lmulEncodingFromField(field string) (uint32, error) {
	switch field {
	case "mf8":
		return 0b101, nil
	case "mf4":
		return 0b110, nil
	case "mf2":
		return 0b111, nil
	case "m1":
		return 0b000, nil
	case "m2":
		return 0b001, nil
	case "m4":
		return 0b010, nil
	case "m8":
		return 0b011, nil
	}
	return 0, fmt.Errorf("bad lmul field %q", field)
}

// splitVsetOperands splits "rd, rs1-or-uimm, vtype" into exactly three
// fields, where the third (the vtype spec itself) is a comma-joined
// "e32,m1,ta,ma" blob that must NOT be split any further — unlike every
// other instruction's operands, this one has commas nested inside its
// last field, so the generic splitOperands can't be used here.
func splitVsetOperands(operandText string, mnemonic string) ([]string, error) {
	parts := strings.SplitN(operandText, ",", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%s: expected rd, rs1, vtype operands, got %q", mnemonic, operandText)
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts, nil
}

// parseVsetLine handles vsetvli/vsetivli/vsetvl, whose operand grammar
// doesn't fit any of the generic scalar families in parser.go.
func parseVsetLine(mnemonic, operandText string, lineno int) (rvcore.Instruction, error) {
	switch mnemonic {
	case "vsetvli":
		ops, err := splitVsetOperands(operandText, mnemonic)
		if err != nil {
			return nil, err
		}
		rd, ok := rvcore.RegisterNumber(ops[0])
		if !ok {
			return nil, fmt.Errorf("vsetvli: bad rd %q", ops[0])
		}
		rs1, ok := rvcore.RegisterNumber(ops[1])
		if !ok {
			return nil, fmt.Errorf("vsetvli: bad rs1 %q", ops[1])
		}
		vtypei, err := parseVtype(ops[2])
		if err != nil {
			return nil, err
		}
		return rvcore.Vsetvli{Rd: rd, Rs1: rs1, Vtypei: vtypei}.WithLine(lineno), nil
	case "vsetivli":
		ops, err := splitVsetOperands(operandText, mnemonic)
		if err != nil {
			return nil, err
		}
		rd, ok := rvcore.RegisterNumber(ops[0])
		if !ok {
			return nil, fmt.Errorf("vsetivli: bad rd %q", ops[0])
		}
		uimm, err := parseImm(ops[1])
		if err != nil {
			return nil, err
		}
		vtypei, err := parseVtype(ops[2])
		if err != nil {
			return nil, err
		}
		return rvcore.Vsetivli{Rd: rd, Uimm: uint32(uimm), Vtypei: vtypei}.WithLine(lineno), nil
	case "vsetvl":
		ops := splitOperands(operandText)
		if err := wantN(ops, 3, mnemonic); err != nil {
			return nil, err
		}
		rd, ok := rvcore.RegisterNumber(ops[0])
		if !ok {
			return nil, fmt.Errorf("vsetvl: bad rd %q", ops[0])
		}
		rs1, ok := rvcore.RegisterNumber(ops[1])
		if !ok {
			return nil, fmt.Errorf("vsetvl: bad rs1 %q", ops[1])
		}
		rs2, ok := rvcore.RegisterNumber(ops[2])
		if !ok {
			return nil, fmt.Errorf("vsetvl: bad rs2 %q", ops[2])
		}
		return rvcore.Vsetvl{Rd: rd, Rs1: rs1, Rs2: rs2}.WithLine(lineno), nil
	}
	return nil, fmt.Errorf("not a vset mnemonic: %q", mnemonic)
}
