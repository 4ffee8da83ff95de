// Package asm lowers RV64GV assembly source into a ready-to-run
// rvcore.Core: a decoded instruction stream, a line map for
// diagnostics, and an initialized data memory image. Grounded on
// bassosimone-risc32/pkg/asm's lex -> parse -> assemble pipeline,
// adapted so the "assemble" stage produces Go instruction values
// directly instead of encoding a 32-bit bytecode word, since this
// engine's Core executes decoded instructions rather than a raw
// bitstream (spec.md §6 RvCore::build takes []Instruction already).
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rv64v/sim/pkg/rvcore"
)

// splitOperands splits a comma-separated operand list, trimming
// whitespace from each field.
func splitOperands(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// parseImm parses a decimal or 0x-prefixed hex integer, signed.
func parseImm(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty immediate")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var v uint64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q: %w", s, err)
	}
	if neg {
		return -int64(v), nil
	}
	return int64(v), nil
}

// parseIntReg resolves an integer register operand (ABI name or xN).
func parseIntReg(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, ok := rvcore.RegisterNumber(s); ok {
		return n, nil
	}
	return 0, fmt.Errorf("unknown integer register %q", s)
}

// parseFloatReg resolves a float register operand (ABI name or fN).
func parseFloatReg(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, ok := rvcore.FloatRegisterNumber(s); ok {
		return n, nil
	}
	return 0, fmt.Errorf("unknown float register %q", s)
}

// parseVecReg resolves a vector register operand (vN).
func parseVecReg(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != 'v' {
		return 0, fmt.Errorf("unknown vector register %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 || n > 31 {
		return 0, fmt.Errorf("unknown vector register %q", s)
	}
	return n, nil
}

// splitMemOperand splits the RISC-V "imm(reg)" memory operand syntax.
func splitMemOperand(s string) (imm string, reg string, err error) {
	open := strings.IndexByte(s, '(')
	shut := strings.IndexByte(s, ')')
	if open < 0 || shut < open {
		return "", "", fmt.Errorf("expected imm(reg) operand, got %q", s)
	}
	imm = strings.TrimSpace(s[:open])
	reg = strings.TrimSpace(s[open+1 : shut])
	if imm == "" {
		imm = "0"
	}
	return imm, reg, nil
}

// stripMaskSuffix reports whether the operand list's last entry is the
// "v0.t" mask-enable marker, and returns the list with it removed.
func stripMaskSuffix(ops []string) ([]string, bool) {
	if len(ops) > 0 && ops[len(ops)-1] == "v0.t" {
		return ops[:len(ops)-1], true
	}
	return ops, false
}
