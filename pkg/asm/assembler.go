package asm

import (
	"fmt"
	"io"
	"strings"

	"github.com/rv64v/sim/pkg/rvcore"
)

// Program is a fully lowered instruction stream, its source-line map and
// initial memory image (the inputs rvcore.Build turns into a core), plus
// a label table kept around for diagnostics (e.g. printing "loop" instead of an address in
// an error message).
type Program struct {
	Instructions []rvcore.Instruction
	LineMap      []int
	Memory       *rvcore.Memory
	Labels       map[string]int // label -> instruction index
}

// Options configures Assemble's memory image and vector engine width,
// mirroring the two constructor parameters Core.Build itself takes.
type Options struct {
	MemorySize int
	Vlen       rvcore.Vlen
}

// DefaultOptions matches rvcore's own defaults.
func DefaultOptions() Options {
	return Options{MemorySize: rvcore.DefaultMemorySize, Vlen: rvcore.Vlen256}
}

// Assemble lowers RV64GV assembly source text into a Program. It runs a
// two-pass label resolution (grounded on the teacher's lex->parse->
// assemble pipeline, adapted to whole-line parsing — see this package's
// doc comment): the first pass assigns every instruction its address and
// records label definitions; data directives are emitted to memory
// immediately since they need no label resolution of their own. The
// second pass resolves each pending branch/jump label reference into a
// PC-relative immediate.
func Assemble(r io.Reader, opts Options) (*Program, error) {
	lines := lexLines(r)

	labels := map[string]int{}
	var parsed []parsedLine
	instrIndex := 0
	mem := rvcore.NewMemory(opts.MemorySize)

	for _, rl := range lines {
		if rl.Label != "" {
			if rl.Text == "" {
				labels[rl.Label] = instrIndex
				continue
			}
			labels[rl.Label] = instrIndex
		}
		if rl.Text == "" {
			continue
		}

		mnemonic, operandText := splitMnemonic(rl.Text)
		mnemonic = strings.ToLower(mnemonic)

		if dataDirectives[mnemonic] {
			d, err := parseDirective(mnemonic, operandText, rl.Lineno)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", rl.Lineno+1, err)
			}
			mem.Assign(d.Bytes)
			continue
		}

		instr, target, err := parseLine(mnemonic, operandText, rl.Lineno)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rl.Lineno+1, err)
		}
		parsed = append(parsed, parsedLine{Lineno: rl.Lineno, Instr: instr, Target: target})
		instrIndex++
	}

	instructions := make([]rvcore.Instruction, len(parsed))
	lineMap := make([]int, len(parsed))
	for idx, p := range parsed {
		lineMap[idx] = p.Lineno
		if p.Target == "" {
			instructions[idx] = p.Instr
			continue
		}
		targetIdx, ok := labels[p.Target]
		if !ok {
			return nil, fmt.Errorf("line %d: undefined label %q", p.Lineno+1, p.Target)
		}
		offset := int64(targetIdx-idx) * 4
		instructions[idx] = resolveTarget(p.Instr, offset)
	}

	return &Program{Instructions: instructions, LineMap: lineMap, Memory: mem, Labels: labels}, nil
}

// resolveTarget fills in the PC-relative immediate of a branch (S shape)
// or jal (U shape) now that the label's address is known.
func resolveTarget(instr rvcore.Instruction, offset int64) rvcore.Instruction {
	switch v := instr.(type) {
	case rvcore.S:
		v.Imm12 = int32(offset)
		return v
	case rvcore.U:
		v.Imm20 = int32(offset)
		return v
	}
	return instr
}

// parseLine tries the scalar, vset, vector-memory, and vector-arithmetic
// classifiers in turn, the same fallthrough order the executor's own
// Instruction type switch implies: scalar shapes first (most common),
// then the vector configuration/memory/arithmetic families.
func parseLine(mnemonic, operandText string, lineno int) (rvcore.Instruction, string, error) {
	if instr, target, err := parseScalarLine(mnemonic, operandText, lineno); err != nil || instr != nil {
		return instr, target, err
	}
	if instr, target, err := parsePseudoLine(mnemonic, operandText, lineno); err != nil || instr != nil {
		return instr, target, err
	}
	if mnemonic == "vsetvli" || mnemonic == "vsetivli" || mnemonic == "vsetvl" {
		instr, err := parseVsetLine(mnemonic, operandText, lineno)
		return instr, "", err
	}
	if isVectorMemMnemonic(mnemonic) {
		instr, err := parseVectorMemLine(mnemonic, operandText, lineno)
		return instr, "", err
	}
	if nf, ok := wholeRegMoveCount(mnemonic); ok {
		instr, err := parseVmvr(nf, operandText, lineno)
		return instr, "", err
	}
	if strings.HasPrefix(mnemonic, "v") {
		instr, err := parseVectorArithLine(mnemonic, operandText, lineno)
		return instr, "", err
	}
	return nil, "", fmt.Errorf("unrecognized mnemonic %q", mnemonic)
}

func isVectorMemMnemonic(mnemonic string) bool {
	if mnemonic == "vlm.v" || mnemonic == "vsm.v" {
		return true
	}
	if !strings.HasSuffix(mnemonic, ".v") {
		return false
	}
	return vmemPattern.MatchString(mnemonic)
}
