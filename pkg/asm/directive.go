package asm

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// directive is a parsed data-section directive. The assembler emits it
// into memory during the first pass, as soon as it is parsed; its bytes
// are fully determined at parse time (.word label-style constants are
// not supported).
type directive struct {
	Kind  string // "byte","half","word","quad","float","double","string","zero"
	Bytes []byte
}

var dataDirectives = map[string]bool{
	".byte": true, ".half": true, ".word": true, ".quad": true,
	".float": true, ".double": true,
	".string": true, ".asciz": true, ".ascii": true, ".zero": true,
}

// parseDirective lowers one ".directive arg1, arg2, ..." line to its
// emitted byte sequence.
func parseDirective(name, argText string, lineno int) (*directive, error) {
	switch name {
	case ".byte", ".half", ".word", ".quad":
		return parseIntDirective(name, argText)
	case ".float", ".double":
		return parseFloatDirective(name, argText)
	case ".string", ".asciz":
		return parseStringDirective(argText, true)
	case ".ascii":
		return parseStringDirective(argText, false)
	case ".zero":
		return parseZeroDirective(argText)
	}
	return nil, fmt.Errorf("unknown directive %q", name)
}

func intDirectiveWidth(name string) int {
	switch name {
	case ".byte":
		return 1
	case ".half":
		return 2
	case ".word":
		return 4
	case ".quad":
		return 8
	}
	return 0
}

func parseIntDirective(name, argText string) (*directive, error) {
	width := intDirectiveWidth(name)
	var out []byte
	for _, field := range splitOperands(argText) {
		v, err := parseImm(field)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		buf := make([]byte, width)
		switch width {
		case 1:
			buf[0] = byte(v)
		case 2:
			binary.LittleEndian.PutUint16(buf, uint16(v))
		case 4:
			binary.LittleEndian.PutUint32(buf, uint32(v))
		case 8:
			binary.LittleEndian.PutUint64(buf, uint64(v))
		}
		out = append(out, buf...)
	}
	return &directive{Kind: name[1:], Bytes: out}, nil
}

func parseFloatDirective(name, argText string) (*directive, error) {
	var out []byte
	for _, field := range splitOperands(argText) {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad float literal %q: %w", name, field, err)
		}
		if name == ".float" {
			buf := make([]byte, 4)
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
			out = append(out, buf...)
		} else {
			buf := make([]byte, 8)
			binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
			out = append(out, buf...)
		}
	}
	return &directive{Kind: name[1:], Bytes: out}, nil
}

func parseStringDirective(argText string, nulTerminate bool) (*directive, error) {
	s := strings.TrimSpace(argText)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return nil, fmt.Errorf(".string: expected a quoted literal, got %q", argText)
	}
	unescaped, err := strconv.Unquote(s)
	if err != nil {
		return nil, fmt.Errorf(".string: %w", err)
	}
	out := []byte(unescaped)
	if nulTerminate {
		out = append(out, 0)
	}
	return &directive{Kind: "string", Bytes: out}, nil
}

func parseZeroDirective(argText string) (*directive, error) {
	n, err := parseImm(strings.TrimSpace(argText))
	if err != nil {
		return nil, fmt.Errorf(".zero: %w", err)
	}
	if n < 0 {
		return nil, fmt.Errorf(".zero: negative count %d", n)
	}
	return &directive{Kind: "zero", Bytes: make([]byte, n)}, nil
}
