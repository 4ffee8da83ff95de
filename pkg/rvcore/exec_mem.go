package rvcore

import "fmt"

// execLoad implements the integer load mnemonics carried by the I shape.
func (c *Core) execLoad(i I) error {
	addr := int(c.Registers.X.Get(i.Rs1) + uint64(int64(i.Imm12)))
	x := c.Registers.X
	switch i.Op {
	case "lb":
		x.Set(i.Rd, signExtendN(c.Memory.Get(addr, 1), 8))
	case "lh":
		x.Set(i.Rd, signExtendN(c.Memory.Get(addr, 2), 16))
	case "lw":
		x.Set(i.Rd, signExtendN(c.Memory.Get(addr, 4), 32))
	case "lbu":
		x.Set(i.Rd, c.Memory.Get(addr, 1))
	case "lhu":
		x.Set(i.Rd, c.Memory.Get(addr, 2))
	case "lwu":
		x.Set(i.Rd, c.Memory.Get(addr, 4))
	case "ld":
		x.Set(i.Rd, c.Memory.Get(addr, 8))
	default:
		return fmt.Errorf("%w: load op %q", ErrUnsupportedInstruction, i.Op)
	}
	return nil
}

// execFLoad implements flw/fld.
func (c *Core) execFLoad(i I) error {
	addr := int(c.Registers.X.Get(i.Rs1) + uint64(int64(i.Imm12)))
	switch i.Op {
	case "flw":
		c.Registers.F.SetF32(i.Rd, bitsToF32(uint32(c.Memory.Get(addr, 4))))
	case "fld":
		c.Registers.F.SetF64(i.Rd, bitsToF64(c.Memory.Get(addr, 8)))
	default:
		return fmt.Errorf("%w: float load op %q", ErrUnsupportedInstruction, i.Op)
	}
	return nil
}

// execS implements the S{rs1,rs2,imm12} shape: every store (integer and
// FP) and every branch, both of which share the shape's B-type-ish
// encoding at the IR level per spec.md's data model.
func (c *Core) execS(i S) error {
	switch i.Op {
	case "sb", "sh", "sw", "sd":
		addr := int(c.Registers.X.Get(i.Rs1) + uint64(int64(i.Imm12)))
		val := c.Registers.X.Get(i.Rs2)
		switch i.Op {
		case "sb":
			c.Memory.Set(addr, 1, val)
		case "sh":
			c.Memory.Set(addr, 2, val)
		case "sw":
			c.Memory.Set(addr, 4, val)
		case "sd":
			c.Memory.Set(addr, 8, val)
		}
		return nil
	case "fsw":
		addr := int(c.Registers.X.Get(i.Rs1) + uint64(int64(i.Imm12)))
		c.Memory.Set(addr, 4, uint64(f32ToBits(c.Registers.F.GetF32(i.Rs2))))
		return nil
	case "fsd":
		addr := int(c.Registers.X.Get(i.Rs1) + uint64(int64(i.Imm12)))
		c.Memory.Set(addr, 8, f64ToBits(c.Registers.F.GetF64(i.Rs2)))
		return nil
	case "beq", "bne", "blt", "bltu", "bge", "bgeu":
		return c.execBranch(i)
	default:
		return fmt.Errorf("%w: S-shape op %q", ErrUnsupportedInstruction, i.Op)
	}
}

func (c *Core) execBranch(i S) error {
	a, b := c.Registers.X.Get(i.Rs1), c.Registers.X.Get(i.Rs2)
	var taken bool
	switch i.Op {
	case "beq":
		taken = a == b
	case "bne":
		taken = a != b
	case "blt":
		taken = int64(a) < int64(b)
	case "bltu":
		taken = a < b
	case "bge":
		taken = int64(a) >= int64(b)
	case "bgeu":
		taken = a >= b
	}
	if taken {
		target := uint64(int64(c.Registers.PC) + int64(i.Imm12))
		c.branchTo(target)
	}
	return nil
}

func signExtendN(v uint64, bits int) uint64 {
	shift := 64 - bits
	return uint64(int64(v<<shift) >> shift)
}
