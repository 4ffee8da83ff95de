package rvcore

import "fmt"

// execCsrR implements csrrw/csrrs/csrrc: read-modify-write a CSR through
// an x register, with the "rs1==x0 means no side-effecting write" rule
// for the set/clear forms (spec.md §4.1 Zicsr).
func (c *Core) execCsrR(i CsrR) error {
	old := c.Registers.C.Read(i.Csr)
	rs1Val := c.Registers.X.Get(i.Rs1)
	switch i.Op {
	case "csrrw":
		if err := c.Registers.C.Write(i.Csr, rs1Val); err != nil {
			return err
		}
	case "csrrs":
		if i.Rs1 != RegZero {
			if err := c.Registers.C.Write(i.Csr, old|rs1Val); err != nil {
				return err
			}
		}
	case "csrrc":
		if i.Rs1 != RegZero {
			if err := c.Registers.C.Write(i.Csr, old&^rs1Val); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: CsrR op %q", ErrUnsupportedInstruction, i.Op)
	}
	c.Registers.X.Set(i.Rd, old)
	return nil
}

// execCsrI implements csrrwi/csrrsi/csrrci, whose source is a 5-bit
// immediate rather than a register; the "no write when the source is
// zero" rule applies to the immediate itself for the set/clear forms.
func (c *Core) execCsrI(i CsrI) error {
	old := c.Registers.C.Read(i.Csr)
	switch i.Op {
	case "csrrwi":
		if err := c.Registers.C.Write(i.Csr, uint64(i.Uimm)); err != nil {
			return err
		}
	case "csrrsi":
		if i.Uimm != 0 {
			if err := c.Registers.C.Write(i.Csr, old|uint64(i.Uimm)); err != nil {
				return err
			}
		}
	case "csrrci":
		if i.Uimm != 0 {
			if err := c.Registers.C.Write(i.Csr, old&^uint64(i.Uimm)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: CsrI op %q", ErrUnsupportedInstruction, i.Op)
	}
	c.Registers.X.Set(i.Rd, old)
	return nil
}
