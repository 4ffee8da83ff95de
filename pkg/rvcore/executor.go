package rvcore

import "fmt"

// executeSemantic dispatches a single decoded instruction to its
// semantic implementation. It must never itself advance PC except via
// the target-minus-4 trick used by branches/jumps (see branchTo), since
// the generic +4 advance lives in Core.Step/executeFusion.
func (c *Core) executeSemantic(instr Instruction) error {
	switch v := instr.(type) {
	case R:
		return c.execR(v)
	case I:
		return c.execI(v)
	case S:
		return c.execS(v)
	case U:
		return c.execU(v)
	case R4:
		return c.execR4(v)
	case CsrR:
		return c.execCsrR(v)
	case CsrI:
		return c.execCsrI(v)
	case Vsetvli:
		return c.execVsetvli(v)
	case Vsetivli:
		return c.execVsetivli(v)
	case Vsetvl:
		return c.execVsetvl(v)
	case Vl:
		return c.execVl(v)
	case Vls:
		return c.execVls(v)
	case Vlx:
		return c.execVlx(v)
	case Vlr:
		return c.execVlr(v)
	case Vs:
		return c.execVs(v)
	case Vss:
		return c.execVss(v)
	case Vsx:
		return c.execVsx(v)
	case Vsr:
		return c.execVsr(v)
	case Vmvr:
		return c.execVmvr(v)
	case Opivv:
		return c.execOpivv(v)
	case Opivx:
		return c.execOpivx(v)
	case Opivi:
		return c.execOpivi(v)
	case Opmvv:
		return c.execOpmvv(v)
	case Opmvx:
		return c.execOpmvx(v)
	case Opfvv:
		return c.execOpfvv(v)
	case Opfvf:
		return c.execOpfvf(v)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedInstruction, instr)
	}
}

// branchTo applies the "target-minus-4" correction spec.md §4.2 describes
// for branches, so that the generic +4 epilogue (shared by straight-line
// and redirecting instructions alike) lands PC on target.
func (c *Core) branchTo(target uint64) {
	c.Registers.PC = target - 4
}
