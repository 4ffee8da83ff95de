package rvcore

import "fmt"

// decodeVtype splits an 11-bit vtype encoding into its Sew/Lmul/tail/mask
// fields, failing on any reserved encoding (spec.md §4.1 "vset*
// instructions").
func decodeVtype(vtypei uint32) (Sew, Lmul, MaskBehavior, MaskBehavior, error) {
	if vtypei&^0xff != 0 {
		return 0, 0, 0, 0, fmt.Errorf("%w: vtype=%#x sets a reserved bit above bit 7", ErrReservedVType, vtypei)
	}
	sewBits := (vtypei >> 3) & 0b111
	if sewBits > 3 {
		return 0, 0, 0, 0, fmt.Errorf("%w: vsew=%03b is reserved", ErrReservedVType, sewBits)
	}
	sew, err := SewFromBits(8 << sewBits)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	lmul, err := LmulFromEncoding(vtypei & 0b111)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	tail, mask := MaskUndisturbed, MaskUndisturbed
	if vtypei&(1<<6) != 0 {
		tail = MaskAgnostic
	}
	if vtypei&(1<<7) != 0 {
		mask = MaskAgnostic
	}
	return sew, lmul, tail, mask, nil
}

// setVL applies the common AVL-selection rule shared by vsetvli/vsetvl:
// rd!=0,rs1!=0 sets vl=min(avl,vlmax); rd!=0,rs1==0 requests vlmax;
// rd==0,rs1==0 keeps vl as close to unchanged as the new vlmax allows
// (spec.md §4.1).
func (c *Core) setVL(rd, rs1 int, avl uint64, vlmax int) uint64 {
	var vl uint64
	switch {
	case rd == RegZero && rs1 == RegZero:
		oldVL := c.Registers.C.Read(CsrVL)
		vl = oldVL
		if vl > uint64(vlmax) {
			vl = uint64(vlmax)
		}
	case rs1 == RegZero:
		vl = uint64(vlmax)
	default:
		vl = avl
		if vl > uint64(vlmax) {
			vl = uint64(vlmax)
		}
	}
	return vl
}

func (c *Core) applyVtype(vtypei uint32) (int, error) {
	sew, lmul, tail, mask, err := decodeVtype(vtypei)
	if err != nil {
		return 0, err
	}
	c.VectorEngine.Sew = sew
	c.VectorEngine.Lmul = lmul
	c.VectorEngine.Tail = tail
	c.VectorEngine.Mask = mask
	c.Registers.C.UnsafeSet(CsrVTYPE, uint64(vtypei))
	return c.VectorEngine.VLMAX(), nil
}

func (c *Core) execVsetvli(i Vsetvli) error {
	vlmax, err := c.applyVtype(i.Vtypei)
	if err != nil {
		return err
	}
	avl := c.Registers.X.Get(i.Rs1)
	vl := c.setVL(i.Rd, i.Rs1, avl, vlmax)
	c.Registers.C.UnsafeSet(CsrVL, vl)
	c.Registers.X.Set(i.Rd, vl)
	return nil
}

func (c *Core) execVsetivli(i Vsetivli) error {
	vlmax, err := c.applyVtype(i.Vtypei)
	if err != nil {
		return err
	}
	vl := uint64(i.Uimm)
	if vl > uint64(vlmax) {
		vl = uint64(vlmax)
	}
	c.Registers.C.UnsafeSet(CsrVL, vl)
	c.Registers.X.Set(i.Rd, vl)
	return nil
}

func (c *Core) execVsetvl(i Vsetvl) error {
	vtypei := uint32(c.Registers.X.Get(i.Rs2))
	vlmax, err := c.applyVtype(vtypei)
	if err != nil {
		return err
	}
	avl := c.Registers.X.Get(i.Rs1)
	vl := c.setVL(i.Rd, i.Rs1, avl, vlmax)
	c.Registers.C.UnsafeSet(CsrVL, vl)
	c.Registers.X.Set(i.Rd, vl)
	return nil
}
