package rvcore

import "fmt"

// emulFor computes EMUL = (EEW/SEW) * LMUL and validates it lands in
// [1/8, 8], per spec.md §4.3's load/store EMUL rule.
func (c *Core) emulFor(eew Sew) (Lmul, error) {
	ratio := float64(eew.BitLength()) / float64(c.VectorEngine.Sew.BitLength()) * c.VectorEngine.Lmul.Ratio()
	return LmulFromRatio(ratio)
}

// execVl implements unit-stride vector loads: vleN.v, vlm.v (byte mask
// load, Mask=true), and vleNff.v (fault-only-first, FaultOnly=true).
// Segment loads (Nf>1) interleave Nf fields per memory element.
func (c *Core) execVl(i Vl) error {
	return c.withVectorView(func(vv *VectorView) error {
		if i.Mask {
			n := (vv.VL() + 7) / 8
			base := int(c.Registers.X.Get(i.Rs1))
			data := c.Memory.GetBytes(base, n)
			vv.WriteWholeRegisters(i.Vd, data)
			return nil
		}
		emul, err := c.emulFor(i.Eew)
		if err != nil {
			return err
		}
		n := vv.ActiveCount(i.Eew, emul)
		width := i.Eew.ByteLength()
		base := int(c.Registers.X.Get(i.Rs1))
		mask := vv.DefaultMask(i.Vm, n)

		for f := 0; f < i.Nf; f++ {
			values := make([]uint64, n)
			for e := 0; e < n; e++ {
				if !mask[e] {
					continue
				}
				addr := base + (e*i.Nf+f)*width
				v, ok := c.Memory.FallibleGet(addr, width)
				if !ok {
					if i.FaultOnly && e == 0 {
						return fmt.Errorf("%w: address %#x", ErrFaultOnFirst, addr)
					}
					if i.FaultOnly {
						// truncate vl to the elements actually loaded
						c.Registers.C.UnsafeSet(CsrVL, uint64(e))
						n = e
						break
					}
					return fmt.Errorf("%w: address %#x", ErrMemoryFault, addr)
				}
				values[e] = v
			}
			vv.Commit(i.Vd+f, i.Eew, emul, values)
		}
		return nil
	})
}

// execVls implements strided vector loads (vlseN.v).
func (c *Core) execVls(i Vls) error {
	return c.withVectorView(func(vv *VectorView) error {
		emul, err := c.emulFor(i.Eew)
		if err != nil {
			return err
		}
		n := vv.ActiveCount(i.Eew, emul)
		width := i.Eew.ByteLength()
		base := int(c.Registers.X.Get(i.Rs1))
		stride := int(int64(c.Registers.X.Get(i.Rs2)))
		mask := vv.DefaultMask(i.Vm, n)

		for f := 0; f < i.Nf; f++ {
			values := make([]uint64, n)
			for e := 0; e < n; e++ {
				if !mask[e] {
					continue
				}
				addr := base + e*stride + f*width
				values[e] = c.Memory.Get(addr, width)
			}
			vv.Commit(i.Vd+f, i.Eew, emul, values)
		}
		return nil
	})
}

// execVlx implements indexed vector loads (vluxeiN.v/vloxeiN.v); ordered
// and unordered execute identically here since this engine has no
// memory-ordering model to violate (spec.md §9 open question i).
func (c *Core) execVlx(i Vlx) error {
	return c.withVectorView(func(vv *VectorView) error {
		indices := vv.ReadElems(i.Vs2, i.Eew, c.VectorEngine.Lmul)
		n := len(indices)
		dataSew := c.VectorEngine.Sew
		width := dataSew.ByteLength()
		base := int(c.Registers.X.Get(i.Rs1))
		mask := vv.DefaultMask(i.Vm, n)

		for f := 0; f < i.Nf; f++ {
			values := make([]uint64, n)
			for e := 0; e < n; e++ {
				if !mask[e] {
					continue
				}
				addr := base + int(indices[e]) + f*width
				values[e] = c.Memory.Get(addr, width)
			}
			vv.Commit(i.Vd+f, dataSew, c.VectorEngine.Lmul, values)
		}
		return nil
	})
}

// execVlr implements whole-register loads (vlNre*.v): VL/VTYPE are
// ignored entirely, nf consecutive registers are filled verbatim.
func (c *Core) execVlr(i Vlr) error {
	return c.withVectorView(func(vv *VectorView) error {
		size := c.Registers.V.RegSize() * i.Nf
		base := int(c.Registers.X.Get(i.Rs1))
		data := c.Memory.GetBytes(base, size)
		vv.WriteWholeRegisters(i.Vd, data)
		return nil
	})
}

// execVs implements unit-stride vector stores (vseN.v, vsm.v).
func (c *Core) execVs(i Vs) error {
	return c.withVectorView(func(vv *VectorView) error {
		if i.Mask {
			n := (vv.VL() + 7) / 8
			base := int(c.Registers.X.Get(i.Rs1))
			data := vv.ReadWholeRegisters(i.Vs3, 1)
			if n < len(data) {
				data = data[:n]
			}
			c.Memory.SetBytes(base, data)
			return nil
		}
		emul, err := c.emulFor(i.Eew)
		if err != nil {
			return err
		}
		n := vv.ActiveCount(i.Eew, emul)
		width := i.Eew.ByteLength()
		base := int(c.Registers.X.Get(i.Rs1))
		mask := vv.DefaultMask(i.Vm, n)

		for f := 0; f < i.Nf; f++ {
			values := vv.ReadElems(i.Vs3+f, i.Eew, emul)
			for e := 0; e < n && e < len(values); e++ {
				if !mask[e] {
					continue
				}
				addr := base + (e*i.Nf+f)*width
				c.Memory.Set(addr, width, values[e])
			}
		}
		return nil
	})
}

// execVss implements strided vector stores (vsseN.v).
func (c *Core) execVss(i Vss) error {
	return c.withVectorView(func(vv *VectorView) error {
		emul, err := c.emulFor(i.Eew)
		if err != nil {
			return err
		}
		n := vv.ActiveCount(i.Eew, emul)
		width := i.Eew.ByteLength()
		base := int(c.Registers.X.Get(i.Rs1))
		stride := int(int64(c.Registers.X.Get(i.Rs2)))
		mask := vv.DefaultMask(i.Vm, n)

		for f := 0; f < i.Nf; f++ {
			values := vv.ReadElems(i.Vs3+f, i.Eew, emul)
			for e := 0; e < n && e < len(values); e++ {
				if !mask[e] {
					continue
				}
				addr := base + e*stride + f*width
				c.Memory.Set(addr, width, values[e])
			}
		}
		return nil
	})
}

// execVsx implements indexed vector stores (vsuxeiN.v/vsoxeiN.v).
func (c *Core) execVsx(i Vsx) error {
	return c.withVectorView(func(vv *VectorView) error {
		indices := vv.ReadElems(i.Vs2, i.Eew, c.VectorEngine.Lmul)
		n := len(indices)
		dataSew := c.VectorEngine.Sew
		width := dataSew.ByteLength()
		base := int(c.Registers.X.Get(i.Rs1))
		mask := vv.DefaultMask(i.Vm, n)

		for f := 0; f < i.Nf; f++ {
			values := vv.ReadElems(i.Vs3+f, dataSew, c.VectorEngine.Lmul)
			for e := 0; e < n && e < len(values); e++ {
				if !mask[e] {
					continue
				}
				addr := base + int(indices[e]) + f*width
				c.Memory.Set(addr, width, values[e])
			}
		}
		return nil
	})
}

// execVsr implements whole-register stores (vsNr.v).
func (c *Core) execVsr(i Vsr) error {
	return c.withVectorView(func(vv *VectorView) error {
		data := vv.ReadWholeRegisters(i.Vs3, i.Nf)
		base := int(c.Registers.X.Get(i.Rs1))
		c.Memory.SetBytes(base, data)
		return nil
	})
}

// execVmvr implements vmvNr.v: a pure register-to-register copy of nf
// consecutive physical vector registers, ignoring VL/VTYPE entirely,
// same as the whole-register load/store but with no memory traffic.
func (c *Core) execVmvr(i Vmvr) error {
	return c.withVectorView(func(vv *VectorView) error {
		data := vv.ReadWholeRegisters(i.Vs2, i.Nf)
		vv.WriteWholeRegisters(i.Vd, data)
		return nil
	})
}
