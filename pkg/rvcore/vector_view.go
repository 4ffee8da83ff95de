package rvcore

// VectorView is a per-instruction context that carves typed lanes out of
// VectorRegisters, honoring VSTART/VL/VLMAX and committing results under
// the tail/mask policy. Grounded on spec.md §4.2 "Vector lane access" and
// original_source/crates/core/src/rv_core/registers/vector/vreg.rs's
// iterator family; unlike the Rust Vreg (one struct per register), this
// type reads/writes directly against the contiguous flat buffer so that
// LMUL>1 register groups — contiguous in memory by construction — need no
// special-casing. See DESIGN.md ("Vector view ownership").
type VectorView struct {
	vregs *VectorRegisters
	csr   *CsrFile
	eng   *VectorEngine
}

// NewVectorView borrows the three components a vector instruction needs
// for its duration: the register file, the CSR file (for VL/VSTART/VTYPE),
// and the engine configuration (for SEW/LMUL/VLEN).
func NewVectorView(vregs *VectorRegisters, csr *CsrFile, eng *VectorEngine) *VectorView {
	return &VectorView{vregs: vregs, csr: csr, eng: eng}
}

// VL returns the active vector length in elements.
func (vv *VectorView) VL() int { return int(vv.csr.Read(CsrVL)) }

// VStart returns the resume element index.
func (vv *VectorView) VStart() int { return int(vv.csr.Read(CsrVSTART)) }

// ResetVStart zeroes CSR[VSTART], per spec.md's invariant that every
// committing vector operation resets it on completion.
func (vv *VectorView) ResetVStart() { vv.csr.UnsafeSet(CsrVSTART, 0) }

// ActiveCount returns how many elements starting at VSTART are subject to
// this operation: min(VLMAX, VL) - VSTART, clamped at 0.
func (vv *VectorView) ActiveCount(sew Sew, lmul Lmul) int {
	vlmax := vv.eng.VLMAXFor(sew, lmul)
	vl := vv.VL()
	n := vlmax
	if vl < n {
		n = vl
	}
	n -= vv.VStart()
	if n < 0 {
		return 0
	}
	return n
}

func (vv *VectorView) groupBase(reg int, sew Sew) int {
	return reg*vv.vregs.regSize + vv.VStart()*sew.ByteLength()
}

// ReadElems reads ActiveCount(sew, lmul) elements of width sew from
// register group reg, zero-extended into uint64, little-endian.
func (vv *VectorView) ReadElems(reg int, sew Sew, lmul Lmul) []uint64 {
	return vv.ReadElemsN(reg, sew, vv.ActiveCount(sew, lmul))
}

// ReadElemsN reads exactly n elements of width sew, ignoring the usual
// ActiveCount clamp. Used by loads/stores whose element count is driven
// by EMUL rather than the engine's current LMUL.
func (vv *VectorView) ReadElemsN(reg int, sew Sew, n int) []uint64 {
	base := vv.groupBase(reg, sew)
	width := sew.ByteLength()
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		var v uint64
		off := base + i*width
		for b := width - 1; b >= 0; b-- {
			v = (v << 8) | uint64(vv.vregs.raw[off+b])
		}
		out[i] = v
	}
	return out
}

// ReadWideElems reads ActiveCount elements at 2*sew width with lmul
// implicitly doubled, for widening arithmetic (vw*.*).
func (vv *VectorView) ReadWideElems(reg int, sew Sew, lmul Lmul) ([]uint64, error) {
	wideLmul, err := lmul.Double()
	if err != nil {
		return nil, err
	}
	return vv.ReadElems(reg, sew.Double(), wideLmul), nil
}

// ReadFP reads ActiveCount(sew, lmul) FP lanes, tagged per sew.
func (vv *VectorView) ReadFP(reg int, sew Sew, lmul Lmul) ([]ArbitraryFloat, error) {
	if err := FpSewBits(sew); err != nil {
		return nil, err
	}
	raw := vv.ReadElems(reg, sew, lmul)
	out := make([]ArbitraryFloat, len(raw))
	for i, bits := range raw {
		if sew == SewE64 {
			out[i] = F64Float(bitsToF64(bits))
		} else {
			out[i] = F32Float(bitsToF32(uint32(bits)))
		}
	}
	return out, nil
}

// ReadMaskBits reads n mask bits from register reg, little-endian within
// each byte, always starting at element 0 — mask addressing ignores
// VSTART, since bit i always names global element i.
func (vv *VectorView) ReadMaskBits(reg int, n int) []bool {
	base := reg * vv.vregs.regSize
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		byteVal := vv.vregs.raw[base+i/8]
		out[i] = (byteVal>>(uint(i)%8))&1 == 1
	}
	return out
}

// DefaultMask returns the effective mask stream for an operation: v0's
// mask bits when vm is true (the "masked" form, confusingly named vm=0 in
// the ISA encoding but modeled here as a plain bool meaning "use mask"),
// or an all-ones stream of length n when the operation is unmasked.
func (vv *VectorView) DefaultMask(masked bool, n int) []bool {
	if !masked {
		out := make([]bool, n)
		for i := range out {
			out[i] = true
		}
		return out
	}
	return vv.ReadMaskBits(0, n)
}

// MaskedMap applies f to active positions and passes prior dest values
// through at inactive ones, per spec.md §4.2's masked_map contract.
func MaskedMap(mask []bool, dest []uint64, f func(i int) uint64) []uint64 {
	out := make([]uint64, len(mask))
	for i, active := range mask {
		if active {
			out[i] = f(i)
		} else if i < len(dest) {
			out[i] = dest[i]
		}
	}
	return out
}

// MaskedMapFP is MaskedMap specialized for FP lanes.
func MaskedMapFP(mask []bool, dest []ArbitraryFloat, f func(i int) ArbitraryFloat) []ArbitraryFloat {
	out := make([]ArbitraryFloat, len(mask))
	for i, active := range mask {
		if active {
			out[i] = f(i)
		} else if i < len(dest) {
			out[i] = dest[i]
		}
	}
	return out
}

// Commit writes values into register group reg at width sew, starting at
// VSTART, writing at most ActiveCount(sew, lmul) elements (the narrower
// of that and len(values)). Positions before VSTART and the tail beyond
// what's written are left untouched, which is always a conforming choice
// for both the undisturbed and agnostic policies (spec.md §4.2).
func (vv *VectorView) Commit(reg int, sew Sew, lmul Lmul, values []uint64) {
	n := vv.ActiveCount(sew, lmul)
	if len(values) < n {
		n = len(values)
	}
	base := vv.groupBase(reg, sew)
	width := sew.ByteLength()
	for i := 0; i < n; i++ {
		v := values[i]
		off := base + i*width
		for b := 0; b < width; b++ {
			vv.vregs.raw[off+b] = byte(v)
			v >>= 8
		}
	}
}

// CommitFP is Commit specialized for FP lanes.
func (vv *VectorView) CommitFP(reg int, sew Sew, lmul Lmul, values []ArbitraryFloat) {
	raw := make([]uint64, len(values))
	for i, v := range values {
		if sew == SewE64 {
			raw[i] = f64ToBits(v.F64())
		} else {
			raw[i] = uint64(f32ToBits(v.F32()))
		}
	}
	vv.Commit(reg, sew, lmul, raw)
}

// CommitMask bit-packs a boolean result into register reg, for
// mask-producing comparisons and mask logical ops. Bits beyond
// ActiveCount(e8-equivalent via VLEN bits) are left untouched.
func (vv *VectorView) CommitMask(reg int, values []bool) {
	base := reg * vv.vregs.regSize
	vstart := vv.VStart()
	vl := vv.VL()
	n := len(values)
	if vl-vstart < n {
		n = vl - vstart
		if n < 0 {
			n = 0
		}
	}
	for i := 0; i < n; i++ {
		globalBit := vstart + i
		byteIdx := base + globalBit/8
		bitIdx := uint(globalBit) % 8
		if values[i] {
			vv.vregs.raw[byteIdx] |= 1 << bitIdx
		} else {
			vv.vregs.raw[byteIdx] &^= 1 << bitIdx
		}
	}
}

// ReadWholeRegisters copies nf consecutive physical registers starting at
// reg verbatim, ignoring VL/VTYPE entirely — used by vlNre*.v/vsNr.v/
// vmvNr.v whole-register operations.
func (vv *VectorView) ReadWholeRegisters(reg int, nf int) []byte {
	start := reg * vv.vregs.regSize
	end := start + nf*vv.vregs.regSize
	out := make([]byte, end-start)
	copy(out, vv.vregs.raw[start:end])
	return out
}

// WriteWholeRegisters is the write counterpart of ReadWholeRegisters.
func (vv *VectorView) WriteWholeRegisters(reg int, data []byte) {
	start := reg * vv.vregs.regSize
	copy(vv.vregs.raw[start:start+len(data)], data)
}
