package rvcore

// CsrPrivilege describes whether a control/status register accepts writes.
type CsrPrivilege int

const (
	CsrReadWrite CsrPrivilege = iota
	CsrReadOnly
)

// CsrRegister is a single 64-bit CSR cell with a fixed privilege, derived
// once from its address at construction time, matching
// original_source/libs/core/src/rv_core/registers/csr.rs.
type CsrRegister struct {
	value      uint64
	Privilege  CsrPrivilege
}

// Read returns the current value of the register.
func (c *CsrRegister) Read() uint64 {
	return c.value
}

// Write sets the register's value, failing if it is read-only.
func (c *CsrRegister) Write(value uint64) error {
	if c.Privilege == CsrReadOnly {
		return ErrReadOnlyCSR
	}
	c.unsafeSet(value)
	return nil
}

// unsafeSet bypasses the privilege check; only the core uses this, for its
// own CYCLE/TIME/INSTRET, VL/VTYPE, VXSAT and VSTART bookkeeping and to
// initialize VLENB, several of which live in otherwise read-only CSR
// space.
func (c *CsrRegister) unsafeSet(value uint64) {
	c.value = value
}

// CsrFile is the 4096-entry control/status register file.
type CsrFile struct {
	regs [4096]CsrRegister
}

// NewCsrFile builds a CSR file with privilege derived from address bits
// [11:10] (0b11 => read-only) and VLENB pre-populated from vlen.
func NewCsrFile(vlenBits int) *CsrFile {
	f := &CsrFile{}
	for i := range f.regs {
		if (i>>10)&0b11 == 0b11 {
			f.regs[i].Privilege = CsrReadOnly
		} else {
			f.regs[i].Privilege = CsrReadWrite
		}
	}
	// VLENB sits inside the read-only window (0xC22 has top bits 0b11, so
	// it is read-only by the address-bit rule) but the core itself must be
	// able to initialize it; do so via the unchecked path.
	f.regs[CsrVLENB].unsafeSet(uint64(vlenBits / 8))
	return f
}

// Read returns the current value of CSR number n.
func (f *CsrFile) Read(n int) uint64 {
	return f.regs[n].Read()
}

// Write performs a checked write, failing on a read-only CSR.
func (f *CsrFile) Write(n int, value uint64) error {
	return f.regs[n].Write(value)
}

// UnsafeSet performs an unchecked write, used internally by the executor
// for CYCLE/TIME/INSTRET, VL/VTYPE, VXSAT and VSTART bookkeeping.
func (f *CsrFile) UnsafeSet(n int, value uint64) {
	f.regs[n].unsafeSet(value)
}

// Privilege reports the privilege of CSR number n.
func (f *CsrFile) Privilege(n int) CsrPrivilege {
	return f.regs[n].Privilege
}

// Snapshot returns a by-value copy of all 4096 CSR values.
func (f *CsrFile) Snapshot() [4096]uint64 {
	var out [4096]uint64
	for i := range f.regs {
		out[i] = f.regs[i].value
	}
	return out
}
