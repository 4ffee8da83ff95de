package rvcore

import "fmt"

// DefaultMemorySize is the byte size used when a caller does not specify one.
const DefaultMemorySize = 4096

// Memory is a fixed-size byte-addressable buffer with a monotonically
// growing data-section cursor. It is grounded on the teacher's
// bassosimone-risc32/pkg/vm.VM.M word array, generalized from a fixed
// uint32 word array to an arbitrary-width byte buffer because this ISA's
// loads/stores are byte, half, word, and double-word granularity.
type Memory struct {
	raw     []byte
	dataPtr int
}

// NewMemory allocates a zeroed memory image of the given size in bytes.
func NewMemory(size int) *Memory {
	return &Memory{raw: make([]byte, size)}
}

// Len returns the memory size in bytes.
func (m *Memory) Len() int {
	return len(m.raw)
}

// Get reads n bytes at addr and assembles them little-endian into a u64.
// It panics on out-of-bounds access, matching the teacher's Memory
// contract that unchecked accesses are a programmer error (the checked
// counterpart is FallibleGet, used by fault-only-first loads).
func (m *Memory) Get(addr int, n int) uint64 {
	if addr < 0 || addr+n > len(m.raw) {
		panic(fmt.Sprintf("rvcore: memory access [%d:%d) out of bounds (len=%d)", addr, addr+n, len(m.raw)))
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = (v << 8) | uint64(m.raw[addr+i])
	}
	return v
}

// FallibleGet reads n bytes at addr, returning ok=false instead of
// panicking when the access runs off the end of memory. Used by
// fault-only-first vector loads.
func (m *Memory) FallibleGet(addr int, n int) (uint64, bool) {
	if addr < 0 || addr+n > len(m.raw) {
		return 0, false
	}
	return m.Get(addr, n), true
}

// Set writes the low n bytes of value little-endian starting at addr.
// It panics on out-of-bounds access, mirroring Get.
func (m *Memory) Set(addr int, n int, value uint64) {
	if addr < 0 || addr+n > len(m.raw) {
		panic(fmt.Sprintf("rvcore: memory access [%d:%d) out of bounds (len=%d)", addr, addr+n, len(m.raw)))
	}
	for i := 0; i < n; i++ {
		m.raw[addr+i] = byte(value)
		value >>= 8
	}
}

// GetBytes returns a copy of n raw bytes at addr, used by vector
// load/store and whole-register moves that work in byte granularity.
func (m *Memory) GetBytes(addr int, n int) []byte {
	if addr < 0 || addr+n > len(m.raw) {
		panic(fmt.Sprintf("rvcore: memory access [%d:%d) out of bounds (len=%d)", addr, addr+n, len(m.raw)))
	}
	out := make([]byte, n)
	copy(out, m.raw[addr:addr+n])
	return out
}

// SetBytes writes data verbatim starting at addr.
func (m *Memory) SetBytes(addr int, data []byte) {
	if addr < 0 || addr+len(data) > len(m.raw) {
		panic(fmt.Sprintf("rvcore: memory access [%d:%d) out of bounds (len=%d)", addr, addr+len(data), len(m.raw)))
	}
	copy(m.raw[addr:addr+len(data)], data)
}

// Assign appends data at the data-section cursor and advances it. Used by
// the assembler while emitting .byte/.half/.word/.quad/.float/.double/
// .string/.asciz/.zero constants during lowering.
func (m *Memory) Assign(data []byte) {
	m.SetBytes(m.dataPtr, data)
	m.dataPtr += len(data)
}

// DataPtr returns the current data-section cursor, i.e. the byte offset
// the next Assign call will write to.
func (m *Memory) DataPtr() int {
	return m.dataPtr
}

// Snapshot returns a by-value copy of the memory image.
func (m *Memory) Snapshot() []byte {
	out := make([]byte, len(m.raw))
	copy(out, m.raw)
	return out
}
