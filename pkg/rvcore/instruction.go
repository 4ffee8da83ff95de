package rvcore

// Instruction is a decoded instruction ready for execution. Per spec.md
// §3 it is "a tagged variant over operation kinds, each carrying one of
// the fixed operand shapes". Go has no closed sum type, so the shape is
// a concrete struct (R, I, S, U, R4, CsrR, CsrI, the vector config/
// memory/arithmetic shapes, and Fusion) and the operation kind is that
// struct's Op field, resolved against a mnemonic dispatch table in the
// executor — the same pattern spec.md §4.2 itself prescribes for vector
// arithmetic ("build element iterators ... apply the elementwise
// function"), generalized here to every shape instead of only vector
// ops. See DESIGN.md for the one-struct-per-shape rationale.
type Instruction interface {
	// Line returns the 0-based source line this instruction lowered from,
	// used to key the assembler's line map for diagnostics.
	Line() int
}

// base carries the one field every shape needs; embedding it gives every
// concrete shape its Line() method for free.
type base struct {
	Lineno int
}

func (b base) Line() int { return b.Lineno }

// R is the register-register-register shape (add, sub, and, mul, ...).
type R struct {
	base
	Op       string
	Rd, Rs1, Rs2 int
}

// I is the register-register-immediate shape (addi, loads, jalr, ...).
type I struct {
	base
	Op     string
	Rd, Rs1 int
	Imm12  int32
}

// S is the register-register-immediate store/branch shape.
type S struct {
	base
	Op      string
	Rs1, Rs2 int
	Imm12   int32
}

// U is the register-immediate20 shape (lui, auipc).
type U struct {
	base
	Op    string
	Rd    int
	Imm20 int32
}

// R4 is the four-register shape used by fused multiply-add.
type R4 struct {
	base
	Op              string
	Rd, Rs1, Rs2, Rs3 int
}

// CsrR is the register-sourced Zicsr shape (csrrw/csrrs/csrrc).
type CsrR struct {
	base
	Op       string
	Rd, Rs1, Csr int
}

// CsrI is the immediate-sourced Zicsr shape (csrrwi/csrrsi/csrrci).
type CsrI struct {
	base
	Op    string
	Rd    int
	Uimm  uint32
	Csr   int
}

// Vsetvli configures the vector engine from a register AVL and an
// encoded vtype immediate.
type Vsetvli struct {
	base
	Rd, Rs1 int
	Vtypei  uint32
}

// Vsetivli is Vsetvli with a 5-bit unsigned immediate AVL.
type Vsetivli struct {
	base
	Rd     int
	Uimm   uint32
	Vtypei uint32
}

// Vsetvl configures the vector engine from two registers (AVL, vtype).
type Vsetvl struct {
	base
	Rd, Rs1, Rs2 int
}

// Vl is the unit-stride vector load shape (vleN.v, vlm.v, vleNff.v, and
// their segment forms, selected by Op/Eew/Nf/FaultOnly).
type Vl struct {
	base
	Op        string
	Vd, Rs1   int
	Vm        bool
	Eew       Sew
	Nf        int
	FaultOnly bool
	Mask      bool // true for vlm.v/vsm.v, byte-granular over VLEN/8 bytes
}

// Vls is the strided vector load shape.
type Vls struct {
	base
	Op            string
	Vd, Rs1, Rs2  int
	Vm            bool
	Eew           Sew
	Nf            int
}

// Vlx is the indexed vector load shape; Ordered is tracked but unordered
// and ordered indexed loads execute identically (spec.md §9 open question i).
type Vlx struct {
	base
	Op             string
	Vd, Rs1, Vs2   int
	Vm             bool
	Eew            Sew // index element width
	Nf             int
	Ordered        bool
}

// Vlr is the whole-register load shape (vlNre*.v).
type Vlr struct {
	base
	Vd, Rs1 int
	Nf      int
	Eew     Sew
}

// Vs is the unit-stride vector store shape.
type Vs struct {
	base
	Op       string
	Vs3, Rs1 int
	Vm       bool
	Eew      Sew
	Nf       int
	Mask     bool
}

// Vss is the strided vector store shape.
type Vss struct {
	base
	Op             string
	Vs3, Rs1, Rs2  int
	Vm             bool
	Eew            Sew
	Nf             int
}

// Vsx is the indexed vector store shape.
type Vsx struct {
	base
	Op            string
	Vs3, Rs1, Vs2 int
	Vm            bool
	Eew           Sew
	Nf            int
}

// Vsr is the whole-register store shape (vsNr.v).
type Vsr struct {
	base
	Vs3, Rs1 int
	Nf       int
}

// Vmvr is the whole-register move shape (vmvNr.v): a register-to-
// register copy of Nf consecutive physical vector registers, ignoring
// VL/VTYPE entirely, distinct from Vlr/Vsr's memory traffic.
type Vmvr struct {
	base
	Vd, Vs2 int
	Nf      int
}

// Opivv is the vector-vector integer arithmetic shape.
type Opivv struct {
	base
	Op          string
	Vd, Vs1, Vs2 int
	Vm          bool
}

// Opivx is the vector-scalar(x register) integer arithmetic shape.
type Opivx struct {
	base
	Op          string
	Vd, Rs1, Vs2 int
	Vm          bool
}

// Opivi is the vector-immediate integer arithmetic shape.
type Opivi struct {
	base
	Op    string
	Vd    int
	Imm5  int32
	Vs2   int
	Vm    bool
}

// Opmvv is the vector-vector mask/integer-widening shape; Dest may be an
// x register (e.g. vmv.x.s) or a vector register depending on Op.
type Opmvv struct {
	base
	Op            string
	Dest, Vs1, Vs2 int
	Vm            bool
}

// Opmvx is the vector-scalar(x register) mask/widening shape.
type Opmvx struct {
	base
	Op            string
	Dest, Rs1, Vs2 int
	Vm            bool
}

// Opfvv is the vector-vector floating-point shape.
type Opfvv struct {
	base
	Op            string
	Dest, Vs1, Vs2 int
	Vm            bool
}

// Opfvf is the vector-scalar(f register) floating-point shape.
type Opfvf struct {
	base
	Op          string
	Vd, Rs1, Vs2 int
	Vm          bool
}

// WithLine returns a copy of the shape carrying the given source line,
// letting the assembler set Line() without importing an unexported
// field. One of these accompanies every shape the assembler emits.
func (s R) WithLine(n int) R             { s.Lineno = n; return s }
func (s I) WithLine(n int) I             { s.Lineno = n; return s }
func (s S) WithLine(n int) S             { s.Lineno = n; return s }
func (s U) WithLine(n int) U             { s.Lineno = n; return s }
func (s R4) WithLine(n int) R4           { s.Lineno = n; return s }
func (s CsrR) WithLine(n int) CsrR       { s.Lineno = n; return s }
func (s CsrI) WithLine(n int) CsrI       { s.Lineno = n; return s }
func (s Vsetvli) WithLine(n int) Vsetvli   { s.Lineno = n; return s }
func (s Vsetivli) WithLine(n int) Vsetivli { s.Lineno = n; return s }
func (s Vsetvl) WithLine(n int) Vsetvl     { s.Lineno = n; return s }
func (s Vl) WithLine(n int) Vl           { s.Lineno = n; return s }
func (s Vls) WithLine(n int) Vls         { s.Lineno = n; return s }
func (s Vlx) WithLine(n int) Vlx         { s.Lineno = n; return s }
func (s Vlr) WithLine(n int) Vlr         { s.Lineno = n; return s }
func (s Vs) WithLine(n int) Vs           { s.Lineno = n; return s }
func (s Vss) WithLine(n int) Vss         { s.Lineno = n; return s }
func (s Vsx) WithLine(n int) Vsx         { s.Lineno = n; return s }
func (s Vsr) WithLine(n int) Vsr         { s.Lineno = n; return s }
func (s Vmvr) WithLine(n int) Vmvr       { s.Lineno = n; return s }
func (s Opivv) WithLine(n int) Opivv     { s.Lineno = n; return s }
func (s Opivx) WithLine(n int) Opivx     { s.Lineno = n; return s }
func (s Opivi) WithLine(n int) Opivi     { s.Lineno = n; return s }
func (s Opmvv) WithLine(n int) Opmvv     { s.Lineno = n; return s }
func (s Opmvx) WithLine(n int) Opmvx     { s.Lineno = n; return s }
func (s Opfvv) WithLine(n int) Opfvv     { s.Lineno = n; return s }
func (s Opfvf) WithLine(n int) Opfvf     { s.Lineno = n; return s }
func (s Fusion) WithLine(n int) Fusion   { s.Lineno = n; return s }

// Fusion carries an expanded pseudo-instruction as a contiguous sequence
// of primitive instructions whose combined effect replaces one source
// line; the executor advances PC by 4 once for the whole sequence. Go
// has no type-recursion restriction (unlike the Rust original, which
// needs a boxed slice to break the cycle — see DESIGN.md), so Seq is a
// plain slice.
type Fusion struct {
	base
	Seq []Instruction
}
