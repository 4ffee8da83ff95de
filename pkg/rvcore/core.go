package rvcore

// Core is a ready-to-run processor instance: a decoded instruction
// stream, a memory image, vector engine configuration, and the register
// file. It is the "RvCore" named in spec.md §6's core API.
//
// Core executes in a single-threaded, cooperative model (spec.md §5):
// Step is synchronous, always returns before yielding control, and the
// caller decides when (and whether) to call it again.
type Core struct {
	Instructions []Instruction
	LineMap      []int // LineMap[i] is the source line instruction i lowered from
	Memory       *Memory
	VectorEngine *VectorEngine
	Registers    *Registers
}

// Build constructs a ready core: registers initialized (SP = mem size-1,
// VLENB = VLEN/8), PC at 0. Mirrors RvCore::build from spec.md §6.
func Build(instructions []Instruction, lineMap []int, memory *Memory, vecEngine *VectorEngine) *Core {
	return &Core{
		Instructions: instructions,
		LineMap:      lineMap,
		Memory:       memory,
		VectorEngine: vecEngine,
		Registers:    NewRegisters(memory.Len(), vecEngine.Vlen),
	}
}

// StepResult distinguishes a step that ran (possibly failing) from a
// core whose PC has walked off the end of the instruction stream —
// Go's answer to spec.md §6's Some(Ok(()))/Some(Err(msg))/None trio.
type StepResult int

const (
	// StepOK means the step succeeded.
	StepOK StepResult = iota
	// StepFailed means the step ran but its semantic function failed;
	// PC is left at the failing instruction.
	StepFailed
	// StepHalted means PC has walked off the instruction stream.
	StepHalted
)

// Step executes exactly one logical instruction (a single primitive, or
// one Fusion as a unit) and returns how it went plus any diagnostic.
func (c *Core) Step() (StepResult, error) {
	idx := int(c.Registers.PC / 4)
	if idx < 0 || idx >= len(c.Instructions) {
		return StepHalted, nil
	}

	cycle := c.Registers.C.Read(CsrCYCLE)
	c.Registers.C.UnsafeSet(CsrTIME, cycle)
	c.Registers.C.UnsafeSet(CsrCYCLE, cycle+1)

	instr := c.Instructions[idx]
	var err error
	if f, ok := instr.(Fusion); ok {
		err = c.executeFusion(f)
	} else {
		err = c.executeSemantic(instr)
		if err == nil {
			c.Registers.PC += 4
		}
	}
	if err != nil {
		return StepFailed, err
	}

	instret := c.Registers.C.Read(CsrINSTRET)
	c.Registers.C.UnsafeSet(CsrINSTRET, instret+1)
	return StepOK, nil
}

// CurrentLine returns the source line of the instruction PC currently
// points at, or -1 if PC has walked off the stream. Drivers use this to
// key a failing step's diagnostic to a source line (spec.md §7).
func (c *Core) CurrentLine() int {
	idx := int(c.Registers.PC / 4)
	if idx < 0 || idx >= len(c.LineMap) {
		return -1
	}
	return c.LineMap[idx]
}

// executeFusion runs each primitive of an expanded pseudo-instruction in
// sequence, each advancing PC by 4 as it would under Step, then rewinds
// by (n-1)*4 so the whole Fusion consumes a single +4 from the driver's
// perspective (spec.md §4.2 / §9 "Pseudo-instruction fusion and PC").
func (c *Core) executeFusion(f Fusion) error {
	start := c.Registers.PC
	for _, p := range f.Seq {
		if err := c.executeSemantic(p); err != nil {
			c.Registers.PC = start
			return err
		}
		c.Registers.PC += 4
	}
	c.Registers.PC -= uint64(4 * (len(f.Seq) - 1))
	return nil
}

// withVectorView borrows a VectorView for the duration of fn and
// unconditionally resets CSR[VSTART] on exit, mirroring the Rust
// original's "context drop" teardown hook (spec.md §5, §9 "Vector view
// ownership").
func (c *Core) withVectorView(fn func(vv *VectorView) error) error {
	vv := NewVectorView(c.Registers.V, c.Registers.C, c.VectorEngine)
	defer vv.ResetVStart()
	return fn(vv)
}
