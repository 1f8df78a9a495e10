package main

import (
	"fmt"

	"github.com/rac-compilers/arm64regalloc/pkg/regalloc"
)

// demoLog accumulates the lines the demo prints for one function.
type demoLog struct {
	lines []string
}

// demoInstr is one position in a hand-written instruction stream.
type demoInstr struct {
	tag string
	op  regalloc.Opcode
}

func newDemoInstr(tag string, op regalloc.Opcode) *demoInstr {
	return &demoInstr{tag: tag, op: op}
}

// demoCursor walks a []*demoInstr backward. It never reports a
// register reference: the demo scenarios don't need the eviction scan
// to eliminate any candidate, only to illustrate that one runs.
type demoCursor struct {
	instrs []*demoInstr
	idx    int
}

func newDemoCursor(instrs []*demoInstr, idx int) *demoCursor {
	return &demoCursor{instrs: instrs, idx: idx}
}

func (c *demoCursor) Opcode() regalloc.Opcode { return c.instrs[c.idx].op }
func (c *demoCursor) Node() any               { return c.instrs[c.idx] }

func (c *demoCursor) Prev() regalloc.InstructionCursor {
	if c.idx == 0 {
		return nil
	}
	return newDemoCursor(c.instrs, c.idx-1)
}

func (c *demoCursor) RefsRegister(v *regalloc.VReg) bool   { return false }
func (c *demoCursor) IsLabel() bool                        { return c.instrs[c.idx].op == regalloc.OpLabel }
func (c *demoCursor) IsStartOfColdInstructionStream() bool { return false }

// demoFactory prints every emission it's asked to splice, instead of
// actually building assembly: there is no real ARM64 encoder behind
// this demo.
type demoFactory struct {
	log *demoLog
}

func (f *demoFactory) EmitLoad(_ regalloc.InstructionCursor, kind regalloc.Kind, dst *regalloc.PhysReg, slot *regalloc.SpillSlot) {
	f.log.lines = append(f.log.lines, fmt.Sprintf("ldr %v, [%v]  ; reload %s", dst.Num, slot.Handle, kind))
}

func (f *demoFactory) EmitStore(_ regalloc.InstructionCursor, kind regalloc.Kind, slot *regalloc.SpillSlot, src *regalloc.PhysReg) {
	f.log.lines = append(f.log.lines, fmt.Sprintf("str %v, [%v]  ; spill %s", src.Num, slot.Handle, kind))
}

func (f *demoFactory) EmitCopy(_ regalloc.InstructionCursor, kind regalloc.Kind, dst, src *regalloc.PhysReg) {
	f.log.lines = append(f.log.lines, fmt.Sprintf("mov %v, %v  ; %s", dst.Num, src.Num, kind))
}

func (f *demoFactory) EmitXorSwap(_ regalloc.InstructionCursor, a, b *regalloc.PhysReg) {
	f.log.lines = append(f.log.lines, fmt.Sprintf("eor %v, %v, %v", a.Num, a.Num, b.Num))
	f.log.lines = append(f.log.lines, fmt.Sprintf("eor %v, %v, %v", b.Num, b.Num, a.Num))
	f.log.lines = append(f.log.lines, fmt.Sprintf("eor %v, %v, %v", a.Num, a.Num, b.Num))
}

// demoArena is a bump allocator that hands out a fresh frame-offset
// handle per slot and never reuses freed ones: good enough to back the
// demo's spill traffic without a real stack frame.
type demoArena struct {
	next int
}

func (a *demoArena) Allocate(size int, containsReference bool, internalPointer *regalloc.VReg) *regalloc.SpillSlot {
	a.next++
	return &regalloc.SpillSlot{Handle: fmt.Sprintf("sp+%d", a.next*8), Size: size}
}

func (a *demoArena) AllocateInternalPointer(pinningArray *regalloc.VReg) *regalloc.SpillSlot {
	return a.Allocate(8, true, pinningArray)
}

func (a *demoArena) Free(slot *regalloc.SpillSlot, size int, depth regalloc.SpillDepth) {}

func (a *demoArena) IsFreeSpillListLocked() bool { return false }

// demoPhase lets each scenario dial in exactly the region it wants to
// demonstrate.
type demoPhase struct {
	disableOOL bool
	hot        bool
	cold       bool
}

func (p *demoPhase) DisableOOL() bool         { return p.disableOOL }
func (p *demoPhase) IsOutOfLineHotPath() bool  { return p.hot }
func (p *demoPhase) IsOutOfLineColdPath() bool { return p.cold }

// demoTracer prints protect/free narration only when --verbose is set.
type demoTracer struct {
	log     *demoLog
	verbose bool
}

func (t *demoTracer) Trace(format string, args ...any) {
	if !t.verbose {
		return
	}
	t.log.lines = append(t.log.lines, "trace: "+fmt.Sprintf(format, args...))
}
