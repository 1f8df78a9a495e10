package regalloc

import "fmt"

// fakeInstr is one position in a fabricated instruction stream used by
// the tests in this package. It is intentionally tiny: the core only
// needs to know an instruction's opcode, which virtuals it references,
// and whether it begins a block or an out-of-line cold region.
type fakeInstr struct {
	op       Opcode
	refs     map[*VReg]bool
	label    bool
	oolEntry bool
	tag      string
}

func newFakeInstr(tag string, op Opcode, refs ...*VReg) *fakeInstr {
	m := make(map[*VReg]bool, len(refs))
	for _, v := range refs {
		m[v] = true
	}
	return &fakeInstr{op: op, refs: m, tag: tag, label: op == OpLabel}
}

// fakeCursor walks a []*fakeInstr backward, implementing InstructionCursor.
type fakeCursor struct {
	instrs []*fakeInstr
	idx    int
}

func newFakeStream(instrs ...*fakeInstr) *fakeCursor {
	return &fakeCursor{instrs: instrs, idx: len(instrs) - 1}
}

func (c *fakeCursor) cur() *fakeInstr { return c.instrs[c.idx] }

func (c *fakeCursor) Opcode() Opcode { return c.cur().op }
func (c *fakeCursor) Node() any      { return c.cur() }

func (c *fakeCursor) Prev() InstructionCursor {
	if c.idx == 0 {
		return nil
	}
	return &fakeCursor{instrs: c.instrs, idx: c.idx - 1}
}

func (c *fakeCursor) RefsRegister(v *VReg) bool { return c.cur().refs[v] }
func (c *fakeCursor) IsLabel() bool             { return c.cur().label }
func (c *fakeCursor) IsStartOfColdInstructionStream() bool { return c.cur().oolEntry }

// emission records one call into fakeFactory, for tests to assert on.
type emission struct {
	op   string
	kind Kind
	a, b RegNum
}

type fakeFactory struct {
	log []emission
}

func (f *fakeFactory) EmitLoad(_ InstructionCursor, kind Kind, dst *PhysReg, _ *SpillSlot) {
	f.log = append(f.log, emission{op: "load", kind: kind, a: dst.Num})
}

func (f *fakeFactory) EmitStore(_ InstructionCursor, kind Kind, _ *SpillSlot, src *PhysReg) {
	f.log = append(f.log, emission{op: "store", kind: kind, a: src.Num})
}

func (f *fakeFactory) EmitCopy(_ InstructionCursor, kind Kind, dst, src *PhysReg) {
	f.log = append(f.log, emission{op: "copy", kind: kind, a: dst.Num, b: src.Num})
}

func (f *fakeFactory) EmitXorSwap(_ InstructionCursor, a, b *PhysReg) {
	// A real factory emits three eor instructions; record all three so
	// tests can assert the count the way spec scenario S5 does.
	for i := 0; i < 3; i++ {
		f.log = append(f.log, emission{op: "eor", kind: GPR, a: a.Num, b: b.Num})
	}
}

func (f *fakeFactory) countOp(op string) int {
	n := 0
	for _, e := range f.log {
		if e.op == op {
			n++
		}
	}
	return n
}

// firstOp returns the first emission of the given kind, for tests that
// need to check its operand registers rather than just its count.
func (f *fakeFactory) firstOp(op string) (emission, bool) {
	for _, e := range f.log {
		if e.op == op {
			return e, true
		}
	}
	return emission{}, false
}

// fakeArena is a trivial bump allocator good enough for tests: it never
// reuses freed slots unless the engines themselves hand the same
// *SpillSlot back in (which is exactly the OOL-reuse path under test).
type fakeArena struct {
	next   int
	freed  []*SpillSlot
	locked bool
}

func (a *fakeArena) Allocate(size int, containsReference bool, internalPointer *VReg) *SpillSlot {
	a.next++
	return &SpillSlot{Handle: fmt.Sprintf("slot%d", a.next), Size: size}
}

func (a *fakeArena) AllocateInternalPointer(pinningArray *VReg) *SpillSlot {
	return a.Allocate(referenceSize, true, pinningArray)
}

func (a *fakeArena) Free(slot *SpillSlot, size int, depth SpillDepth) {
	a.freed = append(a.freed, slot)
}

func (a *fakeArena) IsFreeSpillListLocked() bool { return a.locked }

func (a *fakeArena) freedCount(slot *SpillSlot) int {
	n := 0
	for _, s := range a.freed {
		if s == slot {
			n++
		}
	}
	return n
}

// fakePhase lets each test dial in exactly the region it wants to
// exercise: main line, OOL hot, OOL cold, or OOL disabled outright.
type fakePhase struct {
	disableOOL bool
	hot        bool
	cold       bool
}

func (p *fakePhase) DisableOOL() bool         { return p.disableOOL }
func (p *fakePhase) IsOutOfLineHotPath() bool  { return p.hot }
func (p *fakePhase) IsOutOfLineColdPath() bool { return p.cold }

// fakeTracer records every trace line instead of discarding it, so
// tests can assert on the narration the protect-vs-free branches emit.
type fakeTracer struct {
	lines []string
}

func (t *fakeTracer) Trace(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func newTestMachine(arena SpillArena, factory InstructionFactory, phase PhaseContext) *Machine {
	return NewMachine(arena, factory, phase, nil)
}

func newVReg(id VRegID, kind Kind, totalUses int) *VReg {
	return &VReg{ID: id, Kind: kind, TotalUseCount: totalUses, FutureUseCount: totalUses}
}
