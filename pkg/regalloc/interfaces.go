package regalloc

// Opcode names the handful of instruction shapes the assignment core
// itself needs to recognize while walking the stream. Everything else
// about an instruction is opaque to this package.
type Opcode int

const (
	// OpOther is any instruction the core does not need to distinguish.
	OpOther Opcode = iota
	// OpLabel marks a basic block boundary; it bounds the backward
	// candidate-elimination walk in FreeBestRegister.
	OpLabel
	// OpProc marks the start of a procedure; it bounds the same walk.
	OpProc
)

// InstructionCursor is a position in the instruction stream being
// assigned, with reverse-only navigation. The core never advances
// forward; it only walks toward the start of the function.
type InstructionCursor interface {
	// Opcode reports the shape of the instruction at this position.
	Opcode() Opcode
	// Node returns the underlying IR node this position wraps, opaque to
	// the core; a real factory implementation uses it to thread source
	// position and other metadata onto spliced instructions.
	Node() any
	// Prev returns the cursor immediately preceding this one, or nil at
	// the start of the stream.
	Prev() InstructionCursor
	// RefsRegister reports whether this instruction references the
	// physical register currently holding v, directly or through v's
	// virtual identity.
	RefsRegister(v *VReg) bool
	// IsLabel reports whether this position begins a basic block.
	IsLabel() bool
	// IsStartOfColdInstructionStream reports whether this position is
	// the entry point of an out-of-line cold path.
	IsStartOfColdInstructionStream() bool
}

// InstructionFactory splices new instructions immediately before a
// cursor. Every splice happens at the same position in the stream the
// engines are walking, so call order is preserved as emission order.
type InstructionFactory interface {
	// EmitLoad splices a load of slot into dst, immediately before at.
	EmitLoad(at InstructionCursor, kind Kind, dst *PhysReg, slot *SpillSlot)
	// EmitStore splices a store of src into slot, immediately before at.
	EmitStore(at InstructionCursor, kind Kind, slot *SpillSlot, src *PhysReg)
	// EmitCopy splices a register-to-register move, dst <- src,
	// immediately before at.
	EmitCopy(at InstructionCursor, kind Kind, dst, src *PhysReg)
	// EmitXorSwap splices a three-instruction xor-based exchange of a
	// and b (GPR only), immediately before at.
	EmitXorSwap(at InstructionCursor, a, b *PhysReg)
}

// SpillArena owns the stack slots that spilled virtual registers are
// evicted into.
type SpillArena interface {
	// Allocate reserves a slot of size bytes. containsReference marks a
	// slot that must be walked by a collector; internalPointer, if
	// non-nil, is the pinned array this slot holds a derived pointer
	// into.
	Allocate(size int, containsReference bool, internalPointer *VReg) *SpillSlot
	// AllocateInternalPointer reserves a slot for a pointer derived from
	// a pinned array.
	AllocateInternalPointer(pinningArray *VReg) *SpillSlot
	// Free releases slot back to the arena. depth is advisory bookkeeping
	// the arena may ignore.
	Free(slot *SpillSlot, size int, depth SpillDepth)
	// IsFreeSpillListLocked reports whether the arena is mid-iteration
	// over its own free list and cannot accept a slot reclaim right now;
	// callers must leave BackingStorage set when this is true.
	IsFreeSpillListLocked() bool
}

// PhaseContext exposes the region properties the engines need:
// whether out-of-line protection is active at all, and if so whether
// the current position is on a hot or cold out-of-line path.
type PhaseContext interface {
	// DisableOOL reports whether out-of-line spill-slot protection is
	// turned off, in which case eviction always allocates a fresh slot
	// and ReverseSpillState releases its slot immediately.
	DisableOOL() bool
	// IsOutOfLineHotPath reports whether the current position is on an
	// out-of-line hot path.
	IsOutOfLineHotPath() bool
	// IsOutOfLineColdPath reports whether the current position is on an
	// out-of-line cold path.
	IsOutOfLineColdPath() bool
}

// Tracer receives diagnostic narration from the engines. It is never
// consulted for control flow.
type Tracer interface {
	Trace(format string, args ...any)
}

// NopTracer discards every trace line. It is the default when no
// Tracer is supplied to NewMachine.
type NopTracer struct{}

func (NopTracer) Trace(string, ...any) {}
