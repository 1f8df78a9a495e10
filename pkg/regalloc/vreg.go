package regalloc

// VRegID names a virtual register within one function's assignment
// context. IDs are caller-assigned and only need to be unique within a
// single Machine's lifetime.
type VRegID int

// VReg is a virtual register as seen by the local assigner: its bank,
// its current physical binding (if any), its remaining use counts, and
// its spill-slot binding (if it has ever been evicted).
type VReg struct {
	ID   VRegID
	Kind Kind

	// PReg is the physical register currently holding this virtual, or
	// nil if unassigned.
	PReg *PhysReg

	// TotalUseCount is the number of references to this virtual across
	// the whole instruction range under assignment. FutureUseCount is
	// decremented on every AssignOneRegister call and reaches zero at
	// the virtual's definition point (since assignment walks backward).
	TotalUseCount  int
	FutureUseCount int

	// OutOfLineUseCount is the number of remaining references that lie
	// in out-of-line regions; DecFutureUseCountAndUnlatch decrements it
	// on the out-of-line cold path and compares it against
	// FutureUseCount in its hot-path unlatch condition.
	OutOfLineUseCount int

	// BackingStorage is the spill slot this virtual was last evicted
	// into, retained across reverse-spill/evict cycles so OOL regions
	// can reuse it instead of allocating twice.
	BackingStorage *SpillSlot

	// ContainsInternalPointer and PinningArrayPointer mirror a garbage
	// collector's need to track derived pointers into a pinned array
	// when choosing how freeBestRegister reserves a spill slot.
	ContainsInternalPointer    bool
	ContainsCollectedReference bool
	PinningArrayPointer        *VReg

	// blocked guards this virtual against being chosen as an eviction
	// candidate while CoerceRegisterAssignment is searching for a spare
	// register on its behalf.
	blocked bool
}
