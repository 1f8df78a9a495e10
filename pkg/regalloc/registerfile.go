package regalloc

import "math"

// RegisterFile holds every physical register identity for one
// function's assignment context, indexed densely by RegNum.
type RegisterFile struct {
	regs [numRegNum]*PhysReg
}

// NewRegisterFile builds a register file with the allocatable GPR and
// FPR windows Free and the reserved singletons (lr, sp, xzr) Locked.
func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{}
	for n := FirstGPR; n <= LastGPR; n++ {
		rf.regs[n] = &PhysReg{Num: n, Kind: GPR, State: Free}
	}
	for _, n := range []RegNum{LR, SP, XZR} {
		rf.regs[n] = &PhysReg{Num: n, Kind: GPR, State: Locked}
	}
	for n := FirstFPR; n <= LastFPR; n++ {
		rf.regs[n] = &PhysReg{Num: n, Kind: FPR, State: Free}
	}
	return rf
}

// Get returns the PhysReg for n.
func (rf *RegisterFile) Get(n RegNum) *PhysReg {
	return rf.regs[n]
}

// Range returns the contiguous allocatable window for kind.
func (rf *RegisterFile) Range(kind Kind) (first, last RegNum) {
	switch kind {
	case GPR:
		return FirstGPR, LastGPR
	case FPR:
		return FirstFPR, LastFPR
	default:
		panic(ErrUnsupportedKind)
	}
}

// FindBestFreeRegister scans kind's allocatable window for the
// lowest-weight Free register, optionally also considering Unlatched
// registers as candidates. An Unlatched winner is normalized to Free
// with its back-pointer cleared before it is returned. Returns nil if
// no candidate is found.
func (rf *RegisterFile) FindBestFreeRegister(kind Kind, considerUnlatched bool) *PhysReg {
	first, last := rf.Range(kind)

	var best *PhysReg
	bestWeight := uint32(math.MaxUint32)

	for n := first; n <= last; n++ {
		r := rf.regs[n]
		if r.State != Free && !(considerUnlatched && r.State == Unlatched) {
			continue
		}
		if r.Weight < bestWeight {
			best = r
			bestWeight = r.Weight
		}
	}

	if best != nil && best.State == Unlatched {
		best.Assigned = nil
		best.State = Free
	}

	return best
}
