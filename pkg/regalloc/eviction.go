package regalloc

// FreeBestRegister evicts a currently Assigned register of v's kind to
// make room. If forced is non-nil, that exact register is evicted
// regardless of distance-to-next-use; otherwise the engine walks
// backward from at, eliminating any candidate referenced by the
// instruction it is looking at, until one candidate survives or a
// label/proc boundary is reached. The survivor is spilled to an arena
// slot (reusing the victim's prior backing storage when an out-of-line
// region permits it), a reload is spliced before at, and the freed
// register is returned in state Free.
//
// v may be nil, in which case the GPR bank is used.
func (m *Machine) FreeBestRegister(at InstructionCursor, v *VReg, forced *PhysReg) (*PhysReg, error) {
	kind := GPR
	if v != nil {
		kind = v.Kind
	}

	var best *PhysReg
	var victim *VReg

	if forced != nil {
		best = forced
		victim = best.Assigned
	} else {
		first, last := m.File.Range(kind)
		candidates := make([]*VReg, 0, int(last-first)+1)
		for n := first; n <= last; n++ {
			r := m.File.Get(n)
			if r.State == Assigned && !r.Assigned.blocked {
				candidates = append(candidates, r.Assigned)
			}
		}
		assertf(len(candidates) != 0, "freeBestRegister: all %v registers are blocked", kind)

		cursor := at
		for len(candidates) > 1 && cursor != nil && cursor.Opcode() != OpLabel && cursor.Opcode() != OpProc {
			kept := candidates[:0]
			for _, c := range candidates {
				if !cursor.RefsRegister(c) {
					kept = append(kept, c)
				}
			}
			if len(kept) > 0 {
				candidates = kept
			}
			cursor = cursor.Prev()
		}

		victim = candidates[0]
		best = victim.PReg
	}

	location := victim.BackingStorage
	reuseSlot := location != nil && !m.Phase.DisableOOL() &&
		(m.Phase.IsOutOfLineColdPath() || m.Phase.IsOutOfLineHotPath())

	if reuseSlot {
		m.Tracer.Trace("regalloc: reusing backing store for vreg %d inside OOL region", victim.ID)
	} else {
		switch kind {
		case GPR:
			if victim.ContainsInternalPointer {
				location = m.Arena.AllocateInternalPointer(victim.PinningArrayPointer)
			} else {
				location = m.Arena.Allocate(referenceSize, victim.ContainsCollectedReference, nil)
			}
		case FPR:
			location = m.Arena.Allocate(referenceSize, false, nil)
		default:
			return nil, ErrUnsupportedKind
		}
		victim.BackingStorage = location
	}

	if !m.Phase.DisableOOL() {
		if !m.Phase.IsOutOfLineColdPath() {
			m.SpilledRegisterList = append(m.SpilledRegisterList, victim)
			if !m.Phase.IsOutOfLineHotPath() {
				location.MaxSpillDepth = SpillDepthMain
			} else if location.MaxSpillDepth != SpillDepthMain {
				location.MaxSpillDepth = SpillDepthHot
			}
		} else if location.MaxSpillDepth != SpillDepthMain && location.MaxSpillDepth != SpillDepthHot {
			location.MaxSpillDepth = SpillDepthCold
		}
	}

	m.Factory.EmitLoad(at, kind, best, location)

	best.State = Free
	best.Assigned = nil
	victim.PReg = nil

	return best, nil
}
