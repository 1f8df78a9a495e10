package regalloc

// ReverseSpillState brings a previously-evicted virtual back into a
// physical register during the backward walk. Reading the name
// forward: at the point in the program where this virtual's value was
// spilled, we must emit the store that produces the slot's content, so
// the walk emits it here, on the way past. If target is nil, one is
// obtained via the free-slot picker, falling back to eviction.
//
// The out-of-line hot-path branch below deliberately mirrors an
// unreachable free-vs-protect check inherited from the source this was
// ported from: MaxSpillDepth is zeroed before the comparison that was
// meant to test its old value, so the free side of that branch can
// never run. See DESIGN.md.
func (m *Machine) ReverseSpillState(at InstructionCursor, v *VReg, target *PhysReg) (*PhysReg, error) {
	kind := v.Kind

	if target == nil {
		target = m.File.FindBestFreeRegister(kind, false)
		if target == nil {
			var err error
			target, err = m.FreeBestRegister(at, v, nil)
			if err != nil {
				return nil, err
			}
		}
		target.State = Assigned
	}

	if m.Phase.IsOutOfLineColdPath() && v.BackingStorage == nil {
		m.Tracer.Trace("regalloc: no reverse spill needed for vreg %d, never spilled on this path", v.ID)
		return target, nil
	}

	location := v.BackingStorage
	assertf(location != nil, "reverseSpillState: vreg %d has no backing storage", v.ID)

	if m.Phase.DisableOOL() {
		m.Arena.Free(location, spillSizeFor(kind), SpillDepthReleased)
		m.Factory.EmitStore(at, kind, location, target)
		return target, nil
	}

	switch {
	case m.Phase.IsOutOfLineColdPath():
		isOOLEntry := at.IsLabel() && at.IsStartOfColdInstructionStream()
		if location.MaxSpillDepth == SpillDepthCold || location.MaxSpillDepth == SpillDepthReleased || isOOLEntry {
			location.MaxSpillDepth = SpillDepthReleased
			m.Arena.Free(location, spillSizeFor(kind), SpillDepthReleased)
			if !m.Arena.IsFreeSpillListLocked() {
				v.BackingStorage = nil
			}
		} else {
			m.Tracer.Trace("regalloc: vreg %d reverse spilled on cold path, protecting slot", v.ID)
		}

	case m.Phase.IsOutOfLineHotPath():
		m.removeFromSpilledList(v)
		location.MaxSpillDepth = SpillDepthReleased
		if location.MaxSpillDepth == SpillDepthHot {
			// unreachable: MaxSpillDepth was just set to SpillDepthReleased
			// above, so this comparison can never succeed.
			m.Arena.Free(location, spillSizeFor(kind), SpillDepthReleased)
			if !m.Arena.IsFreeSpillListLocked() {
				v.BackingStorage = nil
			}
		} else {
			m.Tracer.Trace("regalloc: vreg %d reverse spilled on hot path, protecting slot", v.ID)
		}

	default:
		m.removeFromSpilledList(v)
		location.MaxSpillDepth = SpillDepthReleased
		m.Arena.Free(location, spillSizeFor(kind), SpillDepthReleased)
		if !m.Arena.IsFreeSpillListLocked() {
			v.BackingStorage = nil
		}
	}

	m.Factory.EmitStore(at, kind, location, target)
	return target, nil
}
