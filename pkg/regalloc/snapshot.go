package regalloc

// TakeRegisterStateSnapShot captures the state, occupant and flags of
// every physical register. It is taken before entering an out-of-line
// region so RestoreRegisterStateFromSnapShot can put the main line's
// view of the register file back afterward.
func (m *Machine) TakeRegisterStateSnapShot() {
	for n := RegNum(1); n < numRegNum; n++ {
		r := m.File.regs[n]
		if r == nil {
			continue
		}
		m.snapStates[n] = r.State
		m.snapAssigned[n] = r.Assigned
		m.snapFlags[n] = r.Flags
	}
}

// RestoreRegisterStateFromSnapShot restores the state captured by the
// matching TakeRegisterStateSnapShot. A register restored to Free
// clears its current occupant's back-pointer. A register restored to
// Assigned whose current occupant differs from the snapshotted one
// clears that occupant's back-pointer only if it still points at this
// register; an occupant already re-linked elsewhere keeps its link. Any
// restored occupant with no future uses left is pruned back to Free
// rather than restored live.
func (m *Machine) RestoreRegisterStateFromSnapShot() {
	for n := RegNum(1); n < numRegNum; n++ {
		r := m.File.regs[n]
		if r == nil {
			continue
		}

		r.Flags = m.snapFlags[n]
		r.State = m.snapStates[n]

		switch r.State {
		case Free:
			if r.Assigned != nil {
				r.Assigned.PReg = nil
			}
		case Assigned:
			if r.Assigned != nil && r.Assigned != m.snapAssigned[n] && r.Assigned.PReg == r {
				r.Assigned.PReg = nil
			}
		}

		r.Assigned = m.snapAssigned[n]
		if r.State == Assigned && r.Assigned != nil {
			r.Assigned.PReg = r
		}

		if r.State == Assigned && r.Assigned != nil && r.Assigned.FutureUseCount == 0 {
			r.State = Free
			r.Assigned.PReg = nil
			r.Assigned = nil
		}
	}
}
