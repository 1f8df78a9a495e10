package regalloc

// AssignOneRegister binds v to some physical register of its kind: an
// already-live binding is verified and left alone, an evicted virtual
// is brought back via ReverseSpillState, and a never-yet-live virtual
// gets whatever the free-slot picker (falling back to eviction) hands
// it. In every case the virtual's future use count is decremented and
// it is unlatched if this was its last remaining use.
func (m *Machine) AssignOneRegister(at InstructionCursor, v *VReg) (*PhysReg, error) {
	assigned := v.PReg

	if assigned == nil {
		if v.TotalUseCount != v.FutureUseCount {
			var err error
			assigned, err = m.ReverseSpillState(at, v, nil)
			if err != nil {
				return nil, err
			}
		} else {
			assigned = m.File.FindBestFreeRegister(v.Kind, true)
			if assigned == nil {
				var err error
				assigned, err = m.FreeBestRegister(at, v, nil)
				if err != nil {
					return nil, err
				}
			}
			if !m.Phase.DisableOOL() && m.Phase.IsOutOfLineColdPath() {
				m.FirstTimeLiveOOLRegisterList = append(m.FirstTimeLiveOOLRegisterList, v)
			}
		}

		v.PReg = assigned
		assigned.Assigned = v
		assigned.State = Assigned
	} else {
		assertf(assigned.Assigned == v, "assignOneRegister: vreg %d claims %v but back-link disagrees", v.ID, assigned.Num)
	}

	m.DecFutureUseCountAndUnlatch(v)
	return assigned, nil
}

// DecFutureUseCountAndUnlatch decrements v's remaining use counters and
// releases its physical register to Unlatched once nothing further in
// the (remaining, i.e. earlier-in-program-order) walk will reference it.
func (m *Machine) DecFutureUseCountAndUnlatch(v *VReg) {
	v.FutureUseCount--
	assertf(v.FutureUseCount >= 0, "decFutureUseCountAndUnlatch: vreg %d future use count went negative", v.ID)

	if m.Phase.IsOutOfLineColdPath() {
		v.OutOfLineUseCount--
	}
	assertf(v.FutureUseCount >= v.OutOfLineUseCount,
		"decFutureUseCountAndUnlatch: vreg %d future use count %d below out-of-line use count %d",
		v.ID, v.FutureUseCount, v.OutOfLineUseCount)

	if v.FutureUseCount == 0 || (m.Phase.IsOutOfLineHotPath() && v.FutureUseCount == v.OutOfLineUseCount) {
		if v.PReg != nil {
			v.PReg.Assigned = nil
			v.PReg.State = Unlatched
		}
		v.PReg = nil
	}
}

// registerCopy splices dst <- src.
func (m *Machine) registerCopy(at InstructionCursor, kind Kind, dst, src *PhysReg) {
	m.Factory.EmitCopy(at, kind, dst, src)
}

// registerExchange swaps target and source in place. GPR exchange is a
// single three-instruction xor swap with no spare register needed; FPR
// exchange needs a genuinely free spare to round-trip through, since
// there is no xor-equivalent trick for the float bank.
func (m *Machine) registerExchange(at InstructionCursor, kind Kind, target, source, spare *PhysReg) {
	switch kind {
	case GPR:
		m.Factory.EmitXorSwap(at, target, source)
	case FPR:
		m.registerCopy(at, kind, spare, target)
		m.registerCopy(at, kind, target, source)
		m.registerCopy(at, kind, source, spare)
	default:
		panic(ErrUnsupportedKind)
	}
}

// CoerceRegisterAssignment forces v into targetNum, displacing whatever
// currently occupies it. The action taken depends on the target
// register's current state and on whether v already holds a physical
// register:
//
//	Free/Unlatched, v unassigned : reverse-spill v into target directly
//	                               if v was spilled
//	Free/Unlatched, v assigned   : copy target into v's register
//	                               (cur <- target), free v's register
//	Blocked/Assigned, v unassigned: displace the holder to a spare or by
//	                                eviction, then reverse-spill v in
//	                                if v was spilled
//	Blocked/Assigned, v assigned  : exchange v's register with target's
//	                                holder (needs a spare for FPR)
func (m *Machine) CoerceRegisterAssignment(at InstructionCursor, v *VReg, targetNum RegNum) error {
	target := m.File.Get(targetNum)
	cur := v.PReg
	kind := v.Kind

	if cur == target {
		return nil
	}

	switch target.State {
	case Free, Unlatched:
		if target.State == Unlatched {
			target.Assigned = nil
		}
		if cur == nil {
			if v.TotalUseCount != v.FutureUseCount {
				if _, err := m.ReverseSpillState(at, v, target); err != nil {
					return err
				}
			} else if !m.Phase.DisableOOL() && m.Phase.IsOutOfLineColdPath() {
				m.FirstTimeLiveOOLRegisterList = append(m.FirstTimeLiveOOLRegisterList, v)
			}
		} else {
			m.registerCopy(at, kind, cur, target)
			cur.State = Free
			cur.Assigned = nil
		}

	case Blocked:
		holder := target.Assigned
		needTemp := kind == FPR
		var spare *PhysReg
		if cur == nil || needTemp {
			spare = m.File.FindBestFreeRegister(kind, false)
			if spare == nil {
				v.blocked = true
				var err error
				spare, err = m.FreeBestRegister(at, holder, nil)
				v.blocked = false
				if err != nil {
					return err
				}
			}
		}

		if cur != nil {
			m.registerExchange(at, kind, target, cur, spare)
			cur.State = Blocked
			cur.Assigned = holder
			holder.PReg = cur
		} else {
			m.registerCopy(at, kind, target, spare)
			spare.State = Blocked
			spare.Assigned = holder
			holder.PReg = spare

			if v.TotalUseCount != v.FutureUseCount {
				if _, err := m.ReverseSpillState(at, v, target); err != nil {
					return err
				}
			} else if !m.Phase.DisableOOL() && m.Phase.IsOutOfLineColdPath() {
				m.FirstTimeLiveOOLRegisterList = append(m.FirstTimeLiveOOLRegisterList, v)
			}
		}

	case Assigned:
		holder := target.Assigned
		needTemp := kind == FPR
		var spare *PhysReg
		if cur == nil || needTemp {
			spare = m.File.FindBestFreeRegister(kind, false)
		}

		if cur != nil {
			if !needTemp || spare != nil {
				m.registerExchange(at, kind, target, cur, spare)
				cur.State = Assigned
				cur.Assigned = holder
				holder.PReg = cur
			} else {
				if _, err := m.FreeBestRegister(at, holder, target); err != nil {
					return err
				}
				m.registerCopy(at, kind, cur, target)
				cur.State = Free
				cur.Assigned = nil
			}
		} else {
			if spare == nil {
				if _, err := m.FreeBestRegister(at, holder, target); err != nil {
					return err
				}
			} else {
				m.registerCopy(at, kind, target, spare)
				spare.State = Assigned
				spare.Assigned = holder
				holder.PReg = spare
			}

			if v.TotalUseCount != v.FutureUseCount {
				if _, err := m.ReverseSpillState(at, v, target); err != nil {
					return err
				}
			} else if !m.Phase.DisableOOL() && m.Phase.IsOutOfLineColdPath() {
				m.FirstTimeLiveOOLRegisterList = append(m.FirstTimeLiveOOLRegisterList, v)
			}
		}

	default:
		assertf(false, "coerceRegisterAssignment: target register %v in unexpected state %v", targetNum, target.State)
	}

	target.State = Assigned
	target.Assigned = v
	v.PReg = target
	return nil
}
