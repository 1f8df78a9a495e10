package regalloc

import "testing"

func TestFreeBestRegisterAllBlockedPanics(t *testing.T) {
	m := newTestMachine(&fakeArena{}, &fakeFactory{}, &fakePhase{})
	// Nothing is Assigned, so the candidate set is empty: the invariant
	// that some kind is always occupied under contention is violated on
	// purpose here to exercise the assertion.
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty candidate set")
		}
	}()
	stream := newFakeStream(newFakeInstr("i0", OpOther))
	_, _ = m.FreeBestRegister(stream, nil, nil)
}

func TestFreeBestRegisterHaltsAtLabelAscendingBias(t *testing.T) {
	arena := &fakeArena{}
	factory := &fakeFactory{}
	m := newTestMachine(arena, factory, &fakePhase{})

	u := newVReg(1, GPR, 3)
	w := newVReg(2, GPR, 3)
	m.File.Get(X0).State = Assigned
	m.File.Get(X0).Assigned = u
	u.PReg = m.File.Get(X0)
	m.File.Get(X1).State = Assigned
	m.File.Get(X1).Assigned = w
	w.PReg = m.File.Get(X1)

	// Neither candidate is referenced by any instruction before the
	// label boundary, so the walk runs out with both still standing and
	// returns the lowest-indexed one (x0).
	lbl := newFakeInstr("lbl", OpLabel)
	i1 := newFakeInstr("i1", OpOther)
	cursor := newFakeStream(lbl, i1)

	victim, err := m.FreeBestRegister(cursor, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if victim.Num != X0 {
		t.Fatalf("got victim %v, want x0 (ascending-index bias)", victim.Num)
	}
	if u.PReg != nil {
		t.Errorf("victim's vreg still shows a physical assignment")
	}
	if factory.countOp("load") != 1 {
		t.Errorf("got %d load emissions, want 1", factory.countOp("load"))
	}
}

func TestFreeBestRegisterEliminatesReferencedCandidate(t *testing.T) {
	arena := &fakeArena{}
	factory := &fakeFactory{}
	m := newTestMachine(arena, factory, &fakePhase{})

	u := newVReg(1, GPR, 3)
	w := newVReg(2, GPR, 3)
	m.File.Get(X0).State = Assigned
	m.File.Get(X0).Assigned = u
	u.PReg = m.File.Get(X0)
	m.File.Get(X1).State = Assigned
	m.File.Get(X1).Assigned = w
	w.PReg = m.File.Get(X1)

	// The cursor instruction references u, eliminating it immediately,
	// so w (the one NOT referenced) must be the victim.
	cursor := newFakeStream(newFakeInstr("i0", OpOther, u))

	victim, err := m.FreeBestRegister(cursor, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if victim.Num != X1 {
		t.Fatalf("got victim %v, want x1 (w, the unreferenced candidate)", victim.Num)
	}
}

func TestFreeBestRegisterForcedSkipsCandidateScan(t *testing.T) {
	arena := &fakeArena{}
	factory := &fakeFactory{}
	m := newTestMachine(arena, factory, &fakePhase{})

	u := newVReg(1, GPR, 2)
	m.File.Get(X5).State = Assigned
	m.File.Get(X5).Assigned = u
	u.PReg = m.File.Get(X5)

	cursor := newFakeStream(newFakeInstr("i0", OpOther))
	victim, err := m.FreeBestRegister(cursor, nil, m.File.Get(X5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if victim.Num != X5 {
		t.Fatalf("got %v, want x5 (forced)", victim.Num)
	}
	if victim.State != Free {
		t.Errorf("got state %v, want Free", victim.State)
	}
}

func TestFreeBestRegisterMainLineSetsSpillDepth(t *testing.T) {
	arena := &fakeArena{}
	factory := &fakeFactory{}
	m := newTestMachine(arena, factory, &fakePhase{})

	u := newVReg(1, GPR, 2)
	m.File.Get(X0).State = Assigned
	m.File.Get(X0).Assigned = u
	u.PReg = m.File.Get(X0)

	cursor := newFakeStream(newFakeInstr("i0", OpOther))
	if _, err := m.FreeBestRegister(cursor, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.BackingStorage == nil {
		t.Fatal("expected backing storage to be allocated")
	}
	if u.BackingStorage.MaxSpillDepth != SpillDepthMain {
		t.Errorf("got depth %v, want SpillDepthMain", u.BackingStorage.MaxSpillDepth)
	}
	if len(m.SpilledRegisterList) != 1 || m.SpilledRegisterList[0] != u {
		t.Errorf("expected u on the spilled register list")
	}
}

func TestFreeBestRegisterColdPathReusesBackingStorage(t *testing.T) {
	arena := &fakeArena{}
	factory := &fakeFactory{}
	phase := &fakePhase{cold: true}
	m := newTestMachine(arena, factory, phase)

	u := newVReg(1, GPR, 2)
	slot := &SpillSlot{Handle: "existing", MaxSpillDepth: SpillDepthMain}
	u.BackingStorage = slot
	m.File.Get(X0).State = Assigned
	m.File.Get(X0).Assigned = u
	u.PReg = m.File.Get(X0)

	cursor := newFakeStream(newFakeInstr("i0", OpOther))
	if _, err := m.FreeBestRegister(cursor, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.BackingStorage != slot {
		t.Fatalf("expected cold path to reuse the existing slot, got a new one")
	}
	// main/hot depth must never be downgraded by a cold-path touch.
	if slot.MaxSpillDepth != SpillDepthMain {
		t.Errorf("got depth %v, want unchanged SpillDepthMain", slot.MaxSpillDepth)
	}
}

func TestFreeBestRegisterColdPathPromotesFreshSlotToCold(t *testing.T) {
	arena := &fakeArena{}
	factory := &fakeFactory{}
	phase := &fakePhase{cold: true}
	m := newTestMachine(arena, factory, phase)

	u := newVReg(1, GPR, 2)
	m.File.Get(X0).State = Assigned
	m.File.Get(X0).Assigned = u
	u.PReg = m.File.Get(X0)

	cursor := newFakeStream(newFakeInstr("i0", OpOther))
	if _, err := m.FreeBestRegister(cursor, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.BackingStorage.MaxSpillDepth != SpillDepthCold {
		t.Errorf("got depth %v, want SpillDepthCold", u.BackingStorage.MaxSpillDepth)
	}
	if len(m.SpilledRegisterList) != 0 {
		t.Errorf("cold-path eviction must not push onto the spilled register list")
	}
}
