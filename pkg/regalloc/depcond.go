package regalloc

// SpilledSentinel is the DepCondition.Target value used for a virtual
// that is live but currently spilled, rather than bound to a physical
// register.
const SpilledSentinel RegNum = -1

// DepCondition is one post-condition entry produced by
// CreateDepCondForLiveGPRs: either a live GPR pinned to a specific
// register, or a spilled virtual pinned to SpilledSentinel.
type DepCondition struct {
	VReg   *VReg
	Target RegNum
}

// CreateDepCondForLiveGPRs synthesizes the post-conditions a call or
// basic-block boundary needs to pin down every live GPR's location:
// one entry per Assigned register in the allocatable GPR window, plus
// one SpilledSentinel entry per virtual in spilledList. Every
// referenced virtual's future use count is bumped, since the
// post-condition itself counts as a reference. Every GPR must be in
// state Assigned, Free or Locked when this runs; Blocked here would
// mean a coercion sequence was left unfinished.
func (m *Machine) CreateDepCondForLiveGPRs(spilledList []*VReg) []DepCondition {
	var conds []DepCondition

	first, last := m.File.Range(GPR)
	for n := first; n <= last; n++ {
		r := m.File.Get(n)
		assertf(r.State == Assigned || r.State == Free || r.State == Locked,
			"createDepCondForLiveGPRs: register %v in unexpected state %v", n, r.State)
		if r.State == Assigned {
			conds = append(conds, DepCondition{VReg: r.Assigned, Target: n})
			r.Assigned.FutureUseCount++
		}
	}

	for _, v := range spilledList {
		conds = append(conds, DepCondition{VReg: v, Target: SpilledSentinel})
		v.FutureUseCount++
	}

	return conds
}
