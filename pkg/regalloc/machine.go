package regalloc

// Machine is the per-function local register assignment core. It owns
// a RegisterFile and drives the free-slot picker, eviction engine,
// reverse-spill engine, coercion engine and snapshot/dep-builder over
// one reverse walk of a caller-supplied instruction stream. A Machine
// is single-use: construct one per function (or per OOL region nested
// inside one), never share it across goroutines.
type Machine struct {
	File    *RegisterFile
	Arena   SpillArena
	Factory InstructionFactory
	Phase   PhaseContext
	Tracer  Tracer

	// SpilledRegisterList holds the virtuals FreeBestRegister evicted on
	// the main line or an out-of-line hot path while out-of-line
	// protection is enabled, in the order it pushed them; cold-path
	// evictions are not recorded here. The
	// dep-builder walks it to synthesize post-condition entries for
	// spilled virtuals.
	SpilledRegisterList []*VReg

	// FirstTimeLiveOOLRegisterList holds virtuals first observed live
	// while walking an out-of-line region, so the caller can merge their
	// liveness back into the main line once the region is done.
	FirstTimeLiveOOLRegisterList []*VReg

	snapStates   [numRegNum]State
	snapAssigned [numRegNum]*VReg
	snapFlags    [numRegNum]uint32
}

// NewMachine constructs a Machine over a fresh RegisterFile. tracer may
// be nil, in which case trace lines are discarded.
func NewMachine(arena SpillArena, factory InstructionFactory, phase PhaseContext, tracer Tracer) *Machine {
	if tracer == nil {
		tracer = NopTracer{}
	}
	return &Machine{
		File:    NewRegisterFile(),
		Arena:   arena,
		Factory: factory,
		Phase:   phase,
		Tracer:  tracer,
	}
}

func (m *Machine) removeFromSpilledList(v *VReg) {
	for i, e := range m.SpilledRegisterList {
		if e == v {
			m.SpilledRegisterList = append(m.SpilledRegisterList[:i], m.SpilledRegisterList[i+1:]...)
			return
		}
	}
}

func spillSizeFor(kind Kind) int {
	switch kind {
	case GPR, FPR:
		return referenceSize
	default:
		panic(ErrUnsupportedKind)
	}
}

// referenceSize is the width, in bytes, of a 64-bit general-purpose or
// double-precision floating point spill slot on this target.
const referenceSize = 8
