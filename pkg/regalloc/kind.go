package regalloc

// Kind partitions the physical and virtual register space into the two
// banks a local assigner tracks independently: general purpose and
// floating point / SIMD. The two banks never interact during assignment
// except through the shared instruction stream.
type Kind int

const (
	// GPR identifies the x0-x29, lr, sp and xzr bank.
	GPR Kind = iota
	// FPR identifies the v0-v31 bank.
	FPR
)

func (k Kind) String() string {
	switch k {
	case GPR:
		return "GPR"
	case FPR:
		return "FPR"
	default:
		return "Kind(?)"
	}
}
