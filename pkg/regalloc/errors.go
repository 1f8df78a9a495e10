package regalloc

import (
	"errors"
	"fmt"
)

// ErrAllBlocked describes the condition in which every physical
// register of the requested kind is Blocked and none can be evicted.
// FreeBestRegister does not return it: it treats that condition as a
// broken invariant and panics.
var ErrAllBlocked = errors.New("regalloc: all registers of the requested kind are blocked")

// ErrUnsupportedKind reports a Kind value outside {GPR, FPR} reaching
// code that switches on it. Most such code panics with it;
// FreeBestRegister returns it when allocating a spill slot.
var ErrUnsupportedKind = errors.New("regalloc: unsupported register kind")

// assertf panics on a violated invariant. The engines never recover
// from a broken invariant: by the time one is observed, the register
// file no longer reflects a consistent state and continuing would only
// produce a wrong assignment silently.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
