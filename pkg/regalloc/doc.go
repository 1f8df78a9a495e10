// Package regalloc assigns ARM64 physical registers to virtual
// registers over a single backward walk of an already-linearized
// instruction stream, in the style of a reverse linear scan: no
// interference graph is built, and a register's next use is discovered
// by walking backward from the point of assignment rather than
// precomputed live ranges.
package regalloc
