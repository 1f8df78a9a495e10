// Command armregalloc-demo drives the regalloc package over a couple of
// small, synthetic instruction streams and prints the register
// assignment decisions it makes. It exists to give the allocator a
// runnable harness outside of its test suite, in the same spirit as
// ralph-cc's debug-dump flags: a thin CLI wrapped around library code,
// not where any of the interesting logic lives.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rac-compilers/arm64regalloc/pkg/regalloc"
)

var version = "0.1.0"

var (
	workers int
	verbose bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "armregalloc-demo",
		Short:   "Run the ARM64 local register allocator over synthetic instruction streams",
		Long:    `armregalloc-demo builds a couple of small, hand-written instruction streams and runs them through the regalloc package's reverse linear scan, printing the emitted loads, stores, copies, and swaps as it goes.`,
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			funcs := []regalloc.FuncInput{
				buildEvictionDemo(),
				buildOOLReverseSpillDemo(),
			}

			results, err := regalloc.AllocateFunctions(funcs, workers)
			for _, r := range results {
				fmt.Fprintf(out, "== %s ==\n", r.Name)
				if r.Err != nil {
					fmt.Fprintf(errOut, "  allocation failed: %v\n", r.Err)
					continue
				}
				log, _ := r.Value.(*demoLog)
				if log == nil {
					continue
				}
				for _, line := range log.lines {
					fmt.Fprintf(out, "  %s\n", line)
				}
			}
			if err != nil {
				return err
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().IntVar(&workers, "workers", 2, "number of goroutines to allocate functions across")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace protect/free decisions during out-of-line regions")

	return rootCmd
}

// buildEvictionDemo constructs a function whose GPR bank is fully
// occupied by the time a fresh virtual needs a register, forcing an
// eviction.
func buildEvictionDemo() regalloc.FuncInput {
	log := &demoLog{}
	arena := &demoArena{}
	factory := &demoFactory{log: log}
	phase := &demoPhase{}

	instrs := []*demoInstr{
		newDemoInstr("entry", regalloc.OpProc),
		newDemoInstr("fill-bank", regalloc.OpOther),
		newDemoInstr("need-one-more", regalloc.OpOther),
	}

	return regalloc.FuncInput{
		Name:    "eviction_demo",
		Arena:   arena,
		Factory: factory,
		Phase:   phase,
		Tracer:  &demoTracer{log: log, verbose: verbose},
		Run: func(m *regalloc.Machine) (any, error) {
			cursor := newDemoCursor(instrs, len(instrs)-1)

			survivors := make([]*regalloc.VReg, 0, 30)
			for n := regalloc.FirstGPR; n <= regalloc.LastGPR; n++ {
				v := &regalloc.VReg{ID: regalloc.VRegID(n), Kind: regalloc.GPR, TotalUseCount: 2, FutureUseCount: 2}
				preg := m.File.Get(n)
				preg.State = regalloc.Assigned
				preg.Assigned = v
				v.PReg = preg
				survivors = append(survivors, v)
			}

			fresh := &regalloc.VReg{ID: 1000, Kind: regalloc.GPR, TotalUseCount: 1, FutureUseCount: 1}
			preg, err := m.AssignOneRegister(cursor, fresh)
			if err != nil {
				return nil, err
			}
			log.lines = append(log.lines, fmt.Sprintf("assigned fresh vreg %d to %v (evicted vreg %d)", fresh.ID, preg.Num, survivors[0].ID))
			return log, nil
		},
	}
}

// buildOOLReverseSpillDemo constructs a function that reverse-spills a
// virtual back into a register while walking backward through a
// simulated out-of-line hot path region.
func buildOOLReverseSpillDemo() regalloc.FuncInput {
	log := &demoLog{}
	arena := &demoArena{}
	factory := &demoFactory{log: log}
	phase := &demoPhase{hot: true}

	instrs := []*demoInstr{
		newDemoInstr("entry", regalloc.OpProc),
		newDemoInstr("hot-region-use", regalloc.OpOther),
	}

	return regalloc.FuncInput{
		Name:    "ool_reverse_spill_demo",
		Arena:   arena,
		Factory: factory,
		Phase:   phase,
		Tracer:  &demoTracer{log: log, verbose: verbose},
		Run: func(m *regalloc.Machine) (any, error) {
			cursor := newDemoCursor(instrs, len(instrs)-1)

			v := &regalloc.VReg{ID: 2000, Kind: regalloc.GPR, TotalUseCount: 3, FutureUseCount: 1}
			v.BackingStorage = &regalloc.SpillSlot{Handle: "demo-slot", MaxSpillDepth: regalloc.SpillDepthMain}
			m.SpilledRegisterList = append(m.SpilledRegisterList, v)

			target := m.File.Get(regalloc.X3)
			if _, err := m.ReverseSpillState(cursor, v, target); err != nil {
				return nil, err
			}
			log.lines = append(log.lines, fmt.Sprintf("reverse-spilled vreg %d back into %v", v.ID, target.Num))
			return log, nil
		},
	}
}
