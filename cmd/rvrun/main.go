// Command rvrun assembles and steps an RV64GV program to completion,
// optionally tracing every step.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rv64v/sim/cmd/internal/config"
	"github.com/rv64v/sim/pkg/asm"
	"github.com/rv64v/sim/pkg/rvcore"
)

var log = logrus.StandardLogger()

func main() {
	root := &cobra.Command{Use: "rvrun"}

	var trace bool
	run := &cobra.Command{
		Use:   "run <file>",
		Short: "Assemble and run a program, printing the final register state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(args[0], trace)
		},
	}
	run.Flags().BoolVar(&trace, "trace", false, "log the line, pc and a0 after every step")

	traceCmd := &cobra.Command{
		Use:   "trace <file>",
		Short: "Assemble and run a program, tracing every step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(args[0], true)
		},
	}

	root.AddCommand(run, traceCmd)
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func execute(filename string, trace bool) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	fp, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("rvrun: %w", err)
	}
	defer fp.Close()

	prog, err := asm.Assemble(fp, asm.Options{MemorySize: cfg.MemorySize, Vlen: cfg.Vlen})
	if err != nil {
		log.WithField("file", filename).Error("assembly failed")
		return err
	}

	vecEngine := rvcore.NewVectorEngine(cfg.Vlen)
	core := rvcore.Build(prog.Instructions, prog.LineMap, prog.Memory, vecEngine)

	for {
		result, err := core.Step()
		if result == rvcore.StepHalted {
			break
		}
		if err != nil {
			log.WithField("line", core.CurrentLine()+1).Error("step failed")
			return err
		}
		if trace {
			logStep(core)
		}
	}

	printRegisters(core)
	return nil
}

func logStep(c *rvcore.Core) {
	snap := c.Registers.Snapshot()
	log.WithFields(logrus.Fields{
		"line": c.CurrentLine() + 1,
		"pc":   snap.PC,
		"a0":   snap.X[rvcore.RegA0],
	}).Info("step")
}

func printRegisters(c *rvcore.Core) {
	snap := c.Registers.Snapshot()
	fmt.Printf("pc = %#x\n", snap.PC)
	for i := 0; i < 32; i++ {
		fmt.Printf("x%-2d = %#018x", i, snap.X[i])
		if i%4 == 3 {
			fmt.Println()
		} else {
			fmt.Print("  ")
		}
	}
	fmt.Printf("vl = %d  vtype = %#x  vstart = %d\n",
		snap.C[rvcore.CsrVL], snap.C[rvcore.CsrVTYPE], snap.C[rvcore.CsrVSTART])
}
