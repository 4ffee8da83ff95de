// Command rvasm assembles RV64GV source into a resolved instruction
// stream and prints it, one line per instruction, without running it.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rv64v/sim/cmd/internal/config"
	"github.com/rv64v/sim/pkg/asm"
)

var log = logrus.StandardLogger()

func main() {
	root := &cobra.Command{
		Use:   "rvasm <file>",
		Short: "Assemble RV64GV source and print the resolved instruction stream",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssemble,
	}
	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runAssemble(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	fp, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("rvasm: %w", err)
	}
	defer fp.Close()

	prog, err := asm.Assemble(fp, asm.Options{MemorySize: cfg.MemorySize, Vlen: cfg.Vlen})
	if err != nil {
		log.WithField("file", args[0]).Error("assembly failed")
		return err
	}

	for i, instr := range prog.Instructions {
		fmt.Printf("%04d  line %-4d  %#v\n", i, prog.LineMap[i], instr)
	}
	log.WithFields(logrus.Fields{
		"instructions": len(prog.Instructions),
		"data_bytes":   prog.Memory.DataPtr(),
	}).Info("assembled")
	return nil
}
