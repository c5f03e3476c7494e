package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/ssargent/gersemi/pkg/store"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <root>",
	Short: "Check a container's integrity",
	Long: `Open every block named in the container index and decode its payload,
reporting blocks that are missing, unparsable or fail to decode. With
--against, additionally compare two containers block-for-block: same names,
shapes, element types, metadata and payload bytes.

Examples:
  gersemi verify ./out.gersemi
  gersemi verify ./out.zst.gersemi --against ./out.gersemi`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		againstPath, _ := cmd.Flags().GetString("against")

		c, err := store.Open(args[0])
		if err != nil {
			cmd.Printf("Error opening container: %v\n", err)
			os.Exit(1)
		}

		problems := verifyContainer(c)

		if againstPath != "" {
			other, err := store.Open(againstPath)
			if err != nil {
				cmd.Printf("Error opening container to compare against: %v\n", err)
				os.Exit(1)
			}
			problems = append(problems, compareContainers(c, other)...)
		}

		if len(problems) > 0 {
			for _, p := range problems {
				cmd.Printf("FAIL: %v\n", p)
			}
			os.Exit(1)
		}
		cmd.Printf("OK: %d blocks verified\n", c.Len())
	},
}

// verifyContainer opens and decodes every indexed block.
func verifyContainer(c *store.Container) []error {
	var problems []error
	for _, name := range c.Names() {
		b, err := c.OpenBlock(name)
		if err != nil {
			problems = append(problems, fmt.Errorf("block %s: %w", name, err))
			continue
		}
		payload, err := b.ReadAll()
		if err != nil {
			problems = append(problems, fmt.Errorf("block %s payload: %w", name, err))
			continue
		}
		if want := b.Len() * b.Dtype().ElemSize(); len(payload) != want {
			problems = append(problems, fmt.Errorf("block %s payload is %d bytes, want %d", name, len(payload), want))
			continue
		}
		slog.Debug("verified block", "name", name, "bytes", len(payload))
	}
	return problems
}

// compareContainers checks two containers hold the same blocks with equal
// shapes, element types, metadata and payload bytes.
func compareContainers(a, b *store.Container) []error {
	var problems []error

	if !reflect.DeepEqual(a.Names(), b.Names()) {
		problems = append(problems, fmt.Errorf("block names differ: %v vs %v", a.Names(), b.Names()))
		return problems
	}

	for _, name := range a.Names() {
		ab, err := a.OpenBlock(name)
		if err != nil {
			problems = append(problems, fmt.Errorf("block %s: %w", name, err))
			continue
		}
		bb, err := b.OpenBlock(name)
		if err != nil {
			problems = append(problems, fmt.Errorf("block %s: %w", name, err))
			continue
		}

		if !reflect.DeepEqual(ab.Shape(), bb.Shape()) {
			problems = append(problems, fmt.Errorf("block %s shapes differ: %v vs %v", name, ab.Shape(), bb.Shape()))
		}
		if !ab.Dtype().Equal(bb.Dtype()) {
			problems = append(problems, fmt.Errorf("block %s dtypes differ: %s vs %s", name, ab.Dtype(), bb.Dtype()))
		}
		if !reflect.DeepEqual(ab.Meta(), bb.Meta()) {
			problems = append(problems, fmt.Errorf("block %s metadata differs", name))
		}

		ap, err := ab.ReadAll()
		if err != nil {
			problems = append(problems, fmt.Errorf("block %s payload: %w", name, err))
			continue
		}
		bp, err := bb.ReadAll()
		if err != nil {
			problems = append(problems, fmt.Errorf("block %s payload: %w", name, err))
			continue
		}
		if !bytes.Equal(ap, bp) {
			problems = append(problems, fmt.Errorf("block %s payload bytes differ", name))
		}
	}
	return problems
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().String("against", "", "Container to compare block-for-block")
}
