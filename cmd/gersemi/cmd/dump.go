package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/gersemi/pkg/store"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <root>",
	Short: "Walk a container and print every block",
	Long: `Walk a container in canonical (sorted) order and print each block's
name, shape, element type, metadata and payload size.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := store.Open(args[0])
		if err != nil {
			cmd.Printf("Error opening container: %v\n", err)
			os.Exit(1)
		}

		for _, name := range c.Names() {
			b, err := c.OpenBlock(name)
			if err != nil {
				cmd.Printf("Error opening block %s: %v\n", name, err)
				os.Exit(1)
			}

			cmd.Printf("=== %s shape=%v dtype=%s\n", b.Name(), b.Shape(), b.Dtype())

			meta, err := json.MarshalIndent(b.Meta(), "", "  ")
			if err != nil {
				cmd.Printf("Error rendering metadata: %v\n", err)
				os.Exit(1)
			}
			cmd.Printf("%s\n", meta)

			if b.Dtype().IsNull() {
				cmd.Printf("(no data)\n")
				continue
			}
			payload, err := b.ReadAll()
			if err != nil {
				cmd.Printf("Error reading payload of %s: %v\n", name, err)
				os.Exit(1)
			}
			cmd.Printf("payload: %d bytes\n", len(payload))
		}
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
