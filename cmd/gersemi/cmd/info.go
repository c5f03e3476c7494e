package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/gersemi/pkg/store"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <root> [block]",
	Short: "Show container or block details",
	Long: `Show a container's manifest fields, or one block's shape, element
type and metadata.

Examples:
  gersemi info ./out.gersemi
  gersemi info ./out.gersemi HDU-0000`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := store.Open(args[0])
		if err != nil {
			cmd.Printf("Error opening container: %v\n", err)
			os.Exit(1)
		}

		if len(args) == 1 {
			cmd.Printf("root:    %s\n", c.Root())
			cmd.Printf("version: %d\n", c.Version())
			if c.ID() != "" {
				cmd.Printf("id:      %s\n", c.ID())
			}
			cmd.Printf("codec:   %s\n", c.Codec().Name())
			cmd.Printf("blocks:  %d\n", c.Len())
			return
		}

		b, err := c.OpenBlock(args[1])
		if err != nil {
			cmd.Printf("Error opening block: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("name:  %s\n", b.Name())
		cmd.Printf("shape: %v\n", b.Shape())
		cmd.Printf("dtype: %s\n", b.Dtype())
		cmd.Printf("elems: %d (%d bytes raw)\n", b.Len(), b.Len()*b.Dtype().ElemSize())

		meta, err := json.MarshalIndent(b.Meta(), "", "  ")
		if err != nil {
			cmd.Printf("Error rendering metadata: %v\n", err)
			os.Exit(1)
		}
		cmd.Printf("meta:  %s\n", meta)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
