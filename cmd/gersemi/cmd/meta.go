package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/gersemi/pkg/store"
)

// metaCmd represents the meta command
var metaCmd = &cobra.Command{
	Use:   "meta <root> <name>",
	Short: "Print or merge a block's metadata",
	Long: `Print a block's metadata as JSON, or merge new pairs into it with
--set. Merging overwrites on key collision and flushes the block.

Examples:
  gersemi meta ./out.gersemi HDU-0000
  gersemi meta ./out.gersemi HDU-0000 --set EXTNAME=IMG --set EXTVER=2`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setArgs, _ := cmd.Flags().GetStringArray("set")

		c, err := store.Open(args[0])
		if err != nil {
			cmd.Printf("Error opening container: %v\n", err)
			os.Exit(1)
		}
		b, err := c.OpenBlock(args[1])
		if err != nil {
			cmd.Printf("Error opening block: %v\n", err)
			os.Exit(1)
		}

		if len(setArgs) > 0 {
			updates, err := parseMetaArgs(setArgs)
			if err != nil {
				cmd.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			if err := b.UpdateMeta(updates); err != nil {
				cmd.Printf("Error updating metadata: %v\n", err)
				os.Exit(1)
			}
			if err := b.Close(); err != nil {
				cmd.Printf("Error flushing block: %v\n", err)
				os.Exit(1)
			}
		}

		out, err := json.MarshalIndent(b.Meta(), "", "  ")
		if err != nil {
			cmd.Printf("Error rendering metadata: %v\n", err)
			os.Exit(1)
		}
		cmd.Printf("%s\n", out)
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
	metaCmd.Flags().StringArray("set", nil, "Metadata KEY=value to merge (repeatable; values may be JSON)")
}
