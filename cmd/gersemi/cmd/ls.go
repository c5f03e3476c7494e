package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/gersemi/pkg/store"
)

// lsCmd represents the ls command
var lsCmd = &cobra.Command{
	Use:   "ls <root>",
	Short: "List block names in sorted order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := store.Open(args[0])
		if err != nil {
			cmd.Printf("Error opening container: %v\n", err)
			os.Exit(1)
		}

		for _, name := range c.Names() {
			cmd.Printf("%s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
