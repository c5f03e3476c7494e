package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/gersemi/pkg/codec"
	"github.com/ssargent/gersemi/pkg/store"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init <root>",
	Short: "Create an empty container",
	Long: `Create an empty container at the given root directory.

The codec chosen here applies to every block the container will ever hold.

Examples:
  gersemi init ./out.gersemi
  gersemi init ./out.gersemi --codec bshuf-zstd`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		codecName, _ := cmd.Flags().GetString("codec")
		if codecName == "" {
			codecName = loadCLIConfig(cmd).DefaultCodec
		}

		cd, ok := codec.Get(codecName)
		if !ok {
			cmd.Printf("Error: unknown codec %q (available: %s)\n", codecName, strings.Join(codec.Names(), ", "))
			os.Exit(1)
		}

		c, err := store.Create(args[0], store.WithCodec(cd))
		if err != nil {
			cmd.Printf("Error creating container: %v\n", err)
			os.Exit(1)
		}
		if err := c.Close(); err != nil {
			cmd.Printf("Error flushing container: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Initialized container %s (codec %s, id %s)\n", args[0], cd.Name(), c.ID())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("codec", "", "Payload codec (default from config)")
}
