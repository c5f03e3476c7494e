package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/gersemi/pkg/store"
)

// catCmd represents the cat command
var catCmd = &cobra.Command{
	Use:   "cat <root> <name>",
	Short: "Write a block's payload bytes to stdout or a file",
	Long: `Write a block's decoded payload (flat little-endian row-major bytes)
to stdout or, with --out, to a file. --range lo:hi selects an element range
and is only available on containers whose codec supports random access.

Examples:
  gersemi cat ./out.gersemi HDU-0000 --out img.bin
  gersemi cat ./out.gersemi HDU-0000 --range 0:3`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		outPath, _ := cmd.Flags().GetString("out")
		rangeStr, _ := cmd.Flags().GetString("range")

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

		var payload []byte
		if rangeStr != "" {
			lo, hi, err := parseRange(rangeStr)
			if err != nil {
				cmd.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			payload, err = b.ReadRange(lo, hi)
			if err != nil {
				cmd.Printf("Error reading range: %v\n", err)
				os.Exit(1)
			}
		} else {
			payload, err = b.ReadAll()
			if err != nil {
				cmd.Printf("Error reading payload: %v\n", err)
				os.Exit(1)
			}
		}

		if outPath == "" {
			if _, err := os.Stdout.Write(payload); err != nil {
				cmd.Printf("Error writing to stdout: %v\n", err)
				os.Exit(1)
			}
			return
		}
		if err := os.WriteFile(outPath, payload, 0644); err != nil {
			cmd.Printf("Error writing output file: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
	catCmd.Flags().String("out", "", "Output file (default stdout)")
	catCmd.Flags().String("range", "", "Element range lo:hi (random-access codecs only)")
}
