package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/gersemi/pkg/dtype"
	"github.com/ssargent/gersemi/pkg/store"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <root> <name>",
	Short: "Create a block from a raw payload file",
	Long: `Create a block in an existing container. The payload file holds the
flat little-endian row-major array bytes; without --in the block stays
zero-filled. Use --dtype null with --shape 0 for an explicit no-data block.

Examples:
  gersemi put ./out.gersemi HDU-0000 --shape 3,3 --dtype f8 --in img.bin --meta EXTNAME=IMG
  gersemi put ./out.gersemi HDU-0001 --shape 120 --dtype RA:f8,DEC:f8 --in table.bin
  gersemi put ./out.gersemi HDU-0002 --shape 0 --dtype null`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		shapeStr, _ := cmd.Flags().GetString("shape")
		dtypeStr, _ := cmd.Flags().GetString("dtype")
		inPath, _ := cmd.Flags().GetString("in")
		metaArgs, _ := cmd.Flags().GetStringArray("meta")

		shape, err := parseShape(shapeStr)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		dt, err := dtype.Parse(dtypeStr)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		meta, err := parseMetaArgs(metaArgs)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		c, err := store.Open(args[0])
		if err != nil {
			cmd.Printf("Error opening container: %v\n", err)
			os.Exit(1)
		}

		b, err := c.CreateBlock(args[1], shape, dt)
		if err != nil {
			cmd.Printf("Error creating block: %v\n", err)
			os.Exit(1)
		}

		if inPath != "" {
			payload, err := os.ReadFile(inPath)
			if err != nil {
				cmd.Printf("Error reading payload file: %v\n", err)
				os.Exit(1)
			}
			if err := b.WriteAll(payload); err != nil {
				cmd.Printf("Error writing payload: %v\n", err)
				os.Exit(1)
			}
		}

		if err := b.UpdateMeta(meta); err != nil {
			cmd.Printf("Error updating metadata: %v\n", err)
			os.Exit(1)
		}
		if err := b.Close(); err != nil {
			cmd.Printf("Error flushing block: %v\n", err)
			os.Exit(1)
		}
		if err := c.Close(); err != nil {
			cmd.Printf("Error flushing container: %v\n", err)
			os.Exit(1)
		}

		cmd.Printf("Created block %s shape=%v dtype=%s\n", args[1], shape, dt)
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().String("shape", "", "Comma-separated dimensions, e.g. 3,3")
	putCmd.Flags().String("dtype", "f8", "Element type code, e.g. f8, i4, S16, RA:f8,DEC:f8, null")
	putCmd.Flags().String("in", "", "Payload file (flat little-endian bytes); zero-filled if omitted")
	putCmd.Flags().StringArray("meta", nil, "Metadata KEY=value (repeatable; values may be JSON)")
}
