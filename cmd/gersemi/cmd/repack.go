package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/gersemi/pkg/codec"
	"github.com/ssargent/gersemi/pkg/store"
)

// repackCmd represents the repack command
var repackCmd = &cobra.Command{
	Use:   "repack <src> <dst>",
	Short: "Rewrite a container under another codec",
	Long: `Copy every block of one container into a new container created with
the given codec, carrying shape, element type, metadata and payload.

Example:
  gersemi repack ./out.gersemi ./out.zst.gersemi --codec bshuf-zstd`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		codecName, _ := cmd.Flags().GetString("codec")

		cd, ok := codec.Get(codecName)
		if !ok {
			cmd.Printf("Error: unknown codec %q (available: %s)\n", codecName, strings.Join(codec.Names(), ", "))
			os.Exit(1)
		}

		src, err := store.Open(args[0])
		if err != nil {
			cmd.Printf("Error opening source container: %v\n", err)
			os.Exit(1)
		}
		dst, err := store.Create(args[1], store.WithCodec(cd))
		if err != nil {
			cmd.Printf("Error creating destination container: %v\n", err)
			os.Exit(1)
		}

		for _, name := range src.Names() {
			if err := repackBlock(src, dst, name); err != nil {
				cmd.Printf("Error repacking block %s: %v\n", name, err)
				os.Exit(1)
			}
			slog.Debug("repacked block", "name", name)
		}

		if err := dst.Close(); err != nil {
			cmd.Printf("Error flushing destination container: %v\n", err)
			os.Exit(1)
		}
		cmd.Printf("Repacked %d blocks into %s (codec %s)\n", src.Len(), args[1], cd.Name())
	},
}

// repackBlock copies one block between containers, preserving shape,
// element type, metadata and payload.
func repackBlock(src, dst *store.Container, name string) error {
	sb, err := src.OpenBlock(name)
	if err != nil {
		return err
	}

	db, err := dst.CreateBlock(name, sb.Shape(), sb.Dtype())
	if err != nil {
		return err
	}

	if !sb.Dtype().IsNull() {
		payload, err := sb.ReadAll()
		if err != nil {
			return err
		}
		if err := db.WriteAll(payload); err != nil {
			return err
		}
	}

	if err := db.UpdateMeta(sb.Meta()); err != nil {
		return err
	}
	return db.Close()
}

func init() {
	rootCmd.AddCommand(repackCmd)
	repackCmd.Flags().String("codec", "raw", "Destination payload codec")
}
