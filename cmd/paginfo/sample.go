package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/pag/internal/pagfmt"
)

func newSampleCmd() *cobra.Command {
	var (
		comp   pagfmt.Composition
		images int
	)

	cmd := &cobra.Command{
		Use:   "sample FILE",
		Short: "Write a minimal document with the given metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if comp.FrameRate <= 0 {
				return fmt.Errorf("frame rate must be positive, got %g", comp.FrameRate)
			}
			data := pagfmt.NewBuilder().Images(images).Composition(comp).Bytes()
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", args[0], len(data))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int32Var(&comp.Width, "width", 720, "composition width")
	flags.Int32Var(&comp.Height, "height", 1280, "composition height")
	flags.Uint64Var(&comp.Frames, "frames", 90, "duration in frames")
	flags.Float32Var(&comp.FrameRate, "rate", 30, "frame rate")
	flags.IntVar(&comp.TextLayers, "texts", 1, "editable text layers")
	flags.IntVar(&images, "images", 1, "replaceable images")
	return cmd
}
