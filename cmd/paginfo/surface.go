package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gogpu/pag"
)

type surfaceReport struct {
	Engine   string `json:"engine" yaml:"engine"`
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
	Format   string `json:"format" yaml:"format"`
	Stride   int    `json:"stride" yaml:"stride"`
	Cleared  bool   `json:"cleared" yaml:"cleared"`
	Readback bool   `json:"readback" yaml:"readback"`
	PNG      string `json:"png,omitempty" yaml:"png,omitempty"`
}

func newSurfaceCmd(o *options) *cobra.Command {
	var (
		width, height int
		pngPath       string
	)

	cmd := &cobra.Command{
		Use:   "surface",
		Short: "Allocate an offscreen surface and read it back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSurface(cmd.OutOrStdout(), o, width, height, pngPath)
		},
	}
	cmd.Flags().IntVar(&width, "width", 256, "surface width in pixels")
	cmd.Flags().IntVar(&height, "height", 256, "surface height in pixels")
	cmd.Flags().StringVar(&pngPath, "png", "", "also write the surface contents to this PNG file")
	return cmd
}

func runSurface(w io.Writer, o *options, width, height int, pngPath string) error {
	eng := pag.Engine()
	if eng == "" {
		return errNoEngine
	}
	s := pag.MakeOffscreen(width, height)
	if s == nil {
		return fmt.Errorf("cannot allocate a %dx%d surface", width, height)
	}
	defer s.Release()

	stride := s.Width() * 4
	buf := make([]byte, stride*s.Height())
	report := surfaceReport{
		Engine:   eng,
		Width:    s.Width(),
		Height:   s.Height(),
		Format:   fmt.Sprint(s.Format()),
		Stride:   stride,
		Cleared:  s.ClearAll(),
		Readback: s.CopyPixelsTo(buf, stride),
	}
	if pngPath != "" {
		if err := writePNG(s, pngPath); err != nil {
			return err
		}
		report.PNG = pngPath
	}
	s.FreeCache()

	encoded, err := o.encode(w, report)
	if err != nil || encoded {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")
	table.Append([]string{"Engine", report.Engine})
	table.Append([]string{"Size", fmt.Sprintf("%dx%d", report.Width, report.Height)})
	table.Append([]string{"Format", report.Format})
	table.Append([]string{"Stride", strconv.Itoa(report.Stride)})
	table.Append([]string{"Cleared", strconv.FormatBool(report.Cleared)})
	table.Append([]string{"Readback", strconv.FormatBool(report.Readback)})
	if report.PNG != "" {
		table.Append([]string{"PNG", report.PNG})
	}
	table.Render()
	return nil
}

func writePNG(s *pag.Surface, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
