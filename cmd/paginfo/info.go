package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gogpu/pag"
)

type fileInfo struct {
	Path        string  `json:"path" yaml:"path"`
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
	Duration    int64   `json:"duration_us" yaml:"duration_us"`
	FrameRate   float32 `json:"frame_rate" yaml:"frame_rate"`
	TagLevel    int     `json:"tag_level" yaml:"tag_level"`
	NumTexts    int     `json:"texts" yaml:"texts"`
	NumImages   int     `json:"images" yaml:"images"`
	NumVideos   int     `json:"videos" yaml:"videos"`
	TimeStretch string  `json:"time_stretch" yaml:"time_stretch"`
	Children    int     `json:"children" yaml:"children"`

	Layers []layerInfo `json:"layers,omitempty" yaml:"layers,omitempty"`
}

type layerInfo struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"`
	StartTime int64  `json:"start_us" yaml:"start_us"`
	Duration  int64  `json:"duration_us" yaml:"duration_us"`
}

type infoReport struct {
	Engine      string             `json:"engine" yaml:"engine"`
	MaxTagLevel int                `json:"max_supported_tag_level" yaml:"max_supported_tag_level"`
	Files       []fileInfo         `json:"files" yaml:"files"`
	Failed      []string           `json:"failed,omitempty" yaml:"failed,omitempty"`
	Stats       map[string]float64 `json:"stats,omitempty" yaml:"stats,omitempty"`
}

func newInfoCmd(o *options) *cobra.Command {
	var stats, layers bool

	cmd := &cobra.Command{
		Use:   "info FILE...",
		Short: "Print document metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), o, args, stats, layers)
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "also print resource and cache counters")
	cmd.Flags().BoolVar(&layers, "layers", false, "also list the main composition's child layers")
	return cmd
}

func runInfo(w io.Writer, o *options, paths []string, stats, layers bool) error {
	eng := pag.Engine()
	if eng == "" {
		return errNoEngine
	}
	report := infoReport{Engine: eng, MaxTagLevel: pag.MaxSupportedTagLevel()}

	// Keep every file open until the report is built so duplicate paths
	// share their document.
	var files []*pag.File
	defer func() {
		for _, f := range files {
			f.Release()
		}
	}()

	for _, path := range paths {
		f := pag.Load(path)
		if f == nil {
			report.Failed = append(report.Failed, path)
			continue
		}
		files = append(files, f)
		fi := fileInfo{
			Path:        f.Path(),
			Width:       f.Width(),
			Height:      f.Height(),
			Duration:    f.Duration(),
			FrameRate:   f.FrameRate(),
			TagLevel:    f.TagLevel(),
			NumTexts:    f.NumTexts(),
			NumImages:   f.NumImages(),
			NumVideos:   f.NumVideos(),
			TimeStretch: f.TimeStretchMode().String(),
			Children:    f.NumChildren(),
		}
		if layers {
			for _, l := range f.Layers() {
				fi.Layers = append(fi.Layers, layerInfo{
					Name:      l.Name,
					Type:      l.Type.String(),
					StartTime: l.StartTime,
					Duration:  l.Duration,
				})
			}
		}
		report.Files = append(report.Files, fi)
	}

	if stats {
		s, err := gatherStats()
		if err != nil {
			return err
		}
		report.Stats = s
	}

	encoded, err := o.encode(w, report)
	if err != nil {
		return err
	}
	if !encoded {
		renderInfo(w, report)
	}

	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d documents could not be loaded", len(report.Failed), len(paths))
	}
	return nil
}

func renderInfo(w io.Writer, r infoReport) {
	fmt.Fprintf(w, "Engine: %s (max tag level %d)\n", r.Engine, r.MaxTagLevel)

	table := tablewriter.NewWriter(w)
	table.Header("Path", "Size", "Duration", "FPS", "Tag", "Layers", "Texts", "Images", "Videos", "Stretch")
	for _, f := range r.Files {
		table.Append([]string{
			f.Path,
			fmt.Sprintf("%dx%d", f.Width, f.Height),
			microseconds(f.Duration),
			strconv.FormatFloat(float64(f.FrameRate), 'g', -1, 32),
			strconv.Itoa(f.TagLevel),
			strconv.Itoa(f.Children),
			strconv.Itoa(f.NumTexts),
			strconv.Itoa(f.NumImages),
			strconv.Itoa(f.NumVideos),
			f.TimeStretch,
		})
	}
	for _, path := range r.Failed {
		table.Append([]string{path, "-", "-", "-", "-", "-", "-", "-", "-", "not loaded"})
	}
	table.Render()

	for _, f := range r.Files {
		if len(f.Layers) == 0 {
			continue
		}
		fmt.Fprintf(w, "Layers of %s:\n", f.Path)
		lt := tablewriter.NewWriter(w)
		lt.Header("#", "Name", "Type", "Start", "Duration")
		for i, l := range f.Layers {
			lt.Append([]string{strconv.Itoa(i), l.Name, l.Type, microseconds(l.StartTime), microseconds(l.Duration)})
		}
		lt.Render()
	}

	if len(r.Stats) > 0 {
		st := tablewriter.NewWriter(w)
		st.Header("Metric", "Value")
		for _, name := range sortedKeys(r.Stats) {
			st.Append([]string{name, strconv.FormatFloat(r.Stats[name], 'f', -1, 64)})
		}
		st.Render()
	}
}

// gatherStats collects the pag counters through a private registry.
func gatherStats() (map[string]float64, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(pag.NewCollector()); err != nil {
		return nil, err
	}
	families, err := reg.Gather()
	if err != nil {
		return nil, err
	}

	stats := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				stats[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				stats[mf.GetName()] = m.GetCounter().GetValue()
			}
		}
	}
	return stats, nil
}

func microseconds(us int64) string {
	return (time.Duration(us) * time.Microsecond).String()
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
