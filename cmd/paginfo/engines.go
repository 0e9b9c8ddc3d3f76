package main

import (
	"io"
	"runtime"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gogpu/pag"
	"github.com/gogpu/pag/engine"
	"github.com/gogpu/pag/engine/native"
)

type engineInfo struct {
	Name   string `json:"name" yaml:"name"`
	Active bool   `json:"active" yaml:"active"`

	// Native engine only.
	Library       string `json:"library,omitempty" yaml:"library,omitempty"`
	LibraryLoaded bool   `json:"library_loaded,omitempty" yaml:"library_loaded,omitempty"`
}

func newEnginesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List registered engines and the one in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEngines(cmd.OutOrStdout(), o)
		},
	}
}

func runEngines(w io.Writer, o *options) error {
	active := pag.Engine()

	lib := o.v.GetString("library")
	if lib == "" {
		lib = native.DefaultLibrary
	}

	var infos []engineInfo
	for _, name := range slices.Sorted(slices.Values(engine.Available())) {
		info := engineInfo{Name: name, Active: name == active}
		if name == engine.NameNative {
			info.Library = native.LibraryFileName(runtime.GOOS, lib)
			info.LibraryLoaded = native.DefaultLoader().Loaded(lib)
		}
		infos = append(infos, info)
	}

	encoded, err := o.encode(w, infos)
	if err != nil {
		return err
	}
	if !encoded {
		renderEngines(w, infos)
	}
	if active == "" {
		return errNoEngine
	}
	return nil
}

func renderEngines(w io.Writer, infos []engineInfo) {
	table := tablewriter.NewWriter(w)
	table.Header("Engine", "Active", "Library", "Loaded")
	for _, info := range infos {
		library, loaded := "-", "-"
		if info.Library != "" {
			library, loaded = info.Library, strconv.FormatBool(info.LibraryLoaded)
		}
		table.Append([]string{info.Name, strconv.FormatBool(info.Active), library, loaded})
	}
	table.Render()
}
