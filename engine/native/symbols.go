package native

import (
	"errors"
	"fmt"
	"unsafe"
)

// binder resolves the exported symbol name of lib into the function
// variable fptr points at.
type binder func(fptr any, lib uintptr, name string) error

type symbol struct {
	name string
	fptr any
}

func bindAll(bind binder, lib uintptr, table []symbol) error {
	for _, s := range table {
		if err := bind(s.fptr, lib, s.name); err != nil {
			if errors.Is(err, ErrSymbolNotFound) {
				return err
			}
			return fmt.Errorf("%w: %s: %w", ErrSymbolNotFound, s.name, err)
		}
	}
	return nil
}

// fileSymbols is the document and file half of the pag4go shim.
type fileSymbols struct {
	maxSupportedTagLevel func() int32

	documentLoad    func(data unsafe.Pointer, length uintptr, path string) uintptr
	documentRelease func(doc uintptr)

	make               func(doc uintptr) uintptr
	release            func(file uintptr)
	tagLevel           func(file uintptr) int32
	numTexts           func(file uintptr) int32
	numImages          func(file uintptr) int32
	numVideos          func(file uintptr) int32
	width              func(file uintptr) int32
	height             func(file uintptr) int32
	path               func(file uintptr) string
	timeStretchMode    func(file uintptr) int32
	setTimeStretchMode func(file uintptr, mode int32)
	duration           func(file uintptr) int64
	setDuration        func(file uintptr, duration int64)
	frameRate          func(file uintptr) float32
	numChildren        func(file uintptr) int32
	layerType          func(file uintptr, index int32) int32
	layerName          func(file uintptr, index int32) string
	layerStartTime     func(file uintptr, index int32) int64
	layerDuration      func(file uintptr, index int32) int64
}

func (s *fileSymbols) table() []symbol {
	return []symbol{
		{"pag4go_max_supported_tag_level", &s.maxSupportedTagLevel},
		{"pag4go_document_load", &s.documentLoad},
		{"pag4go_document_release", &s.documentRelease},
		{"pag4go_file_make", &s.make},
		{"pag4go_file_release", &s.release},
		{"pag4go_file_tag_level", &s.tagLevel},
		{"pag4go_file_num_texts", &s.numTexts},
		{"pag4go_file_num_images", &s.numImages},
		{"pag4go_file_num_videos", &s.numVideos},
		{"pag4go_file_width", &s.width},
		{"pag4go_file_height", &s.height},
		{"pag4go_file_path", &s.path},
		{"pag4go_file_time_stretch_mode", &s.timeStretchMode},
		{"pag4go_file_set_time_stretch_mode", &s.setTimeStretchMode},
		{"pag4go_file_duration", &s.duration},
		{"pag4go_file_set_duration", &s.setDuration},
		{"pag4go_file_frame_rate", &s.frameRate},
		{"pag4go_file_num_children", &s.numChildren},
		{"pag4go_layer_type", &s.layerType},
		{"pag4go_layer_name", &s.layerName},
		{"pag4go_layer_start_time", &s.layerStartTime},
		{"pag4go_layer_duration", &s.layerDuration},
	}
}

// surfaceSymbols is the surface half of the pag4go shim.
type surfaceSymbols struct {
	makeOffscreen func(width, height int32) uintptr
	release       func(surface uintptr)
	width         func(surface uintptr) int32
	height        func(surface uintptr) int32
	updateSize    func(surface uintptr)
	clearAll      func(surface uintptr) bool
	freeCache     func(surface uintptr)
	readPixels    func(surface uintptr, dst unsafe.Pointer, length uintptr, stride int32) bool
}

func (s *surfaceSymbols) table() []symbol {
	return []symbol{
		{"pag4go_surface_make_offscreen", &s.makeOffscreen},
		{"pag4go_surface_release", &s.release},
		{"pag4go_surface_width", &s.width},
		{"pag4go_surface_height", &s.height},
		{"pag4go_surface_update_size", &s.updateSize},
		{"pag4go_surface_clear_all", &s.clearAll},
		{"pag4go_surface_free_cache", &s.freeCache},
		{"pag4go_surface_read_pixels", &s.readPixels},
	}
}
