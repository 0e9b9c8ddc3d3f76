// Command paginfo inspects PAG documents and probes offscreen surfaces.
//
// Usage:
//
//	paginfo info intro.pag outro.pag
//	paginfo info --output yaml --stats intro.pag
//	paginfo surface --width 1920 --height 1080
//	paginfo sample --width 640 --height 480 sample.pag
//
// The engine is chosen with --engine or PAG_ENGINE; --library or
// PAG_LIBRARY locates the native shim. Both may also come from the file
// given with --config.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
