//go:build darwin || freebsd || linux

package native

import (
	"fmt"

	"github.com/ebitengine/purego"
)

type systemOpener struct{}

func (systemOpener) Open(file string) (uintptr, error) {
	return purego.Dlopen(file, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// registerFunc binds fptr to the exported symbol name of lib.
func registerFunc(fptr any, lib uintptr, name string) (err error) {
	if _, err := purego.Dlsym(lib, name); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSymbolNotFound, name, err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrSymbolNotFound, name, r)
		}
	}()
	purego.RegisterLibFunc(fptr, lib, name)
	return nil
}
