//go:build windows

package native

import (
	"fmt"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

type systemOpener struct{}

func (systemOpener) Open(file string) (uintptr, error) {
	h, err := windows.LoadLibrary(file)
	if err != nil {
		return 0, err
	}
	return uintptr(h), nil
}

// registerFunc binds fptr to the exported symbol name of lib.
func registerFunc(fptr any, lib uintptr, name string) (err error) {
	if _, err := windows.GetProcAddress(windows.Handle(lib), name); err != nil {
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
