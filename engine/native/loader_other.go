//go:build !darwin && !freebsd && !linux && !windows

package native

type systemOpener struct{}

func (systemOpener) Open(string) (uintptr, error) {
	return 0, ErrUnsupportedPlatform
}

func registerFunc(any, uintptr, string) error {
	return ErrUnsupportedPlatform
}
