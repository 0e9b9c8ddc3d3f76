package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

// stubEngine implements only what the registry touches.
type stubEngine struct {
	Engine
	name    string
	initErr error
	inits   *int
}

func (s *stubEngine) Name() string { return s.name }

func (s *stubEngine) Init() error {
	if s.inits != nil {
		*s.inits++
	}
	return s.initErr
}

// isolateRegistry swaps in an empty registry for the duration of the test.
func isolateRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := engines
	engines = make(map[string]Factory)
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		engines = saved
		registryMu.Unlock()
	})
}

func TestRegisterGet(t *testing.T) {
	isolateRegistry(t)

	Register("stub", func() Engine { return &stubEngine{name: "stub"} })

	if !IsRegistered("stub") {
		t.Fatal("IsRegistered(stub) = false")
	}
	if e := Get("stub"); e == nil || e.Name() != "stub" {
		t.Errorf("Get(stub) = %v, want stub engine", e)
	}
	if e := Get("missing"); e != nil {
		t.Errorf("Get(missing) = %v, want nil", e)
	}
	if got := Available(); !slices.Equal(got, []string{"stub"}) {
		t.Errorf("Available() = %v, want [stub]", got)
	}

	Unregister("stub")
	if IsRegistered("stub") {
		t.Error("IsRegistered(stub) after Unregister = true")
	}
}

func TestOpenUnknown(t *testing.T) {
	isolateRegistry(t)

	if _, err := Open("nope"); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("Open(nope) error = %v, want ErrNotAvailable", err)
	}
}

func TestOpenDefaultPriority(t *testing.T) {
	isolateRegistry(t)

	Register(NameSoftware, func() Engine { return &stubEngine{name: NameSoftware} })
	Register(NameNative, func() Engine { return &stubEngine{name: NameNative} })

	e, err := OpenDefault()
	if err != nil {
		t.Fatalf("OpenDefault() error = %v", err)
	}
	if e.Name() != NameNative {
		t.Errorf("OpenDefault() = %q, want %q", e.Name(), NameNative)
	}
}

func TestOpenDefaultFallsBack(t *testing.T) {
	isolateRegistry(t)

	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	nativeInits := 0
	Register(NameNative, func() Engine {
		return &stubEngine{name: NameNative, initErr: errors.New("no library"), inits: &nativeInits}
	})
	Register(NameSoftware, func() Engine { return &stubEngine{name: NameSoftware} })

	e, err := OpenDefault()
	if err != nil {
		t.Fatalf("OpenDefault() error = %v", err)
	}
	if e.Name() != NameSoftware {
		t.Errorf("OpenDefault() = %q, want %q", e.Name(), NameSoftware)
	}
	if nativeInits != 1 {
		t.Errorf("native Init called %d times, want 1", nativeInits)
	}
	if !strings.Contains(buf.String(), "falling back") {
		t.Errorf("expected fallback warning, got: %s", buf.String())
	}
}

func TestOpenDefaultNoneWork(t *testing.T) {
	isolateRegistry(t)

	Register("custom", func() Engine {
		return &stubEngine{name: "custom", initErr: errors.New("broken")}
	})

	if _, err := OpenDefault(); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("OpenDefault() error = %v, want ErrNotAvailable", err)
	}
}

func TestHandleValid(t *testing.T) {
	if InvalidHandle.Valid() {
		t.Error("InvalidHandle.Valid() = true")
	}
	if !Handle(1).Valid() {
		t.Error("Handle(1).Valid() = false")
	}
}
