package pag

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/pag/engine"
	"github.com/gogpu/pag/engine/software"
	"github.com/gogpu/pag/internal/pagfmt"
)

// useConfig runs the test against fresh process state resolved from c.
func useConfig(t *testing.T, c config) *process {
	t.Helper()
	savedProc := proc
	configMu.Lock()
	savedCfg := cfg
	cfg = c
	configMu.Unlock()

	proc = newProcess()
	t.Cleanup(func() {
		proc = savedProc
		configMu.Lock()
		cfg = savedCfg
		configMu.Unlock()
	})
	return proc
}

// useSoftware runs the test against a private headless engine.
func useSoftware(t *testing.T) (*process, *software.Engine) {
	t.Helper()
	e := software.New()
	p := useConfig(t, config{instance: e})
	return p, e
}

func sampleDocument() []byte {
	return pagfmt.NewBuilder().
		Images(1).
		Composition(pagfmt.Composition{Width: 400, Height: 300, Frames: 48, FrameRate: 24, TextLayers: 2}).
		Bytes()
}

// sampleDuration is the duration of sampleDocument in microseconds.
const sampleDuration = 2_000_000

func writeSample(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, sampleDocument(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// recordingEngine wraps the headless engine and records release traffic.
type recordingEngine struct {
	*software.Engine

	mu       sync.Mutex
	calls    []string
	fileErr  error
	fileInit int
}

func (r *recordingEngine) record(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

func (r *recordingEngine) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingEngine) InitFile() error {
	r.mu.Lock()
	r.fileInit++
	r.mu.Unlock()
	if r.fileErr != nil {
		return r.fileErr
	}
	return r.Engine.InitFile()
}

func (r *recordingEngine) ReleaseDocument(doc engine.Handle) {
	r.record("ReleaseDocument")
	r.Engine.ReleaseDocument(doc)
}

func (r *recordingEngine) ReleaseFile(file engine.Handle) {
	r.record("ReleaseFile")
	r.Engine.ReleaseFile(file)
}

func (r *recordingEngine) SurfaceFreeCache(s engine.Handle) {
	r.record("SurfaceFreeCache")
	r.Engine.SurfaceFreeCache(s)
}

func (r *recordingEngine) ReleaseSurface(s engine.Handle) {
	r.record("ReleaseSurface")
	r.Engine.ReleaseSurface(s)
}

func useRecording(t *testing.T) (*process, *recordingEngine) {
	t.Helper()
	e := &recordingEngine{Engine: software.New()}
	p := useConfig(t, config{instance: e})
	return p, e
}

// waitFor runs the garbage collector until cond holds or time runs out.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
}
