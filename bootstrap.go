package pag

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/pag/engine"
	"github.com/gogpu/pag/engine/native"
	"github.com/gogpu/pag/internal/refcache"

	// Registers the headless engine as the fallback.
	_ "github.com/gogpu/pag/engine/software"
)

// process is the once-per-process state: the resolved engine, the
// per-type initialization results and the shared document caches.
type process struct {
	engineOnce sync.Once
	done       atomic.Bool
	eng        engine.Engine
	engineErr  error

	fileOnce sync.Once
	fileErr  error

	surfaceOnce sync.Once
	surfaceErr  error

	// paths shares one parsed document among files loaded from the same path.
	paths *refcache.Cache[string, engine.Handle]
	// docs counts the files sharing a document loaded from bytes.
	docs *refcache.Cache[engine.Handle, engine.Handle]

	liveFiles    atomic.Int64
	liveSurfaces atomic.Int64
}

var proc = newProcess()

func newProcess() *process {
	p := &process{}
	p.paths = refcache.New[string, engine.Handle](refcache.StringHasher, func(path string, doc engine.Handle) {
		p.releaseDocument(doc)
		Logger().Debug("pag: document evicted", "path", path)
	})
	p.docs = refcache.New[engine.Handle, engine.Handle](refcache.UintHasher[engine.Handle], func(_ engine.Handle, doc engine.Handle) {
		p.releaseDocument(doc)
	})
	return p
}

func (p *process) releaseDocument(doc engine.Handle) {
	if p.eng != nil {
		p.eng.ReleaseDocument(doc)
	}
}

func (p *process) resolved() bool {
	return p.done.Load()
}

// engine resolves the process engine on first use. A failure is sticky.
func (p *process) engine() (engine.Engine, error) {
	p.engineOnce.Do(func() {
		defer p.done.Store(true)
		p.eng, p.engineErr = openEngine(currentConfig())
		if p.engineErr != nil {
			Logger().Error("pag: no engine available", "err", p.engineErr)
			return
		}
		Logger().Info("pag: engine ready", "engine", p.eng.Name())
	})
	return p.eng, p.engineErr
}

// fileEngine returns the engine once the file bindings are ready.
func (p *process) fileEngine() (engine.Engine, error) {
	eng, err := p.engine()
	if err != nil {
		return nil, err
	}
	p.fileOnce.Do(func() {
		if p.fileErr = eng.InitFile(); p.fileErr != nil {
			Logger().Error("pag: file initialization failed", "engine", eng.Name(), "err", p.fileErr)
		}
	})
	return eng, p.fileErr
}

// surfaceEngine returns the engine once the surface bindings are ready.
func (p *process) surfaceEngine() (engine.Engine, error) {
	eng, err := p.engine()
	if err != nil {
		return nil, err
	}
	p.surfaceOnce.Do(func() {
		if p.surfaceErr = eng.InitSurface(); p.surfaceErr != nil {
			Logger().Error("pag: surface initialization failed", "engine", eng.Name(), "err", p.surfaceErr)
		}
	})
	return eng, p.surfaceErr
}

// openEngine applies the selection rules: an explicit instance wins, then a
// native library override, then a named engine, then registry priority.
func openEngine(c config) (engine.Engine, error) {
	if c.instance != nil {
		if err := c.instance.Init(); err != nil {
			return nil, fmt.Errorf("pag: engine %q: %w", c.instance.Name(), err)
		}
		return c.instance, nil
	}

	if c.library != "" && (c.engineName == "" || c.engineName == engine.NameNative) {
		e := native.New(native.WithLibrary(c.library))
		err := e.Init()
		if err == nil {
			return e, nil
		}
		if c.engineName == engine.NameNative {
			return nil, err
		}
		Logger().Warn("pag: falling back", "from", engine.NameNative, "library", c.library, "err", err)
		return engine.Open(engine.NameSoftware)
	}

	if c.engineName != "" {
		return engine.Open(c.engineName)
	}
	return engine.OpenDefault()
}

// Engine returns the name of the resolved engine, resolving it if needed.
// It returns "" when no engine could be initialized.
func Engine() string {
	eng, err := proc.engine()
	if err != nil {
		return ""
	}
	return eng.Name()
}
