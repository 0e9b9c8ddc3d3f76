package pag

import (
	"os"
	"sync"

	"github.com/gogpu/pag/engine"
)

// Environment variables read when the engine is first resolved.
const (
	// EnvEngine selects an engine by name ("native", "software").
	EnvEngine = "PAG_ENGINE"

	// EnvLibrary names the native shim module or gives its path.
	EnvLibrary = "PAG_LIBRARY"
)

// Option configures how pag resolves its engine.
// Use functional options with Configure before the first File or Surface
// is created.
//
// Example:
//
//	// Headless engine, no native module required
//	pag.Configure(pag.WithEngine("software"))
//
//	// Native shim from a custom location
//	pag.Configure(pag.WithLibrary("/opt/pag/lib/libpag4go.so"))
type Option func(*config)

// config holds the engine selection.
type config struct {
	engineName string
	library    string
	instance   engine.Engine
}

var (
	configMu sync.Mutex
	cfg      config
)

// WithEngine selects a registered engine by name. Resolution fails rather
// than falling back when the named engine cannot be initialized.
func WithEngine(name string) Option {
	return func(c *config) {
		c.engineName = name
	}
}

// WithEngineInstance uses e directly and skips the registry.
// Use this for dependency injection of a preconfigured engine.
func WithEngineInstance(e engine.Engine) Option {
	return func(c *config) {
		c.instance = e
	}
}

// WithLibrary sets the module name or path of the native shim.
func WithLibrary(name string) Option {
	return func(c *config) {
		c.library = name
	}
}

// Configure applies opts to the process-wide engine selection.
// The selection is read once, when the first File or Surface is created;
// Configure has no effect after that.
func Configure(opts ...Option) {
	configMu.Lock()
	defer configMu.Unlock()

	for _, opt := range opts {
		opt(&cfg)
	}
	if proc.resolved() {
		Logger().Warn("pag: Configure called after engine resolution; ignored")
	}
}

// currentConfig returns the configured selection with environment
// variables filling unset fields.
func currentConfig() config {
	configMu.Lock()
	c := cfg
	configMu.Unlock()

	if c.engineName == "" {
		c.engineName = os.Getenv(EnvEngine)
	}
	if c.library == "" {
		c.library = os.Getenv(EnvLibrary)
	}
	return c
}
