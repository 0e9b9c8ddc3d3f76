package pag

import (
	"testing"

	"github.com/gogpu/pag/engine/software"
)

func TestConfigureOptions(t *testing.T) {
	useConfig(t, config{})
	e := software.New()

	Configure(WithEngine("custom"), WithLibrary("/opt/libpag4go.so"), WithEngineInstance(e))
	c := currentConfig()
	if c.engineName != "custom" || c.library != "/opt/libpag4go.so" || c.instance != e {
		t.Errorf("config = %+v", c)
	}
}

func TestEnvironmentDoesNotOverrideOptions(t *testing.T) {
	t.Setenv(EnvEngine, "from-env")
	t.Setenv(EnvLibrary, "env-lib")
	useConfig(t, config{engineName: "from-option"})

	c := currentConfig()
	if c.engineName != "from-option" {
		t.Errorf("engineName = %q", c.engineName)
	}
	if c.library != "env-lib" {
		t.Errorf("library = %q", c.library)
	}
}
