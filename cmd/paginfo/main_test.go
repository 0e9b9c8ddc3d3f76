package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// run executes paginfo with args against the headless engine.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--engine", "software"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T, args ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.pag")
	if _, err := run(t, append(append([]string{"sample"}, args...), path)...); err != nil {
		t.Fatalf("sample: %v", err)
	}
	return path
}

func TestSampleAndInfoJSON(t *testing.T) {
	path := writeSample(t, "--width", "320", "--height", "240", "--frames", "60", "--rate", "30", "--texts", "3")

	out, err := run(t, "info", "-o", "json", path)
	if err != nil {
		t.Fatalf("info: %v\n%s", err, out)
	}

	var r infoReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if r.Engine != "software" {
		t.Errorf("engine = %q", r.Engine)
	}
	if len(r.Files) != 1 {
		t.Fatalf("files = %d, want 1", len(r.Files))
	}
	f := r.Files[0]
	if f.Path != path || f.Width != 320 || f.Height != 240 || f.NumTexts != 3 || f.NumImages != 1 {
		t.Errorf("file = %+v", f)
	}
	if f.Duration != 2_000_000 {
		t.Errorf("duration = %d, want 2000000", f.Duration)
	}
	if f.TimeStretch != "repeat" {
		t.Errorf("time stretch = %q", f.TimeStretch)
	}
	if f.FrameRate != 30 || f.Children != 3 {
		t.Errorf("frame rate %v, children %d; want 30, 3", f.FrameRate, f.Children)
	}
	if f.Layers != nil {
		t.Errorf("layers listed without --layers: %+v", f.Layers)
	}
}

func TestInfoLayers(t *testing.T) {
	path := writeSample(t, "--texts", "2", "--frames", "48", "--rate", "24")

	out, err := run(t, "info", "--layers", "-o", "yaml", path)
	if err != nil {
		t.Fatalf("info: %v\n%s", err, out)
	}
	var r infoReport
	if err := yaml.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := layerInfo{Type: "text", Duration: 2_000_000}
	if len(r.Files) != 1 || len(r.Files[0].Layers) != 2 || r.Files[0].Layers[1] != want {
		t.Errorf("files = %+v", r.Files)
	}

	out, err = run(t, "info", "--layers", path)
	if err != nil {
		t.Fatalf("info table: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Layers of "+path) {
		t.Errorf("output lacks layer table:\n%s", out)
	}
}

func TestInfoTableWithStats(t *testing.T) {
	path := writeSample(t)

	out, err := run(t, "info", "--stats", path, path)
	if err != nil {
		t.Fatalf("info: %v\n%s", err, out)
	}
	for _, want := range []string{"Engine: software", "720x1280", "3s", "pag_files_live", "pag_document_cache_hits_total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestInfoMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.pag")
	out, err := run(t, "info", missing)
	if err == nil {
		t.Fatal("info succeeded for a missing file")
	}
	if !strings.Contains(out, "not loaded") {
		t.Errorf("output lacks failure row:\n%s", out)
	}
}

func TestSurfaceYAML(t *testing.T) {
	out, err := run(t, "surface", "--width", "16", "--height", "8", "-o", "yaml")
	if err != nil {
		t.Fatalf("surface: %v\n%s", err, out)
	}

	var r surfaceReport
	if err := yaml.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if r.Width != 16 || r.Height != 8 || r.Stride != 64 {
		t.Errorf("report = %+v", r)
	}
	if r.Cleared {
		t.Error("fresh surface reported as cleared")
	}
	if !r.Readback {
		t.Error("readback failed")
	}
}

func TestSurfacePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surface.png")
	out, err := run(t, "surface", "--width", "5", "--height", "4", "--png", path, "-o", "json")
	if err != nil {
		t.Fatalf("surface: %v\n%s", err, out)
	}

	var r surfaceReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if r.PNG != path {
		t.Errorf("png = %q, want %q", r.PNG, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 5 || cfg.Height != 4 {
		t.Errorf("png size = %dx%d, want 5x4", cfg.Width, cfg.Height)
	}
}

func TestSurfacePNGUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "surface.png")
	if _, err := run(t, "surface", "--png", path); err == nil {
		t.Error("surface succeeded writing into a missing directory")
	}
}

func TestEngines(t *testing.T) {
	out, err := run(t, "engines", "-o", "json")
	if err != nil {
		t.Fatalf("engines: %v\n%s", err, out)
	}

	var infos []engineInfo
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	byName := make(map[string]engineInfo)
	for _, info := range infos {
		byName[info.Name] = info
	}
	if sw, ok := byName["software"]; !ok || !sw.Active {
		t.Errorf("software = %+v, want active", sw)
	}
	nat, ok := byName["native"]
	if !ok || nat.Active {
		t.Errorf("native = %+v, want registered and inactive", nat)
	}
	if !strings.Contains(nat.Library, "pag4go") {
		t.Errorf("native library = %q", nat.Library)
	}

	out, err = run(t, "engines")
	if err != nil {
		t.Fatalf("engines table: %v\n%s", err, out)
	}
	if !strings.Contains(out, "native") || !strings.Contains(out, "software") {
		t.Errorf("table lacks engines:\n%s", out)
	}
}

func TestSurfaceInvalidSize(t *testing.T) {
	if _, err := run(t, "surface", "--width", "0"); err == nil {
		t.Error("surface accepted a zero width")
	}
}

func TestUnknownOutput(t *testing.T) {
	if _, err := run(t, "surface", "-o", "xml"); err == nil {
		t.Error("unknown output format accepted")
	}
}

func TestConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "paginfo.yaml")
	if err := os.WriteFile(cfg, []byte("engine: software\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfg, "surface", "-o", "json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("surface: %v", err)
	}
	if !strings.Contains(out.String(), `"engine": "software"`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestSampleRejectsZeroRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pag")
	if _, err := run(t, "sample", "--rate", "0", path); err == nil {
		t.Error("sample accepted a zero frame rate")
	}
}
