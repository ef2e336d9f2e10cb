package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "gitcoach" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.UI.AttemptsPerStep != 3 {
		t.Errorf("AttemptsPerStep = %d", cfg.UI.AttemptsPerStep)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
state:
  dir: /tmp/coach-state
ui:
  attempts_per_step: 5
execution:
  default_timeout: 20s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.State.Dir != "/tmp/coach-state" {
		t.Errorf("State.Dir = %q", cfg.State.Dir)
	}
	if cfg.UI.AttemptsPerStep != 5 {
		t.Errorf("AttemptsPerStep = %d", cfg.UI.AttemptsPerStep)
	}
	if got := cfg.GetExecutionTimeout(); got != 20*time.Second {
		t.Errorf("GetExecutionTimeout = %s", got)
	}
	// Untouched sections keep defaults.
	if !cfg.Sandbox.CleanupOnExit {
		t.Error("CleanupOnExit default lost")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("state: [this is not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GITCOACH_STATE_DIR", "/tmp/env-state")
	t.Setenv("GITCOACH_DEBUG", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.State.Dir != "/tmp/env-state" {
		t.Errorf("State.Dir = %q", cfg.State.Dir)
	}
	if !cfg.Logging.Debug || cfg.Logging.Level != "debug" {
		t.Errorf("debug override not applied: %+v", cfg.Logging)
	}
	if got := cfg.DatabasePath(); got != filepath.Join("/tmp/env-state", "progress.db") {
		t.Errorf("DatabasePath = %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.AttemptsPerStep = 7
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.UI.AttemptsPerStep != 7 {
		t.Errorf("AttemptsPerStep = %d after round trip", loaded.UI.AttemptsPerStep)
	}
}

func TestDurationAccessors_FallBackOnGarbage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Execution.DefaultTimeout = "not-a-duration"
	cfg.UI.WatchDebounce = ""

	if got := cfg.GetExecutionTimeout(); got != 10*time.Second {
		t.Errorf("GetExecutionTimeout fallback = %s", got)
	}
	if got := cfg.GetWatchDebounce(); got != 400*time.Millisecond {
		t.Errorf("GetWatchDebounce fallback = %s", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UI.AttemptsPerStep = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for zero attempts")
	}

	cfg = DefaultConfig()
	cfg.State.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for empty state dir")
	}
}
