package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetState() {
	CloseAll()
	logsDir = ""
	enabled = false
	logLevel = LevelInfo
}

func TestInitialize_DisabledByDefault(t *testing.T) {
	defer resetState()

	dir := t.TempDir()
	if err := Initialize(dir, Options{Debug: false}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if Enabled() {
		t.Error("logging enabled without debug mode")
	}

	// Calls must be silent no-ops.
	Verify("this goes nowhere")
	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Error("logs directory created while disabled")
	}
}

func TestInitialize_DebugWritesCategoryFiles(t *testing.T) {
	defer resetState()

	dir := t.TempDir()
	if err := Initialize(dir, Options{Debug: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !Enabled() {
		t.Fatal("debug mode did not enable logging")
	}

	Verify("evaluation started")
	VerifyDebug("detail %d", 42)
	Shell("ran something")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	if err != nil {
		t.Fatalf("logs dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, " ")
	for _, want := range []string{"verify", "shell", "boot"} {
		if !strings.Contains(joined, want) {
			t.Errorf("no %s log file in %v", want, names)
		}
	}

	for _, e := range entries {
		if strings.Contains(e.Name(), "verify") {
			data, _ := os.ReadFile(filepath.Join(dir, "logs", e.Name()))
			if !strings.Contains(string(data), "evaluation started") {
				t.Error("info line missing from verify log")
			}
			if !strings.Contains(string(data), "detail 42") {
				t.Error("debug line missing at debug level")
			}
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	defer resetState()

	dir := t.TempDir()
	if err := Initialize(dir, Options{Debug: true, Level: "warn"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Get(CategoryLesson).Debug("hidden")
	Get(CategoryLesson).Info("also hidden")
	Get(CategoryLesson).Warn("visible warning")
	CloseAll()

	entries, _ := os.ReadDir(filepath.Join(dir, "logs"))
	for _, e := range entries {
		if !strings.Contains(e.Name(), "lesson") {
			continue
		}
		data, _ := os.ReadFile(filepath.Join(dir, "logs", e.Name()))
		if strings.Contains(string(data), "hidden") {
			t.Error("filtered levels were written")
		}
		if !strings.Contains(string(data), "visible warning") {
			t.Error("warning missing at warn level")
		}
	}
}

func TestInitialize_RequiresStateDir(t *testing.T) {
	defer resetState()
	if err := Initialize("", Options{Debug: true}); err == nil {
		t.Error("expected an error for an empty state dir")
	}
}

func TestTimer(t *testing.T) {
	defer resetState()
	if d := StartTimer(CategoryShell, "op").Stop(); d < 0 {
		t.Error("negative duration")
	}
}
