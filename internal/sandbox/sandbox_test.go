package sandbox

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"gitcoach/internal/shell"
)

func TestNewAndCleanup(t *testing.T) {
	root := t.TempDir()
	sb, err := New(root, shell.NewLocalRunner())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := sb.Dir()
	if !strings.HasPrefix(dir, root) {
		t.Errorf("sandbox %q not under root %q", dir, root)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("sandbox dir missing: %v", err)
	}

	if err := sb.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("sandbox dir survived cleanup")
	}
	// Cleanup is safe to call twice.
	if err := sb.Cleanup(); err != nil {
		t.Errorf("second Cleanup: %v", err)
	}
}

func TestNew_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "deeper", "root")
	sb, err := New(root, shell.NewLocalRunner())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer sb.Cleanup()
	if !strings.HasPrefix(sb.Dir(), root) {
		t.Errorf("sandbox %q not under %q", sb.Dir(), root)
	}
}

func TestSetup_RunsCommandsInOrder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell commands differ on windows")
	}
	sb, err := New(t.TempDir(), shell.NewLocalRunner())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer sb.Cleanup()

	err = sb.Setup(context.Background(), []string{
		"echo first > order.txt",
		"echo second >> order.txt",
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(sb.Dir(), "order.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("order.txt = %q", data)
	}
}

func TestSetup_FailureAborts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell commands differ on windows")
	}
	sb, err := New(t.TempDir(), shell.NewLocalRunner())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer sb.Cleanup()

	err = sb.Setup(context.Background(), []string{
		"exit 1",
		"touch never.txt",
	}, 5*time.Second)
	if err == nil {
		t.Fatal("expected setup failure")
	}
	if _, statErr := os.Stat(filepath.Join(sb.Dir(), "never.txt")); !os.IsNotExist(statErr) {
		t.Error("commands after a failed setup step must not run")
	}
}

func TestExec_RunsInSandboxDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pwd not available")
	}
	sb, err := New(t.TempDir(), shell.NewLocalRunner())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer sb.Cleanup()

	res, err := sb.Exec(context.Background(), "pwd")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	got := strings.TrimSpace(res.Stdout)
	want, _ := filepath.EvalSymlinks(sb.Dir())
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}
