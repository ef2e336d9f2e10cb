// Package sandbox manages throwaway working directories for lessons.
// Each lesson runs in its own temp directory so a learner can wreck a
// practice repository without consequence.
package sandbox

import (
	"context"
	"fmt"
	"os"
	"time"

	"gitcoach/internal/logging"
	"gitcoach/internal/shell"
)

// Sandbox is a disposable working directory for one lesson session.
type Sandbox struct {
	dir    string
	runner shell.Runner
}

// New creates a fresh sandbox directory. root may be empty, in which case
// the system temp directory is used.
func New(root string, runner shell.Runner) (*Sandbox, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, fmt.Errorf("create sandbox root: %w", err)
		}
	}
	dir, err := os.MkdirTemp(root, "gitcoach-*")
	if err != nil {
		return nil, fmt.Errorf("create sandbox: %w", err)
	}
	logging.Sandbox("Created sandbox %s", dir)
	return &Sandbox{dir: dir, runner: runner}, nil
}

// Dir returns the sandbox working directory.
func (s *Sandbox) Dir() string { return s.dir }

// Setup runs lesson setup commands in order inside the sandbox. Setup
// commands are authored with the lessons, not typed by the learner, so a
// failure aborts the lesson rather than becoming a gentle hint.
func (s *Sandbox) Setup(ctx context.Context, commands []string, timeout time.Duration) error {
	for _, line := range commands {
		cmd := shell.UserCommand(line, s.dir)
		cmd.Timeout = timeout
		res, err := s.runner.Run(ctx, cmd)
		if err != nil {
			return fmt.Errorf("setup command %q: %w", line, err)
		}
		if !res.Succeeded() {
			logging.Sandbox("Setup command failed in %s: %q exit=%d err=%q", s.dir, line, res.ExitCode, res.Err)
			return fmt.Errorf("setup command %q failed (exit %d): %s", line, res.ExitCode, res.Output())
		}
		logging.Sandbox("Setup: %q ok (%s)", line, res.Duration)
	}
	return nil
}

// Exec runs a learner-typed command line in the sandbox through the
// platform shell and returns the outcome for display.
func (s *Sandbox) Exec(ctx context.Context, line string) (*shell.Result, error) {
	return s.runner.Run(ctx, shell.UserCommand(line, s.dir))
}

// Cleanup removes the sandbox directory and everything in it.
func (s *Sandbox) Cleanup() error {
	if s.dir == "" {
		return nil
	}
	logging.Sandbox("Removing sandbox %s", s.dir)
	err := os.RemoveAll(s.dir)
	s.dir = ""
	return err
}
