// Package shell is the execution layer of gitcoach. It runs user-typed
// commands and the tutor's own git introspection commands against a working
// directory, under a fixed timeout, and reports structured results.
//
// Design principles:
//   - No validation by command text: callers inspect resulting state, not
//     what was typed.
//   - A command that runs and exits non-zero is a normal outcome, reported
//     through ExitCode. Spawn failures and timeouts are a different class
//     of outcome, reported through Err/TimedOut.
//   - Output capture is byte-capped so a runaway command cannot exhaust
//     memory.
package shell

import (
	"context"
	"time"
)

// Command describes one subprocess invocation.
type Command struct {
	// Binary is the executable to run (e.g. "git", "sh").
	Binary string `json:"binary"`

	// Args are the command-line arguments.
	Args []string `json:"args"`

	// Dir is the working directory. If empty, the runner's default is used.
	Dir string `json:"dir,omitempty"`

	// Env holds extra environment variables in KEY=VALUE form. They are
	// merged with the runner's allowed pass-through environment.
	Env []string `json:"env,omitempty"`

	// Stdin provides input to the command's standard input.
	Stdin string `json:"stdin,omitempty"`

	// Timeout overrides the runner's default timeout when positive.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// String returns the command as a display string.
func (c Command) String() string {
	s := c.Binary
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// Result is the structured outcome of running one command.
type Result struct {
	// ExitCode is the command's exit status (-1 if it never ran or was
	// killed before exiting).
	ExitCode int `json:"exit_code"`

	// Stdout and Stderr are the captured output streams.
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`

	// Duration is how long the command ran.
	Duration time.Duration `json:"duration"`

	// TimedOut reports that the command was killed by the timeout.
	TimedOut bool `json:"timed_out"`

	// Truncated reports that output exceeded the byte cap and was dropped.
	Truncated bool `json:"truncated"`

	// Err holds a spawn-level failure message (binary missing, fork
	// failure). Empty for commands that ran, whatever their exit status.
	Err string `json:"err,omitempty"`
}

// Ran reports whether the process actually started and exited on its own.
func (r *Result) Ran() bool {
	return r.Err == "" && !r.TimedOut
}

// Succeeded reports a clean zero-exit run.
func (r *Result) Succeeded() bool {
	return r.Ran() && r.ExitCode == 0
}

// Output returns stdout and stderr joined for display.
func (r *Result) Output() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// Runner executes commands. The tutor uses one implementation backed by
// os/exec; tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// Config holds runner-level defaults.
type Config struct {
	// DefaultDir is used when Command.Dir is empty.
	DefaultDir string `json:"default_dir"`

	// DefaultTimeout bounds commands that carry no timeout of their own.
	DefaultTimeout time.Duration `json:"default_timeout"`

	// MaxTimeout caps all timeouts, including per-command overrides.
	MaxTimeout time.Duration `json:"max_timeout"`

	// MaxOutputBytes caps captured stdout and stderr, each.
	MaxOutputBytes int64 `json:"max_output_bytes"`

	// AllowedEnv lists environment variables passed through from the
	// tutor's own environment.
	AllowedEnv []string `json:"allowed_env"`
}

// DefaultConfig returns sensible runner defaults.
func DefaultConfig() Config {
	return Config{
		DefaultDir:     ".",
		DefaultTimeout: 10 * time.Second,
		MaxTimeout:     2 * time.Minute,
		MaxOutputBytes: 1 << 20, // 1MB is plenty for lesson output
		AllowedEnv: []string{
			"PATH", "HOME", "USER", "LANG", "LC_ALL", "TERM",
			"GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL",
			"GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL",
		},
	}
}
