package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"gitcoach/internal/logging"
)

// LocalRunner executes commands directly on the host using os/exec.
type LocalRunner struct {
	config Config
}

// NewLocalRunner creates a runner with default config.
func NewLocalRunner() *LocalRunner {
	return NewLocalRunnerWithConfig(DefaultConfig())
}

// NewLocalRunnerWithConfig creates a runner with custom config.
func NewLocalRunnerWithConfig(config Config) *LocalRunner {
	logging.ShellDebug("Creating LocalRunner: timeout=%s, maxOutput=%d bytes",
		config.DefaultTimeout, config.MaxOutputBytes)
	return &LocalRunner{config: config}
}

// Run executes a command on the host and captures its outcome.
// The returned error is non-nil only for invalid commands; runtime
// failures (spawn errors, timeouts, non-zero exits) are reported
// through the Result so callers can distinguish them.
func (r *LocalRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("binary is required")
	}

	if cmd.Dir == "" {
		cmd.Dir = r.config.DefaultDir
	}
	timeout := r.config.DefaultTimeout
	if cmd.Timeout > 0 {
		timeout = cmd.Timeout
	}
	if r.config.MaxTimeout > 0 && timeout > r.config.MaxTimeout {
		timeout = r.config.MaxTimeout
	}

	logging.Shell("Executing: %s (dir=%s, timeout=%s)", cmd.String(), cmd.Dir, timeout)

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	execCmd := exec.CommandContext(execCtx, cmd.Binary, cmd.Args...)
	execCmd.Dir = cmd.Dir
	execCmd.Env = r.buildEnvironment(cmd.Env)
	if cmd.Stdin != "" {
		execCmd.Stdin = strings.NewReader(cmd.Stdin)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	stdoutLimited := &limitedWriter{w: &stdoutBuf, max: r.config.MaxOutputBytes}
	stderrLimited := &limitedWriter{w: &stderrBuf, max: r.config.MaxOutputBytes}
	execCmd.Stdout = stdoutLimited
	execCmd.Stderr = stderrLimited

	start := time.Now()
	err := execCmd.Run()

	result := &Result{
		ExitCode: -1,
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}
	if stdoutLimited.truncated || stderrLimited.truncated {
		result.Truncated = true
		logging.ShellWarn("Output truncated for: %s", cmd.String())
	}

	switch {
	case err == nil:
		result.ExitCode = 0
		logging.ShellDebug("Command succeeded: %s (%s)", cmd.Binary, result.Duration)
	case execCtx.Err() == context.DeadlineExceeded:
		result.TimedOut = true
		result.Err = fmt.Sprintf("timed out after %s", timeout)
		logging.ShellWarn("Command killed (timeout %s): %s", timeout, cmd.String())
	case execCtx.Err() == context.Canceled:
		result.TimedOut = true
		result.Err = "canceled"
		logging.ShellDebug("Command canceled: %s", cmd.Binary)
	default:
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			logging.ShellDebug("Command exited non-zero: %s -> %d", cmd.Binary, result.ExitCode)
		} else {
			result.Err = err.Error()
			logging.ShellError("Command failed to start: %s - %v", cmd.Binary, err)
		}
	}

	return result, nil
}

// buildEnvironment filters the host environment down to the allowed
// pass-through set and appends command-specific variables.
func (r *LocalRunner) buildEnvironment(cmdEnv []string) []string {
	env := make([]string, 0, len(r.config.AllowedEnv)+len(cmdEnv))
	for _, key := range r.config.AllowedEnv {
		if val := os.Getenv(key); val != "" {
			env = append(env, key+"="+val)
		}
	}
	return append(env, cmdEnv...)
}

// UserCommand wraps a user-typed command line for execution through the
// platform shell, so pipes and redirects work the way a terminal lesson
// expects.
func UserCommand(line, dir string) Command {
	if runtime.GOOS == "windows" {
		return Command{Binary: "cmd", Args: []string{"/C", line}, Dir: dir}
	}
	return Command{Binary: "sh", Args: []string{"-c", line}, Dir: dir}
}

// limitedWriter is an io.Writer that silently drops bytes past max.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.written >= lw.max {
		lw.truncated = true
		return n, nil
	}
	if remaining := lw.max - lw.written; int64(n) > remaining {
		lw.truncated = true
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err // report full length to avoid short-write errors
	}
	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
