package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all gitcoach configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// State directory for logs, progress and sandboxes
	State StateConfig `yaml:"state"`

	// Lesson loading
	Lessons LessonsConfig `yaml:"lessons"`

	// Sandbox lifecycle
	Sandbox SandboxConfig `yaml:"sandbox"`

	// Command execution
	Execution ExecutionConfig `yaml:"execution"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// StateConfig locates the per-user state directory.
type StateConfig struct {
	Dir          string `yaml:"dir"`
	DatabaseFile string `yaml:"database_file"`
}

// LessonsConfig configures where lessons come from.
type LessonsConfig struct {
	// Extra directories scanned for lesson YAML files, on top of the
	// built-in lessons compiled into the binary.
	Dirs []string `yaml:"dirs"`

	// Timeout for loading the whole lesson set.
	LoadTimeout string `yaml:"load_timeout"`
}

// SandboxConfig configures practice-repository sandboxes.
type SandboxConfig struct {
	// Parent directory for sandbox checkouts. Empty means the system
	// temp directory.
	Root string `yaml:"root"`

	// Remove sandboxes on session end.
	CleanupOnExit bool `yaml:"cleanup_on_exit"`

	// Timeout for each lesson setup command.
	SetupTimeout string `yaml:"setup_timeout"`
}

// ExecutionConfig configures the command runner.
type ExecutionConfig struct {
	// Default timeout for learner commands and git introspection.
	DefaultTimeout string `yaml:"default_timeout"`

	// Hard cap regardless of per-command requests.
	MaxTimeout string `yaml:"max_timeout"`

	// Per-stream capture cap in bytes.
	MaxOutputBytes int64 `yaml:"max_output_bytes"`

	// Environment variables passed through to child processes.
	AllowedEnvVars []string `yaml:"allowed_env_vars"`
}

// UIConfig configures the interactive tutor.
type UIConfig struct {
	// Attempts per step before the hint is shown automatically.
	AttemptsPerStep int `yaml:"attempts_per_step"`

	// Glamour style used for instruction rendering.
	MarkdownStyle string `yaml:"markdown_style"`

	// Re-verify automatically when the sandbox changes on disk.
	WatchSandbox bool `yaml:"watch_sandbox"`

	// Quiet period after a filesystem event before re-verifying.
	WatchDebounce string `yaml:"watch_debounce"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Debug bool   `yaml:"debug"`
}

// DefaultStateDir returns ~/.gitcoach, falling back to a relative
// directory when the home directory cannot be determined.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitcoach"
	}
	return filepath.Join(home, ".gitcoach")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "gitcoach",
		Version: "1.0.0",

		State: StateConfig{
			Dir:          DefaultStateDir(),
			DatabaseFile: "progress.db",
		},

		Lessons: LessonsConfig{
			LoadTimeout: "10s",
		},

		Sandbox: SandboxConfig{
			CleanupOnExit: true,
			SetupTimeout:  "30s",
		},

		Execution: ExecutionConfig{
			DefaultTimeout: "10s",
			MaxTimeout:     "2m",
			MaxOutputBytes: 1 << 20,
			AllowedEnvVars: []string{
				"PATH", "HOME", "USER", "SHELL", "TERM", "LANG", "LC_ALL", "TMPDIR",
				"GIT_AUTHOR_NAME", "GIT_AUTHOR_EMAIL", "GIT_COMMITTER_NAME", "GIT_COMMITTER_EMAIL",
			},
		},

		UI: UIConfig{
			AttemptsPerStep: 3,
			MarkdownStyle:   "auto",
			WatchSandbox:    true,
			WatchDebounce:   "400ms",
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, layered over defaults.
// A missing file is not an error: defaults plus environment overrides
// apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// DefaultPath returns the default config file location inside the state
// directory.
func DefaultPath() string {
	return filepath.Join(DefaultStateDir(), "config.yaml")
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("GITCOACH_STATE_DIR"); dir != "" {
		c.State.Dir = dir
	}
	if dirs := os.Getenv("GITCOACH_LESSONS_DIR"); dirs != "" {
		c.Lessons.Dirs = append(c.Lessons.Dirs, filepath.SplitList(dirs)...)
	}
	if root := os.Getenv("GITCOACH_SANDBOX_ROOT"); root != "" {
		c.Sandbox.Root = root
	}
	if os.Getenv("GITCOACH_DEBUG") != "" {
		c.Logging.Debug = true
		c.Logging.Level = "debug"
	}
}

// DatabasePath returns the absolute path of the progress database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.State.Dir, c.State.DatabaseFile)
}

// GetExecutionTimeout returns the default execution timeout as a duration.
func (c *Config) GetExecutionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.DefaultTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetMaxTimeout returns the execution timeout cap as a duration.
func (c *Config) GetMaxTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.MaxTimeout)
	if err != nil {
		return 2 * time.Minute
	}
	return d
}

// GetSetupTimeout returns the sandbox setup timeout as a duration.
func (c *Config) GetSetupTimeout() time.Duration {
	d, err := time.ParseDuration(c.Sandbox.SetupTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetLoadTimeout returns the lesson load timeout as a duration.
func (c *Config) GetLoadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Lessons.LoadTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetWatchDebounce returns the filesystem watch debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.UI.WatchDebounce)
	if err != nil {
		return 400 * time.Millisecond
	}
	return d
}

// Validate checks the configuration for values the tutor cannot run with.
func (c *Config) Validate() error {
	if c.State.Dir == "" {
		return fmt.Errorf("state directory not configured")
	}
	if c.UI.AttemptsPerStep < 1 {
		return fmt.Errorf("attempts_per_step must be at least 1, got %d", c.UI.AttemptsPerStep)
	}
	if c.Execution.MaxOutputBytes <= 0 {
		return fmt.Errorf("max_output_bytes must be positive, got %d", c.Execution.MaxOutputBytes)
	}
	return nil
}
