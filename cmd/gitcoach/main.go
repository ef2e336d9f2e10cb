package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gitcoach/cmd/gitcoach/tutor"
	"gitcoach/internal/config"
	"gitcoach/internal/lesson"
	"gitcoach/internal/logging"
	"gitcoach/internal/progress"
	"gitcoach/internal/sandbox"
	"gitcoach/internal/shell"
	"gitcoach/internal/verify"
	"gitcoach/internal/watch"
)

var (
	// Global flags
	configPath string
	verbose    bool
	lessonDirs []string
	noProgress bool

	// Logger for non-interactive subcommands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gitcoach [lesson]",
	Short: "gitcoach - learn git in your terminal",
	Long: `gitcoach teaches terminal and git workflows through short interactive
lessons. Each lesson runs in a disposable sandbox directory: you type real
commands, gitcoach inspects the real repository state and tells you how
you are doing.

Run without arguments to start the next unfinished lesson, or name a
lesson to start it directly. See "gitcoach lessons" for the list.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive tutor has its own UI; zap is for the plain
		// subcommands.
		if cmd.Name() == "gitcoach" {
			return nil
		}
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return runTutor(cmd.Context(), name)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.gitcoach/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringArrayVar(&lessonDirs, "lessons-dir", nil, "extra directory with lesson YAML files (repeatable)")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not record progress")

	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers flags over the config file over defaults.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Debug = true
		cfg.Logging.Level = "debug"
	}
	cfg.Lessons.Dirs = append(cfg.Lessons.Dirs, lessonDirs...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadLessons(ctx context.Context, cfg *config.Config) ([]lesson.Lesson, error) {
	loadCtx, cancel := context.WithTimeout(ctx, cfg.GetLoadTimeout())
	defer cancel()

	lessons, err := lesson.Load(loadCtx, cfg.Lessons.Dirs...)
	if err != nil {
		if len(lessons) == 0 {
			return nil, err
		}
		// Some files were skipped; the valid lessons still run.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return lessons, nil
}

func runTutor(ctx context.Context, name string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Initialize(cfg.State.Dir, logging.Options{Debug: cfg.Logging.Debug, Level: cfg.Logging.Level}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", err)
	}
	defer logging.CloseAll()
	logging.Boot("gitcoach starting, state dir %s", cfg.State.Dir)

	lessons, err := loadLessons(ctx, cfg)
	if err != nil {
		return err
	}

	var store *progress.Store
	if !noProgress {
		store, err = progress.NewStore(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("open progress store: %w", err)
		}
		defer store.Close()
	}

	chosen, err := pickLesson(lessons, name, store)
	if err != nil {
		return err
	}

	runner := shell.NewLocalRunnerWithConfig(shell.Config{
		DefaultTimeout: cfg.GetExecutionTimeout(),
		MaxTimeout:     cfg.GetMaxTimeout(),
		MaxOutputBytes: cfg.Execution.MaxOutputBytes,
		AllowedEnv:     cfg.Execution.AllowedEnvVars,
	})

	sb, err := sandbox.New(cfg.Sandbox.Root, runner)
	if err != nil {
		return err
	}
	if cfg.Sandbox.CleanupOnExit {
		defer sb.Cleanup()
	} else {
		defer fmt.Printf("sandbox kept at %s\n", sb.Dir())
	}

	var watcher *watch.SandboxWatcher
	if cfg.UI.WatchSandbox {
		watcher, err = watch.NewSandboxWatcher(sb.Dir(), cfg.GetWatchDebounce())
		if err != nil {
			logging.Boot("Sandbox watcher unavailable: %v", err)
		} else if err := watcher.Start(ctx); err != nil {
			logging.Boot("Sandbox watcher failed to start: %v", err)
			watcher = nil
		}
		if watcher != nil {
			defer watcher.Stop()
		}
	}

	var session *progress.Session
	if store != nil {
		if session, err = store.StartSession(chosen.Name); err != nil {
			logging.Boot("Failed to start session: %v", err)
		}
	}

	model := tutor.New(tutor.Config{
		Lesson:          chosen,
		Sandbox:         sb,
		Engine:          verify.NewEngine(verify.WithRunner(runner), verify.WithDebug(cfg.Logging.Debug)),
		Store:           store,
		Watcher:         watcher,
		Session:         session,
		AttemptsPerStep: cfg.UI.AttemptsPerStep,
		SetupTimeout:    cfg.GetSetupTimeout(),
		MarkdownStyle:   cfg.UI.MarkdownStyle,
	})

	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// pickLesson resolves which lesson to run: the named one, or the first
// lesson with unfinished steps, or the first lesson.
func pickLesson(lessons []lesson.Lesson, name string, store *progress.Store) (lesson.Lesson, error) {
	if len(lessons) == 0 {
		return lesson.Lesson{}, fmt.Errorf("no lessons available")
	}
	if name != "" {
		l, ok := lesson.Find(lessons, name)
		if !ok {
			return lesson.Lesson{}, fmt.Errorf("unknown lesson %q; run \"gitcoach lessons\" for the list", name)
		}
		return l, nil
	}
	if store != nil {
		for _, l := range lessons {
			results, err := store.StepResults(l.Name)
			if err != nil {
				break
			}
			passed := 0
			for _, r := range results {
				if r.Passed {
					passed++
				}
			}
			if passed < len(l.Steps) {
				return l, nil
			}
		}
	}
	return lessons[0], nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
