package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitcoach/internal/lesson"
	"gitcoach/internal/progress"
	"gitcoach/internal/verify"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "List available lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		lessons, err := loadLessons(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		var store *progress.Store
		if store, err = progress.NewStore(cfg.DatabasePath()); err == nil {
			defer store.Close()
		} else {
			logger.Warn("progress store unavailable", zap.Error(err))
			store = nil
		}

		for _, l := range lessons {
			status := ""
			if store != nil {
				if results, err := store.StepResults(l.Name); err == nil {
					passed := 0
					for _, r := range results {
						if r.Passed {
							passed++
						}
					}
					status = fmt.Sprintf("  [%d/%d]", passed, len(l.Steps))
				}
			}
			fmt.Printf("%-28s %s%s\n", l.Name, l.Title, status)
		}
		return nil
	},
}

var (
	verifyType    string
	verifyFile    string
	verifyFiles   []string
	verifyBranch  string
	verifyMessage string
	verifyContent string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [dir]",
	Short: "Run a single check against a directory",
	Long: `Evaluates one check against a working directory and prints the verdict.
Useful for trying checks while writing lessons.

Example:
  gitcoach verify --type file-staged --file README.md ~/project`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		check := verify.Check{
			Type:    verify.CheckKind(verifyType),
			File:    verifyFile,
			Files:   verifyFiles,
			Branch:  verifyBranch,
			Message: verifyMessage,
			Content: verifyContent,
		}
		logger.Debug("evaluating check",
			zap.String("type", verifyType),
			zap.String("dir", dir))

		verdict := verify.NewEngine().Evaluate(cmd.Context(), check, dir)
		if verdict.Passed {
			fmt.Printf("PASS: %s\n", verdict.Message)
		} else {
			fmt.Printf("FAIL: %s\n", verdict.Message)
		}
		for _, w := range verdict.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		if !verdict.Passed {
			os.Exit(1)
		}
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show recorded lesson progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := progress.NewStore(cfg.DatabasePath())
		if err != nil {
			return err
		}
		defer store.Close()

		sums, err := store.Summaries()
		if err != nil {
			return err
		}
		if len(sums) == 0 {
			fmt.Println("No progress recorded yet. Run \"gitcoach\" to start a lesson.")
			return nil
		}
		for _, s := range sums {
			fmt.Printf("%-28s %d/%d steps passed\n", s.Lesson, s.StepsPassed, s.StepsSeen)
		}
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset [lesson]",
	Short: "Forget recorded progress for a lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		lessons, err := loadLessons(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if _, ok := lesson.Find(lessons, args[0]); !ok {
			return fmt.Errorf("unknown lesson %q", args[0])
		}
		store, err := progress.NewStore(cfg.DatabasePath())
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Reset(args[0]); err != nil {
			return err
		}
		fmt.Printf("Progress for %q reset.\n", args[0])
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gitcoach version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gitcoach %s\n", Version)
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyType, "type", "", "check type (required)")
	verifyCmd.Flags().StringVar(&verifyFile, "file", "", "file path for single-file checks")
	verifyCmd.Flags().StringArrayVar(&verifyFiles, "files", nil, "file paths for multi-file checks (repeatable)")
	verifyCmd.Flags().StringVar(&verifyBranch, "branch", "", "branch name for branch checks")
	verifyCmd.Flags().StringVar(&verifyMessage, "message", "", "commit message substring")
	verifyCmd.Flags().StringVar(&verifyContent, "content", "", "expected file content substring")
	_ = verifyCmd.MarkFlagRequired("type")

	progressCmd.AddCommand(progressResetCmd)
}
