package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/logging"
	"github.com/abhisek/studydesk/internal/store"
)

var closeLog = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "studydesk",
	Short: "Focus timer and AI study companion",
	Long: "StudyDesk is a terminal study desk: a focus timer with AI-tuned session lengths,\n" +
		"practice quizzes generated from your own notes, achievements and productivity stats.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = os.Getenv("STUDYDESK_LOG_LEVEL")
		}
		fn, err := logging.Setup(logging.Options{Level: level})
		if err != nil {
			return err
		}
		closeLog = fn
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command; ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYDESK_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides STUDYDESK_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("server", "", "Base URL of a studydesk server to save sessions and fetch recommendations from")

	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(materialCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then STUDYDESK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
