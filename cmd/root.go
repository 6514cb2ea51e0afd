package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizfeed/internal/config"
	"github.com/abhisek/quizfeed/internal/logging"
	"github.com/abhisek/quizfeed/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizfeed",
	Short: "Terminal quiz over an unreliable JSON feed",
	Long: `quizfeed fetches multiple-choice questions from a remote feed, recovers
them even when the payload is malformed JSON, and runs a timed quiz in the
terminal.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, playFlags{})
	},
}

// flushLog is replaced once logging is configured.
var flushLog = func() {}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	defer func() { flushLog() }()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZFEED_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides QUIZFEED_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(serveFixtureCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the effective config and starts the file logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	done, err := logging.Setup(cfg.Log)
	if err != nil {
		return config.Config{}, err
	}
	flushLog = done
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZFEED_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

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
