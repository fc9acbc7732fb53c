// Package main is the entry point for the academy server and CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "academy",
	Short: "academy - HTAgency Academy course catalog",
	Long: `academy serves the HTAgency Academy course catalog and manages
visitor favorites from the command line.

Courses come from an embedded catalog (override with --catalog).
Favorites live in a SQLite database, one scope per visitor cookie.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = loadConfig(cmd)
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.Env, cfg.LogLevel))
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var (
	flagDB       string
	flagCatalog  string
	flagLogLevel string
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("academy version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (env ACADEMY_DB)")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "catalog YAML file (env ACADEMY_CATALOG)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (env ACADEMY_LOG_LEVEL)")
}

// newLogger returns a JSON handler in production and a text handler otherwise.
func newLogger(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
