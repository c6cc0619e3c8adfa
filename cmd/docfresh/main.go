// Package main provides the docfresh binary entry point.
// Docfresh audits documentation freshness on a round-robin rotation:
// each run visits the next document, rewrites its review metadata when
// stale, and picks a reviewer for the resulting change proposal.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/c360studio/docfresh/config"
	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "docfresh"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	repoPath   string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Documentation freshness auditor",
		Long: `Docfresh keeps repository documentation reviewed on a schedule.

It provides:
- A round-robin audit that visits one document per run, detects stale
  review metadata, rewrites the review date, and assigns a reviewer
- A verifier that gates change proposals on current review dates
- A watch mode that re-audits when documents change on disk

Decisions are emitted as key=value output lines for the host scheduler
(GitHub Actions via $GITHUB_OUTPUT, or stdout).`,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.repoPath, "repo", "", "Repository root (default: detected git root, else cwd)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(auditCmd(flags))
	cmd.AddCommand(verifyCmd(flags))
	cmd.AddCommand(watchCmd(flags))
	cmd.AddCommand(configCmd(flags))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// appEnv is the resolved runtime environment for a subcommand.
type appEnv struct {
	logger   *slog.Logger
	cfg      *config.Config
	repoRoot string
}

// setup configures logging, resolves the repository root, and loads the
// layered configuration.
func setup(flags *rootFlags) (*appEnv, error) {
	logger := newLogger(flags.logLevel)
	slog.SetDefault(logger)

	repoPath := flags.repoPath
	if repoPath == "" {
		if root := config.DetectGitRoot(); root != "" {
			repoPath = root
		} else {
			repoPath = "."
		}
	}

	absRepoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve repo path: %w", err)
	}

	info, err := os.Stat(absRepoPath)
	if err != nil {
		return nil, fmt.Errorf("stat repo path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absRepoPath)
	}

	loader := config.NewLoader(logger)
	cfg, err := loader.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &appEnv{logger: logger, cfg: cfg, repoRoot: absRepoPath}, nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolvePath makes path absolute relative to the repository root.
func resolvePath(repoRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(repoRoot, path)
}

func configCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage docfresh configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default user config if it doesn't exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(flags.logLevel)
			loader := config.NewLoader(logger)
			path, err := loader.EnsureUserConfig()
			if err != nil {
				return fmt.Errorf("ensure user config: %w", err)
			}
			fmt.Printf("User config: %s\n", path)
			return nil
		},
	})

	return cmd
}
