// Package cmd wires the CLI.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"tutorbot/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagDataDir string

	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "tutorbot",
	Short: "Support chatbot for a tutoring marketplace, grounded in facts and help docs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; environment wins for API keys.
		_ = godotenv.Load()

		var err error
		if flagConfig != "" {
			cfg, err = config.Load(flagConfig)
		} else {
			cfg, _, err = config.LoadDefault()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flagDataDir != "" {
			cfg.Index.Path = filepath.Join(flagDataDir, filepath.Base(cfg.Index.Path))
			cfg.Facts.DBPath = filepath.Join(flagDataDir, filepath.Base(cfg.Facts.DBPath))
		}

		return setupLogging(cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default ./tutorbot.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding the knowledge artifact and fact database")
}

// setupLogging mirrors log output to a per-run file under
// ~/.tutorbot/logs in addition to stderr.
func setupLogging(subcommand string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	logDir := filepath.Join(home, ".tutorbot", "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("tutorbot-%s-%s.log", subcommand, time.Now().Format("20060102-150405"))
	logFile, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	return nil
}
