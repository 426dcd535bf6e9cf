package cmd

import (
	"fmt"
	"os"

	"github.com/lectern-app/lectern-api/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lectern-api",
	Short: "Lectern content pipeline API server",
	Long: `Lectern API - transcript assembly and learning content generation

This API ingests transcript chunks from transcription workers, merges them
into canonical transcripts, generates learning artifacts (notes, quiz
questions, feedback) from them, and tracks learner progress through to
certificate issuance.

Features:
  • Chunked transcript ingestion and deterministic merging
  • Resilient artifact generation with retry and repair
  • Idempotent generation keyed per owner, subject, and feature
  • Progress tracking with one-shot certificate issuance`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// loadConfig loads the configuration when a command needs it.
// Version and help never touch config, so they stay usable with a broken file.
func loadConfig() {
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
