/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gonap/gava/pkg/config"
	"github.com/gonap/gava/pkg/fixed"
	"github.com/gonap/gava/pkg/logging"
	"github.com/gonap/gava/pkg/storage"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand of one invocation
type app struct {
	configPath string
	dataDir    string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the fixrec command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "fixrec",
		Short: "fixrec - fixed-width record toolkit",
		Long: `fixrec reads streams of fixed-width records (no delimiters, every
record exactly the same number of bytes), stores record snapshots and serves
them over a REST API.

Examples:
  fixrec count roster.dat --width 20
  fixrec dump roster.dat --width 20 --limit 10
  fixrec ingest roster.dat
  fixrec serve`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file (default: ~/.config/fixrec/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&a.dataDir, "data-dir", "d", "", "Data directory for the record store")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCmd(a),
		newCountCmd(a),
		newDumpCmd(a),
		newPackCmd(a),
		newIngestCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newServeCmd(a),
	)

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// load resolves the configuration and logger for this invocation. A missing
// config file means defaults.
func (a *app) load(cmd *cobra.Command) error {
	if a.configPath == "" {
		a.configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(a.configPath) {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// Override config with command line flags if provided
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logger, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// width returns the flag value when set, else the configured record width
func (a *app) width(flag int) int {
	if flag > 0 {
		return flag
	}
	return a.cfg.Record.Width
}

// openStore opens the record store under the data directory
func (a *app) openStore() (*storage.DefaultStorage, error) {
	if err := os.MkdirAll(a.cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	s, err := storage.NewDefaultStorage(filepath.Join(a.cfg.DataDir, "records"), storage.WithLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return s, nil
}

// newReader returns a streaming reader using the configured buffer and pad
func (a *app) newReader(src io.Reader, width int) (*fixed.Reader, error) {
	opts := []fixed.ReaderOption{fixed.WithPad(a.cfg.Record.PadByte())}
	if size := a.cfg.Record.BufferSize; width > 0 && size >= width {
		opts = append(opts, fixed.WithBuffer(make([]byte, size)))
	}
	return fixed.NewReader(src, width, opts...)
}

// layout returns the configured field layout when it applies to width
func (a *app) layout(width int) fixed.Layout {
	if width != a.cfg.Record.Width {
		return nil
	}
	return a.cfg.Record.Fields
}
