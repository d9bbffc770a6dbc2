// ABOUTME: Root Cobra command for the pahdb CLI.
// ABOUTME: Opens the shared connection in PersistentPreRunE and releases it in PersistentPostRunE.
package main

import (
	"fmt"
	"os"

	"github.com/kgaertn/PAH-PCA-LDA/internal/config"
	"github.com/kgaertn/PAH-PCA-LDA/internal/db"
	"github.com/kgaertn/PAH-PCA-LDA/internal/logging"
	"github.com/kgaertn/PAH-PCA-LDA/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	dbPath   string
	logLevel string

	logger  = zerolog.Nop()
	manager *db.Manager
	repos   *storage.Repositories
)

var rootCmd = &cobra.Command{
	Use:   "pahdb",
	Short: "EMG and motion-capture experiment database",
	Long: `pahdb stores and queries biomechanics research data: experiments,
participants, measurements and their sampled datapoints.

HIERARCHY:

  experiment     one dataset in one data state (raw or clean)
  participant    one subject of an experiment, with pain indicators
  measurement    one channel of a participant (device, timepoint, target, axis)
  datapoint      one sample (bow stroke, up/down, time point, value)

QUICK START:

  $ pahdb experiment add mpa clean               # Register an experiment
  $ pahdb participant add 1 P001 --instrument violin
  $ pahdb measurement add 1 pre mocap elbow X deg
  $ pahdb datapoint import 1 elbow_x.csv         # Batch import samples
  $ pahdb query --exp 1 --device mocap --timepoint pre --format csv

MCP INTEGRATION:

  Run 'pahdb mcp' to start the Model Context Protocol server so analysis
  assistants can read the catalog:

  {
    "mcpServers": {
      "pahdb": { "command": "pahdb", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  The database defaults to data/PAH_database.db relative to the working
  directory. Override it with --db or db_path in
  ~/.config/pahdb/config.json.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip database init for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.GetLogLevel()
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		logger, err = logging.New(os.Stderr, level, true)
		if err != nil {
			return err
		}

		path := cfg.GetDBPath()
		if cmd.Flags().Changed("db") {
			path = config.ExpandPath(dbPath)
		}

		manager = db.NewManager(db.WithLogger(logger))
		conn, err := manager.Acquire(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		repos = storage.New(conn)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeDatabase()
	},
}

// closeDatabase releases the shared connection. Cobra skips post-run hooks
// when a command fails, so main calls it as well.
func closeDatabase() error {
	if manager == nil {
		return nil
	}
	err := manager.Release()
	manager = nil
	repos = nil
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default: data/PAH_database.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
