// ABOUTME: CLI commands for managing experiments.
// ABOUTME: Supports add, list, complete, folders, and find subcommands.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
	"github.com/spf13/cobra"
)

var (
	experimentFolder string
	experimentState  string
	experimentFormat string
)

var experimentCmd = &cobra.Command{
	Use:     "experiment",
	Aliases: []string{"exp", "e"},
	Short:   "Manage experiments",
	Long: `Register experiments and track their uploads.

An experiment is identified by its name together with its data state, so
the raw and the cleaned version of one study are two experiments.

COMMANDS:

  add       Register an experiment
  list      List all experiments
  complete  Mark an experiment's upload as complete
  folders   List data folders of completed uploads
  find      Look up an experiment id by name`,
}

var experimentAddCmd = &cobra.Command{
	Use:   "add <name> <raw|clean>",
	Short: "Register an experiment",
	Long: `Register an experiment. Names are stored lower-case.

Examples:
  pahdb experiment add mpa clean
  pahdb experiment add mpa raw --folder data/mpa_raw`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])
		state := strings.ToLower(args[1])
		if !models.IsValidDataState(state) {
			return fmt.Errorf("unknown data state: %s (use raw or clean)", args[1])
		}

		e := models.NewExperiment(name, models.DataState(state))
		if experimentFolder != "" {
			e.WithDataFolder(experimentFolder)
		}

		id, err := repos.Experiments.Insert(cmd.Context(), e)
		if err != nil {
			return fmt.Errorf("failed to add experiment: %w", err)
		}

		color.Green("✓ Added experiment %s (%s)", name, state)
		fmt.Printf("  %s\n", faint.Sprintf("id %d", id))
		return nil
	},
}

var experimentListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all experiments",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := repos.Experiments.All(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list experiments: %w", err)
		}
		return writeTable(cmd, t, experimentFormat, "")
	},
}

var experimentCompleteCmd = &cobra.Command{
	Use:   "complete <experiment-id> <data-folder>",
	Short: "Mark an experiment's upload as complete",
	Long: `Record the folder an experiment was ingested from and set its upload flag.
Running it again replaces the stored folder.

Examples:
  pahdb experiment complete 1 data/mpa_clean`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "experiment")
		if err != nil {
			return err
		}

		if err := repos.Experiments.MarkUploadComplete(cmd.Context(), args[1], id); err != nil {
			return fmt.Errorf("failed to mark upload complete: %w", err)
		}

		color.Green("✓ Upload of experiment %d complete", id)
		return nil
	},
}

var experimentFoldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List data folders of completed uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, err := repos.Experiments.CompleteDataFolders(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list data folders: %w", err)
		}

		if folders == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No completed uploads.")
			return nil
		}
		for _, f := range folders {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

var experimentFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Look up an experiment id by name",
	Long: `Print the id of an experiment. Without --state the first experiment
with that name is returned.

Examples:
  pahdb experiment find mpa
  pahdb experiment find mpa --state raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])

		var (
			id    int64
			found bool
			err   error
		)
		if experimentState == "" {
			id, found, err = repos.Experiments.IDByName(cmd.Context(), name)
		} else {
			id, found, err = repos.Experiments.IDByNameAndDataState(cmd.Context(), name, models.DataState(strings.ToLower(experimentState)))
		}
		if err != nil {
			return fmt.Errorf("failed to find experiment: %w", err)
		}

		if !found {
			fmt.Fprintln(cmd.OutOrStdout(), "No experiment found.")
			return nil
		}

		e, err := repos.Experiments.ByID(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get experiment: %w", err)
		}
		if e == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No experiment found.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\n", e.ID, e.Name, e.DataState, derefString(e.DataFolder))
		return nil
	},
}

func init() {
	experimentAddCmd.Flags().StringVar(&experimentFolder, "folder", "", "data folder the experiment is ingested from")
	experimentListCmd.Flags().StringVarP(&experimentFormat, "format", "f", "table", "output format (table, json, yaml, csv, markdown)")
	experimentFindCmd.Flags().StringVar(&experimentState, "state", "", "data state (raw or clean)")

	experimentCmd.AddCommand(experimentAddCmd)
	experimentCmd.AddCommand(experimentListCmd)
	experimentCmd.AddCommand(experimentCompleteCmd)
	experimentCmd.AddCommand(experimentFoldersCmd)
	experimentCmd.AddCommand(experimentFindCmd)
	rootCmd.AddCommand(experimentCmd)
}
