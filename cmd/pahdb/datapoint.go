// ABOUTME: CLI commands for storing and listing datapoints.
// ABOUTME: Imports sample series from CSV files in a single transaction.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
	"github.com/spf13/cobra"
)

var datapointCSVColumns = []string{"bow_stroke", "up_down", "time_point", "value"}

var datapointCmd = &cobra.Command{
	Use:     "datapoint",
	Aliases: []string{"dp"},
	Short:   "Store and list datapoints",
	Long: `Store the samples of a measurement.

COMMANDS:

  add      Store a single sample
  import   Batch import samples from a CSV file
  list     List the samples of a measurement`,
}

var datapointAddCmd = &cobra.Command{
	Use:   "add <measurement-id> <bow-stroke> <up-down> <time-point> <value>",
	Short: "Store a single sample",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		mid, err := parseID(args[0], "measurement")
		if err != nil {
			return err
		}
		dp, err := parseDatapoint(mid, args[1], args[2], args[3], args[4])
		if err != nil {
			return err
		}

		if err := repos.Datapoints.Insert(cmd.Context(), dp); err != nil {
			return fmt.Errorf("failed to add datapoint: %w", err)
		}

		color.Green("✓ Added datapoint to measurement %d", mid)
		return nil
	},
}

var datapointImportCmd = &cobra.Command{
	Use:   "import <measurement-id> <csv-file>",
	Short: "Batch import samples from a CSV file",
	Long: `Import the samples of one measurement from a CSV file with a header row
naming the columns bow_stroke, up_down, time_point and value in any order.
Either every row is stored or, on any error, none.

Examples:
  pahdb datapoint import 12 P001_pre_elbow_X.csv`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mid, err := parseID(args[0], "measurement")
		if err != nil {
			return err
		}

		target, ok, err := repos.Measurements.TargetByID(cmd.Context(), mid)
		if err != nil {
			return fmt.Errorf("failed to get measurement: %w", err)
		}
		if !ok {
			return fmt.Errorf("measurement not found: %d", mid)
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		defer f.Close()

		dps, err := readDatapointCSV(f, mid)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[1], err)
		}

		if err := repos.Datapoints.InsertMany(cmd.Context(), dps); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		logger.Debug().Int64("measurement_id", mid).Int("rows", len(dps)).Msg("datapoints imported")
		color.Green("✓ Imported %d datapoints into measurement %d (%s)", len(dps), mid, target)
		return nil
	},
}

var datapointListCmd = &cobra.Command{
	Use:     "list <measurement-id>",
	Aliases: []string{"ls"},
	Short:   "List the samples of a measurement",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mid, err := parseID(args[0], "measurement")
		if err != nil {
			return err
		}

		dps, err := repos.Datapoints.ByMeasurement(cmd.Context(), mid)
		if err != nil {
			return fmt.Errorf("failed to list datapoints: %w", err)
		}

		if len(dps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No datapoints found.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, faint.Sprint("bow_stroke  up_down  time_point  value"))
		for _, dp := range dps {
			fmt.Fprintf(out, "%-10d  %-7d  %-10d  %g\n", dp.BowStroke, dp.UpDown, dp.TimePoint, dp.Value)
		}
		return nil
	},
}

// readDatapointCSV parses a headed CSV of samples for one measurement.
func readDatapointCSV(r io.Reader, measurementID int64) ([]*models.Datapoint, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range datapointCSVColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	var dps []*models.Datapoint
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		dp, err := parseDatapoint(measurementID,
			record[index["bow_stroke"]],
			record[index["up_down"]],
			record[index["time_point"]],
			record[index["value"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		dps = append(dps, dp)
	}
	return dps, nil
}

func parseDatapoint(measurementID int64, bowStroke, upDown, timePoint, value string) (*models.Datapoint, error) {
	bs, err := strconv.Atoi(strings.TrimSpace(bowStroke))
	if err != nil {
		return nil, fmt.Errorf("invalid bow_stroke: %s", bowStroke)
	}
	ud, err := strconv.Atoi(strings.TrimSpace(upDown))
	if err != nil {
		return nil, fmt.Errorf("invalid up_down: %s", upDown)
	}
	tp, err := strconv.Atoi(strings.TrimSpace(timePoint))
	if err != nil {
		return nil, fmt.Errorf("invalid time_point: %s", timePoint)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %s", value)
	}
	return models.NewDatapoint(measurementID, bs, ud, tp, v), nil
}

func init() {
	datapointCmd.AddCommand(datapointAddCmd)
	datapointCmd.AddCommand(datapointImportCmd)
	datapointCmd.AddCommand(datapointListCmd)
	rootCmd.AddCommand(datapointCmd)
}
