// ABOUTME: CLI command for querying the joined datapoint catalog.
// ABOUTME: Narrows by device, timepoint, target and axis and exports the table.
package main

import (
	"fmt"
	"strings"

	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
	"github.com/kgaertn/PAH-PCA-LDA/internal/storage"
	"github.com/spf13/cobra"
)

var (
	queryExp          int64
	queryDevice       string
	queryTimepoint    string
	queryTarget       string
	queryAxis         string
	queryDeidentified bool
	queryFormat       string
	queryOutput       string
)

var queryCmd = &cobra.Command{
	Use:     "query",
	Aliases: []string{"q"},
	Short:   "Query datapoints joined with their experiment, participant and measurement",
	Long: `Query the datapoints of an experiment as one table, ready for analysis.

Each row carries the experiment, participant code, instrument and pain
indicators, the measurement channel and the sample itself.

FILTERS:

  Filters narrow the result and must be given in order:
    --device      emg or mocap
    --timepoint   pre or post (needs --device)
    --target      muscle or joint (needs --timepoint)
    --axis        axis label (needs --target)

  --deidentified drops instrument and pain columns. It works with
  --device and --timepoint and no further filter.

FORMATS:

  table      Aligned columns (default)
  csv        Comma separated with header row
  json       Array of row objects
  yaml       Column list and rows
  markdown   Markdown table

EXAMPLES:

  pahdb query --exp 1                                   # Everything in experiment 1
  pahdb query --exp 1 --device mocap --timepoint pre    # Pre-intervention mocap
  pahdb query --exp 1 --device emg --timepoint post --deidentified -f csv -o emg_post.csv
  pahdb query --exp 1 --device mocap --timepoint pre --target elbow --axis X -f json
  pahdb query --exp 1 --device emg --timepoint pre -f csv -o s3://lab-data/emg_pre.csv

UPLOADS:

  An s3:// output uploads the export. PAHDB_S3_REGION, PAHDB_S3_ENDPOINT
  and PAHDB_S3_PATH_STYLE select the endpoint; credentials come from the
  usual AWS environment or shared config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if queryDevice != "" && !models.IsValidDevice(strings.ToLower(queryDevice)) {
			return fmt.Errorf("unknown device: %s (use emg or mocap)", queryDevice)
		}
		if queryTimepoint != "" && !models.IsValidTimepoint(strings.ToLower(queryTimepoint)) {
			return fmt.Errorf("unknown timepoint: %s (use pre or post)", queryTimepoint)
		}

		t, err := repos.Datapoints.Query(cmd.Context(), storage.DatapointQuery{
			ExperimentID: queryExp,
			Device:       models.Device(strings.ToLower(queryDevice)),
			Timepoint:    models.Timepoint(strings.ToLower(queryTimepoint)),
			Target:       queryTarget,
			Axis:         queryAxis,
			Deidentified: queryDeidentified,
		})
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		logger.Debug().Int64("experiment_id", queryExp).Int("rows", t.Len()).Msg("datapoint query")
		return writeTable(cmd, t, queryFormat, queryOutput)
	},
}

func init() {
	queryCmd.Flags().Int64Var(&queryExp, "exp", 0, "experiment id (required)")
	queryCmd.Flags().StringVar(&queryDevice, "device", "", "device (emg or mocap)")
	queryCmd.Flags().StringVar(&queryTimepoint, "timepoint", "", "timepoint (pre or post)")
	queryCmd.Flags().StringVar(&queryTarget, "target", "", "target muscle or joint")
	queryCmd.Flags().StringVar(&queryAxis, "axis", "", "axis")
	queryCmd.Flags().BoolVar(&queryDeidentified, "deidentified", false, "omit instrument and pain columns")
	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", "table", "output format (table, json, yaml, csv, markdown)")
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", "", "output file or s3://bucket/key (default: stdout)")
	_ = queryCmd.MarkFlagRequired("exp")
	rootCmd.AddCommand(queryCmd)
}
