// ABOUTME: CLI commands for managing measurements.
// ABOUTME: Supports add, show, and list subcommands with participant joins.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
	"github.com/kgaertn/PAH-PCA-LDA/internal/storage"
	"github.com/spf13/cobra"
)

var (
	measurementParticipant string
	measurementExp         int64
	measurementDevice      string
	measurementTimepoint   string
	measurementTarget      string
	measurementAxis        string
	measurementFormat      string
)

var measurementCmd = &cobra.Command{
	Use:     "measurement",
	Aliases: []string{"m"},
	Short:   "Manage measurements",
	Long: `Register measurement channels and list them with participant details.

A measurement is one channel of one participant: a device (emg or mocap),
a timepoint (pre or post), a target muscle or joint, an axis and a unit.

COMMANDS:

  add    Register a measurement
  show   Show one measurement
  list   List measurements joined with their participants`,
}

var measurementAddCmd = &cobra.Command{
	Use:   "add <participant-id> <pre|post> <emg|mocap> <target> <axis> <unit>",
	Short: "Register a measurement",
	Long: `Register a measurement for a participant. The participant id is the
internal id, see 'pahdb participant show --exp <id> --code <code>'.

Examples:
  pahdb measurement add 7 pre mocap elbow X deg
  pahdb measurement add 7 post emg trapezius none mV`,
	Args: cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := parseID(args[0], "participant")
		if err != nil {
			return err
		}
		tp := strings.ToLower(args[1])
		if !models.IsValidTimepoint(tp) {
			return fmt.Errorf("unknown timepoint: %s (use pre or post)", args[1])
		}
		device := strings.ToLower(args[2])
		if !models.IsValidDevice(device) {
			return fmt.Errorf("unknown device: %s (use emg or mocap)", args[2])
		}

		var m *models.Measurement
		switch models.Device(device) {
		case models.DeviceEMG:
			m = &models.NewEMGMeasurement(pid, models.Timepoint(tp), args[3], args[4], args[5]).Measurement
		case models.DeviceMocap:
			m = &models.NewMocapMeasurement(pid, models.Timepoint(tp), args[3], args[4], args[5]).Measurement
		}

		id, err := repos.Measurements.Insert(cmd.Context(), m)
		if err != nil {
			return fmt.Errorf("failed to add measurement: %w", err)
		}

		color.Green("✓ Added %s measurement %s/%s", device, m.Target, m.Axis)
		fmt.Printf("  %s\n", faint.Sprintf("id %d", id))
		return nil
	},
}

var measurementShowCmd = &cobra.Command{
	Use:   "show <measurement-id>",
	Short: "Show one measurement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "measurement")
		if err != nil {
			return err
		}

		m, err := repos.Measurements.ByID(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get measurement: %w", err)
		}
		if m == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No measurement found.")
			return nil
		}

		dps, err := repos.Datapoints.ByMeasurement(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to list datapoints: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprintf("%s %s/%s", m.Device, m.Target, m.Axis), faint.Sprintf("(id %d)", m.ID))
		fmt.Fprintf(out, "  participant  %d\n", m.ParticipantID)
		fmt.Fprintf(out, "  timepoint    %s\n", m.Timepoint)
		fmt.Fprintf(out, "  unit         %s\n", m.Unit)
		fmt.Fprintf(out, "  datapoints   %d\n", len(dps))
		return nil
	},
}

var measurementListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List measurements joined with their participants",
	Long: `List measurements with experiment and participant columns attached.

Select by participant code across all experiments, or by exactly one
filter within an experiment. Other combinations are rejected:

  --participant CODE
  --exp ID --device emg|mocap
  --exp ID --timepoint pre|post
  --exp ID --target NAME [--axis AXIS]

Examples:
  pahdb measurement list --participant P001
  pahdb measurement list --exp 1 --device mocap
  pahdb measurement list --exp 1 --target elbow --axis X --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := listMeasurements(cmd)
		if err != nil {
			return err
		}
		return writeTable(cmd, t, measurementFormat, "")
	},
}

func listMeasurements(cmd *cobra.Command) (*storage.Table, error) {
	if err := validateMeasurementFilters(); err != nil {
		return nil, err
	}
	ctx := cmd.Context()

	var (
		t   *storage.Table
		err error
	)
	switch {
	case measurementParticipant != "":
		t, err = repos.Measurements.ByParticipantCode(ctx, measurementParticipant)
	case measurementAxis != "":
		t, err = repos.Measurements.ByTargetAndAxis(ctx, measurementTarget, measurementAxis, measurementExp)
	case measurementTarget != "":
		t, err = repos.Measurements.ByTarget(ctx, measurementTarget, measurementExp)
	case measurementDevice != "":
		t, err = repos.Measurements.ByDevice(ctx, models.Device(strings.ToLower(measurementDevice)), measurementExp)
	default:
		t, err = repos.Measurements.ByTimepoint(ctx, models.Timepoint(strings.ToLower(measurementTimepoint)), measurementExp)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	return t, nil
}

// validateMeasurementFilters accepts exactly the flag sets the catalog
// serves: --participant alone, or --exp with one of --device, --timepoint
// or --target, where --axis needs --target.
func validateMeasurementFilters() error {
	filters := 0
	for _, f := range []string{measurementDevice, measurementTimepoint, measurementTarget} {
		if f != "" {
			filters++
		}
	}

	if measurementParticipant != "" {
		if measurementExp != 0 || filters > 0 || measurementAxis != "" {
			return fmt.Errorf("--participant cannot be combined with other filters")
		}
		return nil
	}

	if measurementExp == 0 {
		return fmt.Errorf("give --participant or --exp with one filter")
	}
	if measurementAxis != "" && measurementTarget == "" {
		return fmt.Errorf("--axis requires --target")
	}
	switch {
	case filters == 0:
		return fmt.Errorf("--exp needs one of --device, --timepoint or --target")
	case filters > 1:
		return fmt.Errorf("give only one of --device, --timepoint or --target")
	}
	if measurementDevice != "" && !models.IsValidDevice(strings.ToLower(measurementDevice)) {
		return fmt.Errorf("unknown device: %s (use emg or mocap)", measurementDevice)
	}
	if measurementTimepoint != "" && !models.IsValidTimepoint(strings.ToLower(measurementTimepoint)) {
		return fmt.Errorf("unknown timepoint: %s (use pre or post)", measurementTimepoint)
	}
	return nil
}

func init() {
	measurementListCmd.Flags().StringVar(&measurementParticipant, "participant", "", "participant code")
	measurementListCmd.Flags().Int64Var(&measurementExp, "exp", 0, "experiment id")
	measurementListCmd.Flags().StringVar(&measurementDevice, "device", "", "device (emg or mocap)")
	measurementListCmd.Flags().StringVar(&measurementTimepoint, "timepoint", "", "timepoint (pre or post)")
	measurementListCmd.Flags().StringVar(&measurementTarget, "target", "", "target muscle or joint")
	measurementListCmd.Flags().StringVar(&measurementAxis, "axis", "", "axis (with --target)")
	measurementListCmd.Flags().StringVarP(&measurementFormat, "format", "f", "table", "output format (table, json, yaml, csv, markdown)")

	measurementCmd.AddCommand(measurementAddCmd)
	measurementCmd.AddCommand(measurementShowCmd)
	measurementCmd.AddCommand(measurementListCmd)
	rootCmd.AddCommand(measurementCmd)
}
