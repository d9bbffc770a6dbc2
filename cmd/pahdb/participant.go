// ABOUTME: CLI commands for managing participants.
// ABOUTME: Supports add, pain, list, codes, and show subcommands.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
	"github.com/spf13/cobra"
)

var (
	participantAge        int
	participantHeight     float64
	participantWeight     float64
	participantInstrument string
	participantFormat     string
	participantExp        int64
	participantCode       string

	painShoulderNeckRight string
	painShoulderNeckLeft  string
	painUpperArmRight     string
	painUpperArmLeft      string
	painEver              string
)

var participantCmd = &cobra.Command{
	Use:     "participant",
	Aliases: []string{"p"},
	Short:   "Manage participants",
	Long: `Register participants and attach pain questionnaire results.

A participant code such as P001 is unique within one experiment. The same
code in the raw and the clean experiment names two separate participants.

WORKFLOW:

  1. Register:        pahdb participant add 1 P001 --age 24
  2. Attach pain:     pahdb participant pain 1 P001 --instrument violin --ever yes
  3. Review:          pahdb participant list mpa

COMMANDS:

  add     Register a participant
  pain    Write instrument and pain indicators
  list    List participants of an experiment by name
  codes   List participant codes of an experiment
  show    Show one participant`,
}

var participantAddCmd = &cobra.Command{
	Use:   "add <experiment-id> <code>",
	Short: "Register a participant",
	Long: `Register a participant in an experiment.

Examples:
  pahdb participant add 1 P001
  pahdb participant add 1 P002 --age 31 --height 180 --weight 75.5 --instrument cello`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		expID, err := parseID(args[0], "experiment")
		if err != nil {
			return err
		}

		p := models.NewParticipant(expID, args[1])
		if cmd.Flags().Changed("age") {
			p.Age = &participantAge
		}
		if cmd.Flags().Changed("height") {
			p.HeightCM = &participantHeight
		}
		if cmd.Flags().Changed("weight") {
			p.WeightKG = &participantWeight
		}
		if participantInstrument != "" {
			p.WithInstrument(participantInstrument)
		}

		id, err := repos.Participants.Insert(cmd.Context(), p)
		if err != nil {
			return fmt.Errorf("failed to add participant: %w", err)
		}

		color.Green("✓ Added participant %s", p.ParticipantID)
		fmt.Printf("  %s\n", faint.Sprintf("id %d in experiment %d", id, expID))
		return nil
	},
}

var participantPainCmd = &cobra.Command{
	Use:   "pain <experiment-id> <code>",
	Short: "Write instrument and pain indicators",
	Long: `Write the instrument and the five pain indicators of a participant.

All six fields are written together: an indicator left out is stored as
unknown. No other participant field changes.

Indicators take yes or no:
  --shoulder-neck-right   --shoulder-neck-left
  --upper-arm-right       --upper-arm-left
  --ever

Examples:
  pahdb participant pain 1 P001 --instrument violin --ever yes --upper-arm-left no`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		expID, err := parseID(args[0], "experiment")
		if err != nil {
			return err
		}

		if _, ok, err := repos.Participants.DBID(cmd.Context(), args[1], expID); err != nil {
			return fmt.Errorf("failed to resolve participant: %w", err)
		} else if !ok {
			return fmt.Errorf("participant not found: %s in experiment %d", args[1], expID)
		}

		var pain models.PainData
		for _, f := range []struct {
			name  string
			value string
			dst   **bool
		}{
			{"shoulder-neck-right", painShoulderNeckRight, &pain.PRMDShoulderNeckRight},
			{"shoulder-neck-left", painShoulderNeckLeft, &pain.PRMDShoulderNeckLeft},
			{"upper-arm-right", painUpperArmRight, &pain.PRMDUpperArmRight},
			{"upper-arm-left", painUpperArmLeft, &pain.PRMDUpperArmLeft},
			{"ever", painEver, &pain.PRMDEver},
		} {
			if *f.dst, err = parseOptionalBool(f.value, f.name); err != nil {
				return err
			}
		}

		p := models.NewParticipant(expID, args[1]).WithPain(pain)
		if participantInstrument != "" {
			p.WithInstrument(participantInstrument)
		}

		if err := repos.Participants.UpdatePainData(cmd.Context(), p, expID); err != nil {
			return fmt.Errorf("failed to update pain data: %w", err)
		}

		color.Green("✓ Updated pain data for %s", p.ParticipantID)
		return nil
	},
}

var participantListCmd = &cobra.Command{
	Use:     "list <experiment-name>",
	Aliases: []string{"ls"},
	Short:   "List participants of an experiment by name",
	Long: `List the participants of every experiment with the given name, raw and
clean alike. The experiment_data_state column tells them apart.

Examples:
  pahdb participant list mpa
  pahdb participant list mpa --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := repos.Participants.ByExperimentName(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}
		return writeTable(cmd, t, participantFormat, "")
	},
}

var participantCodesCmd = &cobra.Command{
	Use:   "codes <experiment-id>",
	Short: "List participant codes of an experiment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expID, err := parseID(args[0], "experiment")
		if err != nil {
			return err
		}

		codes, err := repos.Participants.ParticipantIDs(cmd.Context(), expID)
		if err != nil {
			return fmt.Errorf("failed to list participant codes: %w", err)
		}
		if codes == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No participants found.")
			return nil
		}
		for _, c := range codes {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

var participantShowCmd = &cobra.Command{
	Use:   "show [participant-id]",
	Short: "Show one participant",
	Long: `Show a participant by internal id, or by code within an experiment.

Examples:
  pahdb participant show 7
  pahdb participant show --exp 1 --code P001`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var id int64
		switch {
		case len(args) == 1:
			var err error
			if id, err = parseID(args[0], "participant"); err != nil {
				return err
			}
		case participantExp != 0 && participantCode != "":
			found, ok, err := repos.Participants.DBID(ctx, participantCode, participantExp)
			if err != nil {
				return fmt.Errorf("failed to resolve participant: %w", err)
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No participant found.")
				return nil
			}
			id = found
		default:
			return fmt.Errorf("give a participant id or both --exp and --code")
		}

		p, err := repos.Participants.ByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get participant: %w", err)
		}
		if p == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No participant found.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint(p.ParticipantID), faint.Sprintf("(id %d, experiment %d)", p.ID, p.ExperimentID))
		if p.Age != nil {
			fmt.Fprintf(out, "  age                  %d\n", *p.Age)
		}
		if p.HeightCM != nil {
			fmt.Fprintf(out, "  height_cm            %.1f\n", *p.HeightCM)
		}
		if p.WeightKG != nil {
			fmt.Fprintf(out, "  weight_kg            %.1f\n", *p.WeightKG)
		}
		fmt.Fprintf(out, "  instrument           %s\n", derefString(p.Instrument))
		fmt.Fprintf(out, "  shoulder/neck right  %s\n", formatOptionalBool(p.PRMDShoulderNeckRight))
		fmt.Fprintf(out, "  shoulder/neck left   %s\n", formatOptionalBool(p.PRMDShoulderNeckLeft))
		fmt.Fprintf(out, "  upper arm right      %s\n", formatOptionalBool(p.PRMDUpperArmRight))
		fmt.Fprintf(out, "  upper arm left       %s\n", formatOptionalBool(p.PRMDUpperArmLeft))
		fmt.Fprintf(out, "  ever                 %s\n", formatOptionalBool(p.PRMDEver))
		return nil
	},
}

func init() {
	participantAddCmd.Flags().IntVar(&participantAge, "age", 0, "age in years")
	participantAddCmd.Flags().Float64Var(&participantHeight, "height", 0, "height in cm")
	participantAddCmd.Flags().Float64Var(&participantWeight, "weight", 0, "weight in kg")
	participantAddCmd.Flags().StringVar(&participantInstrument, "instrument", "", "instrument played")

	participantPainCmd.Flags().StringVar(&participantInstrument, "instrument", "", "instrument played")
	participantPainCmd.Flags().StringVar(&painShoulderNeckRight, "shoulder-neck-right", "", "pain in right shoulder/neck (yes/no)")
	participantPainCmd.Flags().StringVar(&painShoulderNeckLeft, "shoulder-neck-left", "", "pain in left shoulder/neck (yes/no)")
	participantPainCmd.Flags().StringVar(&painUpperArmRight, "upper-arm-right", "", "pain in right upper arm (yes/no)")
	participantPainCmd.Flags().StringVar(&painUpperArmLeft, "upper-arm-left", "", "pain in left upper arm (yes/no)")
	participantPainCmd.Flags().StringVar(&painEver, "ever", "", "ever had playing-related pain (yes/no)")

	participantListCmd.Flags().StringVarP(&participantFormat, "format", "f", "table", "output format (table, json, yaml, csv, markdown)")

	participantShowCmd.Flags().Int64Var(&participantExp, "exp", 0, "experiment id (with --code)")
	participantShowCmd.Flags().StringVar(&participantCode, "code", "", "participant code (with --exp)")

	participantCmd.AddCommand(participantAddCmd)
	participantCmd.AddCommand(participantPainCmd)
	participantCmd.AddCommand(participantListCmd)
	participantCmd.AddCommand(participantCodesCmd)
	participantCmd.AddCommand(participantShowCmd)
	rootCmd.AddCommand(participantCmd)
}
