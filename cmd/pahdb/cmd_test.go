// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Drives the root command against a temporary database file.
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kgaertn/PAH-PCA-LDA/internal/db"
	"github.com/kgaertn/PAH-PCA-LDA/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "pahdb" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "pahdb")
	}
	for _, name := range []string{"db", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestRootSubcommands(t *testing.T) {
	want := map[string]bool{
		"experiment": false, "participant": false, "measurement": false,
		"datapoint": false, "query": false, "mcp": false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected %s command to exist", name)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in, "experiment")
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseOptionalBool(t *testing.T) {
	tests := []struct {
		in      string
		want    *bool
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "yes", want: boolPtr(true)},
		{in: "No", want: boolPtr(false)},
		{in: "true", want: boolPtr(true)},
		{in: "0", want: boolPtr(false)},
		{in: "maybe", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseOptionalBool(tt.in, "ever")
		if (err != nil) != tt.wantErr {
			t.Errorf("parseOptionalBool(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
			t.Errorf("parseOptionalBool(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadDatapointCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr string
	}{
		{name: "ordered header", input: "bow_stroke,up_down,time_point,value\n1,0,0,1.5\n1,0,1,2.5\n", want: 2},
		{name: "shuffled header", input: "value, time_point, up_down, bow_stroke\n1.5,0,0,1\n", want: 1},
		{name: "header only", input: "bow_stroke,up_down,time_point,value\n", want: 0},
		{name: "empty file", input: "", wantErr: "missing header row"},
		{name: "missing column", input: "bow_stroke,up_down,value\n1,0,1.5\n", wantErr: `missing column "time_point"`},
		{name: "bad value", input: "bow_stroke,up_down,time_point,value\n1,0,0,1.5\n1,0,1,abc\n", wantErr: "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dps, err := readDatapointCSV(strings.NewReader(tt.input), 7)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("readDatapointCSV failed: %v", err)
			}
			if len(dps) != tt.want {
				t.Fatalf("expected %d datapoints, got %d", tt.want, len(dps))
			}
			for _, dp := range dps {
				if dp.MeasurementID != 7 {
					t.Errorf("MeasurementID = %d, want 7", dp.MeasurementID)
				}
			}
		})
	}

	dps, _ := readDatapointCSV(strings.NewReader("value,time_point,up_down,bow_stroke\n2.25,3,1,4\n"), 1)
	if dp := dps[0]; dp.BowStroke != 4 || dp.UpDown != 1 || dp.TimePoint != 3 || dp.Value != 2.25 {
		t.Errorf("columns mapped wrongly: %+v", dp)
	}
}

// setupTestCLI points the CLI at a fresh database file and an empty config dir.
func setupTestCLI(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	return filepath.Join(tmpDir, "data", "PAH_database.db")
}

// runCLI executes the root command with args against dbFile and returns
// what the command wrote to its output stream.
func runCLI(t *testing.T, dbFile string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--db", dbFile, "--log-level", "error"}, args...))

	err := rootCmd.Execute()
	if cerr := closeDatabase(); cerr != nil {
		t.Fatalf("closeDatabase failed: %v", cerr)
	}
	return out.String(), err
}

func mustRunCLI(t *testing.T, dbFile string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dbFile, args...)
	if err != nil {
		t.Fatalf("pahdb %s failed: %v", strings.Join(args, " "), err)
	}
	return out
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func openTestRepos(t *testing.T, dbFile string) *storage.Repositories {
	t.Helper()
	conn, err := db.Open(context.Background(), dbFile)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return storage.New(conn)
}

func TestExperimentCommands(t *testing.T) {
	dbFile := setupTestCLI(t)

	mustRunCLI(t, dbFile, "experiment", "add", "MPA", "clean")
	mustRunCLI(t, dbFile, "experiment", "add", "mpa", "raw", "--folder", "data/mpa_raw")

	if _, err := os.Stat(dbFile); err != nil {
		t.Fatalf("Expected database file to be created: %v", err)
	}

	out := mustRunCLI(t, dbFile, "experiment", "list", "--format", "csv")
	want := "id,name,data_state,data_folder,upload_complete\n1,mpa,clean,,\n2,mpa,raw,data/mpa_raw,\n"
	if out != want {
		t.Errorf("experiment list =\n%s\nwant\n%s", out, want)
	}

	out = mustRunCLI(t, dbFile, "experiment", "find", "mpa", "--state", "raw")
	if !strings.HasPrefix(out, "2\tmpa\traw") {
		t.Errorf("experiment find = %q", out)
	}

	out = mustRunCLI(t, dbFile, "experiment", "find", "pilot")
	if !strings.Contains(out, "No experiment found.") {
		t.Errorf("experiment find for unknown name = %q", out)
	}

	out = mustRunCLI(t, dbFile, "experiment", "folders")
	if !strings.Contains(out, "No completed uploads.") {
		t.Errorf("experiment folders before upload = %q", out)
	}

	mustRunCLI(t, dbFile, "experiment", "complete", "1", "data/mpa_clean")
	out = mustRunCLI(t, dbFile, "experiment", "folders")
	if out != "data/mpa_clean\n" {
		t.Errorf("experiment folders = %q, want %q", out, "data/mpa_clean\n")
	}
}

func TestExperimentAddErrors(t *testing.T) {
	dbFile := setupTestCLI(t)

	if _, err := runCLI(t, dbFile, "experiment", "add", "mpa", "processed"); err == nil {
		t.Error("Expected error for unknown data state")
	}

	mustRunCLI(t, dbFile, "experiment", "add", "mpa", "clean")
	if _, err := runCLI(t, dbFile, "experiment", "add", "mpa", "clean"); err == nil {
		t.Error("Expected error for duplicate experiment")
	}
}

func TestWorkflow(t *testing.T) {
	dbFile := setupTestCLI(t)
	csvFile := filepath.Join(t.TempDir(), "elbow_x.csv")
	if err := os.WriteFile(csvFile, []byte("bow_stroke,up_down,time_point,value\n1,0,0,10.5\n1,0,1,11\n1,0,2,11.5\n"), 0600); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	mustRunCLI(t, dbFile, "experiment", "add", "mpa", "clean")
	mustRunCLI(t, dbFile, "participant", "add", "1", "P001", "--age", "24")
	mustRunCLI(t, dbFile, "participant", "pain", "1", "P001", "--instrument", "violin", "--ever", "yes", "--upper-arm-left", "no")
	mustRunCLI(t, dbFile, "measurement", "add", "1", "pre", "mocap", "elbow", "X", "deg")
	mustRunCLI(t, dbFile, "datapoint", "import", "1", csvFile)

	repos := openTestRepos(t, dbFile)
	ctx := context.Background()

	p, err := repos.Participants.ByID(ctx, 1)
	if err != nil || p == nil {
		t.Fatalf("ByID = (%v, %v)", p, err)
	}
	if p.Age == nil || *p.Age != 24 {
		t.Errorf("Age = %v, want 24", p.Age)
	}
	if p.Instrument == nil || *p.Instrument != "violin" {
		t.Errorf("Instrument = %v, want violin", p.Instrument)
	}
	if p.PRMDEver == nil || !*p.PRMDEver || p.PRMDUpperArmLeft == nil || *p.PRMDUpperArmLeft {
		t.Errorf("pain data not stored: %+v", p.PainData)
	}
	if p.PRMDShoulderNeckRight != nil {
		t.Errorf("unset indicator stored as %v", *p.PRMDShoulderNeckRight)
	}

	dps, err := repos.Datapoints.ByMeasurement(ctx, 1)
	if err != nil {
		t.Fatalf("ByMeasurement failed: %v", err)
	}
	if len(dps) != 3 {
		t.Fatalf("Expected 3 datapoints, got %d", len(dps))
	}

	out := mustRunCLI(t, dbFile, "query", "--exp", "1", "--device", "mocap", "--timepoint", "pre", "--format", "csv")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "instrument") || !strings.Contains(lines[1], "mpa,P001,violin") {
		t.Errorf("Unexpected query output:\n%s", out)
	}

	out = mustRunCLI(t, dbFile, "query", "--exp", "1", "--device", "mocap", "--timepoint", "pre", "--deidentified", "--format", "csv")
	if strings.Contains(out, "instrument") || strings.Contains(out, "PRMD") {
		t.Errorf("De-identified output exposes participant metadata:\n%s", out)
	}

	exportFile := filepath.Join(t.TempDir(), "out.json")
	mustRunCLI(t, dbFile, "query", "--exp", "1", "--device", "mocap", "--timepoint", "pre", "--target", "elbow", "--axis", "X", "-f", "json", "-o", exportFile)
	data, err := os.ReadFile(exportFile)
	if err != nil {
		t.Fatalf("Expected export file: %v", err)
	}
	if !strings.Contains(string(data), `"dp_time_point": 2`) {
		t.Errorf("Unexpected JSON export:\n%s", data)
	}

	out = mustRunCLI(t, dbFile, "participant", "show", "--exp", "1", "--code", "P001")
	if !strings.Contains(out, "violin") {
		t.Errorf("participant show = %q", out)
	}

	out = mustRunCLI(t, dbFile, "participant", "codes", "1")
	if out != "P001\n" {
		t.Errorf("participant codes = %q", out)
	}

	out = mustRunCLI(t, dbFile, "measurement", "list", "--participant", "P001", "--format", "csv")
	if !strings.Contains(out, "1,mpa,P001,violin") {
		t.Errorf("measurement list = %q", out)
	}

	out = mustRunCLI(t, dbFile, "measurement", "show", "1")
	if !strings.Contains(out, "datapoints   3") {
		t.Errorf("measurement show = %q", out)
	}
}

func TestDatapointImportIsAtomic(t *testing.T) {
	dbFile := setupTestCLI(t)
	csvFile := filepath.Join(t.TempDir(), "dup.csv")
	os.WriteFile(csvFile, []byte("bow_stroke,up_down,time_point,value\n1,0,0,1\n1,0,0,2\n"), 0600)

	mustRunCLI(t, dbFile, "experiment", "add", "mpa", "clean")
	mustRunCLI(t, dbFile, "participant", "add", "1", "P001")
	mustRunCLI(t, dbFile, "measurement", "add", "1", "pre", "emg", "trapezius", "none", "mV")

	if _, err := runCLI(t, dbFile, "datapoint", "import", "1", csvFile); err == nil {
		t.Fatal("Expected import with duplicate samples to fail")
	}

	out := mustRunCLI(t, dbFile, "datapoint", "list", "1")
	if !strings.Contains(out, "No datapoints found.") {
		t.Errorf("Expected no datapoints after failed import, got %q", out)
	}

	if _, err := runCLI(t, dbFile, "datapoint", "import", "99", csvFile); err == nil {
		t.Error("Expected error for unknown measurement")
	}
}

func TestQueryErrors(t *testing.T) {
	dbFile := setupTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing experiment", []string{"query", "--device", "emg"}},
		{"out of order", []string{"query", "--exp", "1", "--target", "elbow"}},
		{"bad device", []string{"query", "--exp", "1", "--device", "eeg"}},
		{"bad format", []string{"query", "--exp", "1", "--format", "xml"}},
		{"deidentified without timepoint", []string{"query", "--exp", "1", "--device", "emg", "--deidentified"}},
		{"s3 url without key", []string{"query", "--exp", "1", "-o", "s3://lab-data"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, dbFile, tt.args...); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestQueryEmptyResult(t *testing.T) {
	dbFile := setupTestCLI(t)
	mustRunCLI(t, dbFile, "experiment", "add", "mpa", "clean")

	out := mustRunCLI(t, dbFile, "query", "--exp", "1")
	if !strings.Contains(out, "No rows found.") {
		t.Errorf("query on empty experiment = %q", out)
	}

	out = mustRunCLI(t, dbFile, "query", "--exp", "1", "--format", "csv")
	if !strings.HasPrefix(out, "experiment_id,experiment_name,participant_id") {
		t.Errorf("Expected CSV header for empty result, got %q", out)
	}
}

func TestMeasurementListFilters(t *testing.T) {
	dbFile := setupTestCLI(t)
	mustRunCLI(t, dbFile, "experiment", "add", "mpa", "clean")
	mustRunCLI(t, dbFile, "participant", "add", "1", "P001")
	mustRunCLI(t, dbFile, "measurement", "add", "1", "pre", "mocap", "elbow", "X", "deg")
	mustRunCLI(t, dbFile, "measurement", "add", "1", "post", "mocap", "elbow", "X", "deg")
	mustRunCLI(t, dbFile, "measurement", "add", "1", "pre", "mocap", "elbow", "Y", "deg")

	rowsOf := func(args ...string) []string {
		t.Helper()
		out := mustRunCLI(t, dbFile, append([]string{"measurement", "list", "-f", "csv"}, args...)...)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		return lines[1:]
	}

	if rows := rowsOf("--exp", "1", "--device", "mocap"); len(rows) != 3 {
		t.Errorf("--device mocap returned %d rows, want 3", len(rows))
	}

	rows := rowsOf("--exp", "1", "--timepoint", "pre")
	if len(rows) != 2 {
		t.Errorf("--timepoint pre returned %d rows, want 2", len(rows))
	}
	for _, r := range rows {
		if strings.Contains(r, ",post,") {
			t.Errorf("--timepoint pre returned a post row: %s", r)
		}
	}

	rows = rowsOf("--exp", "1", "--target", "elbow", "--axis", "Y")
	if len(rows) != 1 || !strings.HasSuffix(rows[0], ",elbow,Y,deg") {
		t.Errorf("--target elbow --axis Y = %v", rows)
	}

	rejected := []struct {
		name string
		args []string
	}{
		{"no selection", nil},
		{"experiment without filter", []string{"--exp", "1"}},
		{"device and timepoint", []string{"--exp", "1", "--device", "mocap", "--timepoint", "pre"}},
		{"device and target", []string{"--exp", "1", "--device", "mocap", "--target", "elbow"}},
		{"timepoint and target", []string{"--exp", "1", "--timepoint", "pre", "--target", "elbow"}},
		{"axis without target", []string{"--exp", "1", "--device", "mocap", "--axis", "Y"}},
		{"axis alone", []string{"--exp", "1", "--axis", "Y"}},
		{"participant with experiment", []string{"--participant", "P001", "--exp", "1"}},
		{"participant with device", []string{"--participant", "P001", "--device", "mocap"}},
		{"filter without experiment", []string{"--device", "mocap"}},
		{"unknown device", []string{"--exp", "1", "--device", "eeg"}},
		{"unknown timepoint", []string{"--exp", "1", "--timepoint", "during"}},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"measurement", "list"}, tt.args...)
			if out, err := runCLI(t, dbFile, args...); err == nil {
				t.Errorf("Expected error for %v, got output:\n%s", tt.args, out)
			}
		})
	}
}

func TestParticipantPainUnknownCode(t *testing.T) {
	dbFile := setupTestCLI(t)
	mustRunCLI(t, dbFile, "experiment", "add", "mpa", "clean")
	mustRunCLI(t, dbFile, "participant", "add", "1", "P001")

	_, err := runCLI(t, dbFile, "participant", "pain", "1", "P404", "--ever", "yes")
	if err == nil || !strings.Contains(err.Error(), "participant not found") {
		t.Fatalf("Expected participant not found error, got %v", err)
	}

	_, err = runCLI(t, dbFile, "participant", "pain", "2", "P001", "--ever", "yes")
	if err == nil || !strings.Contains(err.Error(), "participant not found") {
		t.Fatalf("Expected participant not found error for other experiment, got %v", err)
	}

	repos := openTestRepos(t, dbFile)
	p, err := repos.Participants.ByID(context.Background(), 1)
	if err != nil || p == nil {
		t.Fatalf("ByID = (%v, %v)", p, err)
	}
	if p.PRMDEver != nil {
		t.Errorf("P001 changed by a failed update: PRMDEver = %v", *p.PRMDEver)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
