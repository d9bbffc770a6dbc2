// ABOUTME: Tests for the experiment hierarchy models.
// ABOUTME: Validates constructors, builders and measurement variants.
package models

import "testing"

func TestNewExperiment(t *testing.T) {
	e := NewExperiment("mpa", DataStateClean)
	if e.Name != "mpa" || e.DataState != DataStateClean {
		t.Errorf("unexpected experiment: %+v", e)
	}
	if e.IsUploadComplete() {
		t.Error("new experiment should not be upload complete")
	}
	if e.DataFolder != nil {
		t.Error("new experiment should have no data folder")
	}

	e.WithDataFolder("data/mpa")
	if e.DataFolder == nil || *e.DataFolder != "data/mpa" {
		t.Errorf("DataFolder = %v, want data/mpa", e.DataFolder)
	}

	done := true
	e.UploadComplete = &done
	if !e.IsUploadComplete() {
		t.Error("expected upload complete")
	}
}

func TestParticipantBuilders(t *testing.T) {
	p := NewParticipant(3, "P001").
		WithInstrument("violin").
		WithPain(PainData{PRMDEver: Bool(true), PRMDUpperArmLeft: Bool(false)})

	if p.ExperimentID != 3 || p.ParticipantID != "P001" {
		t.Errorf("unexpected identity: %+v", p)
	}
	if p.Instrument == nil || *p.Instrument != "violin" {
		t.Errorf("Instrument = %v, want violin", p.Instrument)
	}
	if p.PRMDEver == nil || !*p.PRMDEver {
		t.Error("PRMDEver should be true")
	}
	if p.PRMDUpperArmLeft == nil || *p.PRMDUpperArmLeft {
		t.Error("PRMDUpperArmLeft should be false")
	}
	if p.PRMDShoulderNeckRight != nil {
		t.Error("unset indicators should stay nil")
	}
}

func TestMeasurementVariants(t *testing.T) {
	emg := NewEMGMeasurement(7, TimepointPre, "trapezius", "none", "mV")
	if emg.Device != DeviceEMG {
		t.Errorf("Device = %s, want emg", emg.Device)
	}
	if emg.Target != "trapezius" || emg.Muscle != "trapezius" {
		t.Errorf("unexpected emg target: %+v", emg)
	}

	mocap := NewMocapMeasurement(7, TimepointPost, "elbow", "X", "deg")
	if mocap.Device != DeviceMocap {
		t.Errorf("Device = %s, want mocap", mocap.Device)
	}
	if mocap.Joint != "elbow" || mocap.Target != "elbow" || mocap.Axis != "X" {
		t.Errorf("unexpected mocap: %+v", mocap)
	}
	if mocap.ParticipantID != 7 || mocap.Timepoint != TimepointPost {
		t.Errorf("unexpected ownership: %+v", mocap)
	}
}

func TestNewDatapoint(t *testing.T) {
	dp := NewDatapoint(42, 1, 0, 5, 12.5)
	want := Datapoint{MeasurementID: 42, BowStroke: 1, UpDown: 0, TimePoint: 5, Value: 12.5}
	if *dp != want {
		t.Errorf("NewDatapoint = %+v, want %+v", *dp, want)
	}
}

func TestTagValidation(t *testing.T) {
	tests := []struct {
		name  string
		valid func(string) bool
		in    string
		want  bool
	}{
		{"raw", IsValidDataState, "raw", true},
		{"clean", IsValidDataState, "clean", true},
		{"processed", IsValidDataState, "processed", false},
		{"pre", IsValidTimepoint, "pre", true},
		{"post", IsValidTimepoint, "post", true},
		{"mid", IsValidTimepoint, "mid", false},
		{"emg", IsValidDevice, "emg", true},
		{"mocap", IsValidDevice, "mocap", true},
		{"upper case", IsValidDevice, "EMG", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.valid(tt.in); got != tt.want {
				t.Errorf("valid(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
