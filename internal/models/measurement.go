// ABOUTME: Measurement model for one recorded channel of one participant.
// ABOUTME: Includes EMG and motion-capture variants carrying a muscle or joint label.
package models

// Timepoint names a collection phase relative to the intervention.
type Timepoint string

const (
	TimepointPre  Timepoint = "pre"
	TimepointPost Timepoint = "post"
)

// Device is the measurement modality.
type Device string

const (
	DeviceEMG   Device = "emg"
	DeviceMocap Device = "mocap"
)

// AllTimepoints lists the known timepoints.
var AllTimepoints = []Timepoint{TimepointPre, TimepointPost}

// AllDevices lists the known devices.
var AllDevices = []Device{DeviceEMG, DeviceMocap}

// IsValidTimepoint checks if s names a known timepoint.
func IsValidTimepoint(s string) bool {
	for _, tp := range AllTimepoints {
		if string(tp) == s {
			return true
		}
	}
	return false
}

// IsValidDevice checks if s names a known device.
func IsValidDevice(s string) bool {
	for _, d := range AllDevices {
		if string(d) == s {
			return true
		}
	}
	return false
}

// Measurement is a single channel/session. ParticipantID references the
// participant's internal id, not the external code. Immutable once stored.
type Measurement struct {
	ID            int64     `json:"id"`
	ParticipantID int64     `json:"participant_id"`
	Timepoint     Timepoint `json:"timepoint"`
	Device        Device    `json:"device"`
	Target        string    `json:"target"`
	Axis          string    `json:"axis"`
	Unit          string    `json:"unit"`
}

// NewMeasurement creates a Measurement for the given participant.
func NewMeasurement(participantID int64, tp Timepoint, device Device, target, axis, unit string) *Measurement {
	return &Measurement{
		ParticipantID: participantID,
		Timepoint:     tp,
		Device:        device,
		Target:        target,
		Axis:          axis,
		Unit:          unit,
	}
}

// EMGMeasurement is a Measurement recorded on a muscle.
type EMGMeasurement struct {
	Measurement
	Muscle string `json:"muscle"`
}

// NewEMGMeasurement creates an EMG channel; the muscle is the target.
func NewEMGMeasurement(participantID int64, tp Timepoint, muscle, axis, unit string) *EMGMeasurement {
	return &EMGMeasurement{
		Measurement: *NewMeasurement(participantID, tp, DeviceEMG, muscle, axis, unit),
		Muscle:      muscle,
	}
}

// MocapMeasurement is a Measurement recorded on a joint.
type MocapMeasurement struct {
	Measurement
	Joint string `json:"joint"`
}

// NewMocapMeasurement creates a motion-capture channel; the joint is the target.
func NewMocapMeasurement(participantID int64, tp Timepoint, joint, axis, unit string) *MocapMeasurement {
	return &MocapMeasurement{
		Measurement: *NewMeasurement(participantID, tp, DeviceMocap, joint, axis, unit),
		Joint:       joint,
	}
}
