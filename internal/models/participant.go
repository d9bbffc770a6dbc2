// ABOUTME: Participant model with demographics and pain-indicator (PRMD) fields.
// ABOUTME: Participants are registered first and receive pain metadata in a later update.
package models

// Participant is one subject within one experiment. ParticipantID is the
// external code ("P001") and is only unique within ExperimentID.
type Participant struct {
	ID            int64    `json:"id"`
	ParticipantID string   `json:"participant_id"`
	ExperimentID  int64    `json:"experiment_id"`
	Age           *int     `json:"age,omitempty"`
	HeightCM      *float64 `json:"height_cm,omitempty"`
	WeightKG      *float64 `json:"weight_kg,omitempty"`
	Instrument    *string  `json:"instrument,omitempty"`
	PainData
}

// PainData holds the playing-related musculoskeletal disorder indicators.
// Each field is independently nullable.
type PainData struct {
	PRMDShoulderNeckRight *bool `json:"PRMD_shoulder_neck_right"`
	PRMDShoulderNeckLeft  *bool `json:"PRMD_shoulder_neck_left"`
	PRMDUpperArmRight     *bool `json:"PRMD_upper_arm_right"`
	PRMDUpperArmLeft      *bool `json:"PRMD_upper_arm_left"`
	PRMDEver              *bool `json:"PRMD_ever"`
}

// NewParticipant registers a participant code within an experiment.
func NewParticipant(experimentID int64, code string) *Participant {
	return &Participant{ExperimentID: experimentID, ParticipantID: code}
}

// WithInstrument sets the instrument the participant plays.
func (p *Participant) WithInstrument(instrument string) *Participant {
	p.Instrument = &instrument
	return p
}

// WithPain attaches pain indicators.
func (p *Participant) WithPain(pain PainData) *Participant {
	p.PainData = pain
	return p
}

// Bool returns a pointer to b, for filling nullable indicator fields.
func Bool(b bool) *bool {
	return &b
}
