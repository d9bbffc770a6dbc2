// ABOUTME: Datapoint model, a single sample of a measurement series.
// ABOUTME: Samples are keyed by bow stroke, stroke direction and time point.
package models

// Datapoint is one sample. (MeasurementID, BowStroke, UpDown, TimePoint)
// identifies it.
type Datapoint struct {
	ID            int64   `json:"id"`
	MeasurementID int64   `json:"measurement_id"`
	BowStroke     int     `json:"bow_stroke"`
	UpDown        int     `json:"up_down"`
	TimePoint     int     `json:"time_point"`
	Value         float64 `json:"value"`
}

// NewDatapoint creates a sample for the given measurement.
func NewDatapoint(measurementID int64, bowStroke, upDown, timePoint int, value float64) *Datapoint {
	return &Datapoint{
		MeasurementID: measurementID,
		BowStroke:     bowStroke,
		UpDown:        upDown,
		TimePoint:     timePoint,
		Value:         value,
	}
}
