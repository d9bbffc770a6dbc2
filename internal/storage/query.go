// ABOUTME: Filter cascade over the datapoint read catalog.
// ABOUTME: Picks the narrowest joined query matching the filters that are set.
package storage

import (
	"context"
	"errors"

	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
)

// DatapointQuery selects datapoints of one experiment. Each filter requires
// the one before it: Device, then Timepoint, then Target, then Axis.
type DatapointQuery struct {
	ExperimentID int64
	Device       models.Device
	Timepoint    models.Timepoint
	Target       string
	Axis         string
	// Deidentified drops instrument and pain columns. Only available for
	// device and timepoint filters without target or axis.
	Deidentified bool
}

var (
	ErrNoExperiment      = errors.New("experiment id is required")
	ErrFilterOrder       = errors.New("filters must be given in order: device, timepoint, target, axis")
	ErrDeidentifiedScope = errors.New("de-identified output needs device and timepoint and no target or axis")
)

// Validate reports whether the filter combination maps onto a catalog query.
func (q DatapointQuery) Validate() error {
	if q.ExperimentID == 0 {
		return ErrNoExperiment
	}
	if (q.Timepoint != "" && q.Device == "") ||
		(q.Target != "" && q.Timepoint == "") ||
		(q.Axis != "" && q.Target == "") {
		return ErrFilterOrder
	}
	if q.Deidentified && (q.Timepoint == "" || q.Target != "") {
		return ErrDeidentifiedScope
	}
	return nil
}

// Query runs the catalog query matching q.
func (r *DatapointRepository) Query(ctx context.Context, q DatapointQuery) (*Table, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	switch {
	case q.Axis != "":
		return r.ByExperimentDeviceTimepointTargetAxis(ctx, q.ExperimentID, q.Device, q.Timepoint, q.Target, q.Axis)
	case q.Target != "":
		return r.ByExperimentDeviceTimepointTarget(ctx, q.ExperimentID, q.Device, q.Timepoint, q.Target)
	case q.Timepoint != "" && q.Deidentified:
		return r.DeidentifiedByExperimentDeviceTimepoint(ctx, q.ExperimentID, q.Device, q.Timepoint)
	case q.Timepoint != "":
		return r.ByExperimentDeviceTimepoint(ctx, q.ExperimentID, q.Device, q.Timepoint)
	case q.Device != "":
		return r.ByExperimentAndDevice(ctx, q.ExperimentID, q.Device)
	}
	return r.ByExperiment(ctx, q.ExperimentID)
}
