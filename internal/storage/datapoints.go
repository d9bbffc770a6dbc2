// ABOUTME: Datapoint table access: single and batch inserts plus the joined read catalog.
// ABOUTME: Joined tables walk datapoint -> measurement -> participant -> experiment.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
)

// Datapoint tables share one join path. The identified view adds the
// participant's instrument and pain indicators; the de-identified view
// leaves them out.
const (
	datapointIdentifiedColumns = `
	SELECT
		experiment.id AS experiment_id,
		experiment.name AS experiment_name,
		participant.participant_id,
		participant.instrument,
		participant.PRMD_shoulder_neck_right,
		participant.PRMD_shoulder_neck_left,
		participant.PRMD_upper_arm_right,
		participant.PRMD_upper_arm_left,
		participant.PRMD_ever,`

	datapointDeidentifiedColumns = `
	SELECT
		experiment.id AS experiment_id,
		experiment.name AS experiment_name,
		participant.participant_id,`

	datapointMeasurementColumns = `
		measurement.id AS measurement_id,
		measurement.timepoint AS measurement_time_point,
		measurement.device,
		measurement.target,
		measurement.axis,
		measurement.unit,
		datapoint.id AS datapoint_id,
		datapoint.bow_stroke,
		datapoint.up_down,
		datapoint.time_point AS dp_time_point,
		datapoint.value
	FROM datapoint
	JOIN measurement ON datapoint.measurement_id = measurement.id
	JOIN participant ON measurement.participant_id = participant.id
	JOIN experiment ON participant.experiment_id = experiment.id`

	datapointOrder = `
	ORDER BY measurement.id, datapoint.bow_stroke, datapoint.up_down, datapoint.time_point`

	datapointIdentifiedSelect   = datapointIdentifiedColumns + datapointMeasurementColumns
	datapointDeidentifiedSelect = datapointDeidentifiedColumns + datapointMeasurementColumns

	insertDatapoint = `
		INSERT INTO datapoint (measurement_id, bow_stroke, up_down, time_point, value)
		VALUES (?, ?, ?, ?, ?)`
)

// DatapointRepository reads and writes the datapoint table.
type DatapointRepository struct {
	db *sql.DB
}

// NewDatapointRepository creates a repository on db.
func NewDatapointRepository(db *sql.DB) *DatapointRepository {
	return &DatapointRepository{db: db}
}

// Insert stores a single datapoint.
func (r *DatapointRepository) Insert(ctx context.Context, dp *models.Datapoint) error {
	_, err := r.db.ExecContext(ctx, insertDatapoint,
		dp.MeasurementID, dp.BowStroke, dp.UpDown, dp.TimePoint, dp.Value)
	if err != nil {
		return fmt.Errorf("insert datapoint: %w", err)
	}
	return nil
}

// InsertMany stores all datapoints in one transaction. Either every row is
// committed or none is.
func (r *DatapointRepository) InsertMany(ctx context.Context, dps []*models.Datapoint) (err error) {
	if len(dps) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin datapoint batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertDatapoint)
	if err != nil {
		return fmt.Errorf("prepare datapoint batch: %w", err)
	}
	defer stmt.Close()

	for i, dp := range dps {
		if _, err = stmt.ExecContext(ctx,
			dp.MeasurementID, dp.BowStroke, dp.UpDown, dp.TimePoint, dp.Value); err != nil {
			return fmt.Errorf("insert datapoint %d of %d: %w", i+1, len(dps), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit datapoint batch: %w", err)
	}
	return nil
}

// ByID returns the datapoint with the given id, or nil.
func (r *DatapointRepository) ByID(ctx context.Context, id int64) (*models.Datapoint, error) {
	var dp models.Datapoint
	err := r.db.QueryRowContext(ctx, `
		SELECT id, measurement_id, bow_stroke, up_down, time_point, value
		FROM datapoint
		WHERE id = ?`, id).
		Scan(&dp.ID, &dp.MeasurementID, &dp.BowStroke, &dp.UpDown, &dp.TimePoint, &dp.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get datapoint: %w", err)
	}
	return &dp, nil
}

// ByMeasurement returns every datapoint of one measurement.
func (r *DatapointRepository) ByMeasurement(ctx context.Context, measurementID int64) ([]*models.Datapoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, measurement_id, bow_stroke, up_down, time_point, value
		FROM datapoint
		WHERE measurement_id = ?
		ORDER BY bow_stroke, up_down, time_point`, measurementID)
	if err != nil {
		return nil, fmt.Errorf("list datapoints: %w", err)
	}
	defer rows.Close()

	var dps []*models.Datapoint
	for rows.Next() {
		var dp models.Datapoint
		if err := rows.Scan(&dp.ID, &dp.MeasurementID, &dp.BowStroke, &dp.UpDown, &dp.TimePoint, &dp.Value); err != nil {
			return nil, fmt.Errorf("scan datapoint: %w", err)
		}
		dps = append(dps, &dp)
	}
	return dps, rows.Err()
}

// ByExperiment lists every datapoint of an experiment.
func (r *DatapointRepository) ByExperiment(ctx context.Context, experimentID int64) (*Table, error) {
	return r.table(ctx, datapointIdentifiedSelect+`
	WHERE experiment.id = ?`+datapointOrder, experimentID)
}

// ByExperimentAndDevice lists the datapoints of one device in an experiment.
func (r *DatapointRepository) ByExperimentAndDevice(ctx context.Context, experimentID int64, device models.Device) (*Table, error) {
	return r.table(ctx, datapointIdentifiedSelect+`
	WHERE experiment.id = ? AND measurement.device = ?`+datapointOrder,
		experimentID, string(device))
}

// ByExperimentDeviceTimepoint lists the datapoints of one device at one
// timepoint in an experiment.
func (r *DatapointRepository) ByExperimentDeviceTimepoint(ctx context.Context, experimentID int64, device models.Device, tp models.Timepoint) (*Table, error) {
	return r.table(ctx, datapointIdentifiedSelect+`
	WHERE experiment.id = ? AND measurement.device = ? AND measurement.timepoint = ?`+datapointOrder,
		experimentID, string(device), string(tp))
}

// DeidentifiedByExperimentDeviceTimepoint is ByExperimentDeviceTimepoint
// without the instrument and pain indicator columns.
func (r *DatapointRepository) DeidentifiedByExperimentDeviceTimepoint(ctx context.Context, experimentID int64, device models.Device, tp models.Timepoint) (*Table, error) {
	return r.table(ctx, datapointDeidentifiedSelect+`
	WHERE experiment.id = ? AND measurement.device = ? AND measurement.timepoint = ?`+datapointOrder,
		experimentID, string(device), string(tp))
}

// ByExperimentDeviceTimepointTarget narrows ByExperimentDeviceTimepoint to
// one target.
func (r *DatapointRepository) ByExperimentDeviceTimepointTarget(ctx context.Context, experimentID int64, device models.Device, tp models.Timepoint, target string) (*Table, error) {
	return r.table(ctx, datapointIdentifiedSelect+`
	WHERE experiment.id = ? AND measurement.device = ? AND measurement.timepoint = ?
		AND measurement.target = ?`+datapointOrder,
		experimentID, string(device), string(tp), target)
}

// ByExperimentDeviceTimepointTargetAxis narrows
// ByExperimentDeviceTimepointTarget to one axis.
func (r *DatapointRepository) ByExperimentDeviceTimepointTargetAxis(ctx context.Context, experimentID int64, device models.Device, tp models.Timepoint, target, axis string) (*Table, error) {
	return r.table(ctx, datapointIdentifiedSelect+`
	WHERE experiment.id = ? AND measurement.device = ? AND measurement.timepoint = ?
		AND measurement.target = ? AND measurement.axis = ?`+datapointOrder,
		experimentID, string(device), string(tp), target, axis)
}

func (r *DatapointRepository) table(ctx context.Context, query string, args ...any) (*Table, error) {
	t, err := queryTable(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list datapoints: %w", err)
	}
	return t, nil
}
