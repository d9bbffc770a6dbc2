// ABOUTME: Measurement table access: insert, lookups and participant-joined tables.
// ABOUTME: Every joined query links measurement.participant_id to participant.id.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
)

// measurementSelect is the column list of every joined measurement table.
// participant_db_id is the internal id stored on the measurement row;
// participant_id is the external code.
const measurementSelect = `
	SELECT
		experiment.id AS experiment_id,
		experiment.name AS experiment_name,
		participant.participant_id,
		participant.instrument,
		participant.PRMD_shoulder_neck_right,
		participant.PRMD_shoulder_neck_left,
		participant.PRMD_upper_arm_right,
		participant.PRMD_upper_arm_left,
		participant.PRMD_ever,
		measurement.id AS measurement_id,
		measurement.participant_id AS participant_db_id,
		measurement.timepoint,
		measurement.device,
		measurement.target,
		measurement.axis,
		measurement.unit
	FROM measurement
	JOIN participant ON measurement.participant_id = participant.id
	JOIN experiment ON participant.experiment_id = experiment.id`

// MeasurementRepository reads and writes the measurement table.
type MeasurementRepository struct {
	db *sql.DB
}

// NewMeasurementRepository creates a repository on db.
func NewMeasurementRepository(db *sql.DB) *MeasurementRepository {
	return &MeasurementRepository{db: db}
}

// Insert stores m and returns the assigned id. m.ID is set as well.
func (r *MeasurementRepository) Insert(ctx context.Context, m *models.Measurement) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO measurement (participant_id, timepoint, device, target, axis, unit)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ParticipantID, string(m.Timepoint), string(m.Device), m.Target, m.Axis, m.Unit)
	if err != nil {
		return 0, fmt.Errorf("insert measurement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert measurement: %w", err)
	}
	m.ID = id
	return id, nil
}

// ByID returns the measurement with the given id, or nil.
func (r *MeasurementRepository) ByID(ctx context.Context, id int64) (*models.Measurement, error) {
	var (
		m          models.Measurement
		tp, device string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, participant_id, timepoint, device, target, axis, unit
		FROM measurement
		WHERE id = ?`, id).
		Scan(&m.ID, &m.ParticipantID, &tp, &device, &m.Target, &m.Axis, &m.Unit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get measurement: %w", err)
	}
	m.Timepoint = models.Timepoint(tp)
	m.Device = models.Device(device)
	return &m, nil
}

// TargetByID returns only the target of a measurement.
func (r *MeasurementRepository) TargetByID(ctx context.Context, id int64) (string, bool, error) {
	var target string
	err := r.db.QueryRowContext(ctx, `SELECT target FROM measurement WHERE id = ?`, id).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get measurement target: %w", err)
	}
	return target, true, nil
}

// ByParticipantCode lists the measurements of every participant with the
// external code, across experiments. Use experiment_id to tell them apart.
func (r *MeasurementRepository) ByParticipantCode(ctx context.Context, code string) (*Table, error) {
	return r.table(ctx, measurementSelect+`
		WHERE participant.participant_id = ?
		ORDER BY measurement.id`, code)
}

// ByDevice lists the measurements of one device within an experiment.
func (r *MeasurementRepository) ByDevice(ctx context.Context, device models.Device, experimentID int64) (*Table, error) {
	return r.table(ctx, measurementSelect+`
		WHERE measurement.device = ? AND experiment.id = ?
		ORDER BY measurement.id`, string(device), experimentID)
}

// ByTimepoint lists the measurements of one timepoint within an experiment.
func (r *MeasurementRepository) ByTimepoint(ctx context.Context, tp models.Timepoint, experimentID int64) (*Table, error) {
	return r.table(ctx, measurementSelect+`
		WHERE measurement.timepoint = ? AND experiment.id = ?
		ORDER BY measurement.id`, string(tp), experimentID)
}

// ByTarget lists the measurements of one target within an experiment.
func (r *MeasurementRepository) ByTarget(ctx context.Context, target string, experimentID int64) (*Table, error) {
	return r.table(ctx, measurementSelect+`
		WHERE measurement.target = ? AND experiment.id = ?
		ORDER BY measurement.id`, target, experimentID)
}

// ByTargetAndAxis lists the measurements of one target and axis within an
// experiment.
func (r *MeasurementRepository) ByTargetAndAxis(ctx context.Context, target, axis string, experimentID int64) (*Table, error) {
	return r.table(ctx, measurementSelect+`
		WHERE measurement.target = ? AND measurement.axis = ? AND experiment.id = ?
		ORDER BY measurement.id`, target, axis, experimentID)
}

func (r *MeasurementRepository) table(ctx context.Context, query string, args ...any) (*Table, error) {
	t, err := queryTable(ctx, r.db, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return t, nil
}
