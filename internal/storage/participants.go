// ABOUTME: Participant table access: registration, pain metadata updates and lookups.
// ABOUTME: Participants are addressed by internal id or by (experiment id, external code).
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
)

// ParticipantRepository reads and writes the participant table.
type ParticipantRepository struct {
	db *sql.DB
}

// NewParticipantRepository creates a repository on db.
func NewParticipantRepository(db *sql.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// Insert registers p and returns the assigned id. p.ID is set as well.
func (r *ParticipantRepository) Insert(ctx context.Context, p *models.Participant) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO participant (
			participant_id, experiment_id, age, height_cm, weight_kg, instrument,
			PRMD_shoulder_neck_right, PRMD_shoulder_neck_left,
			PRMD_upper_arm_right, PRMD_upper_arm_left, PRMD_ever
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ParticipantID, p.ExperimentID, p.Age, p.HeightCM, p.WeightKG, p.Instrument,
		p.PRMDShoulderNeckRight, p.PRMDShoulderNeckLeft,
		p.PRMDUpperArmRight, p.PRMDUpperArmLeft, p.PRMDEver)
	if err != nil {
		return 0, fmt.Errorf("insert participant: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert participant: %w", err)
	}
	p.ID = id
	return id, nil
}

// UpdatePainData writes the instrument and the five pain indicators of p to
// the participant with code p.ParticipantID in experiment experimentID.
// No other column is touched. Matching no participant is not an error.
func (r *ParticipantRepository) UpdatePainData(ctx context.Context, p *models.Participant, experimentID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE participant
		SET instrument = ?, PRMD_shoulder_neck_right = ?, PRMD_shoulder_neck_left = ?,
			PRMD_upper_arm_right = ?, PRMD_upper_arm_left = ?, PRMD_ever = ?
		WHERE experiment_id = ? AND participant_id = ?`,
		p.Instrument, p.PRMDShoulderNeckRight, p.PRMDShoulderNeckLeft,
		p.PRMDUpperArmRight, p.PRMDUpperArmLeft, p.PRMDEver,
		experimentID, p.ParticipantID)
	if err != nil {
		return fmt.Errorf("update pain data: %w", err)
	}
	return nil
}

// ByExperimentName lists the participants of every experiment called name,
// with the experiment's name and data state attached. Experiment names are
// stored lower-case, so name is lower-cased before matching.
func (r *ParticipantRepository) ByExperimentName(ctx context.Context, name string) (*Table, error) {
	t, err := queryTable(ctx, r.db, `
		SELECT
			participant.id,
			participant.participant_id,
			participant.experiment_id,
			participant.age,
			participant.height_cm,
			participant.weight_kg,
			participant.instrument,
			participant.PRMD_shoulder_neck_right,
			participant.PRMD_shoulder_neck_left,
			participant.PRMD_upper_arm_right,
			participant.PRMD_upper_arm_left,
			participant.PRMD_ever,
			experiment.name AS experiment_name,
			experiment.data_state AS experiment_data_state
		FROM participant
		JOIN experiment ON participant.experiment_id = experiment.id
		WHERE experiment.name = ?
		ORDER BY participant.id`,
		strings.ToLower(name))
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return t, nil
}

// ByID returns the participant with the given internal id, or nil.
func (r *ParticipantRepository) ByID(ctx context.Context, id int64) (*models.Participant, error) {
	var (
		p                  models.Participant
		age                sql.NullInt64
		height, weight     sql.NullFloat64
		instrument         sql.NullString
		snr, snl, uar, ual sql.NullBool
		ever               sql.NullBool
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, participant_id, experiment_id, age, height_cm, weight_kg, instrument,
			PRMD_shoulder_neck_right, PRMD_shoulder_neck_left,
			PRMD_upper_arm_right, PRMD_upper_arm_left, PRMD_ever
		FROM participant
		WHERE id = ?`, id).
		Scan(&p.ID, &p.ParticipantID, &p.ExperimentID, &age, &height, &weight, &instrument,
			&snr, &snl, &uar, &ual, &ever)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get participant: %w", err)
	}

	p.Age = nullToIntPtr(age)
	p.HeightCM = nullToFloatPtr(height)
	p.WeightKG = nullToFloatPtr(weight)
	p.Instrument = nullToStringPtr(instrument)
	p.PainData = models.PainData{
		PRMDShoulderNeckRight: nullToBoolPtr(snr),
		PRMDShoulderNeckLeft:  nullToBoolPtr(snl),
		PRMDUpperArmRight:     nullToBoolPtr(uar),
		PRMDUpperArmLeft:      nullToBoolPtr(ual),
		PRMDEver:              nullToBoolPtr(ever),
	}
	return &p, nil
}

// DBID resolves an external participant code within an experiment to the
// participant's internal id.
func (r *ParticipantRepository) DBID(ctx context.Context, code string, experimentID int64) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM participant
		WHERE participant_id = ? AND experiment_id = ?`,
		code, experimentID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get participant id: %w", err)
	}
	return id, true, nil
}

// ParticipantIDs lists the distinct external codes registered in an
// experiment. It returns nil, not an empty slice, when there are none.
func (r *ParticipantRepository) ParticipantIDs(ctx context.Context, experimentID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT participant_id FROM participant
		WHERE experiment_id = ?
		ORDER BY participant_id`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("list participant ids: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan participant id: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
