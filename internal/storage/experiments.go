// ABOUTME: Experiment table access: insert, upload bookkeeping and lookups.
// ABOUTME: Scalar lookups report absence with ok=false or a nil slice, never an error.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
)

// ExperimentRepository reads and writes the experiment table.
type ExperimentRepository struct {
	db *sql.DB
}

// NewExperimentRepository creates a repository on db.
func NewExperimentRepository(db *sql.DB) *ExperimentRepository {
	return &ExperimentRepository{db: db}
}

// Insert stores e and returns the assigned id. e.ID is set as well.
func (r *ExperimentRepository) Insert(ctx context.Context, e *models.Experiment) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO experiment (name, data_state, data_folder, upload_complete)
		VALUES (?, ?, ?, ?)`,
		e.Name, string(e.DataState), e.DataFolder, e.UploadComplete)
	if err != nil {
		return 0, fmt.Errorf("insert experiment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert experiment: %w", err)
	}
	e.ID = id
	return id, nil
}

// MarkUploadComplete records the folder an experiment was ingested from and
// sets its upload flag. A second call overwrites the stored folder.
func (r *ExperimentRepository) MarkUploadComplete(ctx context.Context, relativePath string, experimentID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE experiment
		SET data_folder = ?, upload_complete = 1
		WHERE id = ?`,
		relativePath, experimentID)
	if err != nil {
		return fmt.Errorf("mark upload complete: %w", err)
	}
	return nil
}

// All lists every experiment. An empty store yields an empty table.
func (r *ExperimentRepository) All(ctx context.Context) (*Table, error) {
	t, err := queryTable(ctx, r.db, `
		SELECT id, name, data_state, data_folder, upload_complete
		FROM experiment
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	return t, nil
}

// ByID returns the experiment with the given id, or nil if there is none.
func (r *ExperimentRepository) ByID(ctx context.Context, id int64) (*models.Experiment, error) {
	var (
		e          models.Experiment
		state      string
		dataFolder sql.NullString
		complete   sql.NullBool
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, data_state, data_folder, upload_complete
		FROM experiment
		WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &state, &dataFolder, &complete)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get experiment: %w", err)
	}

	e.DataState = models.DataState(state)
	e.DataFolder = nullToStringPtr(dataFolder)
	e.UploadComplete = nullToBoolPtr(complete)
	return &e, nil
}

// IDByName returns the id of the first experiment named name.
func (r *ExperimentRepository) IDByName(ctx context.Context, name string) (int64, bool, error) {
	return r.scalarID(ctx, `SELECT id FROM experiment WHERE name = ? ORDER BY id LIMIT 1`, name)
}

// IDByNameAndDataState returns the id of the experiment identified by name
// and data state.
func (r *ExperimentRepository) IDByNameAndDataState(ctx context.Context, name string, state models.DataState) (int64, bool, error) {
	return r.scalarID(ctx, `SELECT id FROM experiment WHERE name = ? AND data_state = ?`, name, string(state))
}

func (r *ExperimentRepository) scalarID(ctx context.Context, query string, args ...any) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get experiment id: %w", err)
	}
	return id, true, nil
}

// CompleteDataFolders lists the data folders of experiments whose upload
// finished. Experiments without a folder are skipped. It returns nil, not an
// empty slice, when there are none.
func (r *ExperimentRepository) CompleteDataFolders(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT data_folder FROM experiment
		WHERE upload_complete = 1 AND data_folder IS NOT NULL
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list data folders: %w", err)
	}
	defer rows.Close()

	var folders []string
	for rows.Next() {
		var folder string
		if err := rows.Scan(&folder); err != nil {
			return nil, fmt.Errorf("scan data folder: %w", err)
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}
