// ABOUTME: Composition entry point bundling the four entity repositories.
// ABOUTME: All repositories share the single connection handed in by the caller.
package storage

import "database/sql"

// Repositories groups the per-entity repositories built on one connection.
type Repositories struct {
	Experiments  *ExperimentRepository
	Participants *ParticipantRepository
	Measurements *MeasurementRepository
	Datapoints   *DatapointRepository
}

// New builds every repository on conn. The caller owns conn.
func New(conn *sql.DB) *Repositories {
	return &Repositories{
		Experiments:  NewExperimentRepository(conn),
		Participants: NewParticipantRepository(conn),
		Measurements: NewMeasurementRepository(conn),
		Datapoints:   NewDatapointRepository(conn),
	}
}
