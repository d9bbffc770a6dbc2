// ABOUTME: Shared test helpers for repository tests.
// ABOUTME: Provides an isolated in-memory database and a seeded experiment hierarchy.
package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/kgaertn/PAH-PCA-LDA/internal/db"
	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
)

func setupTestDB(t *testing.T) (*sql.DB, *Repositories) {
	t.Helper()
	conn, err := db.Open(context.Background(), db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, New(conn)
}

// fixture holds the ids of a small two-participant hierarchy.
type fixture struct {
	experimentID int64
	p1, p2       int64
	mocapPre     int64
	mocapPreY    int64
	mocapPost    int64
	emgPre       int64
}

func seedFixture(t *testing.T, repos *Repositories) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture
	var err error

	f.experimentID, err = repos.Experiments.Insert(ctx, models.NewExperiment("mpa", models.DataStateClean))
	if err != nil {
		t.Fatalf("insert experiment: %v", err)
	}

	f.p1 = mustInsertParticipant(t, repos, models.NewParticipant(f.experimentID, "P001").
		WithInstrument("violin").
		WithPain(models.PainData{PRMDEver: models.Bool(true)}))
	f.p2 = mustInsertParticipant(t, repos, models.NewParticipant(f.experimentID, "P002"))

	f.mocapPre = mustInsertMeasurement(t, repos, models.NewMeasurement(f.p1, models.TimepointPre, models.DeviceMocap, "elbow", "X", "deg"))
	f.mocapPreY = mustInsertMeasurement(t, repos, models.NewMeasurement(f.p1, models.TimepointPre, models.DeviceMocap, "elbow", "Y", "deg"))
	f.mocapPost = mustInsertMeasurement(t, repos, models.NewMeasurement(f.p2, models.TimepointPost, models.DeviceMocap, "wrist", "X", "deg"))
	f.emgPre = mustInsertMeasurement(t, repos, &models.NewEMGMeasurement(f.p2, models.TimepointPre, "trapezius", "none", "mV").Measurement)

	for _, mid := range []int64{f.mocapPre, f.mocapPreY, f.mocapPost, f.emgPre} {
		if err := repos.Datapoints.InsertMany(ctx, series(mid, 3)); err != nil {
			t.Fatalf("insert datapoints: %v", err)
		}
	}
	return f
}

func mustInsertParticipant(t *testing.T, repos *Repositories, p *models.Participant) int64 {
	t.Helper()
	id, err := repos.Participants.Insert(context.Background(), p)
	if err != nil {
		t.Fatalf("insert participant: %v", err)
	}
	return id
}

func mustInsertMeasurement(t *testing.T, repos *Repositories, m *models.Measurement) int64 {
	t.Helper()
	id, err := repos.Measurements.Insert(context.Background(), m)
	if err != nil {
		t.Fatalf("insert measurement: %v", err)
	}
	return id
}

// series returns n datapoints of one bow stroke with time points 0..n-1.
func series(measurementID int64, n int) []*models.Datapoint {
	dps := make([]*models.Datapoint, n)
	for i := range dps {
		dps[i] = models.NewDatapoint(measurementID, 1, 0, i, float64(i)*1.5)
	}
	return dps
}

func equalColumns(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
