package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/netsim"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestContext(t *testing.T) (*DbContext, *netsim.Simulator) {
	t.Helper()

	sim := netsim.New(netsim.Config{})
	dbCtx, err := NewDbContext(filepath.Join(t.TempDir(), "talentflow.db"), sim)
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx, sim
}

func addJobs(t *testing.T, jobs *Jobs, titles ...string) []entities.Job {
	t.Helper()

	added := make([]entities.Job, 0, len(titles))
	for i, title := range titles {
		job := entities.NewJob(title, nil, testNow)
		job.Order = int64((len(titles) - i) * 1000)
		_, err := jobs.Add(context.Background(), &job)
		require.NoError(t, err)
		added = append(added, job)
	}
	return added
}
