package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/netsim"
	"github.com/maxaizer/talentflow/internal/repositories"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

type testEnv struct {
	store *repositories.Store
	sim   *netsim.Simulator
	bus   EventBus.Bus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sim := netsim.New(netsim.Config{})
	dbCtx, err := repositories.NewDbContext(filepath.Join(t.TempDir(), "talentflow.db"), sim)
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())
	t.Cleanup(func() { _ = dbCtx.Close() })

	return &testEnv{store: dbCtx.Store(), sim: sim, bus: EventBus.New()}
}

// seedJobs stores count jobs ranked count*1000, (count-1)*1000, ... 1000.
func (env *testEnv) seedJobs(t *testing.T, count int) []entities.Job {
	t.Helper()

	jobs := lo.Times(count, func(i int) entities.Job {
		job := entities.NewJob(fmt.Sprintf("Job %02d", i+1), []string{"Remote"}, testNow)
		job.Order = int64((count - i) * 1000)
		return job
	})
	require.NoError(t, env.store.Jobs.AddBatch(context.Background(), jobs))
	return jobs
}

func (env *testEnv) seedCandidate(t *testing.T, name string, stage entities.Stage, jobID int) entities.Candidate {
	t.Helper()

	candidate := entities.Candidate{
		Name:     name,
		Email:    lo.SnakeCase(name) + "@example.com",
		Stage:    stage,
		JobID:    jobID,
		Timeline: []entities.TimelineEntry{entities.NewTimelineEntry(stage, "", testNow.Add(-time.Hour))},
		Notes:    []entities.Note{},
	}
	_, err := env.store.Candidates.Add(context.Background(), &candidate)
	require.NoError(t, err)
	return candidate
}

func (env *testEnv) jobsController(t *testing.T) *JobsController {
	t.Helper()

	controller, err := NewJobsController(env.store.Jobs, env.bus, JobsOptions{
		PageSize:       DefaultPageSize,
		FilterDebounce: 10 * time.Millisecond,
		Clock:          fixedClock,
	})
	require.NoError(t, err)
	t.Cleanup(controller.Close)
	return controller
}

func (env *testEnv) candidatesController(t *testing.T) *CandidatesController {
	t.Helper()

	directory, err := NewJobDirectory(env.store.Jobs, env.bus)
	require.NoError(t, err)
	controller, err := NewCandidatesController(env.store.Candidates, directory, env.bus, fixedClock)
	require.NoError(t, err)
	t.Cleanup(controller.Close)
	return controller
}

func jobTitles(jobs []entities.Job) []string {
	return lo.Map(jobs, func(job entities.Job, _ int) string { return job.Title })
}
