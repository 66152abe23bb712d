package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addCandidate(t *testing.T, candidates *Candidates, name, email string, stage entities.Stage) entities.Candidate {
	t.Helper()

	candidate := entities.Candidate{
		Name:     name,
		Email:    email,
		Stage:    stage,
		JobID:    1,
		Timeline: []entities.TimelineEntry{entities.NewTimelineEntry(stage, "", testNow)},
		Notes:    []entities.Note{},
	}
	_, err := candidates.Add(context.Background(), &candidate)
	require.NoError(t, err)
	return candidate
}

func TestCandidates_FindAndCount(t *testing.T) {
	dbCtx, _ := newTestContext(t)
	candidates := dbCtx.Store().Candidates
	ctx := context.Background()

	addCandidate(t, candidates, "Anna Ivanova", "anna@example.com", entities.StageApplied)
	addCandidate(t, candidates, "Boris Petrov", "boris@example.com", entities.StageScreening)
	addCandidate(t, candidates, "Carla Garcia", "carla@mail.org", entities.StageApplied)

	found, err := candidates.Find(ctx, CandidateQuery{Stage: entities.StageApplied, Search: "EXAMPLE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Anna Ivanova"}, lo.Map(found, func(c entities.Candidate, _ int) string { return c.Name }))

	count, err := candidates.Count(ctx, CandidateQuery{Search: "ar"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	byStage, err := candidates.CountByStage(ctx)
	require.NoError(t, err)
	assert.Len(t, byStage, len(entities.Stages))
	assert.Equal(t, int64(2), byStage[entities.StageApplied])
	assert.Equal(t, int64(1), byStage[entities.StageScreening])
	assert.Zero(t, byStage[entities.StageHired])

	all, err := candidates.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCandidates_Modify(t *testing.T) {
	dbCtx, _ := newTestContext(t)
	candidates := dbCtx.Store().Candidates
	ctx := context.Background()
	candidate := addCandidate(t, candidates, "Anna Ivanova", "anna@example.com", entities.StageApplied)

	later := testNow.Add(time.Hour)
	updated, err := candidates.Modify(ctx, candidate.ID, func(c *entities.Candidate) error {
		c.MoveTo(entities.StageScreening, "Phone call done", later)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, entities.StageScreening, updated.Stage)
	require.Len(t, updated.Timeline, 2)
	assert.Equal(t, entities.StageScreening, updated.Timeline[1].Stage)
	assert.Equal(t, "Phone call done", updated.Timeline[1].Note)
	assert.True(t, later.Equal(updated.Timeline[1].Date))

	stored, err := candidates.Get(ctx, candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Timeline, stored.Timeline)
}

func TestCandidates_ModifyFailures(t *testing.T) {
	dbCtx, sim := newTestContext(t)
	candidates := dbCtx.Store().Candidates
	ctx := context.Background()
	candidate := addCandidate(t, candidates, "Anna Ivanova", "anna@example.com", entities.StageApplied)

	_, err := candidates.Modify(ctx, 999, func(*entities.Candidate) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	rejected := errors.New("rejected")
	_, err = candidates.Modify(ctx, candidate.ID, func(c *entities.Candidate) error {
		c.Stage = entities.StageHired
		return rejected
	})
	assert.ErrorIs(t, err, rejected)

	sim.FailWrites(true)
	_, err = candidates.Modify(ctx, candidate.ID, func(c *entities.Candidate) error {
		c.MoveTo(entities.StageOffer, "", testNow)
		return nil
	})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	sim.FailWrites(false)

	stored, err := candidates.Get(ctx, candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StageApplied, stored.Stage)
	assert.Len(t, stored.Timeline, 1)
}
