package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobs_AddAndGet(t *testing.T) {
	dbCtx, _ := newTestContext(t)
	jobs := dbCtx.Store().Jobs
	ctx := context.Background()

	job := entities.NewJob("Go Developer", []string{"Remote", "Full-time"}, testNow)
	id, err := jobs.Add(ctx, &job)
	require.NoError(t, err)
	assert.NotZero(t, id)

	stored, err := jobs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "go-developer", stored.Slug)
	assert.Equal(t, []string{"Remote", "Full-time"}, stored.Tags)
	assert.Equal(t, testNow.UnixMilli(), stored.Order)

	_, err = jobs.Get(ctx, id+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobs_DuplicateSlug(t *testing.T) {
	dbCtx, _ := newTestContext(t)
	jobs := dbCtx.Store().Jobs
	ctx := context.Background()
	addJobs(t, jobs, "Existing Title")

	duplicate := entities.NewJob("existing   title", nil, testNow)
	_, err := jobs.Add(ctx, &duplicate)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	count, err := jobs.Count(ctx, JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestJobs_Update(t *testing.T) {
	dbCtx, _ := newTestContext(t)
	jobs := dbCtx.Store().Jobs
	ctx := context.Background()
	added := addJobs(t, jobs, "Designer", "Analyst")

	err := jobs.Update(ctx, added[0].ID, entities.JobPatch{
		Title:  lo.ToPtr("Product Designer"),
		Status: lo.ToPtr(entities.JobArchived),
	})
	require.NoError(t, err)

	stored, err := jobs.Get(ctx, added[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Product Designer", stored.Title)
	assert.Equal(t, "product-designer", stored.Slug)
	assert.Equal(t, entities.JobArchived, stored.Status)
	assert.Equal(t, added[0].Order, stored.Order)

	err = jobs.Update(ctx, added[0].ID, entities.JobPatch{Title: lo.ToPtr("Analyst")})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	err = jobs.Update(ctx, 999, entities.JobPatch{Status: lo.ToPtr(entities.JobActive)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobs_FindFirstPage(t *testing.T) {
	dbCtx, _ := newTestContext(t)
	jobs := dbCtx.Store().Jobs
	ctx := context.Background()

	titles := lo.Times(25, func(i int) string { return fmt.Sprintf("Job %d", i+1) })
	addJobs(t, jobs, titles...)

	page, err := jobs.Find(ctx, JobQuery{OrderBy: "order", Desc: true, Limit: 10})
	require.NoError(t, err)
	total, err := jobs.Count(ctx, JobFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(25), total)
	assert.Equal(t, titles[:10], lo.Map(page, func(job entities.Job, _ int) string { return job.Title }))
	assert.Equal(t, int64(25000), page[0].Order)
	assert.Equal(t, int64(16000), page[9].Order)

	third, err := jobs.Find(ctx, JobQuery{OrderBy: "order", Desc: true, Offset: 20, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, third, 5)
}

func TestJobs_Filters(t *testing.T) {
	dbCtx, _ := newTestContext(t)
	jobs := dbCtx.Store().Jobs
	ctx := context.Background()

	for _, job := range []entities.Job{
		entities.NewJob("Senior Go Developer", []string{"Remote", "Engineering"}, testNow),
		entities.NewJob("Go Mentor 100%", []string{"Full-time"}, testNow),
		entities.NewJob("Marketing Lead", []string{"Marketing", "Remote"}, testNow),
	} {
		_, err := jobs.Add(ctx, &job)
		require.NoError(t, err)
	}
	require.NoError(t, jobs.Update(ctx, 3, entities.JobPatch{Status: lo.ToPtr(entities.JobArchived)}))

	titles := func(filter JobFilter) []string {
		found, err := jobs.Find(ctx, JobQuery{Filter: filter, OrderBy: "id"})
		require.NoError(t, err)
		return lo.Map(found, func(job entities.Job, _ int) string { return job.Title })
	}

	assert.Equal(t, []string{"Senior Go Developer", "Go Mentor 100%"}, titles(JobFilter{Search: "GO "}))
	assert.Equal(t, []string{"Go Mentor 100%"}, titles(JobFilter{Search: "100%"}))
	assert.Equal(t, []string{"Marketing Lead"}, titles(JobFilter{Status: entities.JobArchived}))
	assert.Equal(t, []string{"Senior Go Developer", "Marketing Lead"}, titles(JobFilter{Tag: "remo"}))
	assert.Equal(t, []string{"Senior Go Developer"}, titles(JobFilter{Tag: "remote", Status: entities.JobActive}))
	assert.Empty(t, titles(JobFilter{Tag: "_"}))
}

func TestJobs_FindRejectsUnknownColumn(t *testing.T) {
	dbCtx, _ := newTestContext(t)

	_, err := dbCtx.Store().Jobs.Find(context.Background(), JobQuery{OrderBy: "title; DROP TABLE jobs"})
	assert.Error(t, err)
}

func TestJobs_SetOrdersIsAtomic(t *testing.T) {
	dbCtx, _ := newTestContext(t)
	jobs := dbCtx.Store().Jobs
	ctx := context.Background()
	added := addJobs(t, jobs, "A", "B", "C")

	err := jobs.SetOrders(ctx, []JobOrder{
		{ID: added[0].ID, Order: 1},
		{ID: 999, Order: 2},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := jobs.Get(ctx, added[0].ID)
	require.NoError(t, err)
	assert.Equal(t, added[0].Order, stored.Order, "first write must be rolled back")

	require.NoError(t, jobs.SetOrders(ctx, []JobOrder{
		{ID: added[2].ID, Order: 30},
		{ID: added[0].ID, Order: 20},
		{ID: added[1].ID, Order: 10},
	}))
	found, err := jobs.Find(ctx, JobQuery{OrderBy: "order", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, lo.Map(found, func(job entities.Job, _ int) string { return job.Title }))
}

func TestJobs_StoreUnavailable(t *testing.T) {
	dbCtx, sim := newTestContext(t)
	jobs := dbCtx.Store().Jobs
	sim.FailReads(true)

	_, err := jobs.Count(context.Background(), JobFilter{})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
