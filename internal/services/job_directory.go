package services

import (
	"context"
	"strconv"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/events"
	"github.com/maxaizer/talentflow/internal/repositories"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const UnassignedJobTitle = "Unassigned"

type jobLookup interface {
	Get(ctx context.Context, id int) (*entities.Job, error)
}

// JobDirectory resolves the job a candidate applied to. The reference is
// lookup-only, so a job that can't be found resolves to UnassignedJobTitle.
type JobDirectory struct {
	jobs  jobLookup
	cache *gocache.Cache
}

func NewJobDirectory(jobs jobLookup, bus EventBus.Bus) (*JobDirectory, error) {
	d := &JobDirectory{jobs: jobs, cache: gocache.New(10*time.Minute, 20*time.Minute)}

	if err := bus.Subscribe(events.JobCreatedTopic, d.onJobCreated); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.JobUpdatedTopic, d.onJobUpdated); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *JobDirectory) Title(ctx context.Context, jobID int) string {
	key := strconv.Itoa(jobID)
	if cached, found := d.cache.Get(key); found {
		return cached.(string)
	}

	title := UnassignedJobTitle
	job, err := d.jobs.Get(ctx, jobID)
	switch {
	case err == nil:
		title = job.Title
	case !errors.Is(err, repositories.ErrNotFound):
		// not cached, the next lookup retries
		log.Warnf("failed to look up job %d: %v", jobID, err)
		return title
	}

	d.cache.Set(key, title, gocache.DefaultExpiration)
	return title
}

func (d *JobDirectory) onJobCreated(event events.JobCreated) {
	d.cache.Set(strconv.Itoa(event.Job.ID), event.Job.Title, gocache.DefaultExpiration)
}

func (d *JobDirectory) onJobUpdated(event events.JobUpdated) {
	d.cache.Set(strconv.Itoa(event.Job.ID), event.Job.Title, gocache.DefaultExpiration)
}
