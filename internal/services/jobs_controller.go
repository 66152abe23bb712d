package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/events"
	"github.com/maxaizer/talentflow/internal/logger"
	"github.com/maxaizer/talentflow/internal/metrics"
	"github.com/maxaizer/talentflow/internal/repositories"
	"github.com/maxaizer/talentflow/internal/state"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type jobRepository interface {
	Get(ctx context.Context, id int) (*entities.Job, error)
	Add(ctx context.Context, job *entities.Job) (int, error)
	Update(ctx context.Context, id int, patch entities.JobPatch) error
	SetOrders(ctx context.Context, orders []repositories.JobOrder) error
	Find(ctx context.Context, query repositories.JobQuery) ([]entities.Job, error)
	Count(ctx context.Context, filter repositories.JobFilter) (int64, error)
}

type JobInput struct {
	Title string
	Tags  []string
}

type JobsPage struct {
	Jobs []entities.Job
	Meta JobsMeta
}

type JobsOptions struct {
	PageSize       int
	FilterDebounce time.Duration
	Clock          func() time.Time
}

type JobsController struct {
	jobs       jobRepository
	bus        EventBus.Bus
	state      *state.Container[JobsState]
	debouncer  *state.Debouncer
	validate   *validator.Validate
	clock      func() time.Time
	pageSize   int
	requestSeq atomic.Uint64
}

func NewJobsController(jobs jobRepository, bus EventBus.Bus, opts JobsOptions) (*JobsController, error) {
	if jobs == nil {
		return nil, errors.New("job repository is nil")
	}
	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Clock == nil {
		opts.Clock = utcNow
	}

	return &JobsController{
		jobs:      jobs,
		bus:       bus,
		state:     state.New(newJobsState(opts.PageSize), reduceJobs),
		debouncer: state.NewDebouncer(opts.FilterDebounce),
		validate:  validator.New(),
		clock:     opts.Clock,
		pageSize:  opts.PageSize,
	}, nil
}

func (c *JobsController) State() JobsState {
	return c.state.State()
}

func (c *JobsController) Subscribe(fn func(JobsState)) (unsubscribe func()) {
	return c.state.Subscribe(fn)
}

// Close drops pending reloads and every response that arrives afterwards.
func (c *JobsController) Close() {
	c.debouncer.Stop()
	c.state.Close()
}

// List reads one page of jobs, most recently ranked first.
func (c *JobsController) List(ctx context.Context, filters JobFilters, page int) (*JobsPage, error) {
	defer observeAction("list_jobs", time.Now())

	page = max(page, 1)
	filter := repositories.JobFilter{Search: filters.Search, Status: filters.Status, Tag: filters.Tags}

	total, err := c.jobs.Count(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count jobs")
	}

	jobs, err := c.jobs.Find(ctx, repositories.JobQuery{
		Filter:  filter,
		OrderBy: "order",
		Desc:    true,
		Offset:  (page - 1) * c.pageSize,
		Limit:   c.pageSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find jobs")
	}

	return &JobsPage{Jobs: jobs, Meta: JobsMeta{Total: total, Page: page, PageSize: c.pageSize}}, nil
}

// Load lists the page the state points at and dispatches it. A response is
// dropped when a newer Load started in the meantime.
func (c *JobsController) Load(ctx context.Context) error {
	seq := c.requestSeq.Add(1)
	current := c.state.State()

	c.state.Dispatch(setJobsLoading{loading: true})
	page, err := c.List(ctx, current.Filters, current.Meta.Page)

	if seq != c.requestSeq.Load() {
		log.Debugf("dropping stale jobs response #%d", seq)
		return err
	}
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to fetch jobs: %v", err)
		c.state.Dispatch(setJobsLoading{loading: false})
		return err
	}

	c.state.Dispatch(setJobsAndMeta{jobs: page.Jobs, meta: page.Meta})
	c.state.Dispatch(setJobsLoading{loading: false})
	return nil
}

// SetFilters resets the page to the first one and reloads after the filter
// debounce window.
func (c *JobsController) SetFilters(ctx context.Context, filters JobFilters) {
	c.state.Dispatch(setJobFilters{filters: filters})

	reloadCtx := context.WithoutCancel(ctx)
	c.debouncer.Trigger(func() {
		_ = c.Load(reloadCtx)
	})
}

func (c *JobsController) SetPage(ctx context.Context, page int) error {
	c.state.Dispatch(setJobsPage{page: page})
	return c.Load(ctx)
}

func (c *JobsController) Create(ctx context.Context, input JobInput) MutationResult {
	defer observeAction("create_job", time.Now())

	job := entities.NewJob(input.Title, input.Tags, c.clock())
	if err := c.validate.Struct(job); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeValidation).Infof("job rejected: %v", err)
		return jobFailure(err)
	}

	id, err := c.jobs.Add(ctx, &job)
	if err != nil {
		c.logStoreError("failed to create job", err)
		return jobFailure(err)
	}

	c.state.Dispatch(jobCreated{job: job})
	c.bus.Publish(events.JobCreatedTopic, events.JobCreated{Job: job.Clone()})
	return succeeded(id)
}

func (c *JobsController) Update(ctx context.Context, id int, patch entities.JobPatch) MutationResult {
	defer observeAction("update_job", time.Now())

	current, err := c.jobs.Get(ctx, id)
	if err != nil {
		c.logStoreError("failed to load job for update", err)
		return jobFailure(err)
	}

	updated := patch.Apply(*current)
	if err = c.validate.Struct(updated); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeValidation).Infof("job patch rejected: %v", err)
		return jobFailure(err)
	}

	if err = c.jobs.Update(ctx, id, patch); err != nil {
		c.logStoreError("failed to update job", err)
		return jobFailure(err)
	}

	c.state.Dispatch(jobPatched{id: id, patch: patch})
	c.bus.Publish(events.JobUpdatedTopic, events.JobUpdated{Job: updated})
	return succeeded(id)
}

// Reorder moves the job at sourceIndex to destinationIndex. The moved list is
// shown at once; if the new ranking can't be stored the list given by the
// caller is restored as a whole.
func (c *JobsController) Reorder(ctx context.Context, list []entities.Job, sourceIndex, destinationIndex int) bool {
	defer observeAction("reorder_jobs", time.Now())

	if sourceIndex == destinationIndex {
		metrics.ReordersCounter.WithLabelValues("noop").Inc()
		return true
	}
	if !validIndex(list, sourceIndex) || !validIndex(list, destinationIndex) {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeValidation).
			Errorf("%v: can't move job from %d to %d in a list of %d", ErrValidationFailure,
				sourceIndex, destinationIndex, len(list))
		return false
	}

	snapshot := cloneJobs(list)
	reordered := moveJob(list, sourceIndex, destinationIndex)

	// ranks are anchored at now, so the reordered page moves above every other job
	anchor := c.clock().UnixMilli()
	orders := make([]repositories.JobOrder, len(reordered))
	for i := range reordered {
		reordered[i].Order = anchor - int64(i)
		orders[i] = repositories.JobOrder{ID: reordered[i].ID, Order: reordered[i].Order}
	}

	err := state.RunOptimistic(ctx, c.state, state.Saga{
		Apply: replaceJobs{jobs: reordered},
		Persist: func(ctx context.Context) error {
			return c.jobs.SetOrders(ctx, orders)
		},
		Restore: replaceJobs{jobs: snapshot},
	})

	jobIDs := lo.Map(reordered, func(job entities.Job, _ int) int { return job.ID })
	c.bus.Publish(events.JobsReorderedTopic, events.JobsReordered{JobIDs: jobIDs, RolledBack: err != nil})

	if err != nil {
		metrics.ReordersCounter.WithLabelValues("rollback").Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeRollback).
			Errorf("reorder failed, rolling back: %v", err)
		return false
	}

	metrics.ReordersCounter.WithLabelValues("success").Inc()
	return true
}

// DragEnd applies a drag of a job between rank positions of the visible list.
func (c *JobsController) DragEnd(ctx context.Context, move Move) bool {
	if move.IsNoop() {
		return true
	}
	return c.Reorder(ctx, c.state.State().List, move.Source.Index, move.Destination.Index)
}

func (c *JobsController) logStoreError(msg string, err error) {
	if errors.Is(err, repositories.ErrConstraintViolation) || errors.Is(err, repositories.ErrNotFound) {
		log.Warnf("%s: %v", msg, err)
		return
	}
	log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("%s: %v", msg, err)
}

func validIndex[T any](list []T, index int) bool {
	return index >= 0 && index < len(list)
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func observeAction(action string, start time.Time) {
	metrics.ActionDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}
