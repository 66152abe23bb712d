package services

import (
	"slices"

	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/state"
	"github.com/samber/lo"
)

const DefaultPageSize = 10

type JobFilters struct {
	Search string
	Status entities.JobStatus
	Tags   string
}

type JobsMeta struct {
	Total    int64
	Page     int
	PageSize int
}

type JobsState struct {
	List    []entities.Job
	Meta    JobsMeta
	Loading bool
	Filters JobFilters
}

func newJobsState(pageSize int) JobsState {
	return JobsState{
		List: []entities.Job{},
		Meta: JobsMeta{Page: 1, PageSize: pageSize},
	}
}

type setJobsLoading struct{ loading bool }

type setJobsAndMeta struct {
	jobs []entities.Job
	meta JobsMeta
}

// replaceJobs swaps the visible list and keeps the pagination metadata.
type replaceJobs struct{ jobs []entities.Job }

type jobCreated struct{ job entities.Job }

type jobPatched struct {
	id    int
	patch entities.JobPatch
}

type setJobFilters struct{ filters JobFilters }

type setJobsPage struct{ page int }

func (setJobsLoading) Type() string { return "SET_LOADING" }
func (setJobsAndMeta) Type() string { return "SET_JOBS_AND_META" }
func (replaceJobs) Type() string { return "REPLACE_JOBS" }
func (jobCreated) Type() string { return "JOB_CREATED" }
func (jobPatched) Type() string { return "UPDATE_JOB" }
func (setJobFilters) Type() string { return "SET_FILTERS" }
func (setJobsPage) Type() string { return "SET_PAGE" }

func reduceJobs(current JobsState, action state.Action) JobsState {
	switch a := action.(type) {
	case setJobsLoading:
		current.Loading = a.loading
	case setJobsAndMeta:
		current.List = cloneJobs(a.jobs)
		current.Meta = a.meta
	case replaceJobs:
		current.List = cloneJobs(a.jobs)
	case jobCreated:
		list := append([]entities.Job{a.job.Clone()}, current.List...)
		if current.Meta.PageSize > 0 && len(list) > current.Meta.PageSize {
			list = list[:current.Meta.PageSize]
		}
		current.List = list
		current.Meta.Total++
	case jobPatched:
		current.List = lo.Map(current.List, func(job entities.Job, _ int) entities.Job {
			if job.ID == a.id {
				return a.patch.Apply(job)
			}
			return job
		})
	case setJobFilters:
		current.Filters = a.filters
		current.Meta.Page = 1
	case setJobsPage:
		current.Meta.Page = max(a.page, 1)
	}
	return current
}

func cloneJobs(jobs []entities.Job) []entities.Job {
	return lo.Map(jobs, func(job entities.Job, _ int) entities.Job { return job.Clone() })
}

// moveJob removes the job at from and reinserts it at to. Nothing else changes
// its relative position.
func moveJob(jobs []entities.Job, from, to int) []entities.Job {
	moved := cloneJobs(jobs)
	job := moved[from]
	moved = slices.Delete(moved, from, from+1)
	return slices.Insert(moved, to, job)
}
