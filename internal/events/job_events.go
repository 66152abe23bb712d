package events

import "github.com/maxaizer/talentflow/internal/entities"

var (
	JobCreatedTopic    = "JobCreatedEvent"
	JobUpdatedTopic    = "JobUpdatedEvent"
	JobsReorderedTopic = "JobsReorderedEvent"
)

type JobCreated struct {
	Job entities.Job
}

type JobUpdated struct {
	Job entities.Job
}

// JobsReordered is published once per Reorder, after it settled.
type JobsReordered struct {
	JobIDs     []int
	RolledBack bool
}
