package events

import "github.com/maxaizer/talentflow/internal/entities"

var (
	CandidateStageChangedTopic = "CandidateStageChangedEvent"
	CandidateNoteAddedTopic    = "CandidateNoteAddedEvent"
)

type CandidateStageChanged struct {
	CandidateID int
	From        entities.Stage
	To          entities.Stage
}

type CandidateNoteAdded struct {
	CandidateID int
	Note        entities.Note
}
