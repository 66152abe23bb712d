package services

import (
	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/state"
	"github.com/samber/lo"
)

type CandidatesState struct {
	Candidates []entities.Candidate
	Loading    bool
	// Error holds the message of the last failed action, or "" when it succeeded.
	Error string
}

func newCandidatesState() CandidatesState {
	return CandidatesState{Candidates: []entities.Candidate{}}
}

type setCandidatesLoading struct{ loading bool }

type setCandidates struct{ candidates []entities.Candidate }

type candidateReplaced struct{ candidate entities.Candidate }

type candidateNoteAdded struct {
	id   int
	note entities.Note
}

type setCandidatesError struct{ message string }

func (setCandidatesLoading) Type() string { return "SET_LOADING" }
func (setCandidates) Type() string { return "SET_CANDIDATES" }
func (candidateReplaced) Type() string { return "UPDATE_CANDIDATE" }
func (candidateNoteAdded) Type() string { return "ADD_NOTE" }
func (setCandidatesError) Type() string { return "SET_ERROR" }

func reduceCandidates(current CandidatesState, action state.Action) CandidatesState {
	switch a := action.(type) {
	case setCandidatesLoading:
		current.Loading = a.loading
	case setCandidates:
		current.Candidates = cloneCandidates(a.candidates)
		current.Error = ""
	case candidateReplaced:
		current.Candidates = lo.Map(current.Candidates, func(c entities.Candidate, _ int) entities.Candidate {
			if c.ID == a.candidate.ID {
				return a.candidate.Clone()
			}
			return c
		})
		current.Error = ""
	case candidateNoteAdded:
		current.Candidates = lo.Map(current.Candidates, func(c entities.Candidate, _ int) entities.Candidate {
			if c.ID == a.id {
				c = c.Clone()
				c.Notes = append(c.Notes, a.note)
			}
			return c
		})
		current.Error = ""
	case setCandidatesError:
		current.Error = a.message
	}
	return current
}

func cloneCandidates(candidates []entities.Candidate) []entities.Candidate {
	return lo.Map(candidates, func(c entities.Candidate, _ int) entities.Candidate { return c.Clone() })
}
