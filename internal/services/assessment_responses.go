package services

import (
	"context"
	"fmt"
	"time"

	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/logger"
	"github.com/maxaizer/talentflow/internal/repositories"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// responseTransactor runs the answer check and the insert in one transaction,
// so a response is only stored against the assessment it was checked with.
type responseTransactor interface {
	Transaction(ctx context.Context, fn func(tx *repositories.Store) error) error
}

type responseReader interface {
	GetByCandidate(ctx context.Context, candidateID int) ([]entities.Response, error)
}

// answerErrors holds the rejected answers keyed by question id.
type answerErrors map[string]string

func (e answerErrors) Error() string {
	return fmt.Sprintf("%d invalid answers", len(e))
}

func (e answerErrors) Unwrap() error {
	return ErrValidationFailure
}

type ResponseRecorder struct {
	store     responseTransactor
	responses responseReader
	clock     func() time.Time
}

func NewResponseRecorder(store responseTransactor, responses responseReader, clock func() time.Time) *ResponseRecorder {
	if clock == nil {
		clock = utcNow
	}
	return &ResponseRecorder{store: store, responses: responses, clock: clock}
}

// Submit checks the answers against the questions the candidate could see and
// stores them. Errors are keyed by question id. Answers to hidden or unknown
// questions are dropped.
func (r *ResponseRecorder) Submit(ctx context.Context, assessmentID, candidateID int, answers map[string]any) MutationResult {
	defer observeAction("submit_response", time.Now())

	id, err := r.record(ctx, assessmentID, candidateID, answers)
	var invalid answerErrors
	switch {
	case err == nil:
		return succeeded(id)
	case errors.As(err, &invalid):
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeValidation).
			Infof("response of candidate %d to assessment %d rejected: %v", candidateID, assessmentID, err)
		return MutationResult{Errors: invalid}
	case errors.Is(err, repositories.ErrNotFound):
		return failedWith(generalErrorKey, "Assessment not found.")
	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to store response to assessment %d: %v", assessmentID, err)
		return failedWith(generalErrorKey, "Failed to submit response.")
	}
}

func (r *ResponseRecorder) record(ctx context.Context, assessmentID, candidateID int, answers map[string]any) (int, error) {
	var id int
	err := r.store.Transaction(ctx, func(tx *repositories.Store) error {
		assessment, err := tx.Assessments.Get(ctx, assessmentID)
		if err != nil {
			return err
		}

		accepted, err := acceptAnswers(assessment.Structure, answers)
		if err != nil {
			return err
		}

		id, err = tx.Responses.Add(ctx, &entities.Response{
			AssessmentID: assessmentID,
			CandidateID:  candidateID,
			Answers:      accepted,
			SubmittedAt:  r.clock(),
		})
		return err
	})
	return id, err
}

func acceptAnswers(structure entities.AssessmentStructure, answers map[string]any) (map[string]any, error) {
	accepted := make(map[string]any)
	invalid := make(answerErrors)
	for _, question := range structure.Questions() {
		if !question.IsVisible(answers) {
			continue
		}
		answer := answers[question.ID]
		if err := question.Check(answer); err != nil {
			invalid[question.ID] = err.Error()
			continue
		}
		if answer != nil {
			accepted[question.ID] = answer
		}
	}

	if len(invalid) > 0 {
		return nil, invalid
	}
	return accepted, nil
}

func (r *ResponseRecorder) CandidateResponses(ctx context.Context, candidateID int) ([]entities.Response, error) {
	responses, err := r.responses.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read responses of candidate %d", candidateID)
	}
	return responses, nil
}
