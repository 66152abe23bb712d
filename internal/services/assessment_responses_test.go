package services

import (
	"context"
	"testing"

	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/repositories"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addScreening(t *testing.T, env *testEnv) int {
	t.Helper()

	structure := entities.AssessmentStructure{
		ID:    "screening",
		Title: "Screening",
		Sections: []entities.Section{{
			ID:    "s1",
			Title: "Basics",
			Questions: []entities.Question{
				{ID: "uses-go", Type: entities.SingleChoice, Options: []string{"Yes", "No"}, Validation: entities.Validation{Required: true}},
				{ID: "years", Type: entities.Numeric, Validation: entities.Validation{Required: true, Min: lo.ToPtr(0.0), Max: lo.ToPtr(40.0)},
					Conditional: entities.Conditional{DependsOn: lo.ToPtr("uses-go"), ShowIfValue: "Yes"}},
				{ID: "about", Type: entities.LongText, Validation: entities.Validation{MaxLength: lo.ToPtr(20)}},
			},
		}},
	}
	id, err := env.store.Assessments.Add(context.Background(), &entities.Assessment{JobID: lo.ToPtr(1), Title: "Screening", Structure: structure})
	require.NoError(t, err)
	return id
}

func TestResponseRecorder_Submit(t *testing.T) {
	env := newTestEnv(t)
	assessmentID := addScreening(t, env)
	recorder := NewResponseRecorder(env.store, env.store.Responses, fixedClock)
	ctx := context.Background()

	result := recorder.Submit(ctx, assessmentID, 5, map[string]any{
		"uses-go": "Yes",
		"years":   4.0,
		"about":   "Gopher",
		"unknown": "dropped",
	})
	require.True(t, result.Success, result.Errors)

	responses, err := recorder.CandidateResponses(ctx, 5)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, map[string]any{"uses-go": "Yes", "years": 4.0, "about": "Gopher"}, responses[0].Answers)
	assert.True(t, testNow.Equal(responses[0].SubmittedAt))
}

func TestResponseRecorder_HiddenQuestionsAreSkipped(t *testing.T) {
	env := newTestEnv(t)
	assessmentID := addScreening(t, env)
	recorder := NewResponseRecorder(env.store, env.store.Responses, fixedClock)

	result := recorder.Submit(context.Background(), assessmentID, 5, map[string]any{"uses-go": "No", "years": -3.0})
	require.True(t, result.Success, result.Errors)

	responses, err := recorder.CandidateResponses(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"uses-go": "No"}, responses[0].Answers)
}

func TestResponseRecorder_InvalidAnswers(t *testing.T) {
	env := newTestEnv(t)
	assessmentID := addScreening(t, env)
	recorder := NewResponseRecorder(env.store, env.store.Responses, fixedClock)
	ctx := context.Background()

	result := recorder.Submit(ctx, assessmentID, 5, map[string]any{
		"uses-go": "Yes",
		"years":   41,
		"about":   "far more than twenty characters",
	})

	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors, "years")
	assert.Contains(t, result.Errors, "about")

	result = recorder.Submit(ctx, assessmentID, 5, map[string]any{})
	assert.Equal(t, []string{"uses-go"}, lo.Keys(result.Errors))

	responses, err := recorder.CandidateResponses(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, responses)
}

func TestResponseRecorder_RejectedAnswersAreValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	assessmentID := addScreening(t, env)
	recorder := NewResponseRecorder(env.store, env.store.Responses, fixedClock)

	_, err := recorder.record(context.Background(), assessmentID, 5, map[string]any{"uses-go": "Maybe"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailure)
	assert.NotErrorIs(t, err, repositories.ErrStoreUnavailable)
	var invalid answerErrors
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid, "uses-go")
}

func TestResponseRecorder_Failures(t *testing.T) {
	env := newTestEnv(t)
	assessmentID := addScreening(t, env)
	recorder := NewResponseRecorder(env.store, env.store.Responses, fixedClock)
	ctx := context.Background()

	result := recorder.Submit(ctx, 999, 5, map[string]any{})
	assert.Equal(t, "Assessment not found.", result.Errors["general"])

	env.sim.FailWrites(true)
	result = recorder.Submit(ctx, assessmentID, 5, map[string]any{"uses-go": "No"})
	assert.Equal(t, "Failed to submit response.", result.Errors["general"])
}
