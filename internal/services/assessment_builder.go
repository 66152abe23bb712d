package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/maxaizer/talentflow/internal/logger"
	"github.com/maxaizer/talentflow/internal/repositories"
	"github.com/maxaizer/talentflow/internal/state"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultAssessmentTitle = "New Assessment"
	DefaultSectionTitle    = "New Section"
	DefaultQuestionText    = "New Question"
)

type assessmentStore interface {
	GetByJob(ctx context.Context, jobID int) (*entities.Assessment, error)
	Put(ctx context.Context, assessment *entities.Assessment) (int, error)
}

type loadAssessment struct{ structure entities.AssessmentStructure }

type setAssessmentTitle struct{ title string }

type addSection struct{ id string }

type setSectionTitle struct {
	section int
	title   string
}

type addQuestion struct {
	section int
	id      string
}

type updateQuestion struct {
	section  int
	index    int
	question entities.Question
}

type deleteQuestion struct {
	section int
	index   int
}

func (loadAssessment) Type() string { return "LOAD_ASSESSMENT" }
func (setAssessmentTitle) Type() string { return "UPDATE_TITLE" }
func (addSection) Type() string { return "ADD_SECTION" }
func (setSectionTitle) Type() string { return "UPDATE_SECTION_TITLE" }
func (addQuestion) Type() string { return "ADD_QUESTION" }
func (updateQuestion) Type() string { return "UPDATE_QUESTION" }
func (deleteQuestion) Type() string { return "DELETE_QUESTION" }

// reduceAssessment ignores actions that point at a missing section or question.
func reduceAssessment(current entities.AssessmentStructure, action state.Action) entities.AssessmentStructure {
	switch a := action.(type) {
	case loadAssessment:
		return a.structure.Clone()
	case setAssessmentTitle:
		current.Title = a.title
		return current
	}

	next := current.Clone()
	switch a := action.(type) {
	case addSection:
		next.Sections = append(next.Sections, entities.Section{ID: a.id, Title: DefaultSectionTitle, Questions: []entities.Question{}})
	case setSectionTitle:
		if !validIndex(next.Sections, a.section) {
			return current
		}
		next.Sections[a.section].Title = a.title
	case addQuestion:
		if !validIndex(next.Sections, a.section) {
			return current
		}
		next.Sections[a.section].Questions = append(next.Sections[a.section].Questions, entities.Question{
			ID:      a.id,
			Text:    DefaultQuestionText,
			Type:    entities.ShortText,
			Options: []string{},
		})
	case updateQuestion:
		if !validIndex(next.Sections, a.section) || !validIndex(next.Sections[a.section].Questions, a.index) {
			return current
		}
		question := a.question.Clone()
		question.ID = next.Sections[a.section].Questions[a.index].ID
		next.Sections[a.section].Questions[a.index] = question
	case deleteQuestion:
		if !validIndex(next.Sections, a.section) || !validIndex(next.Sections[a.section].Questions, a.index) {
			return current
		}
		next.Sections[a.section].Questions = slices.Delete(next.Sections[a.section].Questions, a.index, a.index+1)
	default:
		return current
	}
	return next
}

// AssessmentBuilder edits the assessment of one job. Every edit is saved once
// no further edit arrived within the autosave window.
type AssessmentBuilder struct {
	store        assessmentStore
	jobID        int
	state        *state.Container[entities.AssessmentStructure]
	autosave     *state.Debouncer
	saveMu       sync.Mutex
	assessmentID int
}

func NewAssessmentBuilder(store assessmentStore, jobID int, autosaveDelay time.Duration) *AssessmentBuilder {
	return &AssessmentBuilder{
		store:    store,
		jobID:    jobID,
		state:    state.New(entities.AssessmentStructure{}, reduceAssessment),
		autosave: state.NewDebouncer(autosaveDelay),
	}
}

// Load shows the stored assessment of the job, or a blank one when the job has
// none yet. Loading doesn't trigger a save.
func (b *AssessmentBuilder) Load(ctx context.Context) error {
	assessment, err := b.store.GetByJob(ctx, b.jobID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		b.state.Dispatch(loadAssessment{structure: entities.AssessmentStructure{
			ID:       uuid.NewString(),
			Title:    DefaultAssessmentTitle,
			Sections: []entities.Section{},
		}})
		return nil
	case err != nil:
		return errors.Wrapf(err, "failed to load assessment of job %d", b.jobID)
	}

	b.setAssessmentID(assessment.ID)
	b.state.Dispatch(loadAssessment{structure: assessment.Structure})
	return nil
}

func (b *AssessmentBuilder) State() entities.AssessmentStructure {
	return b.state.State()
}

func (b *AssessmentBuilder) Subscribe(fn func(entities.AssessmentStructure)) (unsubscribe func()) {
	return b.state.Subscribe(fn)
}

// AssessmentID is the stored id, or 0 before the first save.
func (b *AssessmentBuilder) AssessmentID() int {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()
	return b.assessmentID
}

func (b *AssessmentBuilder) SetTitle(title string) {
	b.edit(setAssessmentTitle{title: title})
}

func (b *AssessmentBuilder) AddSection() {
	b.edit(addSection{id: uuid.NewString()})
}

func (b *AssessmentBuilder) SetSectionTitle(section int, title string) {
	b.edit(setSectionTitle{section: section, title: title})
}

func (b *AssessmentBuilder) AddQuestion(section int) {
	b.edit(addQuestion{section: section, id: uuid.NewString()})
}

// UpdateQuestion replaces everything but the id of the question.
func (b *AssessmentBuilder) UpdateQuestion(section, index int, question entities.Question) {
	b.edit(updateQuestion{section: section, index: index, question: question})
}

func (b *AssessmentBuilder) DeleteQuestion(section, index int) {
	b.edit(deleteQuestion{section: section, index: index})
}

// Save stores the current assessment now. An untitled assessment isn't saved.
func (b *AssessmentBuilder) Save(ctx context.Context) error {
	defer observeAction("save_assessment", time.Now())

	structure := b.state.State()
	if structure.Title == "" {
		return nil
	}

	b.saveMu.Lock()
	defer b.saveMu.Unlock()

	assessment := entities.Assessment{
		JobID:     lo.ToPtr(b.jobID),
		Title:     structure.Title,
		Structure: structure.Clone(),
	}
	id, err := b.store.Put(ctx, &assessment)
	if err != nil {
		return errors.Wrapf(err, "failed to save assessment of job %d", b.jobID)
	}

	b.assessmentID = id
	log.Debugf("assessment %d of job %d saved", id, b.jobID)
	return nil
}

// Flush saves a pending edit without waiting for the autosave window.
func (b *AssessmentBuilder) Flush() {
	b.autosave.Flush()
}

// Close saves a pending edit and detaches the builder.
func (b *AssessmentBuilder) Close() {
	b.autosave.Flush()
	b.state.Close()
}

func (b *AssessmentBuilder) edit(action state.Action) {
	if !b.state.Dispatch(action) {
		return
	}
	if b.state.State().Title == "" {
		return
	}

	b.autosave.Trigger(func() {
		if err := b.Save(context.Background()); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("autosave failed: %v", err)
		}
	})
}

func (b *AssessmentBuilder) setAssessmentID(id int) {
	b.saveMu.Lock()
	defer b.saveMu.Unlock()
	b.assessmentID = id
}
