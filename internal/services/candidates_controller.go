package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
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

type candidateRepository interface {
	All(ctx context.Context) ([]entities.Candidate, error)
	Modify(ctx context.Context, id int, fn func(candidate *entities.Candidate) error) (*entities.Candidate, error)
}

type CandidatesController struct {
	candidates candidateRepository
	directory  *JobDirectory
	bus        EventBus.Bus
	state      *state.Container[CandidatesState]
	clock      func() time.Time
}

func NewCandidatesController(candidates candidateRepository, directory *JobDirectory, bus EventBus.Bus,
	clock func() time.Time) (*CandidatesController, error) {

	if candidates == nil {
		return nil, errors.New("candidate repository is nil")
	}
	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	if clock == nil {
		clock = utcNow
	}

	return &CandidatesController{
		candidates: candidates,
		directory:  directory,
		bus:        bus,
		state:      state.New(newCandidatesState(), reduceCandidates),
		clock:      clock,
	}, nil
}

func (c *CandidatesController) State() CandidatesState {
	return c.state.State()
}

func (c *CandidatesController) Subscribe(fn func(CandidatesState)) (unsubscribe func()) {
	return c.state.Subscribe(fn)
}

func (c *CandidatesController) Close() {
	c.state.Close()
}

func (c *CandidatesController) List(ctx context.Context) ([]entities.Candidate, error) {
	defer observeAction("list_candidates", time.Now())

	candidates, err := c.candidates.All(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list candidates")
	}
	return candidates, nil
}

// Load reads every candidate into the state.
func (c *CandidatesController) Load(ctx context.Context) error {
	c.state.Dispatch(setCandidatesLoading{loading: true})
	defer c.state.Dispatch(setCandidatesLoading{loading: false})

	candidates, err := c.List(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to fetch candidates: %v", err)
		c.state.Dispatch(setCandidatesError{message: "Failed to load candidates."})
		return err
	}

	c.state.Dispatch(setCandidates{candidates: candidates})
	return nil
}

// TransitionStage stores the new stage first and only then reflects the stored
// record in the state. A failed write leaves the candidate as it was.
func (c *CandidatesController) TransitionStage(ctx context.Context, id int, stage entities.Stage, note string) error {
	defer observeAction("transition_stage", time.Now())

	if _, err := entities.ToStage(string(stage)); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailure, err)
	}

	var from entities.Stage
	updated, err := c.candidates.Modify(ctx, id, func(candidate *entities.Candidate) error {
		from = candidate.Stage
		candidate.MoveTo(stage, note, c.clock())
		return nil
	})
	if err != nil {
		return c.failCandidateAction(fmt.Sprintf("failed to move candidate %d to %s", id, stage), err)
	}

	c.state.Dispatch(candidateReplaced{candidate: *updated})
	metrics.StageTransitionsCounter.WithLabelValues(string(stage)).Inc()
	c.bus.Publish(events.CandidateStageChangedTopic, events.CandidateStageChanged{
		CandidateID: id,
		From:        from,
		To:          stage,
	})
	return nil
}

// AddNote appends a note to the stored candidate, then the same note to the
// one in the state. Blank text is ignored.
func (c *CandidatesController) AddNote(ctx context.Context, id int, text string) error {
	defer observeAction("add_note", time.Now())

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	note := entities.Note{ID: uuid.NewString(), Text: text, Date: c.clock()}
	_, err := c.candidates.Modify(ctx, id, func(candidate *entities.Candidate) error {
		candidate.Notes = append(candidate.Notes, note)
		return nil
	})
	if err != nil {
		return c.failCandidateAction(fmt.Sprintf("failed to add note to candidate %d", id), err)
	}

	c.state.Dispatch(candidateNoteAdded{id: id, note: note})
	c.bus.Publish(events.CandidateNoteAddedTopic, events.CandidateNoteAdded{CandidateID: id, Note: note})
	return nil
}

// DragEnd moves a card between stage columns. Buckets are stage names; order
// inside a column isn't stored, so a drop into the same column does nothing.
func (c *CandidatesController) DragEnd(ctx context.Context, move Move, note string) error {
	if move.IsNoop() || !move.ChangesBucket() {
		return nil
	}

	stage, err := entities.ToStage(move.Destination.Bucket)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailure, err)
	}
	return c.TransitionStage(ctx, move.ItemID, stage, note)
}

// Filter matches name or email against search, and the stage when one is given.
func (c *CandidatesController) Filter(search string, stage entities.Stage) []entities.Candidate {
	return lo.Filter(c.state.State().Candidates, func(candidate entities.Candidate, _ int) bool {
		return (stage == "" || candidate.Stage == stage) && candidate.Matches(search)
	})
}

// Board groups the candidates into one column per stage, empty columns included.
func (c *CandidatesController) Board() map[entities.Stage][]entities.Candidate {
	grouped := lo.GroupBy(c.state.State().Candidates, func(candidate entities.Candidate) entities.Stage {
		return candidate.Stage
	})

	board := make(map[entities.Stage][]entities.Candidate, len(entities.Stages))
	for _, stage := range entities.Stages {
		board[stage] = lo.Ternary(grouped[stage] != nil, grouped[stage], []entities.Candidate{})
	}
	return board
}

func (c *CandidatesController) JobTitle(ctx context.Context, candidate entities.Candidate) string {
	if c.directory == nil {
		return UnassignedJobTitle
	}
	return c.directory.Title(ctx, candidate.JobID)
}

func (c *CandidatesController) failCandidateAction(msg string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		log.Warnf("%s: %v", msg, err)
		c.state.Dispatch(setCandidatesError{message: "Candidate not found."})
		return err
	}

	log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("%s: %v", msg, err)
	c.state.Dispatch(setCandidatesError{message: "Failed to update candidate."})
	return fmt.Errorf("%w: %w", ErrPersistFailure, err)
}
