package entities

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type QuestionType string

const (
	ShortText    QuestionType = "short-text"
	LongText     QuestionType = "long-text"
	SingleChoice QuestionType = "single-choice"
	MultiChoice  QuestionType = "multi-choice"
	Numeric      QuestionType = "numeric"
	FileUpload   QuestionType = "file-upload"
)

var QuestionTypes = []QuestionType{ShortText, LongText, SingleChoice, MultiChoice, Numeric, FileUpload}

var ErrInvalidAnswer = errors.New("invalid answer")

type Validation struct {
	Required  bool     `json:"required"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
}

type Conditional struct {
	DependsOn   *string `json:"dependsOn"`
	ShowIfValue string  `json:"showIfValue"`
}

type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Options     []string     `json:"options"`
	Validation  Validation   `json:"validation"`
	Conditional Conditional  `json:"conditional"`
}

type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

type AssessmentStructure struct {
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Assessment.JobID is nil for an assessment not linked to any job.
type Assessment struct {
	ID        int                 `json:"id"`
	JobID     *int                `gorm:"uniqueIndex" json:"jobId"`
	Title     string              `json:"title"`
	Structure AssessmentStructure `gorm:"serializer:json" json:"structure"`
}

type Response struct {
	ID           int            `json:"id"`
	AssessmentID int            `gorm:"index" json:"assessmentId"`
	CandidateID  int            `gorm:"index" json:"candidateId"`
	Answers      map[string]any `gorm:"serializer:json" json:"answers"`
	SubmittedAt  time.Time      `json:"submittedAt"`
}

func (s AssessmentStructure) Clone() AssessmentStructure {
	if s.Sections == nil {
		return s
	}
	s.Sections = lo.Map(s.Sections, func(section Section, _ int) Section {
		section.Questions = lo.Map(section.Questions, func(q Question, _ int) Question {
			return q.Clone()
		})
		return section
	})
	return s
}

func (s AssessmentStructure) Questions() []Question {
	return lo.FlatMap(s.Sections, func(section Section, _ int) []Question {
		return section.Questions
	})
}

func (q Question) Clone() Question {
	q.Options = slices.Clone(q.Options)
	if q.Validation.Min != nil {
		q.Validation.Min = lo.ToPtr(*q.Validation.Min)
	}
	if q.Validation.Max != nil {
		q.Validation.Max = lo.ToPtr(*q.Validation.Max)
	}
	if q.Validation.MaxLength != nil {
		q.Validation.MaxLength = lo.ToPtr(*q.Validation.MaxLength)
	}
	if q.Conditional.DependsOn != nil {
		q.Conditional.DependsOn = lo.ToPtr(*q.Conditional.DependsOn)
	}
	return q
}

// IsVisible reports whether the question is shown for the given answers.
// A dependency on an unknown question hides nothing.
func (q Question) IsVisible(answers map[string]any) bool {
	if q.Conditional.DependsOn == nil || *q.Conditional.DependsOn == "" {
		return true
	}
	answer, ok := answers[*q.Conditional.DependsOn]
	if !ok {
		return false
	}
	return lo.Contains(answerStrings(answer), q.Conditional.ShowIfValue)
}

func (q Question) Check(answer any) error {
	if isBlank(answer) {
		if q.Validation.Required {
			return errors.Wrapf(ErrInvalidAnswer, "question %q is required", q.ID)
		}
		return nil
	}

	switch q.Type {
	case ShortText, LongText:
		text, ok := answer.(string)
		if !ok {
			return errors.Wrapf(ErrInvalidAnswer, "question %q expects text", q.ID)
		}
		if q.Validation.MaxLength != nil && len([]rune(text)) > *q.Validation.MaxLength {
			return errors.Wrapf(ErrInvalidAnswer, "question %q allows at most %d characters", q.ID, *q.Validation.MaxLength)
		}
	case Numeric:
		value, err := answerNumber(answer)
		if err != nil {
			return errors.Wrapf(ErrInvalidAnswer, "question %q expects a number", q.ID)
		}
		if q.Validation.Min != nil && value < *q.Validation.Min {
			return errors.Wrapf(ErrInvalidAnswer, "question %q must be at least %v", q.ID, *q.Validation.Min)
		}
		if q.Validation.Max != nil && value > *q.Validation.Max {
			return errors.Wrapf(ErrInvalidAnswer, "question %q must be at most %v", q.ID, *q.Validation.Max)
		}
	case SingleChoice, MultiChoice:
		values := answerStrings(answer)
		if q.Type == SingleChoice && len(values) != 1 {
			return errors.Wrapf(ErrInvalidAnswer, "question %q expects one option", q.ID)
		}
		if unknown, found := lo.Find(values, func(v string) bool { return !lo.Contains(q.Options, v) }); found {
			return errors.Wrapf(ErrInvalidAnswer, "question %q has no option %q", q.ID, unknown)
		}
	case FileUpload:
		if _, ok := answer.(string); !ok {
			return errors.Wrapf(ErrInvalidAnswer, "question %q expects a file name", q.ID)
		}
	default:
		return errors.Wrapf(ErrInvalidAnswer, "question %q has unsupported type %q", q.ID, q.Type)
	}
	return nil
}

func isBlank(answer any) bool {
	switch v := answer.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func answerStrings(answer any) []string {
	switch v := answer.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		return lo.Map(v, func(item any, _ int) string { return fmt.Sprint(item) })
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(v)}
	}
}

func answerNumber(answer any) (float64, error) {
	switch v := answer.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, errors.Errorf("unexpected number type %T", answer)
	}
}
