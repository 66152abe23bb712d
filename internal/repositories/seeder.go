package repositories

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type SeedOptions struct {
	Jobs        int
	Candidates  int
	Assessments int
}

var (
	seedLevels     = []string{"Junior", "Middle", "Senior", "Lead", "Principal"}
	seedRoles      = []string{"Go Developer", "Frontend Engineer", "Data Analyst", "Product Designer", "QA Engineer", "DevOps Engineer", "Product Manager", "Marketing Specialist"}
	seedTags       = []string{"Remote", "Full-time", "Engineering", "Marketing", "Senior"}
	seedFirstNames = []string{"Anna", "Boris", "Carla", "Dmitry", "Elena", "Farid", "Grace", "Hiro", "Irina", "Jonas", "Kate", "Leo"}
	seedLastNames  = []string{"Ivanova", "Smith", "Garcia", "Petrov", "Chen", "Novak", "Okafor", "Tanaka", "Rossi", "Berg"}
	seedQuestions  = []string{
		"How would you rate your experience with Go?",
		"Describe a challenging project you've worked on.",
		"What is your preferred method for state management?",
		"How do you handle tight deadlines and pressure?",
		"Walk me through your process for debugging a complex issue.",
		"What are your long-term career goals?",
	}
	seedQuestionTypes = []entities.QuestionType{entities.ShortText, entities.LongText, entities.SingleChoice,
		entities.MultiChoice, entities.Numeric}
)

// Seed fills an empty store in one transaction. It reports false when jobs
// already exist and nothing was written.
func (c *DbContext) Seed(ctx context.Context, opts SeedOptions, now time.Time) (bool, error) {
	store := c.Store()

	total, err := store.Jobs.Count(ctx, JobFilter{})
	if err != nil {
		return false, fmt.Errorf("failed to count jobs: %w", err)
	}
	if total > 0 {
		log.Info("store already seeded, skipping")
		return false, nil
	}

	err = store.Transaction(ctx, func(tx *Store) error {
		jobs := seedJobs(opts.Jobs, now)
		if err := tx.Jobs.AddBatch(ctx, jobs); err != nil {
			return fmt.Errorf("failed to seed jobs: %w", err)
		}

		if opts.Candidates > 0 {
			if err := tx.Candidates.AddBatch(ctx, seedCandidates(opts.Candidates, jobs, now)); err != nil {
				return fmt.Errorf("failed to seed candidates: %w", err)
			}
		}

		if assessments := seedAssessments(opts.Assessments, jobs); len(assessments) > 0 {
			if err := tx.Assessments.AddBatch(ctx, assessments); err != nil {
				return fmt.Errorf("failed to seed assessments: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Infof("seeded %d jobs, %d candidates, %d assessments", opts.Jobs, opts.Candidates,
		min(opts.Assessments, opts.Jobs))
	return true, nil
}

func seedJobs(count int, now time.Time) []entities.Job {
	used := make(map[string]struct{}, count)
	jobs := make([]entities.Job, 0, count)

	for i := 0; i < count; i++ {
		title := lo.Sample(seedLevels) + " " + lo.Sample(seedRoles)
		if _, taken := used[entities.Slugify(title)]; taken {
			title = fmt.Sprintf("%s %d", title, i+1)
		}
		used[entities.Slugify(title)] = struct{}{}

		job := entities.NewJob(title, lo.Samples(seedTags, 1+rand.Intn(3)), now.AddDate(0, 0, -rand.Intn(365)))
		job.Status = lo.Sample([]entities.JobStatus{entities.JobActive, entities.JobArchived})
		job.Order = now.UnixMilli() - int64(i*1000)
		jobs = append(jobs, job)
	}
	return jobs
}

func seedCandidates(count int, jobs []entities.Job, now time.Time) []entities.Candidate {
	jobIDs := lo.Map(jobs, func(job entities.Job, _ int) int { return job.ID })
	candidates := make([]entities.Candidate, 0, count)

	for i := 0; i < count; i++ {
		first, last := lo.Sample(seedFirstNames), lo.Sample(seedLastNames)
		stage := lo.Sample(entities.Stages)
		appliedAt := now.Add(-time.Duration(rand.Intn(365*24)) * time.Hour)

		candidates = append(candidates, entities.Candidate{
			Name:     first + " " + last,
			Email:    strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, i)),
			Stage:    stage,
			JobID:    lo.Sample(jobIDs),
			Timeline: []entities.TimelineEntry{entities.NewTimelineEntry(stage, "", appliedAt)},
			Notes:    []entities.Note{},
		})
	}
	return candidates
}

func seedAssessments(count int, jobs []entities.Job) []entities.Assessment {
	assessments := make([]entities.Assessment, 0, count)

	for _, job := range lo.Slice(jobs, 0, count) {
		title := job.Title + " Assessment"
		sections := lo.Map([]string{"Technical Skills", "Behavioral Questions"}, func(sectionTitle string, _ int) entities.Section {
			return entities.Section{
				ID:    uuid.NewString(),
				Title: sectionTitle,
				Questions: lo.Times(6, func(_ int) entities.Question {
					return seedQuestion(lo.Sample(seedQuestionTypes))
				}),
			}
		})

		assessments = append(assessments, entities.Assessment{
			JobID: lo.ToPtr(job.ID),
			Title: title,
			Structure: entities.AssessmentStructure{
				ID:       uuid.NewString(),
				Title:    title,
				Sections: sections,
			},
		})
	}
	return assessments
}

func seedQuestion(questionType entities.QuestionType) entities.Question {
	question := entities.Question{
		ID:         uuid.NewString(),
		Text:       lo.Sample(seedQuestions),
		Type:       questionType,
		Options:    []string{},
		Validation: entities.Validation{Required: rand.Intn(2) == 0},
	}

	switch questionType {
	case entities.SingleChoice, entities.MultiChoice:
		question.Options = []string{"Beginner", "Intermediate", "Advanced", "Expert"}
	case entities.Numeric:
		question.Text = "On a scale of 1 to 5, how would you rate your communication skills?"
		question.Validation.Min = lo.ToPtr(1.0)
		question.Validation.Max = lo.ToPtr(5.0)
	case entities.ShortText:
		question.Text = "What is your greatest strength?"
		question.Validation.MaxLength = lo.ToPtr(200)
	}
	return question
}
