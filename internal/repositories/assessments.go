package repositories

import (
	"context"

	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Assessments struct {
	db *gorm.DB
}

func NewAssessmentsRepository(db *gorm.DB) *Assessments {
	return &Assessments{db: db}
}

func (repo *Assessments) Get(ctx context.Context, id int) (*entities.Assessment, error) {
	var assessment entities.Assessment
	if err := repo.db.WithContext(ctx).First(&assessment, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &assessment, nil
}

func (repo *Assessments) GetByJob(ctx context.Context, jobID int) (*entities.Assessment, error) {
	var assessment entities.Assessment
	if err := repo.db.WithContext(ctx).First(&assessment, "job_id = ?", jobID).Error; err != nil {
		return nil, translateError(err)
	}
	return &assessment, nil
}

func (repo *Assessments) Add(ctx context.Context, assessment *entities.Assessment) (int, error) {
	if err := repo.db.WithContext(ctx).Create(assessment).Error; err != nil {
		return 0, translateError(err)
	}
	return assessment.ID, nil
}

func (repo *Assessments) AddBatch(ctx context.Context, assessments []entities.Assessment) error {
	return translateError(repo.db.WithContext(ctx).Create(&assessments).Error)
}

func (repo *Assessments) Update(ctx context.Context, id int, title string, structure entities.AssessmentStructure) error {
	res := repo.db.WithContext(ctx).Model(&entities.Assessment{}).Where("id = ?", id).
		Select("title", "structure").
		Updates(&entities.Assessment{Title: title, Structure: structure})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Put stores the assessment of a job, replacing the existing one if any.
// Unassigned assessments are always added.
func (repo *Assessments) Put(ctx context.Context, assessment *entities.Assessment) (int, error) {
	if assessment.JobID == nil {
		return repo.Add(ctx, assessment)
	}

	existing, err := repo.GetByJob(ctx, *assessment.JobID)
	if errors.Is(err, ErrNotFound) {
		return repo.Add(ctx, assessment)
	}
	if err != nil {
		return 0, err
	}

	assessment.ID = existing.ID
	return existing.ID, repo.Update(ctx, existing.ID, assessment.Title, assessment.Structure)
}

func (repo *Assessments) All(ctx context.Context) ([]entities.Assessment, error) {
	assessments := make([]entities.Assessment, 0)
	if err := repo.db.WithContext(ctx).Order("id").Find(&assessments).Error; err != nil {
		return nil, translateError(err)
	}
	return assessments, nil
}

func (repo *Assessments) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&entities.Assessment{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
