package repositories

import (
	"context"

	"github.com/maxaizer/talentflow/internal/entities"
	"gorm.io/gorm"
)

type Responses struct {
	db *gorm.DB
}

func NewResponsesRepository(db *gorm.DB) *Responses {
	return &Responses{db: db}
}

func (repo *Responses) Add(ctx context.Context, response *entities.Response) (int, error) {
	if err := repo.db.WithContext(ctx).Create(response).Error; err != nil {
		return 0, translateError(err)
	}
	return response.ID, nil
}

func (repo *Responses) GetByCandidate(ctx context.Context, candidateID int) ([]entities.Response, error) {
	responses := make([]entities.Response, 0)
	err := repo.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Order("id").Find(&responses).Error
	if err != nil {
		return nil, translateError(err)
	}
	return responses, nil
}

func (repo *Responses) GetByAssessment(ctx context.Context, assessmentID int) ([]entities.Response, error) {
	responses := make([]entities.Response, 0)
	err := repo.db.WithContext(ctx).Where("assessment_id = ?", assessmentID).Order("id").Find(&responses).Error
	if err != nil {
		return nil, translateError(err)
	}
	return responses, nil
}
