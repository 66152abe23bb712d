package repositories

import (
	"context"

	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var candidateOrderColumns = []string{"id", "name", "email", "stage"}

type CandidateQuery struct {
	Stage   entities.Stage
	Search  string
	OrderBy string
	Desc    bool
	Offset  int
	Limit   int
}

type Candidates struct {
	db *gorm.DB
}

func NewCandidatesRepository(db *gorm.DB) *Candidates {
	return &Candidates{db: db}
}

func (repo *Candidates) Get(ctx context.Context, id int) (*entities.Candidate, error) {
	var candidate entities.Candidate
	if err := repo.db.WithContext(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &candidate, nil
}

func (repo *Candidates) Add(ctx context.Context, candidate *entities.Candidate) (int, error) {
	if err := repo.db.WithContext(ctx).Create(candidate).Error; err != nil {
		return 0, translateError(err)
	}
	return candidate.ID, nil
}

func (repo *Candidates) AddBatch(ctx context.Context, candidates []entities.Candidate) error {
	return translateError(repo.db.WithContext(ctx).CreateInBatches(&candidates, 200).Error)
}

func (repo *Candidates) All(ctx context.Context) ([]entities.Candidate, error) {
	return repo.Find(ctx, CandidateQuery{})
}

func (repo *Candidates) Find(ctx context.Context, query CandidateQuery) ([]entities.Candidate, error) {
	orderBy := query.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	if !lo.Contains(candidateOrderColumns, orderBy) {
		return nil, errors.Errorf("candidates can't be ordered by %q", orderBy)
	}

	tx := repo.filtered(ctx, query).
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: query.Desc})
	if orderBy != "id" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: query.Desc})
	}
	if query.Offset > 0 {
		tx = tx.Offset(query.Offset)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	candidates := make([]entities.Candidate, 0)
	if err := tx.Find(&candidates).Error; err != nil {
		return nil, translateError(err)
	}
	return candidates, nil
}

func (repo *Candidates) Count(ctx context.Context, query CandidateQuery) (int64, error) {
	var count int64
	if err := repo.filtered(ctx, query).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (repo *Candidates) CountByStage(ctx context.Context) (map[entities.Stage]int64, error) {
	var rows []struct {
		Stage entities.Stage
		Total int64
	}
	err := repo.db.WithContext(ctx).Model(&entities.Candidate{}).
		Select("stage, COUNT(*) AS total").Group("stage").Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	counts := make(map[entities.Stage]int64, len(entities.Stages))
	for _, stage := range entities.Stages {
		counts[stage] = 0
	}
	for _, row := range rows {
		counts[row.Stage] = row.Total
	}
	return counts, nil
}

// Modify applies fn to the stored candidate and writes the result back in one
// transaction. The returned record is read back after the write.
func (repo *Candidates) Modify(ctx context.Context, id int, fn func(candidate *entities.Candidate) error) (*entities.Candidate, error) {
	var fresh entities.Candidate
	var fnErr error
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate entities.Candidate
		if err := tx.First(&candidate, "id = ?", id).Error; err != nil {
			return err
		}
		if fnErr = fn(&candidate); fnErr != nil {
			return fnErr
		}
		if err := tx.Save(&candidate).Error; err != nil {
			return err
		}
		return tx.First(&fresh, "id = ?", id).Error
	})
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		return nil, translateError(err)
	}
	return &fresh, nil
}

func (repo *Candidates) filtered(ctx context.Context, query CandidateQuery) *gorm.DB {
	tx := repo.db.WithContext(ctx).Model(&entities.Candidate{})
	if query.Stage != "" {
		tx = tx.Where("stage = ?", query.Stage)
	}
	if query.Search != "" {
		pattern := likePattern(query.Search)
		tx = tx.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	return tx
}
