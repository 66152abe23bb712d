package repositories

import (
	"context"

	"github.com/maxaizer/talentflow/internal/entities"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var jobOrderColumns = []string{"id", "order", "title", "slug", "status", "created_at"}

type JobFilter struct {
	Search string
	Status entities.JobStatus
	Tag    string
}

type JobQuery struct {
	Filter  JobFilter
	OrderBy string
	Desc    bool
	Offset  int
	Limit   int
}

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

func (repo *Jobs) Get(ctx context.Context, id int) (*entities.Job, error) {
	var job entities.Job
	if err := repo.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &job, nil
}

func (repo *Jobs) Add(ctx context.Context, job *entities.Job) (int, error) {
	if err := repo.db.WithContext(ctx).Create(job).Error; err != nil {
		return 0, translateError(err)
	}
	return job.ID, nil
}

func (repo *Jobs) AddBatch(ctx context.Context, jobs []entities.Job) error {
	return translateError(repo.db.WithContext(ctx).CreateInBatches(&jobs, 100).Error)
}

func (repo *Jobs) Update(ctx context.Context, id int, patch entities.JobPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	values := patch.Apply(entities.Job{})
	res := repo.db.WithContext(ctx).Model(&entities.Job{}).Where("id = ?", id).
		Select(patch.Columns()).Updates(&values)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *Jobs) SetOrder(ctx context.Context, id int, order int64) error {
	res := repo.db.WithContext(ctx).Model(&entities.Job{}).Where("id = ?", id).Update("order", order)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "job %d", id)
	}
	return nil
}

func (repo *Jobs) Find(ctx context.Context, query JobQuery) ([]entities.Job, error) {
	orderBy := query.OrderBy
	if orderBy == "" {
		orderBy = "order"
	}
	if !lo.Contains(jobOrderColumns, orderBy) {
		return nil, errors.Errorf("jobs can't be ordered by %q", orderBy)
	}

	tx := repo.filtered(ctx, query.Filter).
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: query.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: query.Desc})
	if query.Offset > 0 {
		tx = tx.Offset(query.Offset)
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}

	jobs := make([]entities.Job, 0)
	if err := tx.Find(&jobs).Error; err != nil {
		return nil, translateError(err)
	}
	return jobs, nil
}

func (repo *Jobs) Count(ctx context.Context, filter JobFilter) (int64, error) {
	var count int64
	if err := repo.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (repo *Jobs) filtered(ctx context.Context, filter JobFilter) *gorm.DB {
	tx := repo.db.WithContext(ctx).Model(&entities.Job{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		tx = tx.Where(`LOWER(title) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	if filter.Tag != "" {
		tx = tx.Where(`EXISTS (SELECT 1 FROM json_each(jobs.tags) WHERE LOWER(json_each.value) LIKE ? ESCAPE '\')`,
			likePattern(filter.Tag))
	}
	return tx
}

type JobOrder struct {
	ID    int
	Order int64
}

// SetOrders rewrites the order of every listed job in one transaction.
func (repo *Jobs) SetOrders(ctx context.Context, orders []JobOrder) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		jobs := NewJobsRepository(tx)
		for _, order := range orders {
			if err := jobs.SetOrder(ctx, order.ID, order.Order); err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}
