package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the table repositories that share one connection or transaction.
type Store struct {
	Jobs        *Jobs
	Candidates  *Candidates
	Assessments *Assessments
	Responses   *Responses
	db          *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Jobs:        NewJobsRepository(db),
		Candidates:  NewCandidatesRepository(db),
		Assessments: NewAssessmentsRepository(db),
		Responses:   NewResponsesRepository(db),
		db:          db,
	}
}

// Transaction runs fn against a Store bound to one transaction. Every write made
// through tx commits together, or none does when fn returns an error.
// An error returned by fn comes back unchanged.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(NewStore(tx))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return translateError(err)
}
