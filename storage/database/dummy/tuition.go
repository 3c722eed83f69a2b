package dummydb

import (
	"context"
	"time"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/tuition"
)

type tuitionRepository struct {
	db  *DB
	tbl *tuitionTable
}

var _ tuition.Repository = (*tuitionRepository)(nil) // interface compliance check

func NewTuitionRepository(db *DB) tuition.Repository {
	return &tuitionRepository{db: db, tbl: db.tuition}
}

func (repo *tuitionRepository) CreateTuition(_ context.Context, t tuition.Tuition) (tuition.Tuition, error) {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	t.ID = repo.db.nextID()
	repo.tbl.table[t.ID] = &t
	return t, nil
}

func (repo *tuitionRepository) GetTuitionByID(_ context.Context, id string) (tuition.Tuition, error) {
	repo.tbl.RLock()
	defer repo.tbl.RUnlock()

	if t, ok := repo.tbl.table[id]; ok {
		return *t, nil
	}
	return tuition.Tuition{}, tuition.ErrNotFound
}

func (repo *tuitionRepository) FilterTuitions(_ context.Context, filter tuition.QueryFilter, _ ...core.DBOrdering) ([]tuition.Tuition, error) {
	repo.tbl.RLock()
	defer repo.tbl.RUnlock()

	matchStatus := func(status string) bool {
		if len(filter.Statuses) == 0 {
			return true
		}
		for _, s := range filter.Statuses {
			if s == status {
				return true
			}
		}
		return false
	}

	tuitions := make([]tuition.Tuition, 0, len(repo.tbl.table))
	for _, t := range repo.tbl.table {
		if filter.Email != "" && t.Email != filter.Email {
			continue
		}
		if filter.Subject != "" && t.Subject != filter.Subject {
			continue
		}
		if !matchStatus(t.Status) {
			continue
		}
		tuitions = append(tuitions, *t)
	}
	return tuitions, nil
}

func (repo *tuitionRepository) UpdateTuition(_ context.Context, t tuition.Tuition) (tuition.Tuition, error) {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	stored, ok := repo.tbl.table[t.ID]
	if !ok {
		return tuition.Tuition{}, tuition.ErrNotFound
	}
	// email and createdAt are write-once
	stored.Status = t.Status
	stored.Subject = t.Subject
	stored.Class = t.Class
	stored.Salary = t.Salary
	stored.Days = t.Days
	stored.Location = t.Location
	stored.Details = t.Details
	stored.UpdatedAt = t.UpdatedAt
	return *stored, nil
}

func (repo *tuitionRepository) ConfirmTuition(_ context.Context, id string, at time.Time) error {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	stored, ok := repo.tbl.table[id]
	if !ok {
		return tuition.ErrNotFound
	}
	if stored.Status == tuition.StatusConfirmed {
		return tuition.ErrConfirmed
	}
	stored.Status = tuition.StatusConfirmed
	stored.UpdatedAt = at
	return nil
}

func (repo *tuitionRepository) DeleteTuition(_ context.Context, id string) error {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	if _, ok := repo.tbl.table[id]; !ok {
		return tuition.ErrNotFound
	}
	delete(repo.tbl.table, id)
	return nil
}
