package dummydb

import (
	"context"
	"time"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/application"
)

type applicationRepository struct {
	db  *DB
	tbl *applicationTable
}

var _ application.Repository = (*applicationRepository)(nil) // interface compliance check

func NewApplicationRepository(db *DB) application.Repository {
	return &applicationRepository{db: db, tbl: db.application}
}

func (repo *applicationRepository) CreateApplication(_ context.Context, app application.Application) (application.Application, error) {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	app.ID = repo.db.nextID()
	repo.tbl.table[app.ID] = &app
	return app, nil
}

func (repo *applicationRepository) GetApplicationByID(_ context.Context, id string) (application.Application, error) {
	repo.tbl.RLock()
	defer repo.tbl.RUnlock()

	if app, ok := repo.tbl.table[id]; ok {
		return *app, nil
	}
	return application.Application{}, application.ErrNotFound
}

func (repo *applicationRepository) FilterApplications(_ context.Context, filter application.QueryFilter, _ ...core.DBOrdering) ([]application.Application, error) {
	repo.tbl.RLock()
	defer repo.tbl.RUnlock()

	apps := make([]application.Application, 0, len(repo.tbl.table))
	for _, app := range repo.tbl.table {
		if filter.TuitionID != "" && app.TuitionID != filter.TuitionID {
			continue
		}
		if filter.TutorEmail != "" && app.TutorEmail != filter.TutorEmail {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

func (repo *applicationRepository) SetApplicationStatusOwned(_ context.Context, id, tutorEmail, status string) (application.Application, error) {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	stored, ok := repo.tbl.table[id]
	if !ok || stored.TutorEmail != tutorEmail {
		return application.Application{}, application.ErrNotFound
	}
	stored.Status = status
	return *stored, nil
}

func (repo *applicationRepository) AcceptApplication(_ context.Context, id string, at time.Time) (application.Application, error) {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	stored, ok := repo.tbl.table[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	stored.Status = application.StatusAccepted
	stored.AcceptedAt = at
	return *stored, nil
}

func (repo *applicationRepository) RejectCompetingApplications(_ context.Context, tuitionID, acceptedID string) error {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	for _, app := range repo.tbl.table {
		if app.TuitionID == tuitionID && app.ID != acceptedID {
			app.Status = application.StatusRejected
		}
	}
	return nil
}
