package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/application"
)

type applicationRepository struct {
	db *DB
}

var _ application.Repository = (*applicationRepository)(nil) // interface compliance check

func NewApplicationRepository(db *DB) application.Repository {
	return &applicationRepository{db: db}
}

func (repo *applicationRepository) CreateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	app.ID = newID()
	if _, err := repo.db.col(colApplications).InsertOne(ctx, app); err != nil {
		return application.Application{}, wrapError(err, nil)
	}
	return app, nil
}

func (repo *applicationRepository) GetApplicationByID(ctx context.Context, id string) (application.Application, error) {
	return findOne[application.Application](
		ctx, repo.db.col(colApplications), bson.D{{Key: "_id", Value: id}}, application.ErrNotFound)
}

func (repo *applicationRepository) FilterApplications(ctx context.Context, filter application.QueryFilter, ord ...core.DBOrdering) ([]application.Application, error) {
	query := bson.D{}
	if filter.TuitionID != "" {
		query = append(query, bson.E{Key: "tuition_id", Value: filter.TuitionID})
	}
	if filter.TutorEmail != "" {
		query = append(query, bson.E{Key: "tutor_email", Value: filter.TutorEmail})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: filter.Status})
	}
	return findMany[application.Application](ctx, repo.db.col(colApplications), query, ord)
}

// SetApplicationStatusOwned scopes the update by owner: an id that exists
// but belongs to another tutor does not match, and reports not found.
func (repo *applicationRepository) SetApplicationStatusOwned(ctx context.Context, id, tutorEmail, status string) (application.Application, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "tutor_email", Value: tutorEmail},
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated application.Application
	if err := repo.db.col(colApplications).FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return application.Application{}, wrapError(err, application.ErrNotFound)
	}
	return updated, nil
}

func (repo *applicationRepository) AcceptApplication(ctx context.Context, id string, at time.Time) (application.Application, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: application.StatusAccepted},
		{Key: "accepted_at", Value: at},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated application.Application
	err := repo.db.col(colApplications).
		FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, update, opts).
		Decode(&updated)
	if err != nil {
		return application.Application{}, wrapError(err, application.ErrNotFound)
	}
	return updated, nil
}

func (repo *applicationRepository) RejectCompetingApplications(ctx context.Context, tuitionID, acceptedID string) error {
	filter := bson.D{
		{Key: "tuition_id", Value: tuitionID},
		{Key: "_id", Value: bson.D{{Key: "$ne", Value: acceptedID}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: application.StatusRejected}}}}

	_, err := repo.db.col(colApplications).UpdateMany(ctx, filter, update)
	return wrapError(err, nil)
}
