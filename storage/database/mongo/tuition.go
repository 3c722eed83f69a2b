package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/tuition"
)

type tuitionRepository struct {
	db *DB
}

var _ tuition.Repository = (*tuitionRepository)(nil) // interface compliance check

func NewTuitionRepository(db *DB) tuition.Repository {
	return &tuitionRepository{db: db}
}

func (repo *tuitionRepository) CreateTuition(ctx context.Context, t tuition.Tuition) (tuition.Tuition, error) {
	t.ID = newID()
	if _, err := repo.db.col(colTuitions).InsertOne(ctx, t); err != nil {
		return tuition.Tuition{}, wrapError(err, nil)
	}
	return t, nil
}

func (repo *tuitionRepository) GetTuitionByID(ctx context.Context, id string) (tuition.Tuition, error) {
	return findOne[tuition.Tuition](ctx, repo.db.col(colTuitions), bson.D{{Key: "_id", Value: id}}, tuition.ErrNotFound)
}

func (repo *tuitionRepository) FilterTuitions(ctx context.Context, filter tuition.QueryFilter, ord ...core.DBOrdering) ([]tuition.Tuition, error) {
	query := bson.D{}
	if filter.Email != "" {
		query = append(query, bson.E{Key: "email", Value: filter.Email})
	}
	if filter.Subject != "" {
		query = append(query, bson.E{Key: "subject", Value: filter.Subject})
	}
	if len(filter.Statuses) > 0 {
		query = append(query, bson.E{Key: "status", Value: bson.D{{Key: "$in", Value: filter.Statuses}}})
	}
	return findMany[tuition.Tuition](ctx, repo.db.col(colTuitions), query, ord)
}

func (repo *tuitionRepository) UpdateTuition(ctx context.Context, t tuition.Tuition) (tuition.Tuition, error) {
	// email and created_at are write-once: they are never part of the $set
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: t.Status},
		{Key: "subject", Value: t.Subject},
		{Key: "class", Value: t.Class},
		{Key: "salary", Value: t.Salary},
		{Key: "days", Value: t.Days},
		{Key: "location", Value: t.Location},
		{Key: "details", Value: t.Details},
		{Key: "updated_at", Value: t.UpdatedAt},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated tuition.Tuition
	err := repo.db.col(colTuitions).
		FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: t.ID}}, update, opts).
		Decode(&updated)
	if err != nil {
		return tuition.Tuition{}, wrapError(err, tuition.ErrNotFound)
	}
	return updated, nil
}

// ConfirmTuition is a conditional update: it only matches while the
// stored status is not yet confirmed, which serializes racing hires.
func (repo *tuitionRepository) ConfirmTuition(ctx context.Context, id string, at time.Time) error {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: bson.D{{Key: "$ne", Value: tuition.StatusConfirmed}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: tuition.StatusConfirmed},
		{Key: "updated_at", Value: at},
	}}}

	res, err := repo.db.col(colTuitions).UpdateOne(ctx, filter, update)
	if err != nil {
		return wrapError(err, nil)
	}
	if res.MatchedCount == 0 {
		// either the record is gone, or another hire got there first
		count, err := repo.db.col(colTuitions).CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
		if err != nil {
			return wrapError(err, nil)
		}
		if count == 0 {
			return tuition.ErrNotFound
		}
		return tuition.ErrConfirmed
	}
	return nil
}

func (repo *tuitionRepository) DeleteTuition(ctx context.Context, id string) error {
	res, err := repo.db.col(colTuitions).DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return wrapError(err, nil)
	}
	if res.DeletedCount == 0 {
		return tuition.ErrNotFound
	}
	return nil
}
