package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = newID()
	if _, err := repo.db.col(colUsers).InsertOne(ctx, usr); err != nil {
		return user.User{}, wrapError(err, nil)
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return findOne[user.User](ctx, repo.db.col(colUsers), bson.D{{Key: "_id", Value: id}}, user.ErrNotFound)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return findOne[user.User](ctx, repo.db.col(colUsers), bson.D{{Key: "email", Value: email}}, user.ErrNotFound)
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, ord ...core.DBOrdering) ([]user.User, error) {
	query := bson.D{}
	if filter.Role != "" {
		query = append(query, bson.E{Key: "role", Value: filter.Role})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: filter.Status})
	}
	return findMany[user.User](ctx, repo.db.col(colUsers), query, ord)
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	// email and created_at are write-once: they are never part of the $set
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: usr.Name},
		{Key: "photo", Value: usr.Photo},
		{Key: "phone", Value: usr.Phone},
		{Key: "role", Value: usr.Role},
		{Key: "status", Value: usr.Status},
		{Key: "updated_at", Value: usr.UpdatedAt},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated user.User
	err := repo.db.col(colUsers).
		FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: usr.ID}}, update, opts).
		Decode(&updated)
	if err != nil {
		return user.User{}, wrapError(err, user.ErrNotFound)
	}
	return updated, nil
}
