// Package mongodb implements the record store repositories on MongoDB.
package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/darasahq/backend/core"
)

// Collection names
const (
	colUsers        = "users"
	colTuitions     = "tuitions"
	colApplications = "applications"
	colPayments     = "payments"
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

func Open(conf *core.Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to record store")
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "pinging record store")
	}

	db := &DB{client: client, db: client.Database(conf.Database.Name)}
	if err = db.ensureIndexes(ctx); err != nil {
		return nil, errors.Wrap(err, "ensuring indexes")
	}
	return db, nil
}

func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.client.Disconnect(ctx)
}

func (db *DB) col(name string) *mongo.Collection {
	return db.db.Collection(name)
}

func (db *DB) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{colUsers, bson.D{{Key: "email", Value: 1}}, true},

		{colTuitions, bson.D{{Key: "email", Value: 1}}, false},
		{colTuitions, bson.D{{Key: "status", Value: 1}}, false},
		{colTuitions, bson.D{{Key: "created_at", Value: -1}}, false},

		{colApplications, bson.D{{Key: "tuition_id", Value: 1}}, false},
		{colApplications, bson.D{{Key: "tutor_email", Value: 1}}, false},

		{colPayments, bson.D{{Key: "tuition_id", Value: 1}}, false},
		{colPayments, bson.D{{Key: "student_email", Value: 1}}, false},
		{colPayments, bson.D{{Key: "tutor_email", Value: 1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := db.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return errors.Wrapf(err, "creating index on %s", i.col)
		}
	}
	return nil
}

// newID yields a fresh record ID stored as a plain hex string.
func newID() string {
	return bson.NewObjectID().Hex()
}

// wrapError maps driver errors to the caller's domain error for missing
// documents; anything else is an upstream failure.
func wrapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == mongo.ErrNoDocuments {
		return notFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return core.NewError(core.KindConflict, "record already exists")
	}
	return core.UpstreamError(err, "record store")
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D, notFound error) (T, error) {
	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		var zero T
		return zero, wrapError(err, notFound)
	}
	return result, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, ord []core.DBOrdering) ([]T, error) {
	opts := options.Find()
	if len(ord) > 0 {
		opts = opts.SetSort(sortDoc(ord))
	}

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapError(err, nil)
	}
	defer cursor.Close(ctx)

	results := []T{}
	for cursor.Next(ctx) {
		var item T
		if err = cursor.Decode(&item); err != nil {
			return nil, wrapError(err, nil)
		}
		results = append(results, item)
	}
	if err = cursor.Err(); err != nil {
		return nil, wrapError(err, nil)
	}
	return results, nil
}

func sortDoc(ord []core.DBOrdering) bson.D {
	sort := make(bson.D, 0, len(ord))
	for _, o := range ord {
		dir := 1
		if !o.Ascending {
			dir = -1
		}
		sort = append(sort, bson.E{Key: o.Field, Value: dir})
	}
	return sort
}
