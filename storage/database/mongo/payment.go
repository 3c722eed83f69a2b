package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/payment"
)

type paymentRepository struct {
	db *DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	p.ID = newID()
	if _, err := repo.db.col(colPayments).InsertOne(ctx, p); err != nil {
		return payment.Payment{}, wrapError(err, nil)
	}
	return p, nil
}

func (repo *paymentRepository) FilterPayments(ctx context.Context, filter payment.QueryFilter, ord ...core.DBOrdering) ([]payment.Payment, error) {
	query := bson.D{}
	if filter.TuitionID != "" {
		query = append(query, bson.E{Key: "tuition_id", Value: filter.TuitionID})
	}
	if filter.ApplicationID != "" {
		query = append(query, bson.E{Key: "application_id", Value: filter.ApplicationID})
	}
	if filter.TutorEmail != "" {
		query = append(query, bson.E{Key: "tutor_email", Value: filter.TutorEmail})
	}
	if filter.StudentEmail != "" {
		query = append(query, bson.E{Key: "student_email", Value: filter.StudentEmail})
	}
	return findMany[payment.Payment](ctx, repo.db.col(colPayments), query, ord)
}
