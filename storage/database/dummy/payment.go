package dummydb

import (
	"context"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/payment"
)

type paymentRepository struct {
	db  *DB
	tbl *paymentTable
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) payment.Repository {
	return &paymentRepository{db: db, tbl: db.payment}
}

func (repo *paymentRepository) CreatePayment(_ context.Context, p payment.Payment) (payment.Payment, error) {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	p.ID = repo.db.nextID()
	repo.tbl.table[p.ID] = &p
	return p, nil
}

func (repo *paymentRepository) FilterPayments(_ context.Context, filter payment.QueryFilter, _ ...core.DBOrdering) ([]payment.Payment, error) {
	repo.tbl.RLock()
	defer repo.tbl.RUnlock()

	payments := make([]payment.Payment, 0, len(repo.tbl.table))
	for _, p := range repo.tbl.table {
		if filter.TuitionID != "" && p.TuitionID != filter.TuitionID {
			continue
		}
		if filter.ApplicationID != "" && p.ApplicationID != filter.ApplicationID {
			continue
		}
		if filter.TutorEmail != "" && p.TutorEmail != filter.TutorEmail {
			continue
		}
		if filter.StudentEmail != "" && p.StudentEmail != filter.StudentEmail {
			continue
		}
		payments = append(payments, *p)
	}
	return payments, nil
}
