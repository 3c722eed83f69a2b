// Package dummydb is an in-memory record store used by tests and local
// hacking. Query orderings are ignored; callers that care about order
// must sort for themselves.
package dummydb

import (
	"fmt"
	"sync"

	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/payment"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
)

type (
	DB struct {
		mu          sync.Mutex
		pkCount     int
		user        *userTable
		tuition     *tuitionTable
		application *applicationTable
		payment     *paymentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	tuitionTable struct {
		sync.RWMutex
		table map[string]*tuition.Tuition
	}

	applicationTable struct {
		sync.RWMutex
		table map[string]*application.Application
	}

	paymentTable struct {
		sync.RWMutex
		table map[string]*payment.Payment
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:        &userTable{table: make(map[string]*user.User)},
		tuition:     &tuitionTable{table: make(map[string]*tuition.Tuition)},
		application: &applicationTable{table: make(map[string]*application.Application)},
		payment:     &paymentTable{table: make(map[string]*payment.Payment)},
	}
	return db, nil
}

func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()
	db.tuition.Lock()
	db.tuition.table = make(map[string]*tuition.Tuition)
	db.tuition.Unlock()
	db.application.Lock()
	db.application.table = make(map[string]*application.Application)
	db.application.Unlock()
	db.payment.Lock()
	db.payment.table = make(map[string]*payment.Payment)
	db.payment.Unlock()
}

// nextID yields well-formed record IDs (24 hex chars).
func (db *DB) nextID() string {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.pkCount++
	return fmt.Sprintf("%024x", db.pkCount)
}
