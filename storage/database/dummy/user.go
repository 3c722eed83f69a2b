package dummydb

import (
	"context"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/user"
)

type userRepository struct {
	db  *DB
	tbl *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db, tbl: db.user}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	for _, u := range repo.tbl.table {
		if u.Email == usr.Email {
			return user.User{}, core.NewError(core.KindConflict, "a user with this email already exists")
		}
	}
	usr.ID = repo.db.nextID()
	repo.tbl.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.tbl.RLock()
	defer repo.tbl.RUnlock()

	if usr, ok := repo.tbl.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.tbl.RLock()
	defer repo.tbl.RUnlock()

	for _, usr := range repo.tbl.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) FilterUsers(_ context.Context, filter user.QueryFilter, _ ...core.DBOrdering) ([]user.User, error) {
	repo.tbl.RLock()
	defer repo.tbl.RUnlock()

	users := make([]user.User, 0, len(repo.tbl.table))
	for _, usr := range repo.tbl.table {
		if filter.Role != "" && usr.Role != filter.Role {
			continue
		}
		if filter.Status != "" && usr.Status != filter.Status {
			continue
		}
		users = append(users, *usr)
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.tbl.Lock()
	defer repo.tbl.Unlock()

	stored, ok := repo.tbl.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	// email and createdAt are write-once
	stored.Name = usr.Name
	stored.Photo = usr.Photo
	stored.Phone = usr.Phone
	stored.Role = usr.Role
	stored.Status = usr.Status
	stored.UpdatedAt = usr.UpdatedAt
	return *stored, nil
}
