package user

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/backend/core"
)

var (
	// errors
	ErrNotFound  = core.NewError(core.KindNotFound, "user not found")
	ErrForbidden = core.NewError(core.KindForbidden, "permission denied")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		FilterUsers(ctx context.Context, filter QueryFilter, ord ...core.DBOrdering) ([]User, error)
		// UpdateUser overwrites the mutable fields (name, photo, phone, role,
		// status, updatedAt) of the record matching usr.ID. email and
		// createdAt are write-once and never part of the update.
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		log     core.Logger
	}
)

func NewService(repo Repository, mailSvc core.EmailService, log core.Logger) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, log: log}
}

// Register creates a User for the verified email on first call.
// Subsequent calls for the same email are no-ops reporting the existing
// record; `created` tells the two apart.
func (svc *Service) Register(ctx context.Context, email string, nu NewUser) (usr User, created bool, err error) {
	email = core.CleanString(email, true /* lower */)

	if usr, err = svc.repo.GetUserByEmail(ctx, email); err == nil {
		return usr, false, nil
	} else if errors.Cause(err) != ErrNotFound {
		return User{}, false, errors.Wrap(err, "finding user by email")
	}

	role := nu.Role
	if role == "" {
		role = RoleStudent
	}
	status := StatusActive
	if role == RoleTutor {
		status = StatusPending
	}

	now := time.Now().UTC()
	usr = User{
		Email:     email,
		Name:      nu.Name,
		Role:      role,
		Status:    status,
		Photo:     nu.Photo,
		Phone:     nu.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr, err = svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, false, errors.Wrap(err, "creating user")
	}

	svc.sendWelcomeEmail(usr)
	return usr, true, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	if err := core.ValidateID(id); err != nil {
		return User{}, err
	}
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter, ord ...core.DBOrdering) ([]User, error) {
	return svc.repo.FilterUsers(ctx, filter, ord...)
}

// UpdateProfile lets a user change their own profile fields only.
func (svc *Service) UpdateProfile(ctx context.Context, actor User, up UpdateProfile) (User, error) {
	if up.Name != "" {
		actor.Name = up.Name
	}
	if up.Photo != "" {
		actor.Photo = up.Photo
	}
	if up.Phone != "" {
		actor.Phone = up.Phone
	}
	actor.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, actor)
}

// AdminUpdate lets an admin change another user's role and status.
func (svc *Service) AdminUpdate(ctx context.Context, actor User, id string, au AdminUpdate) (User, error) {
	if !actor.IsAdmin() {
		return User{}, ErrForbidden
	}
	if err := core.ValidateID(id); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	var approved bool
	if au.Role != "" {
		usr.Role = au.Role
	}
	if au.Status != "" {
		approved = usr.Status == StatusPending && au.Status == StatusActive
		usr.Status = au.Status
	}
	usr.UpdatedAt = time.Now().UTC()

	usr, err = svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	if approved && usr.IsTutor() {
		svc.sendTutorApprovedEmail(usr)
	}
	return usr, nil
}

func (svc *Service) sendWelcomeEmail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to Darasa",
		BodyStr: "Hi " + usr.Name + ",\n\nYour account has been created. Happy learning!",
	})
}

func (svc *Service) sendTutorApprovedEmail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Your tutor account is approved",
		BodyStr: "Hi " + usr.Name + ",\n\nYour tutor account has been approved. You can now apply to tuition posts.",
	})
}
