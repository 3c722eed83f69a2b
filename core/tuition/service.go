package tuition

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/user"
)

var (
	// errors
	ErrNotFound      = core.NewError(core.KindNotFound, "tuition not found")
	ErrForbidden     = core.NewError(core.KindForbidden, "permission denied")
	ErrInvalidStatus = core.NewError(core.KindBadInput, "status must be one of: approved, rejected")
	ErrConfirmed     = core.NewError(core.KindConflict, "tuition is already confirmed")
)

type (
	Repository interface {
		CreateTuition(ctx context.Context, t Tuition) (Tuition, error)
		GetTuitionByID(ctx context.Context, id string) (Tuition, error)
		// FilterTuitions applies AND operation on available QueryFilter fields.
		FilterTuitions(ctx context.Context, filter QueryFilter, ord ...core.DBOrdering) ([]Tuition, error)
		// UpdateTuition overwrites the mutable fields (descriptive fields,
		// status, updatedAt) of the record matching t.ID. email and
		// createdAt are write-once and never part of the update.
		UpdateTuition(ctx context.Context, t Tuition) (Tuition, error)
		// ConfirmTuition sets the status to confirmed iff the stored status
		// is not already confirmed; a lost race reports ErrConfirmed.
		ConfirmTuition(ctx context.Context, id string, at time.Time) error
		DeleteTuition(ctx context.Context, id string) error
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

// Create posts a new tuition. The creator email is the caller's verified
// identity and the status is forced to pending, whatever the client sent.
func (svc *Service) Create(ctx context.Context, actor user.User, nt NewTuition) (Tuition, error) {
	now := time.Now().UTC()
	t := Tuition{
		Email:     actor.Email,
		Status:    StatusPending,
		Subject:   nt.Subject,
		Class:     nt.Class,
		Salary:    nt.Salary,
		Days:      nt.Days,
		Location:  nt.Location,
		Details:   nt.Details,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateTuition(ctx, t)
}

func (svc *Service) Get(ctx context.Context, actor user.User, id string) (Tuition, error) {
	if err := core.ValidateID(id); err != nil {
		return Tuition{}, err
	}
	t, err := svc.repo.GetTuitionByID(ctx, id)
	if err != nil {
		return Tuition{}, err
	}
	// non-visible posts surface as not found, not as a permission error
	if !Can(actor, ActionView, t) {
		return Tuition{}, ErrNotFound
	}
	return t, nil
}

// QueryPublic lists the tuitions any viewer may see: approved + confirmed.
func (svc *Service) QueryPublic(ctx context.Context, filter QueryFilter, ord ...core.DBOrdering) ([]Tuition, error) {
	filter.Email = ""
	filter.Statuses = PublicStatuses
	return svc.repo.FilterTuitions(ctx, filter, ord...)
}

// QueryMine lists the caller's own posts in any status.
func (svc *Service) QueryMine(ctx context.Context, actor user.User, ord ...core.DBOrdering) ([]Tuition, error) {
	return svc.repo.FilterTuitions(ctx, QueryFilter{Email: actor.Email}, ord...)
}

// QueryAll is the admin listing; the filter is applied as requested.
func (svc *Service) QueryAll(ctx context.Context, actor user.User, filter QueryFilter, ord ...core.DBOrdering) ([]Tuition, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return svc.repo.FilterTuitions(ctx, filter, ord...)
}

// Update advances the tuition status state machine.
//
// An admin may only set the status, and only to approved or rejected; any
// other requested value is invalid input. The creator may change any
// descriptive field, but their edit always resets the status to pending
// for re-review. Anyone else is rejected outright.
func (svc *Service) Update(ctx context.Context, actor user.User, id string, ut UpdateTuition) (Tuition, error) {
	if err := core.ValidateID(id); err != nil {
		return Tuition{}, err
	}

	t, err := svc.repo.GetTuitionByID(ctx, id)
	if err != nil {
		return Tuition{}, err
	}

	switch {
	case Can(actor, ActionModerate, t):
		if ut.Status != StatusApproved && ut.Status != StatusRejected {
			return Tuition{}, ErrInvalidStatus
		}
		t.Status = ut.Status

	case Can(actor, ActionEdit, t):
		mergeDescriptive(&t, ut)
		// re-review required, no matter what status was requested
		t.Status = StatusPending

	default:
		return Tuition{}, ErrForbidden
	}

	t.UpdatedAt = time.Now().UTC()
	t, err = svc.repo.UpdateTuition(ctx, t)
	if err != nil {
		return Tuition{}, errors.Wrap(err, "updating tuition")
	}

	if t.Status == StatusApproved {
		svc.sendApprovedEmail(t)
	}
	return t, nil
}

func (svc *Service) Delete(ctx context.Context, actor user.User, id string) error {
	if err := core.ValidateID(id); err != nil {
		return err
	}
	t, err := svc.repo.GetTuitionByID(ctx, id)
	if err != nil {
		return err
	}
	if !Can(actor, ActionDelete, t) {
		return ErrForbidden
	}
	return svc.repo.DeleteTuition(ctx, id)
}

func mergeDescriptive(t *Tuition, ut UpdateTuition) {
	if ut.Subject != "" {
		t.Subject = ut.Subject
	}
	if ut.Class != "" {
		t.Class = ut.Class
	}
	if ut.Salary != nil {
		t.Salary = *ut.Salary
	}
	if ut.Days != "" {
		t.Days = ut.Days
	}
	if ut.Location != "" {
		t.Location = ut.Location
	}
	if ut.Details != "" {
		t.Details = ut.Details
	}
}

func (svc *Service) sendApprovedEmail(t Tuition) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: t.Email}},
		Subject: "Your tuition post is live",
		BodyStr: "Your tuition post for " + t.Subject + " has been approved and is now visible to tutors.",
	})
}
