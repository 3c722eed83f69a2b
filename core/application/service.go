package application

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
)

var (
	// errors
	ErrNotFound    = core.NewError(core.KindNotFound, "application not found")
	ErrForbidden   = core.NewError(core.KindForbidden, "permission denied")
	ErrTutorOnly   = core.NewError(core.KindForbidden, "only approved tutors may apply")
	ErrTuitionOpen = core.NewError(core.KindConflict, "tuition is not open for applications")
)

type (
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		GetApplicationByID(ctx context.Context, id string) (Application, error)
		// FilterApplications applies AND operation on available QueryFilter fields.
		FilterApplications(ctx context.Context, filter QueryFilter, ord ...core.DBOrdering) ([]Application, error)
		// SetApplicationStatusOwned updates the status of the application
		// matching both id and tutorEmail; an ownership mismatch surfaces
		// as ErrNotFound, not as a permission error.
		SetApplicationStatusOwned(ctx context.Context, id, tutorEmail, status string) (Application, error)
		// AcceptApplication marks one application accepted with its
		// acceptance timestamp. Hiring workflow only.
		AcceptApplication(ctx context.Context, id string, at time.Time) (Application, error)
		// RejectCompetingApplications rejects every other application on the
		// same tuition: a hiring decision is exclusive. Hiring workflow only.
		RejectCompetingApplications(ctx context.Context, tuitionID, acceptedID string) error
	}

	Service struct {
		repo        Repository
		tuitionRepo tuition.Repository
		log         core.Logger
	}
)

func NewService(repo Repository, tuitionRepo tuition.Repository, log core.Logger) *Service {
	return &Service{repo: repo, tuitionRepo: tuitionRepo, log: log}
}

// Apply records a tutor's bid on a listing. Tutors pending admin review
// cannot bid yet, and only approved (open) posts take bids.
func (svc *Service) Apply(ctx context.Context, actor user.User, na NewApplication) (Application, error) {
	if !actor.IsTutor() || !actor.IsActive() {
		return Application{}, ErrTutorOnly
	}
	if err := core.ValidateID(na.TuitionID); err != nil {
		return Application{}, err
	}

	t, err := svc.tuitionRepo.GetTuitionByID(ctx, na.TuitionID)
	if err != nil {
		return Application{}, errors.Wrap(err, "finding tuition")
	}
	if t.Status != tuition.StatusApproved {
		return Application{}, ErrTuitionOpen
	}

	app := Application{
		TuitionID:    t.ID,
		TutorEmail:   actor.Email,
		StudentEmail: t.Email,
		Status:       StatusApplied,
		AppliedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateApplication(ctx, app)
}

// SelfReject lets a tutor withdraw their own application. The query is
// scoped by owner, so another tutor's application reports not found.
func (svc *Service) SelfReject(ctx context.Context, actor user.User, id string) (Application, error) {
	if err := core.ValidateID(id); err != nil {
		return Application{}, err
	}
	return svc.repo.SetApplicationStatusOwned(ctx, id, actor.Email, StatusRejected)
}

// ListByTuition lists the bids on a post, for its creator or an admin.
func (svc *Service) ListByTuition(ctx context.Context, actor user.User, tuitionID string) ([]Application, error) {
	if err := core.ValidateID(tuitionID); err != nil {
		return nil, err
	}
	t, err := svc.tuitionRepo.GetTuitionByID(ctx, tuitionID)
	if err != nil {
		return nil, errors.Wrap(err, "finding tuition")
	}
	if !actor.IsAdmin() && actor.Email != t.Email {
		return nil, ErrForbidden
	}
	return svc.repo.FilterApplications(ctx, QueryFilter{TuitionID: tuitionID})
}

// ListMine lists the caller's own applications.
func (svc *Service) ListMine(ctx context.Context, actor user.User) ([]Application, error) {
	return svc.repo.FilterApplications(ctx, QueryFilter{TutorEmail: actor.Email})
}
