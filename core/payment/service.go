package payment

import (
	"context"
	"math"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
)

var (
	// errors
	ErrForbidden     = core.NewError(core.KindForbidden, "permission denied")
	ErrMissingSalary = core.NewError(core.KindBadInput, "a non-zero salary is required")
	ErrWrongTuition  = core.NewError(core.KindBadInput, "application does not belong to this tuition")
)

type (
	Repository interface {
		CreatePayment(ctx context.Context, p Payment) (Payment, error)
		// FilterPayments applies AND operation on available QueryFilter fields.
		FilterPayments(ctx context.Context, filter QueryFilter, ord ...core.DBOrdering) ([]Payment, error)
	}

	// Service coordinates the hiring workflow: the cross-entity transition
	// fired by a successful payment.
	Service struct {
		repo      Repository
		appRepo   application.Repository
		tuiRepo   tuition.Repository
		processor core.PaymentProcessor
		mailSvc   core.EmailService
		log       core.Logger
		currency  string
	}
)

func NewService(
	repo Repository,
	appRepo application.Repository,
	tuiRepo tuition.Repository,
	processor core.PaymentProcessor,
	mailSvc core.EmailService,
	log core.Logger,
	currency string,
) *Service {
	return &Service{
		repo:      repo,
		appRepo:   appRepo,
		tuiRepo:   tuiRepo,
		processor: processor,
		mailSvc:   mailSvc,
		log:       log,
		currency:  currency,
	}
}

// CreateIntent computes the charge amount in minor units (rounded to the
// nearest cent) and requests a charge handle from the processor. A
// missing or zero salary fails before any call out.
func (svc *Service) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	if req.Salary <= 0 {
		return Intent{}, ErrMissingSalary
	}
	amount := int64(math.Round(req.Salary * 100))

	secret, err := svc.processor.CreateIntent(ctx, amount, svc.currency)
	if err != nil {
		return Intent{}, core.UpstreamError(err, "payment processor")
	}
	return Intent{ClientSecret: secret, Amount: amount, Currency: svc.currency}, nil
}

// Hire runs the hiring workflow for a completed charge:
//
//  1. insert the Payment receipt,
//  2. mark the chosen application accepted,
//  3. reject every competing application on the same tuition,
//  4. confirm the tuition.
//
// The four writes are issued in order without cross-step rollback; a
// failure past step 1 leaves the receipt in place and is reported as-is.
// Two racing hires on one tuition are serialized by the conditional
// confirm in step 4: the loser gets a conflict (its receipt is logged as
// requiring reconciliation).
func (svc *Service) Hire(ctx context.Context, actor user.User, hp HirePayload) (Payment, error) {
	// ids must be well-formed before any write is attempted
	if err := core.ValidateID(hp.ApplicationID); err != nil {
		return Payment{}, err
	}
	if err := core.ValidateID(hp.TuitionID); err != nil {
		return Payment{}, err
	}

	app, err := svc.appRepo.GetApplicationByID(ctx, hp.ApplicationID)
	if err != nil {
		return Payment{}, errors.Wrap(err, "finding application")
	}
	if app.TuitionID != hp.TuitionID {
		return Payment{}, ErrWrongTuition
	}

	t, err := svc.tuiRepo.GetTuitionByID(ctx, hp.TuitionID)
	if err != nil {
		return Payment{}, errors.Wrap(err, "finding tuition")
	}
	if !actor.IsAdmin() && actor.Email != t.Email {
		return Payment{}, ErrForbidden
	}
	if t.Status == tuition.StatusConfirmed {
		return Payment{}, tuition.ErrConfirmed
	}

	now := time.Now().UTC()
	pay := Payment{
		ApplicationID: app.ID,
		TuitionID:     t.ID,
		TutorEmail:    app.TutorEmail,
		StudentEmail:  t.Email, // the creator, even when an admin hires on their behalf
		Amount:        hp.Amount,
		PaymentStatus: StatusPaid,
		Date:          now,
	}
	pay, err = svc.repo.CreatePayment(ctx, pay)
	if err != nil {
		return Payment{}, errors.Wrap(err, "recording payment")
	}

	if app, err = svc.appRepo.AcceptApplication(ctx, app.ID, now); err != nil {
		return Payment{}, svc.inconsistent(pay, errors.Wrap(err, "accepting application"))
	}
	if err = svc.appRepo.RejectCompetingApplications(ctx, t.ID, app.ID); err != nil {
		return Payment{}, svc.inconsistent(pay, errors.Wrap(err, "rejecting competing applications"))
	}
	if err = svc.tuiRepo.ConfirmTuition(ctx, t.ID, now); err != nil {
		return Payment{}, svc.inconsistent(pay, errors.Wrap(err, "confirming tuition"))
	}

	svc.sendHiredEmails(pay)
	return pay, nil
}

// ListMine lists the caller's receipts: charges they made as a student,
// or hires they won as a tutor.
func (svc *Service) ListMine(ctx context.Context, actor user.User) ([]Payment, error) {
	filter := QueryFilter{StudentEmail: actor.Email}
	if actor.IsTutor() {
		filter = QueryFilter{TutorEmail: actor.Email}
	}
	return svc.repo.FilterPayments(ctx, filter)
}

// inconsistent flags a partially applied workflow: the payment record
// exists but downstream state was not fully advanced.
func (svc *Service) inconsistent(pay Payment, err error) error {
	svc.log.Error("hiring workflow left inconsistent state; payment needs reconciliation", err, pay)
	return err
}

func (svc *Service) sendHiredEmails(pay Payment) {
	svc.mailSvc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Address: pay.TutorEmail}},
			Subject: "You have been hired",
			BodyStr: "Congratulations! Your application has been accepted and the first payment is in.",
		},
		&core.EmailMessage{
			To:      []mail.Address{{Address: pay.StudentEmail}},
			Subject: "Payment received",
			BodyStr: "Your payment has been received and your tutor is confirmed.",
		},
	)
}
