package application

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/backend/core"
)

// Statuses. Every application starts out applied; it moves to accepted or
// rejected through the hiring workflow, or to rejected by its own tutor.
const (
	StatusApplied  = "applied"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type Application struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	TuitionID    string    `json:"tuition_id" bson:"tuition_id"`
	TutorEmail   string    `json:"tutor_email" bson:"tutor_email"` // verified identity; write-once
	StudentEmail string    `json:"student_email" bson:"student_email"`
	Status       string    `json:"status" bson:"status"`
	AppliedAt    time.Time `json:"applied_at" bson:"applied_at"` // UTC
	AcceptedAt   time.Time `json:"accepted_at,omitempty" bson:"accepted_at,omitempty"`
}

// NewApplication is a tutor's bid on a listing. The tutor identity is
// taken from the verified token, never from the request body.
type NewApplication struct {
	TuitionID string `json:"tuition_id" validate:"required"`
}

func (na *NewApplication) Validate(validate *validator.Validate) error {
	na.TuitionID = core.CleanString(na.TuitionID)
	return validate.Struct(na)
}

// QueryFilter applies AND operation on its non-empty fields.
type QueryFilter struct {
	TuitionID  string
	TutorEmail string
	Status     string
}
