package tuition

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/user"
)

// Statuses. Lifecycle: pending -> approved|rejected (admin review),
// approved -> confirmed (hiring workflow only). A creator edit resets
// any status back to pending for re-review.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusConfirmed = "confirmed"
)

// AdminStatuses are the only status values an admin may set directly.
var AdminStatuses = []string{StatusApproved, StatusRejected}

// PublicStatuses are the only statuses visible to anonymous viewers:
// moderated content is public, drafts and rejects are not.
var PublicStatuses = []string{StatusApproved, StatusConfirmed}

type Tuition struct {
	ID       string  `json:"id" bson:"_id,omitempty"`
	Email    string  `json:"email" bson:"email"` // creator; write-once
	Status   string  `json:"status" bson:"status"`
	Subject  string  `json:"subject" bson:"subject"`
	Class    string  `json:"class" bson:"class"`
	Salary   float64 `json:"salary" bson:"salary"`
	Days     string  `json:"days,omitempty" bson:"days,omitempty"`
	Location string  `json:"location,omitempty" bson:"location,omitempty"`
	Details  string  `json:"details,omitempty" bson:"details,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"` // UTC; write-once
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// NewTuition contains the descriptive fields supplied on creation.
// The creator email and the status never come from the client.
type NewTuition struct {
	Subject  string  `json:"subject" validate:"required"`
	Class    string  `json:"class" validate:"required"`
	Salary   float64 `json:"salary" validate:"required,gt=0"`
	Days     string  `json:"days"`
	Location string  `json:"location"`
	Details  string  `json:"details"`
}

func (nt *NewTuition) Validate(validate *validator.Validate) error {
	nt.Subject = core.CleanString(nt.Subject)
	nt.Class = core.CleanString(nt.Class)
	nt.Days = core.CleanString(nt.Days)
	nt.Location = core.CleanString(nt.Location)
	nt.Details = core.CleanString(nt.Details)
	return validate.Struct(nt)
}

// UpdateTuition defines what may be changed on an existing post.
// email and createdAt deliberately have no counterpart here: any attempt
// to change them is discarded at the door.
type UpdateTuition struct {
	Subject  string   `json:"subject"`
	Class    string   `json:"class"`
	Salary   *float64 `json:"salary" validate:"omitempty,gt=0"`
	Days     string   `json:"days"`
	Location string   `json:"location"`
	Details  string   `json:"details"`
	Status   string   `json:"status"` // admin-only; checked by the service
}

func (ut *UpdateTuition) Validate(validate *validator.Validate) error {
	ut.Subject = core.CleanString(ut.Subject)
	ut.Class = core.CleanString(ut.Class)
	ut.Days = core.CleanString(ut.Days)
	ut.Location = core.CleanString(ut.Location)
	ut.Details = core.CleanString(ut.Details)
	ut.Status = core.CleanString(ut.Status, true /* lower */)
	return validate.Struct(ut)
}

// QueryFilter applies AND operation on its non-empty fields.
type QueryFilter struct {
	Email    string   `query:"-"`
	Statuses []string `query:"status"`
	Subject  string   `query:"subject"`
}

func (qf *QueryFilter) Clean() {
	qf.Subject = core.CleanString(qf.Subject)
	for i, s := range qf.Statuses {
		qf.Statuses[i] = core.CleanString(s, true /* lower */)
	}
}

// Actions checked by Can.
type Action string

const (
	ActionView     Action = "view"
	ActionEdit     Action = "edit"
	ActionModerate Action = "moderate"
	ActionDelete   Action = "delete"
)

// Can is the single authorization predicate for tuition posts,
// shared by every mutating operation.
func Can(actor user.User, action Action, t Tuition) bool {
	switch action {
	case ActionView:
		if actor.IsAdmin() || actor.Email == t.Email {
			return true
		}
		return t.Status == StatusApproved || t.Status == StatusConfirmed
	case ActionEdit:
		return actor.Email == t.Email
	case ActionModerate:
		return actor.IsAdmin()
	case ActionDelete:
		return actor.IsAdmin() || actor.Email == t.Email
	}
	return false
}
