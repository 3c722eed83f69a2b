package payment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/backend/core"
)

// StatusPaid is the only payment status: a Payment is an immutable
// receipt recorded once the charge succeeded.
const StatusPaid = "paid"

type Payment struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	ApplicationID string    `json:"application_id" bson:"application_id"`
	TuitionID     string    `json:"tuition_id" bson:"tuition_id"`
	TutorEmail    string    `json:"tutor_email" bson:"tutor_email"`
	StudentEmail  string    `json:"student_email" bson:"student_email"`
	Amount        float64   `json:"amount" bson:"amount"`
	PaymentStatus string    `json:"payment_status" bson:"payment_status"`
	Date          time.Time `json:"date" bson:"date"` // UTC
}

// HirePayload is the input of the hiring workflow, submitted after a
// successful charge. Tutor and student emails are attached from context,
// never taken from the body.
type HirePayload struct {
	ApplicationID string  `json:"application_id" validate:"required"`
	TuitionID     string  `json:"tuition_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
}

func (hp *HirePayload) Validate(validate *validator.Validate) error {
	hp.ApplicationID = core.CleanString(hp.ApplicationID)
	hp.TuitionID = core.CleanString(hp.TuitionID)
	return validate.Struct(hp)
}

// IntentRequest asks the payment processor for a charge handle over the
// decimal salary amount.
type IntentRequest struct {
	Salary float64 `json:"salary"`
}

// Intent is the charge handle handed back to the client.
type Intent struct {
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"` // minor units
	Currency     string `json:"currency"`
}

// QueryFilter applies AND operation on its non-empty fields.
type QueryFilter struct {
	TuitionID     string
	ApplicationID string
	TutorEmail    string
	StudentEmail  string
}
