package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/darasahq/backend/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

// Statuses. Tutors start out pending until an admin approves them;
// everyone else is active right away.
const (
	StatusActive  = "active"
	StatusPending = "pending"
)

var Roles = []string{RoleStudent, RoleTutor, RoleAdmin}

type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Email     string    `json:"email" bson:"email"`
	Name      string    `json:"name" bson:"name"`
	Role      string    `json:"role" bson:"role"`
	Status    string    `json:"status" bson:"status"`
	Photo     string    `json:"photo,omitempty" bson:"photo,omitempty"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"` // UTC; write-once
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTutor() bool   { return u.Role == RoleTutor }
func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsActive() bool  { return u.Status == StatusActive }

// NewUser contains the profile supplied on first registration.
// The email never comes from the client; it is the verified identity.
type NewUser struct {
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"omitempty,oneof=student tutor"`
	Photo string `json:"photo"`
	Phone string `json:"phone"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	nu.Photo = core.CleanString(nu.Photo)
	nu.Phone = core.CleanString(nu.Phone)
	return validate.Struct(nu)
}

// UpdateProfile defines what a user may change on their own record.
type UpdateProfile struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Phone string `json:"phone"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Name = core.CleanString(up.Name)
	up.Photo = core.CleanString(up.Photo)
	up.Phone = core.CleanString(up.Phone)
	return validate.Struct(up)
}

// AdminUpdate defines what an admin may change on any user record:
// the role and the status, nothing else.
type AdminUpdate struct {
	Role   string `json:"role" validate:"omitempty,oneof=student tutor admin"`
	Status string `json:"status" validate:"omitempty,oneof=active pending"`
}

func (au *AdminUpdate) Validate(validate *validator.Validate) error {
	au.Role = core.CleanString(au.Role, true /* lower */)
	au.Status = core.CleanString(au.Status, true /* lower */)
	return validate.Struct(au)
}

// QueryFilter applies AND operation on its non-empty fields.
type QueryFilter struct {
	Role   string `query:"role"`
	Status string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Role == "" && qf.Status == ""
}

func (qf *QueryFilter) Clean() {
	qf.Role = core.CleanString(qf.Role, true /* lower */)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
