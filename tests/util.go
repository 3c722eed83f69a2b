package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, role, status string,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		Status:    status,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateTuition(
	t *testing.T,
	repo tuition.Repository,
	email, status, subject string,
	salary float64,
	createdAt ...time.Time,
) tuition.Tuition {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	tui := tuition.Tuition{
		Email:     email,
		Status:    status,
		Subject:   subject,
		Class:     "10",
		Salary:    salary,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	tui, err := repo.CreateTuition(context.Background(), tui)
	if err != nil {
		t.Fatalf("CreateTuition() failed: %v", err)
	}
	return tui
}

func CreateApplication(
	t *testing.T,
	repo application.Repository,
	tuitionID, tutorEmail, studentEmail, status string,
) application.Application {
	t.Helper()

	app := application.Application{
		TuitionID:    tuitionID,
		TutorEmail:   tutorEmail,
		StudentEmail: studentEmail,
		Status:       status,
		AppliedAt:    time.Now().UTC(),
	}
	app, err := repo.CreateApplication(context.Background(), app)
	if err != nil {
		t.Fatalf("CreateApplication() failed: %v", err)
	}
	return app
}
