package main

import (
	"context"
	"errors"
	"time"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/user"
)

var errNotTutor = errors.New("user is not a tutor")

// approveTutor activates a pending tutor account.
func (cli *commandLine) approveTutor(email string) error {
	ctx := context.Background()

	usr, err := cli.usrRepo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if !usr.IsTutor() {
		return errNotTutor
	}

	usr.Status = user.StatusActive
	usr.UpdatedAt = time.Now().UTC()
	_, err = cli.usrRepo.UpdateUser(ctx, usr)
	return err
}
