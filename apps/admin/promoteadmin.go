package main

import (
	"context"
	"time"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/user"
)

// promoteAdmin grants the admin role to an existing user.
func (cli *commandLine) promoteAdmin(email string) error {
	ctx := context.Background()

	usr, err := cli.usrRepo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}

	usr.Role = user.RoleAdmin
	usr.Status = user.StatusActive
	usr.UpdatedAt = time.Now().UTC()
	_, err = cli.usrRepo.UpdateUser(ctx, usr)
	return err
}
