package main

import (
	"context"
	"fmt"

	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/payment"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
)

// stats prints record counts per role/status; a quick moderation overview.
func (cli *commandLine) stats() error {
	ctx := context.Background()

	for _, role := range user.Roles {
		users, err := cli.usrRepo.FilterUsers(ctx, user.QueryFilter{Role: role})
		if err != nil {
			return err
		}
		fmt.Printf("users[%s]: %d\n", role, len(users))
	}

	for _, status := range []string{
		tuition.StatusPending, tuition.StatusApproved, tuition.StatusRejected, tuition.StatusConfirmed,
	} {
		tuitions, err := cli.tuiRepo.FilterTuitions(ctx, tuition.QueryFilter{Statuses: []string{status}})
		if err != nil {
			return err
		}
		fmt.Printf("tuitions[%s]: %d\n", status, len(tuitions))
	}

	for _, status := range []string{
		application.StatusApplied, application.StatusAccepted, application.StatusRejected,
	} {
		apps, err := cli.appRepo.FilterApplications(ctx, application.QueryFilter{Status: status})
		if err != nil {
			return err
		}
		fmt.Printf("applications[%s]: %d\n", status, len(apps))
	}

	payments, err := cli.payRepo.FilterPayments(ctx, payment.QueryFilter{})
	if err != nil {
		return err
	}
	fmt.Printf("payments: %d\n", len(payments))
	return nil
}
