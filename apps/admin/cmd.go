package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/payment"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	usrRepo user.Repository
	tuiRepo tuition.Repository
	appRepo application.Repository
	payRepo payment.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  promote-admin -email EMAIL - grant the admin role to a user")
	fmt.Println("  approve-tutor -email EMAIL - activate a pending tutor account")
	fmt.Println("  stats                      - print record counts per status")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	promoteAdminCmd := flag.NewFlagSet("promote-admin", flag.ExitOnError)
	promoteAdminEmail := promoteAdminCmd.String("email", "", "The user's email.")

	approveTutorCmd := flag.NewFlagSet("approve-tutor", flag.ExitOnError)
	approveTutorEmail := approveTutorCmd.String("email", "", "The tutor's email.")

	switch args[1] {
	case "promote-admin":
		if err := promoteAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *promoteAdminEmail == "" {
			promoteAdminCmd.Usage()
			return errHelp
		}
		return cli.promoteAdmin(*promoteAdminEmail)
	case "approve-tutor":
		if err := approveTutorCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *approveTutorEmail == "" {
			approveTutorCmd.Usage()
			return errHelp
		}
		return cli.approveTutor(*approveTutorEmail)
	case "stats":
		return cli.stats()
	default:
		cli.printUsage()
		return errHelp
	}
}
