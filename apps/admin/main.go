package main

import (
	"log"
	"os"

	"github.com/darasahq/backend/core"
	mongodb "github.com/darasahq/backend/storage/database/mongo"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, err := mongodb.Open(conf)
	errAndDie(err)
	defer db.Close()

	// start CLI
	cli := commandLine{
		usrRepo: mongodb.NewUserRepository(db),
		tuiRepo: mongodb.NewTuitionRepository(db),
		appRepo: mongodb.NewApplicationRepository(db),
		payRepo: mongodb.NewPaymentRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
