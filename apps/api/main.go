package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/darasahq/backend/apps/api/echo"
	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/payment"
	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
	emailsvc "github.com/darasahq/backend/services/email"
	identitysvc "github.com/darasahq/backend/services/identity"
	logsvc "github.com/darasahq/backend/services/logger"
	processorsvc "github.com/darasahq/backend/services/processor"
	mongodb "github.com/darasahq/backend/storage/database/mongo"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		rl := logsvc.NewRollbarLogger(std, conf)
		rl.Enable(true)
		logger = rl
	}

	// set up DB
	db, err := mongodb.Open(conf)
	if err != nil {
		log.Fatalf("opening record store: %v", err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing record store: %v", err), err)
		}
	}()

	usrRepo := mongodb.NewUserRepository(db)
	tuiRepo := mongodb.NewTuitionRepository(db)
	appRepo := mongodb.NewApplicationRepository(db)
	payRepo := mongodb.NewPaymentRepository(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(usrRepo, mailSvc, logger)
	tuiSvc := tuition.NewService(tuiRepo, mailSvc, logger)
	appSvc := application.NewService(appRepo, tuiRepo, logger)
	paySvc := payment.NewService(
		payRepo, appRepo, tuiRepo,
		processorsvc.NewStripeProcessor(conf),
		mailSvc, logger, conf.PaymentCurrency,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("%s API initializing in %s", conf.AppName, conf.Env))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		conf.Server.Address(),
		&echoapi.Deps{
			Conf:       conf,
			Logger:     logger,
			Verifier:   identitysvc.NewJWTVerifier(conf),
			UserSvc:    usrSvc,
			TuitionSvc: tuiSvc,
			AppSvc:     appSvc,
			PaymentSvc: paySvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)
		os.Exit(1)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
				os.Exit(1)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
