package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/backend/core/payment"
	"github.com/darasahq/backend/core/user"
)

type paymentApi struct {
	svc      *payment.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerPaymentAPI(
	g *echo.Group,
	auth echo.MiddlewareFunc,
	svc *payment.Service,
	usrSvc *user.Service,
	validate *validator.Validate,
) {
	api := paymentApi{svc: svc, usrSvc: usrSvc, validate: validate}

	pg := g.Group("/payments", auth)
	pg.POST("/intent", api.createIntent)
	pg.POST("", api.hire)
	pg.GET("/mine", api.queryMine)
}

// Handlers

func (api *paymentApi) createIntent(ctx echo.Context) error {
	if _, err := getContextUser(ctx, api.usrSvc); err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data payment.IntentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to IntentRequest")
	}

	intent, err := api.svc.CreateIntent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating payment intent")
	}
	return ctx.JSON(http.StatusOK, intent)
}

// hire records the completed charge and runs the hiring workflow.
func (api *paymentApi) hire(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data payment.HirePayload
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to HirePayload")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	pay, err := api.svc.Hire(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "running hiring workflow")
	}
	return ctx.JSON(http.StatusCreated, pay)
}

func (api *paymentApi) queryMine(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	payments, err := api.svc.ListMine(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "querying own payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}
