package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/backend/core/application"
	"github.com/darasahq/backend/core/user"
)

type applicationApi struct {
	svc      *application.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerApplicationAPI(
	g *echo.Group,
	auth echo.MiddlewareFunc,
	svc *application.Service,
	usrSvc *user.Service,
	validate *validator.Validate,
) {
	api := applicationApi{svc: svc, usrSvc: usrSvc, validate: validate}

	ag := g.Group("/applications", auth)
	ag.POST("", api.create)
	ag.GET("/mine", api.queryMine)
	ag.PATCH("/:id/reject", api.selfReject)

	// bids on a post, for its creator or an admin
	g.GET("/tuitions/:id/applications", api.queryByTuition, auth)
}

// Handlers

func (api *applicationApi) create(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data application.NewApplication
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	app, err := api.svc.Apply(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "applying to tuition")
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *applicationApi) queryMine(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	apps, err := api.svc.ListMine(ctx.Request().Context(), actor)
	if err != nil {
		return errors.Wrap(err, "querying own applications")
	}
	if apps == nil {
		apps = []application.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *applicationApi) selfReject(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	app, err := api.svc.SelfReject(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "withdrawing application")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *applicationApi) queryByTuition(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	apps, err := api.svc.ListByTuition(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying tuition applications")
	}
	if apps == nil {
		apps = []application.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}
