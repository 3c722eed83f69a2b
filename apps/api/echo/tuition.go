package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/backend/core/tuition"
	"github.com/darasahq/backend/core/user"
)

type tuitionApi struct {
	svc      *tuition.Service
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerTuitionAPI(
	g *echo.Group,
	auth, maybeAuth echo.MiddlewareFunc,
	svc *tuition.Service,
	usrSvc *user.Service,
	validate *validator.Validate,
) {
	api := tuitionApi{svc: svc, usrSvc: usrSvc, validate: validate}

	tg := g.Group("/tuitions")

	// open endpoints; credentials widen visibility when presented
	tg.GET("", api.query, maybeAuth)
	tg.GET("/:id", api.retrieve, maybeAuth)

	// authed endpoints
	ag := tg.Group("", auth)
	ag.POST("", api.create)
	ag.GET("/mine", api.queryMine)
	ag.PATCH("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

// Handlers

func (api *tuitionApi) create(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data tuition.NewTuition
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTuition")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Create(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "creating tuition")
	}
	return ctx.JSON(http.StatusCreated, t)
}

// query serves the public listing; admins get the unfiltered one.
func (api *tuitionApi) query(ctx echo.Context) error {
	filter := new(tuition.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []tuition.Tuition{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	actor := contextActor(ctx, api.usrSvc)

	var tuitions []tuition.Tuition
	var err error
	if actor.IsAdmin() {
		tuitions, err = api.svc.QueryAll(ctx.Request().Context(), actor, *filter, ordering.Orderings...)
	} else {
		tuitions, err = api.svc.QueryPublic(ctx.Request().Context(), *filter, ordering.Orderings...)
	}
	if err != nil {
		return errors.Wrap(err, "querying tuitions")
	}
	if tuitions == nil {
		tuitions = []tuition.Tuition{}
	}
	return ctx.JSON(http.StatusOK, tuitions)
}

func (api *tuitionApi) queryMine(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	ordering := new(Ordering)
	ordering.Bind(ctx)

	tuitions, err := api.svc.QueryMine(ctx.Request().Context(), actor, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying own tuitions")
	}
	if tuitions == nil {
		tuitions = []tuition.Tuition{}
	}
	return ctx.JSON(http.StatusOK, tuitions)
}

func (api *tuitionApi) retrieve(ctx echo.Context) error {
	actor := contextActor(ctx, api.usrSvc)

	t, err := api.svc.Get(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding tuition")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *tuitionApi) update(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data tuition.UpdateTuition
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTuition")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	t, err := api.svc.Update(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating tuition")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *tuitionApi) destroy(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.Delete(ctx.Request().Context(), actor, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting tuition")
	}
	return ctx.NoContent(http.StatusNoContent)
}
