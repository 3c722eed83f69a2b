package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/backend/core"
	"github.com/darasahq/backend/core/user"
)

var (
	bearerPrefix    = "Bearer "
	contextEmailKey = "verifiedEmail"
	contextUserKey  = "user"
)

// authMiddleware verifies the bearer token against the identity provider
// and stores the attested email in the echo.Context.
func authMiddleware(verifier core.IdentityVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return errTokenMissing
			}
			email, err := verifier.Verify(ctx.Request().Context(), strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				return errors.Wrap(err, "verifying bearer token")
			}
			ctx.Set(contextEmailKey, email)
			return next(ctx)
		}
	}
}

// maybeAuthMiddleware verifies the bearer token when one is presented;
// anonymous requests go through. An invalid token is still an error.
func maybeAuthMiddleware(verifier core.IdentityVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if header := ctx.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(header, bearerPrefix) {
				email, err := verifier.Verify(ctx.Request().Context(), strings.TrimPrefix(header, bearerPrefix))
				if err != nil {
					return errors.Wrap(err, "verifying bearer token")
				}
				ctx.Set(contextEmailKey, email)
			}
			return next(ctx)
		}
	}
}

func getContextEmail(ctx echo.Context) (string, error) {
	if email, ok := ctx.Get(contextEmailKey).(string); ok && email != "" {
		return email, nil
	}
	return "", errUnauthorized
}

// getContextUser resolves the registered user behind the verified email
// and caches it on the echo.Context for the rest of the request.
func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	email, err := getContextEmail(ctx)
	if err != nil {
		return user.User{}, err
	}

	usr, err := svc.GetByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errNotRegistered
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

// contextActor resolves the calling user; anonymous callers get a zero User.
func contextActor(ctx echo.Context, svc *user.Service) user.User {
	usr, err := getContextUser(ctx, svc)
	if err != nil {
		return user.User{}
	}
	return usr
}
