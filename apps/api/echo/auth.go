package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core/auth"
	"github.com/joineazy/tracker/core/session"
	"github.com/joineazy/tracker/core/user"
)

var (
	contextAuthKey = "auth"
	contextUserKey = "user"

	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
	errNoAuthInCtx   = errors.New("auth service not found in echo.Context")
)

func getContextAuth(ctx echo.Context) (*auth.Service, error) {
	if svc, ok := ctx.Get(contextAuthKey).(*auth.Service); ok {
		return svc, nil
	}
	return nil, errNoAuthInCtx
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	authSvc, err := getContextAuth(ctx)
	if err != nil {
		return user.User{}, err
	}
	usr, err := authSvc.Current()
	if err != nil {
		if errors.Cause(err) == session.ErrNoSession {
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "getting session user")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
