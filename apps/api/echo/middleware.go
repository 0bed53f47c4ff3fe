package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/auth"
	"github.com/joineazy/tracker/core/session"
	"github.com/joineazy/tracker/core/user"
)

// sessionMiddleware binds an auth.Service to the session cookie of the request.
func sessionMiddleware(conf cookieConfig, usrSvc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			holder := session.NewHolder(loadCookieStore(ctx, conf))
			ctx.Set(contextAuthKey, auth.NewService(usrSvc, holder))
			return next(ctx)
		}
	}
}

// loginRequired resolves the session User and, when roles are given, checks the User has one of them.
func loginRequired(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if len(roles) > 0 && !core.ContainsString(roles, usr.Role) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

func adminRequired() echo.MiddlewareFunc {
	return loginRequired(user.RoleAdmin)
}

func studentRequired() echo.MiddlewareFunc {
	return loginRequired(user.RoleStudent)
}
