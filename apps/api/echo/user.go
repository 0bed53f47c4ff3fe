package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core/assignment"
	"github.com/joineazy/tracker/core/user"
)

type userApi struct {
	asgSvc  *assignment.Service
	metrics *metrics
}

func registerUserAPI(g *echo.Group, throttle echo.MiddlewareFunc, asgSvc *assignment.Service, m *metrics) {
	api := userApi{asgSvc: asgSvc, metrics: m}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/register", api.register, throttle)
	ug.POST("/login", api.login, throttle)
	ug.POST("/logout", api.logout)
	ug.GET("/roles", api.queryRoles)

	// authed endpoints
	ug.GET("/me", api.me, loginRequired())
	ug.GET("/students", api.queryStudents, adminRequired())
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	authSvc, err := getContextAuth(ctx)
	if err != nil {
		return err
	}
	usr, err := authSvc.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	api.metrics.registrations.Inc()

	return ctx.JSON(http.StatusCreated, usr.Profile())
}

func (api *userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	authSvc, err := getContextAuth(ctx)
	if err != nil {
		return err
	}
	usr, err := authSvc.Login(data)
	api.metrics.recordLogin(err)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}

	return ctx.JSON(http.StatusOK, usr.Profile())
}

func (api *userApi) logout(ctx echo.Context) error {
	authSvc, err := getContextAuth(ctx)
	if err != nil {
		return err
	}
	if err := authSvc.Logout(); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr.Profile())
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

// queryStudents lists the students an assignment can be given to.
func (api *userApi) queryStudents(ctx echo.Context) error {
	students, err := api.asgSvc.QueryStudents()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}
