package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joineazy/tracker/core"
	"github.com/joineazy/tracker/core/assignment"
	"github.com/joineazy/tracker/core/session"
	"github.com/joineazy/tracker/core/user"
)

// sentinelErrors maps the domain sentinels to HTTP errors.
var sentinelErrors = []struct {
	err  error
	herr *echo.HTTPError
}{
	{user.ErrInvalidCredentials, echo.NewHTTPError(http.StatusBadRequest, user.ErrInvalidCredentials.Error())},
	{user.ErrNotFound, echo.NewHTTPError(http.StatusNotFound, user.ErrNotFound.Error())},
	{assignment.ErrNotFound, echo.NewHTTPError(http.StatusNotFound, assignment.ErrNotFound.Error())},
	{assignment.ErrNotAssigned, echo.NewHTTPError(http.StatusForbidden, assignment.ErrNotAssigned.Error())},
	{session.ErrNoSession, errUnauthorized},
}

func httpErrorFor(cause error) error {
	for _, s := range sentinelErrors {
		if cause == s.err {
			return s.herr
		}
	}
	return cause
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := httpErrorFor(errors.Cause(err)).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, fErr := range core.TranslateErrors(origErr) {
				fldErrs[fErr.Field] = fErr.Error
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			args := []interface{}{
				errors.Wrap(err, msg),
				map[string]interface{}{"route": ctx.Path(), "method": ctx.Request().Method},
			}
			if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
				args = append(args, usr)
			}
			logger.Error(msg, args...)
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
