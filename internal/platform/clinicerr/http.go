package clinicerr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func statusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorHandler returns an echo error handler that maps the error taxonomy
// to status codes and a JSON body. Internal errors are logged with their cause
// and answered with a generic message so nothing leaks to the client.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := map[string]interface{}{"error": "internal server error"}

		var ce *Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ce):
			status = statusFor(ce.Kind)
			if ce.Kind == KindInternal {
				rid, _ := c.Get("request_id").(string)
				logger.Error().Err(ce.Unwrap()).
					Str("request_id", rid).
					Str("path", c.Request().URL.Path).
					Msg(ce.Message)
			} else {
				body["error"] = ce.Message
				for k, v := range ce.Detail {
					body[k] = v
				}
			}
		case errors.As(err, &he):
			status = he.Code
			body["error"] = he.Message
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("failed to write error response")
		}
	}
}
