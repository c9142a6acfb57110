package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tsuwallet/pkg/logger"
	jsonres "tsuwallet/pkg/response"
)

// ErrorHandler is the echo HTTPErrorHandler: echo.HTTPError passes through
// with its status, anything else becomes an opaque 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	} else {
		logger.Error("Unhandled error", "path", c.Path(), err)
	}

	if writeErr := c.JSON(code, jsonres.Error(http.StatusText(code), message, nil)); writeErr != nil {
		logger.Error("Failed to write error response", writeErr)
	}
}
