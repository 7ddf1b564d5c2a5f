package api

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
)

const (
	NonFieldErrorsKey = "non_field_errors"

	CodeRequired        = "required"
	CodeInvalidEmail    = "invalid_email"
	CodeTooLong         = "too_long"
	CodeParseError      = "parse_error"
	CodeInvalidToken    = "invalid_token"
	CodeInvalidPassword = "invalid_password"
	CodeInvalid         = "invalid"
)

type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// FieldErrors maps a request field to every problem found with it. It is
// rendered as a 400 response body.
type FieldErrors map[string][]FieldError

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, fe := range e[field] {
			parts = append(parts, field+": "+fe.Message)
		}
	}
	return strings.Join(parts, "; ")
}

func (e FieldErrors) Add(field, code, message string) FieldErrors {
	e[field] = append(e[field], FieldError{Code: code, Message: message})
	return e
}

func NewFieldError(field, code, message string) FieldErrors {
	return FieldErrors{}.Add(field, code, message)
}

type messageResponse struct {
	Message string `json:"message"`
}

// ErrorHandler renders validation failures as field maps, echo errors as
// {"message": ...} and anything else as an opaque 500.
func ErrorHandler(logger *logging.Service) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			body   any
		)

		var fieldErrs FieldErrors
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &fieldErrs):
			status, body = http.StatusBadRequest, fieldErrs
		case errors.As(err, &httpErr):
			status = httpErr.Code
			msg, ok := httpErr.Message.(string)
			if !ok {
				msg = http.StatusText(status)
			}
			body = messageResponse{Message: msg}
		default:
			logger.Error("unhandled request error",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path))
			status = http.StatusInternalServerError
			body = messageResponse{Message: http.StatusText(http.StatusInternalServerError)}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}
