package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// errors answered by the central handler, by code and route
	httpErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finance_tracker_http_errors_total",
			Help: "Total number of HTTP errors by code, route, and status",
		},
		[]string{"code", "route", "status"},
	)
)

// CustomHTTPErrorHandler answers every error that escapes a handler with the
// standard error body, as JSON for API callers and as the error page for
// browsers.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	var errorResponse *errors.ErrorResponse
	var httpStatus int

	var echoErr *echo.HTTPError
	var validationErrs validator.ValidationErrors
	switch {
	case stderrors.As(err, &echoErr):
		httpStatus = echoErr.Code
		errorResponse = errors.NewErrorResponse(mapHTTPStatusToErrorCode(httpStatus), traceID)
		// echo's own errors carry the bare status text; keep ours friendlier
		if message, ok := echoErr.Message.(string); ok && message != http.StatusText(httpStatus) {
			errorResponse.Error.Message = message
		}
	case stderrors.As(err, &validationErrs):
		errorResponse = errors.NewValidationError(validation.FieldErrors(validationErrs), traceID)
		httpStatus = http.StatusBadRequest
	default:
		errorResponse, _ = errors.WrapSystemError(err, traceID)
		httpStatus = errorResponse.GetHTTPStatus()
	}

	logLevel := slog.LevelWarn
	if httpStatus >= 500 {
		logLevel = slog.LevelError
	}

	slog.Log(c.Request().Context(), logLevel, "HTTP error occurred",
		"trace_id", traceID,
		"error_code", errorResponse.Error.Code,
		"status", httpStatus,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
	)

	httpErrorsTotal.WithLabelValues(
		errorResponse.Error.Code,
		c.Path(),
		fmt.Sprintf("%d", httpStatus),
	).Inc()

	if c.Request().Method == http.MethodHead {
		if sendErr := c.NoContent(httpStatus); sendErr != nil {
			slog.Error("Failed to send error response", "trace_id", traceID, "error", sendErr.Error())
		}
		return
	}

	if sendErr := handlers.RespondError(c, httpStatus, errorResponse); sendErr != nil {
		slog.Error("Failed to send error response",
			"trace_id", traceID,
			"error", sendErr.Error(),
		)
	}
}

// mapHTTPStatusToErrorCode maps HTTP status codes to error codes
func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.ValidationGeneral
	case http.StatusUnauthorized:
		return errors.AuthMissingSession
	case http.StatusForbidden:
		return errors.AuthInsufficientPermission
	case http.StatusNotFound:
		return errors.SystemRouteNotFound
	case http.StatusMethodNotAllowed:
		return errors.SystemMethodNotAllowed
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusInternalServerError:
		return errors.SystemInternalError
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemUnexpectedError
	}
}
