package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"finance-tracker/internal/errors"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// All handlers must use the following standardized error response functions:
//
// 1. SendError - For client errors and business logic errors (4xx responses)
//    Use cases:
//    - Validation errors: SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - Authorization errors: SendError(c, errors.AuthInsufficientPermission)
//    - Not found errors: SendError(c, errors.TransactionNotFound)
//
// 2. SendSystemError - For system/internal errors (500 responses)
//    Use cases:
//    - Database errors from repositories
//    - Service layer internal errors
//
// Both answer with JSON for API clients and with the error page otherwise.
// Form problems on HTML views are not errors: they are flashed or shown next
// to the field and the view is rendered again.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"

	errorTemplate = "error"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WantsJSON reports whether the client should get JSON instead of HTML:
// the management API, bearer-token callers and requests that ask for it.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, "/admin/api") {
		return true
	}
	if strings.HasPrefix(req.Header.Get(echo.HeaderAuthorization), "Bearer ") {
		return true
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	errorResponse := errors.NewErrorResponse(code, getTraceID(c), opts...)
	return RespondError(c, errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError logs err and answers with a generic 500 so internals stay hidden.
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	slog.Error("request failed",
		"trace_id", traceID,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err)

	errorResponse, _ := errors.WrapSystemError(err, traceID)
	return RespondError(c, http.StatusInternalServerError, errorResponse)
}

// RespondError writes errorResponse as JSON or as the error page. The page
// falls back to JSON when no renderer is installed or rendering fails.
func RespondError(c echo.Context, status int, errorResponse *errors.ErrorResponse) error {
	if WantsJSON(c) || c.Echo().Renderer == nil {
		return c.JSON(status, errorResponse)
	}

	view := baseView(c, View{
		"Status":  status,
		"Code":    errorResponse.Error.Code,
		"Message": errorResponse.Error.Message,
		"Details": errorResponse.Error.Details,
		"TraceID": errorResponse.Error.TraceID,
	})
	if err := c.Render(status, errorTemplate, view); err != nil {
		slog.Error("failed to render error page", "trace_id", errorResponse.Error.TraceID, "error", err)
		return c.JSON(status, errorResponse)
	}
	return nil
}
