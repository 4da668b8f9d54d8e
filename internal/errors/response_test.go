package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResponseTestSuite struct {
	suite.Suite
	traceID string
}

func (s *ResponseTestSuite) SetupTest() {
	s.traceID = "550e8400-e29b-41d4-a716-446655440000"
}

func TestResponseTestSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (s *ResponseTestSuite) TestNewErrorResponse_BasicUsage() {
	response := NewErrorResponse(AuthInvalidCredentials, s.traceID)

	s.Equal("AUTH_001", response.Error.Code)
	s.Equal("Invalid credentials!", response.Error.Message)
	s.Equal(s.traceID, response.Error.TraceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewErrorResponse_WithOptions() {
	response := NewErrorResponse(
		CategoryNotFound,
		s.traceID,
		WithMessage("No such category"),
		WithDetails("id: 42"),
	)

	s.Equal("CATEGORY_001", response.Error.Code)
	s.Equal("No such category", response.Error.Message)
	s.Equal([]string{"id: 42"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestWithDetails_LastWins() {
	response := NewErrorResponse(ValidationGeneral, s.traceID, WithDetails("a", "b"), WithDetails("c"))
	s.Equal([]string{"c"}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_SortedByField() {
	response := NewValidationError(map[string]string{
		"date":     "Enter a valid date.",
		"amount":   "Ensure that there are no more than 2 decimal places.",
		"category": "Select a valid choice.",
	}, s.traceID)

	s.Equal("VALIDATION_001", response.Error.Code)
	s.Equal([]string{
		"amount: Ensure that there are no more than 2 decimal places.",
		"category: Select a valid choice.",
		"date: Enter a valid date.",
	}, response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationError_Empty() {
	response := NewValidationError(map[string]string{}, s.traceID)
	s.Empty(response.Error.Details)
}

func (s *ResponseTestSuite) TestNewValidationErrorFromList() {
	details := []string{"username: is required"}
	response := NewValidationErrorFromList(details, s.traceID)

	s.Equal("VALIDATION_001", response.Error.Code)
	s.Equal(details, response.Error.Details)
}

func (s *ResponseTestSuite) TestWrapSystemError_HidesInternals() {
	internalErr := errors.New("SQL error: relation \"transactions\" does not exist")

	response, originalErr := WrapSystemError(internalErr, s.traceID)

	s.Equal("SYSTEM_001", response.Error.Code)
	s.NotContains(response.Error.Message, "SQL")
	s.Empty(response.Error.Details)
	s.Equal(internalErr, originalErr)
}

func (s *ResponseTestSuite) TestWrapDatabaseError() {
	dbErr := errors.New("connection pool exhausted")

	response, originalErr := WrapDatabaseError(dbErr, s.traceID)

	s.Equal("SYSTEM_002", response.Error.Code)
	s.Equal("Database connection error", response.Error.Message)
	s.Equal(dbErr, originalErr)
}

func (s *ResponseTestSuite) TestToJSON_Structure() {
	jsonBytes, err := NewErrorResponse(ValidationGeneral, s.traceID, WithDetails("date: invalid")).ToJSON()
	s.Require().NoError(err)

	var jsonMap map[string]interface{}
	s.Require().NoError(json.Unmarshal(jsonBytes, &jsonMap))

	errorObj := jsonMap["error"].(map[string]interface{})
	s.Equal("VALIDATION_001", errorObj["code"])
	s.Equal(s.traceID, errorObj["trace_id"])
	s.Equal([]interface{}{"date: invalid"}, errorObj["details"])
}

func (s *ResponseTestSuite) TestToJSON_OmitsEmptyDetails() {
	jsonBytes, err := NewErrorResponse(AuthMissingSession, s.traceID).ToJSON()
	s.Require().NoError(err)

	var jsonMap map[string]map[string]interface{}
	s.Require().NoError(json.Unmarshal(jsonBytes, &jsonMap))

	_, hasDetails := jsonMap["error"]["details"]
	s.False(hasDetails)
}

func (s *ResponseTestSuite) TestGetHTTPStatus() {
	testCases := []struct {
		code           ErrorCode
		expectedStatus int
	}{
		{ValidationGeneral, http.StatusBadRequest},
		{ValidationPasswordMismatch, http.StatusBadRequest},
		{CategoryTypeMismatch, http.StatusBadRequest},
		{TransactionInvalidID, http.StatusBadRequest},
		{AuthInvalidCredentials, http.StatusUnauthorized},
		{AuthMissingSession, http.StatusUnauthorized},
		{AuthInsufficientPermission, http.StatusForbidden},
		{AuthAccountLocked, http.StatusForbidden},
		{TransactionNotFound, http.StatusNotFound},
		{CategoryNotFound, http.StatusNotFound},
		{UserNotFound, http.StatusNotFound},
		{SystemRouteNotFound, http.StatusNotFound},
		{SystemMethodNotAllowed, http.StatusMethodNotAllowed},
		{SystemRateLimitExceeded, http.StatusTooManyRequests},
		{SystemServiceUnavailable, http.StatusServiceUnavailable},
		{SystemDatabaseError, http.StatusInternalServerError},
		{"UNKNOWN_999", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Equal(tc.expectedStatus, GetHTTPStatus(tc.code))
		})
	}
}

func (s *ResponseTestSuite) TestClientAndServerErrors() {
	client := NewErrorResponse(TransactionNotFound, s.traceID)
	s.True(client.IsClientError())
	s.False(client.IsServerError())

	server := NewErrorResponse(SystemInternalError, s.traceID)
	s.True(server.IsServerError())
	s.False(server.IsClientError())
}

func (s *ResponseTestSuite) TestString() {
	str := NewErrorResponse(TransactionNotFound, s.traceID).String()

	s.Contains(str, "TRANSACTION_001")
	s.Contains(str, "Transaction not found")
	s.Contains(str, s.traceID)
}
