package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication and authorization error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingSession         ErrorCode = "AUTH_002"
	AuthExpiredSession         ErrorCode = "AUTH_003"
	AuthInvalidSession         ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
	AuthAccountLocked          ErrorCode = "AUTH_006"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral          ErrorCode = "VALIDATION_001"
	ValidationRequiredField    ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat    ErrorCode = "VALIDATION_003"
	ValidationOutOfRange       ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail     ErrorCode = "VALIDATION_005"
	ValidationInvalidDate      ErrorCode = "VALIDATION_006"
	ValidationPasswordMismatch ErrorCode = "VALIDATION_007"
	ValidationUsernameTaken    ErrorCode = "VALIDATION_008"
)

// User error codes (USER_*)
const (
	UserNotFound     ErrorCode = "USER_001"
	UserInvalidID    ErrorCode = "USER_002"
	UserSelfDeletion ErrorCode = "USER_003"
)

// Category error codes (CATEGORY_*)
const (
	CategoryNotFound     ErrorCode = "CATEGORY_001"
	CategoryInvalidType  ErrorCode = "CATEGORY_002"
	CategoryTypeMismatch ErrorCode = "CATEGORY_003"
	CategoryInvalidOwner ErrorCode = "CATEGORY_004"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound      ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount ErrorCode = "TRANSACTION_002"
	TransactionInvalidType   ErrorCode = "TRANSACTION_003"
	TransactionInvalidID     ErrorCode = "TRANSACTION_004"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
	SystemMethodNotAllowed   ErrorCode = "SYSTEM_008"
)

var errorMessages = map[ErrorCode]string{
	AuthInvalidCredentials:     "Invalid credentials!",
	AuthMissingSession:         "Please log in to continue",
	AuthExpiredSession:         "Your session has expired, please log in again",
	AuthInvalidSession:         "Your session is invalid, please log in again",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",
	AuthAccountLocked:          "Account is locked after too many failed login attempts",

	ValidationGeneral:          "Validation failed",
	ValidationRequiredField:    "Required field is missing",
	ValidationInvalidFormat:    "Invalid field format",
	ValidationOutOfRange:       "Field value is out of allowed range",
	ValidationInvalidEmail:     "Invalid email address format",
	ValidationInvalidDate:      "Enter a valid date in DD-MM-YYYY format",
	ValidationPasswordMismatch: "Passwords do not match!",
	ValidationUsernameTaken:    "Username already taken!",

	UserNotFound:     "User not found",
	UserInvalidID:    "Invalid user ID format",
	UserSelfDeletion: "Administrators cannot delete their own account",

	CategoryNotFound:     "Category not found",
	CategoryInvalidType:  "Category type must be income or expense",
	CategoryTypeMismatch: "Category does not match the transaction type",
	CategoryInvalidOwner: "Global categories cannot have an owner",

	TransactionNotFound:      "Transaction not found",
	TransactionInvalidAmount: "Invalid transaction amount",
	TransactionInvalidType:   "Transaction type must be income or expense",
	TransactionInvalidID:     "Invalid transaction ID format",

	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "Page not found",
	SystemMethodNotAllowed:   "Method not allowed",
}

// GetErrorMessage returns the default message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
