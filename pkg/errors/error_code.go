package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeSchemaMismatch       ErrorCode = 102
	ErrCodeRangeInvalid         ErrorCode = 103

	// Input errors (200-299)
	ErrCodeFileRead   ErrorCode = 200
	ErrCodeDateParse  ErrorCode = 201
	ErrCodeValueParse ErrorCode = 202

	// Model errors (300-399)
	ErrCodeModelLoad        ErrorCode = 300
	ErrCodeModelInvocation  ErrorCode = 301
	ErrCodeVersionMismatch  ErrorCode = 302
	ErrCodeModelNotProvided ErrorCode = 303

	// Output errors (400-499)
	ErrCodeWriteFailed ErrorCode = 400
	ErrCodeQueryFailed ErrorCode = 401
)

// String returns a short, stable name for the code. It is used in logs and API responses.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidParameter:
		return "invalid_parameter"
	case ErrCodeInvalidConfiguration:
		return "invalid_configuration"
	case ErrCodeSchemaMismatch:
		return "schema_mismatch"
	case ErrCodeRangeInvalid:
		return "range_invalid"
	case ErrCodeFileRead:
		return "file_read"
	case ErrCodeDateParse:
		return "date_parse"
	case ErrCodeValueParse:
		return "value_parse"
	case ErrCodeModelLoad:
		return "model_load"
	case ErrCodeModelInvocation:
		return "model_invocation"
	case ErrCodeVersionMismatch:
		return "version_mismatch"
	case ErrCodeModelNotProvided:
		return "model_not_provided"
	case ErrCodeWriteFailed:
		return "write_failed"
	case ErrCodeQueryFailed:
		return "query_failed"
	default:
		return "unknown"
	}
}
