package types

// APIError is the error body returned by every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError in the response envelope.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewErrorResponse creates an error response with the given code and message.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: message}}
}

// Error codes emitted by the API.
const (
	ErrorCodeValidation         = "VALIDATION_ERROR"
	ErrorCodeUnauthorized       = "UNAUTHORIZED"
	ErrorCodeNotFound           = "NOT_FOUND"
	ErrorCodeConflict           = "CONFLICT"
	ErrorCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrorCodeInternal           = "INTERNAL_ERROR"
	ErrorCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
)
