package models

// Error code constants
const (
	// General errors
	ErrBadRequest     = "BAD_REQUEST"
	ErrUnauthorized   = "UNAUTHORIZED"
	ErrForbidden      = "FORBIDDEN"
	ErrNotFound       = "NOT_FOUND"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"

	// Token endpoint error code (all validation failures share it)
	ErrInvalidParameter = "invalid_parameter"

	// OAuth/Auth errors (maintain RFC 6749 compatibility)
	ErrInvalidRequest       = "invalid_request"
	ErrInvalidClient        = "invalid_client"
	ErrInvalidGrant         = "invalid_grant"
	ErrInvalidScope         = "invalid_scope"
	ErrUnsupportedGrantType = "unsupported_grant_type"
)

// FieldError names a single offending request property.
type FieldError struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

// FieldErrors is the validation failure result for a whole request.
// It is an error so validators can return it through ordinary error
// plumbing while the HTTP boundary renders the per-field detail.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e[0].Property + ": " + e[0].Message
}

// Add appends a field error and returns the extended list.
func (e FieldErrors) Add(property, message string) FieldErrors {
	return append(e, FieldError{Property: property, Message: message})
}

// ValidationErrorResponse is the 400 response body of the token endpoint.
type ValidationErrorResponse struct {
	Status int          `json:"status"`
	Code   string       `json:"code"`
	Errors []FieldError `json:"errors"`
}

// NewValidationErrorResponse wraps field errors in the standard envelope.
func NewValidationErrorResponse(errs FieldErrors) ValidationErrorResponse {
	return ValidationErrorResponse{
		Status: 400,
		Code:   ErrInvalidParameter,
		Errors: errs,
	}
}

// TokenResponse is the 200 response body of the token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}
