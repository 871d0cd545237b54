package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeNetwork       = "NETWORK_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInvalidState  = "INVALID_STATE"
	ErrCodeStorage       = "STORAGE_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// DomainError carries a machine-readable code alongside a human-readable
// message. Failures are never fatal: prior state stays intact and the caller
// may retry the operation.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrPlanNotFound     = NewDomainError(ErrCodeNotFound, "Plan not found")
	ErrOrderNotFound    = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrEmptyCart        = NewDomainError(ErrCodeValidation, "Cart is empty")
	ErrTermsNotAccepted = NewDomainError(ErrCodeValidation, "Terms must be accepted")
	ErrOrderNotPaid     = NewDomainError(ErrCodeInvalidState, "Order must be paid before activation")
	ErrInvalidState     = NewDomainError(ErrCodeInvalidState, "Invalid order state")
	ErrNetwork          = NewDomainError(ErrCodeNetwork, "Network error")
)
