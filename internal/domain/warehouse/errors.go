package warehouse

// DomainError represents a console-level error raised before anything reaches the backend
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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
	ErrInvalidPageRequest = NewDomainError("INVALID_PAGE_REQUEST", "Page must be >= 0 and size must be > 0")
	ErrMissingIdentity    = NewDomainError("MISSING_IDENTITY", "Record identity is required for this operation")
)
