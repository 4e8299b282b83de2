package shared

// DomainError represents a domain-level error
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

// Error codes for the guide creation pipeline. VALIDATION and PRICE_INTEGRITY
// failures are raised before the creation transaction opens, so the caller can
// correct the input and resubmit without any state having changed.
const (
	CodeValidation     = "VALIDATION"
	CodeAuthorization  = "AUTHORIZATION"
	CodePriceIntegrity = "PRICE_INTEGRITY"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidState   = "INVALID_STATE"
	CodePersistence    = "PERSISTENCE"
	CodePublishing     = "PUBLISHING"
)

// Common domain errors
var (
	ErrNotFound     = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput = NewDomainError(CodeValidation, "Invalid input provided")
	ErrUnauthorized = NewDomainError(CodeAuthorization, "Not authorized to perform this action")
	ErrInvalidState = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrPersistence  = NewDomainError(CodePersistence, "Storage operation failed, please retry")
)

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
