package shared

// DomainError is a coded error raised by domain and application code.
// The HTTP layer maps Code to a status.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on Code, so errors.Is(err, ErrNotFound) holds for any
// NewDomainError("NOT_FOUND", ...).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrNotFound       = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists  = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrOptimisticLock = NewDomainError("OPTIMISTIC_LOCK_ERROR", "Record was modified by another transaction")
	ErrInvalidState   = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
