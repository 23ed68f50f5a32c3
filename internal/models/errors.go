package models

// ErrorKind classifies a service error so the transport layer can pick the
// right HTTP status without inspecting message strings.
type ErrorKind int

const (
	ErrValidation ErrorKind = iota
	ErrAuth
	ErrNotFound
	ErrStorage
)

// APIError is the error type returned by every service operation. Message is
// safe to show to callers; Cause carries the underlying failure for logging.
type APIError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports a malformed or incomplete request.
func NewValidationError(message string) *APIError {
	return &APIError{Kind: ErrValidation, Message: message}
}

// NewAuthError reports failed authentication. The same message is used for
// unknown users and wrong passwords.
func NewAuthError() *APIError {
	return &APIError{Kind: ErrAuth, Message: "Invalid credentials"}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(message string) *APIError {
	return &APIError{Kind: ErrNotFound, Message: message}
}

// NewStorageError wraps a database failure. The caller-facing message stays
// generic; the cause is logged server side.
func NewStorageError(cause error) *APIError {
	return &APIError{Kind: ErrStorage, Message: "Internal server error", Cause: cause}
}
