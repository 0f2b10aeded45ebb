package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeFraming indicates the byte stream could not be decoded; fatal to the session
	ErrorTypeFraming ErrorType = "Framing"

	// ErrorTypeNotConnected indicates a write was attempted without an open connection
	ErrorTypeNotConnected ErrorType = "NotConnected"

	// ErrorTypeConnection indicates a connect failure or a peer-initiated close
	ErrorTypeConnection ErrorType = "Connection"

	// ErrorTypeProvider indicates a joke or fact fetch failed
	ErrorTypeProvider ErrorType = "Provider"

	// ErrorTypeNicknameExhausted indicates the collision suffix ran past its bound
	ErrorTypeNicknameExhausted ErrorType = "NicknameExhausted"

	// ErrorTypeValidation indicates invalid configuration or input
	ErrorTypeValidation ErrorType = "Validation"

	// ErrorTypeUnexpected indicates an unexpected/unknown error
	ErrorTypeUnexpected ErrorType = "Unexpected"
)

// BotError represents a structured error with type and user-friendly message
type BotError struct {
	Type           ErrorType
	UserMessage    string // Message safe to show on IRC or the console
	InternalError  error  // Original error for logging
	InternalDetail string // Additional detail for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.InternalError != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.UserMessage, e.InternalError)
	}
	if e.InternalDetail != "" {
		return fmt.Sprintf("%s: %s (detail: %s)", e.Type, e.UserMessage, e.InternalDetail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.UserMessage)
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.InternalError
}

// NewFramingError creates an error for a line that cannot be decoded
func NewFramingError(encoding string, err error) *BotError {
	return &BotError{
		Type:           ErrorTypeFraming,
		UserMessage:    fmt.Sprintf("Received data that is not valid %s.", encoding),
		InternalError:  err,
		InternalDetail: fmt.Sprintf("encoding=%s", encoding),
	}
}

// NewNotConnectedError creates an error for a write on a closed session
func NewNotConnectedError(command string) *BotError {
	return &BotError{
		Type:           ErrorTypeNotConnected,
		UserMessage:    "Socket not connected.",
		InternalDetail: fmt.Sprintf("command=%s", command),
	}
}

// NewConnectionError creates an error the supervisor may retry
func NewConnectionError(message string, err error) *BotError {
	return &BotError{
		Type:          ErrorTypeConnection,
		UserMessage:   message,
		InternalError: err,
	}
}

// NewProviderError creates an error for a failed content fetch
func NewProviderError(provider string, err error) *BotError {
	return &BotError{
		Type:           ErrorTypeProvider,
		UserMessage:    fmt.Sprintf("Could not retrieve %s.", provider),
		InternalError:  err,
		InternalDetail: fmt.Sprintf("provider=%s", provider),
	}
}

// NewNicknameExhaustedError creates the terminal nickname-collision error
func NewNicknameExhaustedError(base string, limit int) *BotError {
	return &BotError{
		Type:           ErrorTypeNicknameExhausted,
		UserMessage:    fmt.Sprintf("All nicknames from %s1 to %s%d are in use.", base, base, limit),
		InternalDetail: fmt.Sprintf("base=%s, limit=%d", base, limit),
	}
}

// NewValidationError creates an error for invalid input data
func NewValidationError(message string) *BotError {
	return &BotError{
		Type:        ErrorTypeValidation,
		UserMessage: message,
	}
}

// NewUnexpectedError creates an error for unexpected failures
func NewUnexpectedError(err error) *BotError {
	return &BotError{
		Type:          ErrorTypeUnexpected,
		UserMessage:   "An unexpected error occurred.",
		InternalError: err,
	}
}

// AsBotError finds the first BotError in err's chain
func AsBotError(err error) (*BotError, bool) {
	var botErr *BotError
	if stderrors.As(err, &botErr) {
		return botErr, true
	}
	return nil, false
}

// IsBotError checks if an error is or wraps a BotError
func IsBotError(err error) bool {
	_, ok := AsBotError(err)
	return ok
}

// IsType reports whether err wraps a BotError of the given type
func IsType(err error, t ErrorType) bool {
	botErr, ok := AsBotError(err)
	return ok && botErr.Type == t
}

// TypeOf returns the BotError type in err's chain, or ErrorTypeUnexpected
func TypeOf(err error) ErrorType {
	if botErr, ok := AsBotError(err); ok {
		return botErr.Type
	}
	return ErrorTypeUnexpected
}
