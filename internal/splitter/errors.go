package splitter

import "fmt"

// SplitError reports a split message that could not be sent in full
type SplitError struct {
	Code    string
	Message string
	Details string
	Err     error
}

// Error implements the error interface
func (e *SplitError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the error that stopped the send
func (e *SplitError) Unwrap() error {
	return e.Err
}

// NewPartialSendFailure creates a new partial send failure error
func NewPartialSendFailure(partsSent, totalParts int, err error) *SplitError {
	return &SplitError{
		Code:    "PARTIAL_SEND_FAILURE",
		Message: "message split partially sent before failure",
		Details: fmt.Sprintf("sent %d of %d parts, last error: %v", partsSent, totalParts, err),
		Err:     err,
	}
}
