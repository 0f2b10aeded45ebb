package errors

import (
	"fmt"

	"github.com/yourusername/ludbot/internal/output"
)

// ErrorHandler logs errors to the console and the error file
type ErrorHandler struct {
	output *output.Output
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(output *output.Output) *ErrorHandler {
	return &ErrorHandler{
		output: output,
	}
}

// Handle logs err and returns its user-facing message
func (h *ErrorHandler) Handle(err error) string {
	if err == nil {
		return ""
	}

	if botErr, ok := AsBotError(err); ok {
		h.output.LogErrorToFile(string(botErr.Type), botErr.UserMessage, botErr.InternalError)
		return botErr.UserMessage
	}

	h.output.LogErrorToFile(string(ErrorTypeUnexpected), "Unexpected error occurred", err)
	return "An unexpected error occurred."
}

// LogError logs an error with context, without a user message
func (h *ErrorHandler) LogError(err error, context string) {
	if err == nil {
		return
	}

	contextualErr := fmt.Errorf("%s: %w", context, err)

	if botErr, ok := AsBotError(err); ok {
		h.output.LogErrorToFile(
			string(botErr.Type),
			fmt.Sprintf("%s: %s", context, botErr.UserMessage),
			contextualErr,
		)
		return
	}

	h.output.LogErrorToFile(string(ErrorTypeUnexpected), context, contextualErr)
}
