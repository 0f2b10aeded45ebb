package errors

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/yourusername/ludbot/internal/output"
)

func TestIsType_ThroughWrapping(t *testing.T) {
	base := NewConnectionError("Connection closed by server.", stderrors.New("EOF"))
	wrapped := fmt.Errorf("listen: %w", base)

	tests := []struct {
		name string
		err  error
		typ  ErrorType
		want bool
	}{
		{"direct match", base, ErrorTypeConnection, true},
		{"wrapped match", wrapped, ErrorTypeConnection, true},
		{"other type", wrapped, ErrorTypeFraming, false},
		{"plain error", stderrors.New("x"), ErrorTypeConnection, false},
		{"nil", nil, ErrorTypeConnection, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsType(tt.err, tt.typ); got != tt.want {
				t.Errorf("IsType(%v, %s) = %v, want %v", tt.err, tt.typ, got, tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(NewNicknameExhaustedError("LudBot", 99)); got != ErrorTypeNicknameExhausted {
		t.Errorf("TypeOf() = %s, want %s", got, ErrorTypeNicknameExhausted)
	}
	if got := TypeOf(stderrors.New("x")); got != ErrorTypeUnexpected {
		t.Errorf("TypeOf() = %s, want %s", got, ErrorTypeUnexpected)
	}
}

func TestBotError_Unwrap(t *testing.T) {
	cause := stderrors.New("timeout")
	err := NewProviderError("joke", cause)

	if !stderrors.Is(err, cause) {
		t.Errorf("errors.Is(ProviderError, cause) = false, want true")
	}
	if err.UserMessage != "Could not retrieve joke." {
		t.Errorf("UserMessage = %q", err.UserMessage)
	}
}

func TestErrorHandler_Handle(t *testing.T) {
	rec := output.NewRecorder()
	out, err := output.NewOutput(rec, filepath.Join(t.TempDir(), "error.log"), 0, 0)
	if err != nil {
		t.Fatalf("NewOutput() error = %v", err)
	}
	h := NewErrorHandler(out)

	if msg := h.Handle(NewNotConnectedError("PRIVMSG")); msg != "Socket not connected." {
		t.Errorf("Handle() = %q, want %q", msg, "Socket not connected.")
	}
	if msg := h.Handle(stderrors.New("odd")); msg != "An unexpected error occurred." {
		t.Errorf("Handle() = %q", msg)
	}
	if msg := h.Handle(nil); msg != "" {
		t.Errorf("Handle(nil) = %q, want empty", msg)
	}
	if !rec.Contains("NotConnected: Socket not connected.") {
		t.Errorf("expected NotConnected entry, got %v", rec.Lines())
	}
}
