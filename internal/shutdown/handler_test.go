package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yourusername/ludbot/internal/output"
)

func TestShutdown_RunsFuncsInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	logger := output.NewRecorder()
	h := NewHandler(context.Background(), logger, time.Second)

	var order []string
	h.RegisterShutdownFunc("first", func() error { order = append(order, "first"); return nil })
	h.RegisterShutdownFunc("second", func() error { order = append(order, "second"); return errors.New("boom") })
	h.RegisterShutdownFunc("third", func() error { order = append(order, "third"); return nil })

	h.Shutdown()
	h.Shutdown()

	assert.Equal(t, []string{"first", "second", "third"}, order, "each step runs once, failures do not stop later steps")
	assert.True(t, logger.Contains("Shutdown step second failed: boom"))
	assert.True(t, logger.Contains("SUCCESS: Shutdown complete"))
	assert.Error(t, h.Context().Err(), "shutdown cancels the context")
}

func TestShutdown_ForceTimeout(t *testing.T) {
	logger := output.NewRecorder()
	h := NewHandler(context.Background(), logger, 20*time.Millisecond)

	release := make(chan struct{})
	h.RegisterShutdownFunc("stuck", func() error {
		<-release
		return nil
	})

	h.Shutdown()
	close(release)

	assert.True(t, logger.Contains("Forced shutdown after 20ms"))
}

func TestTrigger_CancelsContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewHandler(context.Background(), output.NewRecorder(), time.Second)
	require.NoError(t, h.Context().Err())

	h.Trigger()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
	assert.ErrorIs(t, h.Context().Err(), context.Canceled)
}
