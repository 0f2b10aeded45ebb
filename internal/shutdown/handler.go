package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/yourusername/ludbot/internal/output"
)

type shutdownFunc struct {
	name string
	fn   func() error
}

// Handler turns SIGINT/SIGTERM into context cancellation and runs the
// registered cleanup steps once the bot stops
type Handler struct {
	logger        output.Logger
	shutdownFuncs []shutdownFunc
	mu            sync.Mutex
	ctx           context.Context
	stop          context.CancelFunc
	forceTimeout  time.Duration
	shutdownOnce  sync.Once
}

// NewHandler creates a new shutdown handler. Its context is cancelled when
// the process receives SIGINT or SIGTERM, or when Trigger is called.
func NewHandler(parent context.Context, logger output.Logger, forceTimeout time.Duration) *Handler {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	return &Handler{
		logger:       logger,
		ctx:          ctx,
		stop:         stop,
		forceTimeout: forceTimeout,
	}
}

// Context is cancelled on interrupt
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Trigger cancels the context as if an interrupt had arrived
func (h *Handler) Trigger() {
	h.stop()
}

// RegisterShutdownFunc registers a function to be called during shutdown.
// Functions are called in the order they were registered.
func (h *Handler) RegisterShutdownFunc(name string, fn func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdownFuncs = append(h.shutdownFuncs, shutdownFunc{name: name, fn: fn})
}

// Shutdown runs the registered functions, giving up after the force timeout.
// Only the first call does anything.
func (h *Handler) Shutdown() {
	h.shutdownOnce.Do(func() {
		h.stop()
		h.logger.Info("Shutting down...")

		done := make(chan struct{})
		go func() {
			h.executeShutdownFuncs()
			close(done)
		}()

		timer := time.NewTimer(h.forceTimeout)
		defer timer.Stop()

		select {
		case <-done:
			h.logger.Success("Shutdown complete")
		case <-timer.C:
			h.logger.Warning("Forced shutdown after %v", h.forceTimeout)
		}
	})
}

// executeShutdownFuncs executes all registered shutdown functions
func (h *Handler) executeShutdownFuncs() {
	h.mu.Lock()
	funcs := make([]shutdownFunc, len(h.shutdownFuncs))
	copy(funcs, h.shutdownFuncs)
	h.mu.Unlock()

	for _, f := range funcs {
		if err := f.fn(); err != nil {
			h.logger.Error("Shutdown step %s failed: %v", f.name, err)
		}
	}
}
