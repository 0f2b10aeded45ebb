package irc

import (
	"context"
	"fmt"
	"time"

	boterrors "github.com/yourusername/ludbot/internal/errors"
	"github.com/yourusername/ludbot/internal/output"
)

// Runner is one session lifetime as seen by the Supervisor
type Runner interface {
	Connect(ctx context.Context) error
	Register() error
	Listen() error
	Disconnect() error
	Registered() bool
}

// RunnerFactory creates a fresh Runner for each attempt
type RunnerFactory func() (Runner, error)

// Supervisor runs sessions and applies the reconnect policy
type Supervisor struct {
	newRunner   RunnerFactory
	logger      output.Logger
	maxAttempts int
	retryDelay  time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewSupervisor creates a supervisor allowing maxAttempts consecutive
// connection failures with retryDelay between them
func NewSupervisor(newRunner RunnerFactory, logger output.Logger, maxAttempts int, retryDelay time.Duration) *Supervisor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Supervisor{
		newRunner:   newRunner,
		logger:      logger,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		sleep:       sleepContext,
	}
}

// Run keeps a session alive until ctx is cancelled or a failure is terminal.
// Cancellation disconnects the running session and returns nil. Connection
// errors are retried; the failure count resets once a session registers.
func (s *Supervisor) Run(ctx context.Context) error {
	failures := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		runner, err := s.newRunner()
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		err = s.runOnce(ctx, runner)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		if !boterrors.IsType(err, boterrors.ErrorTypeConnection) {
			return err
		}

		if runner.Registered() {
			failures = 0
		}
		failures++
		s.logger.Error("%v", err)

		if failures >= s.maxAttempts {
			message := fmt.Sprintf("Could not connect after %d attempts.", s.maxAttempts)
			s.logger.Error("%s", message)
			return boterrors.NewConnectionError(message, err)
		}

		s.logger.Info("Retrying in %v (attempt %d of %d).", s.retryDelay, failures+1, s.maxAttempts)
		if err := s.sleep(ctx, s.retryDelay); err != nil {
			return nil
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context, runner Runner) error {
	if err := runner.Connect(ctx); err != nil {
		return err
	}

	disconnected := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(disconnected)
		s.logger.Info("Interrupt received, disconnecting.")
		if err := runner.Disconnect(); err != nil {
			s.logger.Warning("Disconnect failed: %v", err)
		}
	})
	defer func() {
		if !stop() {
			<-disconnected
		}
	}()

	if err := runner.Register(); err != nil {
		_ = runner.Disconnect()
		return err
	}

	return runner.Listen()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
