package commands

import (
	"strings"
	"sync"
	"time"

	boterrors "github.com/yourusername/ludbot/internal/errors"
	"github.com/yourusername/ludbot/internal/output"
)

// DefaultPrefix marks a channel message as a command
const DefaultPrefix = "!"

// UsageRecorder stores command invocations
type UsageRecorder interface {
	RecordCommand(command, nick string) error
}

// Dispatcher handles command detection and routing
type Dispatcher struct {
	registry      *Registry
	unknown       Command
	private       Command
	logger        output.Logger
	usage         UsageRecorder
	commandPrefix string
	clock         func() time.Time

	inflight sync.WaitGroup
}

// NewDispatcher creates a dispatcher. unknown answers channel commands not
// in the registry; private answers every private message. usage may be nil.
func NewDispatcher(registry *Registry, unknown, private Command, logger output.Logger, usage UsageRecorder) *Dispatcher {
	return &Dispatcher{
		registry:      registry,
		unknown:       unknown,
		private:       private,
		logger:        logger,
		usage:         usage,
		commandPrefix: DefaultPrefix,
		clock:         time.Now,
	}
}

// IsCommand checks if a message is a command (starts with the command prefix)
func (d *Dispatcher) IsCommand(message string) bool {
	return strings.HasPrefix(message, d.commandPrefix)
}

// ParseCommand splits a command message into its name, the token after the
// prefix up to the first space, and the text after that space
func (d *Dispatcher) ParseCommand(message string) (command, args string) {
	if !d.IsCommand(message) {
		return "", ""
	}
	command, args, _ = strings.Cut(strings.TrimPrefix(message, d.commandPrefix), " ")
	return command, args
}

// Dispatch runs the channel command in req.Message
func (d *Dispatcher) Dispatch(sender Sender, req Request) {
	name, args := d.ParseCommand(req.Message)
	ctx := NewContext(name, args, req.Message, req.Nick, req.Target, false, req.Members, d.clock(), sender)

	cmd, ok := d.registry.Get(name)
	if !ok {
		cmd = d.unknown
	}
	d.run(cmd, ctx)
}

// DispatchPrivate answers a private message
func (d *Dispatcher) DispatchPrivate(sender Sender, req Request) {
	ctx := NewContext(d.private.Name(), req.Message, req.Message, req.Nick, "", true, nil, d.clock(), sender)
	d.run(d.private, ctx)
}

func (d *Dispatcher) run(cmd Command, ctx *Context) {
	if cmd == nil {
		return
	}

	if d.usage != nil {
		if err := d.usage.RecordCommand(cmd.Name(), ctx.Nick); err != nil {
			d.logger.Warning("Failed to record usage of %s: %v", cmd.Name(), err)
		}
	}

	if !cmd.Async() {
		d.execute(cmd, ctx)
		return
	}
	d.inflight.Go(func() {
		d.execute(cmd, ctx)
	})
}

func (d *Dispatcher) execute(cmd Command, ctx *Context) {
	err := cmd.Execute(ctx)
	if err == nil {
		return
	}

	// The session may have ended while a provider call was running
	if boterrors.IsType(err, boterrors.ErrorTypeNotConnected) {
		d.logger.Warning("Dropped %s reply to %s: %v", cmd.Name(), ctx.ReplyTarget(), err)
		return
	}
	d.logger.Error("Command %s from %s failed: %v", cmd.Name(), ctx.Nick, err)
}

// WaitForInflight waits up to timeout for async commands to finish and
// reports whether they did
func (d *Dispatcher) WaitForInflight(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// GetRegistry returns the command registry
func (d *Dispatcher) GetRegistry() *Registry {
	return d.registry
}
