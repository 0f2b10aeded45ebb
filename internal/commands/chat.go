package commands

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/yourusername/ludbot/internal/output"
)

// HelloCommand implements the !hello command
type HelloCommand struct{}

// NewHelloCommand creates a new hello command
func NewHelloCommand() *HelloCommand {
	return &HelloCommand{}
}

// Name returns the command name
func (c *HelloCommand) Name() string {
	return "hello"
}

// Execute greets the sender with the local weekday and time
func (c *HelloCommand) Execute(ctx *Context) error {
	now := ctx.Now
	message := fmt.Sprintf("%s, %s. It is %s and the time is %s.",
		greeting(now.Hour()), ctx.Nick, now.Weekday(), now.Format("15:04:05"))
	return ctx.Reply(message)
}

// Help returns help text for this command
func (c *HelloCommand) Help() string {
	return "!hello - Greet the bot"
}

// Async reports whether the command runs on its own goroutine
func (c *HelloCommand) Async() bool {
	return false
}

func greeting(hour int) string {
	switch {
	case hour >= 17:
		return "Good evening"
	case hour >= 12:
		return "Good afternoon"
	default:
		return "Good morning"
	}
}

// SlapCommand implements the !slap command
type SlapCommand struct {
	logger output.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSlapCommand creates a slap command picking random victims from rng.
// A nil rng uses a randomly seeded source.
func NewSlapCommand(logger output.Logger, rng *rand.Rand) *SlapCommand {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SlapCommand{logger: logger, rng: rng}
}

// Name returns the command name
func (c *SlapCommand) Name() string {
	return "slap"
}

// Execute slaps the named member, or a random member other than the sender
func (c *SlapCommand) Execute(ctx *Context) error {
	if target, ok := ctx.Target(); ok {
		for _, member := range ctx.Members {
			if strings.EqualFold(member, target) {
				return ctx.Reply(fmt.Sprintf("%s has slapped %s with a trout", ctx.Nick, member))
			}
		}
		return ctx.Reply(fmt.Sprintf("%s tried to slap %s, but %s is just an imaginary friend", ctx.Nick, target, target))
	}

	pool := make([]string, 0, len(ctx.Members))
	for _, member := range ctx.Members {
		if !strings.EqualFold(member, ctx.Nick) {
			pool = append(pool, member)
		}
	}
	if len(pool) == 0 {
		c.logger.Info("%s wanted to slap someone, but nobody else is in %s", ctx.Nick, ctx.Channel)
		return nil
	}

	c.mu.Lock()
	victim := pool[c.rng.IntN(len(pool))]
	c.mu.Unlock()

	return ctx.Reply(fmt.Sprintf("%s has slapped %s with a trout", ctx.Nick, victim))
}

// Help returns help text for this command
func (c *SlapCommand) Help() string {
	return "!slap [nick] - Slap someone with a trout"
}

// Async reports whether the command runs on its own goroutine
func (c *SlapCommand) Async() bool {
	return false
}

// UnknownCommand answers channel commands that are not registered
type UnknownCommand struct{}

// NewUnknownCommand creates the fallback command
func NewUnknownCommand() *UnknownCommand {
	return &UnknownCommand{}
}

// Name returns the command name
func (c *UnknownCommand) Name() string {
	return "unknown"
}

// Execute tells the sender the command does not exist
func (c *UnknownCommand) Execute(ctx *Context) error {
	return ctx.Reply(fmt.Sprintf("Sorry %s, I don't know the command %s%s.", ctx.Nick, DefaultPrefix, ctx.Command))
}

// Help returns help text for this command
func (c *UnknownCommand) Help() string {
	return ""
}

// Async reports whether the command runs on its own goroutine
func (c *UnknownCommand) Async() bool {
	return false
}
