package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/ludbot/internal/output"
	"github.com/yourusername/ludbot/internal/provider"
)

// JokeCommand implements the !joke command
type JokeCommand struct {
	jokes  provider.JokeProvider
	delay  time.Duration
	logger output.Logger
}

// NewJokeCommand creates a joke command that waits delay between the setup
// and the punchline
func NewJokeCommand(jokes provider.JokeProvider, delay time.Duration, logger output.Logger) *JokeCommand {
	return &JokeCommand{jokes: jokes, delay: delay, logger: logger}
}

// Name returns the command name
func (c *JokeCommand) Name() string {
	return "joke"
}

// Execute tells a joke in two parts, or apologises if none could be fetched
func (c *JokeCommand) Execute(ctx *Context) error {
	joke, err := c.jokes.FetchJoke(context.Background())
	if err != nil {
		c.logger.Warning("Joke for %s failed: %v", ctx.Nick, err)
		return ctx.Reply(fmt.Sprintf("Sorry %s, I couldn't think of a joke right now.", ctx.Nick))
	}

	if err := ctx.Reply(joke.Setup); err != nil {
		return err
	}
	time.Sleep(c.delay)
	return ctx.Reply(joke.Punchline)
}

// Help returns help text for this command
func (c *JokeCommand) Help() string {
	return "!joke - Tell a programming joke"
}

// Async reports whether the command runs on its own goroutine
func (c *JokeCommand) Async() bool {
	return true
}

// FactCommand answers private messages with a random fact
type FactCommand struct {
	facts  provider.FactProvider
	logger output.Logger
}

// NewFactCommand creates a new fact command
func NewFactCommand(facts provider.FactProvider, logger output.Logger) *FactCommand {
	return &FactCommand{facts: facts, logger: logger}
}

// Name returns the command name
func (c *FactCommand) Name() string {
	return "fact"
}

// Execute sends a fact to the sender, or an apology if none could be fetched
func (c *FactCommand) Execute(ctx *Context) error {
	fact, err := c.facts.FetchFact(context.Background())
	if err != nil {
		c.logger.Warning("Fact for %s failed: %v", ctx.Nick, err)
		return ctx.Reply(fmt.Sprintf("Sorry %s, I couldn't find a fact for you right now.", ctx.Nick))
	}
	return ctx.Reply(fact)
}

// Help returns help text for this command
func (c *FactCommand) Help() string {
	return "Send me a private message and I'll tell you a fact"
}

// Async reports whether the command runs on its own goroutine
func (c *FactCommand) Async() bool {
	return true
}
