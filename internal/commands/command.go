package commands

import (
	"strings"
	"time"
)

// Command represents a bot command that can be executed
type Command interface {
	// Name returns the command name (without prefix)
	Name() string

	// Execute runs the command with the given context
	Execute(ctx *Context) error

	// Help returns help text for this command
	Help() string

	// Async reports whether the command runs on its own goroutine. Commands
	// that call a content provider must, so the receive loop never waits.
	Async() bool
}

// Sender delivers reply text to a channel or nick
type Sender interface {
	SendMessage(target, text string) error
}

// Request is a PRIVMSG addressed to the bot
type Request struct {
	Nick    string   // sender
	Target  string   // "#channel", or the bot's nick for private messages
	Message string   // full message text
	Members []string // channel membership snapshot
}

// Context contains all information needed to execute a command
type Context struct {
	// Command name (without prefix)
	Command string

	// Text after the first space, untrimmed
	Args string

	// Raw message text
	RawMessage string

	// Sender information
	Nick string

	// Channel information (empty for PMs)
	Channel string
	IsPM    bool

	// Membership snapshot taken when the command was received
	Members []string

	// Invocation time
	Now time.Time

	sender Sender
}

// NewContext creates a new command context
func NewContext(command, args, rawMessage, nick, channel string, isPM bool, members []string, now time.Time, sender Sender) *Context {
	return &Context{
		Command:    command,
		Args:       args,
		RawMessage: rawMessage,
		Nick:       nick,
		Channel:    channel,
		IsPM:       isPM,
		Members:    members,
		Now:        now,
		sender:     sender,
	}
}

// ReplyTarget is the channel, or the sender for private messages
func (c *Context) ReplyTarget() string {
	if c.IsPM || c.Channel == "" {
		return c.Nick
	}
	return c.Channel
}

// Reply sends text back to where the command came from
func (c *Context) Reply(text string) error {
	return c.sender.SendMessage(c.ReplyTarget(), text)
}

// Target returns the trimmed argument text and whether there was any
func (c *Context) Target() (string, bool) {
	target := strings.TrimSpace(c.Args)
	return target, target != ""
}
