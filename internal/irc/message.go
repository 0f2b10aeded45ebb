package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// Command identifies an inbound verb or numeric the bot understands.
// Anything else is CommandUnknown.
type Command int

const (
	CommandUnknown Command = iota
	CommandJoin
	CommandPing
	CommandPrivmsg
	CommandPart
	CommandQuit
	RplWelcome       // 001
	RplYourHost      // 002
	RplCreated       // 003
	RplMyInfo        // 004
	RplLuserClient   // 251
	RplNoTopic       // 331
	RplTopic         // 332
	RplNamReply      // 353
	RplEndOfNames    // 366
	RplMotd          // 372
	RplMotdStart     // 375
	RplEndOfMotd     // 376
	ErrNoMotd        // 422
	ErrNicknameInUse // 433
)

var commandNames = map[string]Command{
	"JOIN":    CommandJoin,
	"PING":    CommandPing,
	"PRIVMSG": CommandPrivmsg,
	"PART":    CommandPart,
	"QUIT":    CommandQuit,
	"001":     RplWelcome,
	"002":     RplYourHost,
	"003":     RplCreated,
	"004":     RplMyInfo,
	"251":     RplLuserClient,
	"331":     RplNoTopic,
	"332":     RplTopic,
	"353":     RplNamReply,
	"366":     RplEndOfNames,
	"372":     RplMotd,
	"375":     RplMotdStart,
	"376":     RplEndOfMotd,
	"422":     ErrNoMotd,
	"433":     ErrNicknameInUse,
}

// LookupCommand maps a verb or numeric to its Command. The match is exact and
// case-sensitive.
func LookupCommand(name string) Command {
	if c, ok := commandNames[name]; ok {
		return c
	}
	return CommandUnknown
}

// Message is one parsed protocol line. Params is the raw remainder; handlers
// split off the trailing parameter themselves.
type Message struct {
	Prefix  string // includes the leading ':' when present
	Command string
	Params  string
}

// ParseMessage splits a line into prefix, command and params
func ParseMessage(line string) Message {
	var msg Message

	if strings.HasPrefix(line, ":") {
		parts := strings.SplitN(line, " ", 3)
		msg.Prefix = parts[0]
		if len(parts) > 1 {
			msg.Command = parts[1]
		}
		if len(parts) > 2 {
			msg.Params = parts[2]
		}
		return msg
	}

	msg.Command, msg.Params, _ = strings.Cut(line, " ")
	return msg
}

// Kind returns the Command for the message's verb
func (m Message) Kind() Command {
	return LookupCommand(m.Command)
}

// Nick returns the nickname part of the prefix, or "" if there is no prefix
func (m Message) Nick() string {
	nuh, err := ircmsg.ParseNUH(strings.TrimPrefix(m.Prefix, ":"))
	if err != nil {
		return ""
	}
	return nuh.Name
}

// Trailing returns the text after the first ':' in params
func (m Message) Trailing() string {
	_, after, _ := strings.Cut(m.Params, ":")
	return after
}

// String rebuilds the line the message was parsed from
func (m Message) String() string {
	var b strings.Builder
	if m.Prefix != "" {
		b.WriteString(m.Prefix)
		b.WriteByte(' ')
	}
	b.WriteString(m.Command)
	if m.Params != "" {
		b.WriteByte(' ')
		b.WriteString(m.Params)
	}
	return b.String()
}
