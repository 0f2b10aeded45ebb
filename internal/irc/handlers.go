package irc

import (
	"strconv"
	"strings"

	"github.com/yourusername/ludbot/internal/commands"
	boterrors "github.com/yourusername/ludbot/internal/errors"
)

// Event types written to the event log
const (
	EventJoin  = "JOIN"
	EventPart  = "PART"
	EventQuit  = "QUIT"
	EventTopic = "TOPIC"
)

// onJoin starts a fresh channel on our own JOIN and adds anyone else to it
func (s *Session) onJoin(msg Message) error {
	nick := msg.Nick()
	fields := strings.Fields(strings.TrimPrefix(msg.Params, ":"))
	if len(fields) == 0 {
		s.logger.Warning("JOIN from %s without a channel", nick)
		return nil
	}
	name := strings.TrimPrefix(fields[0], "#")

	if nick == s.Nickname() {
		ch := NewChannel(name)
		ch.AddUser(nick)
		s.setChannel(ch)
		s.logger.Success("Joined #%s as %s", name, nick)
		s.recordEvent(EventJoin, name, nick, "")
		return nil
	}

	ch := s.Channel()
	if ch == nil {
		s.logger.Warning("Ignoring JOIN of %s to #%s: no channel joined", nick, name)
		return nil
	}
	ch.AddUser(nick)
	s.logger.Log("%s joined #%s", nick, ch.Name())
	s.recordEvent(EventJoin, ch.Name(), nick, "")
	return nil
}

func (s *Session) onPing(msg Message) error {
	return s.Pong(msg.Params)
}

// onPrivmsg routes channel commands and private messages to the commands
func (s *Session) onPrivmsg(msg Message) error {
	nick := msg.Nick()
	target, text, _ := strings.Cut(msg.Params, ":")
	target = stripMembershipPrefix(strings.TrimSpace(target))

	req := commands.Request{
		Nick:    nick,
		Target:  target,
		Message: text,
	}

	if strings.HasPrefix(target, "#") {
		s.logger.ChannelMessage(target, nick, text)
		if s.commands == nil || !s.commands.IsCommand(text) {
			return nil
		}
		if ch := s.Channel(); ch != nil {
			req.Members = ch.Users()
		}
		s.commands.Dispatch(s, req)
		return nil
	}

	s.logger.PrivateMessage(nick, text)
	if s.commands != nil {
		s.commands.DispatchPrivate(s, req)
	}
	return nil
}

// onLeave handles PART and QUIT
func (s *Session) onLeave(msg Message) error {
	nick := msg.Nick()
	ch := s.Channel()
	if ch == nil {
		return nil
	}

	eventType := EventPart
	if msg.Kind() == CommandQuit {
		eventType = EventQuit
	}
	s.recordEvent(eventType, ch.Name(), nick, msg.Trailing())

	if nick == s.Nickname() {
		s.setChannel(nil)
		s.logger.Info("Left #%s", ch.Name())
		return nil
	}

	ch.RemoveUser(nick)
	s.logger.ChannelInfo(ch.Name(), ch.Topic(), ch.Users())
	return nil
}

// onBanner logs 001-003. 001 marks the registration as accepted.
func (s *Session) onBanner(msg Message) error {
	if msg.Kind() == RplWelcome {
		s.mu.Lock()
		s.registered = true
		s.mu.Unlock()
	}
	s.logger.Info("%s", msg.Trailing())
	return nil
}

func (s *Session) onServerInfo(msg Message) error {
	text := msg.Trailing()
	if text == "" {
		text = msg.Params
	}
	s.logger.Log("%s", text)
	return nil
}

func (s *Session) onNoTopic(msg Message) error {
	ch := s.Channel()
	if ch == nil {
		return nil
	}
	ch.SetTopic("")
	return nil
}

func (s *Session) onTopic(msg Message) error {
	ch := s.Channel()
	if ch == nil {
		return nil
	}
	topic := msg.Trailing()
	ch.SetTopic(topic)
	s.recordEvent(EventTopic, ch.Name(), msg.Nick(), topic)
	return nil
}

// onNames adds each listed nick, minus one status prefix, to the channel
func (s *Session) onNames(msg Message) error {
	ch := s.Channel()
	if ch == nil {
		s.logger.Warning("Ignoring names list: no channel joined")
		return nil
	}
	for _, name := range strings.Fields(msg.Trailing()) {
		ch.AddUser(stripMembershipPrefix(name))
	}
	return nil
}

func (s *Session) onEndOfNames(msg Message) error {
	ch := s.Channel()
	if ch == nil {
		return nil
	}
	s.logger.ChannelInfo(ch.Name(), ch.Topic(), ch.Users())
	return nil
}

// onNicknameInUse moves to the next suffixed nickname and registers again.
// Running out of suffixes ends the session.
func (s *Session) onNicknameInUse(msg Message) error {
	current := s.Nickname()
	next, err := nextNickname(s.params.Nickname, current, s.maxNickSuffix)
	if err != nil {
		s.out.LogErrorToFile("NicknameExhausted", "Could not find a free nickname", err)
		if derr := s.Disconnect(); derr != nil {
			s.logger.Warning("Disconnect failed: %v", derr)
		}
		return err
	}

	s.logger.Warning("Nickname %s is in use, trying %s", current, next)
	s.setNickname(next)
	return s.Register()
}

// nextNickname returns base1 for the first collision and increments the
// numeric suffix after that
func nextNickname(base, current string, limit int) (string, error) {
	suffix := 0
	if rest, ok := strings.CutPrefix(current, base); ok && rest != "" {
		n, err := strconv.Atoi(rest)
		if err == nil {
			suffix = n
		}
	}

	suffix++
	if suffix > limit {
		return "", boterrors.NewNicknameExhaustedError(base, limit)
	}
	return base + strconv.Itoa(suffix), nil
}
