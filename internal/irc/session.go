// Package irc implements the protocol engine: framing, parsing, dispatch and
// the session state machine for a single server connection.
package irc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/ergochat/irc-go/ircutils"
	"github.com/yourusername/ludbot/internal/commands"
	"github.com/yourusername/ludbot/internal/config"
	boterrors "github.com/yourusername/ludbot/internal/errors"
	"github.com/yourusername/ludbot/internal/output"
	"github.com/yourusername/ludbot/internal/splitter"
)

const readBufferSize = 4096

// DialFunc opens the transport connection
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// CommandRunner receives bot commands found in PRIVMSG traffic
type CommandRunner interface {
	IsCommand(message string) bool
	Dispatch(sender commands.Sender, req commands.Request)
	DispatchPrivate(sender commands.Sender, req commands.Request)
}

// EventLog stores channel events
type EventLog interface {
	LogEvent(eventType, channel, nick, content string) error
}

// Options configures a Session
type Options struct {
	Params           config.ConnectionParams
	Output           *output.Output
	Commands         CommandRunner
	Events           EventLog
	Dial             DialFunc
	ConnectTimeout   time.Duration
	MaxNickSuffix    int
	MaxMessageLength int
}

// Session owns one server connection and the channel joined over it
type Session struct {
	params         config.ConnectionParams
	out            *output.Output
	logger         output.Logger
	commands       CommandRunner
	events         EventLog
	dial           DialFunc
	connectTimeout time.Duration
	maxNickSuffix  int
	splitter       *splitter.Splitter

	codec  *Codec
	framer *Framer // receive loop only

	writeMu sync.Mutex // serializes socket writes

	mu         sync.RWMutex
	conn       net.Conn
	connected  bool
	closing    bool
	registered bool
	nick       string
	channel    *Channel
}

// NewSession creates a disconnected session
func NewSession(opts Options) (*Session, error) {
	codec, err := NewCodec(opts.Params.Encoding)
	if err != nil {
		return nil, err
	}
	if opts.Output == nil {
		opts.Output = &output.Output{Logger: output.NewColorLogger()}
	}
	if opts.Dial == nil {
		opts.Dial = (&net.Dialer{}).DialContext
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if opts.MaxNickSuffix <= 0 {
		opts.MaxNickSuffix = 99
	}
	if opts.MaxMessageLength <= 0 {
		opts.MaxMessageLength = 400
	}

	return &Session{
		params:         opts.Params,
		out:            opts.Output,
		logger:         opts.Output.Logger,
		commands:       opts.Commands,
		events:         opts.Events,
		dial:           opts.Dial,
		connectTimeout: opts.ConnectTimeout,
		maxNickSuffix:  opts.MaxNickSuffix,
		splitter:       splitter.New(opts.MaxMessageLength),
		codec:          codec,
		framer:         NewFramer(codec),
		nick:           opts.Params.Nickname,
	}, nil
}

// Connect opens the socket. An existing socket is closed first.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.conn != nil {
		s.logger.Log("Overriding previous socket setup.")
		_ = s.conn.Close()
		s.conn = nil
		s.connected = false
	} else {
		s.logger.Log("Initialising socket.")
	}
	s.mu.Unlock()

	address := net.JoinHostPort(s.params.Host, strconv.Itoa(s.params.Port))
	network := s.params.Family.Network()
	s.logger.Info("Attempting to connect to %s over %s.", address, network)

	dialCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()

	conn, err := s.dial(dialCtx, network, address)
	if err != nil {
		return boterrors.NewConnectionError("Could not connect to server.", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.closing = false
	s.registered = false
	s.mu.Unlock()
	s.framer.Reset()

	s.logger.Success("Connection established successfully.")
	return nil
}

// Register sends the NICK, USER and JOIN sequence for the current nickname
func (s *Session) Register() error {
	nick := s.Nickname()
	if err := s.Nick(nick); err != nil {
		return err
	}
	if err := s.User(nick, nick); err != nil {
		return err
	}
	return s.Join(s.params.Channel, s.params.ChannelKey)
}

// Listen runs the receive loop until the connection ends. A Disconnect call
// ends it cleanly with a nil error; a server close is a ConnectionError.
func (s *Session) Listen() error {
	s.mu.RLock()
	conn, closing := s.conn, s.closing
	s.mu.RUnlock()
	if conn == nil {
		if closing {
			return nil
		}
		return boterrors.NewNotConnectedError("LISTEN")
	}

	buf := make([]byte, readBufferSize)
	for {
		n, readErr := conn.Read(buf)
		if n > 0 {
			if err := s.handleData(buf[:n]); err != nil {
				return err
			}
		}
		if readErr == nil {
			continue
		}

		if s.isClosing() {
			return nil
		}
		s.dropConnection()
		if errors.Is(readErr, io.EOF) {
			return boterrors.NewConnectionError("Connection closed by server.", nil)
		}
		return boterrors.NewConnectionError("Connection lost.", readErr)
	}
}

// handleData frames, parses and dispatches one read. The returned error ends
// the session.
func (s *Session) handleData(data []byte) error {
	for line, err := range s.framer.Feed(data) {
		if err != nil {
			s.out.LogErrorToFile("Framing", "Could not decode data from server", err)
			_ = s.Disconnect()
			return err
		}

		if err := s.dispatch(ParseMessage(line)); err != nil {
			if boterrors.IsType(err, boterrors.ErrorTypeNicknameExhausted) {
				return err
			}
			s.logger.Warning("Failed to handle %q: %v", line, err)
		}
	}
	return nil
}

// Disconnect sends QUIT and closes the socket. The channel is dropped.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	s.mu.Unlock()

	if err := s.Quit(s.Nickname() + " is shutting down."); err != nil {
		s.logger.Warning("Failed to send QUIT: %v", err)
	}

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.connected = false
	s.channel = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	if cr, ok := conn.(interface{ CloseRead() error }); ok {
		_ = cr.CloseRead()
	}
	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	s.logger.Info("Disconnected from server.")
	return nil
}

// dropConnection forgets a connection the server already closed
func (s *Session) dropConnection() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.connected = false
	s.channel = nil
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (s *Session) isClosing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closing
}

// Connected reports whether the socket is open
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Registered reports whether the server has welcomed this session
func (s *Session) Registered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registered
}

// Nickname returns the nickname currently in use
func (s *Session) Nickname() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nick
}

func (s *Session) setNickname(nick string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nick = nick
}

// Channel returns the joined channel, or nil
func (s *Session) Channel() *Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channel
}

func (s *Session) setChannel(ch *Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = ch
}

// send writes "<verb> <params>\r\n"
func (s *Session) send(verb, params string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	conn, connected := s.conn, s.connected
	s.mu.RUnlock()
	if !connected || conn == nil {
		return boterrors.NewNotConnectedError(verb)
	}

	data, err := s.codec.Encode(verb + " " + params + "\r\n")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", verb, err)
	}
	if _, err := conn.Write(data); err != nil {
		return boterrors.NewConnectionError("Failed to write to server.", err)
	}
	return nil
}

// Nick sends NICK
func (s *Session) Nick(nickname string) error {
	return s.send("NICK", nickname)
}

// User sends USER with mode 0 and an unused server field
func (s *Session) User(username, realname string) error {
	return s.send("USER", username+" 0 * :"+realname)
}

// Join sends JOIN for channel, given without '#'
func (s *Session) Join(channel, key string) error {
	return s.send("JOIN", "#"+channel+" "+key)
}

// Pong echoes a PING payload
func (s *Session) Pong(token string) error {
	return s.send("PONG", token)
}

// Privmsg sends one PRIVMSG line
func (s *Session) Privmsg(target, text string) error {
	return s.send("PRIVMSG", target+" :"+text)
}

// Quit sends QUIT with message
func (s *Session) Quit(message string) error {
	return s.send("QUIT", ":"+message)
}

// SendMessage sanitises text and sends it to target, split over several
// PRIVMSG lines when it is too long for one
func (s *Session) SendMessage(target, text string) error {
	text = ircutils.SanitizeText(text, 3*len(text)+2)
	parts := s.splitter.Split(text)

	for i, part := range parts {
		if err := s.Privmsg(target, part); err != nil {
			if i == 0 {
				return err
			}
			return splitter.NewPartialSendFailure(i, len(parts), err)
		}
	}
	return nil
}

func (s *Session) recordEvent(eventType, channel, nick, content string) {
	if s.events == nil {
		return
	}
	if err := s.events.LogEvent(eventType, channel, nick, content); err != nil {
		s.logger.Warning("Failed to record %s event: %v", eventType, err)
	}
}
