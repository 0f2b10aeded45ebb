package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger defines the interface for the bot's leveled console output.
// Implementations must never fail the caller.
type Logger interface {
	Info(format string, args ...interface{})
	Log(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	ChannelInfo(channel, topic string, users []string)
	ChannelMessage(channel, nick, message string)
	PrivateMessage(nick, message string)
}

// ColorLogger implements Logger with colored terminal output
type ColorLogger struct {
	out io.Writer
	mu  sync.Mutex

	infoColor    *color.Color
	logColor     *color.Color
	successColor *color.Color
	warningColor *color.Color
	errorColor   *color.Color
	channelColor *color.Color
	pmColor      *color.Color
	nickColor    *color.Color
}

// NewColorLogger creates a new ColorLogger writing to stdout
func NewColorLogger() *ColorLogger {
	return NewColorLoggerTo(color.Output)
}

// NewColorLoggerTo creates a ColorLogger writing to w
func NewColorLoggerTo(w io.Writer) *ColorLogger {
	if w == nil {
		w = os.Stdout
	}
	return &ColorLogger{
		out:          w,
		infoColor:    color.New(color.FgCyan),
		logColor:     color.New(color.FgYellow),
		successColor: color.New(color.FgGreen, color.Bold),
		warningColor: color.New(color.FgYellow, color.Bold),
		errorColor:   color.New(color.FgRed, color.Bold),
		channelColor: color.New(color.FgMagenta, color.Bold),
		pmColor:      color.New(color.FgBlue, color.Bold),
		nickColor:    color.New(color.FgGreen),
	}
}

func (l *ColorLogger) leveled(c *color.Color, level, format string, args []interface{}) {
	timestamp := time.Now().Format("15:04:05")
	message := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.out, "[%s] ", timestamp)
	_, _ = c.Fprintf(l.out, "%s: ", level)
	_, _ = fmt.Fprintln(l.out, message)
}

// Info prints an informational message in cyan
func (l *ColorLogger) Info(format string, args ...interface{}) {
	l.leveled(l.infoColor, "INFO", format, args)
}

// Log prints a protocol-level trace message in yellow
func (l *ColorLogger) Log(format string, args ...interface{}) {
	l.leveled(l.logColor, "LOG", format, args)
}

// Success prints a success message in bold green
func (l *ColorLogger) Success(format string, args ...interface{}) {
	l.leveled(l.successColor, "SUCCESS", format, args)
}

// Warning prints a warning message in bold yellow
func (l *ColorLogger) Warning(format string, args ...interface{}) {
	l.leveled(l.warningColor, "WARNING", format, args)
}

// Error prints an error message in bold red
func (l *ColorLogger) Error(format string, args ...interface{}) {
	l.leveled(l.errorColor, "ERROR", format, args)
}

// ChannelInfo prints the tracked channel summary
// Format: three CHANNEL INFO lines (channel, topic, users)
func (l *ColorLogger) ChannelInfo(channel, topic string, users []string) {
	if topic == "" {
		topic = "(none)"
	}
	lines := []string{
		"Current Channel: #" + channel,
		"Topic: " + topic,
		"Users: " + strings.Join(users, ", "),
	}

	timestamp := time.Now().Format("15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range lines {
		_, _ = fmt.Fprintf(l.out, "[%s] ", timestamp)
		_, _ = l.channelColor.Fprint(l.out, "CHANNEL INFO: ")
		_, _ = fmt.Fprintln(l.out, line)
	}
}

// ChannelMessage prints a channel message with color-coded formatting
// Format: [HH:MM:SS] #channel <nick> message
func (l *ColorLogger) ChannelMessage(channel, nick, message string) {
	timestamp := time.Now().Format("15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.out, "[%s] ", timestamp)
	_, _ = l.channelColor.Fprintf(l.out, "%s ", channel)
	_, _ = l.nickColor.Fprintf(l.out, "<%s> ", nick)
	_, _ = fmt.Fprintln(l.out, message)
}

// PrivateMessage prints a private message with distinct color formatting
// Format: [HH:MM:SS] PM from nick: message
func (l *ColorLogger) PrivateMessage(nick, message string) {
	timestamp := time.Now().Format("15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.out, "[%s] ", timestamp)
	_, _ = l.pmColor.Fprint(l.out, "PM from ")
	_, _ = l.nickColor.Fprintf(l.out, "%s: ", nick)
	_, _ = fmt.Fprintln(l.out, message)
}
