package output

import (
	"fmt"
	"strings"
	"sync"
)

// Recorder is a Logger that keeps every line in memory. It is used by tests
// in other packages to assert on what was logged.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(level, format string, args []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, level+": "+fmt.Sprintf(format, args...))
}

func (r *Recorder) Info(format string, args ...interface{})    { r.add("INFO", format, args) }
func (r *Recorder) Log(format string, args ...interface{})     { r.add("LOG", format, args) }
func (r *Recorder) Success(format string, args ...interface{}) { r.add("SUCCESS", format, args) }
func (r *Recorder) Warning(format string, args ...interface{}) { r.add("WARNING", format, args) }
func (r *Recorder) Error(format string, args ...interface{})   { r.add("ERROR", format, args) }

func (r *Recorder) ChannelInfo(channel, topic string, users []string) {
	r.add("CHANNEL INFO", "#%s topic=%q users=%s", []interface{}{channel, topic, strings.Join(users, ",")})
}

func (r *Recorder) ChannelMessage(channel, nick, message string) {
	r.add("CHANNEL", "%s <%s> %s", []interface{}{channel, nick, message})
}

func (r *Recorder) PrivateMessage(nick, message string) {
	r.add("PM", "%s: %s", []interface{}{nick, message})
}

// Lines returns a copy of everything logged so far
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Contains reports whether any logged line contains substr
func (r *Recorder) Contains(substr string) bool {
	for _, line := range r.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
